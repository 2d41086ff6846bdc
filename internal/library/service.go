// Package library implements the command service: the stateful orchestrator
// owning the live forest of commands and groups.
//
// Every mutating operation follows the same cycle: validate, rewrite the
// forest through the tree package, persist the whole forest, then publish a
// library.updated notification. Persistence strictly follows the in-memory
// swap and strictly precedes the notification, so a consumer of the refresh
// signal always observes a forest whose durable copy matches memory. A
// persistence failure surfaces as an error but the in-memory effect stands;
// memory and storage stay diverged until the next successful save.
package library

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/cmdshelf/cmdshelf/internal/clipboard"
	"github.com/cmdshelf/cmdshelf/internal/event"
	"github.com/cmdshelf/cmdshelf/internal/logging"
	"github.com/cmdshelf/cmdshelf/internal/search"
	"github.com/cmdshelf/cmdshelf/internal/shell"
	"github.com/cmdshelf/cmdshelf/internal/storage"
	"github.com/cmdshelf/cmdshelf/internal/tree"
	"github.com/cmdshelf/cmdshelf/pkg/types"
)

// storagePath is the key of the single record holding the forest.
var storagePath = []string{"library"}

// Service owns the live forest and orchestrates user-facing operations.
type Service struct {
	mu        sync.Mutex
	store     *storage.Storage
	forest    []types.TreeNode
	terminal  TerminalSink
	clipboard clipboard.Writer
}

// TerminalSink is the terminal-facing slice of the presentation port.
type TerminalSink interface {
	Name() string
	Send(ctx context.Context, text string) error
}

// Option configures a Service.
type Option func(*Service)

// WithTerminal sets the terminal sink used by Run.
func WithTerminal(sink TerminalSink) Option {
	return func(s *Service) { s.terminal = sink }
}

// WithClipboard sets the clipboard writer used by Copy.
func WithClipboard(w clipboard.Writer) Option {
	return func(s *Service) { s.clipboard = w }
}

// NewService creates a command service backed by the given storage.
func NewService(store *storage.Storage, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted forest into memory. A missing record yields an
// empty forest.
func (s *Service) Load(ctx context.Context) error {
	var data types.CommandData
	err := s.store.Get(ctx, storagePath, &data)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to load library: %w", err)
	}

	s.mu.Lock()
	s.forest = data.Commands
	s.mu.Unlock()

	logging.Info().Int("nodes", len(tree.CollectIDs(data.Commands))).Msg("library loaded")
	return nil
}

// Reload re-reads the persisted forest, replacing memory. Used by the store
// watcher when the library file changes externally.
func (s *Service) Reload(ctx context.Context) error {
	var data types.CommandData
	err := s.store.Get(ctx, storagePath, &data)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to reload library: %w", err)
	}

	s.mu.Lock()
	s.forest = data.Commands
	s.mu.Unlock()

	notify("reload", "")
	return nil
}

// FilePath returns the file backing the library record.
func (s *Service) FilePath() string {
	return s.store.FilePath(storagePath)
}

// generateID returns a fresh unique node id.
func generateID() string {
	return ulid.Make().String()
}

// AddCommand creates a command item and appends it to the group with
// parentID, or to the root when parentID is empty. An empty label defaults
// to the parsed first command word.
func (s *Service) AddCommand(ctx context.Context, label, command, description, parentID string) (*types.CommandItem, error) {
	if command == "" {
		return nil, fmt.Errorf("command text is required")
	}
	if label == "" {
		label = shell.DefaultLabel(command)
	}
	if err := shell.Check(command); err != nil {
		// Advisory only: commands are stored and executed verbatim.
		event.Publish(event.Event{
			Type: event.ToastShown,
			Data: event.ToastShownData{Level: event.ToastWarning, Message: fmt.Sprintf("command does not parse as shell: %v", err)},
		})
	}

	item := &types.CommandItem{
		ID:          generateID(),
		Type:        types.NodeTypeCommand,
		Label:       label,
		Command:     command,
		Description: description,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if parentID != "" {
		if err := s.validateParentLocked(parentID); err != nil {
			return nil, err
		}
		s.forest = tree.InsertIntoGroup(s.forest, parentID, item)
	} else {
		s.forest = append(s.forest, item)
	}

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	notify("add", item.ID)
	return item, nil
}

// AddGroup creates a group with empty children and appends it to the group
// with parentID, or to the root when parentID is empty.
func (s *Service) AddGroup(ctx context.Context, label, parentID string) (*types.CommandGroup, error) {
	if label == "" {
		return nil, fmt.Errorf("group label is required")
	}

	group := &types.CommandGroup{
		ID:       generateID(),
		Type:     types.NodeTypeGroup,
		Label:    label,
		Children: []types.TreeNode{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if parentID != "" {
		if err := s.validateParentLocked(parentID); err != nil {
			return nil, err
		}
		s.forest = tree.InsertIntoGroup(s.forest, parentID, group)
	} else {
		s.forest = append(s.forest, group)
	}

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	notify("add", group.ID)
	return group, nil
}

// Delete removes the node with the given id; deleting a group removes its
// entire subtree.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := tree.FindByID(s.forest, id); !ok {
		return ErrNotFound
	}

	s.forest = tree.Delete(s.forest, id)
	if err := s.persistLocked(ctx); err != nil {
		return err
	}
	notify("delete", id)
	return nil
}

// Update merges the patch into the node with the given id.
func (s *Service) Update(ctx context.Context, id string, patch tree.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := tree.FindByID(s.forest, id); !ok {
		return ErrNotFound
	}

	s.forest = tree.Update(s.forest, id, patch)
	if err := s.persistLocked(ctx); err != nil {
		return err
	}
	notify("update", id)
	return nil
}

// EditCommand applies a patch to a command item. Groups are rejected.
func (s *Service) EditCommand(ctx context.Context, id string, patch tree.Patch) error {
	s.mu.Lock()
	node, ok := tree.FindByID(s.forest, id)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if node.NodeType() != types.NodeTypeCommand {
		return ErrNotCommand
	}
	if patch.Command != nil {
		if err := shell.Check(*patch.Command); err != nil {
			event.Publish(event.Event{
				Type: event.ToastShown,
				Data: event.ToastShownData{Level: event.ToastWarning, Message: fmt.Sprintf("command does not parse as shell: %v", err)},
			})
		}
	}
	return s.Update(ctx, id, patch)
}

// RenameGroup renames a group. Command items are rejected.
func (s *Service) RenameGroup(ctx context.Context, id, label string) error {
	s.mu.Lock()
	node, ok := tree.FindByID(s.forest, id)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if node.NodeType() != types.NodeTypeGroup {
		return ErrNotGroup
	}
	return s.Update(ctx, id, tree.Patch{Label: &label})
}

// MoveUp swaps the node with its predecessor in its containing sequence.
// The boundary is a no-op: nothing is persisted and no notification is
// emitted.
func (s *Service) MoveUp(ctx context.Context, id string) error {
	return s.swap(ctx, id, tree.MoveUp)
}

// MoveDown swaps the node with its successor in its containing sequence.
func (s *Service) MoveDown(ctx context.Context, id string) error {
	return s.swap(ctx, id, tree.MoveDown)
}

func (s *Service) swap(ctx context.Context, id string, op func([]types.TreeNode, string) ([]types.TreeNode, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	forest, moved := op(s.forest, id)
	if !moved {
		return nil
	}

	s.forest = forest
	if err := s.persistLocked(ctx); err != nil {
		return err
	}
	notify("move", id)
	return nil
}

// Move detaches the source node and reinserts it relative to the target.
func (s *Service) Move(ctx context.Context, sourceID, targetID string, pos tree.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	source, ok := tree.FindByID(s.forest, sourceID)
	if !ok {
		return ErrNotFound
	}
	if _, ok := tree.FindByID(s.forest, targetID); !ok {
		return ErrNotFound
	}
	if tree.Contains(source, targetID) {
		return ErrInvalidMove
	}

	s.forest = tree.Move(s.forest, sourceID, targetID, pos)
	if err := s.persistLocked(ctx); err != nil {
		return err
	}
	notify("move", sourceID)
	return nil
}

// Drop applies drag-and-drop semantics: no target moves the node to the end
// of the root sequence, a group target appends inside it, and an item
// target places the node immediately after it.
func (s *Service) Drop(ctx context.Context, sourceID, targetID string) error {
	if targetID == "" {
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := tree.FindByID(s.forest, sourceID); !ok {
			return ErrNotFound
		}
		s.forest = tree.MoveToRoot(s.forest, sourceID)
		if err := s.persistLocked(ctx); err != nil {
			return err
		}
		notify("move", sourceID)
		return nil
	}

	s.mu.Lock()
	target, ok := tree.FindByID(s.forest, targetID)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	if target.NodeType() == types.NodeTypeGroup {
		return s.Move(ctx, sourceID, targetID, tree.PositionInside)
	}
	return s.Move(ctx, sourceID, targetID, tree.PositionAfter)
}

// Import replaces the entire forest with the nodes of the given JSON
// document. Only the presence of a commands array is validated: nodes are
// taken as-is, with no id-collision or per-node schema checks. This is a
// trust boundary.
func (s *Service) Import(ctx context.Context, raw []byte) error {
	nodes, err := DecodeDocument(raw, FormatJSON)
	if err != nil {
		return err
	}
	return s.Replace(ctx, nodes)
}

// Replace swaps in an externally supplied forest wholesale.
func (s *Service) Replace(ctx context.Context, nodes []types.TreeNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.forest = nodes
	if err := s.persistLocked(ctx); err != nil {
		return err
	}
	notify("import", "")
	return nil
}

// Export returns the canonical pretty-printed library document.
func (s *Service) Export() ([]byte, error) {
	return EncodeDocument(s.Data(), FormatJSON)
}

// Data returns a deep copy of the live forest. Callers never hold a mutable
// alias into the live tree.
func (s *Service) Data() []types.TreeNode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneForest(s.forest)
}

// Find returns a deep copy of the node with the given id.
func (s *Service) Find(id string) (types.TreeNode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := tree.FindByID(s.forest, id)
	if !ok {
		return nil, false
	}
	return node.Clone(), true
}

// Run hands a command item's text to the terminal sink. Not a structural
// operation: no tree mutation, no persistence.
func (s *Service) Run(ctx context.Context, id string) error {
	item, err := s.findItem(id)
	if err != nil {
		return err
	}
	if s.terminal == nil {
		return ErrNoTerminal
	}
	logging.Debug().Str("id", id).Str("terminal", s.terminal.Name()).Msg("running command")
	return s.terminal.Send(ctx, item.Command)
}

// Copy hands a command item's text to the clipboard writer.
func (s *Service) Copy(ctx context.Context, id string) error {
	item, err := s.findItem(id)
	if err != nil {
		return err
	}
	if s.clipboard == nil {
		return ErrNoClipboard
	}
	return s.clipboard.Write(item.Command)
}

func (s *Service) findItem(id string) (*types.CommandItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := tree.FindByID(s.forest, id)
	if !ok {
		return nil, ErrNotFound
	}
	item, ok := node.(*types.CommandItem)
	if !ok {
		return nil, ErrNotCommand
	}
	return item, nil
}

// Search returns deep copies of the nodes matching the pattern.
func (s *Service) Search(pattern string) []types.TreeNode {
	return search.Match(s.Data(), pattern)
}

// Suggest returns the label closest to the query for "did you mean"
// answers.
func (s *Service) Suggest(query string) (string, bool) {
	return search.Suggest(s.Data(), query, 5)
}

// validateParentLocked checks that parentID resolves to a group. Callers
// hold s.mu.
func (s *Service) validateParentLocked(parentID string) error {
	node, ok := tree.FindByID(s.forest, parentID)
	if !ok {
		return ErrInvalidParent
	}
	if node.NodeType() != types.NodeTypeGroup {
		return ErrInvalidParent
	}
	return nil
}

// persistLocked writes the forest through to storage. Callers hold s.mu, so
// the durable copy never lags a later mutation.
func (s *Service) persistLocked(ctx context.Context) error {
	if err := s.store.Put(ctx, storagePath, types.CommandData{Commands: s.forest}); err != nil {
		logging.Error().Err(err).Msg("failed to persist library")
		return fmt.Errorf("failed to persist library: %w", err)
	}
	return nil
}

func notify(reason, nodeID string) {
	event.Publish(event.Event{
		Type: event.LibraryUpdated,
		Data: event.LibraryUpdatedData{Reason: reason, NodeID: nodeID},
	})
}
