// Package tree implements the structural algorithms over the command forest.
//
// All operations are value-producing: they take a forest, return a new forest
// reflecting the change, and never mutate their input. Untouched branches are
// shared between the input and output; groups on the rewritten path are
// shallow-copied with fresh children slices.
package tree

import (
	"github.com/cmdshelf/cmdshelf/pkg/types"
)

// Position describes where a node is placed relative to a target.
type Position string

const (
	PositionBefore Position = "before"
	PositionAfter  Position = "after"
	PositionInside Position = "inside"
)

// Patch holds a partial update for a node. Nil fields are left unchanged.
// Command and Description apply to command items only.
type Patch struct {
	Label       *string
	Command     *string
	Description *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Label == nil && p.Command == nil && p.Description == nil
}

// FindByID returns the node with the given id, searching depth-first in
// pre-order. Ids are unique, so at most one match exists.
func FindByID(forest []types.TreeNode, id string) (types.TreeNode, bool) {
	for _, n := range forest {
		if n.NodeID() == id {
			return n, true
		}
		if g, ok := n.(*types.CommandGroup); ok {
			if found, ok := FindByID(g.Children, id); ok {
				return found, true
			}
		}
	}
	return nil, false
}

// FindParent returns the group immediately enclosing the node with the given
// id. isRoot is true when the id sits at the top level of the forest.
func FindParent(forest []types.TreeNode, id string) (parent *types.CommandGroup, isRoot bool, found bool) {
	for _, n := range forest {
		if n.NodeID() == id {
			return nil, true, true
		}
	}
	for _, n := range forest {
		if g, ok := n.(*types.CommandGroup); ok {
			if p, ok := findParentIn(g, id); ok {
				return p, false, true
			}
		}
	}
	return nil, false, false
}

func findParentIn(group *types.CommandGroup, id string) (*types.CommandGroup, bool) {
	for _, c := range group.Children {
		if c.NodeID() == id {
			return group, true
		}
	}
	for _, c := range group.Children {
		if g, ok := c.(*types.CommandGroup); ok {
			if p, ok := findParentIn(g, id); ok {
				return p, true
			}
		}
	}
	return nil, false
}

// Delete removes the node with the given id from wherever it is. Deleting a
// group removes its entire subtree. Returns the forest unchanged if the id
// is absent.
func Delete(forest []types.TreeNode, id string) []types.TreeNode {
	out, _ := deleteIn(forest, id)
	return out
}

func deleteIn(forest []types.TreeNode, id string) ([]types.TreeNode, bool) {
	for i, n := range forest {
		if n.NodeID() == id {
			out := make([]types.TreeNode, 0, len(forest)-1)
			out = append(out, forest[:i]...)
			out = append(out, forest[i+1:]...)
			return out, true
		}
		if g, ok := n.(*types.CommandGroup); ok {
			if children, changed := deleteIn(g.Children, id); changed {
				return replaceAt(forest, i, cloneWithChildren(g, children)), true
			}
		}
	}
	return forest, false
}

// Update merges the patch into the node with the given id, leaving siblings
// and descendants untouched. Returns the forest unchanged if the id is
// absent. An empty patch is an identity.
func Update(forest []types.TreeNode, id string, patch Patch) []types.TreeNode {
	out, _ := updateIn(forest, id, patch)
	return out
}

func updateIn(forest []types.TreeNode, id string, patch Patch) ([]types.TreeNode, bool) {
	for i, n := range forest {
		if n.NodeID() == id {
			return replaceAt(forest, i, applyPatch(n, patch)), true
		}
		if g, ok := n.(*types.CommandGroup); ok {
			if children, changed := updateIn(g.Children, id, patch); changed {
				return replaceAt(forest, i, cloneWithChildren(g, children)), true
			}
		}
	}
	return forest, false
}

func applyPatch(n types.TreeNode, patch Patch) types.TreeNode {
	switch node := n.(type) {
	case *types.CommandItem:
		cp := *node
		if patch.Label != nil {
			cp.Label = *patch.Label
		}
		if patch.Command != nil {
			cp.Command = *patch.Command
		}
		if patch.Description != nil {
			cp.Description = *patch.Description
		}
		return &cp
	case *types.CommandGroup:
		cp := *node
		if patch.Label != nil {
			cp.Label = *patch.Label
		}
		return &cp
	}
	return n
}

// InsertIntoGroup appends node to the end of the children of the group with
// the given id. Returns the forest unchanged if the id does not resolve to a
// group anywhere in the tree.
func InsertIntoGroup(forest []types.TreeNode, groupID string, node types.TreeNode) []types.TreeNode {
	out, _ := insertIntoGroupIn(forest, groupID, node)
	return out
}

func insertIntoGroupIn(forest []types.TreeNode, groupID string, node types.TreeNode) ([]types.TreeNode, bool) {
	for i, n := range forest {
		g, ok := n.(*types.CommandGroup)
		if !ok {
			continue
		}
		if g.NodeID() == groupID {
			children := make([]types.TreeNode, 0, len(g.Children)+1)
			children = append(children, g.Children...)
			children = append(children, node)
			return replaceAt(forest, i, cloneWithChildren(g, children)), true
		}
		if children, changed := insertIntoGroupIn(g.Children, groupID, node); changed {
			return replaceAt(forest, i, cloneWithChildren(g, children)), true
		}
	}
	return forest, false
}

// InsertNear splices node immediately before or after the node with the
// given target id, in the same sequence. Returns the forest unchanged if the
// target is absent.
func InsertNear(forest []types.TreeNode, targetID string, node types.TreeNode, pos Position) []types.TreeNode {
	out, _ := insertNearIn(forest, targetID, node, pos)
	return out
}

func insertNearIn(forest []types.TreeNode, targetID string, node types.TreeNode, pos Position) ([]types.TreeNode, bool) {
	for i, n := range forest {
		if n.NodeID() == targetID {
			at := i
			if pos == PositionAfter {
				at = i + 1
			}
			out := make([]types.TreeNode, 0, len(forest)+1)
			out = append(out, forest[:at]...)
			out = append(out, node)
			out = append(out, forest[at:]...)
			return out, true
		}
		if g, ok := n.(*types.CommandGroup); ok {
			if children, changed := insertNearIn(g.Children, targetID, node, pos); changed {
				return replaceAt(forest, i, cloneWithChildren(g, children)), true
			}
		}
	}
	return forest, false
}

// Move detaches the node with sourceID and reinserts it relative to
// targetID: appended to its children for PositionInside, spliced next to it
// otherwise. The forest is returned unchanged when the source is absent,
// when the target cannot be resolved after detaching, or when the move would
// place a group inside its own subtree.
func Move(forest []types.TreeNode, sourceID, targetID string, pos Position) []types.TreeNode {
	source, ok := FindByID(forest, sourceID)
	if !ok {
		return forest
	}
	// An ancestor cannot move into its own descendant: the detached subtree
	// would contain the target and the node would be lost.
	if Contains(source, targetID) {
		return forest
	}

	detached := Delete(forest, sourceID)

	var result []types.TreeNode
	var inserted bool
	switch pos {
	case PositionInside:
		result, inserted = insertIntoGroupIn(detached, targetID, source)
	case PositionBefore, PositionAfter:
		result, inserted = insertNearIn(detached, targetID, source, pos)
	default:
		return forest
	}
	if !inserted {
		return forest
	}
	return result
}

// MoveToRoot detaches the node with the given id and appends it to the end
// of the root sequence. Returns the forest unchanged if the id is absent.
func MoveToRoot(forest []types.TreeNode, id string) []types.TreeNode {
	source, ok := FindByID(forest, id)
	if !ok {
		return forest
	}
	return append(Delete(forest, id), source)
}

// MoveUp swaps the node with its immediate predecessor in its containing
// sequence. The boundary (first element) is a no-op; the second return value
// reports whether a swap happened.
func MoveUp(forest []types.TreeNode, id string) ([]types.TreeNode, bool) {
	return swapIn(forest, id, -1)
}

// MoveDown swaps the node with its immediate successor in its containing
// sequence. The boundary (last element) is a no-op.
func MoveDown(forest []types.TreeNode, id string) ([]types.TreeNode, bool) {
	return swapIn(forest, id, 1)
}

func swapIn(forest []types.TreeNode, id string, delta int) ([]types.TreeNode, bool) {
	for i, n := range forest {
		if n.NodeID() == id {
			j := i + delta
			if j < 0 || j >= len(forest) {
				return forest, false
			}
			out := make([]types.TreeNode, len(forest))
			copy(out, forest)
			out[i], out[j] = out[j], out[i]
			return out, true
		}
		if g, ok := n.(*types.CommandGroup); ok {
			if children, swapped := swapIn(g.Children, id, delta); swapped {
				return replaceAt(forest, i, cloneWithChildren(g, children)), true
			}
		}
	}
	return forest, false
}

// Walk visits every node depth-first in pre-order. Returning false from fn
// stops the walk.
func Walk(forest []types.TreeNode, fn func(types.TreeNode) bool) {
	walkIn(forest, fn)
}

func walkIn(forest []types.TreeNode, fn func(types.TreeNode) bool) bool {
	for _, n := range forest {
		if !fn(n) {
			return false
		}
		if g, ok := n.(*types.CommandGroup); ok {
			if !walkIn(g.Children, fn) {
				return false
			}
		}
	}
	return true
}

// CollectIDs returns every id in the forest in pre-order.
func CollectIDs(forest []types.TreeNode) []string {
	var ids []string
	Walk(forest, func(n types.TreeNode) bool {
		ids = append(ids, n.NodeID())
		return true
	})
	return ids
}

// Contains reports whether the given id appears anywhere in the node's
// subtree, including the node itself.
func Contains(node types.TreeNode, id string) bool {
	if node.NodeID() == id {
		return true
	}
	if g, ok := node.(*types.CommandGroup); ok {
		if _, ok := FindByID(g.Children, id); ok {
			return true
		}
	}
	return false
}

func cloneWithChildren(g *types.CommandGroup, children []types.TreeNode) *types.CommandGroup {
	cp := *g
	cp.Children = children
	return &cp
}

func replaceAt(forest []types.TreeNode, i int, node types.TreeNode) []types.TreeNode {
	out := make([]types.TreeNode, len(forest))
	copy(out, forest)
	out[i] = node
	return out
}
