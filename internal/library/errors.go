package library

import "errors"

var (
	// ErrNotFound is returned when an id does not resolve to a node.
	ErrNotFound = errors.New("node not found")
	// ErrNotCommand is returned when an item-only operation targets a group.
	ErrNotCommand = errors.New("node is not a command")
	// ErrNotGroup is returned when a group-only operation targets an item.
	ErrNotGroup = errors.New("node is not a group")
	// ErrInvalidParent is returned when a parent id does not resolve to a group.
	ErrInvalidParent = errors.New("parent is not a group")
	// ErrInvalidMove is returned when a group would move inside its own subtree.
	ErrInvalidMove = errors.New("cannot move a group inside its own subtree")
	// ErrBadImport is returned when an import document is missing a commands array.
	ErrBadImport = errors.New("import document must contain a commands array")
	// ErrNoTerminal is returned when no terminal sink is configured.
	ErrNoTerminal = errors.New("no terminal configured")
	// ErrNoClipboard is returned when no clipboard writer is configured.
	ErrNoClipboard = errors.New("no clipboard configured")
)
