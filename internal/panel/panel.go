// Package panel projects the command forest into the render model consumed
// by editor side panels, and defines the drag-and-drop transfer payload.
package panel

import (
	"encoding/json"
	"fmt"

	"github.com/cmdshelf/cmdshelf/pkg/types"
)

// DragMimeType tags drag payloads so only cmdshelf drop targets accept them.
const DragMimeType = "application/vnd.cmdshelf.tree-node+json"

// Collapsible states for rendered items.
const (
	CollapsibleNone      = "none"      // leaf
	CollapsibleCollapsed = "collapsed" // group, children hidden
)

// Context identifiers drive which actions the host shows per item.
const (
	ContextCommand = "commandItem"
	ContextGroup   = "commandGroup"
)

// Item is the render model for one tree node.
type Item struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Description  string `json:"description,omitempty"`
	Icon         string `json:"icon"`
	Tooltip      string `json:"tooltip,omitempty"`
	ContextValue string `json:"contextValue"`
	Collapsible  string `json:"collapsible"`
	Children     []Item `json:"children,omitempty"`
}

// BuildItems projects a forest into render items, preserving order.
func BuildItems(forest []types.TreeNode) []Item {
	items := make([]Item, 0, len(forest))
	for _, n := range forest {
		items = append(items, buildItem(n))
	}
	return items
}

func buildItem(n types.TreeNode) Item {
	switch node := n.(type) {
	case *types.CommandGroup:
		return Item{
			ID:           node.ID,
			Label:        node.Label,
			Icon:         "folder",
			ContextValue: ContextGroup,
			Collapsible:  CollapsibleCollapsed,
			Children:     BuildItems(node.Children),
		}
	case *types.CommandItem:
		tooltip := node.Command
		if node.Description != "" {
			tooltip = fmt.Sprintf("%s\n%s", node.Command, node.Description)
		}
		return Item{
			ID:           node.ID,
			Label:        node.Label,
			Description:  node.Description,
			Icon:         "terminal",
			Tooltip:      tooltip,
			ContextValue: ContextCommand,
			Collapsible:  CollapsibleNone,
		}
	}
	return Item{ID: n.NodeID(), Label: n.NodeLabel(), Collapsible: CollapsibleNone}
}

// EncodeDragPayload serializes the dragged node as the transfer payload: a
// single-element array holding a structural copy of the node, including its
// full subtree for groups.
func EncodeDragPayload(node types.TreeNode) ([]byte, error) {
	return json.Marshal([]types.TreeNode{node.Clone()})
}

// DecodeDragPayload parses a transfer payload. Only single-node drags are
// supported.
func DecodeDragPayload(data []byte) (types.TreeNode, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid drag payload: %w", err)
	}
	if len(raw) != 1 {
		return nil, fmt.Errorf("drag payload must hold exactly one node, got %d", len(raw))
	}
	return types.UnmarshalNode(raw[0])
}
