package types

import "encoding/json"

// Node type discriminator values.
const (
	NodeTypeCommand = "command"
	NodeTypeGroup   = "group"
)

// TreeNode represents a node in the command forest: either a command item
// (leaf) or a command group (interior node holding children).
type TreeNode interface {
	NodeType() string
	NodeID() string
	NodeLabel() string
	// Clone returns a deep copy of the node including its subtree.
	Clone() TreeNode
}

// CommandItem is a leaf node holding a shell command.
type CommandItem struct {
	ID          string `json:"id"`
	Type        string `json:"type"` // always "command"
	Label       string `json:"label"`
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
}

func (n *CommandItem) NodeType() string  { return NodeTypeCommand }
func (n *CommandItem) NodeID() string    { return n.ID }
func (n *CommandItem) NodeLabel() string { return n.Label }

func (n *CommandItem) Clone() TreeNode {
	cp := *n
	return &cp
}

// CommandGroup is an interior node holding an ordered sequence of children.
// Child order is display and execution order; it is stored, not derived.
type CommandGroup struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"` // always "group"
	Label    string     `json:"label"`
	Children []TreeNode `json:"children"`
}

func (n *CommandGroup) NodeType() string  { return NodeTypeGroup }
func (n *CommandGroup) NodeID() string    { return n.ID }
func (n *CommandGroup) NodeLabel() string { return n.Label }

func (n *CommandGroup) Clone() TreeNode {
	cp := *n
	cp.Children = CloneForest(n.Children)
	return &cp
}

// MarshalJSON ensures children marshals as [] rather than null so exported
// documents round-trip through import unchanged.
func (n *CommandGroup) MarshalJSON() ([]byte, error) {
	type alias CommandGroup
	cp := alias(*n)
	if cp.Children == nil {
		cp.Children = []TreeNode{}
	}
	return json.Marshal(cp)
}

// UnmarshalJSON decodes a group, recursively decoding each child through
// UnmarshalNode.
func (n *CommandGroup) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string            `json:"id"`
		Type     string            `json:"type"`
		Label    string            `json:"label"`
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	n.ID = raw.ID
	n.Type = raw.Type
	n.Label = raw.Label
	n.Children = make([]TreeNode, 0, len(raw.Children))
	for _, c := range raw.Children {
		child, err := UnmarshalNode(c)
		if err != nil {
			return err
		}
		n.Children = append(n.Children, child)
	}
	return nil
}

// CommandData is the persisted unit of state: the root-level forest.
type CommandData struct {
	Commands []TreeNode `json:"commands"`
}

// MarshalJSON ensures commands marshals as [] rather than null.
func (d CommandData) MarshalJSON() ([]byte, error) {
	type alias CommandData
	cp := alias(d)
	if cp.Commands == nil {
		cp.Commands = []TreeNode{}
	}
	return json.Marshal(cp)
}

// UnmarshalJSON decodes the forest, decoding each node through UnmarshalNode.
func (d *CommandData) UnmarshalJSON(data []byte) error {
	var raw struct {
		Commands []json.RawMessage `json:"commands"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Commands = make([]TreeNode, 0, len(raw.Commands))
	for _, c := range raw.Commands {
		node, err := UnmarshalNode(c)
		if err != nil {
			return err
		}
		d.Commands = append(d.Commands, node)
	}
	return nil
}

// RawNode is used for JSON unmarshaling of tree nodes.
type RawNode struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// UnmarshalNode unmarshals a JSON node into the appropriate type.
func UnmarshalNode(data []byte) (TreeNode, error) {
	var raw RawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	switch raw.Type {
	case NodeTypeGroup:
		var n CommandGroup
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &n, nil
	case NodeTypeCommand:
		var n CommandItem
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &n, nil
	default:
		// Decode unknown types as command items
		var n CommandItem
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return &n, nil
	}
}

// CloneForest deep-copies a sequence of nodes including their subtrees.
func CloneForest(forest []TreeNode) []TreeNode {
	if forest == nil {
		return nil
	}
	out := make([]TreeNode, len(forest))
	for i, n := range forest {
		out[i] = n.Clone()
	}
	return out
}
