package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdshelf/cmdshelf/pkg/types"
)

func TestBuildItems(t *testing.T) {
	forest := []types.TreeNode{
		&types.CommandGroup{ID: "g1", Type: types.NodeTypeGroup, Label: "Docker", Children: []types.TreeNode{
			&types.CommandItem{ID: "c1", Type: types.NodeTypeCommand, Label: "up", Command: "docker-compose up -d", Description: "start stack"},
		}},
		&types.CommandItem{ID: "c2", Type: types.NodeTypeCommand, Label: "ls", Command: "ls -la"},
	}

	items := BuildItems(forest)
	require.Len(t, items, 2)

	group := items[0]
	assert.Equal(t, "g1", group.ID)
	assert.Equal(t, "folder", group.Icon)
	assert.Equal(t, ContextGroup, group.ContextValue)
	assert.Equal(t, CollapsibleCollapsed, group.Collapsible)
	require.Len(t, group.Children, 1)

	child := group.Children[0]
	assert.Equal(t, "c1", child.ID)
	assert.Equal(t, "terminal", child.Icon)
	assert.Equal(t, ContextCommand, child.ContextValue)
	assert.Equal(t, CollapsibleNone, child.Collapsible)
	assert.Contains(t, child.Tooltip, "docker-compose up -d")
	assert.Contains(t, child.Tooltip, "start stack")

	leaf := items[1]
	assert.Equal(t, "ls -la", leaf.Tooltip)
	assert.Empty(t, leaf.Children)
}

func TestDragPayload_RoundTrip(t *testing.T) {
	group := &types.CommandGroup{ID: "g1", Type: types.NodeTypeGroup, Label: "Docker", Children: []types.TreeNode{
		&types.CommandItem{ID: "c1", Type: types.NodeTypeCommand, Label: "up", Command: "docker-compose up -d"},
	}}

	data, err := EncodeDragPayload(group)
	require.NoError(t, err)

	node, err := DecodeDragPayload(data)
	require.NoError(t, err)

	decoded, ok := node.(*types.CommandGroup)
	require.True(t, ok)
	assert.Equal(t, "g1", decoded.ID)
	require.Len(t, decoded.Children, 1)
	assert.Equal(t, "c1", decoded.Children[0].NodeID())
}

func TestDecodeDragPayload_RejectsMultiNode(t *testing.T) {
	_, err := DecodeDragPayload([]byte(`[{"id":"a","type":"command"},{"id":"b","type":"command"}]`))
	assert.Error(t, err)

	_, err = DecodeDragPayload([]byte(`[]`))
	assert.Error(t, err)

	_, err = DecodeDragPayload([]byte(`not json`))
	assert.Error(t, err)
}
