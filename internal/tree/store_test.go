package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdshelf/cmdshelf/pkg/types"
)

func item(id, label, command string) *types.CommandItem {
	return &types.CommandItem{ID: id, Type: types.NodeTypeCommand, Label: label, Command: command}
}

func group(id, label string, children ...types.TreeNode) *types.CommandGroup {
	return &types.CommandGroup{ID: id, Type: types.NodeTypeGroup, Label: label, Children: children}
}

// testForest builds:
//
//	g1 "Docker"
//	  c1 "up"
//	  g2 "Maintenance"
//	    c2 "prune"
//	c3 "list"
func testForest() []types.TreeNode {
	return []types.TreeNode{
		group("g1", "Docker",
			item("c1", "up", "docker-compose up -d"),
			group("g2", "Maintenance",
				item("c2", "prune", "docker system prune -f"),
			),
		),
		item("c3", "list", "ls -la"),
	}
}

func TestFindByID(t *testing.T) {
	forest := testForest()

	tests := []struct {
		name  string
		id    string
		found bool
	}{
		{"root item", "c3", true},
		{"root group", "g1", true},
		{"nested item", "c1", true},
		{"deeply nested item", "c2", true},
		{"nested group", "g2", true},
		{"absent", "nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, ok := FindByID(forest, tt.id)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.id, node.NodeID())
			}
		})
	}
}

func TestFindParent(t *testing.T) {
	forest := testForest()

	tests := []struct {
		name     string
		id       string
		parentID string
		isRoot   bool
		found    bool
	}{
		{"top-level group", "g1", "", true, true},
		{"top-level item", "c3", "", true, true},
		{"child of g1", "c1", "g1", false, true},
		{"child of nested g2", "c2", "g2", false, true},
		{"nested group itself", "g2", "g1", false, true},
		{"absent", "nope", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent, isRoot, found := FindParent(forest, tt.id)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.isRoot, isRoot)
			if tt.parentID != "" {
				require.NotNil(t, parent)
				assert.Equal(t, tt.parentID, parent.ID)
			} else {
				assert.Nil(t, parent)
			}
		})
	}
}

func TestDelete_NestedItem(t *testing.T) {
	forest := testForest()

	result := Delete(forest, "c1")

	_, ok := FindByID(result, "c1")
	assert.False(t, ok)
	// Input forest is untouched
	_, ok = FindByID(forest, "c1")
	assert.True(t, ok)
}

func TestDelete_GroupCascades(t *testing.T) {
	forest := testForest()

	result := Delete(forest, "g1")

	for _, id := range []string{"g1", "c1", "g2", "c2"} {
		_, ok := FindByID(result, id)
		assert.False(t, ok, "descendant %s should be gone", id)
	}
	_, ok := FindByID(result, "c3")
	assert.True(t, ok)
}

func TestDelete_AbsentIsNoOp(t *testing.T) {
	forest := testForest()

	result := Delete(forest, "nope")

	assert.Equal(t, CollectIDs(forest), CollectIDs(result))
}

func TestUpdate(t *testing.T) {
	forest := testForest()
	label := "restart"
	command := "docker-compose restart"

	result := Update(forest, "c1", Patch{Label: &label, Command: &command})

	node, ok := FindByID(result, "c1")
	require.True(t, ok)
	updated := node.(*types.CommandItem)
	assert.Equal(t, "restart", updated.Label)
	assert.Equal(t, "docker-compose restart", updated.Command)

	// Original untouched
	orig, _ := FindByID(forest, "c1")
	assert.Equal(t, "up", orig.(*types.CommandItem).Label)
}

func TestUpdate_EmptyPatchIsIdentity(t *testing.T) {
	forest := testForest()

	result := Update(forest, "c1", Patch{})

	assert.Equal(t, CollectIDs(forest), CollectIDs(result))
	node, _ := FindByID(result, "c1")
	assert.Equal(t, "up", node.(*types.CommandItem).Label)
}

func TestUpdate_GroupLabelOnly(t *testing.T) {
	forest := testForest()
	label := "Compose"

	result := Update(forest, "g1", Patch{Label: &label})

	node, _ := FindByID(result, "g1")
	renamed := node.(*types.CommandGroup)
	assert.Equal(t, "Compose", renamed.Label)
	// Descendants untouched
	assert.Len(t, renamed.Children, 2)
	child, _ := FindByID(result, "c1")
	assert.Equal(t, "up", child.(*types.CommandItem).Label)
}

func TestInsertIntoGroup(t *testing.T) {
	forest := testForest()

	result := InsertIntoGroup(forest, "g2", item("c4", "logs", "docker-compose logs -f"))

	node, _ := FindByID(result, "g2")
	children := node.(*types.CommandGroup).Children
	require.Len(t, children, 2)
	assert.Equal(t, "c4", children[1].NodeID())
}

func TestInsertIntoGroup_ItemTargetIsNoOp(t *testing.T) {
	forest := testForest()

	result := InsertIntoGroup(forest, "c3", item("c4", "logs", "true"))

	_, ok := FindByID(result, "c4")
	assert.False(t, ok)
}

func TestInsertIntoGroup_AbsentIsNoOp(t *testing.T) {
	forest := testForest()

	result := InsertIntoGroup(forest, "nope", item("c4", "logs", "true"))

	assert.Equal(t, CollectIDs(forest), CollectIDs(result))
}

func TestInsertNear(t *testing.T) {
	tests := []struct {
		name     string
		targetID string
		pos      Position
		wantIDs  []string // child ids of g1 afterward
	}{
		{"before nested", "c1", PositionBefore, []string{"c4", "c1", "g2"}},
		{"after nested", "c1", PositionAfter, []string{"c1", "c4", "g2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := InsertNear(testForest(), tt.targetID, item("c4", "logs", "true"), tt.pos)

			node, _ := FindByID(result, "g1")
			children := node.(*types.CommandGroup).Children
			ids := make([]string, len(children))
			for i, c := range children {
				ids[i] = c.NodeID()
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestInsertNear_RootLevel(t *testing.T) {
	result := InsertNear(testForest(), "c3", item("c4", "logs", "true"), PositionBefore)

	require.Len(t, result, 3)
	assert.Equal(t, "c4", result[1].NodeID())
	assert.Equal(t, "c3", result[2].NodeID())
}

func TestInsertNear_AbsentIsNoOp(t *testing.T) {
	forest := testForest()

	result := InsertNear(forest, "nope", item("c4", "logs", "true"), PositionAfter)

	assert.Equal(t, CollectIDs(forest), CollectIDs(result))
}

func TestMove_IntoGroup(t *testing.T) {
	forest := testForest()

	result := Move(forest, "c3", "g2", PositionInside)

	node, _ := FindByID(result, "g2")
	children := node.(*types.CommandGroup).Children
	require.Len(t, children, 2)
	assert.Equal(t, "c3", children[1].NodeID())
	// No longer at root
	require.Len(t, result, 1)
}

func TestMove_AfterNode(t *testing.T) {
	forest := testForest()

	result := Move(forest, "c2", "c1", PositionAfter)

	node, _ := FindByID(result, "g1")
	children := node.(*types.CommandGroup).Children
	require.Len(t, children, 3)
	assert.Equal(t, "c1", children[0].NodeID())
	assert.Equal(t, "c2", children[1].NodeID())
	assert.Equal(t, "g2", children[2].NodeID())

	g2, _ := FindByID(result, "g2")
	assert.Empty(t, g2.(*types.CommandGroup).Children)
}

func TestMove_OnlyChildInsideOwnParentIsStable(t *testing.T) {
	forest := []types.TreeNode{
		group("g1", "Docker", item("c1", "up", "docker-compose up -d")),
	}

	result := Move(forest, "c1", "g1", PositionInside)

	node, _ := FindByID(result, "g1")
	children := node.(*types.CommandGroup).Children
	require.Len(t, children, 1)
	assert.Equal(t, "c1", children[0].NodeID())
}

func TestMove_SourceAbsentIsNoOp(t *testing.T) {
	forest := testForest()

	result := Move(forest, "nope", "g1", PositionInside)

	assert.Equal(t, CollectIDs(forest), CollectIDs(result))
}

func TestMove_GroupIntoOwnDescendantRejected(t *testing.T) {
	forest := testForest()

	result := Move(forest, "g1", "g2", PositionInside)

	assert.Equal(t, CollectIDs(forest), CollectIDs(result))
	_, ok := FindByID(result, "g1")
	assert.True(t, ok)
}

func TestMove_TargetAbsentIsNoOp(t *testing.T) {
	forest := testForest()

	result := Move(forest, "c1", "nope", PositionAfter)

	assert.Equal(t, CollectIDs(forest), CollectIDs(result))
}

func TestMove_PreservesIDUniqueness(t *testing.T) {
	forest := testForest()

	moves := []struct {
		source, target string
		pos            Position
	}{
		{"c1", "c3", PositionBefore},
		{"c2", "g1", PositionInside},
		{"g2", "c3", PositionAfter},
		{"c1", "g2", PositionInside},
	}

	for _, m := range moves {
		forest = Move(forest, m.source, m.target, m.pos)
		seen := map[string]bool{}
		for _, id := range CollectIDs(forest) {
			assert.False(t, seen[id], "duplicate id %s after moving %s", id, m.source)
			seen[id] = true
		}
	}
	assert.Len(t, CollectIDs(forest), 5)
}

func TestMoveToRoot(t *testing.T) {
	forest := []types.TreeNode{
		group("g1", "Docker", item("c1", "up", "docker-compose up -d")),
	}

	result := MoveToRoot(forest, "c1")

	require.Len(t, result, 2)
	assert.Equal(t, "g1", result[0].NodeID())
	assert.Equal(t, "c1", result[1].NodeID())
	assert.Empty(t, result[0].(*types.CommandGroup).Children)
}

func TestMoveUpDown_RootLevel(t *testing.T) {
	forest := []types.TreeNode{
		item("c1", "one", "true"),
		item("c2", "two", "true"),
	}

	// First element cannot move up
	result, moved := MoveUp(forest, "c1")
	assert.False(t, moved)
	assert.Equal(t, []string{"c1", "c2"}, CollectIDs(result))

	// Second moves up
	result, moved = MoveUp(forest, "c2")
	assert.True(t, moved)
	assert.Equal(t, []string{"c2", "c1"}, CollectIDs(result))

	// Last element cannot move down
	result, moved = MoveDown(forest, "c2")
	assert.False(t, moved)
	assert.Equal(t, []string{"c1", "c2"}, CollectIDs(result))
}

func TestMoveUpDown_RoundTrip(t *testing.T) {
	forest := []types.TreeNode{
		item("c1", "one", "true"),
		item("c2", "two", "true"),
		item("c3", "three", "true"),
	}

	up, moved := MoveUp(forest, "c2")
	require.True(t, moved)
	down, moved := MoveDown(up, "c2")
	require.True(t, moved)
	assert.Equal(t, CollectIDs(forest), CollectIDs(down))

	down, moved = MoveDown(forest, "c2")
	require.True(t, moved)
	up, moved = MoveUp(down, "c2")
	require.True(t, moved)
	assert.Equal(t, CollectIDs(forest), CollectIDs(up))
}

func TestMoveUpDown_NestedSequence(t *testing.T) {
	forest := testForest()

	result, moved := MoveDown(forest, "c1")
	require.True(t, moved)

	node, _ := FindByID(result, "g1")
	children := node.(*types.CommandGroup).Children
	assert.Equal(t, "g2", children[0].NodeID())
	assert.Equal(t, "c1", children[1].NodeID())
}

func TestContains(t *testing.T) {
	g := testForest()[0]

	assert.True(t, Contains(g, "g1"))
	assert.True(t, Contains(g, "c1"))
	assert.True(t, Contains(g, "c2"))
	assert.False(t, Contains(g, "c3"))
}

func TestWalk_StopsEarly(t *testing.T) {
	var visited []string
	Walk(testForest(), func(n types.TreeNode) bool {
		visited = append(visited, n.NodeID())
		return n.NodeID() != "g2"
	})
	assert.Equal(t, []string{"g1", "c1", "g2"}, visited)
}

func TestCollectIDs_PreOrder(t *testing.T) {
	assert.Equal(t, []string{"g1", "c1", "g2", "c2", "c3"}, CollectIDs(testForest()))
}
