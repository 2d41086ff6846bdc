// Package search finds command items by label or command text, with wildcard
// patterns and nearest-label suggestions for misses.
package search

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/cmdshelf/cmdshelf/internal/tree"
	"github.com/cmdshelf/cmdshelf/pkg/types"
)

// Match returns every node whose label or command text matches the pattern,
// in pre-order. Patterns without wildcards match as case-insensitive
// substrings.
func Match(forest []types.TreeNode, pattern string) []types.TreeNode {
	var matches []types.TreeNode
	tree.Walk(forest, func(n types.TreeNode) bool {
		if matchNode(n, pattern) {
			matches = append(matches, n)
		}
		return true
	})
	return matches
}

func matchNode(n types.TreeNode, pattern string) bool {
	if matchWildcard(pattern, n.NodeLabel()) {
		return true
	}
	if item, ok := n.(*types.CommandItem); ok {
		return matchWildcard(pattern, item.Command)
	}
	return false
}

// matchWildcard checks if a string matches a wildcard pattern.
// For simple patterns (* at start/end), uses string matching.
// For complex patterns (containing **), uses doublestar.
func matchWildcard(pattern, s string) bool {
	// Global wildcard matches everything
	if pattern == "*" {
		return true
	}

	// For patterns with **, use doublestar
	if strings.Contains(pattern, "**") {
		matched, _ := doublestar.Match(pattern, s)
		return matched
	}

	// Simple suffix wildcard (prefix*)
	if strings.HasSuffix(pattern, "*") && !strings.HasPrefix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(s, prefix)
	}

	// Simple prefix wildcard (*suffix)
	if strings.HasPrefix(pattern, "*") && !strings.HasSuffix(pattern, "*") {
		suffix := strings.TrimPrefix(pattern, "*")
		return strings.HasSuffix(s, suffix)
	}

	// For patterns with * in the middle or multiple *, use doublestar
	if strings.Contains(pattern, "*") {
		matched, _ := doublestar.Match(pattern, s)
		return matched
	}

	// Substring match, case-insensitive
	return strings.Contains(strings.ToLower(s), strings.ToLower(pattern))
}

// FindByLabel returns the first command item whose label equals the given
// text exactly.
func FindByLabel(forest []types.TreeNode, label string) (*types.CommandItem, bool) {
	var found *types.CommandItem
	tree.Walk(forest, func(n types.TreeNode) bool {
		if item, ok := n.(*types.CommandItem); ok && item.Label == label {
			found = item
			return false
		}
		return true
	})
	return found, found != nil
}

// Suggest returns the label closest to the query by edit distance, for
// "did you mean" answers on a miss. Returns false when the forest has no
// labels or nothing is within maxDistance.
func Suggest(forest []types.TreeNode, query string, maxDistance int) (string, bool) {
	best := ""
	bestDist := maxDistance + 1
	tree.Walk(forest, func(n types.TreeNode) bool {
		label := n.NodeLabel()
		if label == "" {
			return true
		}
		dist := levenshtein.ComputeDistance(strings.ToLower(query), strings.ToLower(label))
		if dist < bestDist {
			bestDist = dist
			best = label
		}
		return true
	})
	return best, best != ""
}
