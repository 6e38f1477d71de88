package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func collectChanges(tree *StateTree) []NodeChange {
	var changes []NodeChange
	tree.CollectChanges(func(c NodeChange) { changes = append(changes, c) })
	return changes
}

// newAttachedNode returns a tree with one child node attached to its root.
// Pending changes are already collected.
func newAttachedNode(kinds ...Kind) (*StateTree, *StateNode) {
	tree := NewStateTree()
	n := NewStateNode(kinds...)
	Children(tree.Root()).Append(n)
	collectChanges(tree)
	return tree, n
}

func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, target), "got %v, want %v", err, target)
	}()
	fn()
}

func withAssertions(t *testing.T, enabled bool) {
	prev := AssertionsEnabled
	AssertionsEnabled = enabled
	t.Cleanup(func() { AssertionsEnabled = prev })
}
