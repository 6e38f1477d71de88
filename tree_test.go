package ui

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeDirtyOrder(t *testing.T) {
	tree := NewStateTree()
	a, b, c := NewStateNode(), NewStateNode(), NewStateNode()
	for _, n := range []*StateNode{a, b, c} {
		Children(tree.Root()).Append(n)
	}
	collectChanges(tree)
	assert.False(t, tree.HasDirtyNodes())

	Config(c).Put("k", Bool(true))
	Config(a).Put("k", Bool(true))
	Config(c).Put("j", Bool(true))
	b.MarkAsDirty()

	assert.Equal(t, []*StateNode{c, a, b}, tree.CollectDirtyNodes())
	assert.False(t, tree.HasDirtyNodes())
	assert.False(t, c.IsDirty())
}

func TestTreeIDs(t *testing.T) {
	t1, t2 := NewStateTree(), NewStateTree()
	assert.NotEqual(t, t1.ID(), t2.ID())
	assert.Same(t, DefaultRegistry(), t1.Registry())
	assert.True(t, t1.Root().IsAttached())
	assert.Same(t, t1, t1.Root().Owner())
}

func TestBeforeClientResponse(t *testing.T) {
	tree := NewStateTree()
	n := NewStateNode()
	var calls []string
	tree.BeforeClientResponse(tree.Root(), func() { calls = append(calls, "root") })
	tree.BeforeClientResponse(n, func() {
		calls = append(calls, "node")
		Config(n).Put("ready", Bool(true))
	})
	assert.True(t, tree.HasDirtyNodes())

	collectChanges(tree)
	assert.Equal(t, []string{"root"}, calls)

	Children(tree.Root()).Append(n)
	changes := collectChanges(tree)
	assert.Equal(t, []string{"root", "node"}, calls)
	assert.Contains(t, changes, NodeChange(NewPutChange(n, ConfigKind, "ready", Bool(true))))

	collectChanges(tree)
	assert.Len(t, calls, 2)
}

func TestTreeSnapshot(t *testing.T) {
	tree := NewStateTree(ConfigKind)
	Config(tree.Root()).Put("title", String("t"))
	n := NewStateNode()
	Children(tree.Root()).Append(n)
	Properties(n).SetProperty("value", Number(3))

	var snap []NodeChange
	tree.Snapshot(func(c NodeChange) { snap = append(snap, c) })
	assert.Equal(t, []NodeChange{
		NewSpliceChange(tree.Root(), ChildrenKind, 0, 0, []Value{n}),
		NewPutChange(tree.Root(), ConfigKind, "title", String("t")),
		NewAttachChange(n),
		NewPutChange(n, PropertiesKind, "value", Number(3)),
	}, snap)

	// pending changes are left untouched
	assert.True(t, tree.HasDirtyNodes())
	assert.NotEmpty(t, collectChanges(tree))
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, RegisterMetrics(reg))
	assert.Error(t, RegisterMetrics(reg))

	tree, n := newAttachedNode()
	Config(n).Put("k", Bool(true))
	collectChanges(tree)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["uistate_statetree_collections_total"])
	assert.True(t, names["uistate_statetree_changes_total"])
	assert.True(t, names["uistate_statetree_dirty_nodes"])
}

func TestSession(t *testing.T) {
	s := NewSession(NewStateTree())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- s.Run(ctx) }()

	applied := make(chan struct{})
	s.Enqueue(func(tree *StateTree) {
		Config(tree.Root()).Put("k", String("v"))
		close(applied)
	})
	select {
	case <-applied:
	case <-time.After(5 * time.Second):
		t.Fatal("queued function did not run")
	}

	changes := s.Sync()
	require.Len(t, changes, 1)
	assert.Equal(t, NewPutChange(s.Tree().Root(), ConfigKind, "k", String("v")), changes[0])

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestSessionQueueOrder(t *testing.T) {
	s := NewSession(NewStateTree())
	var order []int
	for i := 0; i < 200; i++ {
		i := i
		s.Enqueue(func(*StateTree) { order = append(order, i) })
	}
	done := make(chan struct{})
	s.Enqueue(func(*StateTree) {
		// queued from a queued function: runs after everything else
		s.Enqueue(func(*StateTree) { close(done) })
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("queued functions did not run")
	}

	require.Len(t, order, 200)
	for i, v := range order {
		require.Equal(t, i, v)
	}
}
