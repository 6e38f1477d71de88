package ui

import (
	"fmt"
)

// ListNamespace is a change-tracked sequence. The type parameter decides once
// and for all whether the list holds nodes or plain values.
//
// Every mutation is recorded as a splice in call order, so that replaying the
// recorded splices against the previously synchronized content yields the
// current content.
type ListNamespace[T Value] struct {
	namespaceBase

	items   []T
	changes []SpliceChange
	nodes   bool
}

func NewListNamespace[T Value](node *StateNode, kind Kind) *ListNamespace[T] {
	var zero T
	_, nodes := any(zero).(*StateNode)
	return &ListNamespace[T]{
		namespaceBase: namespaceBase{node, kind},
		nodes:         nodes,
	}
}

// HoldsNodes reports whether the list items are state nodes.
func (l *ListNamespace[T]) HoldsNodes() bool { return l.nodes }

func (l *ListNamespace[T]) Size() int { return len(l.items) }

func (l *ListNamespace[T]) Get(index int) T {
	l.checkIndex(index)
	return l.items[index]
}

func (l *ListNamespace[T]) checkIndex(index int) {
	if index < 0 || index >= len(l.items) {
		panic(wrapPanic(ErrIndexOutOfRange, fmt.Sprintf("index %d, size %d", index, len(l.items))))
	}
}

// Items returns a copy of the list content.
func (l *ListNamespace[T]) Items() []T {
	return append([]T(nil), l.items...)
}

func (l *ListNamespace[T]) IndexOf(item T) int {
	for i, v := range l.items {
		if Equal(v, item) {
			return i
		}
	}
	return -1
}

func (l *ListNamespace[T]) Contains(item T) bool {
	return l.IndexOf(item) >= 0
}

// Add inserts item at index.
func (l *ListNamespace[T]) Add(index int, item T) {
	if index < 0 || index > len(l.items) {
		panic(wrapPanic(ErrIndexOutOfRange, fmt.Sprintf("add at %d, size %d", index, len(l.items))))
	}
	l.checkPotentialChild(item)

	l.items = append(l.items, item)
	copy(l.items[index+1:], l.items[index:])
	l.items[index] = item
	l.record(index, 0, item)

	l.attachPotentialChild(item)
}

func (l *ListNamespace[T]) Append(item T) {
	l.Add(len(l.items), item)
}

// Remove deletes the item at index and returns it.
func (l *ListNamespace[T]) Remove(index int) T {
	if index < 0 || index >= len(l.items) {
		panic(wrapPanic(ErrIndexOutOfRange, fmt.Sprintf("remove at %d, size %d", index, len(l.items))))
	}
	item := l.items[index]
	l.items = append(l.items[:index], l.items[index+1:]...)
	l.record(index, 1)

	l.detachPotentialChild(item)
	return item
}

// Move relocates the item at from so that it ends up at index to. Node items
// stay attached.
func (l *ListNamespace[T]) Move(from, to int) {
	if from < 0 || from >= len(l.items) || to < 0 || to >= len(l.items) {
		panic(wrapPanic(ErrIndexOutOfRange, fmt.Sprintf("move %d -> %d, size %d", from, to, len(l.items))))
	}
	if from == to {
		return
	}
	item := l.items[from]
	l.items = append(l.items[:from], l.items[from+1:]...)
	l.record(from, 1)
	l.items = append(l.items, item)
	copy(l.items[to+1:], l.items[to:])
	l.items[to] = item
	l.record(to, 0, item)
}

// Set replaces the item at index.
func (l *ListNamespace[T]) Set(index int, item T) T {
	l.checkIndex(index)
	old := l.items[index]
	if Equal(old, item) {
		return old
	}
	l.checkPotentialChild(item)
	l.items[index] = item
	l.record(index, 1, item)

	l.detachPotentialChild(old)
	l.attachPotentialChild(item)
	return old
}

func (l *ListNamespace[T]) Clear() {
	if len(l.items) == 0 {
		return
	}
	removed := l.items
	l.items = nil
	l.record(0, len(removed))
	for _, item := range removed {
		l.detachPotentialChild(item)
	}
}

// SetAll replaces the content of the list with items, recording the removals
// and insertions of a shortest edit script between both sequences.
func (l *ListNamespace[T]) SetAll(items []T) {
	removed, inserted := shortestEditScript(l.items, items, func(a, b T) bool { return Equal(a, b) })
	for i := len(removed) - 1; i >= 0; i-- {
		l.Remove(removed[i])
	}
	for _, j := range inserted {
		l.Add(j, items[j])
	}
}

func (l *ListNamespace[T]) record(index, removeCount int, items ...T) {
	var added []Value
	if len(items) > 0 {
		added = make([]Value, len(items))
		for i, item := range items {
			added[i] = item
		}
	}
	l.changes = append(l.changes, SpliceChange{l.node, l.kind, index, removeCount, added})
	l.markAsDirty()
}

func (l *ListNamespace[T]) HasChanges() bool {
	return len(l.changes) > 0
}

func (l *ListNamespace[T]) CollectChanges(collector func(NodeChange)) {
	for _, c := range l.changes {
		collector(c)
	}
	l.changes = nil
}

func (l *ListNamespace[T]) ResetChanges() {
	l.changes = nil
	if len(l.items) > 0 {
		l.record(0, 0, l.items...)
	}
}

func (l *ListNamespace[T]) Snapshot(collector func(NodeChange)) {
	if len(l.items) == 0 {
		return
	}
	added := make([]Value, len(l.items))
	for i, item := range l.items {
		added[i] = item
	}
	collector(SpliceChange{l.node, l.kind, 0, 0, added})
}

func (l *ListNamespace[T]) ForEachChild(fn func(child *StateNode)) {
	if !l.nodes {
		return
	}
	for _, item := range l.items {
		if c := asNode(item); c != nil {
			fn(c)
		}
	}
}

func (l *ListNamespace[T]) removeChild(child *StateNode) bool {
	if !l.nodes {
		return false
	}
	for i, item := range l.items {
		if asNode(item) == child {
			l.Remove(i)
			return true
		}
	}
	return false
}
