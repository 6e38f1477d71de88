package ui

// Namespace is one change-tracked slot of state belonging to a node.
//
// Every mutation made through a namespace updates the in-memory value, records
// what a remote replica needs to replay it and marks the owning node dirty.
type Namespace interface {
	Node() *StateNode
	Kind() Kind

	// CollectChanges emits the changes recorded since the last collection or
	// reset, then forgets them.
	CollectChanges(collector func(NodeChange))

	// ResetChanges discards the recorded changes so that the next collection
	// describes the whole current content, as if starting from empty.
	ResetChanges()

	// Snapshot emits the whole current content without touching the
	// recorded changes.
	Snapshot(collector func(NodeChange))

	ForEachChild(fn func(child *StateNode))

	removeChild(child *StateNode) bool
	onAttach(initial bool)
	onDetach()
}

type namespaceBase struct {
	node *StateNode
	kind Kind
}

func (b namespaceBase) Node() *StateNode { return b.node }
func (b namespaceBase) Kind() Kind       { return b.kind }

func (b namespaceBase) onAttach(initial bool) {}
func (b namespaceBase) onDetach()             {}

func (b namespaceBase) markAsDirty() {
	b.node.markNamespaceChanged(b.kind)
}

// checkPotentialChild panics if value is a node that can't become a child of
// the owning node. It runs before any mutation.
func (b namespaceBase) checkPotentialChild(value Value) {
	if c := asNode(value); c != nil {
		c.checkParent(b.node)
	}
}

func (b namespaceBase) attachPotentialChild(value Value) {
	if c := asNode(value); c != nil {
		c.setParent(b.node)
	}
}

func (b namespaceBase) detachPotentialChild(value Value) {
	if c := asNode(value); c != nil {
		c.setParent(nil)
	}
}

func asNode(v Value) *StateNode {
	n, _ := v.(*StateNode)
	return n
}
