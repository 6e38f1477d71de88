package ui

import (
	"time"

	"github.com/google/uuid"
)

// StateTree owns the nodes attached to its root. It hands out node ids and
// keeps track of the nodes to visit at the next synchronization.
type StateTree struct {
	id       uuid.UUID
	root     *StateNode
	registry *Registry

	nextID int
	nodes  map[int]*StateNode

	dirty    []*StateNode
	dirtySet map[*StateNode]struct{}
	later    []*StateNode

	beforeResponse []pendingCallback

	pool *stackPool
}

type pendingCallback struct {
	node *StateNode
	fn   func()
}

// NewStateTree creates a tree whose root node holds the given namespace kinds.
func NewStateTree(kinds ...Kind) *StateTree {
	return NewStateTreeWithRegistry(DefaultRegistry(), kinds...)
}

func NewStateTreeWithRegistry(r *Registry, kinds ...Kind) *StateTree {
	t := &StateTree{
		id:       uuid.Must(uuid.NewV7()),
		registry: r,
		nextID:   1,
		nodes:    make(map[int]*StateNode),
		dirtySet: make(map[*StateNode]struct{}),
		pool:     defaultStackPool(),
	}
	root := NewNodeWithRegistry(r, kinds...)
	root.isRoot = true
	root.wasAttached = true
	root.owner = t
	root.id = t.register(root)
	t.root = root
	return t
}

func (t *StateTree) ID() uuid.UUID       { return t.id }
func (t *StateTree) Root() *StateNode    { return t.root }
func (t *StateTree) Registry() *Registry { return t.registry }

func (t *StateTree) NodeByID(id int) *StateNode {
	return t.nodes[id]
}

// Size returns the number of attached nodes, root included.
func (t *StateTree) Size() int { return len(t.nodes) }

func (t *StateTree) register(n *StateNode) int {
	if n.id != -1 {
		t.nodes[n.id] = n
		return n.id
	}
	id := t.nextID
	t.nextID++
	t.nodes[id] = n
	return id
}

func (t *StateTree) unregister(n *StateNode) {
	delete(t.nodes, n.id)
}

func (t *StateTree) markAsDirty(n *StateNode) {
	if _, ok := t.dirtySet[n]; ok {
		return
	}
	t.dirtySet[n] = struct{}{}
	t.dirty = append(t.dirty, n)
}

// markAsDirtyLater marks n dirty once the running collection is over.
func (t *StateTree) markAsDirtyLater(n *StateNode) {
	t.later = append(t.later, n)
}

// HasDirtyNodes reports whether a synchronization would visit any node.
func (t *StateTree) HasDirtyNodes() bool {
	return len(t.dirty) > 0 || len(t.beforeResponse) > 0
}

// CollectDirtyNodes returns the nodes marked dirty since the previous call,
// in marking order, and resets the dirty set.
func (t *StateTree) CollectDirtyNodes() []*StateNode {
	dirty := t.dirty
	t.dirty = nil
	clear(t.dirtySet)
	for _, n := range dirty {
		n.dirty = false
	}
	return dirty
}

// BeforeClientResponse registers fn to run at the start of the next
// synchronization during which node is attached.
func (t *StateTree) BeforeClientResponse(node *StateNode, fn func()) {
	t.beforeResponse = append(t.beforeResponse, pendingCallback{node, fn})
}

func (t *StateTree) runBeforeClientResponse() {
	for len(t.beforeResponse) > 0 {
		var ready, waiting []pendingCallback
		for _, cb := range t.beforeResponse {
			if cb.node.IsAttached() && cb.node.owner == t {
				ready = append(ready, cb)
				continue
			}
			waiting = append(waiting, cb)
		}
		if len(ready) == 0 {
			return
		}
		t.beforeResponse = waiting
		for _, cb := range ready {
			cb.fn()
		}
		// callbacks may register new callbacks
	}
}

// CollectChanges synchronizes the tree: every dirty node emits its changes
// through collector, in the order the nodes were marked dirty.
func (t *StateTree) CollectChanges(collector func(NodeChange)) {
	start := time.Now()
	t.runBeforeClientResponse()

	visited, count := 0, 0
	emit := func(c NodeChange) {
		count++
		changesEmitted.WithLabelValues(c.Op().String()).Inc()
		collector(c)
	}
	// collecting may mark other nodes dirty
	for len(t.dirty) > 0 {
		dirty := t.CollectDirtyNodes()
		visited += len(dirty)
		for _, n := range dirty {
			n.CollectChanges(emit)
		}
	}
	for _, n := range t.later {
		n.MarkAsDirty()
	}
	t.later = nil

	collections.Inc()
	dirtyNodes.Observe(float64(visited))
	collectDuration.Observe(time.Since(start).Seconds())
	DEBUG("changes collected", "tree", t.id.String(), "dirty", visited, "changes", count)
}

// Snapshot emits the whole content of the tree as if every node had just been
// attached, without touching pending changes.
func (t *StateTree) Snapshot(collector func(NodeChange)) {
	t.root.VisitTree(func(n *StateNode) {
		if n != t.root {
			collector(AttachChange{n})
		}
		n.Snapshot(collector)
	})
}
