package ui

import (
	"fmt"
	"slices"
)

// StateNode is a node of the state tree. Its data is split into namespaces
// which are created on first use from the node's registry.
//
// A node has at most one parent. It belongs to the tree of its parent once
// attached and keeps that owner when detached: a node can't move from one tree
// to another.
type StateNode struct {
	id       int
	parent   *StateNode
	owner    *StateTree
	registry *Registry

	namespaces map[Kind]Namespace
	kinds      []Kind // sorted keys of namespaces

	changed     map[Kind]struct{}
	reported    map[Kind]bool
	dirty       bool
	wasAttached bool
	collecting  bool
	isRoot      bool

	attachListeners *handlers[func()]
	detachListeners *handlers[func()]
}

// NewStateNode creates a detached node using the default registry. The given
// namespace kinds are created right away, the others on first use.
func NewStateNode(kinds ...Kind) *StateNode {
	return NewNodeWithRegistry(DefaultRegistry(), kinds...)
}

func NewNodeWithRegistry(r *Registry, kinds ...Kind) *StateNode {
	n := &StateNode{
		id:         -1,
		registry:   r,
		namespaces: make(map[Kind]Namespace, len(kinds)),
	}
	for _, k := range kinds {
		n.Namespace(k)
	}
	return n
}

// ID returns the id of the node within its tree, or -1 if the node has never
// been attached.
func (n *StateNode) ID() int { return n.id }

func (n *StateNode) Parent() *StateNode { return n.parent }

// Owner returns the tree the node belongs to, nil if it has never been part
// of one.
func (n *StateNode) Owner() *StateTree { return n.owner }

func (n *StateNode) Registry() *Registry { return n.registry }

func (n *StateNode) IsDirty() bool { return n.dirty }

// IsAttached reports whether the parent chain of the node reaches the root of
// a tree.
func (n *StateNode) IsAttached() bool {
	for c := n; c != nil; c = c.parent {
		if c.isRoot {
			return true
		}
	}
	return false
}

// Namespace returns the namespace of kind k, creating it if needed.
func (n *StateNode) Namespace(k Kind) Namespace {
	if ns, ok := n.namespaces[k]; ok {
		return ns
	}
	ns := n.registry.Create(k, n)
	n.namespaces[k] = ns
	i, _ := slices.BinarySearch(n.kinds, k)
	n.kinds = slices.Insert(n.kinds, i, k)
	return ns
}

func (n *StateNode) HasNamespace(k Kind) bool {
	_, ok := n.namespaces[k]
	return ok
}

// Kinds returns the kinds of the namespaces created so far, in id order.
func (n *StateNode) Kinds() []Kind {
	return slices.Clone(n.kinds)
}

// NamespaceAs returns the namespace of kind k with its concrete type.
func NamespaceAs[T Namespace](n *StateNode, k Kind) T {
	ns := n.Namespace(k)
	t, ok := ns.(T)
	if !ok {
		panic(wrapPanic(ErrWrongNamespace, fmt.Sprintf("%v is a %T", k, ns)))
	}
	return t
}

func (n *StateNode) forEachNamespace(fn func(Namespace)) {
	for _, k := range n.kinds {
		fn(n.namespaces[k])
	}
}

func (n *StateNode) ForEachChild(fn func(child *StateNode)) {
	n.forEachNamespace(func(ns Namespace) {
		ns.ForEachChild(fn)
	})
}

// SetParent moves the node under parent, appending it to the children of
// parent. The node is first removed from the namespace of its current parent
// that references it. A nil parent only detaches the node.
func (n *StateNode) SetParent(parent *StateNode) {
	if n.parent == parent {
		return
	}
	if parent != nil {
		n.checkReparent(parent)
	}
	if old := n.parent; old != nil {
		if !old.removeChild(n) {
			// not referenced by any namespace of the parent
			n.setParent(nil)
		}
	}
	if parent != nil {
		Children(parent).Append(n)
	}
}

func (n *StateNode) removeChild(child *StateNode) bool {
	for _, k := range n.kinds {
		if n.namespaces[k].removeChild(child) {
			return true
		}
	}
	return false
}

// checkParent panics if n can't be given parent as its new parent.
func (n *StateNode) checkParent(parent *StateNode) {
	if n.parent != nil {
		panic(wrapPanic(ErrAlreadyParented, n.String()))
	}
	n.checkReparent(parent)
}

func (n *StateNode) checkReparent(parent *StateNode) {
	if n.isRoot {
		panic(ErrRootParent)
	}
	if n.isAncestorOf(parent) {
		panic(ErrCycle)
	}
	tree := parent.owner
	if tree == nil || tree == n.owner {
		return
	}
	n.VisitTree(func(node *StateNode) {
		if node.owner != nil && node.owner != tree {
			panic(ErrForeignTree)
		}
	})
}

func (n *StateNode) isAncestorOf(node *StateNode) bool {
	for ; node != nil; node = node.parent {
		if node == n {
			return true
		}
	}
	return false
}

// setParent links the node to parent and runs the attach or detach transition
// when the attached state changes. Namespaces call it when a node value is
// added or removed.
func (n *StateNode) setParent(parent *StateNode) {
	attachedBefore := n.IsAttached()
	attachedAfter := false

	if parent != nil {
		n.checkParent(parent)
		attachedAfter = parent.IsAttached()
		if parent.owner != nil && parent.owner != n.owner {
			n.setTree(parent.owner)
		}
	}

	switch {
	case !attachedBefore && attachedAfter:
		n.parent = parent
		n.visitTreeBottomUp((*StateNode).handleOnAttach)
	case attachedBefore && !attachedAfter:
		n.visitTreeBottomUp((*StateNode).handleOnDetach)
		n.parent = parent
	default:
		n.parent = parent
	}
}

func (n *StateNode) setTree(tree *StateTree) {
	n.VisitTree(func(node *StateNode) {
		node.owner = tree
	})
}

func (n *StateNode) handleOnAttach() {
	initial := false
	newID := n.owner.register(n)
	if n.id == -1 {
		n.id = newID
		initial = true
	} else if newID != n.id {
		panic(ErrIDReassigned)
	}
	n.MarkAsDirty()
	DEBUG("node attached", "id", n.id, "initial", initial)

	n.attachListeners.each(func(fn func()) { fn() })
	n.forEachNamespace(func(ns Namespace) { ns.onAttach(initial) })
}

func (n *StateNode) handleOnDetach() {
	n.MarkAsDirty()
	n.owner.unregister(n)
	DEBUG("node detached", "id", n.id)

	n.detachListeners.each(func(fn func()) { fn() })
	n.forEachNamespace(func(ns Namespace) { ns.onDetach() })
}

// MarkAsDirty flags the node for the next synchronization of its tree.
func (n *StateNode) MarkAsDirty() {
	n.dirty = true
	if n.owner != nil {
		n.owner.markAsDirty(n)
	}
}

func (n *StateNode) markNamespaceChanged(k Kind) {
	if n.changed == nil {
		n.changed = make(map[Kind]struct{})
	}
	n.changed[k] = struct{}{}
	if !n.collecting {
		n.MarkAsDirty()
	}
}

// CollectChanges emits the changes of the node since the previous collection.
// A node that became attached since then is reported with an AttachChange
// followed by its whole content. Changes made while detached are not
// reported.
//
// An inactive node only emits its element data, plus its reported kinds right
// after being attached. The other changes are withheld until the node is
// active again.
func (n *StateNode) CollectChanges(collector func(NodeChange)) {
	n.collecting = true
	defer func() { n.collecting = false }()

	initial := false
	attached := n.IsAttached()
	if attached != n.wasAttached {
		if attached {
			collector(AttachChange{n})
			n.ClearChanges()
			n.forEachNamespace(Namespace.ResetChanges)
			initial = true
		} else {
			collector(DetachChange{n})
		}
		n.wasAttached = attached
	}

	if !attached {
		return
	}
	inactive := n.IsInactive()
	for _, k := range n.kinds {
		if _, ok := n.changed[k]; !ok {
			continue
		}
		if inactive && k != ElementDataKind && !(initial && n.reported[k]) {
			continue
		}
		n.namespaces[k].CollectChanges(collector)
		delete(n.changed, k)
	}
	if len(n.changed) == 0 {
		n.changed = nil
		return
	}
	// Showing an ancestor only marks the ancestor dirty: come back to this
	// node at the next collection.
	if !n.isInactiveSelf() {
		n.owner.markAsDirtyLater(n)
	}
}

// IsInactive reports whether the node or one of its ancestors is hidden.
func (n *StateNode) IsInactive() bool {
	for c := n; c != nil; c = c.parent {
		if c.isInactiveSelf() {
			return true
		}
	}
	return false
}

func (n *StateNode) isInactiveSelf() bool {
	d, ok := n.namespaces[ElementDataKind].(*ElementDataNamespace)
	return ok && !d.Visible()
}

// ReportKinds marks namespace kinds that are synchronized right after the node
// gets attached, even while it is inactive.
func (n *StateNode) ReportKinds(kinds ...Kind) {
	if n.reported == nil {
		n.reported = make(map[Kind]bool, len(kinds))
	}
	for _, k := range kinds {
		n.reported[k] = true
	}
}

// ClearChanges forgets which namespaces have pending changes.
func (n *StateNode) ClearChanges() {
	n.changed = nil
}

// Snapshot emits the whole content of the node, leaving pending changes
// untouched.
func (n *StateNode) Snapshot(collector func(NodeChange)) {
	n.forEachNamespace(func(ns Namespace) { ns.Snapshot(collector) })
}

func (n *StateNode) stackPool() *stackPool {
	if n.owner != nil {
		return n.owner.pool
	}
	return nil
}

func (n *StateNode) getStack() []*StateNode {
	if p := n.stackPool(); p != nil {
		return p.Get()
	}
	return newNodeStack()
}

func (n *StateNode) putStack(s []*StateNode) {
	if p := n.stackPool(); p != nil {
		p.Put(s)
	}
}

// VisitTree applies visitor to the node, then to its descendants.
func (n *StateNode) VisitTree(visitor func(*StateNode)) {
	stack := n.getStack()
	stack = append(stack, n)
	var children []*StateNode
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visitor(node)

		children = children[:0]
		node.ForEachChild(func(c *StateNode) { children = append(children, c) })
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	n.putStack(stack)
}

// visitTreeBottomUp applies visitor to the descendants of the node before the
// node itself.
func (n *StateNode) visitTreeBottomUp(visitor func(*StateNode)) {
	stack := n.getStack()
	order := n.getStack()
	stack = append(stack, n)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, node)
		node.ForEachChild(func(c *StateNode) { stack = append(stack, c) })
	}
	for i := len(order) - 1; i >= 0; i-- {
		visitor(order[i])
	}
	n.putStack(stack)
	n.putStack(order)
}

// AddAttachListener registers fn to run every time the node gets attached.
func (n *StateNode) AddAttachListener(fn func()) Registration {
	if n.attachListeners == nil {
		n.attachListeners = newHandlers[func()]()
	}
	return n.attachListeners.add(fn)
}

// AddDetachListener registers fn to run every time the node gets detached.
func (n *StateNode) AddDetachListener(fn func()) Registration {
	if n.detachListeners == nil {
		n.detachListeners = newHandlers[func()]()
	}
	return n.detachListeners.add(fn)
}

// RunWhenAttached runs fn right away if the node is attached, otherwise once
// it next gets attached.
func (n *StateNode) RunWhenAttached(fn func(tree *StateTree)) {
	if n.IsAttached() {
		fn(n.owner)
		return
	}
	var reg Registration
	reg = n.AddAttachListener(func() {
		reg.Remove()
		fn(n.owner)
	})
}

func (n *StateNode) String() string {
	return fmt.Sprintf("StateNode(%d)", n.id)
}
