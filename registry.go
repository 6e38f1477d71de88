package ui

import (
	"fmt"
	"sync"
)

// Kind identifies a namespace type. Its integer value is the stable id sent to
// clients in place of the namespace type name.
type Kind int

// Built-in namespace kinds. The order fixes their ids.
const (
	ElementDataKind Kind = iota
	PropertiesKind
	AttributesKind
	StyleKind
	ClassListKind
	ChildrenKind
	VirtualChildrenKind
	ListenersKind
	TextKind
	DependenciesKind
	ConfigKind

	builtinKindCount
)

// NamespaceFactory creates the namespace instance of a given kind for a node.
type NamespaceFactory func(node *StateNode, kind Kind) Namespace

type registryEntry struct {
	name    string
	factory NamespaceFactory
}

// Registry maps namespace kinds to their factory and name. It is populated at
// startup, frozen, then shared read-only by every node that uses it.
type Registry struct {
	entries []registryEntry
	byName  map[string]Kind
	frozen  bool
}

// NewRegistry returns an unfrozen registry holding the built-in kinds.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Kind, builtinKindCount)}
	r.Register("elementData", func(n *StateNode, k Kind) Namespace { return newElementDataNamespace(n, k) })
	r.Register("elementProperties", func(n *StateNode, k Kind) Namespace { return newPropertyNamespace(n, k) })
	r.Register("elementAttributes", func(n *StateNode, k Kind) Namespace { return newAttributeNamespace(n, k) })
	r.Register("elementStyleProperties", func(n *StateNode, k Kind) Namespace { return newStyleNamespace(n, k) })
	r.Register("classList", func(n *StateNode, k Kind) Namespace { return newClassListNamespace(n, k) })
	r.Register("elementChildren", func(n *StateNode, k Kind) Namespace { return NewListNamespace[*StateNode](n, k) })
	r.Register("virtualChildren", func(n *StateNode, k Kind) Namespace { return NewListNamespace[*StateNode](n, k) })
	r.Register("elementListeners", func(n *StateNode, k Kind) Namespace { return newListenerNamespace(n, k) })
	r.Register("textNode", func(n *StateNode, k Kind) Namespace { return newTextNamespace(n, k) })
	r.Register("dependencyList", func(n *StateNode, k Kind) Namespace { return NewListNamespace[String](n, k) })
	r.Register("clientConfiguration", func(n *StateNode, k Kind) Namespace { return NewMapNamespace(n, k) })
	return r
}

// Register adds a namespace kind. Ids are handed out sequentially.
func (r *Registry) Register(name string, factory NamespaceFactory) Kind {
	if r.frozen {
		panic(wrapPanic(ErrRegistryFrozen, name))
	}
	if _, ok := r.byName[name]; ok {
		panic(wrapPanic(ErrDuplicateNamespace, name))
	}
	if factory == nil {
		panic("ui: nil namespace factory for " + name)
	}
	k := Kind(len(r.entries))
	r.entries = append(r.entries, registryEntry{name, factory})
	r.byName[name] = k
	return k
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() *Registry {
	r.frozen = true
	return r
}

func (r *Registry) Frozen() bool { return r.frozen }

func (r *Registry) entry(k Kind) registryEntry {
	if k < 0 || int(k) >= len(r.entries) {
		panic(wrapPanic(ErrUnknownNamespace, fmt.Sprint(int(k))))
	}
	return r.entries[k]
}

// Create instantiates the namespace of kind k for node.
func (r *Registry) Create(k Kind, node *StateNode) Namespace {
	return r.entry(k).factory(node, k)
}

// ID returns the stable integer id of a kind.
func (r *Registry) ID(k Kind) int {
	r.entry(k)
	return int(k)
}

func (r *Registry) Name(k Kind) string {
	return r.entry(k).name
}

func (r *Registry) Lookup(name string) (Kind, bool) {
	k, ok := r.byName[name]
	return k, ok
}

func (r *Registry) Len() int { return len(r.entries) }

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the frozen registry of built-in kinds.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry().Freeze()
	})
	return defaultRegistry
}

func (k Kind) String() string {
	if k >= 0 && k < builtinKindCount {
		return DefaultRegistry().Name(k)
	}
	return fmt.Sprintf("namespace(%d)", int(k))
}
