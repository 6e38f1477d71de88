package ui

// shadowEntry is the state of a key at the start of the current change window.
type shadowEntry struct {
	value   Value
	existed bool
}

// MapNamespace is a change-tracked map from string keys to values. Iteration
// follows key insertion order.
//
// Only the net effect of the mutations made to a key since the last collection
// is reported: the first mutation of a key within a window memoizes its prior
// state, which is compared with the current one at collection time.
type MapNamespace struct {
	namespaceBase

	keys   []string
	values map[string]Value

	touched  []string
	previous map[string]shadowEntry
}

func NewMapNamespace(node *StateNode, kind Kind) *MapNamespace {
	return &MapNamespace{
		namespaceBase: namespaceBase{node, kind},
		values:        make(map[string]Value),
	}
}

// Put sets the value of key. Node values become children of the owning node
// and a replaced node value is detached from it.
func (m *MapNamespace) Put(key string, value Value) {
	old, had := m.values[key]
	if had && Equal(old, value) {
		return
	}
	m.checkPotentialChild(value)

	m.track(key)
	if !had {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	m.markAsDirty()

	m.detachPotentialChild(old)
	m.attachPotentialChild(value)
}

func (m *MapNamespace) Get(key string) Value {
	return m.values[key]
}

func (m *MapNamespace) Lookup(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *MapNamespace) Contains(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Remove deletes key and returns its former value.
func (m *MapNamespace) Remove(key string) Value {
	old, had := m.values[key]
	if !had {
		return nil
	}
	m.track(key)
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	m.markAsDirty()

	m.detachPotentialChild(old)
	return old
}

func (m *MapNamespace) Clear() {
	for _, k := range m.Keys() {
		m.Remove(k)
	}
}

// Keys returns a copy of the keys in insertion order.
func (m *MapNamespace) Keys() []string {
	return append([]string(nil), m.keys...)
}

func (m *MapNamespace) Size() int {
	return len(m.keys)
}

func (m *MapNamespace) track(key string) {
	if m.previous == nil {
		m.previous = make(map[string]shadowEntry)
	}
	if _, seen := m.previous[key]; seen {
		return
	}
	old, had := m.values[key]
	m.previous[key] = shadowEntry{old, had}
	m.touched = append(m.touched, key)
}

func (m *MapNamespace) HasChanges() bool {
	return len(m.touched) > 0
}

func (m *MapNamespace) CollectChanges(collector func(NodeChange)) {
	for _, key := range m.touched {
		before := m.previous[key]
		current, exists := m.values[key]
		switch {
		case before.existed && !exists:
			collector(RemoveChange{m.node, m.kind, key})
		case exists && (!before.existed || !Equal(before.value, current)):
			collector(PutChange{m.node, m.kind, key, current})
		}
	}
	m.touched = nil
	m.previous = nil
}

func (m *MapNamespace) ResetChanges() {
	m.touched = nil
	m.previous = nil
	for _, key := range m.keys {
		m.track(key)
		m.previous[key] = shadowEntry{}
	}
	if len(m.keys) > 0 {
		m.markAsDirty()
	}
}

func (m *MapNamespace) Snapshot(collector func(NodeChange)) {
	for _, key := range m.keys {
		collector(PutChange{m.node, m.kind, key, m.values[key]})
	}
}

func (m *MapNamespace) ForEachChild(fn func(child *StateNode)) {
	for _, key := range m.keys {
		if c := asNode(m.values[key]); c != nil {
			fn(c)
		}
	}
}

func (m *MapNamespace) removeChild(child *StateNode) bool {
	for _, key := range m.keys {
		if asNode(m.values[key]) == child {
			m.Remove(key)
			return true
		}
	}
	return false
}
