package ui

import (
	"slices"
)

// Registration removes the listener it was returned for.
type Registration func()

func (r Registration) Remove() {
	if r != nil {
		r()
	}
}

type handler[F any] struct {
	fn F
}

// handlers is an ordered list of callbacks. Removal is by registration, so the
// same function may be registered several times.
type handlers[F any] struct {
	list []*handler[F]
}

func newHandlers[F any]() *handlers[F] {
	return &handlers[F]{make([]*handler[F], 0, 1)}
}

func (h *handlers[F]) add(fn F) Registration {
	entry := &handler[F]{fn}
	h.list = append(h.list, entry)
	return func() { h.remove(entry) }
}

func (h *handlers[F]) remove(entry *handler[F]) bool {
	index := slices.Index(h.list, entry)
	if index < 0 {
		return false
	}
	h.list = slices.Delete(h.list, index, index+1)
	return true
}

func (h *handlers[F]) len() int {
	if h == nil {
		return 0
	}
	return len(h.list)
}

// each runs fn over a copy of the list so that callbacks may add or remove
// handlers.
func (h *handlers[F]) each(fn func(F)) {
	if h == nil || len(h.list) == 0 {
		return
	}
	for _, entry := range slices.Clone(h.list) {
		fn(entry.fn)
	}
}

// DomEvent is an event received from the client for a node.
type DomEvent struct {
	typ     string
	target  *StateNode
	data    Object
	stopped bool
}

func NewDomEvent(typ string, target *StateNode, data Object) *DomEvent {
	if data == nil {
		data = NewObject()
	}
	return &DomEvent{typ: typ, target: target, data: data}
}

func (e *DomEvent) Type() string       { return e.typ }
func (e *DomEvent) Target() *StateNode { return e.target }
func (e *DomEvent) Data() Object       { return e.data }
func (e *DomEvent) Stopped() bool      { return e.stopped }

func (e *DomEvent) StopImmediatePropagation() {
	e.stopped = true
}

// DomEventListener is a server-side handler of a client event.
type DomEventListener struct {
	Fn   func(*DomEvent)
	Once bool
}

func NewDomEventListener(fn func(*DomEvent)) *DomEventListener {
	return &DomEventListener{Fn: fn}
}

func (l *DomEventListener) TriggerOnce() *DomEventListener {
	l.Once = true
	return l
}

// ListenerSentinel is the value stored for every event type that has a
// listener. Only the key set is synchronized.
const ListenerSentinel = Bool(true)

// ListenerNamespace tracks the event types a node listens to. The handlers
// themselves stay on the server.
type ListenerNamespace struct {
	*MapNamespace
	listeners map[string]*handlers[*DomEventListener]
}

func newListenerNamespace(n *StateNode, k Kind) *ListenerNamespace {
	return &ListenerNamespace{
		MapNamespace: NewMapNamespace(n, k),
		listeners:    make(map[string]*handlers[*DomEventListener]),
	}
}

// AddListener registers fn for events of type eventType.
func (l *ListenerNamespace) AddListener(eventType string, fn func(*DomEvent)) Registration {
	return l.Add(eventType, NewDomEventListener(fn))
}

func (l *ListenerNamespace) Add(eventType string, listener *DomEventListener) Registration {
	hs, ok := l.listeners[eventType]
	if !ok {
		hs = newHandlers[*DomEventListener]()
		l.listeners[eventType] = hs
		l.MapNamespace.Put(eventType, ListenerSentinel)
	}
	var removed bool
	remove := hs.add(listener)
	return func() {
		if removed {
			return
		}
		removed = true
		remove()
		l.prune(eventType)
	}
}

func (l *ListenerNamespace) prune(eventType string) {
	hs, ok := l.listeners[eventType]
	if !ok || hs.len() > 0 {
		return
	}
	delete(l.listeners, eventType)
	l.MapNamespace.Remove(eventType)
}

// Put only accepts the listener sentinel; use AddListener.
func (l *ListenerNamespace) Put(key string, value Value) {
	mustHold(value == ListenerSentinel, ErrInvalidValue, "listener keys only hold the sentinel")
	l.MapNamespace.Put(key, value)
}

// Remove drops every listener of eventType.
func (l *ListenerNamespace) Remove(eventType string) Value {
	delete(l.listeners, eventType)
	return l.MapNamespace.Remove(eventType)
}

func (l *ListenerNamespace) Clear() {
	clear(l.listeners)
	l.MapNamespace.Clear()
}

func (l *ListenerNamespace) HasListener(eventType string) bool {
	return l.listeners[eventType].len() > 0
}

func (l *ListenerNamespace) ListenerCount(eventType string) int {
	return l.listeners[eventType].len()
}

// EventTypes returns the event types that have at least one listener.
func (l *ListenerNamespace) EventTypes() []string {
	return l.Keys()
}

// Fire dispatches evt to the listeners of its type in registration order.
// It returns whether any listener ran.
func (l *ListenerNamespace) Fire(evt *DomEvent) bool {
	hs, ok := l.listeners[evt.Type()]
	if !ok {
		return false
	}
	ran := false
	for _, entry := range slices.Clone(hs.list) {
		if evt.Stopped() {
			break
		}
		if entry.fn.Once {
			hs.remove(entry)
		}
		entry.fn.Fn(evt)
		ran = true
	}
	l.prune(evt.Type())
	return ran
}
