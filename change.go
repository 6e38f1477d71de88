package ui

import (
	"fmt"
)

// ChangeOp is the type of a change record.
type ChangeOp uint8

const (
	OpAttach ChangeOp = iota + 1
	OpDetach
	OpPut
	OpRemove
	OpSplice
)

func (op ChangeOp) String() string {
	switch op {
	case OpAttach:
		return "attach"
	case OpDetach:
		return "detach"
	case OpPut:
		return "put"
	case OpRemove:
		return "remove"
	case OpSplice:
		return "splice"
	default:
		return "unknown"
	}
}

// NodeChange is a change record describing how a remote replica of a node
// should be updated.
type NodeChange interface {
	Node() *StateNode
	Op() ChangeOp
}

// NamespaceChange is implemented by changes scoped to one namespace of a node.
type NamespaceChange interface {
	NodeChange
	Namespace() Kind
}

// AttachChange reports that a node has become part of the synchronized tree.
type AttachChange struct {
	node *StateNode
}

func (c AttachChange) Node() *StateNode { return c.node }
func (c AttachChange) Op() ChangeOp     { return OpAttach }
func (c AttachChange) String() string   { return fmt.Sprintf("attach(%d)", c.node.ID()) }

// DetachChange reports that a node is no longer part of the synchronized tree.
type DetachChange struct {
	node *StateNode
}

func (c DetachChange) Node() *StateNode { return c.node }
func (c DetachChange) Op() ChangeOp     { return OpDetach }
func (c DetachChange) String() string   { return fmt.Sprintf("detach(%d)", c.node.ID()) }

// PutChange sets Key to Value in a map namespace.
type PutChange struct {
	node  *StateNode
	Kind  Kind
	Key   string
	Value Value
}

func (c PutChange) Node() *StateNode { return c.node }
func (c PutChange) Op() ChangeOp     { return OpPut }
func (c PutChange) Namespace() Kind  { return c.Kind }
func (c PutChange) String() string {
	return fmt.Sprintf("put(%d,%d,%q,%v)", c.node.ID(), c.Kind, c.Key, c.Value)
}

// RemoveChange deletes Key from a map namespace.
type RemoveChange struct {
	node *StateNode
	Kind Kind
	Key  string
}

func (c RemoveChange) Node() *StateNode { return c.node }
func (c RemoveChange) Op() ChangeOp     { return OpRemove }
func (c RemoveChange) Namespace() Kind  { return c.Kind }
func (c RemoveChange) String() string {
	return fmt.Sprintf("remove(%d,%d,%q)", c.node.ID(), c.Kind, c.Key)
}

// SpliceChange removes RemoveCount items at Index of a list namespace and
// inserts Items in their place.
type SpliceChange struct {
	node        *StateNode
	Kind        Kind
	Index       int
	RemoveCount int
	Items       []Value
}

func (c SpliceChange) Node() *StateNode { return c.node }
func (c SpliceChange) Op() ChangeOp     { return OpSplice }
func (c SpliceChange) Namespace() Kind  { return c.Kind }
func (c SpliceChange) String() string {
	return fmt.Sprintf("splice(%d,%d,%d,%d,%v)", c.node.ID(), c.Kind, c.Index, c.RemoveCount, c.Items)
}

// NewAttachChange and friends let other packages (replicas, codecs) build
// change records for a node.
func NewAttachChange(n *StateNode) AttachChange { return AttachChange{n} }
func NewDetachChange(n *StateNode) DetachChange { return DetachChange{n} }
func NewPutChange(n *StateNode, k Kind, key string, v Value) PutChange {
	return PutChange{n, k, key, v}
}
func NewRemoveChange(n *StateNode, k Kind, key string) RemoveChange {
	return RemoveChange{n, k, key}
}
func NewSpliceChange(n *StateNode, k Kind, index, removeCount int, items []Value) SpliceChange {
	return SpliceChange{n, k, index, removeCount, items}
}

// Splice replays a splice on a plain slice. It is the reference semantics of
// SpliceChange for replicas.
func Splice[T any](s []T, index, removeCount int, items []T) []T {
	if index < 0 || index > len(s) || removeCount < 0 || index+removeCount > len(s) {
		panic(fmt.Sprintf("ui: splice out of range: index %d, remove %d, len %d", index, removeCount, len(s)))
	}
	r := make([]T, 0, len(s)-removeCount+len(items))
	r = append(r, s[:index]...)
	r = append(r, items...)
	r = append(r, s[index+removeCount:]...)
	return r
}
