// Package replica rebuilds the state of a tree from the change batches it
// emits, the way a client does.
package replica

import (
	"maps"
	"slices"

	"github.com/atdiar/uistate"
	"github.com/atdiar/uistate/codec"
	"github.com/pkg/errors"
)

var (
	ErrOutOfSync   = errors.New("replica: unexpected sync id")
	ErrUnknownNode = errors.New("replica: unknown node")
	ErrBadSplice   = errors.New("replica: splice out of range")
)

// Item is a namespace entry: either a value or a reference to a node.
type Item struct {
	Value ui.Value
	Node  int
}

func (i Item) IsNode() bool { return i.Node > 0 }

func (i Item) Equal(other Item) bool {
	return i.Node == other.Node && ui.Equal(i.Value, other.Value)
}

// Node is the replica of a state node.
type Node struct {
	ID    int
	maps  map[int]map[string]Item
	lists map[int][]Item
}

func newNode(id int) *Node {
	return &Node{
		ID:    id,
		maps:  make(map[int]map[string]Item),
		lists: make(map[int][]Item),
	}
}

func (n *Node) Map(feat ui.Kind) map[string]Item {
	return maps.Clone(n.maps[int(feat)])
}

func (n *Node) List(feat ui.Kind) []Item {
	return slices.Clone(n.lists[int(feat)])
}

// Features returns the ids of the namespaces holding data.
func (n *Node) Features() []int {
	var res []int
	for f := range n.maps {
		res = append(res, f)
	}
	for f := range n.lists {
		res = append(res, f)
	}
	slices.Sort(res)
	return res
}

// Tree mirrors the attached nodes of a state tree. The root has id 1.
type Tree struct {
	nodes  map[int]*Node
	syncID int
}

func NewTree() *Tree {
	return &Tree{nodes: map[int]*Node{1: newNode(1)}}
}

func (t *Tree) SyncID() int { return t.syncID }

func (t *Tree) Node(id int) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Size returns the number of known nodes, root included.
func (t *Tree) Size() int { return len(t.nodes) }

func (t *Tree) Map(id int, feat ui.Kind) map[string]Item {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return n.Map(feat)
}

func (t *Tree) List(id int, feat ui.Kind) []Item {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return n.List(feat)
}

// Apply applies the changes of b. Batches have to be applied in order.
func (t *Tree) Apply(b *codec.Batch) error {
	if b.SyncID != t.syncID+1 {
		return errors.Wrapf(ErrOutOfSync, "got %d, want %d", b.SyncID, t.syncID+1)
	}
	if err := t.ApplyChanges(b.Changes); err != nil {
		return errors.Wrapf(err, "sync %d", b.SyncID)
	}
	t.syncID = b.SyncID
	return nil
}

// ApplyChanges applies changes without checking sync ids, as needed when
// restoring a snapshot.
func (t *Tree) ApplyChanges(changes []codec.Change) error {
	for i, c := range changes {
		if err := t.apply(c); err != nil {
			return errors.Wrapf(err, "change %d", i)
		}
	}
	return nil
}

func (t *Tree) apply(c codec.Change) error {
	if err := c.Validate(); err != nil {
		return err
	}
	switch c.Type {
	case "attach":
		t.nodes[c.Node] = newNode(c.Node)
		return nil
	case "detach":
		delete(t.nodes, c.Node)
		return nil
	}

	n, ok := t.nodes[c.Node]
	if !ok {
		return errors.Wrapf(ErrUnknownNode, "%s on %d", c.Type, c.Node)
	}
	feat := *c.Feat
	switch c.Type {
	case "put":
		item := Item{}
		if c.NodeValue != nil {
			item.Node = *c.NodeValue
		} else {
			v, err := codec.DecodeValue(c.Value)
			if err != nil {
				return err
			}
			item.Value = v
		}
		m, ok := n.maps[feat]
		if !ok {
			m = make(map[string]Item)
			n.maps[feat] = m
		}
		m[c.Key] = item
	case "remove":
		delete(n.maps[feat], c.Key)
	case "splice":
		var items []Item
		for _, id := range c.AddNodes {
			items = append(items, Item{Node: id})
		}
		values, err := c.DecodeItems()
		if err != nil {
			return err
		}
		for _, v := range values {
			items = append(items, Item{Value: v})
		}
		list := n.lists[feat]
		index := *c.Index
		if index < 0 || c.Remove < 0 || index+c.Remove > len(list) {
			return errors.Wrapf(ErrBadSplice, "node %d feat %d: index %d remove %d len %d",
				c.Node, feat, index, c.Remove, len(list))
		}
		n.lists[feat] = ui.Splice(list, index, c.Remove, items)
	}
	return nil
}
