// Package codec encodes change records into the JSON messages sent to the
// client, and decodes them back on the client side.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/atdiar/uistate"
	"github.com/cespare/xxhash"
	"github.com/pkg/errors"
)

var (
	ErrChecksum    = errors.New("codec: checksum mismatch")
	ErrUnencodable = errors.New("codec: value can't be encoded")
	ErrMalformed   = errors.New("codec: malformed change")
)

// Change is the wire form of a change record. Nodes are referred to by id and
// namespaces by their kind id.
type Change struct {
	Node      int               `json:"node"`
	Type      string            `json:"type"`
	Feat      *int              `json:"feat,omitempty"`
	Key       string            `json:"key,omitempty"`
	Value     json.RawMessage   `json:"value,omitempty"`
	NodeValue *int              `json:"nodeValue,omitempty"`
	Index     *int              `json:"index,omitempty"`
	Remove    int               `json:"remove,omitempty"`
	Add       []json.RawMessage `json:"add,omitempty"`
	AddNodes  []int             `json:"addNodes,omitempty"`
}

// Batch is the set of changes produced by one synchronization.
type Batch struct {
	SyncID   int      `json:"syncId"`
	Tree     string   `json:"tree,omitempty"`
	Changes  []Change `json:"changes"`
	Checksum string   `json:"checksum"`
}

type envelope struct {
	SyncID   int             `json:"syncId"`
	Tree     string          `json:"tree,omitempty"`
	Changes  json.RawMessage `json:"changes"`
	Checksum string          `json:"checksum"`
}

// Encoder turns collected changes into batches with increasing sync ids.
type Encoder struct {
	tree   string
	syncID int
}

func NewEncoder(treeID string) *Encoder {
	return &Encoder{tree: treeID}
}

// SyncID returns the id of the last encoded batch.
func (e *Encoder) SyncID() int { return e.syncID }

// Encode converts changes into the next batch.
func (e *Encoder) Encode(changes []ui.NodeChange) (*Batch, error) {
	b := &Batch{
		SyncID:  e.syncID + 1,
		Tree:    e.tree,
		Changes: make([]Change, 0, len(changes)),
	}
	for _, c := range changes {
		wc, err := EncodeChange(c)
		if err != nil {
			return nil, err
		}
		b.Changes = append(b.Changes, wc)
	}
	if _, err := b.seal(); err != nil {
		return nil, err
	}
	e.syncID = b.SyncID
	return b, nil
}

// seal computes the checksum of the batch and returns the encoded changes.
func (b *Batch) seal() ([]byte, error) {
	raw, err := json.Marshal(b.Changes)
	if err != nil {
		return nil, errors.Wrap(err, "encoding changes")
	}
	b.Checksum = checksum(raw)
	return raw, nil
}

func checksum(raw []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(raw))
}

// Marshal encodes the batch, refreshing its checksum.
func Marshal(b *Batch) ([]byte, error) {
	raw, err := b.seal()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(envelope{b.SyncID, b.Tree, raw, b.Checksum})
	return data, errors.Wrap(err, "encoding batch")
}

// Decode parses an encoded batch and verifies its checksum.
func Decode(data []byte) (*Batch, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "decoding batch")
	}
	if sum := checksum(env.Changes); sum != env.Checksum {
		return nil, errors.Wrapf(ErrChecksum, "sync %d: got %s, want %s", env.SyncID, sum, env.Checksum)
	}
	b := &Batch{SyncID: env.SyncID, Tree: env.Tree, Checksum: env.Checksum}
	if err := json.Unmarshal(env.Changes, &b.Changes); err != nil {
		return nil, errors.Wrap(err, "decoding changes")
	}
	return b, nil
}

func intPtr(i int) *int { return &i }

// EncodeChange converts a single change record.
func EncodeChange(c ui.NodeChange) (Change, error) {
	wc := Change{Node: c.Node().ID(), Type: c.Op().String()}
	switch t := c.(type) {
	case ui.AttachChange, ui.DetachChange:
	case ui.PutChange:
		wc.Feat = intPtr(int(t.Kind))
		wc.Key = t.Key
		if n, ok := t.Value.(*ui.StateNode); ok {
			wc.NodeValue = intPtr(n.ID())
			break
		}
		v, err := EncodeValue(t.Value)
		if err != nil {
			return wc, errors.Wrapf(err, "node %d key %q", wc.Node, t.Key)
		}
		wc.Value = v
	case ui.RemoveChange:
		wc.Feat = intPtr(int(t.Kind))
		wc.Key = t.Key
	case ui.SpliceChange:
		wc.Feat = intPtr(int(t.Kind))
		wc.Index = intPtr(t.Index)
		wc.Remove = t.RemoveCount
		for _, item := range t.Items {
			if n, ok := item.(*ui.StateNode); ok {
				wc.AddNodes = append(wc.AddNodes, n.ID())
				continue
			}
			v, err := EncodeValue(item)
			if err != nil {
				return wc, errors.Wrapf(err, "node %d splice", wc.Node)
			}
			wc.Add = append(wc.Add, v)
		}
		if len(wc.Add) > 0 && len(wc.AddNodes) > 0 {
			return wc, errors.Wrapf(ErrUnencodable, "node %d: splice mixes nodes and values", wc.Node)
		}
	default:
		return wc, errors.Wrapf(ErrUnencodable, "change %T", c)
	}
	return wc, nil
}

// EncodeValue encodes a value as JSON. Nodes can only be encoded as the
// direct value of a put or splice, and numbers must be finite.
func EncodeValue(v ui.Value) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v ui.Value) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
	case ui.Bool:
		buf.WriteString(strconv.FormatBool(bool(t)))
	case ui.Number:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.Wrapf(ErrUnencodable, "number %v", f)
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case ui.String:
		b, err := json.Marshal(string(t))
		if err != nil {
			return errors.Wrap(err, "encoding string")
		}
		buf.Write(b)
	case ui.List:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ui.Object:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeValue(buf, t[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case *ui.StateNode:
		return errors.Wrapf(ErrUnencodable, "nested %v", t)
	default:
		return errors.Wrapf(ErrUnencodable, "%T", v)
	}
	return nil
}

// DecodeValue parses a JSON value. Numbers are decoded as float64.
func DecodeValue(raw json.RawMessage) (ui.Value, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var x any
	if err := json.Unmarshal(raw, &x); err != nil {
		return nil, errors.Wrap(err, "decoding value")
	}
	return ui.ValueOf(x)
}

// DecodeItems parses the values inserted by a splice.
func (c Change) DecodeItems() ([]ui.Value, error) {
	items := make([]ui.Value, 0, len(c.Add))
	for _, raw := range c.Add {
		v, err := DecodeValue(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// Validate checks that the fields required by the change type are present.
func (c Change) Validate() error {
	switch c.Type {
	case "attach", "detach":
		return nil
	case "put":
		if c.Feat == nil || (c.Value == nil && c.NodeValue == nil) {
			return errors.Wrapf(ErrMalformed, "put on node %d", c.Node)
		}
	case "remove":
		if c.Feat == nil {
			return errors.Wrapf(ErrMalformed, "remove on node %d", c.Node)
		}
	case "splice":
		if c.Feat == nil || c.Index == nil {
			return errors.Wrapf(ErrMalformed, "splice on node %d", c.Node)
		}
	default:
		return errors.Wrapf(ErrMalformed, "unknown type %q", c.Type)
	}
	return nil
}
