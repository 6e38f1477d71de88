package codec

import (
	"bytes"
	"math"
	"testing"

	"github.com/atdiar/uistate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(tree *ui.StateTree) []ui.NodeChange {
	var changes []ui.NodeChange
	tree.CollectChanges(func(c ui.NodeChange) { changes = append(changes, c) })
	return changes
}

func TestEncodeChanges(t *testing.T) {
	tree := ui.NewStateTree()
	n := ui.NewStateNode()
	ui.Children(tree.Root()).Append(n)
	ui.Properties(n).SetProperty("value", ui.String("x"))
	ui.Config(n).Put("obj", ui.NewObject().Set("b", ui.Number(1)).Set("a", ui.Bool(true)))

	enc := NewEncoder(tree.ID().String())
	b, err := enc.Encode(collect(tree))
	require.NoError(t, err)
	assert.Equal(t, 1, b.SyncID)
	assert.Equal(t, 1, enc.SyncID())
	require.Len(t, b.Changes, 4)

	splice := b.Changes[0]
	assert.Equal(t, "splice", splice.Type)
	assert.Equal(t, 1, splice.Node)
	assert.Equal(t, int(ui.ChildrenKind), *splice.Feat)
	assert.Equal(t, 0, *splice.Index)
	assert.Equal(t, []int{n.ID()}, splice.AddNodes)
	assert.Empty(t, splice.Add)

	assert.Equal(t, Change{Node: n.ID(), Type: "attach"}, b.Changes[1])
	assert.Equal(t, `"x"`, string(b.Changes[2].Value))
	assert.Equal(t, `{"a":true,"b":1}`, string(b.Changes[3].Value))

	ui.Properties(n).RemoveProperty("value")
	b, err = enc.Encode(collect(tree))
	require.NoError(t, err)
	assert.Equal(t, 2, b.SyncID)
	require.Len(t, b.Changes, 1)
	assert.Equal(t, "remove", b.Changes[0].Type)
	assert.Equal(t, "value", b.Changes[0].Key)
}

func TestEncodeNodeValue(t *testing.T) {
	tree := ui.NewStateTree()
	child := ui.NewStateNode()
	ui.Config(tree.Root()).Put("slot", child)

	b, err := NewEncoder("").Encode(collect(tree))
	require.NoError(t, err)
	require.Len(t, b.Changes, 2)
	put := b.Changes[0]
	require.NotNil(t, put.NodeValue)
	assert.Equal(t, child.ID(), *put.NodeValue)
	assert.Nil(t, put.Value)
}

func TestEncodeValue(t *testing.T) {
	tests := []struct {
		name string
		in   ui.Value
		want string
	}{
		{"null", nil, "null"},
		{"bool", ui.Bool(false), "false"},
		{"integer", ui.Number(42), "42"},
		{"float", ui.Number(0.5), "0.5"},
		{"string", ui.String(`a"b`), `"a\"b"`},
		{"list", ui.NewList(ui.Number(1), ui.String("x"), nil), `[1,"x",null]`},
		{"object", ui.NewObject().Set("z", ui.NewList()).Set("a", ui.Number(1)), `{"a":1,"z":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := EncodeValue(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(raw))

			v, err := DecodeValue(raw)
			require.NoError(t, err)
			assert.True(t, ui.Equal(tt.in, v), "decoded %v", v)
		})
	}

	_, err := EncodeValue(ui.Number(math.NaN()))
	assert.ErrorIs(t, err, ErrUnencodable)
	_, err = EncodeValue(ui.NewList(ui.NewStateNode()))
	assert.ErrorIs(t, err, ErrUnencodable)
}

func TestMarshalDecode(t *testing.T) {
	tree := ui.NewStateTree()
	n := ui.NewStateNode()
	ui.Children(tree.Root()).Append(n)
	ui.Dependencies(n).Append("a.js")
	ui.Properties(n).SetProperty("empty", nil)

	b, err := NewEncoder("tree").Encode(collect(tree))
	require.NoError(t, err)
	data, err := Marshal(b)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, b.SyncID, got.SyncID)
	assert.Equal(t, "tree", got.Tree)
	assert.Equal(t, b.Checksum, got.Checksum)
	require.Len(t, got.Changes, len(b.Changes))
	for _, c := range got.Changes {
		assert.NoError(t, c.Validate())
	}

	assert.Equal(t, "null", string(got.Changes[2].Value))
	items, err := got.Changes[3].DecodeItems()
	require.NoError(t, err)
	assert.Equal(t, []ui.Value{ui.String("a.js")}, items)

	tampered := bytes.Replace(data, []byte("a.js"), []byte("b.js"), 1)
	_, err = Decode(tampered)
	assert.ErrorIs(t, err, ErrChecksum)

	_, err = Decode([]byte("{"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	feat := 1
	assert.NoError(t, Change{Type: "attach"}.Validate())
	assert.ErrorIs(t, Change{Type: "put"}.Validate(), ErrMalformed)
	assert.ErrorIs(t, Change{Type: "put", Feat: &feat}.Validate(), ErrMalformed)
	assert.ErrorIs(t, Change{Type: "splice", Feat: &feat}.Validate(), ErrMalformed)
	assert.ErrorIs(t, Change{Type: "move"}.Validate(), ErrMalformed)
}
