package script

import (
	"context"
	"testing"

	"github.com/atdiar/uistate"
	"github.com/atdiar/uistate/codec"
	"github.com/atdiar/uistate/dom"
	"github.com/atdiar/uistate/replica"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const todo = `
name: todo
steps:
  - {op: element, ref: list, tag: ul, parent: body}
  - {op: attribute, ref: list, name: id, value: todos}
  - {op: element, ref: first, tag: li, parent: list}
  - {op: settext, ref: first, text: buy milk}
  - {op: class, ref: first, name: done}
  - op: sync
  - {op: element, ref: second, tag: li, parent: list, index: 0}
  - {op: text, ref: label, text: walk dog, parent: second}
  - {op: style, ref: second, name: fontWeight, value: bold}
  - {op: property, ref: second, name: count, value: 2}
  - {op: class, ref: first, name: done, value: false}
  - {op: listen, ref: second, name: click}
  - {op: dispatch, ref: second, name: click, data: {x: 1}}
`

func TestRunScript(t *testing.T) {
	s, err := Parse([]byte(todo))
	require.NoError(t, err)
	assert.Equal(t, "todo", s.Name)
	require.Len(t, s.Steps, 13)

	u := dom.NewUI()
	r := NewRunner(u)
	mirror := replica.NewTree()
	var batches []*codec.Batch
	err = r.Run(context.Background(), s, func(b *codec.Batch) error {
		batches = append(batches, b)
		return mirror.Apply(b)
	})
	require.NoError(t, err)
	require.Len(t, batches, 2, "a final sync is implied")
	assert.Equal(t, []string{"second:click"}, r.Events)

	var html string
	u.Access(func(*ui.StateTree) { html = u.Body().OuterHTML() })
	assert.Equal(t,
		`<body><ul id="todos"><li style="font-weight:bold">walk dog</li><li>buy milk</li></ul></body>`,
		html)

	list, ok := r.Element("list")
	require.True(t, ok)
	items := mirror.List(list.Node().ID(), ui.ChildrenKind)
	require.Len(t, items, 2)
	assert.Equal(t, list.Child(0).Node().ID(), items[0].Node)
	assert.Equal(t, list.Child(1).Node().ID(), items[1].Node)

	second, _ := r.Element("second")
	props := mirror.Map(second.Node().ID(), ui.PropertiesKind)
	assert.Equal(t, ui.Number(2), props["count"].Value)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		err    error
	}{
		{"unknown op", "steps: [{op: explode, ref: body}]", ErrUnknownOp},
		{"unknown ref", "steps: [{op: attribute, ref: nope, name: a, value: b}]", ErrUnknownRef},
		{"duplicate ref", "steps: [{op: element, ref: a, tag: p}, {op: element, ref: a, tag: p}]", ErrBadStep},
		{"missing tag", "steps: [{op: element, ref: a}]", ErrBadStep},
		{"bad index", "steps: [{op: element, ref: a, tag: p, parent: body, index: 4}]", ErrBadStep},
		{"bad class", "steps: [{op: class, ref: body, name: 'a b'}]", ui.ErrInvalidClassName},
		{"bad attribute", "steps: [{op: attribute, ref: body, name: 'a=b', value: x}]", ui.ErrInvalidName},
		{"cycle", "steps: [{op: element, ref: a, tag: p, parent: body}, {op: element, ref: b, tag: p, parent: a}, {op: append, ref: a, parent: b}]", ErrBadStep},
		{"body under its child", "steps: [{op: element, ref: a, tag: p, parent: body}, {op: append, ref: body, parent: a}]", ErrBadStep},
		{"body under detached element", "steps: [{op: element, ref: a, tag: p}, {op: append, ref: body, parent: a}]", ui.ErrRootParent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.script))
			require.NoError(t, err)
			err = NewRunner(dom.NewUI()).Run(context.Background(), s, nil)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := Parse([]byte("steps: [{ref: a}]"))
	assert.ErrorIs(t, err, ErrBadStep)

	t.Run("invalid style value", func(t *testing.T) {
		prev := ui.AssertionsEnabled
		ui.AssertionsEnabled = true
		t.Cleanup(func() { ui.AssertionsEnabled = prev })

		s, err := Parse([]byte(`steps: [{op: style, ref: body, name: color, value: "red;"}]`))
		require.NoError(t, err)
		err = NewRunner(dom.NewUI()).Run(context.Background(), s, nil)
		assert.ErrorIs(t, err, ErrBadStep)
		assert.ErrorIs(t, err, ui.ErrInvalidValue)
	})
}

func TestRunCancelled(t *testing.T) {
	s, err := Parse([]byte(todo))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NewRunner(dom.NewUI()).Run(ctx, s, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
