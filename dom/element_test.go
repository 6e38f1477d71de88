package dom

import (
	"testing"

	"github.com/atdiar/uistate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOuterHTML(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		assert.Equal(t, "foobar", NewText("foobar").OuterHTML())
	})

	t.Run("single element", func(t *testing.T) {
		assert.Equal(t, "<a></a>", NewElement("a").OuterHTML())
	})

	t.Run("tree", func(t *testing.T) {
		div, span, button := NewElement("div"), NewElement("span"), NewElement("button")
		button.SetText("hello")
		div.AppendChild(span)
		span.AppendChild(button)
		assert.Equal(t, "<div><span><button>hello</button></span></div>", div.OuterHTML())
	})

	t.Run("attributes", func(t *testing.T) {
		div := NewElement("div")
		require.NoError(t, div.SetAttribute("foo", "bar"))
		div.Style().SetStyle("width", "20px")
		require.NoError(t, div.ClassList().AddClass("cls"))
		require.NoError(t, div.SetAttribute("pin", ""))
		assert.Equal(t, `<div foo="bar" pin="" style="width:20px" class="cls"></div>`, div.OuterHTML())
	})

	t.Run("class and style attributes", func(t *testing.T) {
		div := NewElement("div")
		require.NoError(t, div.SetAttribute("class", "a  a"))
		require.NoError(t, div.ClassList().AddClass("b"))
		require.NoError(t, div.SetAttribute("Style", "color: red;"))
		div.Style().SetStyle("width", "1px")
		assert.Equal(t, `<div style="color:red;width:1px" class="a b"></div>`, div.OuterHTML())

		v, ok := div.GetAttribute("class")
		assert.True(t, ok)
		assert.Equal(t, "a b", v)
		assert.ErrorIs(t, div.SetAttribute("style", "color red"), ui.ErrInvalidName)
		assert.Equal(t, "color:red;width:1px", div.Style().CSSText())

		div.RemoveAttribute("class").RemoveAttribute("style")
		assert.False(t, div.HasAttribute("class"))
		assert.Equal(t, "<div></div>", div.OuterHTML())

		// raw entries of the attribute namespace are not rendered
		ui.Attributes(div.Node()).Put("class", ui.String("raw"))
		assert.Equal(t, "<div></div>", div.OuterHTML())
	})

	t.Run("escaping", func(t *testing.T) {
		div := NewElement("div")
		require.NoError(t, div.SetAttribute("foo", `bar"&`))
		div.AppendChild(NewText("<b>"))
		assert.Equal(t, `<div foo="bar&#34;&amp;">&lt;b&gt;</div>`, div.OuterHTML())
	})
}

func TestChildren(t *testing.T) {
	parent := NewElement("ul")
	a, b, c := NewElement("li"), NewElement("li"), NewElement("li")
	parent.AppendChild(a, b)
	parent.InsertChild(1, c)
	assert.Equal(t, []*Element{a, c, b}, parent.Children())
	assert.True(t, a.Parent().Equal(parent))
	assert.Equal(t, 3, parent.ChildCount())
	assert.True(t, parent.Child(1).Equal(c))

	// moving within the same parent keeps the child attached
	parent.AppendChild(a)
	assert.Equal(t, []*Element{c, b, a}, parent.Children())
	parent.InsertChild(0, a)
	assert.Equal(t, []*Element{a, c, b}, parent.Children())

	other := NewElement("ol")
	other.AppendChild(b)
	assert.Equal(t, 2, parent.ChildCount())
	assert.True(t, b.Parent().Equal(other))

	assert.True(t, parent.RemoveChild(c))
	assert.False(t, parent.RemoveChild(c))
	assert.Nil(t, c.Parent())

	parent.RemoveAllChildren()
	assert.Zero(t, parent.ChildCount())
	assert.Nil(t, a.Parent())
}

func TestSetChildren(t *testing.T) {
	u := NewUI()
	list := NewElement("ul")
	u.Body().AppendChild(list)
	a, b, c := NewElement("li"), NewElement("li"), NewElement("li")
	list.SetChildren(a, b, c)
	u.Sync()

	list.SetChildren(c, a, b)
	changes := u.Sync()
	var splices int
	for _, ch := range changes {
		if ch.Op() == ui.OpSplice {
			splices++
		}
	}
	assert.Equal(t, 2, splices)
	assert.Equal(t, []*Element{c, a, b}, list.Children())
}

func TestTextContent(t *testing.T) {
	p := NewElement("p")
	p.AppendChild(NewText("a"))
	b := NewElement("b")
	b.SetText("b")
	p.AppendChild(b, NewText("c"))
	assert.Equal(t, "abc", p.TextContent())

	p.SetText("x")
	assert.Equal(t, 1, p.ChildCount())
	assert.Equal(t, "x", p.TextContent())

	txt := p.Child(0)
	assert.True(t, txt.IsText())
	txt.SetText("y")
	assert.Equal(t, "y", p.TextContent())
}

func TestElementAccessors(t *testing.T) {
	e := NewElement("input")
	assert.Equal(t, "input", e.Tag())
	assert.False(t, e.HasAttribute("type"))
	_, ok := e.GetProperty("value")
	assert.False(t, ok)

	e.SetProperty("value", ui.String("x"))
	v, ok := e.GetProperty("value")
	assert.True(t, ok)
	assert.Equal(t, ui.String("x"), v)
	e.RemoveProperty("value")
	_, ok = e.GetProperty("value")
	assert.False(t, ok)

	assert.ErrorIs(t, e.SetAttribute("a b", "x"), ui.ErrInvalidName)
	assert.True(t, e.IsVisible())
	e.SetVisible(false)
	assert.False(t, e.IsVisible())
	assert.Equal(t, "<input>", e.String())
}

func TestUI(t *testing.T) {
	u := NewUI()
	assert.Equal(t, "body", u.Body().Tag())
	assert.Equal(t, 1, u.Body().Node().ID())

	button := NewElement("button")
	clicks := 0
	button.AddEventListener("click", func(evt *ui.DomEvent) {
		clicks++
		assert.Equal(t, ui.Number(1), evt.Data()["detail"])
	})
	u.Body().AppendChild(button)
	changes := u.Sync()
	require.NotEmpty(t, changes)

	id := button.Node().ID()
	assert.True(t, u.ElementByID(id).Equal(button))
	assert.True(t, u.DispatchEvent(id, "click", ui.NewObject().Set("detail", ui.Number(1))))
	assert.False(t, u.DispatchEvent(id, "keyup", nil))
	assert.False(t, u.DispatchEvent(999, "click", nil))
	assert.Equal(t, 1, clicks)
}
