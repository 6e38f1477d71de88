// Package dom exposes state nodes as DOM-like elements.
package dom

import (
	"bytes"
	"io"
	"strings"

	"github.com/atdiar/uistate"
	"golang.org/x/net/html"
)

// Element is a view over a state node holding the namespaces of an element
// or a text node. Several Element values may wrap the same node.
type Element struct {
	node *ui.StateNode
}

// NewElement creates a detached element with the given tag.
func NewElement(tag string) *Element {
	n := ui.NewStateNode(ui.ElementDataKind)
	ui.ElementData(n).SetTag(tag)
	return &Element{n}
}

// NewText creates a detached text node.
func NewText(text string) *Element {
	n := ui.NewStateNode(ui.TextKind)
	ui.Text(n).SetText(text)
	return &Element{n}
}

// Get returns the element backed by n.
func Get(n *ui.StateNode) *Element {
	if n == nil {
		return nil
	}
	return &Element{n}
}

func (e *Element) Node() *ui.StateNode { return e.node }

func (e *Element) Tag() string {
	if e.IsText() {
		return ""
	}
	return ui.ElementData(e.node).Tag()
}

func (e *Element) IsText() bool {
	return e.node.HasNamespace(ui.TextKind)
}

// Equal reports whether both elements wrap the same node.
func (e *Element) Equal(other *Element) bool {
	return other != nil && e.node == other.node
}

// SetAttribute sets an attribute. The class and style attributes replace
// the class list and the inline style of the element.
func (e *Element) SetAttribute(name, value string) error {
	switch strings.ToLower(name) {
	case "class":
		e.ClassList().SetClassName(value)
		return nil
	case "style":
		return e.Style().SetCSSText(value)
	}
	return ui.Attributes(e.node).SetAttribute(name, value)
}

func (e *Element) GetAttribute(name string) (string, bool) {
	switch strings.ToLower(name) {
	case "class":
		if !e.node.HasNamespace(ui.ClassListKind) || e.ClassList().Size() == 0 {
			return "", false
		}
		return e.ClassList().ClassName(), true
	case "style":
		if !e.node.HasNamespace(ui.StyleKind) || e.Style().Size() == 0 {
			return "", false
		}
		return e.Style().CSSText(), true
	}
	if !e.node.HasNamespace(ui.AttributesKind) {
		return "", false
	}
	return ui.Attributes(e.node).Attribute(name)
}

func (e *Element) HasAttribute(name string) bool {
	_, ok := e.GetAttribute(name)
	return ok
}

func (e *Element) RemoveAttribute(name string) *Element {
	switch strings.ToLower(name) {
	case "class":
		if e.node.HasNamespace(ui.ClassListKind) {
			e.ClassList().Clear()
		}
	case "style":
		if e.node.HasNamespace(ui.StyleKind) {
			e.Style().Clear()
		}
	default:
		if e.node.HasNamespace(ui.AttributesKind) {
			ui.Attributes(e.node).RemoveAttribute(name)
		}
	}
	return e
}

func (e *Element) SetProperty(name string, value ui.Value) *Element {
	ui.Properties(e.node).SetProperty(name, value)
	return e
}

func (e *Element) GetProperty(name string) (ui.Value, bool) {
	if !e.node.HasNamespace(ui.PropertiesKind) {
		return nil, false
	}
	return ui.Properties(e.node).Property(name)
}

func (e *Element) RemoveProperty(name string) *Element {
	if e.node.HasNamespace(ui.PropertiesKind) {
		ui.Properties(e.node).RemoveProperty(name)
	}
	return e
}

func (e *Element) Style() *ui.StyleNamespace { return ui.Style(e.node) }

func (e *Element) ClassList() *ui.ClassListNamespace { return ui.ClassList(e.node) }

func (e *Element) SetVisible(visible bool) *Element {
	ui.ElementData(e.node).SetVisible(visible)
	return e
}

func (e *Element) IsVisible() bool {
	if !e.node.HasNamespace(ui.ElementDataKind) {
		return true
	}
	return ui.ElementData(e.node).Visible()
}

// Parent returns the parent element, nil for a detached or root element.
func (e *Element) Parent() *Element {
	return Get(e.node.Parent())
}

func (e *Element) ChildCount() int {
	if !e.node.HasNamespace(ui.ChildrenKind) {
		return 0
	}
	return ui.Children(e.node).Size()
}

func (e *Element) Child(index int) *Element {
	return Get(ui.Children(e.node).Get(index))
}

func (e *Element) Children() []*Element {
	if !e.node.HasNamespace(ui.ChildrenKind) {
		return nil
	}
	nodes := ui.Children(e.node).Items()
	res := make([]*Element, len(nodes))
	for i, n := range nodes {
		res[i] = &Element{n}
	}
	return res
}

func (e *Element) IndexOfChild(child *Element) int {
	if !e.node.HasNamespace(ui.ChildrenKind) {
		return -1
	}
	return ui.Children(e.node).IndexOf(child.node)
}

// AppendChild adds children at the end, moving them from their current
// parent if any.
func (e *Element) AppendChild(children ...*Element) *Element {
	for _, c := range children {
		e.InsertChild(e.ChildCount(), c)
	}
	return e
}

// InsertChild inserts child at index. A child already under e is moved.
func (e *Element) InsertChild(index int, child *Element) *Element {
	if child.node.Parent() == e.node {
		if i := e.IndexOfChild(child); i >= 0 {
			if i < index {
				index--
			}
			ui.Children(e.node).Move(i, index)
			return e
		}
	}
	if child.node.Parent() != nil {
		child.node.SetParent(nil)
	}
	ui.Children(e.node).Add(index, child.node)
	return e
}

// RemoveChild removes child from the children of e. It returns false if
// child is not one of them.
func (e *Element) RemoveChild(child *Element) bool {
	i := e.IndexOfChild(child)
	if i < 0 {
		return false
	}
	ui.Children(e.node).Remove(i)
	return true
}

func (e *Element) RemoveAllChildren() *Element {
	if e.node.HasNamespace(ui.ChildrenKind) {
		ui.Children(e.node).Clear()
	}
	return e
}

// RemoveFromParent detaches e from its parent.
func (e *Element) RemoveFromParent() *Element {
	e.node.SetParent(nil)
	return e
}

// SetChildren replaces the children of e, only emitting the splices needed
// to turn the current children into the new ones.
func (e *Element) SetChildren(children ...*Element) *Element {
	nodes := make([]*ui.StateNode, len(children))
	for i, c := range children {
		if p := c.node.Parent(); p != nil && p != e.node {
			c.node.SetParent(nil)
		}
		nodes[i] = c.node
	}
	ui.Children(e.node).SetAll(nodes)
	return e
}

// SetText replaces the content of e by a single text node. For a text node,
// the text itself is replaced.
func (e *Element) SetText(text string) *Element {
	if e.IsText() {
		ui.Text(e.node).SetText(text)
		return e
	}
	e.RemoveAllChildren()
	if text != "" {
		e.AppendChild(NewText(text))
	}
	return e
}

// TextContent returns the concatenated text of e and its descendants.
func (e *Element) TextContent() string {
	var b bytes.Buffer
	e.node.VisitTree(func(n *ui.StateNode) {
		if n.HasNamespace(ui.TextKind) {
			b.WriteString(ui.Text(n).Text())
		}
	})
	return b.String()
}

func (e *Element) AddEventListener(eventType string, fn func(*ui.DomEvent)) ui.Registration {
	return ui.Listeners(e.node).AddListener(eventType, fn)
}

// DispatchEvent runs the listeners of e for evt. It returns whether any
// listener ran.
func (e *Element) DispatchEvent(evt *ui.DomEvent) bool {
	if !e.node.HasNamespace(ui.ListenersKind) {
		return false
	}
	return ui.Listeners(e.node).Fire(evt)
}

// OuterHTML renders e and its descendants.
func (e *Element) OuterHTML() string {
	var b bytes.Buffer
	if err := e.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

func (e *Element) Render(w io.Writer) error {
	return html.Render(w, NewHTMLTree(e))
}

func (e *Element) String() string {
	if e.IsText() {
		return "#text"
	}
	return "<" + e.Tag() + ">"
}
