package dom

import (
	"github.com/atdiar/uistate"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewHTMLTree converts e and its descendants into an html node tree.
// Attributes come first in insertion order, followed by the style and class
// attributes derived from the style and class list namespaces. Raw class and
// style entries of the attribute namespace are ignored.
func NewHTMLTree(e *Element) *html.Node {
	return newHTMLNode(e.node)
}

func newHTMLNode(n *ui.StateNode) *html.Node {
	if n.HasNamespace(ui.TextKind) {
		return &html.Node{Type: html.TextNode, Data: ui.Text(n).Text()}
	}

	tag := ""
	if n.HasNamespace(ui.ElementDataKind) {
		tag = ui.ElementData(n).Tag()
	}
	h := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}

	if n.HasNamespace(ui.AttributesKind) {
		attrs := ui.Attributes(n)
		for _, name := range attrs.Keys() {
			if name == "class" || name == "style" {
				continue
			}
			v, _ := attrs.Attribute(name)
			h.Attr = append(h.Attr, html.Attribute{Key: name, Val: v})
		}
	}
	if n.HasNamespace(ui.StyleKind) {
		if css := ui.Style(n).CSSText(); css != "" {
			h.Attr = append(h.Attr, html.Attribute{Key: "style", Val: css})
		}
	}
	if n.HasNamespace(ui.ClassListKind) {
		if cls := ui.ClassList(n).ClassName(); cls != "" {
			h.Attr = append(h.Attr, html.Attribute{Key: "class", Val: cls})
		}
	}

	if n.HasNamespace(ui.ChildrenKind) {
		for _, c := range ui.Children(n).Items() {
			h.AppendChild(newHTMLNode(c))
		}
	}
	return h
}
