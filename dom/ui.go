package dom

import (
	"github.com/atdiar/uistate"
)

// UI is a state tree whose root is a body element.
type UI struct {
	*ui.Session
	body *Element
}

func NewUI() *UI {
	tree := ui.NewStateTree(ui.ElementDataKind)
	ui.ElementData(tree.Root()).SetTag("body")
	return &UI{
		Session: ui.NewSession(tree),
		body:    &Element{tree.Root()},
	}
}

// Body returns the root element. It is always attached.
func (u *UI) Body() *Element { return u.body }

// ElementByID returns the attached element whose node has the given id.
func (u *UI) ElementByID(id int) *Element {
	return Get(u.Tree().NodeByID(id))
}

// DispatchEvent delivers an event received for node id under the session
// lock. It returns false if no attached node has that id or no listener ran.
func (u *UI) DispatchEvent(id int, eventType string, data ui.Object) bool {
	ran := false
	u.Access(func(*ui.StateTree) {
		if e := u.ElementByID(id); e != nil {
			ran = e.DispatchEvent(ui.NewDomEvent(eventType, e.node, data))
		}
	})
	return ran
}
