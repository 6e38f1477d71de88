// Package script replays UI mutation scripts written in YAML against a state
// tree. Each sync step yields the batch of changes a client would receive.
package script

import (
	"context"
	"fmt"
	"runtime"

	"github.com/atdiar/uistate"
	"github.com/atdiar/uistate/codec"
	"github.com/atdiar/uistate/dom"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownOp  = errors.New("script: unknown op")
	ErrUnknownRef = errors.New("script: unknown element")
	ErrBadStep    = errors.New("script: invalid step")
)

// BodyRef names the root element of the tree.
const BodyRef = "body"

// Step is a single mutation. The fields used depend on Op.
type Step struct {
	Op     string         `yaml:"op"`
	Ref    string         `yaml:"ref,omitempty"`
	Tag    string         `yaml:"tag,omitempty"`
	Parent string         `yaml:"parent,omitempty"`
	Index  *int           `yaml:"index,omitempty"`
	Name   string         `yaml:"name,omitempty"`
	Value  any            `yaml:"value,omitempty"`
	Text   string         `yaml:"text,omitempty"`
	Data   map[string]any `yaml:"data,omitempty"`
}

type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "parsing script")
	}
	for i, st := range s.Steps {
		if st.Op == "" {
			return nil, errors.Wrapf(ErrBadStep, "step %d has no op", i)
		}
	}
	return &s, nil
}

// Runner applies scripts to a UI. Elements created by a script are referred
// to by their ref in later steps.
type Runner struct {
	UI      *dom.UI
	refs    map[string]*dom.Element
	encoder *codec.Encoder

	// Events lists the events received by listeners registered with a
	// listen step, as "ref:type".
	Events []string
}

func NewRunner(u *dom.UI) *Runner {
	r := &Runner{
		UI:      u,
		refs:    map[string]*dom.Element{BodyRef: u.Body()},
		encoder: codec.NewEncoder(u.Tree().ID().String()),
	}
	return r
}

func (r *Runner) Element(ref string) (*dom.Element, bool) {
	e, ok := r.refs[ref]
	return e, ok
}

// Run applies the steps of s in order. sink receives the batch produced by
// each sync step; a final sync is implied when the script does not end with
// one.
func (r *Runner) Run(ctx context.Context, s *Script, sink func(*codec.Batch) error) error {
	synced := false
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if st.Op == "sync" {
			if err := r.Sync(sink); err != nil {
				return errors.Wrapf(err, "step %d", i)
			}
			synced = true
			continue
		}
		var err error
		r.UI.Access(func(*ui.StateTree) { err = r.safeApply(st) })
		if err != nil {
			return errors.Wrapf(err, "step %d (%s)", i, st.Op)
		}
		synced = false
	}
	if !synced {
		return r.Sync(sink)
	}
	return nil
}

// Sync collects the pending changes and hands them to sink as a batch.
func (r *Runner) Sync(sink func(*codec.Batch) error) error {
	b, err := r.encoder.Encode(r.UI.Sync())
	if err != nil {
		return err
	}
	ui.DEBUG("script sync", "sync", b.SyncID, "changes", len(b.Changes))
	if sink == nil {
		return nil
	}
	return sink(b)
}

func (r *Runner) lookup(ref string) (*dom.Element, error) {
	e, ok := r.refs[ref]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRef, "%q", ref)
	}
	return e, nil
}

func (r *Runner) define(st Step, e *dom.Element) error {
	if st.Ref == "" {
		return errors.Wrap(ErrBadStep, "missing ref")
	}
	if _, ok := r.refs[st.Ref]; ok {
		return errors.Wrapf(ErrBadStep, "ref %q already defined", st.Ref)
	}
	r.refs[st.Ref] = e
	if st.Parent == "" {
		return nil
	}
	return r.insert(st, e)
}

func (r *Runner) insert(st Step, e *dom.Element) error {
	parent, err := r.lookup(st.Parent)
	if err != nil {
		return err
	}
	for p := parent; p != nil; p = p.Parent() {
		if p.Equal(e) {
			return errors.Wrapf(ErrBadStep, "%q can't be moved under its own descendant %q", st.Ref, st.Parent)
		}
	}
	if st.Index == nil {
		parent.AppendChild(e)
		return nil
	}
	if *st.Index < 0 || *st.Index > parent.ChildCount() {
		return errors.Wrapf(ErrBadStep, "index %d out of range", *st.Index)
	}
	parent.InsertChild(*st.Index, e)
	return nil
}

func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case nil:
		return "", false
	default:
		return fmt.Sprint(t), true
	}
}

func boolValue(v any, def bool) (bool, error) {
	if v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.Wrapf(ErrBadStep, "%v is not a boolean", v)
	}
	return b, nil
}

// safeApply turns the invariant violations raised by the state tree into
// step errors.
func (r *Runner) safeApply(st Step) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		perr, ok := v.(error)
		if _, isRuntime := v.(runtime.Error); !ok || isRuntime {
			panic(v)
		}
		err = fmt.Errorf("%w: %w", ErrBadStep, perr)
	}()
	return r.apply(st)
}

func (r *Runner) apply(st Step) error {
	switch st.Op {
	case "element":
		if st.Tag == "" {
			return errors.Wrap(ErrBadStep, "missing tag")
		}
		return r.define(st, dom.NewElement(st.Tag))
	case "text":
		return r.define(st, dom.NewText(st.Text))
	}

	e, err := r.lookup(st.Ref)
	if err != nil {
		return err
	}
	switch st.Op {
	case "append":
		return r.insert(st, e)
	case "remove":
		e.RemoveFromParent()
	case "clear":
		e.RemoveAllChildren()
	case "attribute":
		if s, ok := stringValue(st.Value); ok {
			return e.SetAttribute(st.Name, s)
		}
		e.RemoveAttribute(st.Name)
	case "property":
		v, err := ui.ValueOf(st.Value)
		if err != nil {
			return errors.Wrap(ErrBadStep, err.Error())
		}
		e.SetProperty(st.Name, v)
	case "style":
		s, _ := stringValue(st.Value)
		e.Style().SetStyle(st.Name, s)
	case "class":
		set, err := boolValue(st.Value, true)
		if err != nil {
			return err
		}
		return e.ClassList().SetClass(st.Name, set)
	case "settext":
		e.SetText(st.Text)
	case "visible":
		v, err := boolValue(st.Value, true)
		if err != nil {
			return err
		}
		e.SetVisible(v)
	case "listen":
		ref, typ := st.Ref, st.Name
		e.AddEventListener(typ, func(*ui.DomEvent) {
			r.Events = append(r.Events, ref+":"+typ)
		})
	case "dispatch":
		data := ui.NewObject()
		for k, x := range st.Data {
			v, err := ui.ValueOf(x)
			if err != nil {
				return errors.Wrap(ErrBadStep, err.Error())
			}
			data.Set(k, v)
		}
		e.DispatchEvent(ui.NewDomEvent(st.Name, e.Node(), data))
	default:
		return errors.Wrapf(ErrUnknownOp, "%q", st.Op)
	}
	return nil
}
