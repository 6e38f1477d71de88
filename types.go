// Package ui implements a server-side UI state tree. Nodes hold their state in
// change-tracked namespaces so that only the net mutations since the last
// synchronization need to be sent to a client.
package ui

import (
	"fmt"
	"math"
)

type discriminant string // just here to pin the definition of the Value interface to this package

// Value is the type for values stored in a node namespace.
// A nil Value stands for null.
type Value interface {
	discriminant() discriminant
	ValueType() string
}

type Bool bool

func (b Bool) discriminant() discriminant { return "uistate" }
func (b Bool) ValueType() string          { return "Bool" }

type String string

func (s String) discriminant() discriminant { return "uistate" }
func (s String) ValueType() string          { return "String" }

type Number float64

func (n Number) discriminant() discriminant { return "uistate" }
func (n Number) ValueType() string          { return "Number" }

type Object map[string]Value

func (o Object) discriminant() discriminant { return "uistate" }
func (o Object) ValueType() string          { return "Object" }

func NewObject() Object {
	return Object(make(map[string]Value))
}

func (o Object) Get(key string) (Value, bool) {
	v, ok := o[key]
	return v, ok
}

func (o Object) Set(key string, value Value) Object {
	o[key] = value
	return o
}

type List []Value

func (l List) discriminant() discriminant { return "uistate" }
func (l List) ValueType() string          { return "List" }

func NewList(val ...Value) List {
	if val != nil {
		return List(val)
	}
	return List(make([]Value, 0))
}

func (n *StateNode) discriminant() discriminant { return "uistate" }
func (n *StateNode) ValueType() string          { return "StateNode" }

// Copy creates a deep-copy of a value. Nodes are returned as is.
func Copy(v Value) Value {
	switch t := v.(type) {
	case nil:
		return nil
	case List:
		r := List(make([]Value, len(t), cap(t)))
		for i, v := range t {
			r[i] = Copy(v)
		}
		return r
	case Object:
		o := NewObject()
		for k, v := range t {
			o[k] = Copy(v)
		}
		return o
	}
	return v
}

// Equal reports whether two values are the same for change tracking purposes.
// Numbers follow boxed-double equality: NaN equals NaN and 0 differs from -0.
func Equal(v Value, w Value) bool {
	if v == nil || w == nil {
		return v == nil && w == nil
	}
	if v.ValueType() != w.ValueType() {
		return false
	}

	switch vt := v.(type) {
	case Bool, String, *StateNode:
		return v == w
	case Number:
		return numberEqual(float64(vt), float64(w.(Number)))
	case List:
		wl := w.(List)
		if len(vt) != len(wl) {
			return false
		}
		for i, item := range vt {
			if !Equal(item, wl[i]) {
				return false
			}
		}
		return true
	case Object:
		wo := w.(Object)
		if len(vt) != len(wo) {
			return false
		}
		for k, val := range vt {
			wal, ok := wo[k]
			if !ok {
				return false
			}
			if !Equal(val, wal) {
				return false
			}
		}
		return true
	}
	return false
}

func numberEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Float64bits(a) == math.Float64bits(b)
}

// ValueOf converts a plain Go value into a Value.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return nil, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return Number(t), nil
	case int32:
		return Number(t), nil
	case int64:
		return Number(t), nil
	case uint:
		return Number(t), nil
	case uint64:
		return Number(t), nil
	case float32:
		return Number(t), nil
	case float64:
		return Number(t), nil
	case []any:
		l := make(List, 0, len(t))
		for _, item := range t {
			v, err := ValueOf(item)
			if err != nil {
				return nil, err
			}
			l = append(l, v)
		}
		return l, nil
	case map[string]any:
		o := NewObject()
		for k, item := range t {
			v, err := ValueOf(item)
			if err != nil {
				return nil, err
			}
			o[k] = v
		}
		return o, nil
	}
	return nil, fmt.Errorf("ui: unsupported value type %T", x)
}
