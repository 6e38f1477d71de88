package ui

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// ElementDataNamespace holds the basic data of an element node.
type ElementDataNamespace struct {
	*MapNamespace
}

func newElementDataNamespace(n *StateNode, k Kind) *ElementDataNamespace {
	return &ElementDataNamespace{NewMapNamespace(n, k)}
}

func (e *ElementDataNamespace) SetTag(tag string) {
	e.Put("tag", String(tag))
}

func (e *ElementDataNamespace) Tag() string {
	s, _ := e.Get("tag").(String)
	return string(s)
}

func (e *ElementDataNamespace) SetPayload(payload Value) {
	e.Put("payload", payload)
}

func (e *ElementDataNamespace) Payload() Value {
	return e.Get("payload")
}

// SetVisible stores the visibility flag. Visible is the default, so it only
// takes room in the map when the element is hidden.
func (e *ElementDataNamespace) SetVisible(visible bool) {
	if visible {
		e.Remove("visible")
		return
	}
	e.Put("visible", Bool(false))
}

func (e *ElementDataNamespace) Visible() bool {
	v, ok := e.Lookup("visible")
	if !ok {
		return true
	}
	b, _ := v.(Bool)
	return bool(b)
}

// PropertyNamespace holds element properties. Values are limited to strings,
// booleans, numbers and null.
type PropertyNamespace struct {
	*MapNamespace
}

func newPropertyNamespace(n *StateNode, k Kind) *PropertyNamespace {
	return &PropertyNamespace{NewMapNamespace(n, k)}
}

func isPropertyValue(v Value) bool {
	switch v.(type) {
	case nil, String, Bool, Number:
		return true
	}
	return false
}

func (p *PropertyNamespace) Put(name string, value Value) {
	mustHold(name != "", ErrInvalidName, "empty property name")
	mustHold(isPropertyValue(value), ErrInvalidValue, fmt.Sprintf("property %q can't hold a %T", name, value))
	p.MapNamespace.Put(name, value)
}

func (p *PropertyNamespace) SetProperty(name string, value Value) {
	p.Put(name, value)
}

func (p *PropertyNamespace) Property(name string) (Value, bool) {
	return p.Lookup(name)
}

func (p *PropertyNamespace) RemoveProperty(name string) {
	p.Remove(name)
}

// AttributeNamespace holds element attributes. Names are lower case.
type AttributeNamespace struct {
	*MapNamespace
}

func newAttributeNamespace(n *StateNode, k Kind) *AttributeNamespace {
	return &AttributeNamespace{NewMapNamespace(n, k)}
}

// ValidAttributeName reports whether name may be used as an attribute name.
func ValidAttributeName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
		switch r {
		case '"', '\'', '>', '/', '=', '<':
			return false
		}
	}
	return true
}

func (a *AttributeNamespace) Put(name string, value Value) {
	_, ok := value.(String)
	mustHold(ok, ErrInvalidValue, fmt.Sprintf("attribute %q can't hold a %T", name, value))
	a.MapNamespace.Put(name, value)
}

// SetAttribute sets an attribute. An invalid name is rejected with
// ErrInvalidName and leaves the namespace untouched.
func (a *AttributeNamespace) SetAttribute(name, value string) error {
	if !ValidAttributeName(name) {
		return fmt.Errorf("%w: attribute %q", ErrInvalidName, name)
	}
	a.Put(strings.ToLower(name), String(value))
	return nil
}

func (a *AttributeNamespace) Attribute(name string) (string, bool) {
	v, ok := a.Lookup(strings.ToLower(name))
	if !ok {
		return "", false
	}
	s, _ := v.(String)
	return string(s), true
}

func (a *AttributeNamespace) HasAttribute(name string) bool {
	return a.Contains(strings.ToLower(name))
}

func (a *AttributeNamespace) RemoveAttribute(name string) {
	a.Remove(strings.ToLower(name))
}

// StyleNamespace holds inline style properties, keyed by their dash-case CSS
// name.
type StyleNamespace struct {
	*MapNamespace
}

func newStyleNamespace(n *StateNode, k Kind) *StyleNamespace {
	return &StyleNamespace{NewMapNamespace(n, k)}
}

// StyleAttributeName converts a camelCase style property name such as
// "backgroundColor" to its CSS form "background-color". Custom properties
// ("--foo") are kept as is.
func StyleAttributeName(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func validStyleName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r == '-' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) {
			continue
		}
		return false
	}
	return true
}

func (s *StyleNamespace) Put(name string, value Value) {
	str, ok := value.(String)
	mustHold(ok, ErrInvalidValue, fmt.Sprintf("style %q can't hold a %T", name, value))
	mustHold(validStyleName(name), ErrInvalidName, fmt.Sprintf("style property %q", name))
	mustHold(!strings.HasSuffix(strings.TrimSpace(string(str)), ";"), ErrInvalidValue,
		fmt.Sprintf("style %q value %q must not end with a semicolon", name, str))
	s.MapNamespace.Put(name, value)
}

// SetStyle sets a style property. An empty value removes it.
func (s *StyleNamespace) SetStyle(name, value string) {
	name = StyleAttributeName(name)
	value = strings.TrimSpace(value)
	if value == "" {
		s.Remove(name)
		return
	}
	s.Put(name, String(value))
}

func (s *StyleNamespace) Style(name string) (string, bool) {
	v, ok := s.Lookup(StyleAttributeName(name))
	if !ok {
		return "", false
	}
	str, _ := v.(String)
	return string(str), true
}

func (s *StyleNamespace) RemoveStyle(name string) {
	s.Remove(StyleAttributeName(name))
}

// CSSText renders the style properties as the value of a style attribute.
func (s *StyleNamespace) CSSText() string {
	var b strings.Builder
	for i, name := range s.Keys() {
		if i > 0 {
			b.WriteByte(';')
		}
		v, _ := s.Get(name).(String)
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(string(v))
	}
	return b.String()
}

// SetCSSText replaces every style property with the declarations of text,
// given in the syntax of a style attribute. Nothing changes when a
// declaration is invalid.
func (s *StyleNamespace) SetCSSText(text string) error {
	var names, values []string
	for _, decl := range strings.Split(text, ";") {
		if strings.TrimSpace(decl) == "" {
			continue
		}
		name, value, ok := strings.Cut(decl, ":")
		name = StyleAttributeName(strings.TrimSpace(name))
		if !ok || !validStyleName(name) {
			return fmt.Errorf("%w: style declaration %q", ErrInvalidName, decl)
		}
		names = append(names, name)
		values = append(values, value)
	}
	s.Clear()
	for i, name := range names {
		s.SetStyle(name, values[i])
	}
	return nil
}

// ClassListNamespace holds the CSS classes of an element.
type ClassListNamespace struct {
	*ListNamespace[String]
}

func newClassListNamespace(n *StateNode, k Kind) *ClassListNamespace {
	return &ClassListNamespace{NewListNamespace[String](n, k)}
}

func validateClassName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidClassName)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidClassName, name)
	}
	return nil
}

// AddClass adds a class name. Adding a present class is a no-op.
func (c *ClassListNamespace) AddClass(name string) error {
	if err := validateClassName(name); err != nil {
		return err
	}
	if c.Contains(String(name)) {
		return nil
	}
	c.Append(String(name))
	return nil
}

func (c *ClassListNamespace) RemoveClass(name string) (bool, error) {
	if err := validateClassName(name); err != nil {
		return false, err
	}
	i := c.IndexOf(String(name))
	if i < 0 {
		return false, nil
	}
	c.Remove(i)
	return true, nil
}

func (c *ClassListNamespace) HasClass(name string) bool {
	return c.Contains(String(name))
}

// SetClass adds or removes a class name.
func (c *ClassListNamespace) SetClass(name string, set bool) error {
	if set {
		return c.AddClass(name)
	}
	_, err := c.RemoveClass(name)
	return err
}

// SetClassName replaces the class list with the space separated names of
// value, dropping duplicates.
func (c *ClassListNamespace) SetClassName(value string) {
	var names []String
	for _, name := range strings.Fields(value) {
		if !slices.Contains(names, String(name)) {
			names = append(names, String(name))
		}
	}
	c.SetAll(names)
}

func (c *ClassListNamespace) Names() []string {
	items := c.Items()
	names := make([]string, len(items))
	for i, s := range items {
		names[i] = string(s)
	}
	return names
}

// ClassName renders the class list as the value of a class attribute.
func (c *ClassListNamespace) ClassName() string {
	return strings.Join(c.Names(), " ")
}

// TextNamespace holds the content of a text node.
type TextNamespace struct {
	*MapNamespace
}

func newTextNamespace(n *StateNode, k Kind) *TextNamespace {
	return &TextNamespace{NewMapNamespace(n, k)}
}

func (t *TextNamespace) SetText(text string) {
	t.Put("text", String(text))
}

func (t *TextNamespace) Text() string {
	s, _ := t.Get("text").(String)
	return string(s)
}

func ElementData(n *StateNode) *ElementDataNamespace {
	return NamespaceAs[*ElementDataNamespace](n, ElementDataKind)
}

func Properties(n *StateNode) *PropertyNamespace {
	return NamespaceAs[*PropertyNamespace](n, PropertiesKind)
}

func Attributes(n *StateNode) *AttributeNamespace {
	return NamespaceAs[*AttributeNamespace](n, AttributesKind)
}

func Style(n *StateNode) *StyleNamespace {
	return NamespaceAs[*StyleNamespace](n, StyleKind)
}

func ClassList(n *StateNode) *ClassListNamespace {
	return NamespaceAs[*ClassListNamespace](n, ClassListKind)
}

func Children(n *StateNode) *ListNamespace[*StateNode] {
	return NamespaceAs[*ListNamespace[*StateNode]](n, ChildrenKind)
}

func VirtualChildren(n *StateNode) *ListNamespace[*StateNode] {
	return NamespaceAs[*ListNamespace[*StateNode]](n, VirtualChildrenKind)
}

func Listeners(n *StateNode) *ListenerNamespace {
	return NamespaceAs[*ListenerNamespace](n, ListenersKind)
}

func Text(n *StateNode) *TextNamespace {
	return NamespaceAs[*TextNamespace](n, TextKind)
}

func Dependencies(n *StateNode) *ListNamespace[String] {
	return NamespaceAs[*ListNamespace[String]](n, DependenciesKind)
}

func Config(n *StateNode) *MapNamespace {
	return NamespaceAs[*MapNamespace](n, ConfigKind)
}
