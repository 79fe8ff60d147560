package dom

import (
	"html"
	"io"
	"math"
	"strconv"
	"strings"
)

// Attr is a single name/value attribute.
type Attr struct {
	Key, Value string
}

// Element is a node of the tree. An element with an empty Name is a text node.
type Element struct {
	Name     string
	Attrs    []Attr
	Styles   []Attr
	Children []*Element
	Text     string
	parent   *Element
}

// New creates a detached element.
func New(name string) *Element {
	return &Element{Name: name}
}

// Text creates a detached text node.
func Text(s string) *Element {
	return &Element{Text: s}
}

// IsText reports whether e is a text node.
func (e *Element) IsText() bool { return e.Name == "" }

// Parent returns the containing element, or nil.
func (e *Element) Parent() *Element { return e.parent }

// Append creates a child element and returns it.
func (e *Element) Append(name string) *Element {
	return e.AppendChild(New(name))
}

// AppendText adds a text node and returns e.
func (e *Element) AppendText(s string) *Element {
	e.AppendChild(Text(s))
	return e
}

// AppendChild attaches c, detaching it from any previous parent, and returns c.
func (e *Element) AppendChild(c *Element) *Element {
	if c.parent != nil {
		c.Remove()
	}
	c.parent = e
	e.Children = append(e.Children, c)
	return c
}

// Set assigns an attribute, replacing any previous value.
func (e *Element) Set(key, value string) *Element {
	e.Attrs = upsert(e.Attrs, key, value)
	return e
}

// SetNum assigns a numeric attribute.
func (e *Element) SetNum(key string, v float64) *Element {
	return e.Set(key, Num(v))
}

// Get returns an attribute value.
func (e *Element) Get(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Unset removes an attribute.
func (e *Element) Unset(key string) *Element {
	for i, a := range e.Attrs {
		if a.Key == key {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			break
		}
	}
	return e
}

// Style assigns an inline style property.
func (e *Element) Style(key, value string) *Element {
	e.Styles = upsert(e.Styles, key, value)
	return e
}

// StyleValue returns an inline style property.
func (e *Element) StyleValue(key string) (string, bool) {
	for _, a := range e.Styles {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetText replaces the children with a single text node.
func (e *Element) SetText(s string) *Element {
	e.Clear()
	e.AppendText(s)
	return e
}

// TextContent concatenates all descendant text.
func (e *Element) TextContent() string {
	if e.IsText() {
		return e.Text
	}
	var b strings.Builder
	for _, c := range e.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Clear removes every child.
func (e *Element) Clear() {
	for _, c := range e.Children {
		c.parent = nil
	}
	e.Children = nil
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	p := e.parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c == e {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	e.parent = nil
}

// Clone returns a detached deep copy of e.
func (e *Element) Clone() *Element {
	c := &Element{
		Name:   e.Name,
		Text:   e.Text,
		Attrs:  append([]Attr(nil), e.Attrs...),
		Styles: append([]Attr(nil), e.Styles...),
	}
	for _, child := range e.Children {
		c.AppendChild(child.Clone())
	}
	return c
}

// Walk visits e and its descendants depth first. Returning false from fn
// skips the element's children.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// FindAll returns descendants (excluding e) matching match, in document order.
func (e *Element) FindAll(match func(*Element) bool) []*Element {
	var out []*Element
	for _, c := range e.Children {
		c.Walk(func(n *Element) bool {
			if match(n) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// Find returns the first descendant matching match, or nil.
func (e *Element) Find(match func(*Element) bool) *Element {
	all := e.FindAll(match)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// Matchers for Find and FindAll.

func ByName(name string) func(*Element) bool {
	return func(e *Element) bool { return e.Name == name }
}

func ByID(id string) func(*Element) bool {
	return func(e *Element) bool {
		v, ok := e.Get("id")
		return ok && v == id
	}
}

func ByClass(class string) func(*Element) bool {
	return func(e *Element) bool { return e.HasClass(class) }
}

// HasClass reports whether the class attribute lists class.
func (e *Element) HasClass(class string) bool {
	v, ok := e.Get("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

var voidElements = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "meta": true,
	"circle": true, "ellipse": true, "line": true, "path": true,
	"polyline": true, "polygon": true, "rect": true, "stop": true,
}

// Render writes e as markup.
func (e *Element) Render(w io.Writer) error {
	var b strings.Builder
	e.render(&b)
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the markup for e.
func (e *Element) String() string {
	var b strings.Builder
	e.render(&b)
	return b.String()
}

func (e *Element) render(b *strings.Builder) {
	if e.IsText() {
		b.WriteString(html.EscapeString(e.Text))
		return
	}
	b.WriteByte('<')
	b.WriteString(e.Name)
	for _, a := range e.Attrs {
		writeAttr(b, a.Key, a.Value)
	}
	if len(e.Styles) > 0 {
		parts := make([]string, len(e.Styles))
		for i, s := range e.Styles {
			parts[i] = s.Key + ": " + s.Value
		}
		writeAttr(b, "style", strings.Join(parts, "; "))
	}
	if len(e.Children) == 0 && voidElements[e.Name] {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range e.Children {
		c.render(b)
	}
	b.WriteString("</")
	b.WriteString(e.Name)
	b.WriteByte('>')
}

func writeAttr(b *strings.Builder, key, value string) {
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteByte('"')
}

func upsert(attrs []Attr, key, value string) []Attr {
	for i := range attrs {
		if attrs[i].Key == key {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, Attr{Key: key, Value: value})
}

// Num formats a coordinate with at most three decimals.
func Num(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Translate formats an SVG translate transform.
func Translate(x, y float64) string {
	return "translate(" + Num(x) + "," + Num(y) + ")"
}
