package htmldom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/amgomez49/SF-desuscripcion/internal/dom"
	"github.com/amgomez49/SF-desuscripcion/internal/models"
)

// Element wraps an html.Node of a Document.
type Element struct {
	doc  *Document
	node *html.Node
}

var _ dom.Element = (*Element)(nil)
var _ dom.LoadNotifier = (*Element)(nil)

func (e *Element) Query(selector string) dom.Element {
	return e.doc.query(e.node, selector)
}

func (e *Element) QueryAll(selector string) []dom.Element {
	return e.doc.queryAll(e.node, selector)
}

// Tag returns the lower-case element name.
func (e *Element) Tag() string {
	return e.node.Data
}

func (e *Element) ID() string {
	id, _ := e.Attr("id")
	return id
}

func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) removeAttr(name string) {
	attrs := e.node.Attr[:0]
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	e.node.Attr = attrs
}

func (e *Element) setBoolAttr(name string, on bool) {
	if on {
		e.SetAttr(name, "")
		return
	}
	e.removeAttr(name)
}

func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

func (e *Element) SetInnerHTML(markup string) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), e.node)
	if err != nil {
		e.SetText(markup)
		return
	}
	e.clear()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
}

func (e *Element) Text() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.node)
	return b.String()
}

func (e *Element) SetText(text string) {
	e.clear()
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (e *Element) clear() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
}

func (e *Element) classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

func (e *Element) HasClass(name string) bool {
	for _, c := range e.classes() {
		if c == name {
			return true
		}
	}
	return false
}

func (e *Element) ToggleClass(name string, on bool) {
	if e.HasClass(name) == on {
		return
	}
	var kept []string
	for _, c := range e.classes() {
		if c != name {
			kept = append(kept, c)
		}
	}
	if on {
		kept = append(kept, name)
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

func (e *Element) Disabled() bool {
	_, ok := e.Attr("disabled")
	return ok
}

func (e *Element) SetDisabled(disabled bool) {
	e.setBoolAttr("disabled", disabled)
}

func (e *Element) Checked() bool {
	_, ok := e.Attr("checked")
	return ok
}

func (e *Element) SetChecked(checked bool) {
	e.setBoolAttr("checked", checked)
}

func (e *Element) Contains(other dom.Element) bool {
	o, ok := other.(*Element)
	if !ok || o == nil {
		return false
	}
	for n := o.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// Attached reports whether the element is still part of the document.
func (e *Element) Attached() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

func (e *Element) On(event string, h dom.Handler) func() {
	return e.doc.on(e.node, event, h)
}

func (e *Element) OnceLoaded(fn func()) {
	var off func()
	fired := false
	off = e.On(dom.EventLoad, func(dom.Event) {
		if fired {
			return
		}
		fired = true
		off()
		fn()
	})
}

func (e *Element) FormValues() []models.Field {
	if e.node.DataAtom != atom.Form {
		return nil
	}
	var fields []models.Field
	for _, control := range e.QueryAll("input, select, textarea") {
		c := control.(*Element)
		name, _ := c.Attr("name")
		if name == "" || c.Disabled() {
			continue
		}
		switch c.node.DataAtom {
		case atom.Input:
			kind, _ := c.Attr("type")
			switch strings.ToLower(kind) {
			case "submit", "button", "reset", "image", "file":
				continue
			case "checkbox", "radio":
				if !c.Checked() {
					continue
				}
				value, ok := c.Attr("value")
				if !ok {
					value = "on"
				}
				fields = append(fields, models.Field{Name: name, Value: value})
			default:
				value, _ := c.Attr("value")
				fields = append(fields, models.Field{Name: name, Value: value})
			}
		case atom.Textarea:
			fields = append(fields, models.Field{Name: name, Value: c.Text()})
		case atom.Select:
			fields = append(fields, models.Field{Name: name, Value: c.selectedOption()})
		}
	}
	return fields
}

func (e *Element) selectedOption() string {
	options := e.QueryAll("option")
	if len(options) == 0 {
		return ""
	}
	chosen := options[0].(*Element)
	for _, o := range options {
		if _, ok := o.Attr("selected"); ok {
			chosen = o.(*Element)
			break
		}
	}
	if v, ok := chosen.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(chosen.Text())
}

// inert reports whether pointer events are switched off for the element or
// one of its ancestors.
func (e *Element) inert() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && e.doc.wrap(n).HasClass("pointer-events-none") {
			return true
		}
	}
	return false
}

func (e *Element) isControl() bool {
	switch e.node.DataAtom {
	case atom.Button, atom.Input, atom.Select, atom.Textarea:
		return true
	}
	return false
}

func (e *Element) isCheckbox() bool {
	kind, _ := e.Attr("type")
	return e.node.DataAtom == atom.Input && strings.EqualFold(kind, "checkbox")
}

func (e *Element) isSubmitButton() bool {
	kind, ok := e.Attr("type")
	switch e.node.DataAtom {
	case atom.Button:
		return !ok || strings.EqualFold(kind, "submit")
	case atom.Input:
		return strings.EqualFold(kind, "submit")
	}
	return false
}

func (e *Element) form() *Element {
	for n := e.node.Parent; n != nil; n = n.Parent {
		if n.DataAtom == atom.Form {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// Parent returns the enclosing element, or nil at the top of the tree.
func (e *Element) Parent() *Element {
	for n := e.node.Parent; n != nil; n = n.Parent {
		if n.Type == html.ElementNode {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// Closest returns the nearest ancestor (or the element itself) with the tag.
func (e *Element) Closest(tag string) *Element {
	for el := e; el != nil; el = el.Parent() {
		if el.Tag() == tag {
			return el
		}
	}
	return nil
}
