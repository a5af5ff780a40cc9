// Package htmldom is an in-memory implementation of the dom package backed by
// golang.org/x/net/html. Events are dispatched synchronously, which makes it
// both the terminal host's document and the test double for the controller.
package htmldom

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/amgomez49/SF-desuscripcion/internal/dom"
)

// Document is a parsed page with event dispatch.
type Document struct {
	root      *html.Node
	elements  map[*html.Node]*Element
	handlers  map[*html.Node]map[string][]*listener
	selectors map[string]cascadia.Selector
}

type listener struct {
	fn dom.Handler
}

// Parse reads a full HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{
		root:      root,
		elements:  make(map[*html.Node]*Element),
		handlers:  make(map[*html.Node]map[string][]*listener),
		selectors: make(map[string]cascadia.Selector),
	}, nil
}

// ParseString is Parse for inline markup.
func ParseString(page string) (*Document, error) {
	return Parse(strings.NewReader(page))
}

func (d *Document) Query(selector string) dom.Element {
	return d.query(d.root, selector)
}

func (d *Document) QueryAll(selector string) []dom.Element {
	return d.queryAll(d.root, selector)
}

// Render writes the current state of the page as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) compile(selector string) (cascadia.Selector, bool) {
	if sel, ok := d.selectors[selector]; ok {
		return sel, true
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, false
	}
	d.selectors[selector] = sel
	return sel, true
}

func (d *Document) query(scope *html.Node, selector string) dom.Element {
	sel, ok := d.compile(selector)
	if !ok {
		return nil
	}
	n := cascadia.Query(scope, sel)
	if n == nil {
		return nil
	}
	return d.wrap(n)
}

func (d *Document) queryAll(scope *html.Node, selector string) []dom.Element {
	sel, ok := d.compile(selector)
	if !ok {
		return nil
	}
	nodes := cascadia.QueryAll(scope, sel)
	result := make([]dom.Element, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, d.wrap(n))
	}
	return result
}

// wrap keeps one Element per node so identity comparisons hold.
func (d *Document) wrap(n *html.Node) *Element {
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{doc: d, node: n}
	d.elements[n] = el
	return el
}

func (d *Document) on(n *html.Node, event string, h dom.Handler) func() {
	l := &listener{fn: h}
	if d.handlers[n] == nil {
		d.handlers[n] = make(map[string][]*listener)
	}
	d.handlers[n][event] = append(d.handlers[n][event], l)

	return func() {
		list := d.handlers[n][event]
		for i, existing := range list {
			if existing == l {
				d.handlers[n][event] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Handlers reports how many handlers are registered for event on el.
func (d *Document) Handlers(el dom.Element, event string) int {
	e, ok := el.(*Element)
	if !ok {
		return 0
	}
	return len(d.handlers[e.node][event])
}

// Dispatch fires event on target, bubbling to ancestors for submit and click.
// It returns false if a handler prevented the default action.
func (d *Document) Dispatch(target dom.Element, eventType string) bool {
	el, ok := target.(*Element)
	if !ok || el == nil {
		return false
	}
	ev := &event{typ: eventType, target: el}

	for n := el.node; n != nil; n = n.Parent {
		// Copy so handlers may add or remove listeners while running.
		list := append([]*listener(nil), d.handlers[n][eventType]...)
		for _, l := range list {
			l.fn(ev)
		}
		if eventType == dom.EventLoad {
			break
		}
	}
	return !ev.prevented
}

// Click simulates a user click: inert or disabled elements ignore it, and an
// unprevented click toggles checkboxes or submits the enclosing form.
func (d *Document) Click(target dom.Element) {
	el, ok := target.(*Element)
	if !ok || el == nil || el.inert() {
		return
	}
	if el.isControl() && el.Disabled() {
		return
	}
	if !d.Dispatch(el, dom.EventClick) {
		return
	}

	switch {
	case el.isCheckbox():
		el.SetChecked(!el.Checked())
	case el.isSubmitButton():
		if form := el.form(); form != nil {
			d.Dispatch(form, dom.EventSubmit)
		}
	}
}

// Load fires the one-shot load notification of el.
func (d *Document) Load(target dom.Element) {
	d.Dispatch(target, dom.EventLoad)
}

type event struct {
	typ       string
	target    *Element
	prevented bool
}

func (e *event) Type() string           { return e.typ }
func (e *event) Target() dom.Element    { return e.target }
func (e *event) PreventDefault()        { e.prevented = true }
func (e *event) DefaultPrevented() bool { return e.prevented }
