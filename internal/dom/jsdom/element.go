//go:build js && wasm

package jsdom

import (
	"sync"
	"syscall/js"

	"github.com/amgomez49/SF-desuscripcion/internal/dom"
	"github.com/amgomez49/SF-desuscripcion/internal/models"
)

// Element wraps a DOM element.
type Element struct {
	v js.Value
}

var _ dom.Element = (*Element)(nil)
var _ dom.LoadNotifier = (*Element)(nil)

func wrap(v js.Value) *Element {
	return &Element{v: v}
}

func (e *Element) Query(selector string) dom.Element {
	return query(e.v, selector)
}

func (e *Element) QueryAll(selector string) []dom.Element {
	return queryAll(e.v, selector)
}

func (e *Element) ID() string {
	return e.v.Get("id").String()
}

func (e *Element) Attr(name string) (string, bool) {
	if !e.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.v.Call("getAttribute", name).String(), true
}

func (e *Element) SetAttr(name, value string) {
	e.v.Call("setAttribute", name, value)
}

func (e *Element) InnerHTML() string {
	return e.v.Get("innerHTML").String()
}

func (e *Element) SetInnerHTML(markup string) {
	e.v.Set("innerHTML", markup)
}

func (e *Element) Text() string {
	return e.v.Get("textContent").String()
}

func (e *Element) SetText(text string) {
	e.v.Set("textContent", text)
}

func (e *Element) HasClass(name string) bool {
	return e.v.Get("classList").Call("contains", name).Bool()
}

func (e *Element) ToggleClass(name string, on bool) {
	e.v.Get("classList").Call("toggle", name, on)
}

func (e *Element) Disabled() bool {
	return e.v.Get("disabled").Truthy()
}

func (e *Element) SetDisabled(disabled bool) {
	e.v.Set("disabled", disabled)
}

func (e *Element) Checked() bool {
	return e.v.Get("checked").Truthy()
}

func (e *Element) SetChecked(checked bool) {
	e.v.Set("checked", checked)
}

func (e *Element) Contains(other dom.Element) bool {
	o, ok := other.(*Element)
	if !ok || o == nil {
		return false
	}
	return e.v.Call("contains", o.v).Bool()
}

func (e *Element) Remove() {
	e.v.Call("remove")
}

// FormValues reads the browser's FormData for the form. File entries are
// skipped.
func (e *Element) FormValues() []models.Field {
	if e.v.Get("tagName").String() != "FORM" {
		return nil
	}
	entries := js.Global().Get("FormData").New(e.v).Call("entries")
	var fields []models.Field
	for {
		next := entries.Call("next")
		if next.Get("done").Bool() {
			break
		}
		pair := next.Get("value")
		value := pair.Index(1)
		if value.Type() != js.TypeString {
			continue
		}
		fields = append(fields, models.Field{Name: pair.Index(0).String(), Value: value.String()})
	}
	return fields
}

func (e *Element) On(event string, h dom.Handler) func() {
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			h(&Event{v: args[0]})
		}
		return nil
	})
	e.v.Call("addEventListener", event, fn)

	var once sync.Once
	return func() {
		once.Do(func() {
			e.v.Call("removeEventListener", event, fn)
			fn.Release()
		})
	}
}

// OnceLoaded calls fn when the element has loaded, right away for images
// that finished before the handler was attached.
func (e *Element) OnceLoaded(fn func()) {
	if e.v.Get("tagName").String() == "IMG" && e.v.Get("complete").Bool() {
		fn()
		return
	}
	var off func()
	off = e.On(dom.EventLoad, func(dom.Event) {
		off()
		fn()
	})
}

// Event wraps a DOM event.
type Event struct {
	v js.Value
}

var _ dom.Event = (*Event)(nil)

func (ev *Event) Type() string {
	return ev.v.Get("type").String()
}

func (ev *Event) Target() dom.Element {
	t := ev.v.Get("target")
	if t.IsNull() || t.IsUndefined() {
		return nil
	}
	return wrap(t)
}

func (ev *Event) PreventDefault() {
	ev.v.Call("preventDefault")
}

func (ev *Event) DefaultPrevented() bool {
	return ev.v.Get("defaultPrevented").Bool()
}

// Property reads a string DOM property, such as a form's resolved action URL.
func (e *Element) Property(name string) string {
	return e.v.Get(name).String()
}
