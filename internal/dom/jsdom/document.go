//go:build js && wasm

// Package jsdom implements the dom package on top of the browser document
// through syscall/js.
package jsdom

import (
	"syscall/js"

	"github.com/amgomez49/SF-desuscripcion/internal/dom"
)

// Document wraps the page's document object.
type Document struct {
	v js.Value
}

var _ dom.Document = (*Document)(nil)

// Current returns the document the module was loaded into.
func Current() *Document {
	return &Document{v: js.Global().Get("document")}
}

func (d *Document) Query(selector string) dom.Element {
	return query(d.v, selector)
}

func (d *Document) QueryAll(selector string) []dom.Element {
	return queryAll(d.v, selector)
}

// Ready blocks until the document has been parsed.
func (d *Document) Ready() {
	if d.v.Get("readyState").String() != "loading" {
		return
	}
	done := make(chan struct{})
	var fn js.Func
	fn = js.FuncOf(func(this js.Value, args []js.Value) any {
		d.v.Call("removeEventListener", "DOMContentLoaded", fn)
		fn.Release()
		close(done)
		return nil
	})
	d.v.Call("addEventListener", "DOMContentLoaded", fn)
	<-done
}

// query returns nil for no match and for selectors the browser rejects.
func query(scope js.Value, selector string) (el dom.Element) {
	defer func() {
		if recover() != nil {
			el = nil
		}
	}()
	v := scope.Call("querySelector", selector)
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return wrap(v)
}

func queryAll(scope js.Value, selector string) (els []dom.Element) {
	defer func() {
		if recover() != nil {
			els = nil
		}
	}()
	list := scope.Call("querySelectorAll", selector)
	n := list.Length()
	els = make([]dom.Element, 0, n)
	for i := 0; i < n; i++ {
		els = append(els, wrap(list.Index(i)))
	}
	return els
}

// Console writes log lines to the browser console.
type Console struct{}

func (Console) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("log", string(p))
	return len(p), nil
}
