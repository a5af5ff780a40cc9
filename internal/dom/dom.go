// Package dom is the document surface the form controller is written against.
// Hosts provide an implementation: htmldom for the terminal host and tests,
// jsdom for the browser.
package dom

import "github.com/amgomez49/SF-desuscripcion/internal/models"

// Event types dispatched by hosts.
const (
	EventSubmit = "submit"
	EventClick  = "click"
	EventLoad   = "load"
)

// Event is delivered to handlers registered with Element.On.
type Event interface {
	Type() string
	// Target is the element the event was dispatched on.
	Target() Element
	PreventDefault()
	DefaultPrevented() bool
}

// Handler reacts to a dispatched event.
type Handler func(Event)

// Querier resolves CSS selectors. Query returns nil when nothing matches.
type Querier interface {
	Query(selector string) Element
	QueryAll(selector string) []Element
}

// Document is the root of a page.
type Document interface {
	Querier
}

// Element is a node of the document.
type Element interface {
	Querier

	ID() string
	Attr(name string) (string, bool)
	SetAttr(name, value string)

	// InnerHTML and SetInnerHTML read and replace the element's children as markup.
	InnerHTML() string
	SetInnerHTML(markup string)
	Text() string
	SetText(text string)

	HasClass(name string) bool
	ToggleClass(name string, on bool)

	Disabled() bool
	SetDisabled(disabled bool)
	Checked() bool
	SetChecked(checked bool)

	// Contains reports whether other is this element or one of its descendants.
	Contains(other Element) bool
	// Remove detaches the element from the document.
	Remove()

	// FormValues returns the entries a form submission would carry, in
	// document order. It is empty for elements that are not forms.
	FormValues() []models.Field

	// On registers a handler and returns a function removing it.
	On(event string, h Handler) (off func())
}

// LoadNotifier is implemented by elements that can report a one-shot load,
// such as images and animated icons.
type LoadNotifier interface {
	OnceLoaded(fn func())
}
