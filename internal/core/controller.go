// Package core implements the unsubscribe form controller: it locks the form,
// calls the remote action once, reports the outcome in an overlay and unlocks
// the form again.
package core

import (
	"errors"
	"log/slog"

	"github.com/amgomez49/SF-desuscripcion/internal/dom"
	"github.com/amgomez49/SF-desuscripcion/internal/eventbus"
	"github.com/amgomez49/SF-desuscripcion/internal/models"
	"github.com/amgomez49/SF-desuscripcion/internal/remote"
)

// Default selectors.
const (
	DefaultFormSelector      = "#form"
	DefaultCheckboxSelector  = ".checkbox"
	DefaultOverlaySelector   = "#modal"
	DefaultIconSelector      = "#icon"
	DefaultPreloaderSelector = "#preloader"
)

// Fixed parts of the page the controller relies on once the main elements
// are found.
const (
	SubmitSelector        = "button[type='submit']"
	CheckboxInputSelector = "input[type='checkbox']"
	ContentSelector       = "#modal-content"
	CloseSelector         = "#modal-close"
	IconSlotSelector      = "#modal-icon"
	TitleSlotSelector     = "#modal-title"
	DescSlotSelector      = "#modal-description"

	HiddenClass    = "hidden"
	DimmedClass    = "opacity-30"
	NoPointerClass = "pointer-events-none"

	IdleLabel = "Desuscribir"
)

var errNoAction = errors.New("no unsubscribe action configured")

// Loop runs the remote call off the UI thread and resumes on it.
type Loop interface {
	Await(work eventbus.Work, done eventbus.Continuation)
}

// Options lists every setting the controller recognises. Empty selectors
// fall back to the defaults above.
type Options struct {
	FormSelector      string
	CheckboxSelector  string
	OverlaySelector   string
	IconSelector      string
	PreloaderSelector string
	Logger            *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		FormSelector:      DefaultFormSelector,
		CheckboxSelector:  DefaultCheckboxSelector,
		OverlaySelector:   DefaultOverlaySelector,
		IconSelector:      DefaultIconSelector,
		PreloaderSelector: DefaultPreloaderSelector,
		Logger:            slog.Default(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FormSelector == "" {
		o.FormSelector = d.FormSelector
	}
	if o.CheckboxSelector == "" {
		o.CheckboxSelector = d.CheckboxSelector
	}
	if o.OverlaySelector == "" {
		o.OverlaySelector = d.OverlaySelector
	}
	if o.IconSelector == "" {
		o.IconSelector = d.IconSelector
	}
	if o.PreloaderSelector == "" {
		o.PreloaderSelector = d.PreloaderSelector
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}

// Controller drives a single unsubscribe form. It must only be used from the
// document's UI thread.
type Controller struct {
	action remote.Action
	loop   Loop
	log    *slog.Logger

	form      dom.Element
	submit    dom.Element
	rows      []dom.Element
	overlay   dom.Element
	icon      dom.Element
	preloader dom.Element

	state   models.FormState
	dismiss []func()
	bound   bool
}

// New binds a controller to doc. When the form or its submit button is
// missing it logs a warning and returns an inert controller.
func New(doc dom.Document, action remote.Action, loop Loop, opts Options) *Controller {
	opts = opts.withDefaults()
	if loop == nil {
		loop = eventbus.Immediate{}
	}

	c := &Controller{
		action: action,
		loop:   loop,
		log:    opts.Logger,
		state:  models.Idle,
	}

	c.form = doc.Query(opts.FormSelector)
	if c.form == nil {
		c.log.Warn("form element not found, controller disabled", "selector", opts.FormSelector)
		return c
	}

	c.submit = c.form.Query(SubmitSelector)
	if c.submit == nil {
		c.log.Warn("submit button not found, controller disabled", "selector", SubmitSelector)
		return c
	}

	c.rows = doc.QueryAll(opts.CheckboxSelector)
	c.overlay = doc.Query(opts.OverlaySelector)
	c.icon = doc.Query(opts.IconSelector)
	c.preloader = doc.Query(opts.PreloaderSelector)

	c.form.On(dom.EventSubmit, c.handleSubmit)
	c.watchPreloader()
	c.bound = true

	return c
}

// Bound reports whether the controller found its form and submit button.
func (c *Controller) Bound() bool {
	return c.bound
}

func (c *Controller) State() models.FormState {
	return c.state
}

// Elements exposes what the controller bound to, for hosts that render the
// document themselves. Missing elements are nil.
type Elements struct {
	Form      dom.Element
	Submit    dom.Element
	Rows      []dom.Element
	Overlay   dom.Element
	Icon      dom.Element
	Preloader dom.Element
}

func (c *Controller) Elements() Elements {
	return Elements{
		Form:      c.form,
		Submit:    c.submit,
		Rows:      c.rows,
		Overlay:   c.overlay,
		Icon:      c.icon,
		Preloader: c.preloader,
	}
}
