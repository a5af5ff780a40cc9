package core

import (
	"context"

	"github.com/amgomez49/SF-desuscripcion/internal/dom"
	"github.com/amgomez49/SF-desuscripcion/internal/models"
)

// Spinner replaces the submit label while a submission is pending.
const Spinner = `<svg fill="hsl(0, 0%, 100%)" viewBox="0 0 24 24" xmlns="http://www.w3.org/2000/svg" class="size-6 spinner">` +
	`<path d="M12,1A11,11,0,1,0,23,12,11,11,0,0,0,12,1Zm0,19a8,8,0,1,1,8-8A8,8,0,0,1,12,20Z" opacity=".25"></path>` +
	`<path d="M10.14,1.16a11,11,0,0,0-9,8.92A1.59,1.59,0,0,0,2.46,12,1.52,1.52,0,0,0,4.11,10.7a8,8,0,0,1,6.66-6.61A1.42,1.42,0,0,0,12,2.69h0A1.57,1.57,0,0,0,10.14,1.16Z">` +
	`<animateTransform attributeName="transform" type="rotate" dur="0.75s" values="0 12 12;360 12 12" repeatCount="indefinite"></animateTransform>` +
	`</path></svg>`

func (c *Controller) handleSubmit(ev dom.Event) {
	ev.PreventDefault()

	if c.state == models.Submitting {
		c.log.Debug("submission already in flight, ignoring submit")
		return
	}

	payload := models.PayloadFromFields(c.form.FormValues())
	c.log.Debug("form submitted", "payload", payload)

	c.begin()

	action := c.action
	c.loop.Await(func(ctx context.Context) (bool, error) {
		if action == nil {
			return false, errNoAction
		}
		return action.Unsubscribe(ctx, payload)
	}, c.settle)
}

// settle runs on the UI thread once the remote call is over. The deferred
// cleanup runs on every path.
func (c *Controller) settle(ok bool, err error) {
	outcome := models.ErrorMessage
	defer func() {
		c.finish()
		c.ShowMessage(outcome)
	}()

	if err != nil {
		c.log.Warn("unsubscribe failed", "error", err)
		return
	}
	if !ok {
		c.log.Warn("unsubscribe rejected by endpoint")
		return
	}

	c.resetCheckboxes()
	outcome = models.SuccessMessage
}

// begin moves Idle -> Submitting.
func (c *Controller) begin() {
	c.state = models.Submitting
	c.submit.SetInnerHTML(Spinner)
	c.submit.SetDisabled(true)
	c.setRowsDisabled(true)
}

// finish moves Submitting -> Idle.
func (c *Controller) finish() {
	c.submit.SetText(IdleLabel)
	c.submit.SetDisabled(false)
	c.setRowsDisabled(false)
	c.state = models.Idle
}

func (c *Controller) setRowsDisabled(disabled bool) {
	for _, row := range c.rows {
		row.ToggleClass(DimmedClass, disabled)
		row.ToggleClass(NoPointerClass, disabled)
	}
}

func (c *Controller) resetCheckboxes() {
	for _, row := range c.rows {
		if input := row.Query(CheckboxInputSelector); input != nil {
			input.SetChecked(false)
		}
	}
}
