//go:build js && wasm

// Command wasm runs the unsubscribe form controller in the browser.
package main

import (
	"context"
	"log/slog"
	"syscall/js"

	"github.com/amgomez49/SF-desuscripcion/internal/core"
	"github.com/amgomez49/SF-desuscripcion/internal/dom/jsdom"
	"github.com/amgomez49/SF-desuscripcion/internal/eventbus"
	"github.com/amgomez49/SF-desuscripcion/internal/remote"
)

const defaultEndpoint = "/api/unsubscribe"

func main() {
	logger := slog.New(slog.NewTextHandler(jsdom.Console{}, &slog.HandlerOptions{Level: slog.LevelDebug}))

	doc := jsdom.Current()
	doc.Ready()

	eb := eventbus.NewEventBus()
	defer eb.Close()
	eb.SetErrorCallback(func(busErr eventbus.EventBusError) {
		logger.Error("event bus error", "operation", busErr.Operation, "error", busErr.Err)
	})

	action := remote.NewHTTPAction(endpoint(doc), "", remote.DefaultTimeout)
	controller := core.New(doc, action, eb, core.Options{Logger: logger})
	if !controller.Bound() {
		return
	}
	logger.Info("form controller ready", "endpoint", action.Endpoint)

	// Settled submissions resume here; the module stays alive with the page.
	eb.Pump(context.Background())
}

// endpoint resolves the form's action attribute, falling back to the
// development endpoint on the page's origin.
func endpoint(doc *jsdom.Document) string {
	if form := doc.Query(core.DefaultFormSelector); form != nil {
		if _, ok := form.Attr("action"); ok {
			if el, ok := form.(*jsdom.Element); ok {
				return el.Property("action")
			}
		}
	}
	return js.Global().Get("location").Get("origin").String() + defaultEndpoint
}
