package app

import (
	"regexp"
	"strings"

	"github.com/amgomez49/SF-desuscripcion/internal/core"
	"github.com/amgomez49/SF-desuscripcion/internal/dom/htmldom"
	"github.com/amgomez49/SF-desuscripcion/internal/models"
	"github.com/amgomez49/SF-desuscripcion/internal/update"
	"github.com/amgomez49/SF-desuscripcion/ui/components"
)

var spaces = regexp.MustCompile(`\s+`)

func collapse(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// formView reads the document into what the terminal renders.
func formView(page update.Page, focus int) components.FormView {
	var view components.FormView
	if title := page.Document.Query("h1"); title != nil {
		view.Title = collapse(title.Text())
	}

	elements := page.Controller.Elements()
	if p, ok := elements.Preloader.(*htmldom.Element); ok && p.Attached() {
		view.Preloader = collapse(p.Text())
	}

	controls := page.Focusable()
	for i, el := range controls {
		field := components.FieldView{
			Focused:  len(controls) > 0 && i == focus%len(controls),
			Disabled: el.Disabled(),
		}
		if label := el.Closest("label"); label != nil {
			field.Label = collapse(label.Text())
		}

		kind, _ := el.Attr("type")
		switch {
		case el.Tag() == "button":
			field.Kind = components.SubmitField
			field.Label = collapse(el.Text())
			field.Busy = page.Controller.State() == models.Submitting
		case kind == "checkbox":
			field.Kind = components.CheckboxField
			field.Checked = el.Checked()
			for a := el; a != nil; a = a.Parent() {
				if a.HasClass(core.DimmedClass) {
					field.Dimmed = true
					break
				}
			}
		default:
			field.Kind = components.TextField
			field.Value, _ = el.Attr("value")
		}
		view.Fields = append(view.Fields, field)
	}
	return view
}

func overlayView(page update.Page) components.OverlayView {
	var view components.OverlayView
	overlay := page.Controller.Elements().Overlay
	if overlay == nil || !page.Controller.MessageVisible() {
		return view
	}

	view.Visible = true
	if icon := overlay.Query(core.IconSlotSelector); icon != nil {
		view.IconSrc, _ = icon.Attr("src")
	}
	if title := overlay.Query(core.TitleSlotSelector); title != nil {
		view.Title = collapse(title.Text())
	}
	if desc := overlay.Query(core.DescSlotSelector); desc != nil {
		view.Description = desc.InnerHTML()
	}
	return view
}
