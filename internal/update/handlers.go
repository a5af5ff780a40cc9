package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amgomez49/SF-desuscripcion/internal/core"
	"github.com/amgomez49/SF-desuscripcion/internal/dom/htmldom"
	"github.com/amgomez49/SF-desuscripcion/internal/models"
)

// Page is what the key handlers act on: the document and the controller bound to it.
type Page struct {
	Document   *htmldom.Document
	Controller *core.Controller
}

// Focusable returns the form controls in tab order.
func (p Page) Focusable() []*htmldom.Element {
	form := p.Controller.Elements().Form
	if form == nil {
		return nil
	}
	var controls []*htmldom.Element
	for _, el := range form.QueryAll("input, textarea, button") {
		controls = append(controls, el.(*htmldom.Element))
	}
	return controls
}

func (p Page) focused(appModel *models.AppModel) *htmldom.Element {
	controls := p.Focusable()
	if len(controls) == 0 {
		return nil
	}
	return controls[appModel.Focus%len(controls)]
}

// HandleKeyMsg maps keys onto document events the way a browser would.
func HandleKeyMsg(appModel *models.AppModel, keyMsg tea.KeyMsg, page Page) tea.Cmd {
	if keyMsg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if !page.Controller.Bound() {
		return nil
	}

	elements := page.Controller.Elements()
	if page.Controller.MessageVisible() {
		switch keyMsg.Type {
		case tea.KeyEsc:
			// The backdrop is the overlay itself, outside the content.
			page.Document.Click(elements.Overlay)
		case tea.KeyEnter:
			if closer := elements.Overlay.Query(core.CloseSelector); closer != nil {
				page.Document.Click(closer)
			} else {
				page.Document.Click(elements.Overlay)
			}
		}
		return nil
	}

	switch keyMsg.Type {
	case tea.KeyTab, tea.KeyDown:
		moveFocus(appModel, page, 1)
	case tea.KeyShiftTab, tea.KeyUp:
		moveFocus(appModel, page, -1)
	case tea.KeyEnter:
		page.Document.Click(elements.Submit)
	case tea.KeySpace:
		if el := page.focused(appModel); el != nil {
			if isTextInput(el) {
				typeText(el, " ")
			} else {
				page.Document.Click(el)
			}
		}
	case tea.KeyBackspace:
		if el := page.focused(appModel); el != nil && isTextInput(el) && !el.Disabled() {
			value, _ := el.Attr("value")
			if r := []rune(value); len(r) > 0 {
				el.SetAttr("value", string(r[:len(r)-1]))
			}
		}
	case tea.KeyRunes:
		if el := page.focused(appModel); el != nil && isTextInput(el) {
			typeText(el, string(keyMsg.Runes))
		}
	}
	return nil
}

func moveFocus(appModel *models.AppModel, page Page, delta int) {
	n := len(page.Focusable())
	if n == 0 {
		return
	}
	appModel.Focus = ((appModel.Focus+delta)%n + n) % n
}

func isTextInput(el *htmldom.Element) bool {
	if el.Tag() != "input" {
		return false
	}
	kind, _ := el.Attr("type")
	switch kind {
	case "", "text", "email", "search", "tel", "url":
		return true
	}
	return false
}

func typeText(el *htmldom.Element, text string) {
	if el.Disabled() {
		return
	}
	value, _ := el.Attr("value")
	el.SetAttr("value", value+text)
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

// HandleTickMsg animates the spinner and, on the first tick, reports the
// decorative icon as loaded since local assets need no fetching.
func HandleTickMsg(appModel *models.AppModel, page Page) tea.Cmd {
	if !appModel.IconLoaded {
		appModel.IconLoaded = true
		if icon := page.Controller.Elements().Icon; icon != nil {
			page.Document.Load(icon)
		}
	}
	if page.Controller.State() == models.Submitting {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}

// statusFor derives the status line from the controller.
func statusFor(page Page) string {
	switch {
	case !page.Controller.Bound():
		return "Formulario no disponible"
	case page.Controller.State() == models.Submitting:
		return "Enviando"
	case page.Controller.MessageVisible():
		return "Esc o Enter para cerrar"
	default:
		return "Listo"
	}
}
