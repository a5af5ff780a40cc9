package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amgomez49/SF-desuscripcion/internal/core"
	"github.com/amgomez49/SF-desuscripcion/internal/dispatcher"
	"github.com/amgomez49/SF-desuscripcion/internal/dom/htmldom"
	"github.com/amgomez49/SF-desuscripcion/internal/models"
	"github.com/amgomez49/SF-desuscripcion/internal/update"
	"github.com/amgomez49/SF-desuscripcion/ui/components"
)

type AppModel struct {
	appModel   models.AppModel
	page       update.Page
	dispatcher *dispatcher.EventDispatcher
}

func NewAppModel(doc *htmldom.Document, controller *core.Controller, disp *dispatcher.EventDispatcher) *AppModel {
	return &AppModel{
		appModel:   createInitialAppModel(),
		page:       update.Page{Document: doc, Controller: controller},
		dispatcher: disp,
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.dispatcher.ListenForEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Resume settled submissions on the UI loop and continue listening
	if settled, ok := msg.(dispatcher.SettledMsg); ok {
		settled.Settled.Resume()
		cmd := update.HandleUpdate(&m.appModel, msg, m.page)
		return m, tea.Batch(cmd, m.dispatcher.ListenForEvents())
	}

	cmd := update.HandleUpdate(&m.appModel, msg, m.page)
	return m, cmd
}

func (m *AppModel) View() string {
	var b strings.Builder
	width := m.appModel.Width
	if width <= 0 {
		width = 60
	}

	b.WriteString(components.RenderForm(formView(m.page, m.appModel.Focus), m.appModel.LoadingDots, width))
	if overlay := components.RenderOverlay(overlayView(m.page), width); overlay != "" {
		b.WriteString("\n" + overlay + "\n")
	}
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.appModel.Status, m.page.Controller.State(), m.appModel.LoadingDots, width))

	return b.String()
}
