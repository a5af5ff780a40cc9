package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amgomez49/SF-desuscripcion/internal/models"
)

func HandleUpdate(appModel *models.AppModel, msg tea.Msg, page Page) tea.Cmd {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = HandleKeyMsg(appModel, msg, page)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
	case TickMsg:
		cmd = HandleTickMsg(appModel, page)
	}
	appModel.Status = statusFor(page)
	return cmd
}
