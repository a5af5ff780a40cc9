package components

import (
	"strings"

	"github.com/amgomez49/SF-desuscripcion/internal/models"
	"github.com/amgomez49/SF-desuscripcion/ui/styles"
)

// RenderStatus draws the bottom bar: the controller state, then the last
// status message. While a submission is in flight the message is animated
// and defaults to the submitting hint.
func RenderStatus(status string, state models.FormState, loadingDots int, width int) string {
	var b strings.Builder
	b.WriteString("[" + state.String() + "] ")

	switch state {
	case models.Submitting:
		if status == "" {
			status = "Enviando"
		}
		b.WriteString(status)
		b.WriteString(strings.Repeat(".", loadingDots%4))
	default:
		if status == "" {
			status = "Tab para navegar, Enter para enviar"
		}
		b.WriteString(status)
	}

	return styles.StatusStyle(width).Render(b.String())
}
