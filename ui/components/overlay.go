package components

import (
	"strings"

	"github.com/amgomez49/SF-desuscripcion/internal/models"
	"github.com/amgomez49/SF-desuscripcion/internal/utils"
	"github.com/amgomez49/SF-desuscripcion/ui/styles"
)

// OverlayView is the outcome dialog; Description is markup.
type OverlayView struct {
	Visible     bool
	IconSrc     string
	Title       string
	Description string
}

func RenderOverlay(overlay OverlayView, width int) string {
	if !overlay.Visible {
		return ""
	}

	var b strings.Builder
	switch overlay.IconSrc {
	case models.IconSuccess.AssetPath():
		b.WriteString(styles.SuccessStyle().Render("✔ "+overlay.Title) + "\n\n")
	case models.IconError.AssetPath():
		b.WriteString(styles.ErrorStyle().Render("✖ "+overlay.Title) + "\n\n")
	default:
		b.WriteString(overlay.Title + "\n\n")
	}
	b.WriteString(utils.RenderInline(overlay.Description) + "\n\n")
	b.WriteString("[ Cerrar ]")

	boxWidth := width - 8
	if boxWidth < 20 {
		boxWidth = 20
	}
	return styles.OverlayStyle(boxWidth).Render(b.String())
}
