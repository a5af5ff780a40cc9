package components

import (
	"strings"

	"github.com/amgomez49/SF-desuscripcion/ui/styles"
)

type FieldKind int

const (
	TextField FieldKind = iota
	CheckboxField
	SubmitField
)

// FieldView is one focusable control as the terminal shows it.
type FieldView struct {
	Kind     FieldKind
	Label    string
	Value    string
	Checked  bool
	Focused  bool
	Disabled bool
	Dimmed   bool
	Busy     bool
}

type FormView struct {
	Title     string
	Preloader string
	Fields    []FieldView
}

func RenderForm(form FormView, loadingDots, width int) string {
	var b strings.Builder

	if form.Preloader != "" {
		b.WriteString(styles.PreloaderStyle().Render(form.Preloader) + "\n")
	}
	if form.Title != "" {
		b.WriteString(styles.TitleStyle().Render(form.Title) + "\n")
	}
	for _, field := range form.Fields {
		b.WriteString(RenderField(field, loadingDots, width) + "\n")
	}

	return b.String()
}

func RenderField(field FieldView, loadingDots, width int) string {
	switch field.Kind {
	case CheckboxField:
		mark := "[ ]"
		if field.Checked {
			mark = "[x]"
		}
		cursor := "  "
		if field.Focused {
			cursor = "> "
		}
		return styles.CheckboxStyle(field.Focused, field.Dimmed).Render(cursor + mark + " " + field.Label)
	case SubmitField:
		label := field.Label
		if field.Busy {
			label = "Enviando" + strings.Repeat(".", loadingDots)
		}
		return styles.ButtonStyle(field.Focused, field.Disabled).Render(label)
	default:
		return styles.LabelStyle().Render(field.Label) + "\n" +
			styles.InputStyle(width, field.Focused).Render(field.Value)
	}
}
