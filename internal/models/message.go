package models

// IconKey selects the image shown next to an outcome message.
type IconKey string

const (
	IconSuccess IconKey = "success"
	IconError   IconKey = "error"
)

// AssetPath resolves an icon key to the image served alongside the page.
func (k IconKey) AssetPath() string {
	return "./assets/" + string(k) + ".gif"
}

// OutcomeMessage is what the overlay shows once a submission settles.
// Description may carry inline markup.
type OutcomeMessage struct {
	Title       string
	Description string
	Icon        IconKey
}

// The only two messages a submission can produce.
var (
	SuccessMessage = OutcomeMessage{
		Title:       "¡Listo!",
		Description: "Te has desuscrito correctamente. <strong>Ya no recibirás</strong> más correos de esta lista.",
		Icon:        IconSuccess,
	}
	ErrorMessage = OutcomeMessage{
		Title:       "Algo salió mal",
		Description: "No pudimos procesar tu solicitud. Inténtalo de nuevo <strong>más tarde</strong>.",
		Icon:        IconError,
	}
)
