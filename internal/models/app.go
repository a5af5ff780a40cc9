package models

// AppModel represents the terminal host's UI state - only local UI concerns.
// Everything about the form itself lives in the document.
type AppModel struct {
	Focus       int    // Index into the focusable controls
	Status      string // Status bar text
	LoadingDots int    // Animation counter for the submit spinner
	IconLoaded  bool   // Whether the decorative icon fired its load event
	Width       int    // Terminal width
	Height      int    // Terminal height
}
