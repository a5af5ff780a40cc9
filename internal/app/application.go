package app

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amgomez49/SF-desuscripcion/internal/config"
	"github.com/amgomez49/SF-desuscripcion/internal/core"
	"github.com/amgomez49/SF-desuscripcion/internal/dispatcher"
	"github.com/amgomez49/SF-desuscripcion/internal/dom/htmldom"
	"github.com/amgomez49/SF-desuscripcion/internal/eventbus"
	"github.com/amgomez49/SF-desuscripcion/internal/models"
	"github.com/amgomez49/SF-desuscripcion/internal/remote"
	"github.com/amgomez49/SF-desuscripcion/web"
)

const (
	breakerFailures = 5
	breakerReset    = 30 * time.Second
)

// Application manages the complete terminal host lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	controller *core.Controller
	model      *AppModel
	logFile    *os.File
}

func NewApplication() (*Application, error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// stdout belongs to the TUI, so the log goes to a file
	logPath, err := config.LogPath()
	if err != nil {
		return nil, err
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))

	page, err := LoadPage(cfg)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	application, err := newApplication(cfg, page, NewAction(cfg), logger)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	application.logFile = logFile
	return application, nil
}

func newApplication(cfg *config.Config, page string, action remote.Action, logger *slog.Logger) (*Application, error) {
	doc, err := htmldom.ParseString(page)
	if err != nil {
		return nil, err
	}

	// Create event bus
	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(busErr eventbus.EventBusError) {
		logger.Error("event bus error", "operation", busErr.Operation, "error", busErr.Err)
	})

	// Create dispatcher
	disp := dispatcher.NewEventDispatcher(eb)

	controller := core.New(doc, action, eb, Options(cfg, logger))

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		controller: controller,
		model:      NewAppModel(doc, controller, disp),
	}, nil
}

func (app *Application) Start() error {
	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (app *Application) Stop() {
	app.dispatcher.Stop()
	app.eventBus.Close()
	if app.logFile != nil {
		app.logFile.Close()
	}
}

// NewAction picks the unsubscribe action for the active profile: the HTTP
// endpoint behind a circuit breaker, or the local simulation.
func NewAction(cfg *config.Config) remote.Action {
	if !cfg.IsValid() {
		return remote.Simulated{Delay: remote.DefaultSimulatedDelay, Result: true}
	}
	httpAction := remote.NewHTTPAction(cfg.GetEndpoint(), cfg.GetToken(), cfg.GetTimeout())
	return remote.NewBreaker(httpAction, breakerFailures, breakerReset)
}

// Options maps configured selectors onto controller options.
func Options(cfg *config.Config, logger *slog.Logger) core.Options {
	return core.Options{
		FormSelector:      cfg.Selectors.Form,
		CheckboxSelector:  cfg.Selectors.CheckboxRows,
		OverlaySelector:   cfg.Selectors.Overlay,
		IconSelector:      cfg.Selectors.Icon,
		PreloaderSelector: cfg.Selectors.Preloader,
		Logger:            logger,
	}
}

// LoadPage returns the configured page, or the embedded one.
func LoadPage(cfg *config.Config) (string, error) {
	if cfg.Page == "" {
		return web.Page, nil
	}
	data, err := os.ReadFile(cfg.Page)
	if err != nil {
		return "", fmt.Errorf("failed to read page %s: %w", cfg.Page, err)
	}
	return string(data), nil
}

func createInitialAppModel() models.AppModel {
	return models.AppModel{
		Status: "Listo",
	}
}
