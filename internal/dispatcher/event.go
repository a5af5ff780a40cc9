package dispatcher

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amgomez49/SF-desuscripcion/internal/eventbus"
)

// SettledMsg carries a finished remote call into the Bubble Tea loop, where
// it must be resumed.
type SettledMsg struct {
	Settled eventbus.Settled
}

// EventDispatcher handles routing settled work from the bus into the UI loop
type EventDispatcher struct {
	eventBus *eventbus.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewEventDispatcher(eventBus *eventbus.EventBus) *EventDispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventDispatcher{
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// ListenForEvents waits for the next settled call. The model re-issues it
// after handling each SettledMsg.
func (ed *EventDispatcher) ListenForEvents() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-ed.eventBus.Settled():
			return SettledMsg{Settled: s}
		case <-ed.eventBus.Done():
			return nil
		case <-ed.ctx.Done():
			return nil
		}
	}
}

func (ed *EventDispatcher) Stop() {
	ed.cancel()
}

func (ed *EventDispatcher) GetEventBus() *eventbus.EventBus {
	return ed.eventBus
}
