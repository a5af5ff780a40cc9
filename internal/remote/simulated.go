package remote

import (
	"context"
	"time"

	"github.com/amgomez49/SF-desuscripcion/internal/models"
)

// DefaultSimulatedDelay matches the pause the page used before an endpoint existed.
const DefaultSimulatedDelay = 4 * time.Second

// Simulated stands in for a real endpoint: it waits and returns Result.
type Simulated struct {
	Delay  time.Duration
	Result bool
}

func (s Simulated) Unsubscribe(ctx context.Context, _ *models.Payload) (bool, error) {
	if s.Delay <= 0 {
		return s.Result, nil
	}
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return s.Result, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
