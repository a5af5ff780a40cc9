// Package remote holds the unsubscribe actions the form controller can call.
package remote

import (
	"context"

	"github.com/amgomez49/SF-desuscripcion/internal/models"
)

// Action performs the unsubscribe. A false result and an error are both
// treated as a failed submission by the caller.
type Action interface {
	Unsubscribe(ctx context.Context, payload *models.Payload) (bool, error)
}

// Func adapts a plain function to Action.
type Func func(ctx context.Context, payload *models.Payload) (bool, error)

func (f Func) Unsubscribe(ctx context.Context, payload *models.Payload) (bool, error) {
	return f(ctx, payload)
}
