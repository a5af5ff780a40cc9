package remote

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/amgomez49/SF-desuscripcion/internal/models"
)

// ErrCircuitOpen is returned while the breaker refuses calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

// Breaker stops calling a failing endpoint for a while. Only errors count as
// failures; a false result is the endpoint answering and says nothing about
// its health.
type Breaker struct {
	next            Action
	maxFailures     int
	resetTimeout    time.Duration
	now             func() time.Time
	mu              sync.Mutex
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
}

func NewBreaker(next Action, maxFailures int, resetTimeout time.Duration) *Breaker {
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &Breaker{
		next:         next,
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		now:          time.Now,
		state:        CircuitClosed,
	}
}

func (cb *Breaker) Unsubscribe(ctx context.Context, payload *models.Payload) (bool, error) {
	if cb.IsOpen() {
		return false, ErrCircuitOpen
	}
	ok, err := cb.next.Unsubscribe(ctx, payload)
	if err != nil {
		cb.RecordFailure()
		return false, err
	}
	cb.RecordSuccess()
	return ok, nil
}

func (cb *Breaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen {
		// Check if we should transition to half-open
		if cb.now().Sub(cb.lastFailureTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
		}
	}
	return cb.state == CircuitOpen
}

func (cb *Breaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *Breaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount++
	cb.lastFailureTime = cb.now()

	// A failed probe reopens immediately.
	if cb.state == CircuitHalfOpen || cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *Breaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
