package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned while the breaker is rejecting calls.
var ErrOpen = errors.New("circuit breaker is open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

type Settings struct {
	Name string
	// FailureThreshold is the number of consecutive failures that
	// opens the breaker.
	FailureThreshold int
	// CoolDown is how long the breaker stays open before letting a
	// single trial call through.
	CoolDown time.Duration
}

// CircuitBreaker fails fast once a downstream dependency keeps
// erroring, so callers stop piling work onto it.
type CircuitBreaker struct {
	name      string
	threshold int
	coolDown  time.Duration
	now       func() time.Time

	mu          sync.Mutex
	state       state
	failures    int
	lastFailure time.Time
}

func New(settings Settings) *CircuitBreaker {
	if settings.FailureThreshold <= 0 {
		settings.FailureThreshold = 5
	}
	if settings.CoolDown <= 0 {
		settings.CoolDown = 30 * time.Second
	}
	return &CircuitBreaker{
		name:      settings.Name,
		threshold: settings.FailureThreshold,
		coolDown:  settings.CoolDown,
		now:       time.Now,
		state:     stateClosed,
	}
}

// Execute runs fn unless the breaker is open. Once the cool-down has
// passed, one trial call is let through; its outcome decides whether
// the breaker closes again or re-opens.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.state == stateOpen {
		if cb.now().Sub(cb.lastFailure) < cb.coolDown {
			cb.mu.Unlock()
			return ErrOpen
		}
		cb.state = stateHalfOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		cb.lastFailure = cb.now()
		if cb.state == stateHalfOpen || cb.failures >= cb.threshold {
			cb.state = stateOpen
		}
		return err
	}
	cb.state = stateClosed
	cb.failures = 0
	return nil
}
