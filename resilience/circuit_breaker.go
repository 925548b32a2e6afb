// Package resilience wraps upstream calls with retries and a circuit
// breaker so a flaky model provider or forecast API cannot stall the
// request path.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// State is a circuit breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker stops dialing an upstream after repeated failures and
// probes it again after resetTimeout.
type CircuitBreaker struct {
	mu sync.RWMutex

	maxFailures      int
	resetTimeout     time.Duration
	halfOpenRequests int

	state            State
	failures         int
	lastFailureTime  time.Time
	halfOpenAttempts int

	onStateChange func(from, to State)
}

// NewCircuitBreaker opens after maxFailures consecutive failures and
// half-opens after resetTimeout.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:      maxFailures,
		resetTimeout:     resetTimeout,
		halfOpenRequests: 1,
		state:            StateClosed,
	}
}

// SetOnStateChange registers a callback for state transitions. The
// callback runs on its own goroutine.
func (cb *CircuitBreaker) SetOnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// SetHalfOpenRequests sets how many probe calls the half-open state admits.
func (cb *CircuitBreaker) SetHalfOpenRequests(n int) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.halfOpenRequests = n
}

// Execute runs fn when the breaker admits the call, recording the outcome.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}
	err := fn()
	cb.afterCall(err)
	return err
}

func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil
	case StateOpen:
		if time.Since(cb.lastFailureTime) > cb.resetTimeout {
			cb.changeState(StateHalfOpen)
			cb.halfOpenAttempts = 0
			return nil
		}
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.halfOpenAttempts >= cb.halfOpenRequests {
			return ErrTooManyRequests
		}
		cb.halfOpenAttempts++
		return nil
	default:
		return ErrUnknownState
	}
}

func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		if err != nil {
			cb.failures++
			cb.lastFailureTime = time.Now()
			if cb.failures >= cb.maxFailures {
				cb.changeState(StateOpen)
			}
		} else {
			cb.failures = 0
		}
	case StateHalfOpen:
		if err != nil {
			cb.changeState(StateOpen)
			cb.failures = 1
			cb.lastFailureTime = time.Now()
		} else {
			cb.changeState(StateClosed)
			cb.failures = 0
		}
	}
}

func (cb *CircuitBreaker) changeState(to State) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	if cb.onStateChange != nil {
		go cb.onStateChange(from, to)
	}
}

// GetState returns the current state.
func (cb *CircuitBreaker) GetState() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// GetFailures returns the consecutive failure count.
func (cb *CircuitBreaker) GetFailures() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.failures
}

// Reset forces the breaker closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.changeState(StateClosed)
	cb.failures = 0
	cb.halfOpenAttempts = 0
}

// Trip forces the breaker open.
func (cb *CircuitBreaker) Trip() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.changeState(StateOpen)
	cb.lastFailureTime = time.Now()
}

var (
	ErrCircuitOpen     = errors.New("circuit breaker: circuit is open")
	ErrTooManyRequests = errors.New("circuit breaker: too many requests in half-open state")
	ErrUnknownState    = errors.New("circuit breaker: unknown state")
)
