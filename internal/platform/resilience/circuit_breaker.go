package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

const defaultOpenTimeout = 15 * time.Second

// CircuitBreaker guards calls to the remote database. Every state change
// starts a new generation; results reported for an older generation are
// discarded so a slow call cannot reopen or close a newer window.
type CircuitBreaker struct {
	name          string
	threshold     int
	openTimeout   time.Duration
	probes        int
	isFailure     func(error) bool
	onStateChange func(name string, from, to CircuitState)
	now           func() time.Time

	mu         sync.Mutex
	state      CircuitState
	generation uint64
	failures   int
	inFlight   int
	passed     int
	expiry     time.Time
}

// NewCircuitBreaker builds an enabled breaker from cfg, filling zero
// values with defaults.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	b := &CircuitBreaker{
		name:          cfg.Name,
		threshold:     max(cfg.FailureThreshold, 1),
		openTimeout:   cfg.OpenTimeout,
		probes:        max(cfg.HalfOpenMaxReq, 1),
		isFailure:     cfg.IsFailure,
		onStateChange: cfg.OnStateChange,
		now:           time.Now,
		state:         CircuitStateClosed,
	}
	if b.openTimeout <= 0 {
		b.openTimeout = defaultOpenTimeout
	}
	if b.isFailure == nil {
		b.isFailure = func(err error) bool { return err != nil }
	}
	return b
}

func (b *CircuitBreaker) Name() string {
	return b.name
}

// Execute runs fn unless the breaker is open or ctx is already done.
// Errors the classifier does not count as failures pass through and
// count as a successful round trip.
func (b *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gen, err := b.admit()
	if err != nil {
		return err
	}

	err = fn()
	b.settle(gen, err == nil || !b.isFailure(err))
	return err
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refresh(b.now())
	return b.state
}

func (b *CircuitBreaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refresh(b.now())
	switch b.state {
	case CircuitStateOpen:
		return b.generation, ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.inFlight >= b.probes {
			return b.generation, ErrCircuitOpen
		}
	}
	b.inFlight++
	return b.generation, nil
}

func (b *CircuitBreaker) settle(gen uint64, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refresh(b.now())
	if gen != b.generation {
		return
	}
	if b.inFlight > 0 {
		b.inFlight--
	}

	switch {
	case ok && b.state == CircuitStateClosed:
		b.failures = 0
	case ok && b.state == CircuitStateHalfOpen:
		b.passed++
		if b.passed >= b.probes {
			b.transition(CircuitStateClosed)
		}
	case !ok && b.state == CircuitStateClosed:
		b.failures++
		if b.failures >= b.threshold {
			b.transition(CircuitStateOpen)
		}
	case !ok && b.state == CircuitStateHalfOpen:
		b.transition(CircuitStateOpen)
	}
}

// refresh moves an expired open window to half-open. Caller holds mu.
func (b *CircuitBreaker) refresh(now time.Time) {
	if b.state == CircuitStateOpen && !now.Before(b.expiry) {
		b.transition(CircuitStateHalfOpen)
	}
}

// transition resets the window counters for a new generation. Caller holds mu.
func (b *CircuitBreaker) transition(to CircuitState) {
	from := b.state
	if from == to {
		return
	}

	b.state = to
	b.generation++
	b.failures, b.inFlight, b.passed = 0, 0, 0
	b.expiry = time.Time{}
	if to == CircuitStateOpen {
		b.expiry = b.now().Add(b.openTimeout)
	}

	if b.onStateChange != nil {
		b.onStateChange(b.name, from, to)
	}
}
