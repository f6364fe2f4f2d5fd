package resilience

import "time"

type CircuitBreakerConfig struct {
	Enabled          bool
	Name             string
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int

	// IsFailure reports whether err counts against the breaker. Nil
	// counts every error.
	IsFailure func(error) bool
	// OnStateChange is called with the breaker lock held and must not
	// call back into the breaker.
	OnStateChange func(name string, from, to CircuitState)
}

// Build returns nil when the breaker is disabled. Callers treat a nil breaker
// as always closed.
func (c CircuitBreakerConfig) Build() *CircuitBreaker {
	if !c.Enabled {
		return nil
	}
	return NewCircuitBreaker(c)
}
