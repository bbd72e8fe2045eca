package webfetch

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type circuitState int

const (
	stateClosed circuitState = iota
	stateOpen
	stateHalfOpen
)

// CircuitBreakerConfig sizes the breaker around the fetch path.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 10,
		SuccessThreshold: 3,
		Timeout:          30 * time.Second,
	}
}

// CircuitBreaker stops hammering an unreachable site. After
// FailureThreshold consecutive failures it rejects calls for Timeout,
// then lets probes through until SuccessThreshold successes close it
// again.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	mu  sync.Mutex

	state           circuitState
	failures        int
	successes       int
	lastFailureTime time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{cfg: cfg, state: stateClosed}
}

// Execute runs fn unless the breaker is open.
func (cb *CircuitBreaker) Execute(operation string, fn func() error) error {
	if !cb.allow() {
		return fmt.Errorf("circuit breaker is open for %s", operation)
	}
	err := fn()
	cb.record(operation, err)
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if !cb.cfg.Enabled {
		return true
	}
	switch cb.state {
	case stateOpen:
		if time.Since(cb.lastFailureTime) > cb.cfg.Timeout {
			log.Info().Msg("circuit breaker transitioning to half-open")
			cb.state = stateHalfOpen
			cb.successes = 0
			return true
		}
		return false
	default:
		return true
	}
}

func (cb *CircuitBreaker) record(operation string, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if !cb.cfg.Enabled {
		return
	}

	if err != nil {
		cb.failures++
		cb.successes = 0
		cb.lastFailureTime = time.Now()
		if cb.state == stateHalfOpen || (cb.state == stateClosed && cb.failures >= cb.cfg.FailureThreshold) {
			log.Warn().Str("operation", operation).Int("failures", cb.failures).Msg("circuit breaker opening")
			cb.state = stateOpen
		}
		return
	}

	cb.successes++
	switch cb.state {
	case stateHalfOpen:
		if cb.successes >= cb.cfg.SuccessThreshold {
			log.Info().Str("operation", operation).Msg("circuit breaker closing")
			cb.state = stateClosed
			cb.failures = 0
			cb.successes = 0
		}
	case stateClosed:
		cb.failures = 0
	}
}
