// Package resilience guards calls to upstream services with circuit
// breakers and ordered provider fallback.
package resilience

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrCircuitOpen is returned without calling the guarded function while the
// breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the breaker mode.
//
//	closed ──(MaxFailures consecutive errors)──▶ open
//	open ──(ResetTimeout elapsed)──▶ half-open
//	half-open ──(HalfOpenMax successes)──▶ closed
//	half-open ──(any error)──▶ open
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

// BreakerConfig tunes a CircuitBreaker. Zero fields use defaults.
type BreakerConfig struct {
	Name         string
	MaxFailures  int           // default 5
	ResetTimeout time.Duration // default 30s
	HalfOpenMax  int           // default 2
	// IsFailure decides whether an error counts against the breaker.
	// Defaults to every non-nil error.
	IsFailure func(error) bool
	Now       func() time.Time
	Logger    *slog.Logger
}

// CircuitBreaker is safe for concurrent use.
type CircuitBreaker struct {
	cfg BreakerConfig

	mu            sync.Mutex
	state         State
	failures      int
	openedAt      time.Time
	probes        int
	probeSuccess  int
	onStateChange func(name string, from, to State)
}

func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	if cfg.HalfOpenMax <= 0 {
		cfg.HalfOpenMax = 2
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool { return err != nil }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &CircuitBreaker{cfg: cfg}
}

// OnStateChange registers a hook called, under the breaker lock, on every
// transition.
func (cb *CircuitBreaker) OnStateChange(fn func(name string, from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Execute runs fn unless the breaker is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	probing, err := cb.admit()
	if err != nil {
		return err
	}

	err = fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.cfg.IsFailure(err) {
		cb.onFailure(probing)
	} else {
		cb.onSuccess(probing)
	}
	return err
}

func (cb *CircuitBreaker) admit() (probing bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if cb.cfg.Now().Sub(cb.openedAt) < cb.cfg.ResetTimeout {
			return false, ErrCircuitOpen
		}
		cb.setState(StateHalfOpen)
		cb.probes = 0
		cb.probeSuccess = 0
	}
	if cb.state == StateHalfOpen {
		if cb.probes >= cb.cfg.HalfOpenMax {
			return false, ErrCircuitOpen
		}
		cb.probes++
		return true, nil
	}
	return false, nil
}

func (cb *CircuitBreaker) onFailure(probing bool) {
	if probing || cb.state == StateHalfOpen {
		cb.trip()
		return
	}
	cb.failures++
	if cb.failures >= cb.cfg.MaxFailures {
		cb.trip()
	}
}

func (cb *CircuitBreaker) onSuccess(probing bool) {
	if !probing {
		cb.failures = 0
		return
	}
	cb.probeSuccess++
	if cb.probeSuccess >= cb.cfg.HalfOpenMax {
		cb.failures = 0
		cb.setState(StateClosed)
	}
}

func (cb *CircuitBreaker) trip() {
	cb.openedAt = cb.cfg.Now()
	cb.setState(StateOpen)
}

func (cb *CircuitBreaker) setState(to State) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	cb.cfg.Logger.Info("circuit breaker state change",
		"name", cb.cfg.Name, "from", from.String(), "to", to.String(),
		"failures", cb.failures)
	if cb.onStateChange != nil {
		cb.onStateChange(cb.cfg.Name, from, to)
	}
}

// State reports the breaker mode. An open breaker whose timeout has elapsed
// reports half-open; the transition itself happens on the next call.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateOpen && cb.cfg.Now().Sub(cb.openedAt) >= cb.cfg.ResetTimeout {
		return StateHalfOpen
	}
	return cb.state
}

// Name returns the configured breaker name.
func (cb *CircuitBreaker) Name() string { return cb.cfg.Name }

// Reset forces the breaker closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.probes = 0
	cb.probeSuccess = 0
	cb.setState(StateClosed)
}
