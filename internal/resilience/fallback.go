package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrAllFailed is returned when every member of a FallbackGroup failed or was
// skipped because its breaker is open.
var ErrAllFailed = errors.New("all providers failed")

type member[T any] struct {
	name    string
	value   T
	breaker *CircuitBreaker
}

// FallbackGroup tries members in registration order, each behind its own
// circuit breaker.
type FallbackGroup[T any] struct {
	members []member[T]
	cfg     BreakerConfig
}

// NewFallbackGroup creates an empty group; cfg is the template for each
// member's breaker.
func NewFallbackGroup[T any](cfg BreakerConfig) *FallbackGroup[T] {
	return &FallbackGroup[T]{cfg: cfg}
}

// Add appends a member.
func (g *FallbackGroup[T]) Add(name string, v T) {
	cfg := g.cfg
	cfg.Name = name
	g.members = append(g.members, member[T]{name: name, value: v, breaker: NewCircuitBreaker(cfg)})
}

// Len returns the number of members.
func (g *FallbackGroup[T]) Len() int { return len(g.members) }

// Names returns member names in order.
func (g *FallbackGroup[T]) Names() []string {
	names := make([]string, len(g.members))
	for i, m := range g.members {
		names[i] = m.name
	}
	return names
}

// Do runs fn against each member until one succeeds and returns that
// member's name with the result. A canceled context stops the walk.
func Do[T, R any](ctx context.Context, g *FallbackGroup[T], fn func(context.Context, T) (R, error)) (R, string, error) {
	var zero R
	if len(g.members) == 0 {
		return zero, "", fmt.Errorf("%w: no providers configured", ErrAllFailed)
	}

	var errs []error
	for i := range g.members {
		m := &g.members[i]
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}
		var out R
		err := m.breaker.Execute(func() error {
			var err error
			out, err = fn(ctx, m.value)
			return err
		})
		if err == nil {
			return out, m.name, nil
		}
		if errors.Is(err, ErrCircuitOpen) {
			slog.Debug("skipping provider, circuit open", "provider", m.name)
		} else {
			slog.Warn("provider failed, trying next", "provider", m.name, "err", err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", m.name, err))
	}
	return zero, "", fmt.Errorf("%w: %w", ErrAllFailed, errors.Join(errs...))
}
