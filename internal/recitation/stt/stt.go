// Package stt transcribes recitation audio through hosted speech-to-text
// services.
package stt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/llehouerou/tartil/internal/config"
	"github.com/llehouerou/tartil/internal/observe"
	"github.com/llehouerou/tartil/internal/resilience"
)

// ErrNoProviders is returned when no provider is configured.
var ErrNoProviders = errors.New("stt: no providers configured")

// ErrEmptyAudio is returned for zero-length audio.
var ErrEmptyAudio = errors.New("stt: empty audio")

// Audio is a recorded recitation.
type Audio struct {
	Data     []byte
	MIMEType string // e.g. "audio/wav", "audio/mpeg"
	Language string // BCP-47, e.g. "ar"
}

// Transcript is the text recognized in an Audio.
type Transcript struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Provider   string  `json:"provider"`
}

// Provider is a speech-to-text backend.
type Provider interface {
	Name() string
	Transcribe(ctx context.Context, audio Audio) (Transcript, error)
}

// Chain tries providers in order, each behind its own circuit breaker.
type Chain struct {
	group   *resilience.FallbackGroup[Provider]
	metrics *observe.Metrics
	lang    string
}

// NewChain builds a chain over providers in the given order.
func NewChain(providers []Provider, language string, m *observe.Metrics, log *slog.Logger) *Chain {
	g := resilience.NewFallbackGroup[Provider](resilience.BreakerConfig{
		MaxFailures:  3,
		ResetTimeout: time.Minute,
		IsFailure: func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, ErrEmptyAudio)
		},
		Logger: log,
	})
	for _, p := range providers {
		g.Add(p.Name(), p)
	}
	return &Chain{group: g, metrics: m, lang: language}
}

// FromConfig builds the configured providers, skipping those without a key.
func FromConfig(cfg config.STTConfig, m *observe.Metrics, log *slog.Logger) *Chain {
	var providers []Provider
	for _, name := range cfg.Providers {
		switch name {
		case "assemblyai":
			if cfg.AssemblyAIKey != "" {
				providers = append(providers, NewAssemblyAI(cfg.AssemblyAIURL, cfg.AssemblyAIKey, cfg.PollInterval()))
			}
		case "google":
			if cfg.GoogleKey != "" {
				providers = append(providers, NewGoogle(cfg.GoogleURL, cfg.GoogleKey))
			}
		default:
			if log != nil {
				log.Warn("unknown stt provider", "provider", name)
			}
		}
	}
	return NewChain(providers, cfg.Language, m, log)
}

// Providers returns the provider names in order.
func (c *Chain) Providers() []string {
	return c.group.Names()
}

// Transcribe runs audio through the first healthy provider.
func (c *Chain) Transcribe(ctx context.Context, audio Audio) (Transcript, error) {
	if c.group.Len() == 0 {
		return Transcript{}, ErrNoProviders
	}
	if len(audio.Data) == 0 {
		return Transcript{}, ErrEmptyAudio
	}
	if audio.Language == "" {
		audio.Language = c.lang
	}

	tr, name, err := resilience.Do(ctx, c.group, func(ctx context.Context, p Provider) (Transcript, error) {
		start := time.Now()
		tr, err := p.Transcribe(ctx, audio)
		c.metrics.RecordSTT(ctx, p.Name(), time.Since(start).Seconds(), err)
		return tr, err
	})
	if err != nil {
		return Transcript{}, fmt.Errorf("transcribe: %w", err)
	}
	tr.Provider = name
	return tr, nil
}
