// Package observe holds the OpenTelemetry metric instruments of the HTTP
// API and upstream clients, exported in Prometheus format.
//
// Tests should build their own [Metrics] with [NewMetrics] over a manual
// reader rather than the global provider.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/llehouerou/tartil"

// Metrics holds the application's instruments. The OTel types handle their
// own synchronisation.
type Metrics struct {
	// HTTPRequestDuration: attributes method, route, status.
	HTTPRequestDuration metric.Float64Histogram

	// UpstreamRequests: attributes upstream ("quran", "translit", "audio"), status.
	UpstreamRequests metric.Int64Counter
	UpstreamDuration metric.Float64Histogram

	// STTDuration: attributes provider, status.
	STTDuration metric.Float64Histogram

	// CacheLookups: attributes result ("hit", "miss").
	CacheLookups metric.Int64Counter

	// RecitationAttempts: attribute chapter.
	RecitationAttempts metric.Int64Counter
}

var latencyBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates every instrument on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.HTTPRequestDuration, err = m.Float64Histogram("tartil.http.request.duration",
		metric.WithDescription("Latency of HTTP API requests."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.UpstreamRequests, err = m.Int64Counter("tartil.upstream.requests",
		metric.WithDescription("Upstream API requests by upstream and status."),
	); err != nil {
		return nil, err
	}
	if met.UpstreamDuration, err = m.Float64Histogram("tartil.upstream.duration",
		metric.WithDescription("Latency of upstream API requests."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.STTDuration, err = m.Float64Histogram("tartil.stt.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.CacheLookups, err = m.Int64Counter("tartil.cache.lookups",
		metric.WithDescription("Response cache lookups by result."),
	); err != nil {
		return nil, err
	}
	if met.RecitationAttempts, err = m.Int64Counter("tartil.recitation.attempts",
		metric.WithDescription("Scored recitation attempts."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// RecordUpstream records one upstream call.
func (m *Metrics) RecordUpstream(ctx context.Context, upstream string, seconds float64, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("upstream", upstream),
		attribute.String("status", status),
	)
	m.UpstreamRequests.Add(ctx, 1, attrs)
	m.UpstreamDuration.Record(ctx, seconds, attrs)
}

// RecordSTT records one transcription.
func (m *Metrics) RecordSTT(ctx context.Context, provider string, seconds float64, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.STTDuration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
}

// RecordCache records a cache lookup result.
func (m *Metrics) RecordCache(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordAttempt counts one scored recitation.
func (m *Metrics) RecordAttempt(ctx context.Context, chapter int) {
	if m == nil {
		return
	}
	m.RecitationAttempts.Add(ctx, 1, metric.WithAttributes(attribute.Int("chapter", chapter)))
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// DefaultMetrics returns instruments on the global meter provider.
// It panics if instrument creation fails, which only happens on a
// misconfigured provider.
func DefaultMetrics() *Metrics {
	defaultOnce.Do(func() {
		m, err := NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: create default metrics: " + err.Error())
		}
		defaultMetrics = m
	})
	return defaultMetrics
}
