package observe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestRecordUpstream(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordUpstream(ctx, "quran", 0.2, nil)
	m.RecordUpstream(ctx, "quran", 0.3, errors.New("502"))
	m.RecordUpstream(ctx, "quran", 0.1, nil)

	rm := collect(t, reader)
	got := findMetric(rm, "tartil.upstream.requests")
	if got == nil {
		t.Fatal("upstream counter not found")
	}
	sum, ok := got.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("unexpected data type %T", got.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	if total != 3 {
		t.Errorf("total requests = %d, want 3", total)
	}
	if len(sum.DataPoints) != 2 {
		t.Errorf("data points = %d, want 2 (ok and error)", len(sum.DataPoints))
	}
}

func TestRecordCache(t *testing.T) {
	m, reader := newTestMetrics(t)
	m.RecordCache(context.Background(), true)
	m.RecordCache(context.Background(), false)

	if findMetric(collect(t, reader), "tartil.cache.lookups") == nil {
		t.Error("cache counter not found")
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordUpstream(context.Background(), "quran", 1, nil)
	m.RecordSTT(context.Background(), "google", 1, nil)
	m.RecordCache(context.Background(), true)
	m.RecordAttempt(context.Background(), 1)
}

func TestMiddleware_RecordsDuration(t *testing.T) {
	m, reader := newTestMetrics(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := Middleware(m, log, func(*http.Request) string { return "/api/v1/chapters/{id}" })(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/chapters/2", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
	got := findMetric(collect(t, reader), "tartil.http.request.duration")
	if got == nil {
		t.Fatal("http histogram not found")
	}
	hist := got.Data.(metricdata.Histogram[float64])
	if len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 1 {
		t.Fatalf("histogram points = %+v", hist.DataPoints)
	}
	route, _ := hist.DataPoints[0].Attributes.Value("route")
	if route.AsString() != "/api/v1/chapters/{id}" {
		t.Errorf("route attribute = %q", route.AsString())
	}
}

func TestInitProvider_ServesPrometheus(t *testing.T) {
	p, err := InitProvider("test")
	if err != nil {
		t.Fatalf("InitProvider: %v", err)
	}
	defer p.Shutdown(context.Background())

	p.Metrics.RecordCache(context.Background(), true)

	rec := httptest.NewRecorder()
	p.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "tartil_cache_lookups") {
		t.Errorf("metrics output missing cache counter:\n%s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `service_version="test"`) {
		t.Errorf("metrics output missing service resource:\n%s", rec.Body.String())
	}
}
