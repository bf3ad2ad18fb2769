package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ─────────────────────────────────────────────────────────────────────────────
// Prometheus Registry
// ─────────────────────────────────────────────────────────────────────────────

// Registry bundles the application's Prometheus collectors. It owns its own
// prometheus.Registry so tests can create isolated instances.
type Registry struct {
	reg *prometheus.Registry

	// Operations counts evaluated commands by operation name and outcome
	// ("ok" or "error").
	Operations *prometheus.CounterVec
	// MulPath counts multiplications by the dispatch path taken
	// (schoolbook, ntt, fallback).
	MulPath *prometheus.CounterVec
	// OpDuration observes evaluation latency per operation.
	OpDuration *prometheus.HistogramVec
	// HeapAlloc mirrors the runtime heap-in-use reading.
	HeapAlloc prometheus.Gauge
}

// NewRegistry creates a Registry with all application collectors registered,
// alongside the standard Go runtime collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "abacus",
			Name:      "operations_total",
			Help:      "Evaluated operations by name and outcome.",
		}, []string{"op", "outcome"}),
		MulPath: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "abacus",
			Name:      "mul_path_total",
			Help:      "Multiplications by dispatch path.",
		}, []string{"path"}),
		OpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "abacus",
			Name:      "operation_duration_seconds",
			Help:      "Evaluation latency per operation.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 14),
		}, []string{"op"}),
		HeapAlloc: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "abacus",
			Name:      "heap_alloc_bytes",
			Help:      "Heap bytes in use as reported by the Go runtime.",
		}),
	}
	r.reg.MustRegister(
		r.Operations,
		r.MulPath,
		r.OpDuration,
		r.HeapAlloc,
		collectors.NewGoCollector(),
	)
	return r
}

// ObserveOperation records one evaluated operation with its latency.
func (r *Registry) ObserveOperation(op string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.Operations.WithLabelValues(op, outcome).Inc()
	r.OpDuration.WithLabelValues(op).Observe(d.Seconds())
}

// RecordMulPath is shaped to plug into the kernel's multiplication path
// observer hook.
func (r *Registry) RecordMulPath(path string) {
	r.MulPath.WithLabelValues(path).Inc()
}

// UpdateMemory refreshes the memory gauges from a collector snapshot.
func (r *Registry) UpdateMemory(snap MemorySnapshot) {
	r.HeapAlloc.Set(float64(snap.HeapAlloc))
}

// Handler returns an HTTP handler exposing the registry in the Prometheus
// text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Serve runs an HTTP server exposing /metrics on addr until ctx is canceled.
// The error from the final shutdown is returned; a clean shutdown yields nil.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
