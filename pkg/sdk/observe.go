package lexsearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	"github.com/kailas-cloud/lexsearch/internal/transport/backend"
)

// Operation outcomes used as the "outcome" metric label.
const (
	outcomeOK          = "ok"
	outcomeInvalid     = "invalid"
	outcomeUnauth      = "unauthenticated"
	outcomeNotFound    = "not_found"
	outcomeUnavailable = "unavailable"
	outcomeBackend     = "backend_error"
	outcomeCancelled   = "cancelled"
	outcomeError       = "error"
)

type sdkMetrics struct {
	calls    *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	inFlight *prometheus.GaugeVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexsearch",
			Subsystem: "sdk",
			Name:      "calls_total",
			Help:      "SDK calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lexsearch",
			Subsystem: "sdk",
			Name:      "call_duration_seconds",
			Help:      "SDK call latency, including backend round trips.",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		inFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lexsearch",
			Subsystem: "sdk",
			Name:      "calls_in_flight",
			Help:      "SDK calls currently running.",
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.calls); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.latency); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.inFlight); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers c, or points c at the collector a previous client
// already registered under the same name.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("lexsearch: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("lexsearch: metric already registered as %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// outcome buckets err into a small fixed label set.
func outcome(err error) string {
	var httpErr *backend.HTTPError
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCancelled
	case errors.Is(err, domain.ErrInvalidParams), errors.Is(err, domain.ErrInvalidCaseName):
		return outcomeInvalid
	case errors.Is(err, domain.ErrUnauthenticated):
		return outcomeUnauth
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoDocumentURL):
		return outcomeNotFound
	case errors.Is(err, domain.ErrNotConfigured):
		return outcomeUnavailable
	case errors.As(err, &httpErr), errors.Is(err, domain.ErrInvalidResponse), errors.Is(err, domain.ErrInvalidResponseShape):
		return outcomeBackend
	default:
		return outcomeError
	}
}

// observer records metrics and logs for SDK calls. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) begin(op string) {
	if o != nil && o.metrics != nil {
		o.metrics.inFlight.WithLabelValues(op).Inc()
	}
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	took := time.Since(start)
	res := outcome(err)

	if o.metrics != nil {
		o.metrics.inFlight.WithLabelValues(op).Dec()
		o.metrics.calls.WithLabelValues(op, res).Inc()
		o.metrics.latency.WithLabelValues(op).Observe(took.Seconds())
	}
	if o.logger == nil {
		return
	}
	switch res {
	case outcomeOK:
		o.logger.Debug("lexsearch call", "op", op, "took", took)
	case outcomeInvalid, outcomeNotFound, outcomeCancelled:
		o.logger.Debug("lexsearch call rejected", "op", op, "outcome", res, "error", err)
	default:
		o.logger.Warn("lexsearch call failed", "op", op, "outcome", res, "took", took, "error", err)
	}
}

// call runs fn as SDK operation op.
func call[T any](o *observer, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	o.begin(op)
	v, err := fn()
	o.observe(op, start, err)
	return v, err
}
