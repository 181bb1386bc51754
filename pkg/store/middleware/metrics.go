package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-formbuilder/pkg/store"
)

// Metrics holds the collectors recorded by the Metrics middleware.
type Metrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics creates the store collectors and registers them with reg when
// reg is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formbuilder_store_operations_total",
				Help: "Store operations by operation, key and result.",
			},
			[]string{"op", "key", "result"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "formbuilder_store_operation_duration_seconds",
				Help:    "Store operation latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.Operations, m.Duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Middleware returns the instrumenting Middleware.
func (m *Metrics) Middleware() Middleware {
	return func(next store.Store) store.Store {
		return &metricsStore{next: next, metrics: m}
	}
}

type metricsStore struct {
	next    store.Store
	metrics *Metrics
}

func (s *metricsStore) Load(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := s.next.Load(ctx, key)
	s.observe("load", key, start, err)
	return value, err
}

func (s *metricsStore) Save(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Save(ctx, key, value)
	s.observe("save", key, start, err)
	return err
}

func (s *metricsStore) observe(op, key string, start time.Time, err error) {
	s.metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	s.metrics.Operations.WithLabelValues(op, key, result(err)).Inc()
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
