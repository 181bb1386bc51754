package middleware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/store/memory"
	"github.com/goliatone/go-formbuilder/pkg/store/middleware"
	"github.com/goliatone/go-formbuilder/pkg/store/storetest"
)

type failingStore struct{ err error }

func (f failingStore) Load(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Save(context.Context, string, []byte) error   { return f.err }

func TestChain_KeepsContract(t *testing.T) {
	metrics, err := middleware.NewMetrics(nil)
	require.NoError(t, err)
	s := middleware.Chain(memory.New(), middleware.Logging(nil), metrics.Middleware())
	storetest.Run(t, s)
}

func TestMetrics_CountsResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := middleware.NewMetrics(reg)
	require.NoError(t, err)
	s := metrics.Middleware()(memory.New())
	ctx := context.Background()

	_, _ = s.Load(ctx, store.KeyForms)
	require.NoError(t, s.Save(ctx, store.KeyForms, []byte(`[]`)))
	_, _ = s.Load(ctx, store.KeyForms)

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("load", "forms", "not_found")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("load", "forms", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("save", "forms", "ok")))

	failing := metrics.Middleware()(failingStore{err: errors.New("boom")})
	require.Error(t, failing.Save(ctx, store.KeyEntries, nil))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.Operations.WithLabelValues("save", "entries", "error")))

	_, err = middleware.NewMetrics(reg)
	require.Error(t, err, "registering the same collectors twice must fail")
}

func TestLogging_ReportsFailuresOnly(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.NewFromZap(zap.New(core))
	ctx := context.Background()

	s := middleware.Logging(logger)(memory.New())
	_, err := s.Load(ctx, store.KeyForms)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.Equal(t, 0, logs.FilterLevelExact(zapcore.ErrorLevel).Len())

	failing := middleware.Logging(logger)(failingStore{err: errors.New("disk full")})
	require.Error(t, failing.Save(ctx, store.KeyForms, []byte(`[]`)))

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errs, 1)
	require.Equal(t, "store call failed", errs[0].Message)
	require.Equal(t, "save", errs[0].ContextMap()["op"])
	require.Equal(t, "store", errs[0].ContextMap()["component"])
}
