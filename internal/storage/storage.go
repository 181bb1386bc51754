// Package storage opens the store.Store selected by configuration and wraps
// it with the logging and metrics middleware.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/store"
	"github.com/goliatone/go-formbuilder/pkg/store/memory"
	"github.com/goliatone/go-formbuilder/pkg/store/middleware"
	"github.com/goliatone/go-formbuilder/pkg/store/redisstore"
	"github.com/goliatone/go-formbuilder/pkg/store/s3store"
	"github.com/goliatone/go-formbuilder/pkg/store/sqlstore"
)

// Backend is an opened store and the resources it holds.
type Backend struct {
	Store   store.Store
	Driver  string
	closers []io.Closer
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	var errs []error
	for _, c := range b.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open connects to the backend described by cfg. Store calls are logged at
// debug level; when cfg.Metrics is set and reg is not nil they are also
// counted and timed.
func Open(ctx context.Context, cfg config.StorageConfig, logger logging.Logger, reg prometheus.Registerer) (*Backend, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	backend := &Backend{Driver: cfg.Driver}
	var base store.Store

	switch cfg.Driver {
	case config.DriverMemory:
		base = memory.New()
	case config.DriverSQLite, config.DriverPostgres:
		s, err := sqlstore.Open(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		base = s
		backend.closers = append(backend.closers, s)
	case config.DriverRedis:
		var opts []redisstore.Option
		if cfg.KeyPrefix != "" {
			opts = append(opts, redisstore.WithPrefix(cfg.KeyPrefix))
		}
		if cfg.TTL > 0 {
			opts = append(opts, redisstore.WithTTL(cfg.TTL))
		}
		s, err := redisstore.NewFromURL(cfg.DSN, opts...)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("storage: redis ping: %w", err)
		}
		base = s
		backend.closers = append(backend.closers, s)
	case config.DriverS3:
		s, err := s3store.New(ctx, s3store.Config{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		base = s
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Driver)
	}

	mws := []middleware.Middleware{
		middleware.Logging(logger.With("driver", cfg.Driver)),
	}
	if cfg.Metrics && reg != nil {
		metrics, err := middleware.NewMetrics(reg)
		if err != nil {
			backend.Close()
			return nil, fmt.Errorf("storage: metrics: %w", err)
		}
		mws = append(mws, metrics.Middleware())
	}
	backend.Store = middleware.Chain(base, mws...)

	logger.Info(ctx, "storage opened", "driver", cfg.Driver)
	return backend, nil
}
