package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/store"
)

type loggingStore struct {
	next   store.Store
	logger logging.Logger
}

// Logging records every store call at debug level and failures at error
// level. Missing keys are not failures.
func Logging(logger logging.Logger) Middleware {
	if logger == nil {
		logger = logging.NewNop()
	}
	return func(next store.Store) store.Store {
		return &loggingStore{next: next, logger: logger.With("component", "store")}
	}
}

func (s *loggingStore) Load(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := s.next.Load(ctx, key)
	s.log(ctx, "load", key, len(value), start, err)
	return value, err
}

func (s *loggingStore) Save(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Save(ctx, key, value)
	s.log(ctx, "save", key, len(value), start, err)
	return err
}

func (s *loggingStore) log(ctx context.Context, op, key string, size int, start time.Time, err error) {
	args := []any{"op", op, "key", key, "bytes", size, "duration", time.Since(start)}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.logger.Error(ctx, "store call failed", append(args, "error", err)...)
		return
	}
	s.logger.Debug(ctx, "store call", args...)
}
