// Package sqlstore persists documents in a SQL table through sqlx. SQLite
// (modernc.org/sqlite) and PostgreSQL (pgx) are supported; the schema is
// managed with embedded goose migrations.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-formbuilder/pkg/store"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Store implements store.Store on a documents table.
type Store struct {
	db  *sqlx.DB
	now func() time.Time

	loadQuery string
	saveQuery string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source for updated_at stamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// DriverName maps configuration names (sqlite, sqlite3, postgres, pgx) onto
// registered database/sql drivers.
func DriverName(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("sqlstore: unsupported driver %q", raw)
	}
}

// Open connects to dsn, applies pending migrations and returns a ready
// Store.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	name, err := DriverName(driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open: %w", err)
	}
	if name == DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore: ping: %w", err)
	}

	s := New(db, opts...)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection. It does not run migrations.
func New(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{
		db:        db,
		now:       func() time.Time { return time.Now().UTC() },
		loadQuery: db.Rebind(`SELECT doc_value FROM documents WHERE doc_key = ?`),
		saveQuery: db.Rebind(`INSERT INTO documents (doc_key, doc_value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (doc_key) DO UPDATE SET doc_value = excluded.doc_value, updated_at = excluded.updated_at`),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Migrate applies the embedded migrations.
func (s *Store) Migrate(ctx context.Context) error {
	dialect := "postgres"
	if s.db.DriverName() == DriverSQLite {
		dialect = "sqlite3"
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("sqlstore: migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db.DB, "migrations"); err != nil {
		return fmt.Errorf("sqlstore: migrate: %w", err)
	}
	return nil
}

// Load returns the document stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var value string
	if err := s.db.GetContext(ctx, &value, s.loadQuery, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("sqlstore: load %q: %w", key, err)
	}
	return []byte(value), nil
}

// Save upserts the document stored under key.
func (s *Store) Save(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.saveQuery, key, string(value), s.now()); err != nil {
		return fmt.Errorf("sqlstore: save %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
