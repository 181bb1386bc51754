// Package store defines the key-value collaborator that persists the form
// library. Values are opaque documents; the repository package owns their
// encoding.
package store

import (
	"context"
	"errors"
)

// Keys used by the form library.
const (
	KeyForms   = "forms"
	KeyEntries = "entries"
)

// ErrNotFound is returned by Load when no document exists for the key.
var ErrNotFound = errors.New("store: key not found")

// Store loads and saves whole documents by key. Implementations must be safe
// for concurrent use.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}
