// Package storetest holds the behavioural contract every store.Store backend
// must satisfy.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbuilder/pkg/store"
)

// Run exercises s against the Store contract. The store must start empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Load(ctx, "contract:missing")
		require.True(t, errors.Is(err, store.ErrNotFound), "expected ErrNotFound, got %v", err)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, store.KeyForms, []byte(`[{"id":"f1"}]`)))
		got, err := s.Load(ctx, store.KeyForms)
		require.NoError(t, err)
		require.JSONEq(t, `[{"id":"f1"}]`, string(got))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, store.KeyEntries, []byte(`{"a":[]}`)))
		require.NoError(t, s.Save(ctx, store.KeyEntries, []byte(`{"b":[]}`)))
		got, err := s.Load(ctx, store.KeyEntries)
		require.NoError(t, err)
		require.JSONEq(t, `{"b":[]}`, string(got))
	})

	t.Run("caller buffer isolation", func(t *testing.T) {
		buf := []byte(`"original"`)
		require.NoError(t, s.Save(ctx, "contract:isolation", buf))
		copy(buf, []byte(`"mutated!"`))
		got, err := s.Load(ctx, "contract:isolation")
		require.NoError(t, err)
		require.Equal(t, `"original"`, string(got))
	})

	t.Run("concurrent writers", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("contract:concurrent:%d", i)
				if err := s.Save(ctx, key, []byte(fmt.Sprintf("%d", i))); err != nil {
					t.Errorf("save %s: %v", key, err)
				}
			}(i)
		}
		wg.Wait()
		for i := 0; i < 8; i++ {
			got, err := s.Load(ctx, fmt.Sprintf("contract:concurrent:%d", i))
			require.NoError(t, err)
			require.Equal(t, fmt.Sprintf("%d", i), string(got))
		}
	})
}
