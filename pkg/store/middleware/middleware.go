// Package middleware decorates a store.Store with cross-cutting behaviour.
package middleware

import "github.com/goliatone/go-formbuilder/pkg/store"

// Middleware wraps a Store to add behaviour.
type Middleware func(store.Store) store.Store

// Chain applies middlewares so the first one listed is the outermost.
func Chain(s store.Store, mws ...Middleware) store.Store {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			s = mws[i](s)
		}
	}
	return s
}
