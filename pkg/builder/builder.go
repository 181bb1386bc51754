// Package builder holds the schema builder logic: machine-name generation,
// field list editing and form-level completeness checks. Every operation is a
// pure function over the values passed in; callers own the resulting state
// and decide when to persist it.
package builder

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces unique identifiers for fields and forms.
type IDGenerator func() string

// Clock reports the current time.
type Clock func() time.Time

// Option configures a Builder.
type Option func(*Builder)

// WithIDGenerator overrides the default UUID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(b *Builder) {
		if gen != nil {
			b.newID = gen
		}
	}
}

// WithClock overrides the wall clock used for CreatedAt stamps.
func WithClock(clock Clock) Option {
	return func(b *Builder) {
		if clock != nil {
			b.now = clock
		}
	}
}

// Builder applies field and form edits using injectable id and time sources.
type Builder struct {
	newID IDGenerator
	now   Clock
}

// New constructs a Builder with UUID ids and UTC wall-clock time.
func New(options ...Option) *Builder {
	b := &Builder{
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

var defaultBuilder = New()
