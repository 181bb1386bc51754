// Package entries records submissions and prepares them for display.
package entries

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ErrUnrenderable is returned when an entry is displayed against a form it
// was not recorded for.
var ErrUnrenderable = errors.New("entries: entry does not belong to form")

// Option configures a Recorder.
type Option func(*Recorder)

// WithIDGenerator overrides the UUID generator used for entry ids.
func WithIDGenerator(gen func() string) Option {
	return func(r *Recorder) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// WithClock overrides the time source used for entry timestamps.
func WithClock(clock func() time.Time) Option {
	return func(r *Recorder) {
		if clock != nil {
			r.now = clock
		}
	}
}

// Recorder stamps submissions into entries.
type Recorder struct {
	newID func() string
	now   func() time.Time
}

// NewRecorder constructs a Recorder with UUID ids and UTC timestamps unless
// overridden.
func NewRecorder(options ...Option) *Recorder {
	r := &Recorder{
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

var defaultRecorder = NewRecorder()

// BuildEntry stamps values with a fresh id, formID and the current time. It
// performs no validation; callers run validation.Validate first.
func BuildEntry(formID string, values model.Values) model.Entry {
	return defaultRecorder.BuildEntry(formID, values)
}

// BuildEntry stamps values with a fresh id, formID and the current time.
func (r *Recorder) BuildEntry(formID string, values model.Values) model.Entry {
	if values == nil {
		values = model.Values{}
	}
	return model.Entry{
		ID:        r.newID(),
		FormID:    formID,
		Values:    values.Clone(),
		Timestamp: r.now(),
	}
}

// InitialValues returns the starting values for a fresh submission:
// checkboxes start unchecked, every other field starts empty.
func InitialValues(form model.Form) model.Values {
	values := make(model.Values, len(form.Fields))
	for _, field := range form.Fields {
		if field.Type == model.FieldTypeCheckbox {
			values[field.Name] = model.BoolValue(false)
			continue
		}
		values[field.Name] = model.StringValue("")
	}
	return values
}
