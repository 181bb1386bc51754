package model

// ValidationError is the single error kind produced by the builder and the
// entry validator. Reason is a short human readable message; Field names the
// offending field when the error is field scoped.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError constructs a form-level validation error.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// Is matches another ValidationError with the same reason, so field scoped
// copies still satisfy errors.Is against the sentinels below.
func (e *ValidationError) Is(target error) bool {
	other, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Reason == other.Reason
}

// WithField returns a copy of the error scoped to field.
func (e *ValidationError) WithField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: e.Reason}
}

var (
	ErrLabelRequired    = NewValidationError("label required")
	ErrOptionsRequired  = NewValidationError("options required")
	ErrTitleRequired    = NewValidationError("title required")
	ErrFieldsRequired   = NewValidationError("at least one field required")
	ErrUnknownFieldType = NewValidationError("unknown field type")
	ErrDuplicateName    = NewValidationError("duplicate field name")
)
