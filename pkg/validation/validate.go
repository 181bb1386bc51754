// Package validation checks submitted values against a form definition before
// an entry is recorded.
package validation

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

const (
	// MessageRequired is reported for required text-like, checkbox and
	// choice fields that are missing or blank.
	MessageRequired = "This field is required"
	// MessageFileRequired is reported for required file fields without a
	// selected file.
	MessageFileRequired = "Please select a file"
)

// Errors maps field names to the first message raised for that field.
type Errors map[string]string

// Empty reports whether no field failed validation.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Err folds a non-empty mapping into a single *model.ValidationError scoped
// to the first failing field. It returns nil when e is empty.
func (e Errors) Err() error {
	if e.Empty() {
		return nil
	}
	fields := e.Fields()
	reason := e[fields[0]]
	if len(fields) > 1 {
		reason += " (and " + strings.Join(fields[1:], ", ") + ")"
	}
	return &model.ValidationError{Field: fields[0], Reason: reason}
}

// Validate checks every required field of form against values. Fields that
// are not required are never reported.
func Validate(form model.Form, values model.Values) Errors {
	errs := Errors{}
	for _, field := range form.Fields {
		value, present := values.Lookup(field.Name)
		if msg := ValidateField(field, value, present); msg != "" {
			errs[field.Name] = msg
		}
	}
	return errs
}

// ValidateField returns the message for a single field, or "" when the value
// is acceptable. present is false when the submission has no key for field.
func ValidateField(field model.Field, value model.Value, present bool) string {
	if !field.Required {
		return ""
	}
	switch field.Type {
	case model.FieldTypeCheckbox:
		if !present || !value.Truthy() {
			return MessageRequired
		}
	case model.FieldTypeFile:
		meta, ok := value.AsFile()
		if !present || !ok || meta.Name == "" {
			return MessageFileRequired
		}
	default:
		if !present || !value.Truthy() || strings.TrimSpace(value.Text()) == "" {
			return MessageRequired
		}
	}
	return ""
}
