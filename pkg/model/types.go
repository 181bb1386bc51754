package model

import (
	"strings"
	"time"
)

// FieldType enumerates the supported input kinds.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeSelect   FieldType = "select"
	FieldTypeFile     FieldType = "file"
)

// FieldTypes lists every supported type in display order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeRadio,
		FieldTypeCheckbox,
		FieldTypeSelect,
		FieldTypeFile,
	}
}

// ParseFieldType normalises raw input into a FieldType. The boolean is false
// for unknown values.
func ParseFieldType(raw string) (FieldType, bool) {
	candidate := FieldType(strings.ToLower(strings.TrimSpace(raw)))
	if candidate.Valid() {
		return candidate, true
	}
	return "", false
}

// Valid reports whether t is one of the supported types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeRadio, FieldTypeCheckbox, FieldTypeSelect, FieldTypeFile:
		return true
	default:
		return false
	}
}

// HasOptions reports whether the type is backed by a fixed option list.
func (t FieldType) HasOptions() bool {
	return t == FieldTypeRadio || t == FieldTypeSelect
}

// Field is one input definition inside a Form. Name is the machine name used
// as the key into Entry values and is unique within its form.
type Field struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Label       string    `json:"label" yaml:"label"`
	Type        FieldType `json:"type" yaml:"type"`
	Required    bool      `json:"required" yaml:"required"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string  `json:"options" yaml:"options"`
}

// Clone returns a copy that shares no slices with f.
func (f Field) Clone() Field {
	out := f
	out.Options = append([]string{}, f.Options...)
	return out
}

// Form is a titled, ordered collection of fields.
type Form struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description,omitempty"`
	Fields      []Field   `json:"fields" yaml:"fields"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// FieldByName looks up a field by machine name.
func (f Form) FieldByName(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Clone deep-copies the form including its fields.
func (f Form) Clone() Form {
	out := f
	out.Fields = CloneFields(f.Fields)
	return out
}

// CloneFields deep-copies a field list. A nil input yields an empty slice so
// serialised forms always carry a JSON array.
func CloneFields(fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, field := range fields {
		out[i] = field.Clone()
	}
	return out
}

// Entry is one submission recorded against a form.
type Entry struct {
	ID        string    `json:"id"`
	FormID    string    `json:"formId"`
	Values    Values    `json:"values"`
	Timestamp time.Time `json:"timestamp"`
}

// FieldDraft is the in-progress field being authored. Options holds the raw
// comma separated list exactly as typed.
type FieldDraft struct {
	Label       string    `json:"label" yaml:"label"`
	Type        FieldType `json:"type" yaml:"type"`
	Required    bool      `json:"required" yaml:"required"`
	Options     string    `json:"options,omitempty" yaml:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}
