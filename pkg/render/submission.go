package render

import (
	"fmt"
	"mime/multipart"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// HiddenField represents a hidden form input emitted alongside the visible
// fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// MergeHiddenFields returns a copy of base with the provided fields applied.
// Empty names are ignored; later fields win on name collisions.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	if len(base) == 0 && len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		out[field.Name] = field.Value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields sorts hidden fields by name for deterministic output.
// Empty names are dropped.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{
			Name:  strings.TrimSpace(name),
			Value: fields[name],
		})
	}
	return result
}

// ParseSubmission converts a browser form post into values for form. Only
// the form's own fields are read. Checkboxes are true when any of "on",
// "true", "1" or "yes" is posted and false when absent. File inputs keep
// their metadata only; content is never read.
func ParseSubmission(form model.Form, post url.Values, files map[string][]*multipart.FileHeader) model.Values {
	values := make(model.Values, len(form.Fields))
	for _, field := range form.Fields {
		switch field.Type {
		case model.FieldTypeCheckbox:
			values[field.Name] = model.BoolValue(isChecked(post.Get(field.Name)))
		case model.FieldTypeFile:
			headers := files[field.Name]
			if len(headers) == 0 || headers[0] == nil || headers[0].Filename == "" {
				values[field.Name] = model.StringValue("")
				continue
			}
			header := headers[0]
			values[field.Name] = model.FileValue(model.FileMeta{
				Name: header.Filename,
				Size: header.Size,
				Type: header.Header.Get("Content-Type"),
			})
		default:
			values[field.Name] = model.StringValue(post.Get(field.Name))
		}
	}
	return values
}

func isChecked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
