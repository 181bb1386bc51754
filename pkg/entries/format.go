package entries

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// NotAvailable is shown in place of empty values.
const NotAvailable = "N/A"

// FormatValue renders a value for display: booleans as Yes/No, files as
// "name (x.xx KB, type)" and empty values as N/A.
func FormatValue(value model.Value) string {
	switch value.Kind() {
	case model.KindBool:
		if b, _ := value.AsBool(); b {
			return "Yes"
		}
		return "No"
	case model.KindFile:
		meta, _ := value.AsFile()
		return fmt.Sprintf("%s (%.2f KB, %s)", meta.Name, float64(meta.Size)/1024, meta.Type)
	case model.KindString:
		if s, _ := value.AsString(); s != "" {
			return s
		}
	}
	return NotAvailable
}

// Summary returns the one-line preview used in entry listings: the value of
// the form's first field, the file name for file values, or N/A.
func Summary(form model.Form, entry model.Entry) string {
	if len(form.Fields) == 0 {
		return NotAvailable
	}
	value, ok := entry.Values.Lookup(form.Fields[0].Name)
	if !ok {
		return NotAvailable
	}
	if meta, isFile := value.AsFile(); isFile {
		if meta.Name == "" {
			return NotAvailable
		}
		return meta.Name
	}
	return FormatValue(value)
}

// Detail is one labelled row of an entry.
type Detail struct {
	Name  string
	Label string
	Value string
}

// Details lists the entry's values labelled by the form's fields, in field
// order. Values whose name no longer matches a field follow in name order,
// labelled by their name.
func Details(form model.Form, entry model.Entry) ([]Detail, error) {
	if entry.FormID != form.ID {
		return nil, fmt.Errorf("%w: entry %s, form %s", ErrUnrenderable, entry.ID, form.ID)
	}

	details := make([]Detail, 0, len(entry.Values))
	seen := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		value, ok := entry.Values[field.Name]
		if !ok {
			continue
		}
		seen[field.Name] = struct{}{}
		details = append(details, Detail{Name: field.Name, Label: labelFor(field), Value: FormatValue(value)})
	}

	var extra []string
	for name := range entry.Values {
		if _, ok := seen[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		details = append(details, Detail{Name: name, Label: name, Value: FormatValue(entry.Values[name])})
	}
	return details, nil
}

func labelFor(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}
