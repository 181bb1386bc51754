// Package markdown describes forms and entries as Markdown documents and
// styles them for the terminal with glamour.
package markdown

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/entries"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

// Name is the registry name of the renderer.
const Name = "markdown"

const timestampLayout = "2006-01-02 15:04:05"

// Renderer implements render.Renderer by emitting the Markdown source for a
// form. Values in RenderOptions are listed under the field table.
type Renderer struct{}

var _ render.Renderer = Renderer{}

func (Renderer) Name() string {
	return Name
}

func (Renderer) ContentType() string {
	return "text/markdown; charset=utf-8"
}

func (Renderer) Render(ctx context.Context, form model.Form, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(Form(form))
	if len(options.Values) > 0 {
		b.WriteString("\n## Values\n\n")
		writeTable(&b, []string{"Field", "Value"}, valueRows(form, options.Values))
	}
	return []byte(b.String()), nil
}

// Form describes form as a heading, its description and a field table.
func Form(form model.Form) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", inline(form.Title))
	if desc := strings.TrimSpace(form.Description); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n\n")
	}
	if len(form.Fields) == 0 {
		b.WriteString("_No fields._\n")
		return b.String()
	}

	rows := make([][]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		required := "No"
		if field.Required {
			required = "Yes"
		}
		rows = append(rows, []string{
			field.Label,
			"`" + field.Name + "`",
			string(field.Type),
			required,
			strings.Join(field.Options, ", "),
		})
	}
	writeTable(&b, []string{"Label", "Name", "Type", "Required", "Options"}, rows)
	return b.String()
}

// Entry describes one entry as a labelled table of its values.
func Entry(form model.Form, entry model.Entry) (string, error) {
	details, err := entries.Details(form, entry)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", inline(form.Title))
	fmt.Fprintf(&b, "Entry `%s` submitted %s\n\n", entry.ID, formatTime(entry.Timestamp))
	if len(details) == 0 {
		b.WriteString("_No values._\n")
		return b.String(), nil
	}

	rows := make([][]string, 0, len(details))
	for _, detail := range details {
		rows = append(rows, []string{detail.Label, detail.Value})
	}
	writeTable(&b, []string{"Field", "Value"}, rows)
	return b.String(), nil
}

// Entries lists a form's entries with their submission time and summary.
func Entries(form model.Form, list []model.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s entries\n\n", inline(form.Title))
	if len(list) == 0 {
		b.WriteString("_No entries yet._\n")
		return b.String()
	}

	rows := make([][]string, 0, len(list))
	for _, entry := range list {
		rows = append(rows, []string{
			"`" + entry.ID + "`",
			formatTime(entry.Timestamp),
			entries.Summary(form, entry),
		})
	}
	writeTable(&b, []string{"ID", "Submitted", "Summary"}, rows)
	return b.String()
}

func valueRows(form model.Form, values model.Values) [][]string {
	rows := make([][]string, 0, len(values))
	for _, field := range form.Fields {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		label := field.Label
		if label == "" {
			label = field.Name
		}
		rows = append(rows, []string{label, entries.FormatValue(value)})
	}
	return rows
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cell
			if !strings.HasPrefix(cell, "`") {
				cells[i] = inline(cell)
			}
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func inline(s string) string {
	return cellEscaper.Replace(strings.TrimSpace(s))
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return entries.NotAvailable
	}
	return ts.UTC().Format(timestampLayout)
}
