package vanilla

import (
	"github.com/goliatone/go-formbuilder/pkg/entries"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

type optionView struct {
	ID       string
	Value    string
	Selected bool
}

type fieldView struct {
	ID          string
	Name        string
	Label       string
	Type        string
	Required    bool
	Placeholder string
	Value       string
	Checked     bool
	FileName    string
	Options     []optionView
	Errors      []string
}

func buildFieldViews(form model.Form, options render.RenderOptions) []fieldView {
	initial := entries.InitialValues(form)
	views := make([]fieldView, 0, len(form.Fields))
	for _, field := range form.Fields {
		value, ok := options.Values.Lookup(field.Name)
		if !ok {
			value = initial[field.Name]
		}
		views = append(views, newFieldView(field, value, options.Errors[field.Name]))
	}
	return views
}

func newFieldView(field model.Field, value model.Value, errs []string) fieldView {
	view := fieldView{
		ID:          controlID(field.Name),
		Name:        field.Name,
		Label:       field.Label,
		Type:        string(field.Type),
		Required:    field.Required,
		Placeholder: field.Placeholder,
		Errors:      errs,
	}

	switch field.Type {
	case model.FieldTypeCheckbox:
		view.Checked = value.Truthy()
	case model.FieldTypeFile:
		if meta, ok := value.AsFile(); ok {
			view.FileName = meta.Name
		}
	default:
		view.Value = value.Text()
	}

	if field.Type.HasOptions() {
		view.Options = make([]optionView, 0, len(field.Options))
		for i, option := range field.Options {
			view.Options = append(view.Options, optionView{
				ID:       optionID(field.Name, i),
				Value:    option,
				Selected: option == view.Value,
			})
		}
	}
	return view
}
