// Package definition reads and writes portable form definitions: a title,
// a description and the field drafts that build the form. Definitions are
// accepted as JSON or YAML and exported as YAML.
package definition

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Definition is the authoring shape of a form.
type Definition struct {
	ID          string  `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Field mirrors model.FieldDraft with options accepted either as a comma
// separated string or as a list.
type Field struct {
	Label       string          `json:"label" yaml:"label"`
	Type        model.FieldType `json:"type,omitempty" yaml:"type,omitempty"`
	Required    bool            `json:"required,omitempty" yaml:"required,omitempty"`
	Placeholder string          `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     OptionList      `json:"options,omitempty" yaml:"options,omitempty"`
}

// OptionList decodes from "a, b" or ["a", "b"].
type OptionList []string

// UnmarshalJSON accepts a string or an array of strings.
func (o *OptionList) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*o = builder.ParseOptions(raw)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("definition: options must be a string or a list of strings")
	}
	*o = list
	return nil
}

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (o *OptionList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*o = builder.ParseOptions(node.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("definition: line %d: %w", node.Line, err)
		}
		*o = list
		return nil
	default:
		return fmt.Errorf("definition: line %d: options must be a string or a list", node.Line)
	}
}

// Draft converts the field into the builder's draft shape.
func (f Field) Draft() model.FieldDraft {
	return model.FieldDraft{
		Label:       f.Label,
		Type:        f.Type,
		Required:    f.Required,
		Options:     strings.Join(f.choices(), ", "),
		Placeholder: f.Placeholder,
	}
}

// choices returns the trimmed, non-empty options in order.
func (f Field) choices() []string {
	out := make([]string, 0, len(f.Options))
	for _, option := range f.Options {
		if trimmed := strings.TrimSpace(option); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Parse decodes a JSON or YAML definition.
func Parse(data []byte, source string) (Definition, error) {
	var def Definition
	if len(strings.TrimSpace(string(data))) == 0 {
		return Definition{}, fmt.Errorf("definition: %s is empty", source)
	}

	jsonErr := json.Unmarshal(data, &def)
	if jsonErr == nil {
		return def, nil
	}

	def = Definition{}
	yamlErr := yaml.Unmarshal(data, &def)
	if yamlErr == nil {
		return def, nil
	}

	return Definition{}, fmt.Errorf("definition: parse %s: %w", source, errors.Join(jsonErr, yamlErr))
}

// Build runs every field through the builder, then saves the form. When
// existing is not nil its id and creation time are kept.
func Build(b *builder.Builder, def Definition, existing *model.Form) (model.Form, error) {
	if b == nil {
		b = builder.New()
	}
	fields := []model.Field{}
	for i, field := range def.Fields {
		next, err := b.AddOrUpdateField(field.Draft(), fields, builder.NoEdit)
		if err != nil {
			var vErr *model.ValidationError
			if errors.As(err, &vErr) {
				return model.Form{}, vErr.WithField(fmt.Sprintf("fields[%d]", i))
			}
			return model.Form{}, err
		}
		// The draft carries options as one comma separated string; keep the
		// list items intact even when they contain commas.
		if added := &next[len(next)-1]; added.Type.HasOptions() {
			added.Options = field.choices()
		}
		fields = next
	}
	return b.SaveForm(def.Title, def.Description, fields, existing)
}

// FromForm converts a stored form back into a definition.
func FromForm(form model.Form) Definition {
	def := Definition{
		ID:          form.ID,
		Title:       form.Title,
		Description: form.Description,
		Fields:      make([]Field, len(form.Fields)),
	}
	for i, field := range form.Fields {
		out := Field{
			Label:       field.Label,
			Type:        field.Type,
			Required:    field.Required,
			Placeholder: field.Placeholder,
		}
		if field.Type.HasOptions() {
			out.Options = append(OptionList{}, field.Options...)
		}
		def.Fields[i] = out
	}
	return def
}

// MarshalYAML renders def as a YAML document.
func MarshalYAML(def Definition) ([]byte, error) {
	data, err := yaml.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("definition: encode yaml: %w", err)
	}
	return data, nil
}
