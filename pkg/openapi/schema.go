// Package openapi describes forms as OpenAPI 3 documents using kin-openapi
// and checks submitted values against the generated schema.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ValuesSchemaName is the component name of the submission schema.
const ValuesSchemaName = "EntryValues"

// SchemaFor builds the JSON schema a submission for form must satisfy.
func SchemaFor(form model.Form) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = form.Title
	schema.Description = form.Description

	required := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		schema.WithProperty(field.Name, fieldSchema(field))
		if field.Required {
			required = append(required, field.Name)
		}
	}
	if len(required) > 0 {
		schema.WithRequired(required)
	}
	return schema
}

func fieldSchema(field model.Field) *openapi3.Schema {
	var s *openapi3.Schema
	switch field.Type {
	case model.FieldTypeCheckbox:
		s = openapi3.NewBoolSchema()
		if field.Required {
			s.WithEnum(true)
		}
	case model.FieldTypeRadio, model.FieldTypeSelect:
		s = openapi3.NewStringSchema()
		enum := make([]any, len(field.Options))
		for i, option := range field.Options {
			enum[i] = option
		}
		s.WithEnum(enum...)
	case model.FieldTypeFile:
		name := openapi3.NewStringSchema()
		if field.Required {
			name.WithMinLength(1)
		}
		s = openapi3.NewObjectSchema().
			WithProperty("name", name).
			WithProperty("size", openapi3.NewInt64Schema()).
			WithProperty("type", openapi3.NewStringSchema()).
			WithProperty("lastModified", openapi3.NewInt64Schema()).
			WithRequired([]string{"name"})
	default:
		s = openapi3.NewStringSchema()
		if field.Required {
			s.WithMinLength(1).WithPattern(`\S`)
		}
	}
	s.Title = field.Label
	if field.Placeholder != "" {
		s.Description = field.Placeholder
	}
	return s
}

// Document wraps the submission schema of form in an OpenAPI document
// describing its entry endpoint.
func Document(form model.Form) *openapi3.T {
	ref := openapi3.NewSchemaRef("#/components/schemas/"+ValuesSchemaName, SchemaFor(form))

	op := openapi3.NewOperation()
	op.OperationID = "submitEntry"
	op.Summary = "Submit an entry for " + form.Title
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(201, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Entry recorded")}),
		openapi3.WithStatus(422, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Validation failed")}),
	)

	title := form.Title
	if title == "" {
		title = form.ID
	}
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       title,
			Description: form.Description,
			Version:     "1.0.0",
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath("/forms/"+form.ID+"/entries", &openapi3.PathItem{Post: op}),
		),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{ValuesSchemaName: openapi3.NewSchemaRef("", SchemaFor(form))},
		},
	}
}

// ValidateDocument runs kin-openapi's document validation.
func ValidateDocument(ctx context.Context, doc *openapi3.T) error {
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("openapi: invalid document: %w", err)
	}
	return nil
}

// Check validates values structurally against the schema of form and
// returns the issues keyed by field name. Empty optional values are
// ignored, mirroring an untouched input.
func Check(form model.Form, values model.Values) map[string]string {
	err := SchemaFor(form).VisitJSON(document(form, values), openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	issues := map[string]string{}
	collect(err, issues)
	return issues
}

func collect(err error, issues map[string]string) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			collect(inner, issues)
		}
		return
	}

	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		issues[""] = err.Error()
		return
	}
	pointer := schemaErr.JSONPointer()
	key := ""
	if len(pointer) > 0 {
		key = pointer[0]
	}
	if _, exists := issues[key]; !exists {
		issues[key] = schemaErr.Reason
	}
}

// IssueFields returns the sorted keys of issues.
func IssueFields(issues map[string]string) []string {
	keys := make([]string, 0, len(issues))
	for key := range issues {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func document(form model.Form, values model.Values) map[string]any {
	out := make(map[string]any, len(values))
	for name, value := range values {
		field, known := form.FieldByName(name)
		if known && !field.Required && isEmpty(value) {
			continue
		}
		switch value.Kind() {
		case model.KindNone:
			continue
		case model.KindFile:
			meta, _ := value.AsFile()
			out[name] = map[string]any{
				"name":         meta.Name,
				"size":         float64(meta.Size),
				"type":         meta.Type,
				"lastModified": float64(meta.LastModified),
			}
		default:
			out[name] = value.Any()
		}
	}
	return out
}

func isEmpty(value model.Value) bool {
	if s, ok := value.AsString(); ok {
		return strings.TrimSpace(s) == ""
	}
	return value.IsZero()
}
