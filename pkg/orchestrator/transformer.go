package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Transformer mutates a copy of a form before it is rendered. Stored forms
// are never changed.
type Transformer interface {
	Transform(ctx context.Context, form *model.Form) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.Form) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.Form) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// Chain runs transformers in order, stopping at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, form *model.Form) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, form); err != nil {
				return err
			}
		}
		return nil
	})
}

// JSONPresetTransformer applies declarative presentation overrides loaded
// from JSON. Forms are matched by id; "*" applies to every form:
//
//	{
//	  "forms": {
//	    "*": {"fields": {"email": {"placeholder": "you@example.com"}}},
//	    "f1": {"title": "Contact us", "fields": {"name": {"label": "Your name"}}}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Forms map[string]jsonFormPatch `json:"forms"`
}

type jsonFormPatch struct {
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Fields      map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
}

const anyForm = "*"

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the wildcard patch, then the patch for form.ID. Field
// patches naming fields the form lacks are ignored for the wildcard and
// rejected for an id-specific patch.
func (t *JSONPresetTransformer) Transform(ctx context.Context, form *model.Form) error {
	if form == nil {
		return errors.New("json preset transformer: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if patch, ok := t.document.Forms[anyForm]; ok {
		applyFormPatch(form, patch, false)
	}
	if patch, ok := t.document.Forms[form.ID]; ok {
		if name, ok := applyFormPatch(form, patch, true); !ok {
			return fmt.Errorf("json preset transformer: field %q not found in form %s", name, form.ID)
		}
	}
	return nil
}

func applyFormPatch(form *model.Form, patch jsonFormPatch, strict bool) (string, bool) {
	if patch.Title != "" {
		form.Title = patch.Title
	}
	if patch.Description != "" {
		form.Description = patch.Description
	}
	for name, fieldPatch := range patch.Fields {
		field := findField(form.Fields, name)
		if field == nil {
			if strict {
				return name, false
			}
			continue
		}
		if fieldPatch.Label != "" {
			field.Label = fieldPatch.Label
		}
		if fieldPatch.Placeholder != "" {
			field.Placeholder = fieldPatch.Placeholder
		}
	}
	return "", true
}

func findField(fields []model.Field, name string) *model.Field {
	name = strings.TrimSpace(name)
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}
