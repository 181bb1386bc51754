package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

// Request describes a render call.
type Request struct {
	// FormID selects a stored form. Ignored when Form is set.
	FormID string

	// Form renders an unsaved form, such as a preview while authoring.
	Form *model.Form

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// RenderOptions carries prefilled values and validation errors.
	RenderOptions render.RenderOptions
}

// Render produces the output of the selected renderer and its content type.
func (o *Orchestrator) Render(ctx context.Context, req Request) ([]byte, string, error) {
	if err := o.ready(ctx); err != nil {
		return nil, "", err
	}

	var form model.Form
	switch {
	case req.Form != nil:
		form = req.Form.Clone()
	case req.FormID != "":
		stored, err := o.repo.Form(ctx, req.FormID)
		if err != nil {
			return nil, "", err
		}
		form = stored
	default:
		return nil, "", errors.New("orchestrator: form or form id is required")
	}

	if err := o.applyTransformer(ctx, &form); err != nil {
		return nil, "", err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, "", err
	}

	output, err := renderer.Render(ctx, form, req.RenderOptions)
	if err != nil {
		return nil, "", fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, renderer.ContentType(), nil
}

// RenderInvalid re-renders form formID with the values and errors of a
// rejected submission.
func (o *Orchestrator) RenderInvalid(ctx context.Context, rendererName string, values model.Values, subErr *SubmissionError, options render.RenderOptions) ([]byte, string, error) {
	if subErr == nil {
		return nil, "", errors.New("orchestrator: submission error is required")
	}
	options.Values = values
	options.Errors = render.FieldErrors(subErr.Fields)
	options.FormErrors = render.MergeFormErrors(options.FormErrors, subErr.FormErrors...)
	return o.Render(ctx, Request{
		FormID:        subErr.FormID,
		Renderer:      rendererName,
		RenderOptions: options,
	})
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, form *model.Form) error {
	if o.transformer == nil || form == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, form); err != nil {
		return fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return nil
}
