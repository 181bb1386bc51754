// Package formbuilder is the top-level entry point: type aliases for the
// core model and helpers that assemble an orchestrator with the built-in
// renderers.
package formbuilder

import (
	"context"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/markdown"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
)

// Form is a titled, ordered collection of fields.
type Form = model.Form

// Field is one input definition inside a Form.
type Field = model.Field

// Entry is one recorded submission.
type Entry = model.Entry

// Values maps field names to submitted values.
type Values = model.Values

// Definition is the portable authoring shape of a form.
type Definition = definition.Definition

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewRegistry returns a registry holding the vanilla and markdown renderers.
// Vanilla options such as vanilla.WithTheme are applied to the HTML renderer.
func NewRegistry(options ...vanilla.Option) (*render.Registry, error) {
	html, err := vanilla.New(options...)
	if err != nil {
		return nil, fmt.Errorf("formbuilder: vanilla renderer: %w", err)
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(markdown.Renderer{}); err != nil {
		return nil, err
	}
	return registry, nil
}

// WithThemeSelector resolves the named go-theme theme and variant for HTML
// output.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) vanilla.Option {
	return vanilla.WithTheme(selector, name, variant)
}

// GenerateHTML builds a form from def without storing it and renders it with
// the vanilla renderer. It is the simplest entry point for callers that just
// want HTML output.
func GenerateHTML(ctx context.Context, def Definition, options RenderOptions, vanillaOptions ...vanilla.Option) ([]byte, error) {
	registry, err := NewRegistry(vanillaOptions...)
	if err != nil {
		return nil, err
	}
	orch := orchestrator.New(orchestrator.WithRegistry(registry))

	form, err := definition.Build(orch.Builder(), def, nil)
	if err != nil {
		return nil, err
	}
	out, _, err := orch.Render(ctx, orchestrator.Request{
		Form:          &form,
		Renderer:      vanilla.Name,
		RenderOptions: options,
	})
	return out, err
}
