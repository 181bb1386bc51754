package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/entries"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/repository"
	"github.com/goliatone/go-formbuilder/pkg/store/memory"
)

const defaultRendererName = vanilla.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRepository injects the repository holding forms and entries.
func WithRepository(repo *repository.Repository) Option {
	return func(o *Orchestrator) {
		o.repo = repo
	}
}

// WithBuilder injects the builder used for ids and timestamps on forms.
func WithBuilder(b *builder.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = b
	}
}

// WithRecorder injects the recorder that stamps entries.
func WithRecorder(r *entries.Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer applied to a copy of the form
// right before rendering.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithSchemaCheck enables a structural check of submissions against the
// form's OpenAPI schema on top of the required-value rules. The check is
// stricter than those rules: it rejects off-list choices and mistyped values
// even on optional fields. It is off by default.
func WithSchemaCheck(enabled bool) Option {
	return func(o *Orchestrator) {
		o.schemaCheck = enabled
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger logging.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates forms, entries and renderers. It applies sensible
// defaults (in-memory store, vanilla renderer) while remaining open to
// dependency injection.
type Orchestrator struct {
	repo            *repository.Repository
	builder         *builder.Builder
	recorder        *entries.Recorder
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	schemaCheck     bool
	logger          logging.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.builder == nil {
		o.builder = builder.New()
	}
	if o.repo == nil {
		o.repo = repository.New(memory.New(), repository.WithBuilder(o.builder))
	}
	if o.recorder == nil {
		o.recorder = entries.NewRecorder()
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}

// Repository exposes the underlying repository for read paths.
func (o *Orchestrator) Repository() *repository.Repository {
	return o.repo
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Builder exposes the builder used for field and form edits.
func (o *Orchestrator) Builder() *builder.Builder {
	return o.builder
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.initialiseErr
}

// CreateForm builds a new form from def and stores it. def.ID is ignored.
func (o *Orchestrator) CreateForm(ctx context.Context, def definition.Definition) (model.Form, error) {
	if err := o.ready(ctx); err != nil {
		return model.Form{}, err
	}
	form, err := definition.Build(o.builder, def, nil)
	if err != nil {
		return model.Form{}, err
	}
	if err := o.repo.PutForm(ctx, form); err != nil {
		return model.Form{}, fmt.Errorf("orchestrator: store form: %w", err)
	}
	o.logger.Info(ctx, "form created", "form_id", form.ID, "fields", len(form.Fields))
	return form, nil
}

// UpdateForm replaces the title, description and fields of form id with
// those of def, keeping its id and creation time.
func (o *Orchestrator) UpdateForm(ctx context.Context, id string, def definition.Definition) (model.Form, error) {
	if err := o.ready(ctx); err != nil {
		return model.Form{}, err
	}
	existing, err := o.repo.Form(ctx, id)
	if err != nil {
		return model.Form{}, err
	}
	form, err := definition.Build(o.builder, def, &existing)
	if err != nil {
		return model.Form{}, err
	}
	if err := o.repo.PutForm(ctx, form); err != nil {
		return model.Form{}, fmt.Errorf("orchestrator: store form: %w", err)
	}
	o.logger.Info(ctx, "form updated", "form_id", form.ID, "fields", len(form.Fields))
	return form, nil
}

// ApplyDefinition creates or updates the form named by def.ID. A definition
// without an id, or whose id is unknown, creates a form; an unknown id is
// kept as the new form's id.
func (o *Orchestrator) ApplyDefinition(ctx context.Context, def definition.Definition) (model.Form, error) {
	if err := o.ready(ctx); err != nil {
		return model.Form{}, err
	}
	if def.ID == "" {
		return o.CreateForm(ctx, def)
	}

	_, err := o.repo.Form(ctx, def.ID)
	switch {
	case err == nil:
		return o.UpdateForm(ctx, def.ID, def)
	case !errors.Is(err, repository.ErrFormNotFound):
		return model.Form{}, err
	}

	form, err := definition.Build(o.builder, def, nil)
	if err != nil {
		return model.Form{}, err
	}
	form.ID = def.ID
	if err := o.repo.PutForm(ctx, form); err != nil {
		return model.Form{}, fmt.Errorf("orchestrator: store form: %w", err)
	}
	o.logger.Info(ctx, "form imported", "form_id", form.ID, "fields", len(form.Fields))
	return form, nil
}

// SaveForm validates and stores a form assembled field by field. existingID
// selects the form being edited; empty creates a new one.
func (o *Orchestrator) SaveForm(ctx context.Context, title, description string, fields []model.Field, existingID string) (model.Form, error) {
	if err := o.ready(ctx); err != nil {
		return model.Form{}, err
	}

	var existing *model.Form
	if existingID != "" {
		form, err := o.repo.Form(ctx, existingID)
		if err != nil {
			return model.Form{}, err
		}
		existing = &form
	}

	form, err := o.builder.SaveForm(title, description, fields, existing)
	if err != nil {
		return model.Form{}, err
	}
	if err := o.repo.PutForm(ctx, form); err != nil {
		return model.Form{}, fmt.Errorf("orchestrator: store form: %w", err)
	}
	o.logger.Info(ctx, "form saved", "form_id", form.ID, "fields", len(form.Fields))
	return form, nil
}

// CloneForm copies form id under a new id.
func (o *Orchestrator) CloneForm(ctx context.Context, id string) (model.Form, error) {
	if err := o.ready(ctx); err != nil {
		return model.Form{}, err
	}
	clone, err := o.repo.CloneForm(ctx, id)
	if err != nil {
		return model.Form{}, err
	}
	o.logger.Info(ctx, "form cloned", "form_id", id, "clone_id", clone.ID)
	return clone, nil
}

// DeleteForm removes form id and its entries.
func (o *Orchestrator) DeleteForm(ctx context.Context, id string) error {
	if err := o.ready(ctx); err != nil {
		return err
	}
	if err := o.repo.DeleteForm(ctx, id); err != nil {
		return err
	}
	o.logger.Info(ctx, "form deleted", "form_id", id)
	return nil
}

// DeleteEntry removes one entry.
func (o *Orchestrator) DeleteEntry(ctx context.Context, formID, entryID string) error {
	if err := o.ready(ctx); err != nil {
		return err
	}
	if err := o.repo.DeleteEntry(ctx, formID, entryID); err != nil {
		return err
	}
	o.logger.Info(ctx, "entry deleted", "form_id", formID, "entry_id", entryID)
	return nil
}
