// Package tui collects form submissions in a terminal. Each field type maps
// to a prompt, and answers are checked with the entry validator before the
// next field is asked.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/entries"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Name is the registry name of the renderer.
const Name = "tui"

// NoneOption is offered first for optional radio and select fields and
// records an empty answer.
const NoneOption = "(none)"

// Renderer implements render.Renderer for terminal-driven sessions.
type Renderer struct {
	driver            PromptDriver
	out               io.Writer
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every field and returns the collected values in the
// configured output format.
func (r *Renderer) Render(ctx context.Context, form model.Form, opts render.RenderOptions) ([]byte, error) {
	values, err := r.Collect(ctx, form, opts.Values)
	if err != nil {
		return nil, err
	}

	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(form, values)
}

// Collect prompts for every field in order and returns the answers. initial
// supplies defaults; missing names start from entries.InitialValues.
func (r *Renderer) Collect(ctx context.Context, form model.Form, initial model.Values) (model.Values, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	values := entries.InitialValues(form)
	for name, value := range initial {
		values[name] = value
	}

	if form.Title != "" {
		if err := r.info(ctx, form.Title); err != nil {
			return nil, err
		}
	}

	for _, field := range form.Fields {
		value, err := r.promptField(ctx, field, values[field.Name])
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, current model.Value) (model.Value, error) {
	for {
		var (
			value model.Value
			err   error
		)
		switch field.Type {
		case model.FieldTypeTextarea:
			value, err = r.promptTextArea(ctx, field, current)
		case model.FieldTypeRadio, model.FieldTypeSelect:
			value, err = r.promptChoice(ctx, field, current)
		case model.FieldTypeCheckbox:
			value, err = r.promptCheckbox(ctx, field, current)
		case model.FieldTypeFile:
			value, err = r.promptFile(ctx, field, current)
		default:
			value, err = r.promptText(ctx, field, current)
		}
		if err != nil {
			return model.Value{}, err
		}

		if msg := validation.ValidateField(field, value, true); msg != "" {
			if err := r.errorf(ctx, "%s: %s", displayLabel(field), msg); err != nil {
				return model.Value{}, err
			}
			current = value
			continue
		}
		return value, nil
	}
}

func (r *Renderer) promptText(ctx context.Context, field model.Field, current model.Value) (model.Value, error) {
	response, err := r.driver.Input(ctx, InputConfig{
		Message: displayLabel(field),
		Default: current.Text(),
		Help:    field.Placeholder,
	})
	if err != nil {
		return model.Value{}, err
	}
	return model.StringValue(response), nil
}

func (r *Renderer) promptTextArea(ctx context.Context, field model.Field, current model.Value) (model.Value, error) {
	response, err := r.driver.TextArea(ctx, TextAreaConfig{
		Message: displayLabel(field),
		Default: current.Text(),
		Help:    field.Placeholder,
	})
	if err != nil {
		return model.Value{}, err
	}
	return model.StringValue(response), nil
}

func (r *Renderer) promptChoice(ctx context.Context, field model.Field, current model.Value) (model.Value, error) {
	options := append([]string{}, field.Options...)
	if !field.Required {
		options = append([]string{NoneOption}, options...)
	}
	if len(options) == 0 {
		return model.Value{}, fmt.Errorf("tui: field %q has no options", field.Name)
	}

	defaultIndex := indexOf(options, current.Text())
	if defaultIndex < 0 {
		defaultIndex = 0
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      displayLabel(field),
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         field.Placeholder,
	})
	if err != nil {
		return model.Value{}, err
	}
	if idx < 0 || idx >= len(options) {
		return model.StringValue(""), nil
	}
	if !field.Required && idx == 0 {
		return model.StringValue(""), nil
	}
	return model.StringValue(options[idx]), nil
}

func (r *Renderer) promptCheckbox(ctx context.Context, field model.Field, current model.Value) (model.Value, error) {
	resp, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: displayLabel(field),
		Default: current.Truthy(),
		Help:    field.Placeholder,
	})
	if err != nil {
		return model.Value{}, err
	}
	return model.BoolValue(resp), nil
}

func (r *Renderer) promptFile(ctx context.Context, field model.Field, current model.Value) (model.Value, error) {
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: displayLabel(field) + " (file path)",
			Help:    "Only the file's name, size and type are recorded.",
		})
		if err != nil {
			return model.Value{}, err
		}

		path := strings.TrimSpace(response)
		if path == "" {
			if meta, ok := current.AsFile(); ok && meta.Name != "" {
				return current, nil
			}
			return model.StringValue(""), nil
		}

		meta, err := FileMetaFromPath(path)
		if err != nil {
			if infoErr := r.errorf(ctx, "%s: %v", displayLabel(field), err); infoErr != nil {
				return model.Value{}, infoErr
			}
			continue
		}
		return model.FileValue(meta), nil
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorf(ctx context.Context, format string, args ...any) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

func (r *Renderer) serialize(form model.Form, values model.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(form, values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(form, values)), nil
	default:
		return json.Marshal(values)
	}
}

func displayLabel(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if field.Required {
		label += " *"
	}
	return label
}

func flattenForm(form model.Form, values model.Values) string {
	out := url.Values{}
	for _, field := range form.Fields {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		out.Set(field.Name, value.Text())
	}
	return out.Encode()
}

func prettyPrint(form model.Form, values model.Values) string {
	var b strings.Builder
	for _, field := range form.Fields {
		label := field.Label
		if label == "" {
			label = field.Name
		}
		fmt.Fprintf(&b, "%s: %s\n", label, entries.FormatValue(values[field.Name]))
	}
	return b.String()
}
