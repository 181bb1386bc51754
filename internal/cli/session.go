package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/renderers/markdown"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

const (
	actionAdd     = "Add field"
	actionEdit    = "Edit field"
	actionMove    = "Move field"
	actionRemove  = "Remove field"
	actionDetails = "Edit title and description"
	actionPreview = "Preview"
	actionSave    = "Save"
	actionCancel  = "Cancel"
)

var sessionActions = []string{
	actionAdd, actionEdit, actionMove, actionRemove,
	actionDetails, actionPreview, actionSave, actionCancel,
}

// session is one interactive authoring run over a working copy of a form.
// Nothing is stored until Save succeeds.
type session struct {
	app      *App
	builder  *builder.Builder
	prompts  tui.PromptDriver
	existing *model.Form

	title       string
	description string
	fields      []model.Field
	dirty       bool
}

func newSession(app *App, existing *model.Form) *session {
	s := &session{
		app:      app,
		builder:  app.orch.Builder(),
		prompts:  app.prompts,
		existing: existing,
	}
	if existing != nil {
		s.title = existing.Title
		s.description = existing.Description
		s.fields = model.CloneFields(existing.Fields)
	}
	return s
}

func (s *session) run(ctx context.Context) error {
	if s.existing == nil {
		if err := s.editDetails(ctx); err != nil {
			return err
		}
	}

	for {
		s.printFields()
		choice, err := s.prompts.Select(ctx, tui.SelectConfig{
			Message: "What next?",
			Options: sessionActions,
		})
		if err != nil {
			return err
		}

		var done bool
		switch sessionActions[choice] {
		case actionAdd:
			err = s.addField(ctx)
		case actionEdit:
			err = s.editField(ctx)
		case actionMove:
			err = s.moveField(ctx)
		case actionRemove:
			err = s.removeField(ctx)
		case actionDetails:
			err = s.editDetails(ctx)
		case actionPreview:
			err = s.preview()
		case actionSave:
			done, err = s.save(ctx)
		case actionCancel:
			done, err = s.cancel(ctx)
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (s *session) editDetails(ctx context.Context) error {
	title, err := s.prompts.Input(ctx, tui.InputConfig{
		Message: "Form title",
		Default: s.title,
		Validator: func(v string) error {
			if strings.TrimSpace(v) == "" {
				return model.ErrTitleRequired
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	description, err := s.prompts.Input(ctx, tui.InputConfig{
		Message: "Description",
		Default: s.description,
	})
	if err != nil {
		return err
	}
	s.title, s.description = title, description
	s.dirty = true
	return nil
}

func (s *session) addField(ctx context.Context) error {
	draft, err := s.promptDraft(ctx, model.FieldDraft{Type: model.FieldTypeText})
	if err != nil {
		return err
	}
	return s.apply(ctx, draft, builder.NoEdit)
}

func (s *session) editField(ctx context.Context) error {
	index, ok, err := s.pickField(ctx, "Field to edit")
	if err != nil || !ok {
		return err
	}
	draft, err := s.promptDraft(ctx, builder.DraftFromField(s.fields[index]))
	if err != nil {
		return err
	}
	return s.apply(ctx, draft, index)
}

func (s *session) moveField(ctx context.Context) error {
	index, ok, err := s.pickField(ctx, "Field to move")
	if err != nil || !ok {
		return err
	}
	choice, err := s.prompts.Select(ctx, tui.SelectConfig{
		Message: "Direction",
		Options: []string{"Up", "Down"},
	})
	if err != nil {
		return err
	}
	direction := builder.Up
	if choice == 1 {
		direction = builder.Down
	}
	s.fields = builder.MoveField(s.fields, index, direction)
	s.dirty = true
	return nil
}

func (s *session) removeField(ctx context.Context) error {
	index, ok, err := s.pickField(ctx, "Field to remove")
	if err != nil || !ok {
		return err
	}
	confirmed, err := s.prompts.Confirm(ctx, tui.ConfirmConfig{
		Message: fmt.Sprintf("Remove %q?", s.fields[index].Label),
	})
	if err != nil || !confirmed {
		return err
	}
	s.fields = builder.RemoveField(s.fields, index)
	s.dirty = true
	return nil
}

func (s *session) preview() error {
	form := model.Form{Title: s.title, Description: s.description, Fields: s.fields}
	return s.app.printMarkdown(markdown.Form(form))
}

func (s *session) save(ctx context.Context) (bool, error) {
	existingID := ""
	if s.existing != nil {
		existingID = s.existing.ID
	}
	form, err := s.app.orch.SaveForm(ctx, s.title, s.description, s.fields, existingID)
	if err != nil {
		return false, s.report(ctx, err)
	}
	fmt.Fprintf(s.app.out, "Saved form %s (%s)\n", form.ID, form.Title)
	return true, nil
}

func (s *session) cancel(ctx context.Context) (bool, error) {
	if !s.dirty {
		return true, nil
	}
	discard, err := s.prompts.Confirm(ctx, tui.ConfirmConfig{Message: "Discard unsaved changes?"})
	if err != nil {
		return false, err
	}
	if discard {
		fmt.Fprintln(s.app.out, "Cancelled.")
	}
	return discard, nil
}

// apply adds or replaces a field. Validation failures are shown and leave
// the working copy unchanged.
func (s *session) apply(ctx context.Context, draft model.FieldDraft, editIndex int) error {
	fields, err := s.builder.AddOrUpdateField(draft, s.fields, editIndex)
	if err != nil {
		return s.report(ctx, err)
	}
	s.fields = fields
	s.dirty = true
	return nil
}

// report shows validation errors to the user and returns any other error.
func (s *session) report(ctx context.Context, err error) error {
	var validErr *model.ValidationError
	if !errors.As(err, &validErr) {
		return err
	}
	return s.prompts.Info(ctx, "Error: "+validErr.Error())
}

func (s *session) promptDraft(ctx context.Context, base model.FieldDraft) (model.FieldDraft, error) {
	draft := base

	label, err := s.prompts.Input(ctx, tui.InputConfig{Message: "Label", Default: base.Label})
	if err != nil {
		return draft, err
	}
	draft.Label = label

	types := model.FieldTypes()
	names := make([]string, len(types))
	current := 0
	for i, t := range types {
		names[i] = string(t)
		if t == base.Type {
			current = i
		}
	}
	choice, err := s.prompts.Select(ctx, tui.SelectConfig{
		Message:      "Type",
		Options:      names,
		DefaultIndex: current,
	})
	if err != nil {
		return draft, err
	}
	draft.Type = types[choice]

	draft.Required, err = s.prompts.Confirm(ctx, tui.ConfirmConfig{Message: "Required?", Default: base.Required})
	if err != nil {
		return draft, err
	}

	draft.Options = ""
	if draft.Type.HasOptions() {
		draft.Options, err = s.prompts.Input(ctx, tui.InputConfig{
			Message: "Options",
			Default: base.Options,
			Help:    "Comma separated, for example: Small, Medium, Large",
		})
		if err != nil {
			return draft, err
		}
	}

	draft.Placeholder = ""
	if draft.Type == model.FieldTypeText || draft.Type == model.FieldTypeTextarea {
		draft.Placeholder, err = s.prompts.Input(ctx, tui.InputConfig{Message: "Placeholder", Default: base.Placeholder})
		if err != nil {
			return draft, err
		}
	}
	return draft, nil
}

// pickField asks for a field. ok is false when the form has no fields.
func (s *session) pickField(ctx context.Context, message string) (int, bool, error) {
	if len(s.fields) == 0 {
		return 0, false, s.prompts.Info(ctx, "No fields yet.")
	}
	options := make([]string, len(s.fields))
	for i, field := range s.fields {
		options[i] = fmt.Sprintf("%d. %s", i+1, field.Label)
	}
	index, err := s.prompts.Select(ctx, tui.SelectConfig{Message: message, Options: options})
	if err != nil {
		return 0, false, err
	}
	return index, true, nil
}

func (s *session) printFields() {
	out := s.app.out
	fmt.Fprintf(out, "\n%s\n", s.title)
	if len(s.fields) == 0 {
		fmt.Fprintln(out, "  (no fields)")
		return
	}
	for i, field := range s.fields {
		required := ""
		if field.Required {
			required = ", required"
		}
		fmt.Fprintf(out, "  %d. %s [%s] (%s%s)\n", i+1, field.Label, field.Name, field.Type, required)
		if len(field.Options) > 0 {
			fmt.Fprintf(out, "     options: %s\n", strings.Join(field.Options, ", "))
		}
	}
}
