package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// ErrInvalidSubmission is matched by every SubmissionError.
var ErrInvalidSubmission = errors.New("orchestrator: invalid submission")

// SubmissionError reports why a submission was rejected. Fields maps field
// names to one message each; FormErrors holds problems not tied to a field.
type SubmissionError struct {
	FormID     string
	Fields     map[string]string
	FormErrors []string
}

func (e *SubmissionError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := append(names, e.FormErrors...)
	return fmt.Sprintf("%s: %s", ErrInvalidSubmission.Error(), strings.Join(parts, ", "))
}

func (e *SubmissionError) Unwrap() error {
	return ErrInvalidSubmission
}

// Submit validates values against form formID and records them as a new
// entry. A rejected submission returns a *SubmissionError and stores
// nothing.
func (o *Orchestrator) Submit(ctx context.Context, formID string, values model.Values) (model.Entry, error) {
	if err := o.ready(ctx); err != nil {
		return model.Entry{}, err
	}
	form, err := o.repo.Form(ctx, formID)
	if err != nil {
		return model.Entry{}, err
	}

	if subErr := o.check(form, values); subErr != nil {
		o.logger.Debug(ctx, "submission rejected", "form_id", formID, "fields", len(subErr.Fields))
		return model.Entry{}, subErr
	}

	entry := o.recorder.BuildEntry(form.ID, values)
	if err := o.repo.AddEntry(ctx, entry); err != nil {
		return model.Entry{}, fmt.Errorf("orchestrator: store entry: %w", err)
	}
	o.logger.Info(ctx, "entry recorded", "form_id", form.ID, "entry_id", entry.ID)
	return entry, nil
}

// Check runs the submission checks without recording anything.
func (o *Orchestrator) Check(ctx context.Context, formID string, values model.Values) error {
	if err := o.ready(ctx); err != nil {
		return err
	}
	form, err := o.repo.Form(ctx, formID)
	if err != nil {
		return err
	}
	if subErr := o.check(form, values); subErr != nil {
		return subErr
	}
	return nil
}

func (o *Orchestrator) check(form model.Form, values model.Values) *SubmissionError {
	fields := map[string]string{}
	var formErrors []string

	if o.schemaCheck {
		issues := openapi.Check(form, values)
		for _, name := range openapi.IssueFields(issues) {
			if _, known := form.FieldByName(name); !known {
				formErrors = append(formErrors, issues[name])
				continue
			}
			fields[name] = issues[name]
		}
	}

	for name, message := range validation.Validate(form, values) {
		fields[name] = message
	}

	if len(fields) == 0 && len(formErrors) == 0 {
		return nil
	}
	return &SubmissionError{FormID: form.ID, Fields: fields, FormErrors: formErrors}
}
