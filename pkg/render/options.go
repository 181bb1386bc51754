package render

import "github.com/goliatone/go-formbuilder/pkg/model"

// RenderOptions carries per-request data renderers use to customise their
// output without changing the form itself.
type RenderOptions struct {
	// Action is the submission target. HTML renderers default to
	// /forms/{id}/entries.
	Action string
	// Values pre-populates controls, keyed by field name. Missing names fall
	// back to the initial value for the field type.
	Values model.Values
	// Errors surfaces validation feedback keyed by field name.
	Errors map[string][]string
	// FormErrors are messages not tied to a single field.
	FormErrors []string
	// Hidden adds hidden inputs to HTML output.
	Hidden map[string]string
}

// FieldErrors lifts a single-message mapping (as produced by the entry
// validator) into the multi-message shape used by RenderOptions.
func FieldErrors(errs map[string]string) map[string][]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string][]string, len(errs))
	for name, message := range errs {
		out[name] = []string{message}
	}
	return out
}
