package builder

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

const cloneSuffix = " (Copy)"

// SaveForm validates the form-level inputs and returns the form to persist.
// When existing is non-nil its id and creation time are kept; otherwise a new
// id and timestamp are assigned.
func SaveForm(title, description string, fields []model.Field, existing *model.Form) (model.Form, error) {
	return defaultBuilder.SaveForm(title, description, fields, existing)
}

// SaveForm is the Builder-scoped variant of the package function.
func (b *Builder) SaveForm(title, description string, fields []model.Field, existing *model.Form) (model.Form, error) {
	if strings.TrimSpace(title) == "" {
		return model.Form{}, model.ErrTitleRequired
	}
	if len(fields) == 0 {
		return model.Form{}, model.ErrFieldsRequired
	}
	if err := CheckNames(fields); err != nil {
		return model.Form{}, err
	}

	form := model.Form{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Fields:      model.CloneFields(fields),
	}
	if existing != nil {
		form.ID = existing.ID
		form.CreatedAt = existing.CreatedAt
		return form, nil
	}

	form.ID = b.newID()
	form.CreatedAt = b.now()
	return form, nil
}

// CheckNames enforces the per-form uniqueness of machine names.
func CheckNames(fields []model.Field) error {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if _, dup := seen[field.Name]; dup {
			return model.ErrDuplicateName.WithField(field.Name)
		}
		seen[field.Name] = struct{}{}
	}
	return nil
}

// CloneForm copies form under a new id with a " (Copy)" title suffix and a
// fresh creation time. Field ids and names are preserved.
func CloneForm(form model.Form) model.Form {
	return defaultBuilder.CloneForm(form)
}

// CloneForm is the Builder-scoped variant of the package function.
func (b *Builder) CloneForm(form model.Form) model.Form {
	clone := form.Clone()
	clone.ID = b.newID()
	clone.Title = form.Title + cloneSuffix
	clone.CreatedAt = b.now()
	return clone
}
