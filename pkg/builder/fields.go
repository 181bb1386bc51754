package builder

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// NoEdit is passed as the edit index to append a new field.
const NoEdit = -1

// ErrIndexOutOfRange reports an edit index that does not address a field.
var ErrIndexOutOfRange = errors.New("builder: field index out of range")

// Direction selects the neighbour MoveField swaps with.
type Direction int

const (
	Up Direction = iota
	Down
)

// ParseDirection accepts "up" or "down".
func ParseDirection(raw string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "up":
		return Up, true
	case "down":
		return Down, true
	default:
		return 0, false
	}
}

// ParseOptions splits a comma separated option list, trimming each token and
// dropping empty ones.
func ParseOptions(raw string) []string {
	options := []string{}
	for _, token := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(token); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	return options
}

// DraftFromField turns a stored field back into an editable draft.
func DraftFromField(field model.Field) model.FieldDraft {
	return model.FieldDraft{
		Label:       field.Label,
		Type:        field.Type,
		Required:    field.Required,
		Options:     strings.Join(field.Options, ", "),
		Placeholder: field.Placeholder,
	}
}

// AddOrUpdateField validates draft and either appends it to fields (editIndex
// == NoEdit) or replaces the field at editIndex. The input slice is never
// modified.
func AddOrUpdateField(draft model.FieldDraft, fields []model.Field, editIndex int) ([]model.Field, error) {
	return defaultBuilder.AddOrUpdateField(draft, fields, editIndex)
}

// AddOrUpdateField is the Builder-scoped variant of the package function.
func (b *Builder) AddOrUpdateField(draft model.FieldDraft, fields []model.Field, editIndex int) ([]model.Field, error) {
	if editIndex != NoEdit && (editIndex < 0 || editIndex >= len(fields)) {
		return nil, ErrIndexOutOfRange
	}

	field, err := b.fieldFromDraft(draft)
	if err != nil {
		return nil, err
	}

	field.Name = GenerateFieldName(field.Label, FieldNames(fields, editIndex))

	updated := model.CloneFields(fields)
	if editIndex == NoEdit {
		field.ID = b.newID()
		return append(updated, field), nil
	}

	field.ID = fields[editIndex].ID
	if field.ID == "" {
		field.ID = b.newID()
	}
	updated[editIndex] = field
	return updated, nil
}

func (b *Builder) fieldFromDraft(draft model.FieldDraft) (model.Field, error) {
	label := strings.TrimSpace(draft.Label)
	if label == "" {
		return model.Field{}, model.ErrLabelRequired
	}

	fieldType := draft.Type
	if fieldType == "" {
		fieldType = model.FieldTypeText
	}
	if !fieldType.Valid() {
		return model.Field{}, model.ErrUnknownFieldType
	}

	options := []string{}
	if fieldType.HasOptions() {
		if strings.TrimSpace(draft.Options) == "" {
			return model.Field{}, model.ErrOptionsRequired
		}
		options = ParseOptions(draft.Options)
		if len(options) == 0 {
			return model.Field{}, model.ErrOptionsRequired
		}
	}

	return model.Field{
		Label:       label,
		Type:        fieldType,
		Required:    draft.Required,
		Placeholder: strings.TrimSpace(draft.Placeholder),
		Options:     options,
	}, nil
}

// MoveField swaps the field at index with its neighbour in direction. Moves
// past either end, or from an index outside the list, return an unchanged
// copy.
func MoveField(fields []model.Field, index int, direction Direction) []model.Field {
	updated := model.CloneFields(fields)
	if index < 0 || index >= len(updated) {
		return updated
	}

	target := index - 1
	if direction == Down {
		target = index + 1
	}
	if target < 0 || target >= len(updated) {
		return updated
	}

	updated[index], updated[target] = updated[target], updated[index]
	return updated
}

// RemoveField drops the field at index. Confirming the removal is left to the
// caller. An out of range index returns an unchanged copy.
func RemoveField(fields []model.Field, index int) []model.Field {
	updated := model.CloneFields(fields)
	if index < 0 || index >= len(updated) {
		return updated
	}
	return append(updated[:index], updated[index+1:]...)
}
