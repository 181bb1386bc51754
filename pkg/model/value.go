package model

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// ValueKind tags the variant stored in a Value.
type ValueKind uint8

const (
	KindNone ValueKind = iota
	KindString
	KindBool
	KindFile
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindFile:
		return "file"
	default:
		return "none"
	}
}

// FileMeta is the metadata retained for file inputs.
type FileMeta struct {
	Name         string `json:"name" mapstructure:"name"`
	Size         int64  `json:"size" mapstructure:"size"`
	Type         string `json:"type" mapstructure:"type"`
	LastModified int64  `json:"lastModified" mapstructure:"lastModified"`
}

// Value is a submitted field value: a string for text, textarea, radio and
// select fields, a bool for checkboxes, or FileMeta for file inputs. The zero
// Value is the absent value.
type Value struct {
	kind ValueKind
	str  string
	b    bool
	file FileMeta
}

// StringValue wraps a text value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// BoolValue wraps a checkbox value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// FileValue wraps file metadata.
func FileValue(meta FileMeta) Value { return Value{kind: KindFile, file: meta} }

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsZero reports whether v is the absent value.
func (v Value) IsZero() bool { return v.kind == KindNone }

// AsString returns the string variant.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsBool returns the bool variant.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsFile returns the file variant.
func (v Value) AsFile() (FileMeta, bool) { return v.file, v.kind == KindFile }

// Text renders v as plain text: strings verbatim, booleans as true/false and
// files by name.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindFile:
		return v.file.Name
	default:
		return ""
	}
}

// Truthy mirrors the loose truthiness used for checkbox checks: absent,
// false and empty strings are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindBool:
		return v.b
	case KindFile:
		return true
	default:
		return false
	}
}

// Any returns the underlying Go value (string, bool, FileMeta or nil).
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindFile:
		return v.file
	default:
		return nil
	}
}

func (v Value) String() string {
	return v.Text()
}

// Equal reports whether both values hold the same variant and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}

// MarshalJSON encodes strings and booleans as JSON scalars and files as
// objects.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON accepts any JSON scalar or a file metadata object.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out, err := ValueFromAny(raw)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML exports.
func (v Value) MarshalYAML() (any, error) {
	return v.Any(), nil
}

// ValueFromAny converts decoded JSON (or Go) input into a Value. Numbers are
// kept as their textual form; maps are decoded as file metadata.
func ValueFromAny(raw any) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return typed, nil
	case string:
		return StringValue(typed), nil
	case bool:
		return BoolValue(typed), nil
	case float64:
		return StringValue(strconv.FormatFloat(typed, 'f', -1, 64)), nil
	case int:
		return StringValue(strconv.Itoa(typed)), nil
	case int64:
		return StringValue(strconv.FormatInt(typed, 10)), nil
	case json.Number:
		return StringValue(typed.String()), nil
	case FileMeta:
		return FileValue(typed), nil
	case *FileMeta:
		if typed == nil {
			return Value{}, nil
		}
		return FileValue(*typed), nil
	case map[string]any:
		meta, err := decodeFileMeta(typed)
		if err != nil {
			return Value{}, err
		}
		return FileValue(meta), nil
	default:
		return Value{}, fmt.Errorf("model: unsupported value type %T", raw)
	}
}

func decodeFileMeta(raw map[string]any) (FileMeta, error) {
	var meta FileMeta
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &meta,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return FileMeta{}, fmt.Errorf("model: file metadata decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return FileMeta{}, fmt.Errorf("model: decode file metadata: %w", err)
	}
	return meta, nil
}

// Values maps machine names to submitted values.
type Values map[string]Value

// Clone returns a shallow copy; Value itself is immutable.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for name, value := range v {
		out[name] = value
	}
	return out
}

// Lookup returns the value for name and whether it was present and non-absent.
func (v Values) Lookup(name string) (Value, bool) {
	value, ok := v[name]
	if !ok || value.IsZero() {
		return Value{}, false
	}
	return value, true
}
