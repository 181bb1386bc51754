package builder

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// NormalizeName converts a human label into a machine name: lowercase, only
// [a-z0-9] kept, whitespace runs collapsed into a single underscore, and no
// leading or trailing underscore.
func NormalizeName(label string) string {
	var out strings.Builder
	pendingSpace := false
	for _, r := range strings.ToLower(label) {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case isNameRune(r):
			if pendingSpace && out.Len() > 0 {
				out.WriteByte('_')
			}
			pendingSpace = false
			out.WriteRune(r)
		}
	}
	return out.String()
}

func isNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// GenerateFieldName derives a machine name from label that does not collide
// with any name in existing. Collisions get the first free numeric suffix
// (_1, _2, ...). A label that normalises to nothing yields "" unless "" is
// already taken, in which case the suffix rule still applies.
func GenerateFieldName(label string, existing map[string]struct{}) string {
	base := NormalizeName(label)
	if _, taken := existing[base]; !taken {
		return base
	}
	for n := 1; ; n++ {
		candidate := base + "_" + strconv.Itoa(n)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}

// FieldNames collects the names in fields, skipping the entry at skip. Pass
// NoEdit to include every field.
func FieldNames(fields []model.Field, skip int) map[string]struct{} {
	names := make(map[string]struct{}, len(fields))
	for i, field := range fields {
		if i == skip {
			continue
		}
		names[field.Name] = struct{}{}
	}
	return names
}
