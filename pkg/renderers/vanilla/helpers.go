package vanilla

import (
	"strconv"
	"strings"
)

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "fb-" + trimmed
}

func optionID(name string, index int) string {
	id := controlID(name)
	if id == "" {
		return ""
	}
	return id + "-" + strconv.Itoa(index)
}

// cssVarName turns a theme token key into a custom property name.
func cssVarName(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, "--") {
		return token
	}
	replacer := strings.NewReplacer(".", "-", "_", "-", " ", "-")
	return "--" + replacer.Replace(strings.ToLower(token))
}
