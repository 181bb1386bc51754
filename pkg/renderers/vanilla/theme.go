package vanilla

import (
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// StylesheetAsset is the manifest asset key a theme uses to replace the
// inline stylesheet with a linked one.
const StylesheetAsset = "vanilla.stylesheet"

type cssVar struct {
	Name  string
	Value string
}

type themeView struct {
	Name       string
	Variant    string
	Vars       []cssVar
	Stylesheet string
}

type themeConfig struct {
	selector theme.ThemeSelector
	name     string
	variant  string
}

func (c themeConfig) resolve() (*themeView, error) {
	if c.selector == nil {
		return nil, nil
	}
	selection, err := c.selector.Select(c.name, c.variant)
	if err != nil {
		return nil, fmt.Errorf("select theme %q: %w", c.name, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, nil
	}

	manifest := selection.Manifest
	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}
	prefix := manifest.Assets.Prefix
	files := make(map[string]string, len(manifest.Assets.Files))
	for key, value := range manifest.Assets.Files {
		files[key] = value
	}

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
		for key, value := range variant.Assets.Files {
			files[key] = value
		}
	}

	view := &themeView{
		Name:    selection.Theme,
		Variant: selection.Variant,
		Vars:    cssVars(tokens),
	}
	if file := strings.TrimSpace(files[StylesheetAsset]); file != "" {
		view.Stylesheet = assetURL(prefix, file)
	}
	return view, nil
}

func cssVars(tokens map[string]string) []cssVar {
	if len(tokens) == 0 {
		return nil
	}
	vars := make([]cssVar, 0, len(tokens))
	for key, value := range tokens {
		name := cssVarName(key)
		if name == "" {
			continue
		}
		vars = append(vars, cssVar{Name: name, Value: value})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}

func assetURL(prefix, file string) string {
	if strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
		return file
	}
	if prefix == "" {
		return file
	}
	if strings.Contains(prefix, "://") {
		return strings.TrimRight(prefix, "/") + "/" + file
	}
	return path.Join(prefix, file)
}
