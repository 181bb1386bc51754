// Package themes loads go-theme manifests from disk and serves them through a
// theme.ThemeSelector for the HTML renderer.
package themes

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// ErrThemeNotFound is returned by Select for unknown theme names.
var ErrThemeNotFound = errors.New("themes: theme not found")

// ErrVariantNotFound is returned by Select for unknown variants.
var ErrVariantNotFound = errors.New("themes: variant not found")

// ParseManifest decodes a YAML or JSON manifest.
func ParseManifest(data []byte) (*theme.Manifest, error) {
	var manifest theme.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("themes: parse manifest: %w", err)
	}
	if strings.TrimSpace(manifest.Name) == "" {
		return nil, errors.New("themes: manifest name is required")
	}
	return &manifest, nil
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(path string) (*theme.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("themes: read %s: %w", path, err)
	}
	return ParseManifest(data)
}

// Selector is a theme.ThemeSelector over manifests held in memory. An empty
// name selects the default theme; an empty variant selects the default
// variant, or none.
type Selector struct {
	mu             sync.RWMutex
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector registers manifests; the first becomes the default theme.
func NewSelector(manifests ...*theme.Manifest) *Selector {
	s := &Selector{manifests: make(map[string]*theme.Manifest)}
	for _, manifest := range manifests {
		s.Register(manifest)
	}
	return s
}

// Register adds or replaces a manifest by name.
func (s *Selector) Register(manifest *theme.Manifest) {
	if manifest == nil || manifest.Name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.defaultTheme == "" {
		s.defaultTheme = manifest.Name
	}
	s.manifests[manifest.Name] = manifest
}

// SetDefaults overrides the theme and variant used for empty selections.
func (s *Selector) SetDefaults(name, variant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name != "" {
		s.defaultTheme = name
	}
	s.defaultVariant = variant
}

// Names lists the registered themes.
func (s *Selector) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves name and variant to a selection.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if variant == "" {
		variant = s.defaultVariant
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q in theme %q", ErrVariantNotFound, variant, name)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
