package pongo_test

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formbuilder/pkg/render/template/pongo"
)

func newEngine(t *testing.T, opts ...pongo.Option) *pongo.Engine {
	t.Helper()
	files := fstest.MapFS{
		"hello.tpl":      {Data: []byte(`Hello {{ name|trim }}!`)},
		"use-global.tpl": {Data: []byte(`env={{ settings.env }}`)},
		"size.tpl":       {Data: []byte(`{{ size|kilobytes }}`)},
		"page.html":      {Data: []byte(`<p>{{ body }}</p>`)},
	}
	engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	var buf bytes.Buffer
	result, err := engine.RenderTemplate("hello", map[string]any{"name": "  Ada "}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hello Ada!" || buf.String() != result {
		t.Fatalf("unexpected output %q / %q", result, buf.String())
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t, pongo.WithGlobalData(map[string]any{"settings": map[string]any{"env": "dev"}}))
	if err := engine.GlobalContext(map[string]any{"settings": map[string]any{"env": "staging"}}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "env=staging" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEngine_KilobytesFilter(t *testing.T) {
	result, err := newEngine(t).RenderTemplate("size", map[string]any{"size": 1536})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "1.50 KB" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEngine_CustomExtension(t *testing.T) {
	engine := newEngine(t, pongo.WithExtension("html"))
	result, err := engine.RenderTemplate("page", map[string]any{"body": "<b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "<p>&lt;b&gt;</p>" {
		t.Fatalf("expected autoescaped output, got %q", result)
	}
}

func TestEngine_RenderString(t *testing.T) {
	result, err := newEngine(t).RenderString(`{% for n in items %}{{ n }};{% endfor %}`, map[string]any{"items": []string{"a", "b"}})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "a;b;" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEngine_Errors(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without template source")
	}
	_, err := newEngine(t).RenderTemplate("missing", nil)
	if err == nil || !strings.Contains(err.Error(), "missing.tpl") {
		t.Fatalf("expected missing template error, got %v", err)
	}
}
