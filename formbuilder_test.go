package formbuilder

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

func TestGenerateHTML(t *testing.T) {
	def := Definition{
		Title: "Feedback",
		Fields: []definition.Field{
			{Label: "Comment", Type: model.FieldTypeTextarea, Required: true},
		},
	}
	out, err := GenerateHTML(context.Background(), def, RenderOptions{
		Values: Values{"comment": model.StringValue("Great")},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<title>Feedback</title>") || !strings.Contains(html, ">Great</textarea>") {
		t.Fatalf("unexpected html:\n%s", html)
	}
}

func TestGenerateHTML_InvalidDefinition(t *testing.T) {
	if _, err := GenerateHTML(context.Background(), Definition{}, RenderOptions{}); err == nil {
		t.Fatalf("expected error for empty definition")
	}
}

func TestNewRegistry(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if diff := cmp.Diff([]string{"markdown", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbeddedBundles(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("expected form template: %v", err)
	}
	if _, err := fs.ReadFile(EmbeddedAssets(), "formbuilder-vanilla.css"); err != nil {
		t.Fatalf("expected stylesheet: %v", err)
	}
}
