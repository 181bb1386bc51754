package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

type echoRenderer struct{ name string }

func (e echoRenderer) Name() string        { return e.name }
func (e echoRenderer) ContentType() string { return "text/plain" }
func (e echoRenderer) Render(_ context.Context, form model.Form, _ render.RenderOptions) ([]byte, error) {
	return []byte(e.name + ":" + form.Title), nil
}

func TestRegistry(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(echoRenderer{name: "b"})
	if err := reg.Register(echoRenderer{name: "a"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(echoRenderer{name: "a"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}

	if diff := cmp.Diff([]string{"a", "b"}, reg.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	out, contentType, err := reg.Render(context.Background(), "a", model.Form{Title: "Survey"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "a:Survey" || contentType != "text/plain" {
		t.Fatalf("unexpected output %q %q", out, contentType)
	}

	if _, _, err := reg.Render(context.Background(), "missing", model.Form{}, render.RenderOptions{}); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
	if !reg.Has("b") || reg.Has("c") {
		t.Fatalf("unexpected Has results")
	}
}
