package tui

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	selects      []SelectConfig
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func sampleForm() model.Form {
	return model.Form{
		ID:    "f1",
		Title: "Signup",
		Fields: []model.Field{
			{ID: "a", Name: "name", Label: "Name", Type: model.FieldTypeText, Required: true},
			{ID: "b", Name: "bio", Label: "Bio", Type: model.FieldTypeTextarea},
			{ID: "c", Name: "size", Label: "Size", Type: model.FieldTypeRadio, Options: []string{"S", "M"}},
			{ID: "d", Name: "country", Label: "Country", Type: model.FieldTypeSelect, Required: true, Options: []string{"NZ", "ES"}},
			{ID: "e", Name: "agree", Label: "Agree", Type: model.FieldTypeCheckbox},
		},
	}
}

func TestRenderer_CollectsEveryType(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ann"},
		textAreas: []string{"hello"},
		selectIdx: []int{2, 1},
		confirm:   []bool{true},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	got, err := r.Collect(context.Background(), sampleForm(), nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := model.Values{
		"name":    model.StringValue("Ann"),
		"bio":     model.StringValue("hello"),
		"size":    model.StringValue("M"),
		"country": model.StringValue("ES"),
		"agree":   model.BoolValue(true),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{NoneOption, "S", "M"}, driver.selects[0].Options); diff != "" {
		t.Fatalf("optional select options mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"NZ", "ES"}, driver.selects[1].Options); diff != "" {
		t.Fatalf("required select options mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_NoneOptionRecordsEmpty(t *testing.T) {
	form := model.Form{Fields: []model.Field{
		{Name: "size", Label: "Size", Type: model.FieldTypeRadio, Options: []string{"S"}},
	}}
	driver := &stubDriver{selectIdx: []int{0}}
	r, _ := New(WithPromptDriver(driver))

	got, err := r.Collect(context.Background(), form, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if diff := cmp.Diff(model.Values{"size": model.StringValue("")}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_RepromptsOnValidationFailure(t *testing.T) {
	form := model.Form{Fields: []model.Field{
		{Name: "name", Label: "Name", Type: model.FieldTypeText, Required: true},
		{Name: "terms", Label: "Terms", Type: model.FieldTypeCheckbox, Required: true},
	}}
	driver := &stubDriver{
		inputs:  []string{"   ", "Ann"},
		confirm: []bool{false, true},
	}
	r, _ := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))

	got, err := r.Collect(context.Background(), form, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if diff := cmp.Diff(model.Values{"name": model.StringValue("Ann"), "terms": model.BoolValue(true)}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	want := []string{
		"! Name *: This field is required",
		"! Terms *: This field is required",
	}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_FileFieldRecordsMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 test"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	form := model.Form{Fields: []model.Field{
		{Name: "cv", Label: "CV", Type: model.FieldTypeFile, Required: true},
	}}
	driver := &stubDriver{inputs: []string{filepath.Join(dir, "missing.pdf"), path}}
	r, _ := New(WithPromptDriver(driver))

	got, err := r.Collect(context.Background(), form, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	meta, ok := got["cv"].AsFile()
	if !ok {
		t.Fatalf("expected file value, got %v", got["cv"])
	}
	if meta.Name != "cv.pdf" || meta.Size != int64(len("%PDF-1.4 test")) || meta.Type != "application/pdf" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if meta.LastModified == 0 {
		t.Fatalf("expected modification time")
	}
	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], "file unreadable") {
		t.Fatalf("expected unreadable file message, got %v", driver.infoMessages)
	}
}

func TestRenderer_OptionalFileMayBeSkipped(t *testing.T) {
	form := model.Form{Fields: []model.Field{
		{Name: "cv", Label: "CV", Type: model.FieldTypeFile},
	}}
	r, _ := New(WithPromptDriver(&stubDriver{inputs: []string{""}}))

	got, err := r.Collect(context.Background(), form, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if diff := cmp.Diff(model.Values{"cv": model.StringValue("")}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_RenderSerializesJSON(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ann"},
		textAreas: []string{""},
		selectIdx: []int{0, 0},
		confirm:   []bool{false},
	}
	r, _ := New(WithPromptDriver(driver))

	out, err := r.Render(context.Background(), sampleForm(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"name":    "Ann",
		"bio":     "",
		"size":    "",
		"country": "NZ",
		"agree":   false,
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if r.ContentType() != "application/json" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestRenderer_PrettyOutput(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ann"},
		textAreas: []string{""},
		selectIdx: []int{1, 0},
		confirm:   []bool{true},
	}
	r, _ := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))

	out, err := r.Render(context.Background(), sampleForm(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "Name: Ann\nBio: N/A\nSize: S\nCountry: NZ\nAgree: Yes\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_SubmitTransformer(t *testing.T) {
	form := model.Form{Fields: []model.Field{{Name: "name", Label: "Name", Type: model.FieldTypeText}}}
	r, _ := New(
		WithPromptDriver(&stubDriver{inputs: []string{"ann"}}),
		WithOutputFormat(OutputFormatFormURLEncoded),
		WithSubmitTransformer(func(values model.Values) (model.Values, error) {
			values["name"] = model.StringValue(strings.ToUpper(values["name"].Text()))
			return values, nil
		}),
	)

	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "name=ANN" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderer_UsesInitialValuesAsDefaults(t *testing.T) {
	form := model.Form{Fields: []model.Field{
		{Name: "size", Label: "Size", Type: model.FieldTypeSelect, Required: true, Options: []string{"S", "M", "L"}},
	}}
	driver := &stubDriver{selectIdx: []int{2}}
	r, _ := New(WithPromptDriver(driver))

	if _, err := r.Collect(context.Background(), form, model.Values{"size": model.StringValue("M")}); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if driver.selects[0].DefaultIndex != 1 {
		t.Fatalf("expected default index 1, got %d", driver.selects[0].DefaultIndex)
	}
}

func TestRenderer_PropagatesDriverErrors(t *testing.T) {
	r, _ := New(WithPromptDriver(&stubDriver{}))
	_, err := r.Collect(context.Background(), sampleForm(), nil)
	if err == nil {
		t.Fatalf("expected driver error")
	}
}

func TestRenderer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, _ := New(WithPromptDriver(&stubDriver{}))
	if _, err := r.Collect(ctx, sampleForm(), nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
