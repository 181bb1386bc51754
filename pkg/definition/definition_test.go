package definition_test

import (
	"errors"
	"fmt"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

const yamlDefinition = `
title: Job Application
description: Tell us about yourself
fields:
  - label: Full Name
    required: true
    placeholder: Jane Doe
  - label: Gender
    type: radio
    options: Male, Female, Other
  - label: Role
    type: select
    required: true
    options:
      - Engineer
      - Designer
  - label: Resume
    type: file
`

func TestParse_YAMLAcceptsBothOptionShapes(t *testing.T) {
	def, err := definition.Parse([]byte(yamlDefinition), "job.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(definition.OptionList{"Male", "Female", "Other"}, def.Fields[1].Options); diff != "" {
		t.Fatalf("string options mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(definition.OptionList{"Engineer", "Designer"}, def.Fields[2].Options); diff != "" {
		t.Fatalf("list options mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_JSON(t *testing.T) {
	raw := `{"title":"Feedback","fields":[{"label":"Rating","type":"select","options":"1, 2, 3"},{"label":"Tags","type":"radio","options":["a","b"]}]}`
	def, err := definition.Parse([]byte(raw), "feedback.json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if def.Title != "Feedback" || len(def.Fields[0].Options) != 3 || len(def.Fields[1].Options) != 2 {
		t.Fatalf("unexpected definition: %+v", def)
	}
}

func TestParse_Rejects(t *testing.T) {
	if _, err := definition.Parse([]byte("   "), "empty.yaml"); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := definition.Parse([]byte("title: [unterminated"), "bad.yaml"); err == nil {
		t.Fatalf("expected error for malformed input")
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC)
	n := 0
	b := builder.New(
		builder.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		builder.WithClock(func() time.Time { return now }),
	)
	def, err := definition.Parse([]byte(yamlDefinition), "job.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	form, err := definition.Build(b, def, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := model.Form{
		ID:          "id-5",
		Title:       "Job Application",
		Description: "Tell us about yourself",
		CreatedAt:   now,
		Fields: []model.Field{
			{ID: "id-1", Name: "full_name", Label: "Full Name", Type: model.FieldTypeText, Required: true, Placeholder: "Jane Doe", Options: []string{}},
			{ID: "id-2", Name: "gender", Label: "Gender", Type: model.FieldTypeRadio, Options: []string{"Male", "Female", "Other"}},
			{ID: "id-3", Name: "role", Label: "Role", Type: model.FieldTypeSelect, Required: true, Options: []string{"Engineer", "Designer"}},
			{ID: "id-4", Name: "resume", Label: "Resume", Type: model.FieldTypeFile, Options: []string{}},
		},
	}
	if diff := cmp.Diff(want, form); diff != "" {
		t.Fatalf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_ScopesFieldErrors(t *testing.T) {
	def := definition.Definition{
		Title:  "Broken",
		Fields: []definition.Field{{Label: "Ok"}, {Label: "Gender", Type: model.FieldTypeRadio}},
	}
	_, err := definition.Build(nil, def, nil)
	if !errors.Is(err, model.ErrOptionsRequired) {
		t.Fatalf("expected ErrOptionsRequired, got %v", err)
	}
	if want := "fields[1]: options required"; err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestFromForm_RoundTripsThroughYAML(t *testing.T) {
	source, err := definition.Build(nil, definition.Definition{
		Title: "Survey",
		Fields: []definition.Field{
			{Label: "Name", Required: true},
			{Label: "Colour", Type: model.FieldTypeSelect, Options: definition.OptionList{"Red", "Blue"}},
		},
	}, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	data, err := definition.MarshalYAML(definition.FromForm(source))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := definition.Parse(data, "export.yaml")
	if err != nil {
		t.Fatalf("parse export: %v\n%s", err, data)
	}
	rebuilt, err := definition.Build(nil, parsed, &source)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	if rebuilt.ID != source.ID {
		t.Fatalf("expected id %q to be kept, got %q", source.ID, rebuilt.ID)
	}
	for i := range source.Fields {
		got, want := rebuilt.Fields[i], source.Fields[i]
		if got.Name != want.Name || got.Type != want.Type || got.Required != want.Required {
			t.Fatalf("field %d mismatch: want %+v, got %+v", i, want, got)
		}
		if diff := cmp.Diff(want.Options, got.Options); diff != "" {
			t.Fatalf("field %d options mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestBuild_KeepsListOptionsWithCommas(t *testing.T) {
	def, err := definition.Parse([]byte(`
title: Order
fields:
  - label: Size
    type: select
    options: ["Small, cheap", "Large"]
`), "order.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	form, err := definition.Build(nil, def, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []string{"Small, cheap", "Large"}
	if diff := cmp.Diff(want, form.Fields[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	data, err := definition.MarshalYAML(definition.FromForm(form))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := definition.Parse(data, "export.yaml")
	if err != nil {
		t.Fatalf("parse export: %v\n%s", err, data)
	}
	if diff := cmp.Diff(definition.OptionList(want), again.Fields[0].Options); diff != "" {
		t.Fatalf("exported options mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_RequiresListOptions(t *testing.T) {
	_, err := definition.Build(nil, definition.Definition{
		Title: "Order",
		Fields: []definition.Field{
			{Label: "Size", Type: model.FieldTypeRadio, Options: definition.OptionList{" ", ""}},
		},
	}, nil)
	if !errors.Is(err, model.ErrOptionsRequired) {
		t.Fatalf("expected ErrOptionsRequired, got %v", err)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"b/feedback.json": {Data: []byte(`{"title":"Feedback","fields":[{"label":"Comment"}]}`)},
		"a/job.yaml":      {Data: []byte(yamlDefinition)},
		"README.md":       {Data: []byte("ignored")},
	}
	defs, err := definition.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	var titles []string
	for _, def := range defs {
		titles = append(titles, def.Title)
	}
	if diff := cmp.Diff([]string{"Job Application", "Feedback"}, titles); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}

	if defs, err := definition.LoadFS(nil); err != nil || defs != nil {
		t.Fatalf("expected nil result for nil fs, got %v %v", defs, err)
	}
}
