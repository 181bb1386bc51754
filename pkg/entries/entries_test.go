package entries_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/entries"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

func testForm() model.Form {
	return model.Form{
		ID:    "form-1",
		Title: "Application",
		Fields: []model.Field{
			{ID: "1", Name: "full_name", Label: "Full Name", Type: model.FieldTypeText},
			{ID: "2", Name: "agree", Label: "Agree", Type: model.FieldTypeCheckbox},
			{ID: "3", Name: "resume", Label: "", Type: model.FieldTypeFile},
		},
	}
}

func TestBuildEntry_StampsAndCopies(t *testing.T) {
	ts := time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC)
	recorder := entries.NewRecorder(
		entries.WithIDGenerator(func() string { return "entry-1" }),
		entries.WithClock(func() time.Time { return ts }),
	)
	values := model.Values{"full_name": model.StringValue("Ada")}

	entry := recorder.BuildEntry("form-1", values)
	values["full_name"] = model.StringValue("changed")

	want := model.Entry{
		ID:        "entry-1",
		FormID:    "form-1",
		Values:    model.Values{"full_name": model.StringValue("Ada")},
		Timestamp: ts,
	}
	if diff := cmp.Diff(want, entry); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildEntry_FreshIDs(t *testing.T) {
	a := entries.BuildEntry("f", nil)
	b := entries.BuildEntry("f", nil)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if a.Values == nil {
		t.Fatalf("expected non-nil values")
	}
}

func TestInitialValues(t *testing.T) {
	want := model.Values{
		"full_name": model.StringValue(""),
		"agree":     model.BoolValue(false),
		"resume":    model.StringValue(""),
	}
	if diff := cmp.Diff(want, entries.InitialValues(testForm())); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		name  string
		value model.Value
		want  string
	}{
		{"true", model.BoolValue(true), "Yes"},
		{"false", model.BoolValue(false), "No"},
		{"file", model.FileValue(model.FileMeta{Name: "cv.pdf", Size: 2048, Type: "application/pdf"}), "cv.pdf (2.00 KB, application/pdf)"},
		{"text", model.StringValue("hello"), "hello"},
		{"empty", model.StringValue(""), "N/A"},
		{"absent", model.Value{}, "N/A"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := entries.FormatValue(tc.value); got != tc.want {
				t.Fatalf("FormatValue = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	form := testForm()
	if got := entries.Summary(form, model.Entry{Values: model.Values{"full_name": model.StringValue("Ada")}}); got != "Ada" {
		t.Fatalf("expected Ada, got %q", got)
	}
	if got := entries.Summary(form, model.Entry{Values: model.Values{}}); got != "N/A" {
		t.Fatalf("expected N/A, got %q", got)
	}

	fileFirst := form.Clone()
	fileFirst.Fields = []model.Field{form.Fields[2]}
	entry := model.Entry{Values: model.Values{"resume": model.FileValue(model.FileMeta{Name: "cv.pdf", Size: 10})}}
	if got := entries.Summary(fileFirst, entry); got != "cv.pdf" {
		t.Fatalf("expected file name, got %q", got)
	}
}

func TestDetails(t *testing.T) {
	entry := model.Entry{
		ID:     "e1",
		FormID: "form-1",
		Values: model.Values{
			"agree":     model.BoolValue(true),
			"full_name": model.StringValue("Ada"),
			"resume":    model.FileValue(model.FileMeta{Name: "cv.pdf", Size: 1536, Type: "application/pdf"}),
			"zeta":      model.StringValue("z"),
			"alpha":     model.StringValue(""),
		},
	}

	got, err := entries.Details(testForm(), entry)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	want := []entries.Detail{
		{Name: "full_name", Label: "Full Name", Value: "Ada"},
		{Name: "agree", Label: "Agree", Value: "Yes"},
		{Name: "resume", Label: "resume", Value: "cv.pdf (1.50 KB, application/pdf)"},
		{Name: "alpha", Label: "alpha", Value: "N/A"},
		{Name: "zeta", Label: "zeta", Value: "z"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("details mismatch (-want +got):\n%s", diff)
	}
}

func TestDetails_RejectsForeignEntry(t *testing.T) {
	_, err := entries.Details(testForm(), model.Entry{ID: "e", FormID: "other"})
	if !errors.Is(err, entries.ErrUnrenderable) {
		t.Fatalf("expected ErrUnrenderable, got %v", err)
	}
}
