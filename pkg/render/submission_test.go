package render_test

import (
	"mime/multipart"
	"net/textproto"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.Hidden("form_id", "f-1"),
		render.Hidden(" _format ", "html"),
		render.Hidden("version", 4),
		render.Hidden("  ", "skip"),
	)

	wantMerged := map[string]string{
		"existing": "keep",
		"form_id":  "f-1",
		"_format":  "html",
		"version":  "4",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "_format", Value: "html"},
		{Name: "existing", Value: "keep"},
		{Name: "form_id", Value: "f-1"},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSubmission(t *testing.T) {
	form := model.Form{Fields: []model.Field{
		{Name: "full_name", Type: model.FieldTypeText},
		{Name: "agree", Type: model.FieldTypeCheckbox},
		{Name: "newsletter", Type: model.FieldTypeCheckbox},
		{Name: "resume", Type: model.FieldTypeFile},
		{Name: "photo", Type: model.FieldTypeFile},
	}}
	post := url.Values{
		"full_name": {"Ada"},
		"agree":     {"on"},
		"extra":     {"ignored"},
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", "application/pdf")
	files := map[string][]*multipart.FileHeader{
		"resume": {{Filename: "cv.pdf", Size: 2048, Header: header}},
	}

	got := render.ParseSubmission(form, post, files)
	want := model.Values{
		"full_name":  model.StringValue("Ada"),
		"agree":      model.BoolValue(true),
		"newsletter": model.BoolValue(false),
		"resume":     model.FileValue(model.FileMeta{Name: "cv.pdf", Size: 2048, Type: "application/pdf"}),
		"photo":      model.StringValue(""),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}
