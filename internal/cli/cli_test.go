package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

const contactYAML = `title: Contact
description: Reach out
fields:
  - label: Full Name
    type: text
    required: true
  - label: Size
    type: select
    options: [S, M]
  - label: Agree
    type: checkbox
    required: true
`

// scriptedDriver answers prompts from a queue. Select answers are option
// labels.
type scriptedDriver struct {
	t       *testing.T
	answers []any
	infos   []string
}

var _ tui.PromptDriver = (*scriptedDriver)(nil)

func (d *scriptedDriver) next(kind string) any {
	d.t.Helper()
	if len(d.answers) == 0 {
		d.t.Fatalf("unexpected %s prompt", kind)
	}
	answer := d.answers[0]
	d.answers = d.answers[1:]
	return answer
}

func (d *scriptedDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	return d.next("input " + cfg.Message).(string), nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	return d.next("confirm " + cfg.Message).(bool), nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	label := d.next("select " + cfg.Message).(string)
	for i, option := range cfg.Options {
		if option == label {
			return i, nil
		}
	}
	d.t.Fatalf("option %q not offered by %q: %v", label, cfg.Message, cfg.Options)
	return 0, nil
}

func (d *scriptedDriver) TextArea(_ context.Context, cfg tui.TextAreaConfig) (string, error) {
	return d.next("textarea " + cfg.Message).(string), nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

type harness struct {
	t      *testing.T
	cfg    *config.Config
	driver *scriptedDriver
	tty    bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Storage = config.StorageConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "forms.db"),
	}
	cfg.Log.Level = "error"
	return &harness{t: t, cfg: cfg, driver: &scriptedDriver{t: t}}
}

func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	err := Run(context.Background(), args,
		WithConfig(h.cfg),
		WithIO(strings.NewReader(""), &stdout, &stderr),
		WithPromptDriver(h.driver),
		WithInteractive(func() bool { return h.tty }),
	)
	return stdout.String(), stderr.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	stdout, stderr, err := h.run(args...)
	require.NoError(h.t, err, stderr)
	return stdout
}

// createdID extracts the id from "Created form ID (Title)".
func createdID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 3, out)
	return fields[2]
}

func (h *harness) createContact() string {
	h.t.Helper()
	path := filepath.Join(h.t.TempDir(), "contact.yaml")
	require.NoError(h.t, os.WriteFile(path, []byte(contactYAML), 0o644))
	return createdID(h.t, h.mustRun("form", "create", "--file", path))
}

func TestForm_CreateListShow(t *testing.T) {
	h := newHarness(t)
	id := h.createContact()

	out := h.mustRun("form", "list")
	require.Contains(t, out, id)
	require.Contains(t, out, "Contact")

	out = h.mustRun("form", "list", "--search", "nothing")
	require.Contains(t, out, "No forms found.")

	out = h.mustRun("form", "show", id)
	require.Contains(t, out, "title: Contact")
	require.Contains(t, out, "label: Full Name")

	out = h.mustRun("form", "show", id, "--format", "json")
	require.Contains(t, out, `"name": "full_name"`)

	out = h.mustRun("form", "show", id, "--format", "openapi")
	require.Contains(t, out, `"openapi"`)

	out = h.mustRun("form", "show", id, "--format", "markdown")
	require.Contains(t, out, "# Contact")

	_, _, err := h.run("form", "show", id, "--format", "xml")
	require.ErrorContains(t, err, "unknown format")
}

func TestForm_CloneDeleteRender(t *testing.T) {
	h := newHarness(t)
	id := h.createContact()

	cloneID := createdID(t, h.mustRun("form", "clone", id))
	require.NotEqual(t, id, cloneID)
	require.Contains(t, h.mustRun("form", "list"), "Contact (Copy)")

	_, _, err := h.run("form", "delete", cloneID)
	require.ErrorContains(t, err, "--yes")

	h.mustRun("form", "delete", cloneID, "--yes")
	require.NotContains(t, h.mustRun("form", "list"), cloneID)

	output := filepath.Join(t.TempDir(), "contact.html")
	h.mustRun("form", "render", id, "--output", output)
	html, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Contains(t, string(html), `name="full_name"`)

	out := h.mustRun("form", "render", id, "--renderer", "markdown")
	require.Contains(t, out, "Full Name")

	_, _, err = h.run("form", "render", id, "--renderer", "pdf")
	require.Error(t, err)
}

func TestForm_Import(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(contactYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"),
		[]byte(`{"id": "survey", "title": "Survey", "fields": [{"label": "Rating", "type": "radio", "options": "1, 2, 3"}]}`), 0o644))

	out := h.mustRun("form", "import", dir)
	require.Contains(t, out, "(Contact)")
	require.Contains(t, out, "Imported form survey (Survey)")

	out = h.mustRun("form", "show", "survey", "--format", "json")
	require.Contains(t, out, `"name": "rating"`)
}

func TestForm_CreateInteractive(t *testing.T) {
	h := newHarness(t)
	h.tty = true
	h.driver.answers = []any{
		"Feedback", "",
		actionAdd, "Rating", "radio", true, "1, 2, 3",
		actionAdd, "", "text", false, "",
		actionAdd, "Comment", "textarea", false, "Anything else?",
		actionMove, "2. Comment", "Up",
		actionSave,
	}

	out := h.mustRun("form", "create")
	require.Contains(t, out, "Saved form")
	require.Contains(t, h.driver.infos, "Error: label required")
	require.Empty(t, h.driver.answers)

	id := strings.Fields(out[strings.Index(out, "Saved form"):])[2]
	show := h.mustRun("form", "show", id, "--format", "json")
	require.Less(t, strings.Index(show, `"comment"`), strings.Index(show, `"rating"`))
}

func TestForm_EditInteractive(t *testing.T) {
	h := newHarness(t)
	id := h.createContact()
	h.tty = true
	h.driver.answers = []any{
		actionRemove, "2. Size", true,
		actionEdit, "1. Full Name", "Name", "text", true, "Jane Doe",
		actionSave,
	}

	h.mustRun("form", "edit", id)
	show := h.mustRun("form", "show", id)
	require.NotContains(t, show, "Size")
	require.Contains(t, show, "label: Name")
	require.Contains(t, show, "placeholder: Jane Doe")
}

func TestForm_CancelDiscards(t *testing.T) {
	h := newHarness(t)
	h.tty = true
	h.driver.answers = []any{"Draft", "", actionCancel, true}

	out := h.mustRun("form", "create")
	require.Contains(t, out, "Cancelled.")
	require.Contains(t, h.mustRun("form", "list"), "No forms found.")
}

func TestEntry_SubmitListShowDelete(t *testing.T) {
	h := newHarness(t)
	id := h.createContact()

	_, stderr, err := h.run("entry", "submit", id, "--values", `{"size": "S"}`)
	require.Error(t, err)
	require.Contains(t, stderr, "full_name: This field is required")

	out := h.mustRun("entry", "submit", id, "--values", `{"full_name": "Ada", "size": "S", "agree": true}`)
	require.Contains(t, out, "Recorded entry")
	entryID := strings.Fields(out)[2]

	out = h.mustRun("entry", "list", id)
	require.Contains(t, out, "Ada")

	out = h.mustRun("entry", "show", id, entryID)
	require.Contains(t, out, "Full Name")
	require.Contains(t, out, "Ada")

	out = h.mustRun("entry", "show", id, entryID, "--format", "json")
	require.Contains(t, out, `"formId": "`+id+`"`)

	h.mustRun("entry", "delete", id, entryID, "--yes")
	_, _, err = h.run("entry", "show", id, entryID)
	require.Error(t, err)
}

func TestEntry_SubmitInteractiveReprompts(t *testing.T) {
	h := newHarness(t)
	id := h.createContact()
	h.tty = true
	h.driver.answers = []any{"Ada", "S", false, true}

	out, stderr, err := h.run("entry", "submit", id)
	require.NoError(t, err, stderr)
	require.Contains(t, out, "Recorded entry")
	require.Empty(t, h.driver.answers)

	var reprompted bool
	for _, msg := range h.driver.infos {
		if strings.Contains(msg, "This field is required") {
			reprompted = true
		}
	}
	require.True(t, reprompted, "infos: %v", h.driver.infos)
}

func TestRun_InvalidConfig(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("--storage", "mongo", "form", "list")
	require.Error(t, err)
}
