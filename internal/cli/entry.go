package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/renderers/markdown"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
)

func newEntryCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Submit and browse form entries",
	}
	cmd.AddCommand(
		newEntrySubmitCommand(app),
		newEntryListCommand(app),
		newEntryShowCommand(app),
		newEntryDeleteCommand(app),
	)
	return cmd
}

func newEntrySubmitCommand(app *App) *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:   "submit FORM_ID",
		Short: "Fill in a form interactively or submit values as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if raw != "" {
				var values model.Values
				if err := json.Unmarshal([]byte(raw), &values); err != nil {
					return fmt.Errorf("decode --values: %w", err)
				}
				entry, err := app.orch.Submit(ctx, args[0], values)
				if err != nil {
					printSubmissionError(app, err)
					return err
				}
				fmt.Fprintf(app.out, "Recorded entry %s\n", entry.ID)
				return nil
			}

			if !app.interactive() {
				return errors.New("interactive mode needs a terminal; pass --values")
			}
			form, err := app.orch.Repository().Form(ctx, args[0])
			if err != nil {
				return err
			}
			collector, err := tui.New(tui.WithPromptDriver(app.prompts), tui.WithOutput(app.out))
			if err != nil {
				return err
			}

			var values model.Values
			for {
				values, err = collector.Collect(ctx, form, values)
				if err != nil {
					return err
				}
				entry, err := app.orch.Submit(ctx, form.ID, values)
				if err == nil {
					fmt.Fprintf(app.out, "Recorded entry %s\n", entry.ID)
					return nil
				}
				if !errors.Is(err, orchestrator.ErrInvalidSubmission) {
					return err
				}
				printSubmissionError(app, err)
			}
		},
	}
	cmd.Flags().StringVar(&raw, "values", "", `JSON object of values, for example {"full_name": "Ada"}`)
	return cmd
}

func newEntryListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list FORM_ID",
		Short: "List the entries recorded for a form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			form, err := app.orch.Repository().Form(ctx, args[0])
			if err != nil {
				return err
			}
			list, err := app.orch.Repository().Entries(ctx, form.ID)
			if err != nil {
				return err
			}
			return app.printMarkdown(markdown.Entries(form, list))
		},
	}
}

func newEntryShowCommand(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show FORM_ID ENTRY_ID",
		Short: "Show one entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			form, err := app.orch.Repository().Form(ctx, args[0])
			if err != nil {
				return err
			}
			entry, err := app.orch.Repository().Entry(ctx, form.ID, args[1])
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(app, entry)
			}
			doc, err := markdown.Entry(form, entry)
			if err != nil {
				return err
			}
			return app.printMarkdown(doc)
		},
	}
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: markdown or json")
	return cmd
}

func newEntryDeleteCommand(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete FORM_ID ENTRY_ID",
		Short: "Delete one entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ok, err := app.confirm(ctx, yes, fmt.Sprintf("Delete entry %s?", args[1]))
			if err != nil || !ok {
				return err
			}
			if err := app.orch.DeleteEntry(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Deleted entry %s\n", args[1])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func printSubmissionError(app *App, err error) {
	var subErr *orchestrator.SubmissionError
	if !errors.As(err, &subErr) {
		return
	}
	names := make([]string, 0, len(subErr.Fields))
	for name := range subErr.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(app.errOut, "  %s: %s\n", name, subErr.Fields[name])
	}
	for _, message := range subErr.FormErrors {
		fmt.Fprintf(app.errOut, "  %s\n", message)
	}
}
