package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/renderers/markdown"
)

func newFormCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Create, edit and inspect forms",
	}
	cmd.AddCommand(
		newFormCreateCommand(app),
		newFormEditCommand(app),
		newFormListCommand(app),
		newFormShowCommand(app),
		newFormCloneCommand(app),
		newFormDeleteCommand(app),
		newFormRenderCommand(app),
		newFormImportCommand(app),
	)
	return cmd
}

func newFormCreateCommand(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a form interactively or from a definition file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if file != "" {
				def, err := readDefinition(file)
				if err != nil {
					return err
				}
				form, err := app.orch.CreateForm(ctx, def)
				if err != nil {
					return err
				}
				fmt.Fprintf(app.out, "Created form %s (%s)\n", form.ID, form.Title)
				return nil
			}
			if !app.interactive() {
				return fmt.Errorf("interactive mode needs a terminal; pass --file")
			}
			return newSession(app, nil).run(ctx)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML definition file")
	return cmd
}

func newFormEditCommand(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "edit FORM_ID",
		Short: "Edit a form interactively or replace it from a definition file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if file != "" {
				def, err := readDefinition(file)
				if err != nil {
					return err
				}
				form, err := app.orch.UpdateForm(ctx, args[0], def)
				if err != nil {
					return err
				}
				fmt.Fprintf(app.out, "Updated form %s (%s)\n", form.ID, form.Title)
				return nil
			}
			form, err := app.orch.Repository().Form(ctx, args[0])
			if err != nil {
				return err
			}
			if !app.interactive() {
				return fmt.Errorf("interactive mode needs a terminal; pass --file")
			}
			return newSession(app, &form).run(ctx)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML definition file")
	return cmd
}

func newFormListCommand(app *App) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List forms with their field and entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summaries, err := app.orch.Repository().SearchForms(cmd.Context(), search)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Fprintln(app.out, "No forms found.")
				return nil
			}
			w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tFIELDS\tENTRIES\tCREATED")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
					s.Form.ID, s.Form.Title, s.FieldCount, s.EntryCount,
					s.Form.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive title filter")
	return cmd
}

func newFormShowCommand(app *App) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show FORM_ID",
		Short: "Print a form as YAML, JSON, an OpenAPI document or markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := app.orch.Repository().Form(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			switch format {
			case "yaml":
				data, err := definition.MarshalYAML(definition.FromForm(form))
				if err != nil {
					return err
				}
				_, err = app.out.Write(data)
				return err
			case "json":
				return writeJSON(app, form)
			case "openapi":
				doc := openapi.Document(form)
				if err := openapi.ValidateDocument(cmd.Context(), doc); err != nil {
					return err
				}
				return writeJSON(app, doc)
			case "markdown":
				return app.printMarkdown(markdown.Form(form))
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml, json, openapi or markdown")
	return cmd
}

func newFormCloneCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clone FORM_ID",
		Short: "Copy a form under a new id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clone, err := app.orch.CloneForm(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Created form %s (%s)\n", clone.ID, clone.Title)
			return nil
		},
	}
}

func newFormDeleteCommand(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete FORM_ID",
		Short: "Delete a form and all of its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			form, err := app.orch.Repository().Form(ctx, args[0])
			if err != nil {
				return err
			}
			ok, err := app.confirm(ctx, yes, fmt.Sprintf("Delete %q and all of its entries?", form.Title))
			if err != nil || !ok {
				return err
			}
			if err := app.orch.DeleteForm(ctx, form.ID); err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Deleted form %s\n", form.ID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newFormRenderCommand(app *App) *cobra.Command {
	var (
		rendererName string
		output       string
	)
	cmd := &cobra.Command{
		Use:   "render FORM_ID",
		Short: "Render a form with one of the registered renderers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _, err := app.orch.Render(cmd.Context(), orchestrator.Request{
				FormID:   args[0],
				Renderer: rendererName,
			})
			if err != nil {
				return err
			}
			if output == "" {
				_, err = app.out.Write(body)
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(app.out, "Form written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&rendererName, "renderer", "r", "", "renderer name: vanilla, markdown or tui")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func newFormImportCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import DIR",
		Short: "Create or update forms from every definition file under DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := definition.LoadFS(os.DirFS(args[0]))
			if err != nil {
				return err
			}
			for _, def := range defs {
				form, err := app.orch.ApplyDefinition(cmd.Context(), def)
				if err != nil {
					return fmt.Errorf("import %q: %w", def.Title, err)
				}
				fmt.Fprintf(app.out, "Imported form %s (%s)\n", form.ID, form.Title)
			}
			return nil
		},
	}
}

func readDefinition(path string) (definition.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return definition.Definition{}, fmt.Errorf("read definition: %w", err)
	}
	return definition.Parse(data, path)
}

func writeJSON(app *App, v any) error {
	enc := json.NewEncoder(app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
