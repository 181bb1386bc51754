package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/internal/config"
)

// Run executes the command line in args and releases every resource the
// command opened, whether or not it failed.
func Run(ctx context.Context, args []string, opts ...Option) error {
	root, app := newRootCommand(opts...)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, app.close())
}

func newRootCommand(opts ...Option) (*cobra.Command, *App) {
	app := newApp(opts...)

	var (
		configPath string
		overrides  config.Overrides
	)

	root := &cobra.Command{
		Use:           "formbuilder",
		Short:         "Build forms, collect entries and serve them over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd.Context(), configPath, overrides)
		},
	}
	root.SetIn(app.in)
	root.SetOut(app.out)
	root.SetErr(app.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&overrides.Storage, "storage", "", "storage driver: memory, sqlite, postgres, redis or s3")
	flags.StringVar(&overrides.DSN, "dsn", "", "storage connection string or file path")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newFormCommand(app),
		newEntryCommand(app),
		newServeCommand(app, &overrides),
	)
	return root, app
}
