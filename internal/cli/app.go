// Package cli implements the formbuilder command line: form authoring,
// entry submission and the HTTP server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	theme "github.com/goliatone/go-theme"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/logging"
	"github.com/goliatone/go-formbuilder/internal/storage"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/markdown"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/repository"
	"github.com/goliatone/go-formbuilder/pkg/themes"
)

// App carries the dependencies shared by every command.
type App struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	prompts     tui.PromptDriver
	interactive func() bool
	preset      *config.Config

	cfg      *config.Config
	logger   logging.Logger
	zap      *logging.ZapLogger
	backend  *storage.Backend
	metrics  *prometheus.Registry
	orch     *orchestrator.Orchestrator
	terminal *markdown.Terminal
}

// Option configures an App.
type Option func(*App)

// WithIO replaces stdin, stdout and stderr.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(a *App) {
		if in != nil {
			a.in = in
		}
		if out != nil {
			a.out = out
		}
		if errOut != nil {
			a.errOut = errOut
		}
	}
}

// WithPromptDriver replaces the survey prompts.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(a *App) {
		if driver != nil {
			a.prompts = driver
		}
	}
}

// WithInteractive overrides terminal detection.
func WithInteractive(fn func() bool) Option {
	return func(a *App) {
		if fn != nil {
			a.interactive = fn
		}
	}
}

// WithConfig uses cfg instead of loading --config and the environment.
// Flag overrides still apply.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.preset = cfg
	}
}

func newApp(opts ...Option) *App {
	a := &App{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	a.interactive = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.prompts == nil {
		a.prompts = tui.NewSurveyDriver(a.out)
	}
	return a
}

// setup loads configuration and opens the store. It runs once per command.
func (a *App) setup(ctx context.Context, configPath string, overrides config.Overrides) error {
	cfg := a.preset
	if cfg == nil {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		copied := *cfg
		cfg = &copied
	}
	cfg.Apply(overrides)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	zl, err := logging.NewZapLogger(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Output:     a.errOut,
	})
	if err != nil {
		return fmt.Errorf("cli: logger: %w", err)
	}
	a.zap = zl
	a.logger = zl

	a.metrics = prometheus.NewRegistry()
	a.metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	backend, err := storage.Open(ctx, cfg.Storage, a.logger.With("component", "store"), a.metrics)
	if err != nil {
		return err
	}
	a.backend = backend

	registry, err := a.buildRegistry()
	if err != nil {
		return err
	}

	orchOpts := []orchestrator.Option{
		orchestrator.WithRepository(repository.New(backend.Store)),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(vanilla.Name),
		orchestrator.WithLogger(a.logger.With("component", "orchestrator")),
	}
	if cfg.Theme.Presets != "" {
		presets, err := orchestrator.NewJSONPresetTransformerFromFS(
			os.DirFS(filepath.Dir(cfg.Theme.Presets)), filepath.Base(cfg.Theme.Presets))
		if err != nil {
			return fmt.Errorf("cli: presets: %w", err)
		}
		orchOpts = append(orchOpts, orchestrator.WithTransformer(presets))
	}
	a.orch = orchestrator.New(orchOpts...)
	return nil
}

func (a *App) buildRegistry() (*render.Registry, error) {
	var htmlOpts []vanilla.Option
	if len(a.cfg.Theme.Manifests) > 0 {
		manifests := make([]*theme.Manifest, 0, len(a.cfg.Theme.Manifests))
		for _, path := range a.cfg.Theme.Manifests {
			manifest, err := themes.LoadManifest(path)
			if err != nil {
				return nil, err
			}
			manifests = append(manifests, manifest)
		}
		selector := themes.NewSelector(manifests...)
		htmlOpts = append(htmlOpts, vanilla.WithTheme(selector, a.cfg.Theme.Name, a.cfg.Theme.Variant))
	}
	html, err := vanilla.New(htmlOpts...)
	if err != nil {
		return nil, fmt.Errorf("cli: vanilla renderer: %w", err)
	}
	prompt, err := tui.New(
		tui.WithPromptDriver(a.prompts),
		tui.WithOutput(a.out),
		tui.WithOutputFormat(tui.OutputFormatJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("cli: tui renderer: %w", err)
	}

	registry := render.NewRegistry()
	for _, r := range []render.Renderer{html, markdown.Renderer{}, prompt} {
		if err := registry.Register(r); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// close releases the store and flushes the logger. It is safe to call
// when setup never ran.
func (a *App) close() error {
	var err error
	if a.backend != nil {
		err = a.backend.Close()
		a.backend = nil
	}
	if a.zap != nil {
		// Sync fails on non-file descriptors such as a terminal.
		_ = a.zap.Sync()
	}
	return err
}

// printMarkdown styles src for the terminal when attached to one and writes
// the raw markdown otherwise.
func (a *App) printMarkdown(src string) error {
	if a.interactive() {
		if a.terminal == nil {
			t, err := markdown.NewTerminal()
			if err != nil {
				return err
			}
			a.terminal = t
		}
		styled, err := a.terminal.Render(src)
		if err != nil {
			return err
		}
		_, err = io.WriteString(a.out, styled)
		return err
	}
	_, err := io.WriteString(a.out, src)
	return err
}

// confirm asks before a destructive action unless yes is set. Without a
// terminal the action is refused.
func (a *App) confirm(ctx context.Context, yes bool, message string) (bool, error) {
	if yes {
		return true, nil
	}
	if !a.interactive() {
		return false, errors.New("refusing to continue without a terminal; pass --yes")
	}
	return a.prompts.Confirm(ctx, tui.ConfirmConfig{Message: message})
}
