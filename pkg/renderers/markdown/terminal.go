package markdown

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// TerminalOption configures a Terminal.
type TerminalOption func(*terminalConfig)

type terminalConfig struct {
	style    string
	wordWrap int
}

// WithStyle selects a glamour standard style ("dark", "light", "notty",
// "ascii"). The default detects the terminal background.
func WithStyle(style string) TerminalOption {
	return func(cfg *terminalConfig) {
		cfg.style = style
	}
}

// WithWordWrap sets the wrap width. Zero keeps glamour's default.
func WithWordWrap(width int) TerminalOption {
	return func(cfg *terminalConfig) {
		cfg.wordWrap = width
	}
}

// Terminal styles Markdown for display in a terminal.
type Terminal struct {
	renderer *glamour.TermRenderer
}

// NewTerminal builds a glamour backed Terminal.
func NewTerminal(options ...TerminalOption) (*Terminal, error) {
	var cfg terminalConfig
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	glamourOpts := []glamour.TermRendererOption{}
	if cfg.style == "" {
		glamourOpts = append(glamourOpts, glamour.WithAutoStyle())
	} else {
		glamourOpts = append(glamourOpts, glamour.WithStandardStyle(cfg.style))
	}
	if cfg.wordWrap > 0 {
		glamourOpts = append(glamourOpts, glamour.WithWordWrap(cfg.wordWrap))
	}

	r, err := glamour.NewTermRenderer(glamourOpts...)
	if err != nil {
		return nil, fmt.Errorf("markdown: create terminal renderer: %w", err)
	}
	return &Terminal{renderer: r}, nil
}

// Render styles markdown source.
func (t *Terminal) Render(source string) (string, error) {
	out, err := t.renderer.Render(source)
	if err != nil {
		return "", fmt.Errorf("markdown: render: %w", err)
	}
	return out, nil
}
