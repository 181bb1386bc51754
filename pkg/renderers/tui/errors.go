package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrFileUnreadable is returned by FileMetaFromPath when the path cannot
	// be inspected or is a directory.
	ErrFileUnreadable = errors.New("tui: file unreadable")
)
