// Package ui implements the interactive menu-driven front end on top of
// bubbletea. Every operation the CLI exposes as a subcommand can also be
// driven from here: pick an operation, pick the file(s), fill in parameters,
// review the assembled ffmpeg invocation, and watch it run.
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"clipsmith/internal/session"
)

// Entry selects where the session starts. A zero Entry opens the main menu;
// setting Source jumps straight to the action menu for that file.
type Entry struct {
	Source string
}

// Config carries the resolved environment into the UI.
type Config struct {
	Entry       Entry
	FFmpegPath  string
	FFprobePath string
	OutDir      string
	Verbose     bool
	Jobs        int
	Sessions    *session.Logger
}

// Run launches the interactive session and blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	m := NewModel(ctx, cfg)
	prog := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := prog.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.fatalErr != nil {
		return fm.fatalErr
	}
	return nil
}
