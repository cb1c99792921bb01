package tui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the review screen and blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Store == nil {
		return fmt.Errorf("review requires a transaction store")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Restore the terminal even when the program is killed mid-frame.
	cleanupTerminal := func() {
		_, _ = os.Stdout.Write([]byte("\033[?1049l"))
		_, _ = os.Stdout.Write([]byte("\033[?25h"))
		_, _ = os.Stdout.Write([]byte("\033[m"))
	}
	defer cleanupTerminal()

	p := tea.NewProgram(
		New(ctx, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("review screen failed: %w", err)
	}
	if cfg.Engine != nil {
		cfg.Engine.Stop()
	}
	return nil
}
