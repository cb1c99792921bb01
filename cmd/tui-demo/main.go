// Package main runs the review screen on the demo ledger without a database
// or model API key. Analysis uses the keyword-based mock analyzer.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/config"
	"github.com/Veraticus/transitoria/internal/engine"
	"github.com/Veraticus/transitoria/internal/importer"
	"github.com/Veraticus/transitoria/internal/store"
	"github.com/Veraticus/transitoria/internal/tui"
)

func main() {
	ctx := context.Background()
	logger := common.DiscardLogger()

	st := store.New(store.WithLogger(logger))
	if err := st.Replace(ctx, importer.DemoTransactions()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading demo data: %v\n", err)
		os.Exit(1)
	}

	settings := config.DefaultSettings()
	if len(os.Args) > 1 {
		theme, err := config.ParseTheme(os.Args[1])
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		settings.Theme = theme
	}

	err := tui.Run(ctx, tui.Config{
		Store:    st,
		Engine:   engine.New(st, engine.NewMockAnalyzer(), engine.WithLogger(logger)),
		Logger:   logger,
		Ref:      time.Date(importer.DemoYear, time.December, 31, 0, 0, 0, 0, time.UTC),
		Settings: settings,
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
