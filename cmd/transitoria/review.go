package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transitoria/internal/tui"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review transactions interactively",
		Long: `Open the review screen. Keys: a approve, c correct, m comment,
r run AI analysis, f cycle the period range, s toggle small amounts,
v completeness issues, ? help, q quit.`,
		Args: cobra.NoArgs,
		RunE: runReview,
	}
	addFilterFlags(cmd)
	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	s, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	criteria, ref, err := filterCriteria(cmd, s.settings)
	if err != nil {
		return err
	}

	eng, cleanup, err := newEngine(ctx, s.store)
	if err != nil {
		return err
	}
	defer cleanup()

	return tui.Run(ctx, tui.Config{
		Store:    s.store,
		Engine:   eng,
		Logger:   slog.Default(),
		Ref:      ref,
		Settings: s.settings,
		Criteria: criteria,
	})
}
