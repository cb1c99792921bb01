package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/transitoria/internal/allocation"
	"github.com/Veraticus/transitoria/internal/cli"
	"github.com/Veraticus/transitoria/internal/config"
	"github.com/Veraticus/transitoria/internal/filter"
	"github.com/Veraticus/transitoria/internal/model"
	"github.com/Veraticus/transitoria/internal/storage"
	"github.com/Veraticus/transitoria/internal/store"
)

const defaultDatabasePath = "$HOME/.local/share/transitoria/transitoria.db"

// session bundles the opened database and the store loaded from it.
type session struct {
	db       *storage.SQLiteStorage
	store    *store.Store
	settings config.AppSettings
}

func (s *session) Close() {
	if err := s.db.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// initStorage opens the database, migrates it and loads the store.
func initStorage(ctx context.Context) (*session, error) {
	settings, err := config.LoadSettings(viper.GetViper())
	if err != nil {
		return nil, err
	}

	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = defaultDatabasePath
	}
	dbPath = config.ExpandPath(dbPath)

	db, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	st := store.New(
		store.WithPersister(db),
		store.WithLogger(slog.Default()),
		store.WithLanguage(string(settings.Language)),
	)
	if err := st.Load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &session{db: db, store: st, settings: settings}, nil
}

func renderOptions(s config.AppSettings) cli.RenderOptions {
	cli.ApplyTheme(s.Theme.Palette())
	return cli.RenderOptions{
		Language:     string(s.Language),
		InThousands:  s.CurrencyInThousands,
		ShowAnalysis: s.ShowAIAnalysis,
		ShowComments: s.ShowUserComments,
	}
}

// addFilterFlags registers the period-range and small-amount flags.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("range", "ALL", "period range: ALL, 3M, 6M, 9M, 1Y or CUSTOM")
	cmd.Flags().String("start", "", "custom range start (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "custom range end (YYYY-MM-DD)")
	cmd.Flags().String("ref", "", "reference date for relative ranges (default: today)")
	cmd.Flags().Bool("hide-small", false, "hide lines below the small-amount threshold")
	cmd.Flags().Int64("threshold", filter.DefaultThreshold, "small-amount threshold")
}

// filterCriteria reads the flags registered by addFilterFlags.
func filterCriteria(cmd *cobra.Command, settings config.AppSettings) (filter.Criteria, time.Time, error) {
	rangeFlag, _ := cmd.Flags().GetString("range")
	preset, err := filter.ParsePreset(rangeFlag)
	if err != nil {
		return filter.Criteria{}, time.Time{}, err
	}

	c := filter.Criteria{Preset: preset, HideSmall: settings.HideSmallAmounts}
	if cmd.Flags().Changed("hide-small") {
		c.HideSmall, _ = cmd.Flags().GetBool("hide-small")
	}
	threshold, _ := cmd.Flags().GetInt64("threshold")
	c.Threshold = decimal.NewFromInt(threshold)

	if c.Start, err = dateFlag(cmd, "start"); err != nil {
		return filter.Criteria{}, time.Time{}, err
	}
	if c.End, err = dateFlag(cmd, "end"); err != nil {
		return filter.Criteria{}, time.Time{}, err
	}
	if (!c.Start.IsZero() || !c.End.IsZero()) && !cmd.Flags().Changed("range") {
		c.Preset = filter.PresetCustom
	}

	ref, err := dateFlag(cmd, "ref")
	if err != nil {
		return filter.Criteria{}, time.Time{}, err
	}
	if ref.IsZero() {
		ref = time.Now()
	}
	return c, ref, nil
}

func dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(model.DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s must be YYYY-MM-DD: %w", name, err)
	}
	return t, nil
}

// aggregationOptions reads allocation.precision and allocation.policy.
func aggregationOptions(policy string) (allocation.Options, error) {
	opts := allocation.DefaultOptions()
	opts.Precision = viper.GetInt32("allocation.precision")
	if policy == "" {
		policy = viper.GetString("allocation.policy")
	}
	switch policy {
	case "fallback", "":
		opts.Policy = allocation.FallbackToBookedMonth
	case "exclude":
		opts.Policy = allocation.ExcludeFromAllocation
	default:
		return opts, fmt.Errorf("unknown allocation policy %q (fallback, exclude)", policy)
	}
	return opts, nil
}

func printOut(cmd *cobra.Command, s string) {
	fmt.Fprintln(cmd.OutOrStdout(), s)
}

func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return true
	}
	return info.Mode()&os.ModeCharDevice != 0
}
