package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/transitoria/internal/cli"
	"github.com/Veraticus/transitoria/internal/importer"
	"github.com/Veraticus/transitoria/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file|gs://bucket/object>...",
		Short: "Import ledger lines from CSV, XLSX or OFX",
		Long: `Import general-ledger lines into the review store.

Sources can be local files or Google Cloud Storage objects (gs://bucket/object).
The format is chosen by file extension: .csv/.tsv/.txt, .xlsx or .ofx/.qfx.
A batch is rejected as a whole when a line is malformed or reuses an id.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("replace", false, "replace all transactions instead of appending")
	cmd.Flags().Bool("dry-run", false, "parse and show the lines without storing them")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	replace, _ := cmd.Flags().GetBool("replace")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	loader := importer.NewLoader(importer.FetchGCS)

	var bar *progressbar.ProgressBar
	if !noProgress && len(args) > 1 {
		bar = progressbar.NewOptions(len(args),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("Bestanden inlezen"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var all []model.Transaction
	for _, source := range args {
		txns, err := loader.Load(ctx, source)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", source, err)
		}
		slog.Debug("Parsed import source", "source", source, "count", len(txns))
		all = append(all, txns...)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	s, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if dryRun {
		printOut(cmd, cli.RenderTransactions(all, renderOptions(s.settings)))
		printOut(cmd, cli.FormatInfo(fmt.Sprintf("%d regels gelezen, niets opgeslagen", len(all))))
		return nil
	}

	if err := storeBatch(ctx, s, all, replace); err != nil {
		return err
	}
	printOut(cmd, cli.FormatSuccess(fmt.Sprintf("%d regels geïmporteerd", len(all))))
	return nil
}

func storeBatch(ctx context.Context, s *session, txns []model.Transaction, replace bool) error {
	if replace {
		return s.store.Replace(ctx, txns)
	}
	return s.store.Import(ctx, txns)
}
