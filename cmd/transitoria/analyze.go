package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transitoria/internal/cli"
	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/engine"
)

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Let the AI model suggest periods, categories and risks",
		Long: `Send all transactions to the configured model and merge its suggestions.

Suggestions for unknown ids are ignored, invalid periods leave the current
period untouched and unknown categories become UNKNOWN. When the model is
unreachable or answers with something unparseable nothing changes.`,
		Args: cobra.NoArgs,
		RunE: runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	handler := cli.NewInterruptHandler(os.Stderr, "Analyse afgebroken, er is niets gewijzigd")
	ctx := handler.HandleInterrupts(cmd.Context())

	s, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if !s.settings.ShowAIAnalysis {
		return common.NewUserError("AI analysis is disabled (settings.show_ai_analysis)", common.ErrDisabled)
	}

	eng, cleanup, err := newEngine(ctx, s.store)
	if err != nil {
		return err
	}
	defer cleanup()

	printOut(cmd, cli.FormatInfo(fmt.Sprintf("%d transacties worden geanalyseerd...", len(s.store.Transactions()))))
	report := eng.Analyze(ctx)

	switch report.Status {
	case engine.RunApplied:
		printOut(cmd, cli.FormatSuccess(fmt.Sprintf("%d van %d transacties bijgewerkt", report.Updated, report.Transactions)))
		if report.Fallbacks > 0 {
			printOut(cmd, cli.FormatWarning(fmt.Sprintf("%d suggesties deels genegeerd (ongeldige periode of risico)", report.Fallbacks)))
		}
		if len(report.Unmatched) > 0 {
			printOut(cmd, cli.FormatWarning(fmt.Sprintf("Onbekende ids in antwoord: %v", report.Unmatched)))
		}
		if issues := s.store.CompletenessIssues(); len(issues) > 0 {
			printOut(cmd, cli.RenderCompleteness(issues))
		}
		return nil
	case engine.RunCanceled:
		if handler.WasInterrupted() {
			return nil
		}
		return fmt.Errorf("analysis canceled")
	default:
		return fmt.Errorf("analysis %s: %s", report.Status, report.Error)
	}
}
