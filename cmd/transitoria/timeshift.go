package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transitoria/internal/allocation"
	"github.com/Veraticus/transitoria/internal/cli"
	"github.com/Veraticus/transitoria/internal/filter"
)

func timeshiftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeshift",
		Short: "Compare booked and allocated amounts per month",
		Long: `Fold every transaction into a twelve-month series: what was booked in each
month against what belongs to it once allocated periods are spread out.

Quarter and year periods are split evenly; the last month absorbs the
rounding remainder so totals stay exact.`,
		Args: cobra.NoArgs,
		RunE: runTimeshift,
	}
	addFilterFlags(cmd)
	cmd.Flags().Int("year", 0, "reporting year (default: current year)")
	cmd.Flags().Int("from-month", 1, "first month of the twelve-month horizon")
	cmd.Flags().String("policy", "", "malformed period handling: fallback or exclude (default: allocation.policy)")
	return cmd
}

func runTimeshift(cmd *cobra.Command, _ []string) error {
	year, _ := cmd.Flags().GetInt("year")
	if year == 0 {
		year = time.Now().Year()
	}
	fromMonth, _ := cmd.Flags().GetInt("from-month")
	if fromMonth < 1 || fromMonth > 12 {
		return fmt.Errorf("--from-month must be between 1 and 12")
	}
	policy, _ := cmd.Flags().GetString("policy")
	opts, err := aggregationOptions(policy)
	if err != nil {
		return err
	}

	s, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	criteria, ref, err := filterCriteria(cmd, s.settings)
	if err != nil {
		return err
	}
	txns, err := filter.Apply(s.store.Transactions(), criteria, ref)
	if err != nil {
		return err
	}

	series, issues := allocation.Aggregate(txns, allocation.HorizonFrom(year, time.Month(fromMonth)), opts)
	printOut(cmd, cli.RenderSeries(series, renderOptions(s.settings)))

	for _, issue := range issues {
		slog.Warn("Period could not be allocated",
			"transaction", issue.TransactionID,
			"period", issue.Period,
			"error", issue.Err)
	}
	if len(issues) > 0 {
		printOut(cmd, cli.FormatWarning(fmt.Sprintf("%d transacties met ongeldige periode", len(issues))))
	}
	return nil
}
