package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transitoria/internal/cli"
	"github.com/Veraticus/transitoria/internal/filter"
	"github.com/Veraticus/transitoria/internal/model"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the transactions under review",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	addFilterFlags(cmd)
	cmd.Flags().String("status", "", "only show PENDING, APPROVED or CORRECTED")
	cmd.Flags().Bool("json", false, "print JSON instead of a table")
	cmd.Flags().Bool("summary", true, "print the status counters")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
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

	if status, _ := cmd.Flags().GetString("status"); status != "" {
		want := model.Status(status)
		if !want.Valid() {
			return fmt.Errorf("unknown status %q", status)
		}
		kept := txns[:0]
		for _, t := range txns {
			if t.Status == want {
				kept = append(kept, t)
			}
		}
		txns = kept
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(txns)
	}

	printOut(cmd, cli.RenderTransactions(txns, renderOptions(s.settings)))
	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		printOut(cmd, cli.RenderSummary(s.store.Summary()))
	}
	return nil
}
