package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transitoria/internal/cli"
	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/importer"
)

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Replace the transactions with the built-in demo ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if !s.settings.ShowDemo {
				return common.NewUserError("demo data is disabled (settings.show_demo)", common.ErrDisabled)
			}

			txns := importer.DemoTransactions()
			if err := s.store.Replace(cmd.Context(), txns); err != nil {
				return err
			}
			printOut(cmd, cli.FormatSuccess(fmt.Sprintf("Demo geladen: %d regels uit %d", len(txns), importer.DemoYear)))
			return nil
		},
	}
}
