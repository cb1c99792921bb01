package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transitoria/internal/cli"
)

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			entries := s.store.AuditLog()
			if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			printOut(cmd, cli.RenderAudit(entries))
			return nil
		},
	}
	cmd.Flags().Int("limit", 0, "show at most this many entries")
	cmd.Flags().Bool("json", false, "print JSON instead of a table")
	return cmd
}

func completenessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completeness",
		Short: "Show the recurring costs the last analysis expected but did not find",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			printOut(cmd, cli.RenderCompleteness(s.store.CompletenessIssues()))
			return nil
		},
	}
}
