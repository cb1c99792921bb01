package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transitoria/internal/cli"
	"github.com/Veraticus/transitoria/internal/model"
)

func approveCmd() *cobra.Command {
	return decisionCmd("approve <id>...", "Approve the allocated period of transactions", model.ActionApprove)
}

func correctCmd() *cobra.Command {
	return decisionCmd("correct <id>...", "Flag transactions for correction", model.ActionCorrect)
}

func decisionCmd(use, short string, action model.AuditAction) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			user, _ := cmd.Flags().GetString("user")
			if user == "" {
				user = s.settings.Reviewer
			}

			decide := s.store.Approve
			if action == model.ActionCorrect {
				decide = s.store.Correct
			}
			for _, id := range args {
				entry, err := decide(cmd.Context(), id, user)
				if err != nil {
					return fmt.Errorf("%s %s: %w", strings.ToLower(string(action)), id, err)
				}
				printOut(cmd, cli.FormatSuccess(fmt.Sprintf("%s: %s (%s)", id, entry.Details, entry.User)))
			}
			return nil
		},
	}
	cmd.Flags().String("user", "", "reviewer recorded in the audit log (default: settings.reviewer)")
	return cmd
}

func commentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <text>...",
		Short: "Set the controller comment of a transaction",
		Long:  "Set the controller comment of a transaction. An empty text clears it.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			text := strings.Join(args[1:], " ")
			if err := s.store.SetComment(cmd.Context(), args[0], text); err != nil {
				return err
			}
			printOut(cmd, cli.FormatSuccess("Opmerking opgeslagen bij "+args[0]))
			return nil
		},
	}
}
