package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transitoria/internal/cli"
	"github.com/Veraticus/transitoria/internal/importer"
)

func pasteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Import lines typed or pasted on stdin",
		Long: `Read ledger lines from stdin, one per line:

  2024-01-01  Factuur 2024001  Huur Q1  15000

Fields are separated by tabs, semicolons or two or more spaces. The first
field is the date, the last the amount.`,
		Args: cobra.NoArgs,
		RunE: runPaste,
	}
	cmd.Flags().Bool("replace", false, "replace all transactions instead of appending")
	cmd.Flags().StringP("file", "f", "", "read from a file instead of stdin")
	return cmd
}

func runPaste(cmd *cobra.Command, _ []string) error {
	replace, _ := cmd.Flags().GetBool("replace")
	path, _ := cmd.Flags().GetString("file")

	var r io.Reader = cmd.InOrStdin()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	} else if stdinIsTerminal() {
		printOut(cmd, cli.FormatInfo("Plak de regels en sluit af met Ctrl+D"))
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	txns, err := importer.ParsePasted(string(raw))
	if err != nil {
		return err
	}

	s, err := initStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := storeBatch(cmd.Context(), s, txns, replace); err != nil {
		return err
	}
	printOut(cmd, cli.FormatSuccess(fmt.Sprintf("%d regels toegevoegd", len(txns))))
	return nil
}
