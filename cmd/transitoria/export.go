package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/transitoria/internal/allocation"
	"github.com/Veraticus/transitoria/internal/cli"
	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/config"
	"github.com/Veraticus/transitoria/internal/model"
	"github.com/Veraticus/transitoria/internal/sheets"
)

const defaultTokenFile = "$HOME/.config/transitoria/sheets-token.json"

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the review to Google Sheets or an .xlsx workbook",
		Long: `Write four tabs: transactions, the time-shift series, the audit log and
the completeness issues.

Without --xlsx the report goes to Google Sheets. Configure either
sheets.service_account_path or sheets.client_id, sheets.client_secret and
sheets.refresh_token; run with --authorize once to obtain a refresh token.`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}
	cmd.Flags().String("xlsx", "", "write a local workbook to this path instead of Google Sheets")
	cmd.Flags().Int("year", 0, "reporting year of the time-shift tab (default: current year)")
	cmd.Flags().String("policy", "", "malformed period handling: fallback or exclude")
	cmd.Flags().Bool("authorize", false, "run the browser OAuth flow and store the refresh token")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if authorize, _ := cmd.Flags().GetBool("authorize"); authorize {
		return runAuthorize(cmd)
	}

	year, _ := cmd.Flags().GetInt("year")
	if year == 0 {
		year = time.Now().Year()
	}
	policy, _ := cmd.Flags().GetString("policy")
	opts, err := aggregationOptions(policy)
	if err != nil {
		return err
	}

	s, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	writer, closeWriter, err := reportWriter(cmd)
	if err != nil {
		return err
	}
	defer closeWriter()

	report := buildReport(s, year, opts, time.Now())
	if err := writeReport(ctx, writer, report); err != nil {
		return err
	}
	printOut(cmd, cli.FormatSuccess(fmt.Sprintf("%d transacties geëxporteerd", len(report.Transactions))))
	return nil
}

// buildReport collects the export tabs from the store.
func buildReport(s *session, year int, opts allocation.Options, now time.Time) sheets.Report {
	txns := s.store.Transactions()
	series, issues := allocation.Aggregate(txns, allocation.NewHorizon(year), opts)
	if len(issues) > 0 {
		slog.Warn("Some periods could not be allocated", "count", len(issues))
	}

	// The audit tab lists the oldest decision first.
	newest := s.store.AuditLog()
	oldest := make([]model.AuditLogEntry, 0, len(newest))
	for i := len(newest) - 1; i >= 0; i-- {
		oldest = append(oldest, newest[i])
	}

	return sheets.Report{
		GeneratedAt:  now,
		Title:        s.settings.AppName,
		Language:     string(s.settings.Language),
		Transactions: txns,
		TimeShift:    series,
		Audit:        oldest,
		Completeness: s.store.CompletenessIssues(),
	}
}

func writeReport(ctx context.Context, w sheets.ReportWriter, report sheets.Report) error {
	if err := w.Write(ctx, report); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	slog.Info("Report exported", "transactions", len(report.Transactions), "audit_entries", len(report.Audit))
	return nil
}

// reportWriter picks the local workbook or Google Sheets.
func reportWriter(cmd *cobra.Command) (sheets.ReportWriter, func(), error) {
	if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
		path = config.ExpandPath(path)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(filepath.Clean(path))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
		}
		return sheets.NewWorkbookWriter(f), func() { _ = f.Close() }, nil
	}

	cfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	w, err := sheets.NewWriter(cmd.Context(), *cfg, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	return w, func() {}, nil
}

func runAuthorize(cmd *cobra.Command) error {
	oauth := sheets.OAuth2Config{
		ClientID:     firstNonEmpty(viper.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID")),
		ClientSecret: firstNonEmpty(viper.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")),
		TokenFile:    config.ExpandPath(firstNonEmpty(viper.GetString("sheets.token_file"), defaultTokenFile)),
		ListenAddr:   viper.GetString("sheets.oauth_listen_addr"),
	}
	if oauth.ClientID == "" || oauth.ClientSecret == "" {
		return fmt.Errorf("%w: sheets.client_id and sheets.client_secret are required for --authorize", common.ErrMissingConfig)
	}

	token, err := sheets.GetOrCreateToken(cmd.Context(), oauth)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}
	if err := sheets.SaveToken(oauth.TokenFile, token); err != nil {
		return err
	}

	printOut(cmd, cli.FormatSuccess("Token opgeslagen in "+oauth.TokenFile))
	printOut(cmd, cli.FormatInfo("Zet sheets.refresh_token in de configuratie op:"))
	printOut(cmd, token.RefreshToken)
	return nil
}
