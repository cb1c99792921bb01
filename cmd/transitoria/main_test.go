package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/transitoria/internal/allocation"
	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/config"
	"github.com/Veraticus/transitoria/internal/filter"
	"github.com/Veraticus/transitoria/internal/model"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("database:\n  path: %s\nlogging:\n  level: error\n", filepath.Join(dir, "review.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfg}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestReviewFlow(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	cfg := writeConfig(t)

	out, err := execute(t, cfg, "demo")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Demo geladen")

	out, err = execute(t, cfg, "approve", "1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Transactie goedgekeurd voor periode")

	_, err = execute(t, cfg, "approve", "missing")
	require.Error(t, err)

	out, err = execute(t, cfg, "comment", "2", "Contract", "opvragen")
	require.NoError(t, err, out)

	out, err = execute(t, cfg, "list", "--json")
	require.NoError(t, err, out)
	var txns []model.Transaction
	require.NoError(t, json.Unmarshal([]byte(out), &txns), out)
	require.Len(t, txns, 6)
	assert.Equal(t, model.StatusApproved, txns[0].Status)
	assert.Equal(t, "Contract opvragen", txns[1].ManagerComment)

	out, err = execute(t, cfg, "audit", "--json")
	require.NoError(t, err, out)
	var entries []model.AuditLogEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries), out)
	require.Len(t, entries, 1)
	assert.Equal(t, "J. de Vries", entries[0].User)

	out, err = execute(t, cfg, "timeshift", "--year", "2024")
	require.NoError(t, err, out)
	assert.Contains(t, out, "2024-01")
	assert.Contains(t, out, "2024-12")

	// No API key: the run is reported unavailable and nothing changes.
	_, err = execute(t, cfg, "analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNAVAILABLE")

	out, err = execute(t, cfg, "migrate", "--status")
	require.NoError(t, err, out)
	assert.Contains(t, out, "schema version 2 of 2")
}

func TestAnalyzeDisabledInSettings(t *testing.T) {
	cfg := writeConfig(t)
	f, err := os.OpenFile(cfg, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("settings:\n  show_ai_analysis: false\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out, err := execute(t, cfg, "demo")
	require.NoError(t, err, out)

	_, err = execute(t, cfg, "analyze")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDisabled)
}

func TestFilterCriteria(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "x"}
		addFilterFlags(cmd)
		return cmd
	}

	cmd := newCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--start", "2024-01-01", "--ref", "2024-06-30"}))
	c, ref, err := filterCriteria(cmd, config.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, filter.PresetCustom, c.Preset)
	assert.Equal(t, 2024, c.Start.Year())
	assert.Equal(t, 30, ref.Day())
	assert.False(t, c.HideSmall)

	cmd = newCmd()
	settings := config.DefaultSettings()
	settings.HideSmallAmounts = true
	require.NoError(t, cmd.ParseFlags([]string{"--range", "3m"}))
	c, _, err = filterCriteria(cmd, settings)
	require.NoError(t, err)
	assert.Equal(t, filter.PresetLast3M, c.Preset)
	assert.True(t, c.HideSmall)

	cmd = newCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--start", "01-01-2024"}))
	_, _, err = filterCriteria(cmd, config.DefaultSettings())
	require.Error(t, err)
}

func TestAggregationOptions(t *testing.T) {
	opts, err := aggregationOptions("exclude")
	require.NoError(t, err)
	assert.Equal(t, allocation.ExcludeFromAllocation, opts.Policy)

	opts, err = aggregationOptions("fallback")
	require.NoError(t, err)
	assert.Equal(t, allocation.FallbackToBookedMonth, opts.Policy)

	_, err = aggregationOptions("smear")
	require.Error(t, err)
}
