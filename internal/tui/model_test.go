package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/config"
	"github.com/Veraticus/transitoria/internal/engine"
	"github.com/Veraticus/transitoria/internal/filter"
	"github.com/Veraticus/transitoria/internal/model"
	"github.com/Veraticus/transitoria/internal/store"
	"github.com/Veraticus/transitoria/internal/testutil"
)

var testRef = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, withEngine bool) (Model, *store.Store) {
	t.Helper()
	st := testutil.SetupDemoDB(t).Store

	cfg := Config{
		Store:    st,
		Logger:   common.DiscardLogger(),
		Ref:      testRef,
		Settings: config.DefaultSettings(),
	}
	if withEngine {
		cfg.Engine = engine.New(st, engine.NewMockAnalyzer(), engine.WithLogger(common.DiscardLogger()))
	}
	return New(context.Background(), cfg), st
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msg to the model and resolves the returned command once.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	result := cmd()
	switch result.(type) {
	case decisionMsg, commentSavedMsg, analysisDoneMsg:
		next, _ = m.Update(result)
		m = next.(Model)
	}
	return m
}

func TestNewShowsAllTransactions(t *testing.T) {
	m, _ := newTestModel(t, false)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, m.Visible())
	assert.Equal(t, filter.PresetAll, m.Criteria().Preset)
	assert.Equal(t, ModeBrowse, m.Mode())
}

func TestApproveSelected(t *testing.T) {
	m, st := newTestModel(t, false)

	m = send(t, m, runes("a"))

	got, err := st.Get("1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
	require.Len(t, st.AuditLog(), 1)
	assert.Equal(t, "J. de Vries", st.AuditLog()[0].User)
	assert.NoError(t, m.err)
	assert.Contains(t, m.status, "APPROVE")
}

func TestCorrectAfterMovingDown(t *testing.T) {
	m, st := newTestModel(t, false)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	_ = send(t, m, runes("c"))

	got, err := st.Get("2")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCorrected, got.Status)

	first, err := st.Get("1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, first.Status)
}

func TestCommentFlow(t *testing.T) {
	m, st := newTestModel(t, false)

	m = send(t, m, runes("m"))
	require.Equal(t, ModeComment, m.Mode())

	m = send(t, m, runes("akkoord"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, ModeBrowse, m.Mode())
	got, err := st.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "akkoord", got.ManagerComment)
	assert.Contains(t, m.status, "Opmerking opgeslagen")
}

func TestCommentCancel(t *testing.T) {
	m, st := newTestModel(t, false)

	m = send(t, m, runes("m"))
	m = send(t, m, runes("weg"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, ModeBrowse, m.Mode())
	got, err := st.Get("1")
	require.NoError(t, err)
	assert.Empty(t, got.ManagerComment)
}

func TestCycleRange(t *testing.T) {
	m, _ := newTestModel(t, false)

	m = send(t, m, runes("f"))
	assert.Equal(t, filter.PresetLast3M, m.Criteria().Preset)
	// 2023-12-20 falls outside [2023-12-31, 2024-03-31].
	assert.Equal(t, []string{"1", "3", "4", "5", "6"}, m.Visible())

	for range 4 {
		m = send(t, m, runes("f"))
	}
	assert.Equal(t, filter.PresetAll, m.Criteria().Preset)
	assert.Len(t, m.Visible(), 6)
}

func TestToggleSmall(t *testing.T) {
	m, _ := newTestModel(t, false)

	m = send(t, m, runes("s"))
	assert.True(t, m.Criteria().HideSmall)
	m = send(t, m, runes("s"))
	assert.False(t, m.Criteria().HideSmall)
}

func TestAnalyzeWithoutEngine(t *testing.T) {
	m, _ := newTestModel(t, false)

	m = send(t, m, runes("r"))
	require.Error(t, m.err)
	assert.False(t, m.analyzing)
}

func TestAnalyzeDisabledInSettings(t *testing.T) {
	m, st := newTestModel(t, true)
	m.settings.ShowAIAnalysis = false
	before := st.Transactions()

	m = send(t, m, runes("r"))
	require.Error(t, m.err)
	assert.Contains(t, m.err.Error(), "staat uit")
	assert.False(t, m.analyzing)
	assert.Equal(t, engine.RunIdle, m.engine.Status().Status)
	assert.Equal(t, before, st.Transactions())
}

func TestAnalyzeApplies(t *testing.T) {
	m, st := newTestModel(t, true)

	m = send(t, m, runes("r"))

	assert.False(t, m.analyzing)
	assert.Contains(t, m.status, "toegepast")
	got, err := st.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "2024-Q1", got.AllocatedPeriod)
}

func TestIssuesMode(t *testing.T) {
	m, _ := newTestModel(t, false)

	m = send(t, m, runes("v"))
	assert.Equal(t, ModeIssues, m.Mode())
	assert.Contains(t, m.View(), "Geen ontbrekende posten")

	m = send(t, m, runes("q"))
	assert.Equal(t, ModeBrowse, m.Mode())
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, false)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewRendersSummary(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})

	view := m.View()
	assert.Contains(t, view, "Transitoria Controle Tool")
	assert.Contains(t, view, "Goedgekeurd 1")
	assert.Contains(t, view, "Huur Kantoor Q1 2024")
}

func TestNextPreset(t *testing.T) {
	assert.Equal(t, filter.PresetLast3M, nextPreset(filter.PresetAll))
	assert.Equal(t, filter.PresetAll, nextPreset(filter.PresetLastYear))
	assert.Equal(t, filter.PresetAll, nextPreset(filter.PresetCustom))
}
