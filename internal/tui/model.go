// Package tui implements the interactive review screen.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/transitoria/internal/config"
	"github.com/Veraticus/transitoria/internal/engine"
	"github.com/Veraticus/transitoria/internal/filter"
	"github.com/Veraticus/transitoria/internal/format"
	"github.com/Veraticus/transitoria/internal/model"
	"github.com/Veraticus/transitoria/internal/store"
)

// Mode is the current interaction mode.
type Mode int

// Interaction modes.
const (
	ModeBrowse Mode = iota
	ModeComment
	ModeIssues
)

const (
	minTableHeight = 5
	chromeHeight   = 10
)

var rangeCycle = []filter.Preset{
	filter.PresetAll,
	filter.PresetLast3M,
	filter.PresetLast6M,
	filter.PresetLast9M,
	filter.PresetLastYear,
}

// Config configures the review model.
type Config struct {
	Store    *store.Store
	Engine   *engine.Engine
	Logger   *slog.Logger
	Ref      time.Time
	Settings config.AppSettings
	Criteria filter.Criteria
}

// Model is the bubbletea model of the review screen.
type Model struct {
	ctx       context.Context
	store     *store.Store
	engine    *engine.Engine
	logger    *slog.Logger
	ref       time.Time
	criteria  filter.Criteria
	err       error
	settings  config.AppSettings
	keys      KeyMap
	theme     Theme
	status    string
	ids       []string
	table     table.Model
	input     textinput.Model
	help      help.Model
	width     int
	height    int
	mode      Mode
	analyzing bool
}

// New creates a review model. ctx bounds store writes and analysis runs.
func New(ctx context.Context, cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ref := cfg.Ref
	if ref.IsZero() {
		ref = time.Now()
	}
	criteria := cfg.Criteria
	if criteria.Preset == "" {
		criteria.Preset = filter.PresetAll
	}
	if cfg.Settings.HideSmallAmounts {
		criteria.HideSmall = true
	}

	theme := NewTheme(cfg.Settings.Theme.Palette())

	input := textinput.New()
	input.Placeholder = "Opmerking van de controller"
	input.CharLimit = 500
	input.Width = 60

	m := Model{
		ctx:      ctx,
		store:    cfg.Store,
		engine:   cfg.Engine,
		logger:   logger,
		ref:      ref,
		criteria: criteria,
		settings: cfg.Settings,
		keys:     DefaultKeyMap(),
		theme:    theme,
		input:    input,
		help:     help.New(),
		mode:     ModeBrowse,
	}
	m.table = table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(minTableHeight*2),
		table.WithStyles(theme.Table),
	)
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(minTableHeight, msg.Height-chromeHeight))
		return m, nil

	case decisionMsg:
		if msg.err != nil {
			m.logger.Warn("Review decision failed", "error", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("%s %s: %s", msg.entry.TransactionID, msg.entry.Action, msg.entry.Details)
		m.refresh()
		return m, nil

	case commentSavedMsg:
		if msg.err != nil {
			m.logger.Warn("Saving comment failed", "transaction", msg.id, "error", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = "Opmerking opgeslagen bij " + msg.id
		m.refresh()
		return m, nil

	case analysisDoneMsg:
		m.analyzing = false
		m.status = describeReport(msg.report)
		if msg.report.Status == engine.RunApplied {
			m.err = nil
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeComment:
			return m.updateComment(msg)
		case ModeIssues:
			return m.updateIssues(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Approve):
		if id, ok := m.selectedID(); ok {
			return m, m.approveCmd(id)
		}
		return m, nil

	case key.Matches(msg, m.keys.Correct):
		if id, ok := m.selectedID(); ok {
			return m, m.correctCmd(id)
		}
		return m, nil

	case key.Matches(msg, m.keys.Comment):
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		current := ""
		if t, err := m.store.Get(id); err == nil {
			current = t.ManagerComment
		}
		m.mode = ModeComment
		m.input.SetValue(current)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Analyze):
		if !m.settings.ShowAIAnalysis {
			m.err = fmt.Errorf("AI analyse staat uit in de instellingen")
			return m, nil
		}
		if m.engine == nil {
			m.err = fmt.Errorf("AI analyse is niet geconfigureerd")
			return m, nil
		}
		if m.analyzing {
			return m, nil
		}
		m.analyzing = true
		m.status = "AI analyse loopt..."
		return m, m.analyzeCmd()

	case key.Matches(msg, m.keys.CycleRange):
		m.criteria.Preset = nextPreset(m.criteria.Preset)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSmall):
		m.criteria.HideSmall = !m.criteria.HideSmall
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Issues):
		m.mode = ModeIssues
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateComment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = ModeBrowse
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.mode = ModeBrowse
		m.input.Blur()
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		return m, m.commentCmd(id, m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateIssues(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Issues, m.keys.Cancel, m.keys.Quit):
		m.mode = ModeBrowse
	}
	return m, nil
}

func (m Model) approveCmd(id string) tea.Cmd {
	ctx, st, user := m.ctx, m.store, m.settings.Reviewer
	return func() tea.Msg {
		entry, err := st.Approve(ctx, id, user)
		return decisionMsg{entry: entry, err: err}
	}
}

func (m Model) correctCmd(id string) tea.Cmd {
	ctx, st, user := m.ctx, m.store, m.settings.Reviewer
	return func() tea.Msg {
		entry, err := st.Correct(ctx, id, user)
		return decisionMsg{entry: entry, err: err}
	}
}

func (m Model) commentCmd(id, text string) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		return commentSavedMsg{id: id, err: st.SetComment(ctx, id, text)}
	}
}

func (m Model) analyzeCmd() tea.Cmd {
	ctx, eng := m.ctx, m.engine
	return func() tea.Msg {
		return analysisDoneMsg{report: eng.Analyze(ctx)}
	}
}

// refresh rebuilds the table rows from the store and the current criteria.
func (m *Model) refresh() {
	txns, err := filter.Apply(m.store.Transactions(), m.criteria, m.ref)
	if err != nil {
		m.err = err
		return
	}

	cursor := m.table.Cursor()
	m.ids = make([]string, 0, len(txns))
	rows := make([]table.Row, 0, len(txns))
	for _, t := range txns {
		m.ids = append(m.ids, t.ID)
		rows = append(rows, m.row(t))
	}
	m.table.SetColumns(m.columns())
	m.table.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor >= 0 {
		m.table.SetCursor(cursor)
	}
}

func (m Model) columns() []table.Column {
	cols := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Datum", Width: 10},
		{Title: "Omschrijving", Width: 28},
		{Title: "Bedrag", Width: 12},
		{Title: "Periode", Width: 9},
		{Title: "Categorie", Width: 24},
		{Title: "Risico", Width: 7},
		{Title: "Status", Width: 10},
	}
	if m.settings.ShowAIAnalysis {
		cols = append(cols, table.Column{Title: "AI analyse", Width: 30})
	}
	if m.settings.ShowUserComments {
		cols = append(cols, table.Column{Title: "Opmerking", Width: 24})
	}
	return cols
}

func (m Model) row(t model.Transaction) table.Row {
	amount := format.Currency(t.Amount, format.Options{InThousands: m.settings.CurrencyInThousands})
	if t.Direction == model.DirectionCredit {
		amount += " Cr"
	}
	period := t.AllocatedPeriod
	if period == "" {
		period = "-"
	}
	row := table.Row{
		t.ID,
		t.Date.Format(model.DateLayout),
		t.Description,
		amount,
		period,
		t.Category.Label(string(m.settings.Language)),
		string(t.RiskLevel),
		string(t.Status),
	}
	if m.settings.ShowAIAnalysis {
		row = append(row, t.AIAnalysis)
	}
	if m.settings.ShowUserComments {
		row = append(row, t.ManagerComment)
	}
	return row
}

func (m Model) selectedID() (string, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.ids) {
		return "", false
	}
	return m.ids[i], true
}

// Mode returns the current interaction mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Criteria returns the active filter criteria.
func (m Model) Criteria() filter.Criteria {
	return m.criteria
}

// Visible returns the ids of the rows currently shown.
func (m Model) Visible() []string {
	return append([]string(nil), m.ids...)
}

func nextPreset(p filter.Preset) filter.Preset {
	for i, candidate := range rangeCycle {
		if candidate == p {
			return rangeCycle[(i+1)%len(rangeCycle)]
		}
	}
	return filter.PresetAll
}

func describeReport(r engine.Report) string {
	switch r.Status {
	case engine.RunApplied:
		return fmt.Sprintf("AI analyse toegepast: %d van %d bijgewerkt, %d volledigheidspunten",
			r.Updated, r.Transactions, r.Completeness)
	case engine.RunStale:
		return "AI analyse genegeerd: transacties zijn intussen gewijzigd"
	case engine.RunCanceled:
		return "AI analyse geannuleerd"
	default:
		if r.Error != "" {
			return "AI analyse niet beschikbaar: " + r.Error
		}
		return "AI analyse niet beschikbaar"
	}
}
