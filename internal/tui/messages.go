package tui

import (
	"github.com/Veraticus/transitoria/internal/engine"
	"github.com/Veraticus/transitoria/internal/model"
)

type decisionMsg struct {
	err   error
	entry model.AuditLogEntry
}

type commentSavedMsg struct {
	err error
	id  string
}

type analysisDoneMsg struct {
	report engine.Report
}
