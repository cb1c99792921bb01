// Package audit keeps the append-only history of review decisions.
package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/transitoria/internal/model"
)

var details = map[model.AuditAction]map[string]string{
	model.ActionApprove: {
		"nl": "Transactie goedgekeurd voor periode",
		"en": "Transaction approved for period",
	},
	model.ActionCorrect: {
		"nl": "Markering voor correctie vereist",
		"en": "Flagged as requiring correction",
	},
}

// Details returns the default description of an action in lang (nl or en).
func Details(action model.AuditAction, lang string) string {
	texts, ok := details[action]
	if !ok {
		return string(action)
	}
	if text, ok := texts[lang]; ok {
		return text
	}
	return texts["nl"]
}

// Log is an append-only list of audit entries.
//
// Entries are never edited or removed. Timestamps never decrease in
// insertion order, even if the clock steps back. Log is not safe for
// concurrent use; the owning store serializes access.
type Log struct {
	last    time.Time
	now     func() time.Time
	newID   func() string
	entries []model.AuditLogEntry
}

// Option configures a Log.
type Option func(*Log)

// WithClock sets the time source for new entries.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithIDGenerator sets the id source for new entries.
func WithIDGenerator(newID func() string) Option {
	return func(l *Log) { l.newID = newID }
}

// NewLog creates an empty log.
func NewLog(opts ...Option) *Log {
	l := &Log{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewEntry builds the next entry without recording it. Callers append it
// once the matching status change has been committed.
func (l *Log) NewEntry(transactionID string, action model.AuditAction, user, text string) model.AuditLogEntry {
	ts := l.now().UTC()
	if ts.Before(l.last) {
		ts = l.last
	}
	return model.AuditLogEntry{
		ID:            l.newID(),
		Timestamp:     ts,
		TransactionID: transactionID,
		Action:        action,
		User:          user,
		Details:       text,
	}
}

// Append records an entry.
func (l *Log) Append(e model.AuditLogEntry) {
	if e.Timestamp.Before(l.last) {
		e.Timestamp = l.last
	}
	l.last = e.Timestamp
	l.entries = append(l.entries, e)
}

// Restore replaces the contents with previously persisted entries in insertion order.
func (l *Log) Restore(entries []model.AuditLogEntry) {
	l.entries = nil
	l.last = time.Time{}
	for _, e := range entries {
		l.Append(e)
	}
}

// Entries returns a copy in insertion order.
func (l *Log) Entries() []model.AuditLogEntry {
	out := make([]model.AuditLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Newest returns a copy with the most recent entry first.
func (l *Log) Newest() []model.AuditLogEntry {
	out := make([]model.AuditLogEntry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}
