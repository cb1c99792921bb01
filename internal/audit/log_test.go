package audit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/transitoria/internal/model"
)

type fakeClock struct {
	times []time.Time
	i     int
}

func (c *fakeClock) now() time.Time {
	t := c.times[c.i]
	if c.i < len(c.times)-1 {
		c.i++
	}
	return t
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("log-%d", n)
	}
}

func TestLogAppendOrder(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := &fakeClock{times: []time.Time{base, base.Add(time.Minute), base.Add(2 * time.Minute)}}
	l := NewLog(WithClock(clock.now), WithIDGenerator(sequentialIDs()))

	for _, id := range []string{"1", "2", "3"} {
		l.Append(l.NewEntry(id, model.ActionApprove, "J. de Vries", Details(model.ActionApprove, "nl")))
	}

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "1", entries[0].TransactionID)
	assert.Equal(t, "log-1", entries[0].ID)
	assert.Equal(t, "Transactie goedgekeurd voor periode", entries[0].Details)

	newest := l.Newest()
	assert.Equal(t, "3", newest[0].TransactionID)
	assert.Equal(t, "1", newest[2].TransactionID)
}

func TestLogTimestampsNeverDecrease(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := &fakeClock{times: []time.Time{base, base.Add(-time.Hour), base.Add(time.Second)}}
	l := NewLog(WithClock(clock.now))

	for i := 0; i < 3; i++ {
		l.Append(l.NewEntry("1", model.ActionCorrect, "user", "x"))
	}

	entries := l.Entries()
	assert.Equal(t, base, entries[0].Timestamp)
	assert.Equal(t, base, entries[1].Timestamp)
	assert.Equal(t, base.Add(time.Second), entries[2].Timestamp)
}

func TestLogCopiesAreDetached(t *testing.T) {
	l := NewLog()
	l.Append(l.NewEntry("1", model.ActionApprove, "user", "ok"))

	entries := l.Entries()
	entries[0].Details = "edited"
	assert.Equal(t, "ok", l.Entries()[0].Details)
	assert.Equal(t, 1, l.Len())
}

func TestNewEntryDoesNotRecord(t *testing.T) {
	l := NewLog()
	e := l.NewEntry("1", model.ActionApprove, "user", "ok")
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, 0, l.Len())
}

func TestRestore(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewLog(WithClock(func() time.Time { return base.Add(-time.Hour) }))
	l.Restore([]model.AuditLogEntry{
		{ID: "a", Timestamp: base, TransactionID: "1", Action: model.ActionApprove},
	})

	next := l.NewEntry("2", model.ActionCorrect, "user", "x")
	assert.Equal(t, base, next.Timestamp)
	assert.Equal(t, 1, l.Len())
}

func TestDetails(t *testing.T) {
	assert.Equal(t, "Markering voor correctie vereist", Details(model.ActionCorrect, "nl"))
	assert.Equal(t, "Flagged as requiring correction", Details(model.ActionCorrect, "en"))
	assert.Equal(t, "Transactie goedgekeurd voor periode", Details(model.ActionApprove, "fr"))
}
