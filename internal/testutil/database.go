// Package testutil provides shared test fixtures: an in-memory SQLite
// database with a store loaded from it, and a deterministic clock.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/importer"
	"github.com/Veraticus/transitoria/internal/model"
	"github.com/Veraticus/transitoria/internal/storage"
	"github.com/Veraticus/transitoria/internal/store"
)

// TestDB is a migrated in-memory database and a store persisting to it.
type TestDB struct {
	Storage *storage.SQLiteStorage
	Store   *store.Store
	Clock   *Clock
	t       *testing.T
}

// TestDBOptions configures SetupTestDB.
type TestDBOptions struct {
	Seed     []model.Transaction
	Language string
}

// SetupTestDB creates the database, seeds it and registers cleanup.
func SetupTestDB(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	db, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	tdb := &TestDB{Storage: db, Clock: NewClock(time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), time.Second), t: t}
	tdb.Store = tdb.open(opts.Language)

	if len(opts.Seed) > 0 {
		if err := tdb.Store.Replace(ctx, opts.Seed); err != nil {
			t.Fatalf("failed to seed transactions: %v", err)
		}
	}
	return tdb
}

// SetupDemoDB seeds the demo ledger.
func SetupDemoDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDB(t, TestDBOptions{Seed: importer.DemoTransactions()})
}

// Reopen loads a fresh store from the same database, as a restart would.
func (db *TestDB) Reopen() *store.Store {
	db.t.Helper()
	return db.open("")
}

// MustGet returns a transaction from the store or fails the test.
func (db *TestDB) MustGet(id string) model.Transaction {
	db.t.Helper()
	txn, err := db.Store.Get(id)
	if err != nil {
		db.t.Fatalf("transaction %s: %v", id, err)
	}
	return txn
}

func (db *TestDB) open(lang string) *store.Store {
	db.t.Helper()
	opts := []store.Option{
		store.WithPersister(db.Storage),
		store.WithLogger(common.DiscardLogger()),
		store.WithClock(db.Clock.Now),
	}
	if lang != "" {
		opts = append(opts, store.WithLanguage(lang))
	}
	st := store.New(opts...)
	if err := st.Load(context.Background()); err != nil {
		db.t.Fatalf("failed to load store: %v", err)
	}
	return st
}

// Clock returns start, then advances by step on every call.
type Clock struct {
	now  time.Time
	step time.Duration
	mu   sync.Mutex
}

// NewClock creates a clock starting at start.
func NewClock(start time.Time, step time.Duration) *Clock {
	return &Clock{now: start, step: step}
}

// Now implements a func() time.Time clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}
