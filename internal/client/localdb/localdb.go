// Package localdb owns the on-device SQLite database. The database is opened
// and migrated on first use; concurrent first callers share one
// initialization.
package localdb

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/aircontrol/internal/client/migrations"
	"github.com/dmitrijs2005/aircontrol/internal/filex"
	"github.com/dmitrijs2005/aircontrol/internal/logging"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Handle is a lazily opened database. It implements dbx.Source.
type Handle struct {
	path string
	log  logging.Logger

	mu       sync.Mutex
	db       *sql.DB
	inflight *initCall
	opens    int
}

type initCall struct {
	done chan struct{}
	db   *sql.DB
	err  error
}

// New returns a handle for the database at path. Nothing is opened until DB
// is called.
func New(path string, log logging.Logger) *Handle {
	return &Handle{path: path, log: log}
}

// DB returns the open database, opening and migrating it on the first call.
// A failed initialization is not remembered; the next call tries again.
func (h *Handle) DB(ctx context.Context) (*sql.DB, error) {
	h.mu.Lock()
	if h.db != nil {
		db := h.db
		h.mu.Unlock()
		return db, nil
	}
	if c := h.inflight; c != nil {
		h.mu.Unlock()
		select {
		case <-c.done:
			return c.db, c.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c := &initCall{done: make(chan struct{})}
	h.inflight = c
	h.opens++
	h.mu.Unlock()

	c.db, c.err = h.open(ctx)

	h.mu.Lock()
	if c.err == nil {
		h.db = c.db
	}
	h.inflight = nil
	h.mu.Unlock()
	close(c.done)

	return c.db, c.err
}

func (h *Handle) open(ctx context.Context) (*sql.DB, error) {
	if err := filex.EnsureParentDir(h.path); err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn(h.path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", h.path, err)
	}
	if h.path == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	h.log.Debug(ctx, "local database ready", "path", h.path)
	return db, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)"
}

// Close closes the database if it was opened. The handle may be reopened
// by a later DB call.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	return err
}
