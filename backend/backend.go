// ABOUTME: Opens the configured persistence backend
// ABOUTME: Shared by the touchbase binary and the migrate tool
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/touchbase/charm"
	"github.com/harperreed/touchbase/config"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/db"
)

// Handle is an open backend. Exactly one of KV or SQL is set.
type Handle struct {
	Name  string
	Store crm.Store

	KV  *charm.Client
	SQL *db.StateStore

	database *sql.DB
}

// Open connects to the named backend using paths from cfg.
func Open(cfg *config.Config, name string, logger *log.Logger) (*Handle, error) {
	switch name {
	case config.BackendCharm:
		client, err := charm.NewClient(charm.ConfigFrom(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to open charm kv: %w", err)
		}
		return &Handle{Name: name, Store: charm.NewStateStore(client, logger), KV: client}, nil

	case config.BackendLocal:
		dir := cfg.LocalDir()
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		client, err := charm.OpenLocal(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open local kv: %w", err)
		}
		return &Handle{Name: name, Store: charm.NewStateStore(client, logger), KV: client}, nil

	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		database, err := db.OpenDatabase(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		states := db.NewStateStore(database, logger)
		return &Handle{Name: name, Store: states, SQL: states, database: database}, nil
	}

	return nil, fmt.Errorf("unknown backend %q", name)
}

// Close releases the backend.
func (h *Handle) Close() error {
	if h.KV != nil {
		return h.KV.Close()
	}
	if h.database != nil {
		return h.database.Close()
	}
	return nil
}

// Wipe removes the saved State so the next load seeds sample data.
func (h *Handle) Wipe(ctx context.Context) error {
	if h.KV != nil {
		return h.KV.Delete([]byte(charm.StateKey))
	}
	return h.SQL.Clear(ctx)
}

// Status describes where the State lives and when it was last written, if known.
func (h *Handle) Status(ctx context.Context) (string, error) {
	if h.SQL != nil {
		at, ok, err := h.SQL.UpdatedAt(ctx)
		if err != nil {
			return "", err
		}
		if !ok {
			return "sqlite: no saved state", nil
		}
		return fmt.Sprintf("sqlite: state saved %s", at.Local().Format(time.RFC1123)), nil
	}
	ok, err := h.KV.HasKey([]byte(charm.StateKey))
	if err != nil {
		return "", fmt.Errorf("failed to read state: %w", err)
	}
	if !ok {
		return h.Name + ": no saved state", nil
	}
	return h.Name + ": state saved", nil
}
