// ABOUTME: SQLite implementation of the CRM state gateway
// ABOUTME: Stores the whole State as one JSON row in app_state
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
)

// StateKey is the app_state row that holds the CRM.
const StateKey = "touchbase:state"

// StateStore adapts an open database to crm.Store.
type StateStore struct {
	db     *sql.DB
	logger *log.Logger
}

var _ crm.Store = (*StateStore)(nil)

func NewStateStore(db *sql.DB, logger *log.Logger) *StateStore {
	if logger == nil {
		logger = log.Default()
	}
	return &StateStore{db: db, logger: logger}
}

// Load returns nil when no row exists or the row does not decode.
func (s *StateStore) Load(ctx context.Context) (*models.State, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, StateKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	state := crm.DecodeState([]byte(value))
	if state == nil {
		s.logger.Warn("stored state could not be decoded, ignoring it", "key", StateKey, "bytes", len(value))
	}
	return state, nil
}

func (s *StateStore) Save(ctx context.Context, state models.State) error {
	data, err := crm.EncodeState(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, StateKey, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// UpdatedAt reports when the state row was last written. ok is false if it never was.
func (s *StateStore) UpdatedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT updated_at FROM app_state WHERE key = ?`, StateKey).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read state timestamp: %w", err)
	}
	return t, true, nil
}

// Clear deletes the saved state row.
func (s *StateStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, StateKey); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}
