// ABOUTME: Tests for the SQLite state gateway
// ABOUTME: Each test gets its own database file under t.TempDir
package db

import (
	"context"
	"database/sql"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/touchbase/crm"
	"github.com/harperreed/touchbase/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*sql.DB, *StateStore) {
	t.Helper()
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "touchbase.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, NewStateStore(db, log.New(io.Discard))
}

func TestStateStore_LoadAbsent(t *testing.T) {
	_, store := newTestStore(t)

	state, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Nil(t, state)

	_, ok, err := store.UpdatedAt(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStateStore_SaveAndLoad(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()
	want := crm.SampleState(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	require.NoError(t, store.Save(ctx, want))
	got, err := store.Load(ctx)

	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Contacts, len(want.Contacts))
	assert.Equal(t, want.Contacts[1].Name, got.Contacts[1].Name)
	assert.Equal(t, want.Contacts[0].Tags, got.Contacts[0].Tags)
	assert.True(t, want.Contacts[0].Tasks[0].DueDate.Equal(got.Contacts[0].Tasks[0].DueDate))

	_, ok, err := store.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStateStore_SaveUpserts(t *testing.T) {
	db, store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, models.State{Contacts: []models.Contact{{ID: "a", Name: "A"}}}))
	require.NoError(t, store.Save(ctx, models.State{Contacts: []models.Contact{{ID: "b", Name: "B"}}}))

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM app_state`).Scan(&rows))
	assert.Equal(t, 1, rows)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Contacts, 1)
	assert.Equal(t, "b", got.Contacts[0].ID)
}

func TestStateStore_CorruptRowLoadsAbsent(t *testing.T) {
	db, store := newTestStore(t)
	_, err := db.Exec(`INSERT INTO app_state (key, value) VALUES (?, ?)`, StateKey, "[1,2")
	require.NoError(t, err)

	state, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestStateStore_Clear(t *testing.T) {
	_, store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, models.State{}))

	require.NoError(t, store.Clear(ctx))

	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestStateStore_ClosedDatabaseErrors(t *testing.T) {
	db, store := newTestStore(t)
	require.NoError(t, db.Close())

	_, err := store.Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, store.Save(context.Background(), models.State{}))
}
