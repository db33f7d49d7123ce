// ABOUTME: Tests for opening, inspecting and wiping storage backends
// ABOUTME: Uses temp directories for the local badger and SQLite backends
package backend

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/touchbase/config"
	"github.com/harperreed/touchbase/crm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.DBPath = filepath.Join(dir, "db", "touchbase.db")
	return cfg
}

func TestOpen_RoundTrip(t *testing.T) {
	state := crm.SampleState(time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC))

	for _, name := range []string{config.BackendLocal, config.BackendSQLite} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t)
			logger := log.New(io.Discard)

			h, err := Open(cfg, name, logger)
			require.NoError(t, err)
			assert.Equal(t, name, h.Name)

			status, err := h.Status(ctx)
			require.NoError(t, err)
			assert.Contains(t, status, "no saved state")

			require.NoError(t, h.Store.Save(ctx, state))
			status, err = h.Status(ctx)
			require.NoError(t, err)
			assert.NotContains(t, status, "no saved state")
			require.NoError(t, h.Close())

			reopened, err := Open(cfg, name, logger)
			require.NoError(t, err)
			defer func() { _ = reopened.Close() }()

			loaded, err := reopened.Store.Load(ctx)
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Len(t, loaded.Contacts, len(state.Contacts))

			require.NoError(t, reopened.Wipe(ctx))
			loaded, err = reopened.Store.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, loaded)
		})
	}
}

func TestOpen_SetsOneStore(t *testing.T) {
	cfg := testConfig(t)

	local, err := Open(cfg, config.BackendLocal, log.New(io.Discard))
	require.NoError(t, err)
	defer func() { _ = local.Close() }()
	assert.NotNil(t, local.KV)
	assert.Nil(t, local.SQL)

	sqlite, err := Open(cfg, config.BackendSQLite, log.New(io.Discard))
	require.NoError(t, err)
	defer func() { _ = sqlite.Close() }()
	assert.Nil(t, sqlite.KV)
	assert.NotNil(t, sqlite.SQL)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(testConfig(t), "postgres", log.New(io.Discard))
	assert.ErrorContains(t, err, "unknown backend")
}
