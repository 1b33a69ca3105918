package main

import (
	"path/filepath"
	"testing"

	"github.com/mmcdole/mosaic/internal/adapter"
	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/store"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyConfig(dir string) *adapter.Config {
	cfg := adapter.DefaultConfig()
	cfg.History.Path = dir
	return cfg
}

func TestClearHistoryWipesDatabase(t *testing.T) {
	dir := t.TempDir()
	st, err := store.NewHistoryStore(dir, 10)
	require.NoError(t, err)
	_, err = st.Record("https://pics.test/a.png")
	require.NoError(t, err)
	require.NoError(t, st.Close())

	require.NoError(t, clearHistory(historyConfig(dir), adapter.NullLogger()))

	st, err = store.NewHistoryStore(dir, 10)
	require.NoError(t, err)
	defer st.Close()
	entries, err := st.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClearHistoryFailsWhenDatabaseLocked(t *testing.T) {
	dir := t.TempDir()
	held, err := store.NewHistoryStore(dir, 10)
	require.NoError(t, err)
	defer held.Close()
	_, err = held.Record("https://pics.test/a.png")
	require.NoError(t, err)

	err = clearHistory(historyConfig(dir), adapter.NullLogger())
	require.ErrorIs(t, err, domain.ErrHistoryUnavailable)

	entries, err := held.Recent(0)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "nothing was cleared")
}

func TestClearHistoryDisabled(t *testing.T) {
	cfg := historyConfig(t.TempDir())
	cfg.History.Enabled = false
	assert.ErrorIs(t, clearHistory(cfg, adapter.NullLogger()), domain.ErrHistoryUnavailable)
}

func TestOpenHistoryFallsBackToMemory(t *testing.T) {
	dir := t.TempDir()
	held, err := store.NewHistoryStore(dir, 10)
	require.NoError(t, err)
	defer held.Close()

	svc, closer := openHistory(historyConfig(dir), adapter.NullLogger())
	require.NotNil(t, svc)
	defer closer.Close()

	_, err = svc.Record("https://pics.test/b.png")
	assert.NoError(t, err)
}

func TestWriteConfigToExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := adapter.DefaultConfig()
	cfg.Grid.InitialTotal = 16
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, writeConfig(cfg, path))

	viper.Reset()
	loaded, err := adapter.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 16, loaded.Grid.InitialTotal)
}
