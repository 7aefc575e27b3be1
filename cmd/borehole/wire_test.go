package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/borehole-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/borehole-cli/internal/core/domain"
)

func writeConfig(t *testing.T, values map[string]any) string {
	t.Helper()
	dir := t.TempDir()
	store, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	for k, v := range values {
		require.NoError(t, store.Set(k, v))
	}
	require.NoError(t, store.Save())
	return dir
}

func TestBootstrap_SettingsOnly(t *testing.T) {
	s, err := bootstrap(context.Background(), writeConfig(t, nil), false)
	require.NoError(t, err)
	assert.NotNil(t, s.Settings)
	assert.Nil(t, s.Project)
}

func TestBootstrap_SQLiteProject(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()
	legendDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(legendDir, "lithology.csv"),
		[]byte("colour,width,component lithology\n#ffff00,3,sand\n"), 0600))

	dir := writeConfig(t, map[string]any{
		"storage.data_dir": dataDir,
		"legend.dir":       legendDir,
	})
	s, err := bootstrap(ctx, dir, true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NotNil(t, s.Project)
	assert.Equal(t, legendDir, s.LegendDir)
	assert.FileExists(t, filepath.Join(dataDir, "boreholes.db"))

	err = s.Project.AddBoreholeSpec(ctx, domain.BoreholeSpec{ID: "P1", BoreholeType: "piezometer", Length: 10})
	require.NoError(t, err)
	assert.Len(t, s.Project.Boreholes(), 1)
}

func TestBootstrap_InvalidSettings(t *testing.T) {
	dir := writeConfig(t, map[string]any{"storage.backend": "postgres"})
	_, err := bootstrap(context.Background(), dir, true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
