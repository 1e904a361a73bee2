package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlorianBx/wam/internal/errs"
)

func TestStoreLoad_Fallbacks(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing_file", content: nil},
		{name: "empty_file", content: ptr("")},
		{name: "malformed_json", content: ptr("{installRoot:")},
		{name: "wrong_type", content: ptr(`{"installRoot": 42}`)},
		{name: "array", content: ptr(`[1,2,3]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			store := NewStore(dir, nil)
			if tt.content != nil {
				require.NoError(t, os.WriteFile(store.Path(), []byte(*tt.content), 0o644))
			}

			cfg := store.Load()
			_, ok := cfg.Override()
			assert.False(t, ok)
		})
	}
}

func TestStore_SaveThenLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not", "yet", "created")
	store := NewStore(dir, nil)

	root := filepath.Join(t.TempDir(), "AddOns")
	require.NoError(t, store.Save(AppConfig{}.WithInstallRoot(root)))

	got, ok := store.Load().Override()
	require.True(t, ok)
	assert.Equal(t, root, got)

	raw, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"installRoot"`)
}

func TestStore_SaveNullInstallRoot(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	require.NoError(t, store.Save(AppConfig{}))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"installRoot": null}`, string(raw))
}

func TestStore_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := NewStore(blocker, nil).Save(AppConfig{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConfigIO)
}

func TestAppConfig_Override(t *testing.T) {
	_, ok := AppConfig{}.Override()
	assert.False(t, ok)

	_, ok = AppConfig{InstallRoot: ptr("")}.Override()
	assert.False(t, ok, "empty string is treated as unset")

	path, ok := AppConfig{InstallRoot: ptr("/games/AddOns")}.Override()
	assert.True(t, ok)
	assert.Equal(t, "/games/AddOns", path)
}

func ptr(s string) *string {
	return &s
}
