// Package testutil provides utilities for testing wam in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env describes the isolated directories created by SetupTestEnv.
type Env struct {
	Home        string // fake home directory
	DataDir     string // WAM_DATA_DIR
	InstallRoot string // an existing AddOns directory, not configured anywhere
}

// SetupTestEnv creates isolated directories and points every variable wam
// reads at them, so tests never touch the user's real game install or data.
// Cleanup is handled by t.TempDir and t.Setenv.
func SetupTestEnv(t *testing.T) Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := Env{
		Home:        filepath.Join(tmpDir, "home"),
		DataDir:     filepath.Join(tmpDir, "data"),
		InstallRoot: filepath.Join(tmpDir, "AddOns"),
	}

	t.Setenv("HOME", env.Home)
	t.Setenv("USERPROFILE", env.Home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(env.Home, ".local", "share"))
	t.Setenv("LOCALAPPDATA", filepath.Join(env.Home, "AppData", "Local"))
	t.Setenv("WAM_DATA_DIR", env.DataDir)
	t.Setenv("WAM_CATALOG_FILE", "")

	for _, dir := range []string{env.Home, env.DataDir, env.InstallRoot} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return env
}
