package installpath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlorianBx/wam/internal/config"
	"github.com/FlorianBx/wam/internal/errs"
)

// fakeConfig returns a fixed AppConfig and counts loads.
type fakeConfig struct {
	cfg   config.AppConfig
	loads int
}

func (f *fakeConfig) Load() config.AppConfig {
	f.loads++
	return f.cfg
}

func mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	path := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(path, 0o755))
	return path
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	override := mkdir(t, root, "override")
	first := mkdir(t, root, "first")
	second := mkdir(t, root, "second")
	missing := filepath.Join(root, "missing")
	file := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name       string
		override   *string
		candidates []string
		want       string
		wantErr    bool
	}{
		{
			name:       "override_wins_over_existing_defaults",
			override:   &override,
			candidates: []string{first, second},
			want:       override,
		},
		{
			name:       "no_override_uses_first_existing_default",
			candidates: []string{missing, second, first},
			want:       second,
		},
		{
			name:       "missing_override_falls_back",
			override:   &missing,
			candidates: []string{first, second},
			want:       first,
		},
		{
			name:       "override_is_a_file_falls_back",
			override:   &file,
			candidates: []string{second},
			want:       second,
		},
		{
			name:       "nothing_exists",
			candidates: []string{missing},
			wantErr:    true,
		},
		{
			name:    "no_candidates",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(&fakeConfig{cfg: config.AppConfig{InstallRoot: tt.override}}, tt.candidates, nil)

			got, err := r.Resolve()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrPathNotFound)
				assert.Contains(t, err.Error(), NotFoundMessage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_NotCached(t *testing.T) {
	root := t.TempDir()
	candidate := filepath.Join(root, "AddOns")
	cfg := &fakeConfig{}
	r := NewResolver(cfg, []string{candidate}, nil)

	_, err := r.Resolve()
	require.ErrorIs(t, err, errs.ErrPathNotFound)

	// The filesystem changes between calls
	mkdir(t, candidate)
	got, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, candidate, got)

	// The override changes between calls
	override := mkdir(t, root, "custom")
	cfg.cfg = config.AppConfig{}.WithInstallRoot(override)
	got, err = r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, override, got)

	assert.Equal(t, 3, cfg.loads)
}

func TestResolve_WithConfigStore(t *testing.T) {
	dataDir := t.TempDir()
	override := mkdir(t, t.TempDir(), "AddOns")
	store := config.NewStore(dataDir, nil)
	require.NoError(t, store.Save(config.AppConfig{}.WithInstallRoot(override)))

	got, err := NewResolver(store, nil, nil).Resolve()
	require.NoError(t, err)
	assert.Equal(t, override, got)
}

func TestCandidates_ReturnsCopy(t *testing.T) {
	r := NewResolver(&fakeConfig{}, []string{"a", "b"}, nil)
	c := r.Candidates()
	c[0] = "z"
	assert.Equal(t, []string{"a", "b"}, r.Candidates())
}
