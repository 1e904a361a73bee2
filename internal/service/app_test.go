package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlorianBx/wam/internal/addon"
	"github.com/FlorianBx/wam/internal/catalog"
	"github.com/FlorianBx/wam/internal/config"
	"github.com/FlorianBx/wam/internal/errs"
	"github.com/FlorianBx/wam/internal/installpath"
	"github.com/FlorianBx/wam/internal/ledger"
	"github.com/FlorianBx/wam/internal/testutil"
)

var fooAddon = addon.Addon{ID: "Foo", Name: "Foo", Description: "Does foo", Repo: "me/Foo", Version: "1.0.0"}

type fixture struct {
	env    testutil.Env
	app    *App
	hits   *atomic.Int32
	config *config.Store
	ledger *ledger.Ledger
}

// newFixture wires the real stores and a fetcher pointed at a local archive
// host that serves archives by "/owner/name".
func newFixture(t *testing.T, archives map[string][]byte, candidates []string, source catalog.Source) *fixture {
	t.Helper()

	env := testutil.SetupTestEnv(t)
	hits := &atomic.Int32{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		for repo, archive := range archives {
			if r.URL.Path == "/"+repo+"/archive/refs/heads/main.zip" {
				_, _ = w.Write(archive)
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	store := config.NewStore(env.DataDir, nil)
	led := ledger.New(env.DataDir, nil)
	resolver := installpath.NewResolver(store, candidates, nil)
	manager := addon.NewManager(
		resolver,
		addon.NewFetcher(addon.FetcherConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, nil),
		addon.NewExtractor(nil),
		led,
		addon.Options{Clock: addon.TestClock{FixedTime: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}},
	)

	return &fixture{
		env:    env,
		app:    New(store, resolver, manager, source, nil),
		hits:   hits,
		config: store,
		ledger: led,
	}
}

func fooArchive(t *testing.T) map[string][]byte {
	return map[string][]byte{
		"me/Foo": testutil.BuildZip(t,
			testutil.Dir("Foo-main/"),
			testutil.File("Foo-main/init.lua", "print('foo')"),
			testutil.File("Foo-main/sub/x.lua", "x = 1"),
		),
	}
}

func TestApp_GetInstallPath(t *testing.T) {
	t.Run("nothing_exists", func(t *testing.T) {
		f := newFixture(t, nil, []string{"/nonexistent/AddOns"}, nil)

		_, err := f.app.GetInstallPath()
		require.ErrorIs(t, err, errs.ErrPathNotFound)
		assert.Equal(t, installpath.NotFoundMessage, err.Error())
	})

	t.Run("default_candidate", func(t *testing.T) {
		root := t.TempDir()
		f := newFixture(t, nil, []string{"/nonexistent/AddOns", root}, nil)

		got, err := f.app.GetInstallPath()
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})
}

func TestApp_SetInstallPath(t *testing.T) {
	t.Run("persists_override", func(t *testing.T) {
		f := newFixture(t, nil, nil, nil)

		require.NoError(t, f.app.SetInstallPath(f.env.InstallRoot))

		got, err := f.app.GetInstallPath()
		require.NoError(t, err)
		assert.Equal(t, f.env.InstallRoot, got)

		override, ok := f.config.Load().Override()
		require.True(t, ok)
		assert.Equal(t, f.env.InstallRoot, override)
	})

	t.Run("override_wins_over_defaults", func(t *testing.T) {
		f := newFixture(t, nil, []string{t.TempDir()}, nil)

		require.NoError(t, f.app.SetInstallPath(f.env.InstallRoot))

		got, err := f.app.GetInstallPath()
		require.NoError(t, err)
		assert.Equal(t, f.env.InstallRoot, got)
	})

	t.Run("missing_folder", func(t *testing.T) {
		f := newFixture(t, nil, nil, nil)

		err := f.app.SetInstallPath(filepath.Join(f.env.Home, "nope"))
		require.ErrorIs(t, err, errs.ErrPathNotFound)
		assert.Equal(t, SetPathMissingMessage, err.Error())

		_, statErr := os.Stat(f.config.Path())
		assert.True(t, os.IsNotExist(statErr), "config must not be written")
	})

	t.Run("file_instead_of_folder", func(t *testing.T) {
		f := newFixture(t, nil, nil, nil)
		file := filepath.Join(f.env.Home, "file.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		err := f.app.SetInstallPath(file)
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestApp_InstallEndToEnd(t *testing.T) {
	f := newFixture(t, fooArchive(t), nil, catalog.StaticSource{Addons: []addon.Addon{fooAddon}})
	require.NoError(t, f.app.SetInstallPath(f.env.InstallRoot))

	addons, err := f.app.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, addons, 1)

	require.NoError(t, f.app.Install(context.Background(), addons[0]))

	for _, rel := range []string{"init.lua", filepath.Join("sub", "x.lua")} {
		_, err := os.Stat(filepath.Join(f.env.InstallRoot, "Foo", rel))
		assert.NoError(t, err, rel)
	}

	installed := f.app.ListInstalled()
	require.Len(t, installed, 1)
	assert.Equal(t, "Foo", installed[0].ID)
	assert.Equal(t, "1.0.0", installed[0].Version)
	assert.Equal(t, "2024-05-01T12:00:00Z", installed[0].InstalledAt)

	entries, err := f.app.Catalog(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, catalog.StatusInstalled, entries[0].Status)

	require.NoError(t, f.app.Uninstall(context.Background(), "Foo"))
	_, err = os.Stat(filepath.Join(f.env.InstallRoot, "Foo"))
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, f.app.ListInstalled())
}

func TestApp_InstallWithoutInstallRoot(t *testing.T) {
	f := newFixture(t, fooArchive(t), nil, nil)

	err := f.app.Install(context.Background(), fooAddon)
	assert.ErrorIs(t, err, errs.ErrPathNotFound)
	assert.Zero(t, f.hits.Load(), "no download without an install root")
	assert.Empty(t, f.app.ListInstalled())
}

func TestApp_InstallFetchFailure(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	require.NoError(t, f.app.SetInstallPath(f.env.InstallRoot))

	err := f.app.Install(context.Background(), fooAddon)
	require.ErrorIs(t, err, errs.ErrFetch)
	assert.Contains(t, err.Error(), "404")
	assert.Empty(t, f.app.ListInstalled())
}

func TestApp_InstallByID(t *testing.T) {
	t.Run("known_id", func(t *testing.T) {
		f := newFixture(t, fooArchive(t), nil, catalog.StaticSource{Addons: []addon.Addon{fooAddon}})
		require.NoError(t, f.app.SetInstallPath(f.env.InstallRoot))

		require.NoError(t, f.app.InstallByID(context.Background(), "Foo"))
		assert.Len(t, f.app.ListInstalled(), 1)
	})

	t.Run("unknown_id", func(t *testing.T) {
		f := newFixture(t, fooArchive(t), nil, nil)
		require.NoError(t, f.app.SetInstallPath(f.env.InstallRoot))

		err := f.app.InstallByID(context.Background(), "Foo")
		assert.ErrorIs(t, err, errs.ErrInvalidInput)
		assert.Zero(t, f.hits.Load())
	})
}

func TestApp_ListInstalledMalformedLedger(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	require.NoError(t, os.WriteFile(f.ledger.Path(), []byte("{not json"), 0o644))

	assert.Empty(t, f.app.ListInstalled())
}

func TestApp_CatalogStatusAndSearch(t *testing.T) {
	f := newFixture(t, nil, nil, nil)
	require.NoError(t, f.ledger.Replace("craftpad", addon.InstalledAddon{ID: "craftpad", Version: "0.9.0", InstalledAt: "2024-01-01T00:00:00Z"}))

	entries, err := f.app.Catalog(context.Background(), "housing")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "craftpad", entries[0].ID)
	assert.Equal(t, catalog.StatusUpdateAvailable, entries[0].Status)
	assert.Equal(t, "0.9.0", entries[0].InstalledVersion)
}

func TestApp_FetchCatalogFallsBackToBuiltin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, catalog.FileName)
	require.NoError(t, os.WriteFile(path, []byte("catalog = {"), 0o644))

	source := catalog.Fallback{
		Primary:   catalog.NewLuaSource(path, nil, nil),
		Secondary: catalog.StaticSource{Addons: catalog.Builtin()},
	}
	f := newFixture(t, nil, nil, source)

	addons, err := f.app.FetchCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.Builtin(), addons)
}

func TestApp_Async(t *testing.T) {
	f := newFixture(t, fooArchive(t), nil, nil)
	require.NoError(t, f.app.SetInstallPath(f.env.InstallRoot))

	select {
	case err := <-f.app.InstallAsync(context.Background(), fooAddon):
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("install did not complete")
	}
	assert.Len(t, f.app.ListInstalled(), 1)

	done := f.app.UninstallAsync(context.Background(), "Foo")
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("uninstall did not complete")
	}
	_, open := <-done
	assert.False(t, open, "channel is closed after the result")
	assert.Empty(t, f.app.ListInstalled())
}

func TestApp_AsyncReportsError(t *testing.T) {
	f := newFixture(t, nil, nil, nil)

	err := <-f.app.InstallAsync(context.Background(), fooAddon)
	assert.ErrorIs(t, err, errs.ErrPathNotFound)
}

func TestApp_InstallLedgerWriteFailure(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	archive := fooArchive(t)["me/Foo"]
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	t.Cleanup(server.Close)

	store := config.NewStore(env.DataDir, nil)
	require.NoError(t, store.Save(config.AppConfig{}.WithInstallRoot(env.InstallRoot)))
	resolver := installpath.NewResolver(store, nil, nil)

	mem := ledger.NewMemory(addon.InstalledAddon{ID: "Bar", Version: "2.0.0", InstalledAt: "2024-01-01T00:00:00Z"})
	mem.FailWrites = errors.New("read-only filesystem")

	manager := addon.NewManager(resolver,
		addon.NewFetcher(addon.FetcherConfig{BaseURL: server.URL}, nil),
		addon.NewExtractor(nil), mem, addon.Options{})
	app := New(store, resolver, manager, nil, nil)

	err := app.Install(context.Background(), fooAddon)
	require.ErrorIs(t, err, errs.ErrLedgerIO)

	// Files are in place but the ledger is unchanged
	assert.FileExists(t, filepath.Join(env.InstallRoot, "Foo", "init.lua"))
	assert.Equal(t, []addon.InstalledAddon{{ID: "Bar", Version: "2.0.0", InstalledAt: "2024-01-01T00:00:00Z"}}, app.ListInstalled())
}
