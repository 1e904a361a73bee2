package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/FlorianBx/wam/internal/addon"
	"github.com/FlorianBx/wam/internal/catalog"
	"github.com/FlorianBx/wam/internal/config"
	"github.com/FlorianBx/wam/internal/installpath"
	"github.com/FlorianBx/wam/internal/ledger"
	"github.com/FlorianBx/wam/internal/logging"
	"github.com/FlorianBx/wam/internal/platform"
	"github.com/FlorianBx/wam/internal/service"
)

// session is a wired app and the data directory it persists state in.
type session struct {
	app     *service.App
	dataDir string
	release func()
}

// appFactory builds the service graph.
type appFactory func(ctx context.Context, verbose bool) (*session, error)

// buildApp wires settings, logging, platform detection and the stores.
func buildApp(ctx context.Context, verbose bool) (*session, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = settings.LogLevel
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	cleanup := func() { _ = logger.Sync() }

	detector := platform.NewDetector()
	info, err := detector.Detect(ctx)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("detect platform: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		logger.Debug("no home directory, skipping per-user candidates", zap.Error(err))
		home = ""
	}

	dataDir := settings.ResolveDataDir(info)
	logger.Debug("using data directory", zap.String("path", dataDir), zap.String("os", info.OS))

	store := config.NewStore(dataDir, logger)
	resolver := installpath.NewResolver(store, platform.AddOnsCandidates(info, home), logger)

	fetcher := addon.NewFetcher(addon.FetcherConfig{
		BaseURL:   settings.ArchiveBaseURL,
		UserAgent: settings.UserAgent,
		Timeout:   settings.HTTPTimeout,
	}, logger)
	manager := addon.NewManager(resolver, fetcher, addon.NewExtractor(logger), ledger.New(dataDir, logger), addon.Options{
		Logger: logger,
	})

	catalogFile := settings.CatalogFile
	if catalogFile == "" {
		catalogFile = filepath.Join(dataDir, catalog.FileName)
	}
	source := catalog.Fallback{
		Primary:   catalog.NewLuaSource(catalogFile, platform.StaticDetector{Info: *info}, logger),
		Secondary: catalog.StaticSource{Addons: catalog.Builtin()},
		Logger:    logger,
	}

	return &session{
		app:     service.New(store, resolver, manager, source, logger),
		dataDir: dataDir,
		release: cleanup,
	}, nil
}
