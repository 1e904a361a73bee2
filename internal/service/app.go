// Package service provides the operations behind every wam command.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/FlorianBx/wam/internal/addon"
	"github.com/FlorianBx/wam/internal/catalog"
	"github.com/FlorianBx/wam/internal/config"
	"github.com/FlorianBx/wam/internal/errs"
	"github.com/FlorianBx/wam/internal/fsutil"
	"github.com/FlorianBx/wam/internal/logging"
)

const (
	// SetPathMissingMessage is returned when the selected folder does not exist.
	SetPathMissingMessage = "The selected folder does not exist."
	// SetPathNotDirMessage is returned when the selected path is a file.
	SetPathNotDirMessage = "The selected path is not a folder."
)

// ConfigStore loads and saves the user configuration.
type ConfigStore interface {
	Load() config.AppConfig
	Save(cfg config.AppConfig) error
}

// PathResolver resolves the install root.
type PathResolver interface {
	Resolve() (string, error)
}

// Installer installs and removes addons.
type Installer interface {
	Install(ctx context.Context, a addon.Addon) error
	Uninstall(ctx context.Context, id string) error
	Installed() []addon.InstalledAddon
}

// App exposes the user-facing operations.
type App struct {
	config    ConfigStore
	resolver  PathResolver
	installer Installer
	catalog   catalog.Source
	logger    *zap.Logger
}

// New creates an App. A nil source serves the built-in catalog.
func New(cfg ConfigStore, resolver PathResolver, installer Installer, source catalog.Source, logger *zap.Logger) *App {
	if source == nil {
		source = catalog.StaticSource{Addons: catalog.Builtin()}
	}
	return &App{
		config:    cfg,
		resolver:  resolver,
		installer: installer,
		catalog:   source,
		logger:    logging.OrNop(logger).Named("service"),
	}
}

// GetInstallPath returns the directory addons are installed into.
func (a *App) GetInstallPath() (string, error) {
	return a.resolver.Resolve()
}

// SetInstallPath persists path as the install root override.
func (a *App) SetInstallPath(path string) error {
	if !fsutil.Exists(path) {
		return errs.New(errs.KindPathNotFound, "", SetPathMissingMessage, nil)
	}
	if !fsutil.IsDir(path) {
		return errs.New(errs.KindInvalidInput, "", SetPathNotDirMessage, nil)
	}

	if err := a.config.Save(a.config.Load().WithInstallRoot(path)); err != nil {
		return err
	}

	a.logger.Info("install path updated", zap.String("path", path))
	return nil
}

// FetchCatalog returns the installable addons.
func (a *App) FetchCatalog(ctx context.Context) ([]addon.Addon, error) {
	addons, err := a.catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return addons, nil
}

// ListInstalled returns the ledger records. It never fails.
func (a *App) ListInstalled() []addon.InstalledAddon {
	return a.installer.Installed()
}

// Catalog returns the catalog annotated with install status, filtered by
// query (case-insensitive, name or description).
func (a *App) Catalog(ctx context.Context, query string) ([]catalog.Entry, error) {
	addons, err := a.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Search(catalog.WithStatus(addons, a.ListInstalled()), query), nil
}

// Install installs target.
func (a *App) Install(ctx context.Context, target addon.Addon) error {
	return a.installer.Install(ctx, target)
}

// InstallByID looks id up in the catalog and installs it.
func (a *App) InstallByID(ctx context.Context, id string) error {
	addons, err := a.FetchCatalog(ctx)
	if err != nil {
		return err
	}

	found, ok := catalog.Find(addons, id)
	if !ok {
		return errs.New(errs.KindInvalidInput, "install", fmt.Sprintf("addon %q is not in the catalog", id), nil)
	}
	return a.installer.Install(ctx, found)
}

// Uninstall removes the addon with id.
func (a *App) Uninstall(ctx context.Context, id string) error {
	return a.installer.Uninstall(ctx, id)
}
