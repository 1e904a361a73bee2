// Package catalog provides the list of addons available for install.
//
// The built-in catalog ships with the binary. Users can replace it with a
// catalog.lua file evaluated in a sandboxed Lua VM, which can use the
// read-only platform table to list addons conditionally.
package catalog

import (
	"context"
	"errors"
	"io/fs"

	"go.uber.org/zap"

	"github.com/FlorianBx/wam/internal/addon"
	"github.com/FlorianBx/wam/internal/logging"
)

// FileName is the default name of a user catalog in the app-data directory.
const FileName = "catalog.lua"

// Source loads a catalog.
type Source interface {
	Load(ctx context.Context) ([]addon.Addon, error)
}

// Builtin returns the catalog compiled into wam.
func Builtin() []addon.Addon {
	return []addon.Addon{
		{
			ID:          "RushHour",
			Name:        "RushHour",
			Description: "World of Warcraft addon",
			Icon:        "https://raw.githubusercontent.com/FlorianBx/RushHour/main/icon.png",
			Repo:        "FlorianBx/RushHour",
			Version:     "1.0.0",
		},
		{
			ID:          "craftpad",
			Name:        "CraftPad",
			Description: "Browse and search housing items with their crafting requirements.",
			Icon:        "https://raw.githubusercontent.com/FlorianBx/craftpad/main/icon.png",
			Repo:        "FlorianBx/craftpad",
			Version:     "1.0.0",
		},
	}
}

// StaticSource serves a fixed list of addons.
type StaticSource struct {
	Addons []addon.Addon
}

// Load returns a copy of the list.
func (s StaticSource) Load(ctx context.Context) ([]addon.Addon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]addon.Addon{}, s.Addons...), nil
}

// Fallback tries Primary and serves Secondary when it fails, so loading
// never returns an error unless Secondary does.
type Fallback struct {
	Primary   Source
	Secondary Source
	Logger    *zap.Logger
}

// Load implements Source.
func (f Fallback) Load(ctx context.Context) ([]addon.Addon, error) {
	logger := logging.OrNop(f.Logger).Named("catalog")

	if f.Primary != nil {
		addons, err := f.Primary.Load(ctx)
		switch {
		case err == nil:
			return addons, nil
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("no user catalog, using built-in list")
		default:
			logger.Warn("user catalog unusable, using built-in list", zap.Error(err))
		}
	}

	return f.Secondary.Load(ctx)
}

// Find returns the addon with id, if present.
func Find(addons []addon.Addon, id string) (addon.Addon, bool) {
	for _, a := range addons {
		if a.ID == id {
			return a, true
		}
	}
	return addon.Addon{}, false
}
