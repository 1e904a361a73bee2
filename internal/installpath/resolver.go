// Package installpath decides where addons are installed.
package installpath

import (
	"go.uber.org/zap"

	"github.com/FlorianBx/wam/internal/config"
	"github.com/FlorianBx/wam/internal/errs"
	"github.com/FlorianBx/wam/internal/fsutil"
	"github.com/FlorianBx/wam/internal/logging"
)

// NotFoundMessage is shown when neither the override nor any default exists.
const NotFoundMessage = "WoW AddOns folder not found. Please set the path manually."

// ConfigLoader loads the persisted user configuration.
type ConfigLoader interface {
	Load() config.AppConfig
}

// Resolver resolves the AddOns directory. It holds no state between calls:
// the config and the filesystem are consulted on every Resolve.
type Resolver struct {
	config     ConfigLoader
	candidates []string
	isDir      func(string) bool
	logger     *zap.Logger
}

// NewResolver creates a resolver that prefers the configured override and
// falls back to candidates in order.
func NewResolver(cfg ConfigLoader, candidates []string, logger *zap.Logger) *Resolver {
	return &Resolver{
		config:     cfg,
		candidates: append([]string(nil), candidates...),
		isDir:      fsutil.IsDir,
		logger:     logging.OrNop(logger).Named("installpath"),
	}
}

// Candidates returns the platform default directories in resolution order.
func (r *Resolver) Candidates() []string {
	return append([]string(nil), r.candidates...)
}

// Resolve returns the configured override if it exists, otherwise the first
// existing default candidate. It fails with a PathNotFound error when
// nothing exists.
func (r *Resolver) Resolve() (string, error) {
	if override, ok := r.config.Load().Override(); ok {
		if r.isDir(override) {
			return override, nil
		}
		r.logger.Warn("configured install root does not exist, trying defaults", zap.String("path", override))
	}

	for _, candidate := range r.candidates {
		if r.isDir(candidate) {
			r.logger.Debug("using default install root", zap.String("path", candidate))
			return candidate, nil
		}
	}

	return "", errs.New(errs.KindPathNotFound, "", NotFoundMessage, nil)
}
