package service

import (
	"context"

	"github.com/FlorianBx/wam/internal/addon"
)

// InstallAsync runs Install on its own goroutine. The returned channel
// receives exactly one value (nil on success) and is then closed.
func (a *App) InstallAsync(ctx context.Context, target addon.Addon) <-chan error {
	return runAsync(func() error { return a.Install(ctx, target) })
}

// UninstallAsync runs Uninstall on its own goroutine. The returned channel
// receives exactly one value (nil on success) and is then closed.
func (a *App) UninstallAsync(ctx context.Context, id string) <-chan error {
	return runAsync(func() error { return a.Uninstall(ctx, id) })
}

func runAsync(fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- fn()
	}()
	return done
}
