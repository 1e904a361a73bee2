package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/FlorianBx/wam/internal/platform"
)

// EnvPrefix is the prefix of every environment variable read by LoadSettings.
const EnvPrefix = "WAM"

// Settings are process-level settings taken from the environment.
type Settings struct {
	// DataDir overrides the application-data directory.
	DataDir string `envconfig:"DATA_DIR"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
	// HTTPTimeout bounds a single archive download.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"2m"`
	// ArchiveBaseURL is the host serving "<owner>/<name>/archive/..." downloads.
	ArchiveBaseURL string `envconfig:"ARCHIVE_BASE_URL" default:"https://github.com"`
	// UserAgent identifies the client to the archive host.
	UserAgent string `envconfig:"USER_AGENT" default:"WoW-Addon-Manager"`
	// CatalogFile points to a Lua catalog; defaults to catalog.lua in DataDir.
	CatalogFile string `envconfig:"CATALOG_FILE"`
}

// LoadSettings reads Settings from WAM_* environment variables.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if s.HTTPTimeout <= 0 {
		return Settings{}, fmt.Errorf("load settings: %s_HTTP_TIMEOUT must be positive", EnvPrefix)
	}
	return s, nil
}

// ResolveDataDir returns s.DataDir when set, the platform default otherwise.
func (s Settings) ResolveDataDir(info *platform.Info) string {
	if s.DataDir != "" {
		return s.DataDir
	}
	return platform.DataDir(info)
}
