package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/FlorianBx/wam/internal/errs"
	"github.com/FlorianBx/wam/internal/fsutil"
	"github.com/FlorianBx/wam/internal/logging"
)

// ConfigFileName is the name of the persisted user configuration file.
const ConfigFileName = "config.json"

// AppConfig is the persisted user configuration.
type AppConfig struct {
	// InstallRoot is the user-selected AddOns directory. nil means
	// "use platform defaults".
	InstallRoot *string `json:"installRoot"`
}

// Override returns the configured install root, if one is set.
func (c AppConfig) Override() (string, bool) {
	if c.InstallRoot == nil || *c.InstallRoot == "" {
		return "", false
	}
	return *c.InstallRoot, true
}

// WithInstallRoot returns a copy of c with the install root set to path.
func (c AppConfig) WithInstallRoot(path string) AppConfig {
	c.InstallRoot = &path
	return c
}

// Store reads and writes config.json under the application-data directory.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore creates a store for dataDir/config.json.
func NewStore(dataDir string, logger *zap.Logger) *Store {
	return &Store{
		path:   filepath.Join(dataDir, ConfigFileName),
		logger: logging.OrNop(logger).Named("config"),
	}
}

// Path returns the location of the config file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted configuration. It never fails: a missing,
// unreadable or malformed file yields the default configuration.
func (s *Store) Load() AppConfig {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("config unreadable, using defaults", zap.String("path", s.path), zap.Error(err))
		}
		return AppConfig{}
	}

	cfg, err := decode(data)
	if err != nil {
		s.logger.Warn("config malformed, using defaults", zap.String("path", s.path), zap.Error(err))
		return AppConfig{}
	}

	return cfg
}

// Save writes cfg as indented JSON, creating the data directory if needed.
func (s *Store) Save(cfg AppConfig) error {
	data, err := sonic.ConfigStd.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errs.New(errs.KindConfigIO, "save config", "could not encode configuration", err)
	}

	if err := fsutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return errs.New(errs.KindConfigIO, "save config", "could not write "+s.path, err)
	}

	s.logger.Debug("config saved", zap.String("path", s.path))
	return nil
}

// decode parses config.json content. Empty content is malformed.
func decode(data []byte) (AppConfig, error) {
	var cfg AppConfig
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, fmt.Errorf("empty config file")
	}
	if err := sonic.ConfigStd.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
