package addon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FlorianBx/wam/internal/errs"
	"github.com/FlorianBx/wam/internal/logging"
)

// PathResolver resolves the install root.
type PathResolver interface {
	Resolve() (string, error)
}

// ArchiveFetcher downloads the archive of an "owner/name" repository.
type ArchiveFetcher interface {
	Fetch(ctx context.Context, repo string) ([]byte, error)
}

// ArchiveExtractor unpacks an archive into destDir, keeping entries under prefix.
type ArchiveExtractor interface {
	Extract(archive []byte, destDir, prefix string) error
}

// Ledger records installed addons.
type Ledger interface {
	LoadAll() []InstalledAddon
	Replace(id string, rec InstalledAddon) error
	Remove(id string) error
}

// Options holds optional Manager collaborators.
type Options struct {
	Clock  Clock
	Logger *zap.Logger
}

// Manager orchestrates addon install and uninstall.
type Manager struct {
	resolver  PathResolver
	fetcher   ArchiveFetcher
	extractor ArchiveExtractor
	ledger    Ledger
	clock     Clock
	logger    *zap.Logger
}

// NewManager creates a new addon manager
func NewManager(resolver PathResolver, fetcher ArchiveFetcher, extractor ArchiveExtractor, ledger Ledger, opts Options) *Manager {
	clock := opts.Clock
	if clock == nil {
		clock = RealClock{}
	}

	return &Manager{
		resolver:  resolver,
		fetcher:   fetcher,
		extractor: extractor,
		ledger:    ledger,
		clock:     clock,
		logger:    logging.OrNop(opts.Logger).Named("manager"),
	}
}

// Install downloads addon's archive, extracts it into <install root>/<id>
// and replaces the addon's ledger record. The ledger is written only after a
// successful extraction.
func (m *Manager) Install(ctx context.Context, addon Addon) error {
	log := m.opLogger("install", addon.ID)

	if err := ValidateID(addon.ID); err != nil {
		return err
	}
	prefix, err := ArchivePrefix(addon.Repo)
	if err != nil {
		return err
	}

	root, err := m.resolver.Resolve()
	if err != nil {
		return err
	}

	log.Info("installing addon", zap.String("repo", addon.Repo), zap.String("version", addon.Version))

	archive, err := m.fetcher.Fetch(ctx, addon.Repo)
	if err != nil {
		log.Warn("download failed", zap.Error(err))
		return err
	}

	dest := filepath.Join(root, addon.ID)
	if err := m.extractor.Extract(archive, dest, prefix); err != nil {
		log.Warn("extraction failed", zap.String("dest", dest), zap.Error(err))
		return err
	}

	record := InstalledAddon{
		ID:          addon.ID,
		Version:     addon.Version,
		InstalledAt: m.clock.Now().UTC().Format(time.RFC3339),
	}
	if err := m.ledger.Replace(addon.ID, record); err != nil {
		return err
	}

	log.Info("addon installed", zap.String("dest", dest))
	return nil
}

// Uninstall removes <install root>/<id> if present and always drops the
// ledger record, so a ledger entry without a directory is repaired too.
func (m *Manager) Uninstall(ctx context.Context, id string) error {
	log := m.opLogger("uninstall", id)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateID(id); err != nil {
		return err
	}

	root, err := m.resolver.Resolve()
	if err != nil {
		return err
	}

	dir := filepath.Join(root, id)
	if _, err := os.Stat(dir); err == nil {
		if err := os.RemoveAll(dir); err != nil {
			return errs.New(errs.KindRemove, "uninstall "+id, "could not remove "+dir, err)
		}
		log.Info("addon directory removed", zap.String("dir", dir))
	} else if !errors.Is(err, os.ErrNotExist) {
		return errs.New(errs.KindRemove, "uninstall "+id, "could not inspect "+dir, err)
	}

	if err := m.ledger.Remove(id); err != nil {
		return err
	}

	log.Info("addon uninstalled")
	return nil
}

// Installed returns the ledger records.
func (m *Manager) Installed() []InstalledAddon {
	return m.ledger.LoadAll()
}

func (m *Manager) opLogger(op, id string) *zap.Logger {
	return m.logger.With(
		zap.String("op", op),
		zap.String("op_id", uuid.NewString()),
		zap.String("addon", id))
}
