// Package ledger persists the list of installed addons in installed.json.
//
// Reads never fail: a missing or corrupt ledger reads as empty. Writes are
// full-file rewrites (read, mutate in memory, write back), which is fine for
// a small single-writer file.
package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/FlorianBx/wam/internal/addon"
	"github.com/FlorianBx/wam/internal/errs"
	"github.com/FlorianBx/wam/internal/fsutil"
	"github.com/FlorianBx/wam/internal/logging"
)

// FileName is the name of the ledger file under the data directory.
const FileName = "installed.json"

// document is the on-disk shape of installed.json.
type document struct {
	Addons []addon.InstalledAddon `json:"addons"`
}

// Ledger is the file-backed installed-addon ledger.
type Ledger struct {
	path   string
	logger *zap.Logger
}

// New creates a ledger backed by dataDir/installed.json.
func New(dataDir string, logger *zap.Logger) *Ledger {
	return &Ledger{
		path:   filepath.Join(dataDir, FileName),
		logger: logging.OrNop(logger).Named("ledger"),
	}
}

// Path returns the location of the ledger file.
func (l *Ledger) Path() string {
	return l.path
}

// LoadAll returns every record in file order. Missing, unreadable or
// malformed files yield an empty slice.
func (l *Ledger) LoadAll() []addon.InstalledAddon {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			l.logger.Warn("ledger unreadable, treating as empty", zap.String("path", l.path), zap.Error(err))
		}
		return []addon.InstalledAddon{}
	}

	records, err := decode(data)
	if err != nil {
		l.logger.Warn("ledger malformed, treating as empty", zap.String("path", l.path), zap.Error(err))
		return []addon.InstalledAddon{}
	}

	return records
}

// Get returns the record for id, if any.
func (l *Ledger) Get(id string) (addon.InstalledAddon, bool) {
	for _, rec := range l.LoadAll() {
		if rec.ID == id {
			return rec, true
		}
	}
	return addon.InstalledAddon{}, false
}

// Replace removes any record with id, appends rec, and persists the ledger.
func (l *Ledger) Replace(id string, rec addon.InstalledAddon) error {
	rec, err := checkRecord(id, rec)
	if err != nil {
		return err
	}

	records := append(without(l.LoadAll(), id), rec)
	if err := l.write(records); err != nil {
		return err
	}

	l.logger.Debug("ledger record replaced", zap.String("id", id), zap.String("version", rec.Version))
	return nil
}

// Remove drops any record with id and persists the ledger. Removing an
// unknown id is not an error.
func (l *Ledger) Remove(id string) error {
	if err := l.write(without(l.LoadAll(), id)); err != nil {
		return err
	}

	l.logger.Debug("ledger record removed", zap.String("id", id))
	return nil
}

func (l *Ledger) write(records []addon.InstalledAddon) error {
	data, err := encode(records)
	if err != nil {
		return errs.New(errs.KindLedgerIO, "write ledger", "could not encode installed addons", err)
	}
	if err := fsutil.WriteFileAtomic(l.path, data, 0o644); err != nil {
		return errs.New(errs.KindLedgerIO, "write ledger", "could not write "+l.path, err)
	}
	return nil
}

// checkRecord fills an empty record id and rejects a mismatched one.
func checkRecord(id string, rec addon.InstalledAddon) (addon.InstalledAddon, error) {
	if rec.ID == "" {
		rec.ID = id
	}
	if rec.ID != id {
		return rec, errs.New(errs.KindInvalidInput, "replace ledger record",
			fmt.Sprintf("record id %q does not match %q", rec.ID, id), nil)
	}
	return rec, nil
}

// without returns records minus every entry with id, preserving order.
func without(records []addon.InstalledAddon, id string) []addon.InstalledAddon {
	kept := make([]addon.InstalledAddon, 0, len(records))
	for _, rec := range records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	return kept
}

func encode(records []addon.InstalledAddon) ([]byte, error) {
	if records == nil {
		records = []addon.InstalledAddon{}
	}
	return sonic.ConfigStd.MarshalIndent(document{Addons: records}, "", "  ")
}

// decode parses installed.json content. Empty content is malformed.
func decode(data []byte) ([]addon.InstalledAddon, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty ledger file")
	}
	var doc document
	if err := sonic.ConfigStd.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	if doc.Addons == nil {
		return []addon.InstalledAddon{}, nil
	}
	return doc.Addons, nil
}
