package ledger

import (
	"sync"

	"github.com/FlorianBx/wam/internal/addon"
	"github.com/FlorianBx/wam/internal/errs"
)

// Memory is an in-memory ledger with the same contract as Ledger.
type Memory struct {
	mu      sync.Mutex
	records []addon.InstalledAddon
	// FailWrites makes Replace and Remove return a LedgerIO error.
	FailWrites error
}

// NewMemory creates an in-memory ledger seeded with records.
func NewMemory(records ...addon.InstalledAddon) *Memory {
	return &Memory{records: append([]addon.InstalledAddon{}, records...)}
}

// LoadAll returns a copy of the records.
func (m *Memory) LoadAll() []addon.InstalledAddon {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]addon.InstalledAddon{}, m.records...)
}

// Replace removes any record with id and appends rec.
func (m *Memory) Replace(id string, rec addon.InstalledAddon) error {
	rec, err := checkRecord(id, rec)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure(); err != nil {
		return err
	}
	m.records = append(without(m.records, id), rec)
	return nil
}

// Remove drops any record with id.
func (m *Memory) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure(); err != nil {
		return err
	}
	m.records = without(m.records, id)
	return nil
}

func (m *Memory) failure() error {
	if m.FailWrites == nil {
		return nil
	}
	return errs.New(errs.KindLedgerIO, "write ledger", "in-memory ledger write failed", m.FailWrites)
}
