package catalog

import (
	"strings"

	"github.com/FlorianBx/wam/internal/addon"
)

// Status describes a catalog addon relative to the ledger.
type Status string

const (
	StatusNotInstalled    Status = "not-installed"
	StatusInstalled       Status = "installed"
	StatusUpdateAvailable Status = "update-available"
)

// Entry is a catalog addon annotated with its install status.
type Entry struct {
	addon.Addon
	Status           Status `json:"status"`
	InstalledVersion string `json:"installedVersion,omitempty"`
}

// WithStatus annotates every catalog addon. Versions are opaque labels: any
// difference between the installed and catalog label is an update.
func WithStatus(addons []addon.Addon, installed []addon.InstalledAddon) []Entry {
	byID := make(map[string]addon.InstalledAddon, len(installed))
	for _, rec := range installed {
		byID[rec.ID] = rec
	}

	entries := make([]Entry, 0, len(addons))
	for _, a := range addons {
		entry := Entry{Addon: a, Status: StatusNotInstalled}
		if rec, ok := byID[a.ID]; ok {
			entry.InstalledVersion = rec.Version
			entry.Status = StatusInstalled
			if rec.Version != a.Version {
				entry.Status = StatusUpdateAvailable
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// Search keeps entries whose name or description contains query, ignoring
// case. An empty query keeps everything.
func Search(entries []Entry, query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}

	var matches []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), query) ||
			strings.Contains(strings.ToLower(e.Description), query) {
			matches = append(matches, e)
		}
	}
	return matches
}
