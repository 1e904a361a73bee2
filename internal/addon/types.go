package addon

import (
	"fmt"
	"strings"

	"github.com/FlorianBx/wam/internal/errs"
)

// DefaultBranch is the branch whose archive is downloaded for every addon.
const DefaultBranch = "main"

// Addon is a catalog entry. The catalog owns it; the installer only reads it.
type Addon struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Repo        string `json:"repo"`    // "owner/name"
	Version     string `json:"version"` // opaque label, never compared semantically
}

// InstalledAddon is one ledger record.
type InstalledAddon struct {
	ID          string `json:"id"`
	Version     string `json:"version"`
	InstalledAt string `json:"installedAt"` // RFC 3339, set once at install
}

// ValidateID checks that id can be used as a single directory name under the
// install root.
func ValidateID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return errs.New(errs.KindInvalidInput, "validate addon id", "addon id is empty", nil)
	case id == "." || id == "..":
		return errs.New(errs.KindInvalidInput, "validate addon id", fmt.Sprintf("addon id %q is not a valid directory name", id), nil)
	case strings.ContainsAny(id, `/\:`) || strings.ContainsRune(id, 0):
		return errs.New(errs.KindInvalidInput, "validate addon id", fmt.Sprintf("addon id %q must not contain path separators", id), nil)
	}
	return nil
}

// ParseRepo splits an "owner/name" identifier.
func ParseRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errs.New(errs.KindInvalidInput, "parse repo", fmt.Sprintf("repo %q must have the form owner/name", repo), nil)
	}
	for _, p := range parts {
		if p == "." || p == ".." || strings.ContainsAny(p, `\?#% `) {
			return "", "", errs.New(errs.KindInvalidInput, "parse repo", fmt.Sprintf("repo %q contains an invalid segment", repo), nil)
		}
	}
	return parts[0], parts[1], nil
}

// ArchivePrefix returns the top-level directory the branch archive wraps all
// content in: "<name>-main/".
func ArchivePrefix(repo string) (string, error) {
	_, name, err := ParseRepo(repo)
	if err != nil {
		return "", err
	}
	return name + "-" + DefaultBranch + "/", nil
}
