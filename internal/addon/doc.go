// Package addon downloads, extracts, and records World of Warcraft addons.
//
// # Install flow
//
// Manager.Install resolves the AddOns directory, downloads the addon's
// default-branch zip from its "owner/name" repository, extracts it into
// <install root>/<addon id>, and replaces the addon's ledger record:
//
//	mgr := addon.NewManager(resolver, fetcher, addon.NewExtractor(nil), ledger, addon.Options{})
//	err := mgr.Install(ctx, addon.Addon{ID: "Foo", Repo: "me/Foo", Version: "1.0.0"})
//
// # Extraction safety
//
// Branch archives wrap every file in a "<name>-main/" directory. Only entries
// under that prefix are written, and the output path is always derived from
// the suffix after the prefix (see RelativeSafePath). Suffixes that would
// escape the addon directory are skipped.
//
// # Failure model
//
// Any step's failure aborts the install without touching the ledger. A
// failed extraction can leave a partial addon directory on disk; the next
// successful install of the same id recreates the directory from scratch.
//
// The Manager does no locking. Callers must not run installs concurrently.
package addon
