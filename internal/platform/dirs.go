package platform

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under the application-data root.
const AppName = "wow-addon-manager"

// LocalAppDataDir returns the per-user local application data directory.
//
//   - Windows: %LOCALAPPDATA%  (e.g. C:\Users\Alice\AppData\Local)
//   - macOS:   ~/Library/Application Support
//   - Linux:   $XDG_DATA_HOME or ~/.local/share
//
// It falls back to "." when no home directory can be determined.
func LocalAppDataDir(info *Info) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	switch info.OS {
	case "windows":
		if v := os.Getenv("LOCALAPPDATA"); v != "" {
			return v
		}
		return filepath.Join(home, "AppData", "Local")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support")
	default:
		if v := os.Getenv("XDG_DATA_HOME"); v != "" {
			return v
		}
		return filepath.Join(home, ".local", "share")
	}
}

// DataDir returns the wam data directory holding config.json and installed.json.
func DataDir(info *Info) string {
	return filepath.Join(LocalAppDataDir(info), AppName)
}

// retailAddOns is the AddOns directory relative to a World of Warcraft install.
var retailAddOns = []string{"_retail_", "Interface", "AddOns"}

func wowAddOns(base ...string) string {
	return filepath.Join(append(base, retailAddOns...)...)
}

// AddOnsCandidates returns the conventional AddOns directories for the
// platform, most likely first. The list is static; callers check existence.
func AddOnsCandidates(info *Info, home string) []string {
	switch info.OS {
	case "darwin":
		candidates := []string{wowAddOns("/Applications", "World of Warcraft")}
		if home != "" {
			candidates = append(candidates, wowAddOns(home, "Applications", "World of Warcraft"))
		}
		return candidates
	case "windows":
		return []string{
			wowAddOns(`C:\Program Files (x86)`, "World of Warcraft"),
			wowAddOns(`C:\Program Files`, "World of Warcraft"),
		}
	case "linux":
		if home == "" {
			return nil
		}
		// Wine prefixes created by Lutris and plain wine
		return []string{
			wowAddOns(home, "Games", "world-of-warcraft", "drive_c", "Program Files (x86)", "World of Warcraft"),
			wowAddOns(home, ".wine", "drive_c", "Program Files (x86)", "World of Warcraft"),
		}
	default:
		return nil
	}
}
