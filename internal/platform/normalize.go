package platform

import "strings"

// normalizeArch converts GOARCH aliases to canonical names. Unknown values
// are passed through; addon installs do not depend on the architecture.
func normalizeArch(arch string) string {
	switch arch {
	case "amd64", "x86_64":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	default:
		return arch
	}
}

// normalizeID converts platform IDs to lowercase for consistency.
func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
