// Package platform provides the platform services wam depends on: OS
// detection, the per-user application-data directory, the conventional game
// install locations per OS, and the read-only platform table exposed to Lua
// catalog files.
package platform

import "context"

// Info contains platform detection information.
type Info struct {
	OS      string // "linux", "darwin", "windows"
	Arch    string // "amd64", "arm64" (normalized, raw GOARCH otherwise)
	Distro  string // distro ID (Linux only, e.g., "ubuntu", "steamos")
	Version string // distro version (Linux only)
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector returns a fixed Info. Useful when the platform is already
// known or in tests.
type StaticDetector struct {
	Info Info
}

// Detect returns a copy of the fixed info.
func (s StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info := s.Info
	return &info, nil
}
