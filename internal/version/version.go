// Package version reports the cmdbind build version.
package version

import "runtime/debug"

// Version is set at build time via
// -ldflags "-X github.com/xdg/cmdbind/internal/version.Version=v1.0.0".
var Version = "dev"

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns Version, or the module version recorded by `go install`
// when no version was stamped in.
func String() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Version
}
