package version

import (
	"runtime/debug"
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		mainVer   string
		haveBuild bool
		want      string
	}{
		{"stamped version wins", "v1.2.0", "v1.1.0", true, "v1.2.0"},
		{"go install version", "dev", "v1.1.0", true, "v1.1.0"},
		{"local build", "dev", "(devel)", true, "dev"},
		{"no build info", "dev", "", false, "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origVersion, origRead := Version, readBuildInfo
			defer func() { Version, readBuildInfo = origVersion, origRead }()

			Version = tt.version
			readBuildInfo = func() (*debug.BuildInfo, bool) {
				if !tt.haveBuild {
					return nil, false
				}
				return &debug.BuildInfo{Main: debug.Module{Version: tt.mainVer}}, true
			}

			if got := String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
