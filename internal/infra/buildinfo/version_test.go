package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	tests := []struct {
		name  string
		value string
	}{
		{"Version", info.Version},
		{"Commit", info.Commit},
		{"BuildTime", info.BuildTime},
		{"GoVersion", info.GoVersion},
		{"Platform", info.Platform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Errorf("%s field should not be empty", tt.name)
			}
		})
	}

	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Platform = %q", info.Platform)
	}
}

func TestGet_GoVersionFallback(t *testing.T) {
	if GoVersion == "" && Get().GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", Get().GoVersion, runtime.Version())
	}
}

func TestString(t *testing.T) {
	info := Get()

	expected := info.Version + " (" + info.Commit + ") built at " + info.BuildTime
	if s := String(); s != expected {
		t.Errorf("String() = %q, want %q", s, expected)
	}
	if !strings.Contains(String(), "built at") {
		t.Error("String() should mention the build time")
	}
}

func TestShortRev(t *testing.T) {
	if got := shortRev("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("shortRev() = %q", got)
	}
	if got := shortRev("abc"); got != "abc" {
		t.Errorf("shortRev() = %q", got)
	}
}
