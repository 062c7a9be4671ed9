package version

import (
	"strings"
	"testing"
)

func TestVersionString(t *testing.T) {
	if Version == "" || BuildTime == "" || GitCommit == "" {
		t.Fatal("build metadata must be initialized")
	}
	s := String()
	if !strings.HasPrefix(s, "uibundler ") || !strings.Contains(s, GitCommit) {
		t.Fatalf("unexpected version string %q", s)
	}
}
