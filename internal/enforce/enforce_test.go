package enforce

import (
	"strings"
	"testing"
)

func TestComputeContentHash(t *testing.T) {
	hash := ComputeContentHash("hello world")
	if !strings.HasPrefix(hash, "sha256:") {
		t.Errorf("hash should start with sha256:, got %s", hash)
	}
	// Same input should produce same hash.
	if hash != ComputeContentHash("hello world") {
		t.Error("same input should produce same hash")
	}
	// Surrounding whitespace is not content.
	if hash != ComputeContentHash("\n hello world\n\n") {
		t.Error("surrounding whitespace should not change the hash")
	}
	// Different input should produce different hash.
	if hash == ComputeContentHash("different") {
		t.Error("different input should produce different hash")
	}
}

func TestSafeToClean(t *testing.T) {
	for _, bad := range []string{"", "  ", ".", "/", "./", "//", "./.", "/./", " / "} {
		if err := SafeToClean(bad); err == nil {
			t.Errorf("SafeToClean(%q) should refuse", bad)
		}
	}
	for _, ok := range []string{"dist", "./dist", "/tmp/plan-out", "../out"} {
		if err := SafeToClean(ok); err != nil {
			t.Errorf("SafeToClean(%q): %v", ok, err)
		}
	}
}
