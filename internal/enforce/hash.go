package enforce

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// ComputeContentHash returns the SHA-256 hash of a draft body.
// Surrounding whitespace is ignored so re-rendering with a different trailing
// newline does not count as drift.
func ComputeContentHash(body string) string {
	h := sha256.Sum256([]byte(strings.TrimSpace(body)))
	return fmt.Sprintf("sha256:%x", h)
}
