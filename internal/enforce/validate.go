package enforce

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SafeToClean rejects directory targets whose removal would be destructive:
// the empty path, the working directory and the filesystem root.
func SafeToClean(dir string) error {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return fmt.Errorf("refusing to clean an empty output path")
	}
	clean := filepath.Clean(trimmed)
	if clean == "." || clean == "/" || clean == string(filepath.Separator) {
		return fmt.Errorf("refusing to clean %q", dir)
	}
	return nil
}
