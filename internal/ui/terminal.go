// Package ui provides terminal styling and output helpers for the backplan CLI.
package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal returns true if f is connected to a terminal (TTY).
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// ShouldUseColor determines if ANSI color codes should be used on stdout.
// NO_COLOR and CLICOLOR=0 disable color, CLICOLOR_FORCE forces it, and
// otherwise color follows TTY detection.
func ShouldUseColor() bool {
	return colorFor(os.Stdout)
}

// ShouldColorStderr applies the same rules to stderr, where warnings go.
func ShouldColorStderr() bool {
	return colorFor(os.Stderr)
}

func colorFor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if os.Getenv("CLICOLOR_FORCE") != "" {
		return true
	}
	return IsTerminal(f)
}
