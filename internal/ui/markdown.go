package ui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const maxReadableWidth = 100

// RenderMarkdown renders a plan or draft for the terminal. theme is "light",
// "dark" or empty for glamour's auto-detection. The input is returned as-is
// when color is off or rendering fails.
func RenderMarkdown(markdown, theme string) string {
	if !ShouldUseColor() {
		return markdown
	}

	style := glamour.WithAutoStyle()
	if theme == "light" || theme == "dark" {
		style = glamour.WithStandardStyle(theme)
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrapWidth()))
	if err != nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}

func wrapWidth() int {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	return min(width, maxReadableWidth)
}
