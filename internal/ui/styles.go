package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	if !ShouldUseColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// Ayu theme color palette
var (
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	}

	// Lifecycle colors, cold to warm as an item matures.
	ColorStatusScaffolded = lipgloss.AdaptiveColor{
		Light: "#a37acc",
		Dark:  "#d2a6ff",
	}
	ColorStatusMVP = lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	}
	ColorStatusHardened = lipgloss.AdaptiveColor{
		Light: "#ff8f40",
		Dark:  "#ff8f40",
	}
	ColorStatusShipped = lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#aad94c",
	}

	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f26d78",
	}
)

// Styles
var (
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
	BoldStyle   = lipgloss.NewStyle().Bold(true)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)

	StatusScaffoldedStyle = lipgloss.NewStyle().Foreground(ColorStatusScaffolded)
	StatusMVPStyle        = lipgloss.NewStyle().Foreground(ColorStatusMVP)
	StatusHardenedStyle   = lipgloss.NewStyle().Foreground(ColorStatusHardened)
	StatusShippedStyle    = lipgloss.NewStyle().Foreground(ColorStatusShipped)
)

// Status icons
const (
	StatusIconBacklog    = "○"
	StatusIconScaffolded = "◔"
	StatusIconMVP        = "◑"
	StatusIconHardened   = "◕"
	StatusIconShipped    = "●"

	IconPublished = "✓"
	IconPending   = "·"
	IconDrifted   = "~"
)

// RenderStatusIcon returns the icon for a lifecycle status with coloring.
func RenderStatusIcon(status string) string {
	switch status {
	case "backlog":
		return StatusIconBacklog
	case "scaffolded":
		return StatusScaffoldedStyle.Render(StatusIconScaffolded)
	case "mvp":
		return StatusMVPStyle.Render(StatusIconMVP)
	case "hardened":
		return StatusHardenedStyle.Render(StatusIconHardened)
	case "shipped":
		return StatusShippedStyle.Render(StatusIconShipped)
	default:
		return "?"
	}
}

// RenderStatus renders a status string with coloring.
func RenderStatus(status string) string {
	switch status {
	case "scaffolded":
		return StatusScaffoldedStyle.Render(status)
	case "mvp":
		return StatusMVPStyle.Render(status)
	case "hardened":
		return StatusHardenedStyle.Render(status)
	case "shipped":
		return StatusShippedStyle.Render(status)
	default:
		return status
	}
}

// RenderPublishState renders the ledger marker for an item.
func RenderPublishState(published, drifted bool) string {
	switch {
	case published && drifted:
		return WarnStyle.Render(IconDrifted)
	case published:
		return StatusShippedStyle.Render(IconPublished)
	default:
		return MutedStyle.Render(IconPending)
	}
}

// RenderMuted renders text in muted gray.
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderBold renders text in bold.
func RenderBold(s string) string {
	return BoldStyle.Render(s)
}

// RenderAccent renders text with accent color.
func RenderAccent(s string) string {
	return AccentStyle.Render(s)
}

// RenderWarn renders text in the warning color.
func RenderWarn(s string) string {
	return WarnStyle.Render(s)
}
