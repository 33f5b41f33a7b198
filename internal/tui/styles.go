// Package tui renders the board for the terminal, both as static text and as
// an interactive Bubbletea dashboard.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Jayphen/opsboard/internal/board"
)

// Color palette
var (
	ColorCyan    = lipgloss.Color("86")
	ColorGreen   = lipgloss.Color("78")
	ColorYellow  = lipgloss.Color("221")
	ColorOrange  = lipgloss.Color("208")
	ColorRed     = lipgloss.Color("196")
	ColorMagenta = lipgloss.Color("213")
	ColorBlue    = lipgloss.Color("111")
	ColorGray    = lipgloss.Color("245")
	ColorDimGray = lipgloss.Color("239")
	ColorWhite   = lipgloss.Color("255")
)

// Priority colors
var PriorityColors = map[board.Priority]lipgloss.Color{
	board.PriorityP0: ColorRed,
	board.PriorityP1: ColorOrange,
	board.PriorityP2: ColorYellow,
	board.PriorityP3: ColorBlue,
}

// Status colors, keyed by normalized status label.
var StatusColors = map[string]lipgloss.Color{
	"done":        ColorGreen,
	"in-progress": ColorCyan,
	"doing":       ColorCyan,
	"blocked":     ColorRed,
	"waiting":     ColorYellow,
	"review":      ColorMagenta,
	"todo":        ColorGray,
	"not-started": ColorGray,
}

// Common styles
var (
	// Title style
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	// Subtitle/dim text
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	// Selected item style
	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	// Dim text style
	DimStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	// Bold text
	BoldStyle = lipgloss.NewStyle().Bold(true)

	// Stat card style
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimGray).
			Padding(0, 1)

	// Empty section placeholder
	EmptyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimGray).
			Padding(0, 2).
			Foreground(ColorGray)

	// Section headers
	OverdueSectionStyle = lipgloss.NewStyle().
				Foreground(ColorRed).
				Bold(true)
	PrioritySectionStyle = lipgloss.NewStyle().
				Foreground(ColorOrange).
				Bold(true)
	OtherSectionStyle = lipgloss.NewStyle().
				Foreground(ColorBlue).
				Bold(true)

	// Overdue badge and due date
	OverdueStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	// Help key style
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	// Error style
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	// Status message style
	StatusMsgStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	// Warning style
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)
)

// Indicators
const (
	IndicatorSelected = "❯"
	IndicatorOverdue  = "●"
)

// Badge labels for absent values
const (
	NoStatusLabel   = "No Status"
	NoPriorityLabel = "No Priority"
	NoProjectLabel  = "No Project"
)

// Progress bar characters
const (
	ProgressFilled = "█"
	ProgressEmpty  = "░"
)

// RenderProgressBar renders a progress bar for the given percentage.
func RenderProgressBar(percent float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int((percent / 100) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat(ProgressFilled, filled) + strings.Repeat(ProgressEmpty, width-filled)
}

// normalizeStatus lowercases a status label and joins words with dashes.
func normalizeStatus(status string) string {
	return strings.Join(strings.Fields(strings.ToLower(status)), "-")
}

// StatusBadge renders a task status, or "No Status".
func StatusBadge(status *string) string {
	if status == nil {
		return DimStyle.Render(NoStatusLabel)
	}
	color, ok := StatusColors[normalizeStatus(*status)]
	if !ok {
		color = ColorWhite
	}
	return lipgloss.NewStyle().Foreground(color).Render(*status)
}

// PriorityBadge renders a priority tier, or "No Priority".
func PriorityBadge(p board.Priority) string {
	if !p.IsSet() {
		return DimStyle.Render(NoPriorityLabel)
	}
	color, ok := PriorityColors[p]
	if !ok {
		color = ColorGray
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(p.String())
}
