package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	colorAccent    = lipgloss.Color("#7C3AED") // Purple
	colorPlaying   = lipgloss.Color("#10B981") // Green
	colorPaused    = lipgloss.Color("#F59E0B") // Amber
	colorBorder    = lipgloss.Color("#4B5563") // Light gray
	colorText      = lipgloss.Color("#F9FAFB") // White
	colorTextMuted = lipgloss.Color("#9CA3AF") // Gray
	colorTextDim   = lipgloss.Color("#6B7280") // Darker gray
)

// Text styles
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	styleSubtitle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	styleDim = lipgloss.NewStyle().
			Foreground(colorTextDim)

	stylePlaying = lipgloss.NewStyle().
			Foreground(colorPlaying)

	stylePaused = lipgloss.NewStyle().
			Foreground(colorPaused)

	styleFavorite = lipgloss.NewStyle().
			Foreground(colorAccent)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorTextDim)
)

// progressBar renders a bar of the given width filled to percent.
func progressBar(percent float64, width int) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}

	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "━"
		} else {
			bar += "─"
		}
	}
	return bar
}
