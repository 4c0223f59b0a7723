package cli

import (
	"fmt"
	"strings"
)

// StatusIcon returns an icon for the given playback status.
func StatusIcon(status string) string {
	switch status {
	case "playing":
		return "▶"
	case "paused":
		return "⏸"
	default:
		return "⏹"
	}
}

// TruncateString truncates a string to maxLen, adding "..." if truncated.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// FormatProgress formats a progress bar.
func FormatProgress(current, total int, width int) string {
	if total <= 0 {
		return strings.Repeat("─", width)
	}

	percent := float64(current) / float64(total)
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}

	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

// OnOff renders a boolean as on/off.
func OnOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// NormalF prints normal formatted output.
func NormalF(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}
