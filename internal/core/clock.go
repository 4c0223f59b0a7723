package core

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatClock renders a second count as the M:SS clock string the host
// page and the legacy control API use.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ParseClock parses a minutes:seconds clock string. Both components must
// be integral; anything else parses as 0.
func ParseClock(s string) int {
	m, sec, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 {
		return 0
	}
	seconds, err := strconv.Atoi(sec)
	if err != nil || seconds < 0 {
		return 0
	}
	return minutes*60 + seconds
}
