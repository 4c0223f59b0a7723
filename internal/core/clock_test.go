package core

import "testing"

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{59, "0:59"},
		{60, "1:00"},
		{125, "2:05"},
		{3600, "60:00"},
		{-7, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2:05", 125},
		{"0:00", 0},
		{"1:00", 60},
		{" 3:30 ", 210},
		{"", 0},
		{"205", 0},
		{"2:0x", 0},
		{"-1:30", 0},
		{"1:-5", 0},
		{"1.5:30", 0},
	}

	for _, tt := range tests {
		if got := ParseClock(tt.in); got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClockRoundTrip(t *testing.T) {
	if got := ParseClock(FormatClock(125)); got != 125 {
		t.Errorf("round trip of 125 = %d", got)
	}
}
