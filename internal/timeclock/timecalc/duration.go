package timecalc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	clockRe   = regexp.MustCompile(`(\d+):(\d+)(?::(\d+))?`)
	minutesRe = regexp.MustCompile(`(\d+)\s*minutes?`)
)

// ClockToMinutes converts a wall-clock time ("HH:MM" or "HH:MM:SS")
// into minutes since midnight. Nil and unparseable values yield 0.
func ClockToMinutes(t *string) int {
	if t == nil {
		return 0
	}
	parts := strings.Split(*t, ":")
	if len(parts) < 2 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return h*60 + m
}

// MinutesToClock formats a non-negative minute count as "H:MM".
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// MinutesToHuman formats a minute count as "{H}h{MM}m", e.g. 125 -> "2h05m".
func MinutesToHuman(minutes int) string {
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

// ParseStoredInterval converts a stored interval representation into
// minutes. It accepts "H:MM:SS" style durations and "<N> minutes"
// strings. Empty, zero, and unrecognized inputs yield 0; the parser
// never fails. The permissiveness is deliberate: legacy rows carry
// intervals in either format, and a malformed value must degrade to
// zero rather than break a report.
func ParseStoredInterval(text string) int {
	if text == "" || text == "00:00:00" {
		return 0
	}

	if m := clockRe.FindStringSubmatch(text); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		return hours*60 + minutes
	}

	if m := minutesRe.FindStringSubmatch(text); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		return minutes
	}

	return 0
}
