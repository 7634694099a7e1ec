package planner

import (
	"regexp"
	"strconv"
	"strings"
)

var preferredTimeRe = regexp.MustCompile(`(?i)(\d{1,2})(?:[:.](\d{1,2}))?\s*(am|pm)?`)

// ParsePreferredTime turns a free-form preferred study time ("9 AM",
// "2:30pm", "evening", "Anytime") into a clock time. Anything it
// cannot make sense of becomes the 09:00 default.
func ParsePreferredTime(s string) (hour, minute int) {
	hour, minute = 9, 0
	if s == "" {
		return hour, minute
	}

	if m := preferredTimeRe.FindStringSubmatch(s); m != nil {
		hr, _ := strconv.Atoi(m[1])
		min := 0
		if m[2] != "" {
			min, _ = strconv.Atoi(m[2])
		}
		switch strings.ToLower(m[3]) {
		case "pm":
			if hr >= 1 && hr < 12 {
				hr += 12
			}
		case "am":
			if hr == 12 {
				hr = 0
			}
		}
		if hr < 0 || hr > 23 || min < 0 || min > 59 {
			return 9, 0
		}
		return hr, min
	}

	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "morning"):
		return 9, 0
	case strings.Contains(lower, "afternoon"):
		return 14, 0
	case strings.Contains(lower, "evening"), strings.Contains(lower, "night"):
		return 19, 0
	}
	return 9, 0
}
