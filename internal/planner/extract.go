package planner

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/yungbote/skillplanner-backend/internal/types"
)

var (
	fencedJSONRe    = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractPlan pulls a learning-plan envelope out of free-form model
// text. It prefers a ```json fenced block, falls back to the outermost
// brace pair, and repairs the common model glitches (line comments,
// trailing commas) before decoding. Returns (nil, false) when no plan
// can be recovered; a JSON object without a learningPlan array is not
// a plan.
func ExtractPlan(text string) (*types.Plan, bool) {
	raw, ok := extractJSONObject(text)
	if !ok {
		return nil, false
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false
	}
	rawDays, ok := doc["learningPlan"].([]any)
	if !ok {
		return nil, false
	}

	plan := &types.Plan{
		Skill:         asString(doc["skill"]),
		DurationDays:  asInt(doc["duration_days"]),
		StartDate:     asString(doc["start_date"]),
		PreferredTime: asString(doc["preferred_time"]),
		DailyHours:    asFloat(doc["daily_hours"]),
	}
	for _, rd := range rawDays {
		entry, ok := rd.(map[string]any)
		if !ok {
			// Not an object; drop the entry rather than the plan.
			continue
		}
		plan.Days = append(plan.Days, types.PlanDay{
			DayNumber:          asInt(entry["dayNumber"]),
			Date:               asString(entry["date"]),
			Objective:          asString(entry["objective"]),
			ProjectsExercises:  asString(entry["projects_exercises"]),
			EstimatedTimeHours: asFloat(entry["estimated_time_hours"]),
		})
	}
	return plan, true
}

func extractJSONObject(text string) (string, bool) {
	var candidate string
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	} else {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start == -1 || end == -1 || end <= start {
			return "", false
		}
		candidate = text[start : end+1]
	}
	candidate = stripLineComments(candidate)
	candidate = trailingCommaRe.ReplaceAllString(candidate, "$1")
	return candidate, true
}

// stripLineComments removes // comments the model sometimes annotates
// its JSON with. It tracks string state so a // inside a quoted value,
// a URL most of the time, is left alone.
func stripLineComments(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			sb.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			sb.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) && s[i+1] == '/' {
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				sb.WriteByte('\n')
			}
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// The model does not reliably respect JSON types: numbers arrive as
// strings and vice versa. These coercions mirror what a dynamic
// consumer would tolerate.

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asInt(v any) int {
	return int(asFloat(v))
}
