package planner

import "time"

// DateLayout is the wire format for all plan dates.
const DateLayout = "2006-01-02"

// CorrectStartDate validates a model- or user-supplied start date.
// Today or a future date passes through; a past or unparsable date is
// replaced by the next Monday relative to today. The second return
// reports whether a correction happened.
func CorrectStartDate(today time.Time, raw string) (time.Time, bool) {
	today = midnight(today)
	d, err := time.ParseInLocation(DateLayout, raw, today.Location())
	if err != nil || d.Before(today) {
		return NextMonday(today), true
	}
	return d, false
}

// NextMonday is the Monday strictly after today (a full week out when
// today already is a Monday).
func NextMonday(today time.Time) time.Time {
	today = midnight(today)
	weekday := (int(today.Weekday()) + 6) % 7 // Monday == 0
	return today.AddDate(0, 0, 7-weekday)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
