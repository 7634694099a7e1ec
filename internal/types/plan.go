package types

// Plan is the learning-plan envelope the model is instructed to emit
// inside a ```json fenced block. Field names mirror that wire format.
type Plan struct {
	Skill         string    `json:"skill"`
	DurationDays  int       `json:"duration_days"`
	StartDate     string    `json:"start_date"`
	PreferredTime string    `json:"preferred_time"`
	DailyHours    float64   `json:"daily_hours"`
	Days          []PlanDay `json:"learningPlan"`
}

// PlanDay is one day's entry within a Plan.
type PlanDay struct {
	DayNumber          int     `json:"dayNumber"`
	Date               string  `json:"date"`
	Objective          string  `json:"objective"`
	ProjectsExercises  string  `json:"projects_exercises"`
	EstimatedTimeHours float64 `json:"estimated_time_hours"`
}

// Task is a calendar-ready event tuple derived from a PlanDay.
// StartTime and EndTime are ISO 8601 local timestamps.
type Task struct {
	Summary     string `json:"summary" binding:"required"`
	Description string `json:"description,omitempty"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
}
