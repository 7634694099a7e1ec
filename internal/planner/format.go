package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/skillplanner-backend/internal/types"
)

// FormatPlan renders a plan for terminal display.
func FormatPlan(plan *types.Plan) string {
	if plan == nil || len(plan.Days) == 0 {
		return "Unable to display plan in a human-readable format due to incorrect structure."
	}

	skill := plan.Skill
	if skill == "" {
		skill = "Learning"
	}
	startDate := plan.StartDate
	if startDate == "" {
		startDate = "N/A"
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("--- Your Learning Plan for %s (Starting %s) ---", skill, startDate))
	for _, day := range plan.Days {
		display := day.Date
		if d, err := time.Parse(DateLayout, day.Date); err == nil {
			display = d.Format("Jan 02, 2006")
		}
		objective := day.Objective
		if objective == "" {
			objective = "No objective specified."
		}
		line := fmt.Sprintf("- %s: %s", display, objective)
		if day.ProjectsExercises != "" {
			line += fmt.Sprintf(" (Exercises: %s)", day.ProjectsExercises)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "--------------------------------------------------")
	return strings.Join(lines, "\n")
}
