package planner

import (
	"fmt"
	"time"

	"github.com/yungbote/skillplanner-backend/internal/types"
)

// taskTimeLayout is a local ISO 8601 timestamp; the timezone travels
// separately in the calendar event body.
const taskTimeLayout = "2006-01-02T15:04:05"

const defaultDailyHours = 2.0

// StructureTasks maps plan days onto calendar-ready tasks anchored at
// start. Day entry dates are always recomputed from start by index, so
// a corrected start date propagates through the whole plan; the plan's
// Days and StartDate are rewritten accordingly. Along with the tasks
// it returns the human-readable plan lines.
func StructureTasks(plan *types.Plan, start time.Time) ([]types.Task, []string) {
	hour, minute := ParsePreferredTime(plan.PreferredTime)
	dailyHours := plan.DailyHours
	if dailyHours <= 0 {
		dailyHours = defaultDailyHours
	}

	plan.StartDate = start.Format(DateLayout)
	lines := []string{
		fmt.Sprintf("Learning Plan for: %s", plan.Skill),
		fmt.Sprintf("Starting: %s", plan.StartDate),
	}

	var tasks []types.Task
	for i := range plan.Days {
		day := &plan.Days[i]
		if day.DayNumber <= 0 {
			day.DayNumber = i + 1
		}
		date := start.AddDate(0, 0, i)
		day.Date = date.Format(DateLayout)

		objective := day.Objective
		if objective == "" {
			objective = "No objective specified."
		}
		taskHours := day.EstimatedTimeHours
		if taskHours <= 0 {
			taskHours = dailyHours
		}

		taskStart := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
		taskEnd := taskStart.Add(time.Duration(taskHours * float64(time.Hour)))

		tasks = append(tasks, types.Task{
			Summary:     fmt.Sprintf("Day %d: %s", day.DayNumber, objective),
			Description: day.ProjectsExercises,
			StartTime:   taskStart.Format(taskTimeLayout),
			EndTime:     taskEnd.Format(taskTimeLayout),
		})
		lines = append(lines, fmt.Sprintf("Day %d (%s): %s", day.DayNumber, day.Date, objective))
		if day.ProjectsExercises != "" {
			lines = append(lines, fmt.Sprintf("  - Exercises: %s", day.ProjectsExercises))
		}
	}
	return tasks, lines
}
