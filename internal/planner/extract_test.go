package planner

import "testing"

const fencedPlan = "Here is your plan!\n```json\n" + `{
  "skill": "Python Programming",
  "duration_days": 3,
  "start_date": "2030-01-07",
  "preferred_time": "evening",
  "daily_hours": 2.0,
  "learningPlan": [
    {"dayNumber": 1, "date": "2030-01-07", "objective": "Basics", "projects_exercises": "Simple script", "estimated_time_hours": 2.0},
    {"dayNumber": 2, "date": "2030-01-08", "objective": "Data Structures", "projects_exercises": "List manipulation", "estimated_time_hours": 2.0},
    {"dayNumber": 3, "date": "2030-01-09", "objective": "Functions", "projects_exercises": "Calculator", "estimated_time_hours": 2.0}
  ]
}` + "\n```\nSay 'integrate' to add it to your calendar."

func TestExtractPlanFenced(t *testing.T) {
	plan, ok := ExtractPlan(fencedPlan)
	if !ok {
		t.Fatalf("ExtractPlan: expected ok, got !ok")
	}
	if plan.Skill != "Python Programming" {
		t.Fatalf("Skill: want=%q got=%q", "Python Programming", plan.Skill)
	}
	if plan.DurationDays != 3 {
		t.Fatalf("DurationDays: want=%d got=%d", 3, plan.DurationDays)
	}
	if len(plan.Days) != 3 {
		t.Fatalf("Days: want=%d got=%d", 3, len(plan.Days))
	}
	if plan.Days[1].Objective != "Data Structures" {
		t.Fatalf("Days[1].Objective: want=%q got=%q", "Data Structures", plan.Days[1].Objective)
	}
}

func TestExtractPlanLooseBraces(t *testing.T) {
	text := `Sure thing. {"skill": "Go", "duration_days": 2, "start_date": "2030-02-01", "preferred_time": "morning", "daily_hours": 1.5, "learningPlan": [{"dayNumber": 1, "objective": "Syntax"}]} Hope that helps.`
	plan, ok := ExtractPlan(text)
	if !ok {
		t.Fatalf("ExtractPlan: expected ok, got !ok")
	}
	if plan.Skill != "Go" {
		t.Fatalf("Skill: want=%q got=%q", "Go", plan.Skill)
	}
	if len(plan.Days) != 1 {
		t.Fatalf("Days: want=%d got=%d", 1, len(plan.Days))
	}
}

func TestExtractPlanRepairsTrailingCommasAndComments(t *testing.T) {
	text := "```json\n" + `{
  "skill": "SQL", // the user's skill
  "duration_days": 1,
  "start_date": "2030-03-01",
  "preferred_time": "morning",
  "daily_hours": 1.0,
  "learningPlan": [
    {"dayNumber": 1, "objective": "SELECT basics",},
  ],
}` + "\n```"
	plan, ok := ExtractPlan(text)
	if !ok {
		t.Fatalf("ExtractPlan: expected ok, got !ok")
	}
	if plan.Skill != "SQL" {
		t.Fatalf("Skill: want=%q got=%q", "SQL", plan.Skill)
	}
	if plan.Days[0].Objective != "SELECT basics" {
		t.Fatalf("Objective: want=%q got=%q", "SELECT basics", plan.Days[0].Objective)
	}
}

func TestExtractPlanKeepsURLsInStrings(t *testing.T) {
	text := "```json\n" + `{
  "skill": "Go",
  "duration_days": 1,
  "start_date": "2030-03-01",
  "preferred_time": "morning",
  "daily_hours": 1.0, // two hours was too much
  "learningPlan": [
    {"dayNumber": 1, "objective": "Basics", "projects_exercises": "Work through https://go.dev/tour"}
  ]
}` + "\n```"
	plan, ok := ExtractPlan(text)
	if !ok {
		t.Fatalf("ExtractPlan: expected ok, got !ok")
	}
	if want := "Work through https://go.dev/tour"; plan.Days[0].ProjectsExercises != want {
		t.Fatalf("ProjectsExercises: want=%q got=%q", want, plan.Days[0].ProjectsExercises)
	}
	// The comment outside the string is still removed.
	if plan.DailyHours != 1.0 {
		t.Fatalf("DailyHours: want=%v got=%v", 1.0, plan.DailyHours)
	}
}

func TestExtractPlanCoercesStringNumbers(t *testing.T) {
	text := `{"skill": "Rust", "duration_days": "14", "start_date": "2030-04-01", "preferred_time": "evening", "daily_hours": "2.5", "learningPlan": [{"dayNumber": "1", "objective": "Ownership", "estimated_time_hours": "3"}]}`
	plan, ok := ExtractPlan(text)
	if !ok {
		t.Fatalf("ExtractPlan: expected ok, got !ok")
	}
	if plan.DurationDays != 14 {
		t.Fatalf("DurationDays: want=%d got=%d", 14, plan.DurationDays)
	}
	if plan.DailyHours != 2.5 {
		t.Fatalf("DailyHours: want=%v got=%v", 2.5, plan.DailyHours)
	}
	if plan.Days[0].EstimatedTimeHours != 3 {
		t.Fatalf("EstimatedTimeHours: want=%v got=%v", 3.0, plan.Days[0].EstimatedTimeHours)
	}
}

func TestExtractPlanSkipsNonObjectEntries(t *testing.T) {
	text := `{"skill": "Go", "duration_days": 2, "start_date": "2030-02-01", "preferred_time": "morning", "daily_hours": 1.0, "learningPlan": [{"dayNumber": 1, "objective": "Syntax"}, "not an entry", 42]}`
	plan, ok := ExtractPlan(text)
	if !ok {
		t.Fatalf("ExtractPlan: expected ok, got !ok")
	}
	if len(plan.Days) != 1 {
		t.Fatalf("Days: want=%d got=%d", 1, len(plan.Days))
	}
}

func TestExtractPlanRejectsGarbage(t *testing.T) {
	for _, text := range []string{
		"",
		"I can't generate a plan for that.",
		"{not json at all}",
		`{"skill": "Go"}`,                     // no learningPlan
		`{"learningPlan": "not an array"}`,    // wrong type
		"```json\n{\"broken\": \ninvalid```", // unterminated
	} {
		if plan, ok := ExtractPlan(text); ok {
			t.Fatalf("ExtractPlan(%q): expected !ok, got plan %+v", text, plan)
		}
	}
}
