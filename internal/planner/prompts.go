package planner

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/skillplanner-backend/internal/types"
)

const planEnvelopeExample = `{
  "skill": "Example Skill",
  "duration_days": 3,
  "start_date": "YYYY-MM-DD",
  "preferred_time": "morning",
  "daily_hours": 1.5,
  "learningPlan": [
    {"dayNumber": 1, "date": "YYYY-MM-DD", "objective": "Obj 1", "projects_exercises": "Ex 1", "estimated_time_hours": 1.5},
    {"dayNumber": 2, "date": "YYYY-MM-DD", "objective": "Obj 2", "projects_exercises": "Ex 2", "estimated_time_hours": 1.5},
    {"dayNumber": 3, "date": "YYYY-MM-DD", "objective": "Obj 3", "projects_exercises": "Ex 3", "estimated_time_hours": 1.5}
  ]
}`

// ChatInstruction is the system instruction for free conversation
// turns, where the model clarifies plan details but does not emit the
// JSON envelope itself.
func ChatInstruction(today time.Time) string {
	parts := []string{
		"You are a friendly and helpful AI assistant for a Skill Learning Planner app.",
		"Your primary goals are:",
		"1. Engage in natural conversation with the user about their learning interests.",
		"2. If the user expresses a desire to create a learning plan, help them clarify necessary details like the specific skill, desired duration, preferred start date, learning style (optional), preferred study time (optional), and daily study hours (optional). Ask questions one by one if needed to gather this information.",
		"3. Once sufficient details for a plan are gathered, you can summarize it and inform the user that the plan generation step will run next.",
		"4. After a plan is generated, you can discuss it with the user if they have questions or want to talk about refinements.",
		"5. You can also answer general questions or chat about learning.",
		fmt.Sprintf("The current date is %s. Use this for context if the user mentions relative dates like 'next week'.", today.Format(DateLayout)),
	}
	return strings.Join(parts, " ")
}

// planInstruction is the strict-JSON generation instruction shared by
// the API generation path and the CLI chat loop.
func planInstruction(today time.Time) []string {
	return []string{
		"You are an AI specialized in generating structured learning plans.",
		"When asked to generate or refine a learning plan, use the following JSON format. Ensure all details (skill, duration_days, start_date, preferred_time, daily_hours) are included at the top level of the JSON, and the learning plan steps are in the 'learningPlan' array. Wrap the JSON in ```json...``` markdown block.",
		"The 'start_date' for the overall plan and the 'date' fields within 'learningPlan' entries should be in YYYY-MM-DD format.",
		"Example Plan JSON Structure:",
		"```json\n" + planEnvelopeExample + "\n```",
		"If you cannot generate a plan in this format, state that you can't in plain text.",
		"Do not include any other text or comments outside the JSON block when providing a plan.",
		fmt.Sprintf("The current date is %s. Use this as a reference. If the requested start_date is in the past, please adjust it to a sensible future date (e.g., next Monday or start of next available week).", today.Format(DateLayout)),
	}
}

// ChatLoopInstruction is the CLI loop's combined instruction: normal
// conversation plus the plan envelope format, so plans can show up in
// any turn and be detected by extraction.
func ChatLoopInstruction(today time.Time) string {
	parts := append([]string{
		"You are a helpful AI assistant that can generate structured learning plans and discuss them.",
	}, planInstruction(today)[1:]...)
	parts = append(parts, "When suggesting a start date for a plan, try to pick a date in the near future (e.g., next Monday) if the user doesn't specify one, or if they suggest a past date.")
	return strings.Join(parts, " ")
}

// PlanPromptInput carries everything the generation prompt needs.
// When RefinementInstruction and ExistingTasks are set, the prompt
// asks for a refinement of the existing plan instead of a fresh one.
type PlanPromptInput struct {
	Goal                  string
	DurationDays          int
	StartDate             string
	LearningStyle         string
	PreferredTime         string
	DailyHours            float64
	RefinementInstruction string
	ExistingTasks         []types.Task
}

// BuildPlanPrompt assembles the single user turn sent to the model for
// plan generation or refinement.
func BuildPlanPrompt(input PlanPromptInput, today time.Time) string {
	parts := []string{strings.Join(planInstruction(today), " ")}

	if input.RefinementInstruction != "" && len(input.ExistingTasks) > 0 {
		existing, _ := json.Marshal(input.ExistingTasks)
		parts = append(parts,
			fmt.Sprintf("\nRefine the existing plan for '%s'.", input.Goal),
			"Current plan tasks (JSON to be refined):",
			string(existing),
			fmt.Sprintf("Refinement instruction: '%s'", input.RefinementInstruction),
			fmt.Sprintf("The plan should still be for %d days, starting around %s (adjust if refinement implies changes), with preferred time %s and %g daily hours.",
				input.DurationDays, input.StartDate, input.PreferredTime, input.DailyHours),
		)
		return strings.Join(parts, "\n")
	}

	parts = append(parts,
		"\nGenerate a learning plan with the following details:",
		fmt.Sprintf("- Skill: %s", input.Goal),
		fmt.Sprintf("- Duration: %d days", input.DurationDays),
		fmt.Sprintf("- Start Date: %s", input.StartDate),
	)
	if input.LearningStyle != "" {
		parts = append(parts, fmt.Sprintf("- Learning Style: %s", input.LearningStyle))
	}
	if input.PreferredTime != "" {
		parts = append(parts, fmt.Sprintf("- Preferred Time: %s", input.PreferredTime))
	}
	if input.DailyHours > 0 {
		parts = append(parts, fmt.Sprintf("- Daily Hours: %g", input.DailyHours))
	}
	return strings.Join(parts, "\n")
}
