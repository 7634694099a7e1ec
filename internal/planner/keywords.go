package planner

import "strings"

var integrateKeywords = []string{
	"integrate",
	"add to calendar",
	"sync calendar",
	"put on calendar",
	"schedule it",
}

var ambiguousKeywords = []string{
	"plan", "routine", "schedule", "course",
	"python", "javascript", "java", "c++",
	"web development", "data science", "ai", "machine learning", "excel",
}

var explicitGenerationPhrases = []string{
	"generate a plan",
	"create a plan",
	"make a plan",
	"learn ",
	"help me learn ",
}

// ClarificationResponse is issued for bare, ambiguous first inputs
// instead of a model call.
const ClarificationResponse = "A term like 'plan' or a skill name can be very broad! " +
	"Are you trying to generate a learning plan for this, " +
	"or are you looking for general information about it?" +
	"\n\nFor example, you could say: " +
	"'Generate a Python learning plan' or 'Tell me about Python'."

// IsIntegrateCommand reports whether the input asks to push the last
// plan onto the calendar.
func IsIntegrateCommand(input string) bool {
	lower := strings.ToLower(input)
	for _, kw := range integrateKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsAmbiguous reports whether the input contains a bare topic
// keyword. Single-word keywords must match a whole word so "planning"
// does not trip on "plan"; multi-word keywords match as phrases.
func IsAmbiguous(input string) bool {
	lower := strings.ToLower(input)
	words := strings.Fields(lower)
	for _, kw := range ambiguousKeywords {
		if strings.Contains(kw, " ") {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		for _, w := range words {
			if w == kw {
				return true
			}
		}
	}
	return false
}

// IsExplicitGeneration reports whether the input already asks for a
// plan outright, which suppresses the clarification prompt.
func IsExplicitGeneration(input string) bool {
	lower := strings.ToLower(input)
	for _, phrase := range explicitGenerationPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
