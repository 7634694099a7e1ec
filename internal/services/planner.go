package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yungbote/skillplanner-backend/internal/data/repos"
	"github.com/yungbote/skillplanner-backend/internal/planner"
	"github.com/yungbote/skillplanner-backend/internal/platform/apierr"
	"github.com/yungbote/skillplanner-backend/internal/platform/gcal"
	"github.com/yungbote/skillplanner-backend/internal/platform/gemini"
	"github.com/yungbote/skillplanner-backend/internal/platform/logger"
	"github.com/yungbote/skillplanner-backend/internal/types"
)

const chatPreambleAck = "Okay, I understand my role. How can I help you today?"

// GeneratePlanInput carries one plan-generation (or refinement)
// request into the service.
type GeneratePlanInput struct {
	Goal                  string
	DurationDays          int
	StartDate             string
	LearningStyle         string
	PreferredTime         string
	DailyHours            float64
	History               []types.ChatMessage
	RefinementInstruction string
	ExistingTasks         []types.Task
}

type GeneratePlanResult struct {
	Run           *types.PlanRun
	Plan          *types.Plan
	Tasks         []types.Task
	HumanReadable string
}

type IntegrationResult struct {
	Message string
	Links   []string
	Created int
}

type PlannerService interface {
	// HandleChatMessage runs one conversational turn. A model failure
	// comes back as an apologetic reply string plus the error; callers
	// keep the conversational contract and surface the string.
	HandleChatMessage(ctx context.Context, userMessage string, history []types.ChatMessage) (string, error)
	GeneratePlan(ctx context.Context, input GeneratePlanInput) (*GeneratePlanResult, error)
	// IntegratePlan inserts the tasks one by one; failures skip the
	// event and never roll back earlier inserts. runID, when present,
	// ties the outcome back to a stored plan run.
	IntegratePlan(ctx context.Context, skillName string, tasks []types.Task, runID *uuid.UUID) (*IntegrationResult, error)
	// LastIntegrated returns the most recent integrated plan run, or
	// nil when none exists.
	LastIntegrated(ctx context.Context) (*types.PlanRun, error)
}

type plannerService struct {
	model    gemini.Client
	calendar gcal.Inserter
	runs     repos.PlanRunRepo
	log      *logger.Logger
	timeZone string
	now      func() time.Time
}

func NewPlannerService(model gemini.Client, calendar gcal.Inserter, runs repos.PlanRunRepo, log *logger.Logger, timeZone string) PlannerService {
	return &plannerService{
		model:    model,
		calendar: calendar,
		runs:     runs,
		log:      log.With("service", "PlannerService"),
		timeZone: timeZone,
		now:      time.Now,
	}
}

func (s *plannerService) HandleChatMessage(ctx context.Context, userMessage string, history []types.ChatMessage) (string, error) {
	contents := history
	if len(history) == 0 || history[0].Role != "system" {
		contents = append([]types.ChatMessage{
			types.UserMessage(planner.ChatInstruction(s.now())),
			types.ModelMessage(chatPreambleAck),
		}, history...)
	}

	reply, err := s.model.Chat(ctx, contents, userMessage)
	if err != nil {
		s.log.Warn("Chat turn failed", "error", err)
		return fmt.Sprintf("Sorry, I encountered an error trying to process your message: %v", err), err
	}
	return strings.TrimSpace(reply), nil
}

func (s *plannerService) GeneratePlan(ctx context.Context, input GeneratePlanInput) (*GeneratePlanResult, error) {
	now := s.now()
	prompt := planner.BuildPlanPrompt(planner.PlanPromptInput{
		Goal:                  input.Goal,
		DurationDays:          input.DurationDays,
		StartDate:             input.StartDate,
		LearningStyle:         input.LearningStyle,
		PreferredTime:         input.PreferredTime,
		DailyHours:            input.DailyHours,
		RefinementInstruction: input.RefinementInstruction,
		ExistingTasks:         input.ExistingTasks,
	}, now)

	reply, err := s.model.Chat(ctx, input.History, prompt)
	if err != nil {
		var blocked *gemini.BlockedError
		if errors.As(err, &blocked) {
			s.log.Warn("Plan generation blocked", "reason", blocked.Reason)
			return nil, apierr.PlanGeneration(fmt.Errorf("plan generation failed due to content policy: %s. Please rephrase", blocked.Reason))
		}
		s.log.Warn("Plan generation model call failed", "error", err)
		return nil, apierr.PlanGeneration(fmt.Errorf("error communicating with AI: %w", err))
	}

	plan, ok := planner.ExtractPlan(reply)
	if !ok {
		return nil, apierr.PlanGeneration(fmt.Errorf("AI did not return a valid plan in the expected JSON format. Response: %s", excerpt(reply, 200)))
	}

	// The model may omit top-level fields; the request fills them in.
	if plan.Skill == "" {
		plan.Skill = input.Goal
	}
	if plan.DurationDays == 0 {
		plan.DurationDays = input.DurationDays
	}
	if plan.StartDate == "" {
		plan.StartDate = input.StartDate
	}
	if plan.PreferredTime == "" {
		plan.PreferredTime = input.PreferredTime
	}
	if plan.DailyHours <= 0 {
		plan.DailyHours = input.DailyHours
	}

	start, corrected := planner.CorrectStartDate(now, plan.StartDate)
	if corrected {
		s.log.Info("Corrected plan start date", "from", plan.StartDate, "to", start.Format(planner.DateLayout))
	}

	tasks, lines := planner.StructureTasks(plan, start)
	if len(tasks) == 0 {
		return nil, apierr.PlanGeneration(errors.New("plan generated by AI but failed to structure into tasks (the 'learningPlan' array was empty or items malformed)"))
	}

	run := s.persistRun(ctx, plan, tasks)
	return &GeneratePlanResult{
		Run:           run,
		Plan:          plan,
		Tasks:         tasks,
		HumanReadable: strings.Join(lines, "\n"),
	}, nil
}

// persistRun stores the generation outcome. Storage trouble is logged
// and swallowed; a plan the user can see beats a consistent ledger.
func (s *plannerService) persistRun(ctx context.Context, plan *types.Plan, tasks []types.Task) *types.PlanRun {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		s.log.Warn("Could not marshal plan envelope", "error", err)
		return nil
	}
	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		s.log.Warn("Could not marshal tasks", "error", err)
		return nil
	}
	run := &types.PlanRun{
		Skill:         plan.Skill,
		DurationDays:  plan.DurationDays,
		StartDate:     plan.StartDate,
		PreferredTime: plan.PreferredTime,
		DailyHours:    plan.DailyHours,
		Plan:          planJSON,
		Tasks:         tasksJSON,
	}
	if s.runs == nil {
		return run
	}
	created, err := s.runs.Create(ctx, run)
	if err != nil {
		s.log.Warn("Could not persist plan run", "error", err)
		return run
	}
	return created
}

func (s *plannerService) IntegratePlan(ctx context.Context, skillName string, tasks []types.Task, runID *uuid.UUID) (*IntegrationResult, error) {
	if s.calendar == nil {
		return nil, apierr.Unavailable(errors.New("calendar service not available, please check server authentication"))
	}

	var links []string
	created := 0
	for _, task := range tasks {
		if task.Summary == "" {
			task.Summary = fmt.Sprintf("%s Task", skillName)
		}
		if task.StartTime == "" || task.EndTime == "" {
			s.log.Warn("Skipping task with missing start/end time", "summary", task.Summary)
			continue
		}
		link, err := s.calendar.Insert(ctx, task, s.timeZone)
		if err != nil {
			s.log.Warn("Error creating calendar event", "summary", task.Summary, "error", err)
			continue
		}
		created++
		if link != "" {
			links = append(links, link)
		}
	}

	if created == 0 {
		s.recordIntegration(ctx, runID, false, "No events were added to Google Calendar.", nil)
		return nil, apierr.Integration(errors.New("no events were added to Google Calendar, check logs for details"))
	}

	message := fmt.Sprintf("Successfully added %d tasks to Google Calendar.", created)
	s.recordIntegration(ctx, runID, true, message, links)
	s.log.Info("Integrated plan into calendar", "skill", skillName, "events_created", created)
	return &IntegrationResult{Message: message, Links: links, Created: created}, nil
}

func (s *plannerService) recordIntegration(ctx context.Context, runID *uuid.UUID, integrated bool, message string, links []string) {
	if s.runs == nil || runID == nil {
		return
	}
	var linksJSON []byte
	if len(links) > 0 {
		linksJSON, _ = json.Marshal(links)
	}
	if err := s.runs.UpdateIntegration(ctx, *runID, integrated, message, linksJSON); err != nil {
		s.log.Warn("Could not record integration outcome", "run_id", runID.String(), "error", err)
	}
}

func (s *plannerService) LastIntegrated(ctx context.Context) (*types.PlanRun, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.GetLatestIntegrated(ctx)
}

// excerpt truncates on a rune boundary so the error message stays
// valid UTF-8.
func excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
