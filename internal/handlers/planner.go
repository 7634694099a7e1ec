package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/skillplanner-backend/internal/planner"
	"github.com/yungbote/skillplanner-backend/internal/platform/apierr"
	"github.com/yungbote/skillplanner-backend/internal/platform/logger"
	"github.com/yungbote/skillplanner-backend/internal/services"
	"github.com/yungbote/skillplanner-backend/internal/types"
)

type PlannerHandler struct {
	planner services.PlannerService
	log     *logger.Logger
}

// NewPlannerHandler wires the planner service into the HTTP surface.
// planner may be nil when startup failed; every route then answers 503
// so the process stays up and reports its degraded state.
func NewPlannerHandler(planner services.PlannerService, log *logger.Logger) *PlannerHandler {
	return &PlannerHandler{planner: planner, log: log.With("handler", "PlannerHandler")}
}

type ChatMessageRequest struct {
	UserMessage string              `json:"userMessage" binding:"required"`
	ChatHistory []types.ChatMessage `json:"chatHistory"`
}

type ChatMessageResponse struct {
	AIResponse string `json:"aiResponse"`
}

type GeneratePlanRequest struct {
	Goal                           string              `json:"goal" binding:"required"`
	DurationDays                   int                 `json:"durationDays" binding:"required,gt=0"`
	StartDate                      string              `json:"startDate" binding:"required"`
	LearningStyle                  string              `json:"learningStyle"`
	PreferredTime                  string              `json:"preferredTime"`
	DailyHours                     float64             `json:"dailyHours"`
	ChatHistoryForContext          []types.ChatMessage `json:"chatHistoryForContext"`
	RefinementInstruction          string              `json:"refinementInstruction"`
	ExistingPlanTasksForRefinement []types.Task        `json:"existingPlanTasksForRefinement"`
}

type GeneratePlanResponse struct {
	HumanReadablePlan string       `json:"humanReadablePlan"`
	StructuredTasks   []types.Task `json:"structuredTasks"`
	Plan              *types.Plan  `json:"plan"`
	PlanRunID         *uuid.UUID   `json:"planRunId,omitempty"`
}

type IntegratePlanRequest struct {
	SkillName       string       `json:"skillName" binding:"required"`
	StructuredTasks []types.Task `json:"structuredTasks" binding:"required"`
	PlanRunID       *uuid.UUID   `json:"planRunId"`
}

type IntegratePlanResponse struct {
	Message            string   `json:"message"`
	CalendarEventLinks []string `json:"calendarEventLinks,omitempty"`
}

func (ph *PlannerHandler) unavailable(c *gin.Context) bool {
	if ph.planner != nil {
		return false
	}
	RespondError(c, http.StatusServiceUnavailable, "planner_unavailable",
		errors.New("planner service is not available due to a startup error"))
	return true
}

func (ph *PlannerHandler) ChatMessage(c *gin.Context) {
	if ph.unavailable(c) {
		return
	}
	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	reply, err := ph.planner.HandleChatMessage(c.Request.Context(), req.UserMessage, req.ChatHistory)
	if err != nil {
		// The reply already carries the apology; the chat contract
		// stays conversational rather than turning into an HTTP error.
		ph.log.Warn("Chat turn degraded", "error", err)
	}
	RespondOK(c, ChatMessageResponse{AIResponse: reply})
}

func (ph *PlannerHandler) GeneratePlan(c *gin.Context) {
	if ph.unavailable(c) {
		return
	}
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if _, err := time.Parse(planner.DateLayout, req.StartDate); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request",
			errors.New("startDate must be in YYYY-MM-DD format"))
		return
	}
	if req.PreferredTime == "" {
		req.PreferredTime = "Anytime"
	}
	if req.DailyHours <= 0 {
		req.DailyHours = 2.0
	}

	res, err := ph.planner.GeneratePlan(c.Request.Context(), services.GeneratePlanInput{
		Goal:                  req.Goal,
		DurationDays:          req.DurationDays,
		StartDate:             req.StartDate,
		LearningStyle:         req.LearningStyle,
		PreferredTime:         req.PreferredTime,
		DailyHours:            req.DailyHours,
		History:               req.ChatHistoryForContext,
		RefinementInstruction: req.RefinementInstruction,
		ExistingTasks:         req.ExistingPlanTasksForRefinement,
	})
	if err != nil {
		RespondAppError(c, err)
		return
	}

	out := GeneratePlanResponse{
		HumanReadablePlan: res.HumanReadable,
		StructuredTasks:   res.Tasks,
		Plan:              res.Plan,
	}
	if res.Run != nil && res.Run.ID != uuid.Nil {
		id := res.Run.ID
		out.PlanRunID = &id
	}
	RespondOK(c, out)
}

func (ph *PlannerHandler) IntegratePlan(c *gin.Context) {
	if ph.unavailable(c) {
		return
	}
	var req IntegratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	for _, task := range req.StructuredTasks {
		if err := checkTimestamp(task.StartTime); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
		if err := checkTimestamp(task.EndTime); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}

	res, err := ph.planner.IntegratePlan(c.Request.Context(), req.SkillName, req.StructuredTasks, req.PlanRunID)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, IntegratePlanResponse{Message: res.Message, CalendarEventLinks: res.Links})
}

// IntegratedPlan returns the most recently integrated plan run.
func (ph *PlannerHandler) IntegratedPlan(c *gin.Context) {
	if ph.unavailable(c) {
		return
	}
	run, err := ph.planner.LastIntegrated(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	if run == nil {
		RespondAppError(c, apierr.NotFound("no_integrated_plan"))
		return
	}
	RespondOK(c, run)
}

func (ph *PlannerHandler) Root(c *gin.Context) {
	status := "available"
	if ph.planner == nil {
		status = "unavailable (startup error)"
	}
	RespondOK(c, gin.H{
		"message":        "Welcome to the Skill Learning Planner API!",
		"service_status": status,
	})
}

func (ph *PlannerHandler) HealthCheck(c *gin.Context) {
	RespondOK(c, gin.H{"status": "ok"})
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func checkTimestamp(v string) error {
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return nil
		}
	}
	return fmt.Errorf("timestamp %q must be in ISO format", v)
}
