package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yungbote/skillplanner-backend/internal/platform/apierr"
	"github.com/yungbote/skillplanner-backend/internal/platform/logger"
	"github.com/yungbote/skillplanner-backend/internal/services"
	"github.com/yungbote/skillplanner-backend/internal/types"
)

type fakePlanner struct {
	chatReply    string
	chatErr      error
	generateRes  *services.GeneratePlanResult
	generateErr  error
	integrateRes *services.IntegrationResult
	integrateErr error
	lastRun      *types.PlanRun

	integratedSkill string
	integratedTasks []types.Task
}

func (f *fakePlanner) HandleChatMessage(_ context.Context, _ string, _ []types.ChatMessage) (string, error) {
	return f.chatReply, f.chatErr
}

func (f *fakePlanner) GeneratePlan(_ context.Context, _ services.GeneratePlanInput) (*services.GeneratePlanResult, error) {
	return f.generateRes, f.generateErr
}

func (f *fakePlanner) IntegratePlan(_ context.Context, skillName string, tasks []types.Task, _ *uuid.UUID) (*services.IntegrationResult, error) {
	f.integratedSkill = skillName
	f.integratedTasks = tasks
	return f.integrateRes, f.integrateErr
}

func (f *fakePlanner) LastIntegrated(_ context.Context) (*types.PlanRun, error) {
	return f.lastRun, nil
}

func newTestRouter(planner services.PlannerService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
	ph := NewPlannerHandler(planner, log)

	router := gin.New()
	router.GET("/", ph.Root)
	router.GET("/healthcheck", ph.HealthCheck)
	router.POST("/chat-message", ph.ChatMessage)
	router.POST("/generate-plan", ph.GeneratePlan)
	router.POST("/integrate-plan", ph.IntegratePlan)
	router.GET("/integrated-plan", ph.IntegratedPlan)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChatMessageEndpoint(t *testing.T) {
	router := newTestRouter(&fakePlanner{chatReply: "Hello!"})

	w := doJSON(t, router, http.MethodPost, "/chat-message", gin.H{"userMessage": "hi"})
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	var resp ChatMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AIResponse != "Hello!" {
		t.Fatalf("aiResponse: want=%q got=%q", "Hello!", resp.AIResponse)
	}
}

func TestChatMessageStaysOKOnModelError(t *testing.T) {
	router := newTestRouter(&fakePlanner{
		chatReply: "Sorry, I encountered an error trying to process your message: boom",
		chatErr:   errors.New("boom"),
	})

	w := doJSON(t, router, http.MethodPost, "/chat-message", gin.H{"userMessage": "hi"})
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Sorry, I encountered an error") {
		t.Fatalf("apology missing from body: %s", w.Body.String())
	}
}

func TestChatMessageRequiresUserMessage(t *testing.T) {
	router := newTestRouter(&fakePlanner{})

	w := doJSON(t, router, http.MethodPost, "/chat-message", gin.H{"chatHistory": []any{}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", w.Code)
	}
}

func TestGeneratePlanEndpoint(t *testing.T) {
	runID := uuid.New()
	fake := &fakePlanner{generateRes: &services.GeneratePlanResult{
		Run:           &types.PlanRun{ID: runID},
		Plan:          &types.Plan{Skill: "Go", DurationDays: 5, StartDate: "2024-01-15"},
		Tasks:         []types.Task{{Summary: "Day 1: Basics", StartTime: "2024-01-15T09:00:00", EndTime: "2024-01-15T11:00:00"}},
		HumanReadable: "Learning Plan for: Go",
	}}
	router := newTestRouter(fake)

	w := doJSON(t, router, http.MethodPost, "/generate-plan", gin.H{
		"goal":         "Go",
		"durationDays": 5,
		"startDate":    "2024-01-15",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	var resp GeneratePlanResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.StructuredTasks) != 1 {
		t.Fatalf("structuredTasks: want=1 got=%d", len(resp.StructuredTasks))
	}
	if resp.PlanRunID == nil || *resp.PlanRunID != runID {
		t.Fatalf("planRunId: want=%s got=%v", runID, resp.PlanRunID)
	}
	if resp.Plan == nil || resp.Plan.Skill != "Go" || resp.Plan.StartDate != "2024-01-15" {
		t.Fatalf("plan envelope: want skill=Go start=2024-01-15 got %+v", resp.Plan)
	}
}

func TestGeneratePlanRejectsBadDate(t *testing.T) {
	router := newTestRouter(&fakePlanner{})

	w := doJSON(t, router, http.MethodPost, "/generate-plan", gin.H{
		"goal":         "Go",
		"durationDays": 5,
		"startDate":    "15-01-2024",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "YYYY-MM-DD") {
		t.Fatalf("expected date format hint, got %s", w.Body.String())
	}
}

func TestGeneratePlanMapsServiceError(t *testing.T) {
	router := newTestRouter(&fakePlanner{
		generateErr: apierr.PlanGeneration(errors.New("AI did not return a valid plan")),
	})

	w := doJSON(t, router, http.MethodPost, "/generate-plan", gin.H{
		"goal":         "Go",
		"durationDays": 5,
		"startDate":    "2024-01-15",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", w.Code)
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "plan_generation_failed" {
		t.Fatalf("code: want=plan_generation_failed got=%q", envelope.Error.Code)
	}
}

func TestIntegratePlanEndpoint(t *testing.T) {
	fake := &fakePlanner{integrateRes: &services.IntegrationResult{
		Message: "Successfully added 2 tasks to Google Calendar.",
		Links:   []string{"https://calendar.example/event/1", "https://calendar.example/event/2"},
		Created: 2,
	}}
	router := newTestRouter(fake)

	w := doJSON(t, router, http.MethodPost, "/integrate-plan", gin.H{
		"skillName": "Go",
		"structuredTasks": []types.Task{
			{Summary: "Day 1", StartTime: "2024-01-15T09:00:00", EndTime: "2024-01-15T11:00:00"},
			{Summary: "Day 2", StartTime: "2024-01-16T09:00:00", EndTime: "2024-01-16T11:00:00"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	if fake.integratedSkill != "Go" || len(fake.integratedTasks) != 2 {
		t.Fatalf("service call: skill=%q tasks=%d", fake.integratedSkill, len(fake.integratedTasks))
	}
	var resp IntegratePlanResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.CalendarEventLinks) != 2 {
		t.Fatalf("calendarEventLinks: want=2 got=%d", len(resp.CalendarEventLinks))
	}
}

func TestIntegratePlanRejectsBadTimestamp(t *testing.T) {
	router := newTestRouter(&fakePlanner{})

	w := doJSON(t, router, http.MethodPost, "/integrate-plan", gin.H{
		"skillName": "Go",
		"structuredTasks": []types.Task{
			{Summary: "Day 1", StartTime: "tomorrow at nine", EndTime: "2024-01-15T11:00:00"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ISO format") {
		t.Fatalf("expected ISO format hint, got %s", w.Body.String())
	}
}

func TestIntegratedPlanNotFound(t *testing.T) {
	router := newTestRouter(&fakePlanner{})

	w := doJSON(t, router, http.MethodGet, "/integrated-plan", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: want=404 got=%d", w.Code)
	}
}

func TestIntegratedPlanReturnsLatestRun(t *testing.T) {
	run := &types.PlanRun{ID: uuid.New(), Skill: "Go", Integrated: true}
	router := newTestRouter(&fakePlanner{lastRun: run})

	w := doJSON(t, router, http.MethodGet, "/integrated-plan", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	var got types.PlanRun
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != run.ID || got.Skill != "Go" {
		t.Fatalf("run: want id=%s skill=Go got id=%s skill=%q", run.ID, got.ID, got.Skill)
	}
}

func TestDegradedStartupAnswers503(t *testing.T) {
	router := newTestRouter(nil)

	w := doJSON(t, router, http.MethodPost, "/chat-message", gin.H{"userMessage": "hi"})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: want=503 got=%d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("root status: want=200 got=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "unavailable") {
		t.Fatalf("root should report degraded status, got %s", w.Body.String())
	}
}
