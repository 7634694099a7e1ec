package repos

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/skillplanner-backend/internal/platform/logger"
	"github.com/yungbote/skillplanner-backend/internal/types"
)

func newTestRepo(t *testing.T) PlanRunRepo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "planner_test.db")), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.PlanRun{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewPlanRunRepo(db, log)
}

func TestPlanRunCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	run, err := repo.Create(ctx, &types.PlanRun{
		Skill:        "Go",
		DurationDays: 3,
		StartDate:    "2030-01-07",
		DailyHours:   2,
		Plan:         []byte(`{"skill":"Go"}`),
		Tasks:        []byte(`[]`),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if run.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("Create: expected a generated ID")
	}

	got, err := repo.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Skill != "Go" {
		t.Fatalf("GetByID: want skill %q got %+v", "Go", got)
	}
}

func TestPlanRunLatestIntegrated(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if got, err := repo.GetLatestIntegrated(ctx); err != nil || got != nil {
		t.Fatalf("GetLatestIntegrated on empty table: want=(nil,nil) got=(%+v,%v)", got, err)
	}

	first, err := repo.Create(ctx, &types.PlanRun{Skill: "Go", DurationDays: 3, StartDate: "2030-01-07"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := repo.Create(ctx, &types.PlanRun{Skill: "Rust", DurationDays: 5, StartDate: "2030-02-04"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.UpdateIntegration(ctx, first.ID, true, "Successfully added 3 tasks to Google Calendar.", []byte(`["https://calendar.google.com/event?eid=abc"]`)); err != nil {
		t.Fatalf("UpdateIntegration: %v", err)
	}

	got, err := repo.GetLatestIntegrated(ctx)
	if err != nil {
		t.Fatalf("GetLatestIntegrated: %v", err)
	}
	if got == nil || got.ID != first.ID {
		t.Fatalf("GetLatestIntegrated: want id=%v got=%+v", first.ID, got)
	}
	if !got.Integrated {
		t.Fatalf("GetLatestIntegrated: expected integrated run")
	}

	// The un-integrated run never wins, however recent.
	if got.ID == second.ID {
		t.Fatalf("GetLatestIntegrated: returned un-integrated run")
	}
}
