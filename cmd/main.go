package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/skillplanner-backend/internal/data/db"
	"github.com/yungbote/skillplanner-backend/internal/data/repos"
	"github.com/yungbote/skillplanner-backend/internal/handlers"
	"github.com/yungbote/skillplanner-backend/internal/platform/envutil"
	"github.com/yungbote/skillplanner-backend/internal/platform/gcal"
	"github.com/yungbote/skillplanner-backend/internal/platform/gemini"
	"github.com/yungbote/skillplanner-backend/internal/platform/logger"
	"github.com/yungbote/skillplanner-backend/internal/server"
	"github.com/yungbote/skillplanner-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Database
	log.Info("Setting up database from main...")
	dbService, err := db.New(log)
	var planRunRepo repos.PlanRunRepo
	if err != nil {
		log.Warn("Database init failed, plan runs will not be persisted", "error", err)
	} else {
		if err := dbService.AutoMigrateAll(); err != nil {
			log.Warn("Auto migration failed", "error", err)
		}
		planRunRepo = repos.NewPlanRunRepo(dbService.DB(), log)
	}

	// Clients. A failed Gemini or Calendar init keeps the server up in
	// a degraded state; routes answer 503 until credentials are fixed.
	log.Info("Setting up clients from main...")
	var startupErr error
	geminiClient, err := gemini.NewFromEnv(ctx, log)
	if err != nil {
		log.Error("Could not init Gemini client", "error", err)
		startupErr = err
	}
	calendarService, err := gcal.NewFromEnv(ctx, log)
	if err != nil {
		log.Warn("Could not init Google Calendar client, integration disabled", "error", err)
	}

	// Services
	log.Info("Setting up services from main...")
	var plannerService services.PlannerService
	if startupErr == nil {
		timeZone := envutil.Str("DEFAULT_TIMEZONE", "Asia/Dhaka")
		var inserter gcal.Inserter
		if calendarService != nil {
			inserter = calendarService
		}
		plannerService = services.NewPlannerService(geminiClient, inserter, planRunRepo, log, timeZone)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	plannerHandler := handlers.NewPlannerHandler(plannerService, log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		PlannerHandler: plannerHandler,
	})

	port := envutil.Str("PORT", "8080")
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
