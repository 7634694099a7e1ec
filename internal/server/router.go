package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/skillplanner-backend/internal/handlers"
	"github.com/yungbote/skillplanner-backend/internal/platform/envutil"
)

type RouterConfig struct {
	PlannerHandler *handlers.PlannerHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	origins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}
	if raw := envutil.Str("CORS_ORIGINS", ""); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/", cfg.PlannerHandler.Root)
	router.GET("/healthcheck", cfg.PlannerHandler.HealthCheck)

	router.POST("/chat-message", cfg.PlannerHandler.ChatMessage)
	router.POST("/generate-plan", cfg.PlannerHandler.GeneratePlan)
	router.POST("/integrate-plan", cfg.PlannerHandler.IntegratePlan)
	router.GET("/integrated-plan", cfg.PlannerHandler.IntegratedPlan)

	return router
}
