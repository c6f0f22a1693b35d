// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/supplyview/backend-go/internal/api/handlers"
	"github.com/andresuchdata/supplyview/backend-go/internal/api/middleware"
	"github.com/andresuchdata/supplyview/backend-go/internal/service"
)

func NewRouter(dashboard *service.DashboardService, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if dashboard != nil {
		dashboardHandler := handlers.NewDashboardHandler(dashboard)

		riskGroup := apiGroup.Group("/risk")
		{
			riskGroup.GET("/timeline", dashboardHandler.GetTimeline)
			riskGroup.GET("/options", dashboardHandler.GetOptions)
			riskGroup.GET("/pivot", dashboardHandler.GetPivot)
			riskGroup.GET("/trend", dashboardHandler.GetTrend)
			riskGroup.GET("/bounds", dashboardHandler.GetBounds)
		}

		apiGroup.GET("/bom/feasibility", dashboardHandler.GetFeasibility)
		apiGroup.GET("/graph", dashboardHandler.GetGraph)

		uploadGroup := apiGroup.Group("/upload")
		{
			uploadGroup.POST("/inventory", dashboardHandler.UploadInventory)
			uploadGroup.POST("/bom", dashboardHandler.UploadBOM)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
