// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/supplyview/backend-go/internal/api"
	"github.com/andresuchdata/supplyview/backend-go/internal/bom"
	"github.com/andresuchdata/supplyview/backend-go/internal/cache"
	"github.com/andresuchdata/supplyview/backend-go/internal/config"
	"github.com/andresuchdata/supplyview/backend-go/internal/leadtime"
	"github.com/andresuchdata/supplyview/backend-go/internal/service"
	"github.com/andresuchdata/supplyview/backend-go/internal/store"
	"github.com/andresuchdata/supplyview/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize cache (falls back to noop when disabled)
	timelineCache, err := cache.NewTimelineCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize cache")
	}

	// Initialize services
	dashboard := service.NewDashboardService(store.New(), bom.NewTable(), leadtime.NewPolicy(cfg.LeadTime), timelineCache)

	seedData(dashboard, cfg)

	// Initialize HTTP server
	router := api.NewRouter(dashboard, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// seedData loads the optional startup CSVs. A configured path that cannot
// be loaded is fatal: serving an empty dashboard when data was expected is
// worse than failing fast.
func seedData(dashboard *service.DashboardService, cfg *config.Config) {
	ctx := context.Background()

	if path := cfg.App.InventoryCSV; path != "" {
		f, err := os.Open(path)
		if err != nil {
			logger.Log.Fatal().Err(err).Str("path", path).Msg("Failed to open inventory csv")
		}
		count, err := dashboard.LoadInventory(ctx, f)
		f.Close()
		if err != nil {
			logger.Log.Fatal().Err(err).Str("path", path).Msg("Failed to load inventory csv")
		}
		logger.Log.Info().Int("records", count).Str("path", path).Msg("Seeded inventory data")
	}

	if path := cfg.App.BomCSV; path != "" {
		f, err := os.Open(path)
		if err != nil {
			logger.Log.Fatal().Err(err).Str("path", path).Msg("Failed to open bom csv")
		}
		count, err := dashboard.LoadBOM(ctx, f)
		f.Close()
		if err != nil {
			logger.Log.Fatal().Err(err).Str("path", path).Msg("Failed to load bom csv")
		}
		logger.Log.Info().Int("edges", count).Str("path", path).Msg("Seeded bom data")
	}
}
