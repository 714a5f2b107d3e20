// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumenbio/labsite/internal/api"
	"github.com/lumenbio/labsite/internal/app"
	"github.com/lumenbio/labsite/internal/config"
	"github.com/lumenbio/labsite/internal/utils"
)

func main() {
	// 1. Load configuration from environment and site config file.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// 2. Set up structured logging.
	logger, err := utils.NewLogger(cfg.LogDir, cfg.DebugMode)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 3. Initialize all services in dependency order.
	if err := app.InitServices(cfg, logger); err != nil {
		logger.Fatal("failed to initialize services", zap.Error(err))
	}

	// 4. Set up routes against the registered services.
	router, err := api.SetupRouter()
	if err != nil {
		logger.Fatal("failed to set up router", zap.Error(err))
	}

	logger.Info("server starting",
		zap.String("port", cfg.Port),
		zap.Bool("debug", cfg.DebugMode))

	runWithGracefulShutdown(router, cfg.Port, logger)
}

// runWithGracefulShutdown serves until SIGINT/SIGTERM, then drains in-flight
// requests with a timeout.
func runWithGracefulShutdown(router *gin.Engine, port string, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
