// internal/api/router.go
package api

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumenbio/labsite/internal/config"
	"github.com/lumenbio/labsite/internal/di"
	"github.com/lumenbio/labsite/internal/services"
)

// apiRateLimit is generous for a content site; it exists to absorb scripted
// refresh loops, not to meter real readers.
const (
	apiRateLimit  = 120
	apiRateWindow = time.Minute
)

// SetupRouter wires routes against the services registered in the DI
// container. InitServices must have run first.
func SetupRouter() (*gin.Engine, error) {
	container := di.GetContainer()

	cfg, ok := container.Get("config").(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("config not registered")
	}
	logger, ok := container.Get("logger").(*zap.Logger)
	if !ok || logger == nil {
		return nil, fmt.Errorf("logger not registered")
	}
	background, ok := container.Get("background").(*services.BackgroundService)
	if !ok || background == nil {
		return nil, fmt.Errorf("background service not registered")
	}
	protocols, ok := container.Get("protocols").(*services.ProtocolService)
	if !ok || protocols == nil {
		return nil, fmt.Errorf("protocol service not registered")
	}
	communication, ok := container.Get("communication").(*services.CommunicationService)
	if !ok || communication == nil {
		return nil, fmt.Errorf("communication service not registered")
	}

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(MetricsMiddleware())
	r.Use(CORSMiddleware())

	r.LoadHTMLGlob(filepath.Join(cfg.TemplatesDir, "*.html"))
	r.Static("/static", cfg.StaticDir)

	h := NewHandlers(background, protocols, communication, logger)

	r.GET("/", h.IndexPage)
	r.GET("/background", h.BackgroundPage)
	r.GET("/protocols", h.ProtocolsPage)
	r.GET("/communication", h.CommunicationPage)

	r.GET("/ws/protocols", h.ProtocolFilterSocket)

	apiGroup := r.Group("/api")
	apiGroup.Use(RateLimitByIP(apiRateLimit, apiRateWindow))
	apiGroup.Use(CacheControlMiddleware())
	{
		apiGroup.GET("/health", h.HealthCheck)
		apiGroup.GET("/background", h.GetBackground)
		apiGroup.GET("/protocols", h.GetProtocols)
		apiGroup.GET("/communication", h.GetCommunication)
	}

	return r, nil
}
