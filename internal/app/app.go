// internal/app/app.go
package app

import (
	"go.uber.org/zap"

	"github.com/lumenbio/labsite/internal/config"
	"github.com/lumenbio/labsite/internal/di"
	"github.com/lumenbio/labsite/internal/gauth"
	"github.com/lumenbio/labsite/internal/gdocs"
	"github.com/lumenbio/labsite/internal/gsheets"
	"github.com/lumenbio/labsite/internal/services"
)

// InitServices builds every service in dependency order and registers it in
// the DI container: credentials, API clients, then the page services the
// router consumes.
//
// A missing Google credential is not fatal here. The sheet-backed pages work
// without it, and the background service reports the configuration problem
// per request instead.
func InitServices(cfg *config.Config, logger *zap.Logger) error {
	container := di.GetContainer()

	container.Register("config", cfg)
	container.Register("logger", logger)

	var docs services.DocsClient
	creds, credErr := gauth.NewCredentials(cfg.GoogleClientEmail, cfg.GooglePrivateKey)
	if credErr != nil {
		logger.Warn("Google credentials unavailable, background document disabled",
			zap.Error(credErr))
	} else {
		container.Register("credentials", creds)
		docs = gdocs.NewClient(creds)
		container.Register("docs", docs)
	}

	sheets := gsheets.NewClient()
	container.Register("sheets", sheets)

	container.Register("background",
		services.NewBackgroundService(docs, logger, cfg.BackgroundDocID, credErr))
	container.Register("protocols",
		services.NewProtocolService(sheets, logger, cfg.Site.Protocols))
	container.Register("communication",
		services.NewCommunicationService(sheets, logger, cfg.Site.Communication))

	logger.Info("services initialized",
		zap.Strings("services", container.GetNames()))
	return nil
}
