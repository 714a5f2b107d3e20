// internal/api/handlers.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lumenbio/labsite/internal/render"
	"github.com/lumenbio/labsite/internal/services"
	"github.com/lumenbio/labsite/internal/utils"
)

// Handlers holds the handler dependencies.
type Handlers struct {
	background    *services.BackgroundService
	protocols     *services.ProtocolService
	communication *services.CommunicationService
	response      *ResponseHelper
	logger        *zap.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(
	background *services.BackgroundService,
	protocols *services.ProtocolService,
	communication *services.CommunicationService,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		background:    background,
		protocols:     protocols,
		communication: communication,
		response:      NewResponseHelper(logger),
		logger:        logger,
	}
}

// HealthCheck reports liveness along with the in-process metrics snapshot.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"metrics": utils.GetMetricsCollector().Snapshot(),
	})
}

// GetBackground serves the section tree of the background document. The
// docId query parameter overrides the configured default document.
func (h *Handlers) GetBackground(c *gin.Context) {
	doc, err := h.background.GetBackground(c.Request.Context(), c.Query("docId"))
	if err != nil {
		h.response.UpstreamError(c, "Unable to load background content", err)
		return
	}
	h.response.Success(c, doc)
}

// GetProtocols serves the normalized protocol cards.
func (h *Handlers) GetProtocols(c *gin.Context) {
	protocols, err := h.protocols.GetProtocols(c.Request.Context())
	if err != nil {
		h.response.UpstreamError(c, "Unable to load protocols", err)
		return
	}
	h.response.Success(c, gin.H{
		"protocols": protocols,
		"html":      render.ProtocolCards(protocols),
	})
}

// GetCommunication serves the communication directory, one block per
// configured category.
func (h *Handlers) GetCommunication(c *gin.Context) {
	blocks, err := h.communication.GetDirectory(c.Request.Context())
	if err != nil {
		h.response.UpstreamError(c, "Unable to load communication directory", err)
		return
	}
	h.response.Success(c, gin.H{
		"categories": blocks,
		"html":       render.CategoryBlocks(blocks),
	})
}

// IndexPage redirects to the background page, the site's landing content.
func (h *Handlers) IndexPage(c *gin.Context) {
	c.Redirect(http.StatusFound, "/background")
}

// BackgroundPage renders the background document server-side. A fetch failure
// renders the page shell with its error state instead of a bare 500, so the
// navigation chrome survives an upstream outage.
func (h *Handlers) BackgroundPage(c *gin.Context) {
	doc, err := h.background.GetBackground(c.Request.Context(), c.Query("docId"))
	if err != nil {
		h.logger.Error("background page render failed", zap.Error(err))
		c.HTML(http.StatusOK, "background.html", gin.H{
			"Title": "Background",
			"Error": "Background content is unavailable right now.",
		})
		return
	}

	c.HTML(http.StatusOK, "background.html", gin.H{
		"Title":    "Background",
		"Nav":      render.SectionNav(doc.Sections),
		"Sections": render.Sections(doc.Sections),
	})
}

// ProtocolsPage renders the protocol gallery.
func (h *Handlers) ProtocolsPage(c *gin.Context) {
	protocols, err := h.protocols.GetProtocols(c.Request.Context())
	if err != nil {
		h.logger.Error("protocols page render failed", zap.Error(err))
		protocols = nil
	}

	c.HTML(http.StatusOK, "protocols.html", gin.H{
		"Title": "Protocols",
		"Cards": render.ProtocolCards(protocols),
	})
}

// CommunicationPage renders the communication directory.
func (h *Handlers) CommunicationPage(c *gin.Context) {
	blocks, err := h.communication.GetDirectory(c.Request.Context())
	if err != nil {
		h.logger.Error("communication page render failed", zap.Error(err))
		c.HTML(http.StatusOK, "communication.html", gin.H{
			"Title": "Communication",
			"Error": "The communication directory is unavailable right now.",
		})
		return
	}

	c.HTML(http.StatusOK, "communication.html", gin.H{
		"Title":      "Communication",
		"Categories": render.CategoryBlocks(blocks),
	})
}
