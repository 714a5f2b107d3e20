// internal/api/response_helpers.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/lumenbio/labsite/internal/errors"
)

// ErrorResponse is the JSON error envelope of every API endpoint.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// ResponseHelper standardizes API responses and logs failures in one place.
type ResponseHelper struct {
	logger *zap.Logger
}

// NewResponseHelper creates a response helper.
func NewResponseHelper(logger *zap.Logger) *ResponseHelper {
	return &ResponseHelper{logger: logger}
}

// Success writes a 200 JSON body.
func (h *ResponseHelper) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Error logs the failure and writes the error envelope. The message is the
// stable human-readable summary; detail carries the underlying cause.
func (h *ResponseHelper) Error(c *gin.Context, status int, message string, err error) {
	detail := ""
	if err != nil {
		detail = apperrors.Detail(err)
	}

	h.logger.Error(message,
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", RequestIDFromContext(c)),
		zap.Error(err))

	c.JSON(status, ErrorResponse{Error: message, Detail: detail})
}

// UpstreamError maps a service failure to the right status: configuration
// problems and upstream outages both surface as 500 with the cause in detail.
func (h *ResponseHelper) UpstreamError(c *gin.Context, message string, err error) {
	h.Error(c, http.StatusInternalServerError, message, err)
}
