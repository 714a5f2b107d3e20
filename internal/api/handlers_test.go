// internal/api/handlers_test.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lumenbio/labsite/internal/config"
	apperrors "github.com/lumenbio/labsite/internal/errors"
	"github.com/lumenbio/labsite/internal/gdocs"
	"github.com/lumenbio/labsite/internal/gsheets"
	"github.com/lumenbio/labsite/internal/models"
	"github.com/lumenbio/labsite/internal/services"
)

type stubDocs struct {
	doc *gdocs.Document
	err error
}

func (s *stubDocs) GetDocument(context.Context, string) (*gdocs.Document, error) {
	return s.doc, s.err
}

func (s *stubDocs) FetchImage(context.Context, string) ([]byte, string, error) {
	return nil, "", nil
}

type stubSheets struct {
	rows []gsheets.Row
	err  error
}

func (s *stubSheets) FetchGViz(context.Context, string, string, string) ([]gsheets.Row, error) {
	return s.rows, s.err
}

func (s *stubSheets) FetchCSV(context.Context, string, string) ([]gsheets.Row, error) {
	return s.rows, s.err
}

func sheetRow(label, value string) gsheets.Row {
	var row gsheets.Row
	row.Append(label, gsheets.StringValue(value))
	return row
}

func newTestRouter(docs services.DocsClient, sheets services.SheetClient, credErr error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	h := NewHandlers(
		services.NewBackgroundService(docs, logger, "default-doc", credErr),
		services.NewProtocolService(sheets, logger, config.ProtocolSheet{SheetID: "s", GID: "1", DefaultImage: "/static/images/lab-logo.jpeg"}),
		services.NewCommunicationService(sheets, logger, config.CommunicationSheet{
			SheetID:    "s",
			Categories: []models.Category{{GID: "1", Title: "Internal"}},
		}),
		logger,
	)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(CORSMiddleware())

	apiGroup := r.Group("/api")
	apiGroup.Use(CacheControlMiddleware())
	{
		apiGroup.GET("/health", h.HealthCheck)
		apiGroup.GET("/background", h.GetBackground)
		apiGroup.GET("/protocols", h.GetProtocols)
		apiGroup.GET("/communication", h.GetCommunication)
	}
	return r
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetBackgroundEndpoint(t *testing.T) {
	docs := &stubDocs{doc: &gdocs.Document{Body: &gdocs.Body{Content: []gdocs.StructuralElement{
		{Paragraph: &gdocs.Paragraph{
			ParagraphStyle: &gdocs.ParagraphStyle{NamedStyleType: "HEADING_1"},
			Elements:       []gdocs.ParagraphElement{{TextRun: &gdocs.TextRun{Content: "About"}}},
		}},
	}}}}

	w := doRequest(newTestRouter(docs, &stubSheets{}, nil), http.MethodGet, "/api/background")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "s-maxage=60, stale-while-revalidate", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var body struct {
		DocID    string           `json:"docId"`
		Sections []models.Section `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "default-doc", body.DocID)
	require.Len(t, body.Sections, 1)
	assert.Equal(t, "About", body.Sections[0].Title)
}

func TestGetBackgroundEndpointErrorShape(t *testing.T) {
	credErr := apperrors.NewConfigError("Google service account credentials are not configured", nil)

	w := doRequest(newTestRouter(nil, &stubSheets{}, credErr), http.MethodGet, "/api/background")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Unable to load background content", body.Error)
	assert.NotEmpty(t, body.Detail)
}

func TestGetProtocolsEndpoint(t *testing.T) {
	sheets := &stubSheets{rows: []gsheets.Row{sheetRow("Title", "DNA Extraction")}}

	w := doRequest(newTestRouter(&stubDocs{}, sheets, nil), http.MethodGet, "/api/protocols")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Protocols []models.Protocol `json:"protocols"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Protocols, 1)
	assert.Equal(t, "DNA Extraction", body.Protocols[0].Title)
}

func TestGetCommunicationEndpoint(t *testing.T) {
	sheets := &stubSheets{rows: []gsheets.Row{sheetRow("Title", "Slack")}}

	w := doRequest(newTestRouter(&stubDocs{}, sheets, nil), http.MethodGet, "/api/communication")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Categories []models.CategoryBlock `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Categories, 1)
	assert.Equal(t, "Internal", body.Categories[0].Category.Title)
	require.Len(t, body.Categories[0].Resources, 1)
}

func TestHealthEndpoint(t *testing.T) {
	w := doRequest(newTestRouter(&stubDocs{}, &stubSheets{}, nil), http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCORSPreflight(t *testing.T) {
	w := doRequest(newTestRouter(&stubDocs{}, &stubSheets{}, nil), http.MethodOptions, "/api/health")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitByIP(2, time.Minute))
	r.GET("/limited", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/limited").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/limited").Code)

	w := doRequest(r, http.MethodGet, "/limited")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}
