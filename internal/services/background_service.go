// internal/services/background_service.go
package services

import (
	"context"
	"encoding/base64"
	"sync"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/lumenbio/labsite/internal/errors"
	"github.com/lumenbio/labsite/internal/gdocs"
	"github.com/lumenbio/labsite/internal/models"
)

// maxConcurrentImageFetches bounds the inline-image batch so a picture-heavy
// document does not open dozens of upstream connections at once.
const maxConcurrentImageFetches = 6

// DocsClient is the document API surface the service needs. Satisfied by
// *gdocs.Client.
type DocsClient interface {
	GetDocument(ctx context.Context, docID string) (*gdocs.Document, error)
	FetchImage(ctx context.Context, contentURI string) ([]byte, string, error)
}

// BackgroundService turns a Google Doc into the rendered section tree.
type BackgroundService struct {
	docs         DocsClient
	logger       *zap.Logger
	defaultDocID string

	// credErr is the credential construction failure, if any. It is
	// surfaced per request instead of failing startup, so a misconfigured
	// deployment still serves the sheet-backed pages.
	credErr error
}

// NewBackgroundService creates the background document service. docs may be
// nil when the credential could not be constructed; pass the construction
// error as credErr so requests report the real cause.
func NewBackgroundService(docs DocsClient, logger *zap.Logger, defaultDocID string, credErr error) *BackgroundService {
	return &BackgroundService{
		docs:         docs,
		logger:       logger,
		defaultDocID: defaultDocID,
		credErr:      credErr,
	}
}

// GetBackground fetches the document, inlines its images as data URIs and
// builds the section tree. An empty docID falls back to the configured
// default.
func (s *BackgroundService) GetBackground(ctx context.Context, docID string) (*models.BackgroundDocument, error) {
	if docID == "" {
		docID = s.defaultDocID
	}
	if docID == "" {
		return nil, apperrors.NewConfigError("no document ID provided", nil)
	}
	if s.docs == nil {
		return nil, apperrors.NewConfigError("Google service account credentials are not configured", s.credErr)
	}

	doc, err := s.docs.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}

	images := s.fetchInlineImages(ctx, doc.InlineObjects)

	var content []gdocs.StructuralElement
	if doc.Body != nil {
		content = doc.Body.Content
	}

	return &models.BackgroundDocument{
		DocID:    docID,
		Sections: BuildSections(content, images),
	}, nil
}

// fetchInlineImages resolves every inline object to a data URI, in parallel.
// Failures are logged and the object is left out of the map; a missing image
// never fails the whole document.
func (s *BackgroundService) fetchInlineImages(ctx context.Context, objects map[string]gdocs.InlineObject) map[string]models.InlineImage {
	images := make(map[string]models.InlineImage, len(objects))
	if len(objects) == 0 {
		return images
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentImageFetches)

	for objectID, object := range objects {
		objectID, object := objectID, object
		g.Go(func() error {
			img, ok := s.fetchInlineImage(ctx, objectID, object)
			if ok {
				mu.Lock()
				images[objectID] = img
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	return images
}

func (s *BackgroundService) fetchInlineImage(ctx context.Context, objectID string, object gdocs.InlineObject) (models.InlineImage, bool) {
	if object.InlineObjectProperties == nil || object.InlineObjectProperties.EmbeddedObject == nil {
		return models.InlineImage{}, false
	}
	embedded := object.InlineObjectProperties.EmbeddedObject
	if embedded.ImageProperties == nil || embedded.ImageProperties.ContentURI == "" {
		return models.InlineImage{}, false
	}

	data, contentType, err := s.docs.FetchImage(ctx, embedded.ImageProperties.ContentURI)
	if err != nil {
		s.logger.Warn("inline image fetch failed",
			zap.String("object_id", objectID),
			zap.Error(err))
		return models.InlineImage{}, false
	}

	return models.InlineImage{
		DataURL: "data:" + imageContentType(contentType, data) + ";base64," + base64.StdEncoding.EncodeToString(data),
		Alt:     embedded.Description,
	}, true
}

// imageContentType trusts the upstream Content-Type header when it is
// specific, sniffs the bytes when it is not, and falls back to image/png.
func imageContentType(header string, data []byte) string {
	if header != "" && header != "application/octet-stream" {
		return header
	}
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	return "image/png"
}
