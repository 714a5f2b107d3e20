// internal/gdocs/client_test.go
package gdocs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lumenbio/labsite/internal/errors"
)

type stubFetcher struct {
	body        []byte
	contentType string
	err         error

	lastURL string
}

func (s *stubFetcher) Get(_ context.Context, rawURL string) ([]byte, string, error) {
	s.lastURL = rawURL
	return s.body, s.contentType, s.err
}

func TestGetDocumentDecodesStructure(t *testing.T) {
	fetcher := &stubFetcher{body: []byte(`{
		"documentId": "doc-1",
		"title": "Lab Background",
		"body": {"content": [
			{"paragraph": {
				"paragraphStyle": {"namedStyleType": "HEADING_1"},
				"elements": [{"textRun": {"content": "About\n"}}],
				"bullet": {"listId": "list-1"}
			}}
		]},
		"inlineObjects": {
			"kix.1": {"inlineObjectProperties": {"embeddedObject": {
				"description": "microscope",
				"imageProperties": {"contentUri": "https://img.example/1"}
			}}}
		}
	}`)}

	doc, err := NewClient(fetcher).GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Contains(t, fetcher.lastURL, "/v1/documents/doc-1")
	assert.Equal(t, "doc-1", doc.DocumentID)
	require.Len(t, doc.Body.Content, 1)

	p := doc.Body.Content[0].Paragraph
	require.NotNil(t, p)
	assert.Equal(t, "HEADING_1", p.ParagraphStyle.NamedStyleType)
	assert.Equal(t, "About\n", p.Elements[0].TextRun.Content)
	assert.Equal(t, "list-1", p.Bullet.ListID)

	obj := doc.InlineObjects["kix.1"]
	require.NotNil(t, obj.InlineObjectProperties)
	assert.Equal(t, "https://img.example/1",
		obj.InlineObjectProperties.EmbeddedObject.ImageProperties.ContentURI)
}

func TestGetDocumentErrors(t *testing.T) {
	_, err := NewClient(&stubFetcher{}).GetDocument(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsConfigError(err))

	_, err = NewClient(&stubFetcher{err: apperrors.NewUpstreamError("request failed", errors.New("403"))}).
		GetDocument(context.Background(), "doc-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstreamError(err))

	_, err = NewClient(&stubFetcher{body: []byte("<html>")}).GetDocument(context.Background(), "doc-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsParseError(err))
}

func TestFetchImagePassesThrough(t *testing.T) {
	fetcher := &stubFetcher{body: []byte{1, 2}, contentType: "image/png"}

	data, contentType, err := NewClient(fetcher).FetchImage(context.Background(), "https://img.example/1")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, data)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, "https://img.example/1", fetcher.lastURL)
}
