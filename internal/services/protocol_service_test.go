// internal/services/protocol_service_test.go
package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lumenbio/labsite/internal/config"
	apperrors "github.com/lumenbio/labsite/internal/errors"
	"github.com/lumenbio/labsite/internal/gsheets"
)

// fakeSheetClient serves canned rows per gid and records which endpoints were
// hit.
type fakeSheetClient struct {
	gvizRows map[string][]gsheets.Row
	gvizErr  error
	csvRows  map[string][]gsheets.Row
	csvErr   error

	gvizCalls int
	csvCalls  int
}

func (f *fakeSheetClient) FetchGViz(_ context.Context, _, gid, _ string) ([]gsheets.Row, error) {
	f.gvizCalls++
	if f.gvizErr != nil {
		return nil, f.gvizErr
	}
	return f.gvizRows[gid], nil
}

func (f *fakeSheetClient) FetchCSV(_ context.Context, _, gid string) ([]gsheets.Row, error) {
	f.csvCalls++
	if f.csvErr != nil {
		return nil, f.csvErr
	}
	return f.csvRows[gid], nil
}

func protocolRow(cells map[string]string) gsheets.Row {
	var row gsheets.Row
	for label, value := range cells {
		row.Append(label, gsheets.StringValue(value))
	}
	return row
}

func newTestProtocolService(client SheetClient) *ProtocolService {
	return NewProtocolService(client, zap.NewNop(), config.ProtocolSheet{
		SheetID:      "sheet-1",
		GID:          "42",
		DefaultImage: "/static/images/lab-logo.jpeg",
	})
}

func TestGetProtocolsNormalizesRows(t *testing.T) {
	client := &fakeSheetClient{gvizRows: map[string][]gsheets.Row{
		"42": {
			protocolRow(map[string]string{
				"Title":   "DNA Extraction",
				"Summary": "Phenol-free",
				"Link":    "https://example.org/dna",
				"Image":   "https://drive.google.com/file/d/FILE_ID_ABC123/view",
			}),
			protocolRow(map[string]string{"Summary": "no title, dropped"}),
		},
	}}

	protocols, err := newTestProtocolService(client).GetProtocols(context.Background())
	require.NoError(t, err)
	require.Len(t, protocols, 1)

	p := protocols[0]
	assert.Equal(t, "DNA Extraction", p.Title)
	assert.Equal(t, "Phenol-free", p.Summary)
	assert.Equal(t, "https://example.org/dna", p.Link)
	assert.Equal(t, "https://lh3.googleusercontent.com/d/FILE_ID_ABC123=s1200", p.Image)
	assert.Equal(t, "Date TBD", p.Updated)
}

func TestGetProtocolsAliasAndDefaults(t *testing.T) {
	client := &fakeSheetClient{gvizRows: map[string][]gsheets.Row{
		"42": {
			protocolRow(map[string]string{
				"title":         "lowercase headers",
				"description":   "alias summary",
				"protocol link": "https://example.org/p",
				"date":          "2024-03-09",
			}),
			protocolRow(map[string]string{"Title": "Bare"}),
		},
	}}

	protocols, err := newTestProtocolService(client).GetProtocols(context.Background())
	require.NoError(t, err)
	require.Len(t, protocols, 2)

	assert.Equal(t, "alias summary", protocols[0].Summary)
	assert.Equal(t, "https://example.org/p", protocols[0].Link)
	assert.Equal(t, "Mar 09 2024", protocols[0].Updated)

	assert.Equal(t, "#", protocols[1].Link)
	assert.Equal(t, "/static/images/lab-logo.jpeg", protocols[1].Image)
}

func TestGetProtocolsFallsBackToCSV(t *testing.T) {
	client := &fakeSheetClient{
		gvizErr: errors.New("gviz 500"),
		csvRows: map[string][]gsheets.Row{
			"42": {protocolRow(map[string]string{"Title": "From CSV"})},
		},
	}

	protocols, err := newTestProtocolService(client).GetProtocols(context.Background())
	require.NoError(t, err)
	require.Len(t, protocols, 1)
	assert.Equal(t, "From CSV", protocols[0].Title)
	assert.Equal(t, 1, client.gvizCalls)
	assert.Equal(t, 1, client.csvCalls)
}

func TestGetProtocolsBothFormatsFailingDegradesToEmpty(t *testing.T) {
	client := &fakeSheetClient{
		gvizErr: errors.New("gviz down"),
		csvErr:  errors.New("csv down"),
	}

	protocols, err := newTestProtocolService(client).GetProtocols(context.Background())
	require.NoError(t, err)
	assert.Empty(t, protocols)
}

func TestGetProtocolsWithoutSheetConfig(t *testing.T) {
	svc := NewProtocolService(&fakeSheetClient{}, zap.NewNop(), config.ProtocolSheet{})

	_, err := svc.GetProtocols(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsConfigError(err))
}

func TestNormalizeImageURL(t *testing.T) {
	svc := newTestProtocolService(&fakeSheetClient{})

	cases := map[string]string{
		"": "/static/images/lab-logo.jpeg",
		"https://drive.google.com/file/d/abc_DEF-123/view": "https://lh3.googleusercontent.com/d/abc_DEF-123=s1200",
		"https://drive.google.com/open?id=xyz789":          "https://lh3.googleusercontent.com/d/xyz789=s1200",
		"1A2b3C4d5E6f7G8h9I0j1K2l3M4n":                     "https://lh3.googleusercontent.com/d/1A2b3C4d5E6f7G8h9I0j1K2l3M4n=s1200",
		"https://lh3.googleusercontent.com/d/keep=s800":    "https://lh3.googleusercontent.com/d/keep=s800",
		"https://example.org/plain.png":                    "https://example.org/plain.png",
	}
	for input, want := range cases {
		assert.Equal(t, want, svc.normalizeImageURL(input), input)
	}
}

func TestFormatUpdated(t *testing.T) {
	assert.Equal(t, "Jan 15 2024",
		formatUpdated(gsheets.TimeValue(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC))))
	assert.Equal(t, "Mar 09 2024", formatUpdated(gsheets.StringValue("3/9/2024")))
	assert.Equal(t, "Date TBD", formatUpdated(gsheets.Value{}))
	assert.Equal(t, "spring 2024", formatUpdated(gsheets.StringValue("spring 2024")))
}
