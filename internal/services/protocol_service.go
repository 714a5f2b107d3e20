// internal/services/protocol_service.go
package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lumenbio/labsite/internal/config"
	apperrors "github.com/lumenbio/labsite/internal/errors"
	"github.com/lumenbio/labsite/internal/gsheets"
	"github.com/lumenbio/labsite/internal/models"
	"github.com/lumenbio/labsite/internal/storage"
)

// ProtocolService reads the protocols worksheet and normalizes its rows into
// gallery cards.
type ProtocolService struct {
	sheets SheetClient
	logger *zap.Logger
	sheet  config.ProtocolSheet

	// imageCache memoizes Drive-link rewrites; galleries repeat the same
	// handful of images across refreshes.
	imageCache *storage.MemCache
}

// NewProtocolService creates the protocols service.
func NewProtocolService(sheets SheetClient, logger *zap.Logger, sheet config.ProtocolSheet) *ProtocolService {
	return &ProtocolService{
		sheets:     sheets,
		logger:     logger,
		sheet:      sheet,
		imageCache: storage.NewMemCache(256, 30*time.Minute),
	}
}

// GetProtocols fetches and normalizes the protocols worksheet. Rows without a
// title are dropped. Fetch failures degrade to an empty gallery: the error is
// logged, not returned, so the page renders its empty state instead of dying.
// Only a missing sheet configuration is reported to the caller.
func (s *ProtocolService) GetProtocols(ctx context.Context) ([]models.Protocol, error) {
	if s.sheet.SheetID == "" {
		return nil, apperrors.NewConfigError("no protocols sheet configured", nil)
	}

	rows, err := fetchSheetRows(ctx, s.sheets, s.logger, s.sheet.SheetID, s.sheet.GID, s.sheet.SheetName)
	if err != nil {
		s.logger.Warn("protocols sheet unavailable", zap.Error(err))
		return []models.Protocol{}, nil
	}

	protocols := make([]models.Protocol, 0, len(rows))
	for _, row := range rows {
		if p := s.normalizeProtocolRow(row); p != nil {
			protocols = append(protocols, *p)
		}
	}
	return protocols, nil
}

// normalizeProtocolRow maps one sheet row to a card. The title is the one
// required field; everything else has a fallback.
func (s *ProtocolService) normalizeProtocolRow(row gsheets.Row) *models.Protocol {
	title := strings.TrimSpace(row.Get("Title", "title").String())
	if title == "" {
		return nil
	}

	link := strings.TrimSpace(row.Get("Link", "link", "Protocol Link", "protocol link").String())
	if link == "" {
		link = "#"
	}

	image := row.Get("Image", "image", "Image URL", "image url", "Thumbnail", "thumbnail").String()

	return &models.Protocol{
		Title:   title,
		Summary: strings.TrimSpace(row.Get("Summary", "summary", "Description", "description").String()),
		Image:   s.normalizeImageURL(image),
		Link:    link,
		Updated: formatUpdated(row.Get("Updated", "updated", "Date", "date")),
	}
}

// formatUpdated renders the update stamp as "Jan 02 2006". Cells that already
// decoded as dates format directly; string cells get a best-effort parse and
// pass through verbatim when no layout matches. An empty cell reads
// "Date TBD".
func formatUpdated(v gsheets.Value) string {
	const display = "Jan 02 2006"

	if v.Kind == gsheets.KindTime {
		return v.Time.Format(display)
	}

	raw := strings.TrimSpace(v.String())
	if raw == "" {
		return "Date TBD"
	}
	for _, layout := range []string{"2006-01-02", "1/2/2006", "01/02/2006", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(display)
		}
	}
	return raw
}

const driveThumbnailBase = "https://lh3.googleusercontent.com/d/"

var (
	lh3Pattern   = regexp.MustCompile(`(?i)^https?://lh3\.googleusercontent\.com/`)
	drivePathID  = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	driveQueryID = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
	bareDriveID  = regexp.MustCompile(`^[a-zA-Z0-9_-]{20,}$`)
)

// normalizeImageURL rewrites Drive share links and bare file IDs to the lh3
// thumbnail CDN at display width. CDN links pass through, anything
// unrecognized passes through untouched, and an empty cell gets the
// configured placeholder.
func (s *ProtocolService) normalizeImageURL(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.sheet.DefaultImage
	}

	if cached, ok := s.imageCache.Get(value); ok {
		return cached.(string)
	}

	resolved := value
	if !lh3Pattern.MatchString(value) {
		if id := extractDriveID(value); id != "" {
			resolved = driveThumbnailBase + id + "=s1200"
		}
	}

	s.imageCache.Set(value, resolved)
	return resolved
}

// extractDriveID pulls a Drive file ID out of a share URL or a bare ID cell.
func extractDriveID(value string) string {
	if m := drivePathID.FindStringSubmatch(value); m != nil {
		return m[1]
	}
	if m := driveQueryID.FindStringSubmatch(value); m != nil {
		return m[1]
	}
	if !strings.Contains(value, "/") && bareDriveID.MatchString(value) {
		return value
	}
	return ""
}
