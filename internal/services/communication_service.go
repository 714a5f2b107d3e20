// internal/services/communication_service.go
package services

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lumenbio/labsite/internal/config"
	apperrors "github.com/lumenbio/labsite/internal/errors"
	"github.com/lumenbio/labsite/internal/gsheets"
	"github.com/lumenbio/labsite/internal/models"
)

// CommunicationService reads the communication-directory worksheets and
// normalizes their rows into resource listings.
type CommunicationService struct {
	sheets SheetClient
	logger *zap.Logger
	sheet  config.CommunicationSheet
}

// NewCommunicationService creates the communication directory service.
func NewCommunicationService(sheets SheetClient, logger *zap.Logger, sheet config.CommunicationSheet) *CommunicationService {
	return &CommunicationService{
		sheets: sheets,
		logger: logger,
		sheet:  sheet,
	}
}

// GetDirectory fetches every configured category worksheet in parallel.
// Category failures are isolated: a failed tab yields an empty resource list
// while its siblings render normally, and the collected errors are logged
// once. Output order always matches configuration order.
func (s *CommunicationService) GetDirectory(ctx context.Context) ([]models.CategoryBlock, error) {
	if s.sheet.SheetID == "" || len(s.sheet.Categories) == 0 {
		return nil, apperrors.NewConfigError("no communication sheet configured", nil)
	}

	blocks := make([]models.CategoryBlock, len(s.sheet.Categories))
	errs := make([]error, len(s.sheet.Categories))

	var g errgroup.Group
	for i, category := range s.sheet.Categories {
		i, category := i, category
		g.Go(func() error {
			resources, err := s.fetchCategory(ctx, category)
			blocks[i] = models.CategoryBlock{Category: category, Resources: resources}
			errs[i] = err
			return nil
		})
	}
	g.Wait()

	if combined := multierr.Combine(errs...); combined != nil {
		s.logger.Warn("some communication categories failed to load",
			zap.String("sheet_id", s.sheet.SheetID),
			zap.Error(combined))
	}
	return blocks, nil
}

func (s *CommunicationService) fetchCategory(ctx context.Context, category models.Category) ([]models.Resource, error) {
	rows, err := fetchSheetRows(ctx, s.sheets, s.logger, s.sheet.SheetID, category.GID, category.Title)
	if err != nil {
		return []models.Resource{}, err
	}

	resources := make([]models.Resource, 0, len(rows))
	for _, row := range rows {
		if r := normalizeResourceRow(row); r != nil {
			resources = append(resources, *r)
		}
	}
	return resources, nil
}

// normalizeResourceRow maps one sheet row to a directory entry. Link and
// title each resolve through an alias chain, then through a ladder of
// fallbacks; a row that still has neither is dropped.
func normalizeResourceRow(row gsheets.Row) *models.Resource {
	link := strings.TrimSpace(row.Get("Link", "URL", "Resource Link", "Resource", "Website").String())
	if link == "" {
		link = findFirstURL(row)
	}

	title := strings.TrimSpace(row.Get("Title", "Name", "Resource", "Topic", "Headline").String())
	summary := strings.TrimSpace(row.Get("Description", "Summary", "Notes", "Details").String())

	if title == "" {
		switch {
		case summary != "":
			title = summary
			summary = ""
		case link != "":
			title = titleFromURL(link)
		default:
			title = strings.TrimSpace(row.First().String())
		}
	}

	if title == "" && link == "" {
		return nil
	}
	if title == "" {
		title = "Resource"
	}

	return &models.Resource{
		Title:   title,
		Summary: summary,
		Link:    link,
		Tags:    strings.TrimSpace(row.Get("Tags", "Category").String()),
	}
}

var urlPattern = regexp.MustCompile(`(?i)https?://\S+`)

// findFirstURL scans the row's cells in column order for anything that looks
// like an http(s) URL.
func findFirstURL(row gsheets.Row) string {
	for _, f := range row.Fields() {
		if m := urlPattern.FindString(f.Value.String()); m != "" {
			return m
		}
	}
	return ""
}

var fileExtPattern = regexp.MustCompile(`(?i)\.[a-z0-9]+$`)

// titleFromURL derives a readable title from a link: the last path segment
// (or the hostname when the path is empty), extension stripped, separators
// spaced, words capitalized. An unparseable link comes back verbatim.
func titleFromURL(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return link
	}

	base := ""
	for _, segment := range strings.Split(u.Path, "/") {
		if segment != "" {
			base = segment
		}
	}
	if base == "" {
		base = strings.TrimPrefix(u.Hostname(), "www.")
	}

	if decoded, err := url.PathUnescape(base); err == nil {
		base = decoded
	}
	base = fileExtPattern.ReplaceAllString(base, "")
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return link
	}

	words := strings.Fields(strings.ToLower(base))
	for i, w := range words {
		r := []rune(w)
		words[i] = string(unicode.ToUpper(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}
