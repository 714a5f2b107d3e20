// internal/services/sheet_rows.go
package services

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lumenbio/labsite/internal/gsheets"
	"github.com/lumenbio/labsite/internal/utils"
)

// SheetClient is the spreadsheet export surface the sheet-backed services
// need. Satisfied by *gsheets.Client.
type SheetClient interface {
	FetchGViz(ctx context.Context, sheetID, gid, sheetName string) ([]gsheets.Row, error)
	FetchCSV(ctx context.Context, sheetID, gid string) ([]gsheets.Row, error)
}

// fetchSheetRows reads one worksheet, gviz first with a CSV fallback. The
// fallback fires both when gviz errors and when it parses to zero rows, since
// a truncated or permission-walled gviz body decodes as empty rather than
// failing. Only when both formats come back empty-handed is the combined
// error returned.
func fetchSheetRows(ctx context.Context, client SheetClient, logger *zap.Logger, sheetID, gid, sheetName string) ([]gsheets.Row, error) {
	rows, gvizErr := client.FetchGViz(ctx, sheetID, gid, sheetName)
	if gvizErr == nil && len(rows) > 0 {
		return rows, nil
	}
	utils.GetMetricsCollector().IncrCounter("sheets:csv_fallback")
	if gvizErr != nil {
		logger.Warn("gviz fetch failed, falling back to CSV",
			zap.String("sheet_id", sheetID),
			zap.String("gid", gid),
			zap.Error(gvizErr))
	}

	rows, csvErr := client.FetchCSV(ctx, sheetID, gid)
	if csvErr != nil {
		return nil, multierr.Append(gvizErr, csvErr)
	}
	return rows, nil
}
