// internal/gsheets/gviz.go
package gsheets

import (
	"encoding/json"
	"fmt"
	"strings"
)

// gviz responses are JSON wrapped in a JavaScript callback prefix/suffix.
type gvizResponse struct {
	Table *gvizTable `json:"table"`
}

type gvizTable struct {
	Cols []gvizCol `json:"cols"`
	Rows []gvizRow `json:"rows"`
}

type gvizCol struct {
	Label string `json:"label"`
}

type gvizRow struct {
	C []*gvizCell `json:"c"`
}

// gvizCell holds a direct value v with a formatted-string fallback f.
type gvizCell struct {
	V interface{} `json:"v"`
	F string      `json:"f"`
}

// ParseGViz decodes a gviz wire response into ordered rows. Any shape problem
// (no braces, malformed JSON, absent table) yields an empty result so the
// caller can fall back to the CSV export.
func ParseGViz(raw string) []Row {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil
	}

	var resp gvizResponse
	if err := json.Unmarshal([]byte(raw[start:end+1]), &resp); err != nil {
		return nil
	}
	if resp.Table == nil {
		return nil
	}

	labels := make([]string, len(resp.Table.Cols))
	for i, col := range resp.Table.Cols {
		label := strings.TrimSpace(col.Label)
		if label == "" {
			label = fmt.Sprintf("Column%d", i)
		}
		labels[i] = label
	}

	rows := make([]Row, 0, len(resp.Table.Rows))
	for _, wire := range resp.Table.Rows {
		if wire.C == nil {
			continue
		}
		var row Row
		for i, cell := range wire.C {
			if i >= len(labels) {
				break
			}
			row.Append(labels[i], decodeCell(cell))
		}
		if row.HasContent() {
			rows = append(rows, row)
		}
	}
	return rows
}

// decodeCell applies the v-then-f fallback and the date-wrapper decoding.
func decodeCell(cell *gvizCell) Value {
	if cell == nil {
		return Value{}
	}

	switch v := cell.V.(type) {
	case string:
		if v != "" {
			if t, ok := parseGVizDate(v); ok {
				return TimeValue(t)
			}
			return StringValue(v)
		}
	case float64:
		return NumberValue(v)
	case bool:
		return BoolValue(v)
	}

	if cell.F != "" {
		if t, ok := parseGVizDate(cell.F); ok {
			return TimeValue(t)
		}
		return StringValue(cell.F)
	}
	return Value{}
}
