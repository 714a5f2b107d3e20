// internal/gsheets/csv.go
package gsheets

import "strings"

// ParseCSV decodes a CSV export into ordered rows. The first record is the
// header; records with no non-empty cell are dropped. The parser is
// deliberately tolerant the way the sheet export needs it to be: quoted
// fields may embed commas, newlines and doubled quotes, and a quote in the
// middle of an unquoted field is taken literally instead of failing the
// record (encoding/csv rejects such input outright, see DESIGN.md).
func ParseCSV(text string) []Row {
	records := splitRecords(text)
	if len(records) == 0 {
		return nil
	}

	headers := records[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		hasContent := false
		for _, cell := range record {
			if strings.TrimSpace(cell) != "" {
				hasContent = true
				break
			}
		}
		if !hasContent {
			continue
		}

		var row Row
		for i, header := range headers {
			cell := ""
			if i < len(record) {
				cell = strings.TrimSpace(record[i])
			}
			row.Append(header, StringValue(cell))
		}
		rows = append(rows, row)
	}
	return rows
}

// splitRecords scans the raw text into records of fields, honoring quoting
// and CRLF/LF line endings.
func splitRecords(text string) [][]string {
	var (
		records  [][]string
		record   []string
		current  strings.Builder
		inQuotes bool
	)

	flushField := func() {
		record = append(record, current.String())
		current.Reset()
	}
	flushRecord := func() {
		if current.Len() > 0 || len(record) > 0 {
			flushField()
			records = append(records, record)
			record = nil
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			flushField()
		case (ch == '\n' || ch == '\r') && !inQuotes:
			flushRecord()
		default:
			current.WriteRune(ch)
		}
	}
	flushRecord()

	return records
}
