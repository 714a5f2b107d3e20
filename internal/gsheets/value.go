// internal/gsheets/value.go
package gsheets

import (
	"regexp"
	"strconv"
	"time"
)

// Kind tags a cell value.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindBool
	KindTime
)

// Value is one sheet cell after wire decoding. Sheets are duck-typed, so a
// tagged union keeps the downstream alias resolution deterministic instead of
// spreading interface{} assertions through the normalizers.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	Time time.Time
}

// StringValue builds a string Value; the empty string maps to KindEmpty.
func StringValue(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{Kind: KindString, Str: s}
}

// NumberValue builds a numeric Value.
func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// BoolValue builds a boolean Value.
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// TimeValue builds a date Value.
func TimeValue(t time.Time) Value {
	return Value{Kind: KindTime, Time: t}
}

// IsEmpty reports whether the value carries no content.
func (v Value) IsEmpty() bool {
	return v.Kind == KindEmpty
}

// String renders the value for display, mirroring how the widgets stringify
// non-string cells.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindTime:
		return v.Time.Format("2006-01-02")
	default:
		return ""
	}
}

// gviz serializes dates as Date(year,month,day[,hour,minute,second]) with a
// zero-based month.
var gvizDatePattern = regexp.MustCompile(`^Date\((\d+),(\d+),(\d+)(?:,(\d+),(\d+),(\d+))?\)$`)

// parseGVizDate decodes a gviz date wrapper string, correcting the month
// offset. Returns false for anything that is not a date wrapper.
func parseGVizDate(s string) (time.Time, bool) {
	match := gvizDatePattern.FindStringSubmatch(s)
	if match == nil {
		return time.Time{}, false
	}

	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}
	year, month, day := atoi(match[1]), atoi(match[2]), atoi(match[3])
	hour, minute, second := 0, 0, 0
	if match[4] != "" {
		hour, minute, second = atoi(match[4]), atoi(match[5]), atoi(match[6])
	}

	return time.Date(year, time.Month(month+1), day, hour, minute, second, 0, time.UTC), true
}
