// internal/gsheets/row.go
package gsheets

// Field is one labeled cell of a row.
type Field struct {
	Label string
	Value Value
}

// Row is an ordered mapping from header label to cell value. Order matters:
// the "first non-empty value" fallback in the normalizers is defined over
// sheet column order.
type Row struct {
	fields []Field
}

// Append adds a labeled value, keeping column order.
func (r *Row) Append(label string, v Value) {
	r.fields = append(r.fields, Field{Label: label, Value: v})
}

// Get resolves the first non-empty value among the given header aliases, in
// alias priority order. Matching is case-sensitive: alias lists spell out the
// casings they accept.
func (r Row) Get(aliases ...string) Value {
	for _, alias := range aliases {
		for _, f := range r.fields {
			if f.Label == alias && !f.Value.IsEmpty() {
				return f.Value
			}
		}
	}
	return Value{}
}

// First returns the first non-empty value in column order.
func (r Row) First() Value {
	for _, f := range r.fields {
		if !f.Value.IsEmpty() {
			return f.Value
		}
	}
	return Value{}
}

// Fields exposes the ordered cells for whole-row scans.
func (r Row) Fields() []Field {
	return r.fields
}

// HasContent reports whether any cell is non-empty.
func (r Row) HasContent() bool {
	for _, f := range r.fields {
		if !f.Value.IsEmpty() {
			return true
		}
	}
	return false
}
