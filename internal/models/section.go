// internal/models/section.go
package models

// Section is one top-level block of the background document, opened at each
// HEADING_1/HEADING_2 paragraph. Blocks hold rendered HTML fragments in
// document order.
type Section struct {
	Title       string       `json:"title"`
	ID          string       `json:"id"`
	Blocks      []string     `json:"blocks"`
	Subsections []Subsection `json:"subsections"`
}

// Subsection nests one level under a Section (HEADING_3/HEADING_4).
type Subsection struct {
	Title  string   `json:"title"`
	ID     string   `json:"id"`
	Blocks []string `json:"blocks"`
}

// InlineImage is a document-embedded image resolved to an embeddable data URI.
// Keyed by the document's inline object ID; objects that failed to fetch are
// simply absent from the map.
type InlineImage struct {
	DataURL string `json:"dataUrl"`
	Alt     string `json:"alt"`
}

// BackgroundDocument is the payload of GET /api/background.
type BackgroundDocument struct {
	DocID    string    `json:"docId"`
	Sections []Section `json:"sections"`
}
