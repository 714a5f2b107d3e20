// internal/gdocs/document.go
package gdocs

// Document is the subset of the Docs API document resource that the section
// builder consumes. Unknown fields are ignored on decode; absent fields stay
// nil and are treated as "no content".
type Document struct {
	DocumentID    string                  `json:"documentId"`
	Title         string                  `json:"title"`
	Body          *Body                   `json:"body"`
	InlineObjects map[string]InlineObject `json:"inlineObjects"`
}

// Body holds the ordered structural elements of the document.
type Body struct {
	Content []StructuralElement `json:"content"`
}

// StructuralElement is one item of the body; only paragraph-bearing elements
// matter here (tables and section breaks carry no renderable prose for us).
type StructuralElement struct {
	Paragraph *Paragraph `json:"paragraph"`
}

// Paragraph is a run of inline elements with a named style and optional
// bullet membership.
type Paragraph struct {
	Elements       []ParagraphElement `json:"elements"`
	ParagraphStyle *ParagraphStyle    `json:"paragraphStyle"`
	Bullet         *Bullet            `json:"bullet"`
}

// ParagraphStyle carries the named style type (NORMAL_TEXT, HEADING_1..6).
type ParagraphStyle struct {
	NamedStyleType string `json:"namedStyleType"`
}

// Bullet marks list membership; paragraphs sharing a ListID belong to the
// same source list.
type Bullet struct {
	ListID string `json:"listId"`
}

// ParagraphElement is either a text run or an inline object reference.
type ParagraphElement struct {
	TextRun             *TextRun             `json:"textRun"`
	InlineObjectElement *InlineObjectElement `json:"inlineObjectElement"`
}

// TextRun is styled text content.
type TextRun struct {
	Content   string     `json:"content"`
	TextStyle *TextStyle `json:"textStyle"`
}

// TextStyle carries the inline style flags of a run.
type TextStyle struct {
	Bold           bool   `json:"bold"`
	Italic         bool   `json:"italic"`
	Underline      bool   `json:"underline"`
	Strikethrough  bool   `json:"strikethrough"`
	BaselineOffset string `json:"baselineOffset"`
	Link           *Link  `json:"link"`
}

// Link is a text-run hyperlink target.
type Link struct {
	URL string `json:"url"`
}

// InlineObjectElement anchors an inline object within flowed text.
type InlineObjectElement struct {
	InlineObjectID string `json:"inlineObjectId"`
}

// InlineObject describes an embedded object, keyed in Document.InlineObjects
// by the same ID the anchor references.
type InlineObject struct {
	InlineObjectProperties *InlineObjectProperties `json:"inlineObjectProperties"`
}

// InlineObjectProperties wraps the embedded object payload.
type InlineObjectProperties struct {
	EmbeddedObject *EmbeddedObject `json:"embeddedObject"`
}

// EmbeddedObject carries the image description and content pointer.
type EmbeddedObject struct {
	Description     string           `json:"description"`
	ImageProperties *ImageProperties `json:"imageProperties"`
}

// ImageProperties holds the fetchable content URI of an image object.
type ImageProperties struct {
	ContentURI string `json:"contentUri"`
}
