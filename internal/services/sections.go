// internal/services/sections.go
package services

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/lumenbio/labsite/internal/gdocs"
	"github.com/lumenbio/labsite/internal/models"
)

// BuildSections walks document content in order and produces the section
// tree. HEADING_1/HEADING_2 open a new section, HEADING_3/HEADING_4 open a
// subsection under the current one, and body text before any heading lands in
// an implicit "Overview" section. Inline images must already be resolved:
// the builder only looks object IDs up in the finished map.
//
// Malformed items (no paragraph, no style, no elements) contribute nothing;
// the walk never aborts on a single bad item.
func BuildSections(content []gdocs.StructuralElement, images map[string]models.InlineImage) []models.Section {
	b := &sectionBuilder{
		slugCounts: make(map[string]int),
		images:     images,
	}

	for _, item := range content {
		if item.Paragraph == nil {
			continue
		}
		b.addParagraph(item.Paragraph)
	}

	return b.finish()
}

// sectionBuilder accumulates sections while the document walk is in flight.
// Slug disambiguation is document-scoped: section and subsection titles share
// one counter.
type sectionBuilder struct {
	sections   []*sectionState
	slugCounts map[string]int
	images     map[string]models.InlineImage

	currentSection *sectionState
	currentTarget  *blockTarget
}

type sectionState struct {
	title       string
	id          string
	target      blockTarget
	subsections []*subsectionState
}

type subsectionState struct {
	title  string
	id     string
	target blockTarget
}

// blockTarget is the blocks sequence currently being appended to, plus the
// pending bullet list attached to it. At most one list is open per target.
type blockTarget struct {
	blocks []string
	list   *pendingList
}

// pendingList buffers consecutive bullet items sharing one source list ID
// until a non-bullet block, a different list ID, or the target closing
// flushes them into a single wrapper.
type pendingList struct {
	id    string
	items []string
}

func (b *sectionBuilder) addParagraph(p *gdocs.Paragraph) {
	namedStyle := ""
	if p.ParagraphStyle != nil {
		namedStyle = p.ParagraphStyle.NamedStyleType
	}
	paragraphHTML := b.renderParagraphElements(p)
	plain := plainText(p)

	switch namedStyle {
	case "HEADING_1", "HEADING_2":
		if b.currentTarget != nil {
			b.currentTarget.flushList()
		}
		title := plain
		if title == "" {
			title = "Untitled section"
		}
		section := &sectionState{title: title, id: b.slugify(title)}
		b.sections = append(b.sections, section)
		b.currentSection = section
		b.currentTarget = &section.target
		return

	case "HEADING_3", "HEADING_4":
		if b.currentSection != nil {
			b.currentTarget.flushList()
			title := plain
			if title == "" {
				title = "Subsection"
			}
			sub := &subsectionState{title: title, id: b.slugify(title)}
			b.currentSection.subsections = append(b.currentSection.subsections, sub)
			b.currentTarget = &sub.target
			return
		}
	}

	if b.currentSection == nil {
		section := &sectionState{title: "Overview", id: b.slugify("overview")}
		b.sections = append(b.sections, section)
		b.currentSection = section
		b.currentTarget = &section.target
	}

	if p.Bullet != nil {
		b.currentTarget.appendListItem(p.Bullet.ListID, paragraphHTML)
		return
	}

	if paragraphHTML != "" {
		b.currentTarget.appendParagraph(paragraphHTML)
	}
}

// finish flushes every still-open list and materializes the result.
func (b *sectionBuilder) finish() []models.Section {
	sections := make([]models.Section, 0, len(b.sections))
	for _, s := range b.sections {
		s.target.flushList()
		subsections := make([]models.Subsection, 0, len(s.subsections))
		for _, sub := range s.subsections {
			sub.target.flushList()
			subsections = append(subsections, models.Subsection{
				Title:  sub.title,
				ID:     sub.id,
				Blocks: blocksOrEmpty(sub.target.blocks),
			})
		}
		sections = append(sections, models.Section{
			Title:       s.title,
			ID:          s.id,
			Blocks:      blocksOrEmpty(s.target.blocks),
			Subsections: subsections,
		})
	}
	return sections
}

// blocksOrEmpty keeps JSON output as [] rather than null.
func blocksOrEmpty(blocks []string) []string {
	if blocks == nil {
		return []string{}
	}
	return blocks
}

func (t *blockTarget) appendParagraph(html string) {
	if html == "" {
		return
	}
	t.flushList()
	t.blocks = append(t.blocks, "<p>"+html+"</p>")
}

func (t *blockTarget) appendListItem(listID, html string) {
	if t.list == nil || t.list.id != listID {
		t.flushList()
		t.list = &pendingList{id: listID}
	}
	t.list.items = append(t.list.items, html)
}

func (t *blockTarget) flushList() {
	if t == nil {
		return
	}
	if t.list != nil && len(t.list.items) > 0 {
		var sb strings.Builder
		sb.WriteString("<ul>")
		for _, item := range t.list.items {
			sb.WriteString("<li>" + item + "</li>")
		}
		sb.WriteString("</ul>")
		t.blocks = append(t.blocks, sb.String())
	}
	t.list = nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives an anchor-safe ID from a title and disambiguates
// collisions with a numeric suffix: base, base-2, base-3, ...
func (b *sectionBuilder) slugify(title string) string {
	base := strings.ToLower(title)
	base = slugStrip.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "section"
	}

	b.slugCounts[base]++
	if n := b.slugCounts[base]; n > 1 {
		return fmt.Sprintf("%s-%d", base, n)
	}
	return base
}

// renderParagraphElements concatenates the rendered inline elements of a
// paragraph and trims the result.
func (b *sectionBuilder) renderParagraphElements(p *gdocs.Paragraph) string {
	var sb strings.Builder
	for _, el := range p.Elements {
		switch {
		case el.TextRun != nil:
			sb.WriteString(renderTextRun(el.TextRun))
		case el.InlineObjectElement != nil:
			sb.WriteString(b.renderInlineObject(el.InlineObjectElement))
		}
	}
	return strings.TrimSpace(sb.String())
}

// renderTextRun escapes and style-wraps one run. Runs whose trimmed content
// is empty contribute nothing, so style flags never produce empty wrapper
// tags.
func renderTextRun(run *gdocs.TextRun) string {
	content := strings.ReplaceAll(run.Content, "\n", "")
	if strings.TrimSpace(content) == "" {
		return ""
	}
	return applyTextStyles(html.EscapeString(content), run.TextStyle)
}

// renderInlineObject substitutes the resolved image markup; an unresolved
// object ID contributes nothing.
func (b *sectionBuilder) renderInlineObject(el *gdocs.InlineObjectElement) string {
	img, ok := b.images[el.InlineObjectID]
	if !ok {
		return ""
	}
	return fmt.Sprintf(`<img src="%s" alt="%s" class="inline-image">`, img.DataURL, escapeAttr(img.Alt))
}

// applyTextStyles wraps escaped text in its style tags using one fixed
// nesting order, outermost first: link, bold, italic, underline,
// strikethrough, sub/superscript. A bolded link therefore renders as
// <a><strong>text</strong></a>.
func applyTextStyles(text string, style *gdocs.TextStyle) string {
	if text == "" || style == nil {
		if text == "" {
			return ""
		}
		return text
	}

	switch style.BaselineOffset {
	case "SUPERSCRIPT":
		text = "<sup>" + text + "</sup>"
	case "SUBSCRIPT":
		text = "<sub>" + text + "</sub>"
	}
	if style.Strikethrough {
		text = "<s>" + text + "</s>"
	}
	if style.Underline {
		text = "<u>" + text + "</u>"
	}
	if style.Italic {
		text = "<em>" + text + "</em>"
	}
	if style.Bold {
		text = "<strong>" + text + "</strong>"
	}
	if style.Link != nil && style.Link.URL != "" {
		text = fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener">%s</a>`, escapeAttr(style.Link.URL), text)
	}
	return text
}

// plainText extracts the unstyled text of a paragraph for titles.
func plainText(p *gdocs.Paragraph) string {
	parts := make([]string, 0, len(p.Elements))
	for _, el := range p.Elements {
		if el.TextRun != nil && el.TextRun.Content != "" {
			parts = append(parts, strings.TrimSpace(el.TextRun.Content))
		} else {
			parts = append(parts, "")
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// escapeAttr escapes a value for an HTML attribute, additionally neutering
// backticks.
func escapeAttr(value string) string {
	return strings.ReplaceAll(html.EscapeString(value), "`", "&#96;")
}
