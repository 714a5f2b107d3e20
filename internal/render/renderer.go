// internal/render/renderer.go
package render

import (
	"html"
	"html/template"
	"strings"

	"github.com/lumenbio/labsite/internal/models"
)

// Sections renders the section tree as article markup. Block strings are
// pre-rendered, already-escaped HTML from the document transformer and are
// emitted verbatim; titles and IDs are escaped here.
func Sections(sections []models.Section) template.HTML {
	var sb strings.Builder
	for _, section := range sections {
		sb.WriteString(`<section class="doc-section" id="` + escapeAttr(section.ID) + `">`)
		sb.WriteString(`<h2>` + html.EscapeString(section.Title) + `</h2>`)
		writeBlocks(&sb, section.Blocks)
		for _, sub := range section.Subsections {
			sb.WriteString(`<div class="doc-subsection" id="` + escapeAttr(sub.ID) + `">`)
			sb.WriteString(`<h3>` + html.EscapeString(sub.Title) + `</h3>`)
			writeBlocks(&sb, sub.Blocks)
			sb.WriteString(`</div>`)
		}
		sb.WriteString(`</section>`)
	}
	return template.HTML(sb.String())
}

// SectionNav renders the in-page navigation for the section tree. Subsections
// nest one level under their section link.
func SectionNav(sections []models.Section) template.HTML {
	if len(sections) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<ul class="section-nav">`)
	for _, section := range sections {
		sb.WriteString(`<li><a href="#` + escapeAttr(section.ID) + `">` + html.EscapeString(section.Title) + `</a>`)
		if len(section.Subsections) > 0 {
			sb.WriteString(`<ul>`)
			for _, sub := range section.Subsections {
				sb.WriteString(`<li><a href="#` + escapeAttr(sub.ID) + `">` + html.EscapeString(sub.Title) + `</a></li>`)
			}
			sb.WriteString(`</ul>`)
		}
		sb.WriteString(`</li>`)
	}
	sb.WriteString(`</ul>`)
	return template.HTML(sb.String())
}

// ProtocolCards renders the protocol gallery. Each card carries a data-search
// attribute so client-side filtering can match without re-walking the DOM
// text.
func ProtocolCards(protocols []models.Protocol) template.HTML {
	if len(protocols) == 0 {
		return `<p class="empty-state">No protocols available yet.</p>`
	}

	var sb strings.Builder
	sb.WriteString(`<div class="protocol-grid">`)
	for _, p := range protocols {
		sb.WriteString(`<article class="protocol-card" data-search="` + escapeAttr(ProtocolSearch(p)) + `">`)
		sb.WriteString(`<img src="` + escapeAttr(p.Image) + `" alt="` + escapeAttr(p.Title) + `" loading="lazy">`)
		sb.WriteString(`<h3>` + html.EscapeString(p.Title) + `</h3>`)
		if p.Summary != "" {
			sb.WriteString(`<p>` + html.EscapeString(p.Summary) + `</p>`)
		}
		sb.WriteString(`<span class="protocol-updated">` + html.EscapeString(p.Updated) + `</span>`)
		sb.WriteString(`<a href="` + escapeAttr(p.Link) + `" target="_blank" rel="noopener">View protocol</a>`)
		sb.WriteString(`</article>`)
	}
	sb.WriteString(`</div>`)
	return template.HTML(sb.String())
}

// CategoryBlocks renders the communication directory. A category with no
// resources shows its empty state inline rather than disappearing.
func CategoryBlocks(blocks []models.CategoryBlock) template.HTML {
	var sb strings.Builder
	for _, block := range blocks {
		accent := block.Category.Accent
		if accent == "" {
			accent = "default"
		}
		sb.WriteString(`<section class="directory-category accent-` + escapeAttr(accent) + `">`)
		sb.WriteString(`<h2>` + html.EscapeString(block.Category.Title) + `</h2>`)
		if block.Category.Description != "" {
			sb.WriteString(`<p class="category-description">` + html.EscapeString(block.Category.Description) + `</p>`)
		}
		if len(block.Resources) == 0 {
			sb.WriteString(`<p class="empty-state">No resources listed yet.</p>`)
		} else {
			sb.WriteString(`<ul class="resource-list">`)
			for _, r := range block.Resources {
				writeResource(&sb, r)
			}
			sb.WriteString(`</ul>`)
		}
		sb.WriteString(`</section>`)
	}
	return template.HTML(sb.String())
}

func writeResource(sb *strings.Builder, r models.Resource) {
	sb.WriteString(`<li class="resource-card" data-search="` + escapeAttr(ResourceSearch(r)) + `">`)
	if r.Link != "" {
		sb.WriteString(`<a href="` + escapeAttr(r.Link) + `" target="_blank" rel="noopener">` + html.EscapeString(r.Title) + `</a>`)
	} else {
		sb.WriteString(`<span class="resource-title">` + html.EscapeString(r.Title) + `</span>`)
	}
	if r.Summary != "" {
		sb.WriteString(`<p>` + html.EscapeString(r.Summary) + `</p>`)
	}
	if r.Tags != "" {
		sb.WriteString(`<span class="resource-tags">` + html.EscapeString(r.Tags) + `</span>`)
	}
	sb.WriteString(`</li>`)
}

// ProtocolSearch builds the lowercase haystack a protocol card is matched
// against.
func ProtocolSearch(p models.Protocol) string {
	return searchString(p.Title, p.Summary, p.Updated)
}

// ResourceSearch builds the lowercase haystack a resource card is matched
// against.
func ResourceSearch(r models.Resource) string {
	return searchString(r.Title, r.Summary, r.Tags)
}

func searchString(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, strings.ToLower(f))
		}
	}
	return strings.Join(parts, " ")
}

func writeBlocks(sb *strings.Builder, blocks []string) {
	for _, block := range blocks {
		sb.WriteString(block)
	}
}

// escapeAttr escapes an attribute value, additionally neutering backticks.
func escapeAttr(value string) string {
	return strings.ReplaceAll(html.EscapeString(value), "`", "&#96;")
}
