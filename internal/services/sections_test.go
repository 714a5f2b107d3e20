// internal/services/sections_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenbio/labsite/internal/gdocs"
	"github.com/lumenbio/labsite/internal/models"
)

func heading(level, text string) gdocs.StructuralElement {
	return gdocs.StructuralElement{Paragraph: &gdocs.Paragraph{
		ParagraphStyle: &gdocs.ParagraphStyle{NamedStyleType: level},
		Elements:       []gdocs.ParagraphElement{textElement(text, nil)},
	}}
}

func para(text string) gdocs.StructuralElement {
	return gdocs.StructuralElement{Paragraph: &gdocs.Paragraph{
		ParagraphStyle: &gdocs.ParagraphStyle{NamedStyleType: "NORMAL_TEXT"},
		Elements:       []gdocs.ParagraphElement{textElement(text, nil)},
	}}
}

func bullet(listID, text string) gdocs.StructuralElement {
	el := para(text)
	el.Paragraph.Bullet = &gdocs.Bullet{ListID: listID}
	return el
}

func textElement(text string, style *gdocs.TextStyle) gdocs.ParagraphElement {
	return gdocs.ParagraphElement{TextRun: &gdocs.TextRun{Content: text, TextStyle: style}}
}

func TestBuildSectionsTree(t *testing.T) {
	sections := BuildSections([]gdocs.StructuralElement{
		heading("HEADING_1", "Our History"),
		para("Founded in 2015.\n"),
		heading("HEADING_3", "Early Years"),
		para("Two rooms and a centrifuge."),
		heading("HEADING_2", "Research Focus"),
		para("Gene regulation."),
	}, nil)

	require.Len(t, sections, 2)

	assert.Equal(t, "Our History", sections[0].Title)
	assert.Equal(t, "our-history", sections[0].ID)
	assert.Equal(t, []string{"<p>Founded in 2015.</p>"}, sections[0].Blocks)

	require.Len(t, sections[0].Subsections, 1)
	assert.Equal(t, "Early Years", sections[0].Subsections[0].Title)
	assert.Equal(t, "early-years", sections[0].Subsections[0].ID)
	assert.Equal(t, []string{"<p>Two rooms and a centrifuge.</p>"}, sections[0].Subsections[0].Blocks)

	assert.Equal(t, "Research Focus", sections[1].Title)
	assert.Empty(t, sections[1].Subsections)
}

func TestBuildSectionsImplicitOverview(t *testing.T) {
	sections := BuildSections([]gdocs.StructuralElement{
		para("Intro text before any heading."),
		heading("HEADING_1", "First Real Section"),
	}, nil)

	require.Len(t, sections, 2)
	assert.Equal(t, "Overview", sections[0].Title)
	assert.Equal(t, "overview", sections[0].ID)
	assert.Equal(t, []string{"<p>Intro text before any heading.</p>"}, sections[0].Blocks)
}

func TestBuildSectionsSlugDeduplication(t *testing.T) {
	sections := BuildSections([]gdocs.StructuralElement{
		heading("HEADING_1", "Methods"),
		heading("HEADING_1", "Methods"),
		heading("HEADING_1", "Methods"),
		heading("HEADING_1", "!!!"),
		heading("HEADING_1", "???"),
	}, nil)

	require.Len(t, sections, 5)
	assert.Equal(t, "methods", sections[0].ID)
	assert.Equal(t, "methods-2", sections[1].ID)
	assert.Equal(t, "methods-3", sections[2].ID)
	// Titles that slug to nothing share the "section" base.
	assert.Equal(t, "section", sections[3].ID)
	assert.Equal(t, "section-2", sections[4].ID)
}

func TestBuildSectionsUntitledHeading(t *testing.T) {
	sections := BuildSections([]gdocs.StructuralElement{
		heading("HEADING_1", "\n"),
		para("body"),
	}, nil)

	require.Len(t, sections, 1)
	assert.Equal(t, "Untitled section", sections[0].Title)
}

func TestBuildSectionsListAccumulation(t *testing.T) {
	sections := BuildSections([]gdocs.StructuralElement{
		heading("HEADING_1", "Values"),
		bullet("list-a", "Rigor"),
		bullet("list-a", "Openness"),
		bullet("list-b", "Coffee"),
		para("Closing thought."),
	}, nil)

	require.Len(t, sections, 1)
	assert.Equal(t, []string{
		"<ul><li>Rigor</li><li>Openness</li></ul>",
		"<ul><li>Coffee</li></ul>",
		"<p>Closing thought.</p>",
	}, sections[0].Blocks)
}

func TestBuildSectionsListFlushedAtHeading(t *testing.T) {
	sections := BuildSections([]gdocs.StructuralElement{
		heading("HEADING_1", "One"),
		bullet("list-a", "item"),
		heading("HEADING_1", "Two"),
	}, nil)

	require.Len(t, sections, 2)
	assert.Equal(t, []string{"<ul><li>item</li></ul>"}, sections[0].Blocks)
	assert.Empty(t, sections[1].Blocks)
}

func TestBuildSectionsStyleNesting(t *testing.T) {
	linkBold := &gdocs.TextStyle{Bold: true, Link: &gdocs.Link{URL: "https://example.org"}}
	el := gdocs.StructuralElement{Paragraph: &gdocs.Paragraph{
		ParagraphStyle: &gdocs.ParagraphStyle{NamedStyleType: "NORMAL_TEXT"},
		Elements:       []gdocs.ParagraphElement{textElement("lab site", linkBold)},
	}}

	sections := BuildSections([]gdocs.StructuralElement{el}, nil)
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Blocks, 1)

	// Link wraps outermost, bold inside.
	assert.Equal(t,
		`<p><a href="https://example.org" target="_blank" rel="noopener"><strong>lab site</strong></a></p>`,
		sections[0].Blocks[0])
}

func TestBuildSectionsAllStyleFlags(t *testing.T) {
	style := &gdocs.TextStyle{
		Bold:           true,
		Italic:         true,
		Underline:      true,
		Strikethrough:  true,
		BaselineOffset: "SUBSCRIPT",
	}
	got := applyTextStyles("x", style)
	assert.Equal(t, "<strong><em><u><s><sub>x</sub></s></u></em></strong>", got)

	sup := applyTextStyles("2", &gdocs.TextStyle{BaselineOffset: "SUPERSCRIPT"})
	assert.Equal(t, "<sup>2</sup>", sup)
}

func TestBuildSectionsEscapesContent(t *testing.T) {
	sections := BuildSections([]gdocs.StructuralElement{
		para("AT&T uses <b> tags"),
	}, nil)

	require.Len(t, sections, 1)
	assert.Equal(t, []string{"<p>AT&amp;T uses &lt;b&gt; tags</p>"}, sections[0].Blocks)
}

func TestBuildSectionsInlineImages(t *testing.T) {
	images := map[string]models.InlineImage{
		"kix.img1": {DataURL: "data:image/png;base64,AAA=", Alt: `lab "bench"`},
	}
	el := gdocs.StructuralElement{Paragraph: &gdocs.Paragraph{
		ParagraphStyle: &gdocs.ParagraphStyle{NamedStyleType: "NORMAL_TEXT"},
		Elements: []gdocs.ParagraphElement{
			{InlineObjectElement: &gdocs.InlineObjectElement{InlineObjectID: "kix.img1"}},
			{InlineObjectElement: &gdocs.InlineObjectElement{InlineObjectID: "missing"}},
		},
	}}

	sections := BuildSections([]gdocs.StructuralElement{el}, images)
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Blocks, 1)
	assert.Equal(t,
		`<p><img src="data:image/png;base64,AAA=" alt="lab &#34;bench&#34;" class="inline-image"></p>`,
		sections[0].Blocks[0])
}

func TestBuildSectionsSkipsEmptyParagraphs(t *testing.T) {
	sections := BuildSections([]gdocs.StructuralElement{
		heading("HEADING_1", "Sparse"),
		para("\n"),
		{},
		{Paragraph: &gdocs.Paragraph{}},
	}, nil)

	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].Blocks)
}
