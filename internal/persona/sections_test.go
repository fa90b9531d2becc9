package persona

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dgallion1/docsight/internal/span"
)

func TestIsPotentialSectionTitle(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Introduction", true},
		{"Gluten-Free Options", true},
		{"This is a long sentence that ends with a period.", false},
		{"Abc", false},
		{"Short end.", true},
		{"3 Results", true},
		{"one two three four five six seven eight nine", false},
		{"4.2 results from the second round of the field survey in the north", true},
		{strings.Repeat("x", 101), false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsPotentialSectionTitle(tt.text); got != tt.want {
				t.Errorf("IsPotentialSectionTitle(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestLooksLikeNewSection(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Methods", true},
		{"2.1 scope of the work and more words here", true},
		{"lowercase short line", false},
		{"This line starts upper but has far too many words", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := LooksLikeNewSection(tt.line); got != tt.want {
				t.Errorf("LooksLikeNewSection(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestSectionContent_IncludesBoundaryLine(t *testing.T) {
	lines := []string{
		"Introduction",
		"This paper studies the effect of x on y.",
		"More details follow here in the running text.",
		"",
		"Methods",
		"never reached",
	}
	got := SectionContent(lines, "Introduction")
	want := "This paper studies the effect of x on y. More details follow here in the running text. Methods"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSectionContent_WindowAndJoinLimit(t *testing.T) {
	lines := []string{"Notes"}
	for i := 1; i <= 12; i++ {
		lines = append(lines, fmt.Sprintf("entry %d in a lowercase list", i))
	}
	got := SectionContent(lines, "notes")
	want := strings.Join(lines[1:6], " ")
	if got != want {
		t.Errorf("expected first five lines %q, got %q", want, got)
	}
}

func TestSectionContent_SkipsEveryTitleLine(t *testing.T) {
	lines := []string{
		"Summary",
		"the summary continues below",
		"body text goes here in lowercase",
	}
	if got := SectionContent(lines, "Summary"); got != "body text goes here in lowercase" {
		t.Errorf("unexpected content %q", got)
	}
	// DetailedContent only triggers on the first match.
	want := "the summary continues below body text goes here in lowercase"
	if got := DetailedContent(lines, "Summary"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestContent_UnmatchedTitle(t *testing.T) {
	lines := []string{"alpha", "beta"}
	if got := SectionContent(lines, "Gamma"); got != "" {
		t.Errorf("expected empty content, got %q", got)
	}
	if got := DetailedContent(lines, "Gamma"); got != "" {
		t.Errorf("expected empty detailed content, got %q", got)
	}
}

func TestDetailedContent_Window(t *testing.T) {
	lines := []string{"Overview"}
	for i := 1; i <= 20; i++ {
		lines = append(lines, fmt.Sprintf("detail line %d written in lowercase", i))
	}
	got := DetailedContent(lines, "Overview")
	want := strings.Join(lines[1:16], " ")
	if got != want {
		t.Errorf("expected fifteen lines, got %q", got)
	}
}

func TestExtractSections(t *testing.T) {
	page := span.Page{
		Number: 3,
		Spans: []span.TextSpan{
			{Text: "Big Heading", FontSize: 18, YPosition: 300},
			{Text: "this is body text of the page", FontSize: 12, YPosition: 150},
			{Text: "Introduction", FontSize: 12, IsBold: true, YPosition: 100},
			{Text: "ab", FontSize: 30, IsBold: true, YPosition: 50},
		},
		Lines: []string{"Introduction", "this is body text of the page", "Big Heading", "closing remarks in lowercase"},
	}

	got := ExtractSections("doc.pdf", page)
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(got), got)
	}
	if got[0].SectionTitle != "Introduction" || got[1].SectionTitle != "Big Heading" {
		t.Errorf("expected sections in vertical order, got %q then %q", got[0].SectionTitle, got[1].SectionTitle)
	}
	if got[0].Content != "this is body text of the page Big Heading" {
		t.Errorf("unexpected introduction content %q", got[0].Content)
	}
	if got[1].Content != "closing remarks in lowercase" {
		t.Errorf("unexpected heading content %q", got[1].Content)
	}
	for _, s := range got {
		if s.Document != "doc.pdf" || s.PageNumber != 3 {
			t.Errorf("section %q has document %q page %d", s.SectionTitle, s.Document, s.PageNumber)
		}
		if s.RelevanceScore != 0 {
			t.Errorf("extracted section %q should be unscored", s.SectionTitle)
		}
	}
}

func TestExtractDocumentSections_Empty(t *testing.T) {
	if got := ExtractDocumentSections("x.pdf", nil); got != nil {
		t.Errorf("expected nil for nil document, got %v", got)
	}
	doc := &span.Document{Pages: []span.Page{{Number: 1}}}
	if got := ExtractDocumentSections("x.pdf", doc); len(got) != 0 {
		t.Errorf("expected no sections for an empty page, got %v", got)
	}
}
