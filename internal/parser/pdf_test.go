package parser

import (
	"errors"
	"strings"
	"testing"
)

// word lays a string out as one glyph per rune at 0.5em advance.
func word(font string, size, x, y float64, s string) []glyph {
	var out []glyph
	adv := size * 0.5
	for _, r := range s {
		out = append(out, glyph{font: font, size: size, x: x, y: y, w: adv, s: string(r)})
		x += adv
	}
	return out
}

func TestLayoutPage_RowsSpansAndLines(t *testing.T) {
	var glyphs []glyph
	// Body row first in stream order; layout must still put the heading on top.
	glyphs = append(glyphs, word("Helvetica", 10, 72, 650, "plain body text")...)
	glyphs = append(glyphs, word("Helvetica-Bold", 18, 72, 700, "Overview")...)
	// Baseline within tolerance but far to the right: own span, same line.
	glyphs = append(glyphs, word("Helvetica", 10, 200, 651.5, "continues")...)

	page := layoutPage(2, 792, glyphs)

	if len(page.Spans) != 3 {
		t.Fatalf("expected 3 spans, got %d: %v", len(page.Spans), spanTexts(page))
	}
	head := page.Spans[0]
	if head.Text != "Overview" || !head.IsBold || head.FontSize != 18 || head.FontName != "Helvetica-Bold" {
		t.Errorf("unexpected heading span %+v", head)
	}
	if head.YPosition != 92 || head.PageNumber != 2 {
		t.Errorf("expected top-down y 92 on page 2, got %.1f on %d", head.YPosition, head.PageNumber)
	}
	if page.Spans[1].Text != "plain body text" || page.Spans[1].IsBold {
		t.Errorf("unexpected body span %+v", page.Spans[1])
	}
	if page.Spans[2].Text != "continues" {
		t.Errorf("expected far glyphs in their own span, got %q", page.Spans[2].Text)
	}

	want := []string{"Overview", "plain body text continues"}
	if strings.Join(page.Lines, "|") != strings.Join(want, "|") {
		t.Errorf("expected lines %q, got %q", want, page.Lines)
	}
}

func TestMergeRow_InsertsWordSpaces(t *testing.T) {
	row := []glyph{
		{font: "F", size: 10, x: 0, w: 20, s: "two"},
		{font: "F", size: 10, x: 23, w: 25, s: "words"},
		{font: "F", size: 10, x: 48, w: 5, s: "!"},
	}
	runs := mergeRow(row)
	if len(runs) != 1 || runs[0].text != "two words!" {
		t.Errorf("expected a single run %q, got %+v", "two words!", runs)
	}
}

func TestLayoutPage_NormalizesLigatures(t *testing.T) {
	page := layoutPage(1, 792, []glyph{{font: "Times", size: 12, x: 10, y: 500, w: 30, s: "ﬁnance"}})
	if len(page.Spans) != 1 || page.Spans[0].Text != "finance" {
		t.Errorf("expected NFKC-normalized text, got %v", spanTexts(page))
	}
}

func TestLayoutPage_Empty(t *testing.T) {
	page := layoutPage(1, 792, []glyph{{font: "F", size: 10, s: "   "}})
	if len(page.Spans) != 0 || len(page.Lines) != 0 {
		t.Errorf("expected blank glyphs to be dropped, got %+v", page)
	}
}

func TestIsBoldFont(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"ABCDEF+Arial-BoldMT", true},
		{"Helvetica-Black", true},
		{"Roboto-Heavy", true},
		{"OpenSans-SemiBold", true},
		{"TimesNewRomanPSMT", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBoldFont(tt.name); got != tt.want {
				t.Errorf("isBoldFont(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestPDFParser_GarbageInput(t *testing.T) {
	p := &PDFParser{}
	_, err := p.Parse(strings.NewReader("not a pdf"), "junk.pdf")
	if err == nil {
		t.Fatal("expected an error for non-pdf input")
	}

	_, err = Parse(strings.NewReader("not a pdf"), "junk.pdf", Options{})
	var readErr *DocumentReadError
	if !errors.As(err, &readErr) || readErr.Filename != "junk.pdf" {
		t.Errorf("expected a DocumentReadError for junk.pdf, got %v", err)
	}
}
