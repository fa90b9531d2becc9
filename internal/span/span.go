package span

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MinTextLen is the shortest span text the engines consider. Spans of this
// length or less are dropped before statistics are computed.
const MinTextLen = 2

// TextSpan is a contiguous run of text sharing one font, size and style.
type TextSpan struct {
	Text       string  // Trimmed, non-empty text
	FontSize   float64 // Points; 0 when the decoder has no size information
	IsBold     bool
	FontName   string
	YPosition  float64 // Distance from the top of the page, grows downward
	PageNumber int     // 1-based
}

// Page holds the positioned spans of one page plus its raw text lines.
type Page struct {
	Number int
	Spans  []TextSpan
	Lines  []string // Raw page text in reading order, used for content scans
}

// Document is a decoded source document.
type Document struct {
	Filename      string
	MetadataTitle string
	Pages         []Page
}

// Page returns the page with the given 1-based number, or nil.
func (d *Document) Page(n int) *Page {
	if d == nil {
		return nil
	}
	for i := range d.Pages {
		if d.Pages[i].Number == n {
			return &d.Pages[i]
		}
	}
	return nil
}

// SpanCount returns the number of spans across all pages.
func (d *Document) SpanCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, p := range d.Pages {
		n += len(p.Spans)
	}
	return n
}

// Text joins every page's raw lines. Used for content hashing.
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	var sb strings.Builder
	for i, p := range d.Pages {
		if i > 0 {
			sb.WriteString("\f")
		}
		sb.WriteString(strings.Join(p.Lines, "\n"))
	}
	return sb.String()
}

// Stem returns the filename without directory or extension.
func Stem(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Filter returns the spans whose text is longer than MinTextLen.
func Filter(spans []TextSpan) []TextSpan {
	out := make([]TextSpan, 0, len(spans))
	for _, s := range spans {
		if utf8.RuneCountInString(s.Text) > MinTextLen {
			out = append(out, s)
		}
	}
	return out
}

// FontStats returns the mean and maximum font size of spans.
// An empty slice reports the 12pt defaults.
func FontStats(spans []TextSpan) (avg, max float64) {
	if len(spans) == 0 {
		return 12, 12
	}
	var sum float64
	for _, s := range spans {
		sum += s.FontSize
		if s.FontSize > max {
			max = s.FontSize
		}
	}
	return sum / float64(len(spans)), max
}
