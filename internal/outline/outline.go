// Package outline derives a document title and an H1/H2/H3 heading outline
// from positioned text spans using font-size statistics.
package outline

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docsight/internal/span"
)

// UntitledDocument is the last resort of the title chain.
const UntitledDocument = "Untitled Document"

const maxTitleLen = 200

// Result is the outline contract: a title and the ordered headings.
type Result struct {
	Title   string         `json:"title"`
	Outline []HeadingEntry `json:"outline"`
}

// Extract builds the title and outline of doc. It never fails: a document
// with no spans yields an empty outline and a title from the fallback chain.
func Extract(doc *span.Document) Result {
	res := Result{
		Title:   ExtractTitle(doc),
		Outline: []HeadingEntry{},
	}
	if doc == nil {
		return res
	}

	pages := make([]span.Page, len(doc.Pages))
	copy(pages, doc.Pages)
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Number < pages[j].Number })

	for _, p := range pages {
		res.Outline = append(res.Outline, ClassifyPage(p)...)
	}
	return res
}

// ExtractTitle applies the fallback chain: metadata title, the largest
// qualifying span of the first page, the filename stem, UntitledDocument.
func ExtractTitle(doc *span.Document) string {
	if doc == nil {
		return UntitledDocument
	}
	if t := strings.TrimSpace(doc.MetadataTitle); t != "" {
		return t
	}
	if t := largestFirstPageSpan(doc); t != "" {
		return t
	}
	if stem := span.Stem(doc.Filename); stem != "" {
		return stem
	}
	return UntitledDocument
}

func largestFirstPageSpan(doc *span.Document) string {
	first := doc.Page(1)
	if first == nil {
		return ""
	}
	var best string
	var maxSize float64
	for _, s := range first.Spans {
		text := strings.TrimSpace(s.Text)
		if text == "" || s.FontSize <= maxSize {
			continue
		}
		if utf8.RuneCountInString(text) >= maxTitleLen || isDigits(text) || len(strings.Fields(text)) <= 1 {
			continue
		}
		best = text
		maxSize = s.FontSize
	}
	return best
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
