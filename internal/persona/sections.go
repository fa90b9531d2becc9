package persona

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docsight/internal/outline"
	"github.com/dgallion1/docsight/internal/span"
)

// Section is a heading plus the body text that follows it on its page.
type Section struct {
	Document       string  `json:"document"`
	SectionTitle   string  `json:"section_title"`
	PageNumber     int     `json:"page_number"`
	Content        string  `json:"content"`
	FontSize       float64 `json:"font_size"`
	IsBold         bool    `json:"is_bold"`
	RelevanceScore float64 `json:"relevance_score"`
}

const (
	titleAvgRatio     = 1.2
	maxTitleLen       = 100
	sentenceMinLen    = 20
	maxTitleWords     = 8
	minTitleLen       = 3
	sectionWindow     = 10 // lines collected after a title
	sectionJoinLines  = 5  // of which this many are kept
	refineWindow      = 15
	newSectionMaxWord = 6
)

// IsPotentialSectionTitle reports whether text has the shape of a title.
func IsPotentialSectionTitle(text string) bool {
	n := utf8.RuneCountInString(text)
	if n > maxTitleLen {
		return false
	}
	if strings.HasSuffix(text, ".") && n > sentenceMinLen {
		return false
	}
	if len(strings.Fields(text)) <= maxTitleWords && n > minTitleLen {
		return true
	}
	return outline.NumberingPattern.MatchString(text)
}

// LooksLikeNewSection reports whether a content line starts another section.
func LooksLikeNewSection(line string) bool {
	if outline.NumberingPattern.MatchString(line) {
		return true
	}
	return len(strings.Fields(line)) <= newSectionMaxWord && outline.StartsUpper(line)
}

// ExtractSections finds the section title candidates of one page and slices
// the text that follows each of them.
func ExtractSections(docID string, page span.Page) []Section {
	spans := span.Filter(page.Spans)
	if len(spans) == 0 {
		return nil
	}
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].YPosition < spans[j].YPosition
	})
	avg, _ := span.FontStats(spans)

	var out []Section
	for _, s := range spans {
		if !(s.FontSize > avg*titleAvgRatio || s.IsBold) || !IsPotentialSectionTitle(s.Text) {
			continue
		}
		out = append(out, Section{
			Document:     docID,
			SectionTitle: s.Text,
			PageNumber:   page.Number,
			Content:      SectionContent(page.Lines, s.Text),
			FontSize:     s.FontSize,
			IsBold:       s.IsBold,
		})
	}
	return out
}

// ExtractDocumentSections runs ExtractSections over every page in page order.
func ExtractDocumentSections(docID string, doc *span.Document) []Section {
	if doc == nil {
		return nil
	}
	var out []Section
	for _, p := range doc.Pages {
		out = append(out, ExtractSections(docID, p)...)
	}
	return out
}

// SectionContent collects the lines after title and keeps the first five.
// Every line that contains the title is skipped. An unmatched title yields "".
func SectionContent(lines []string, title string) string {
	needle := strings.ToLower(title)
	var collected []string
	found := false
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), needle) {
			found = true
			continue
		}
		if !found {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		collected = append(collected, line)
		if len(collected) >= sectionWindow || LooksLikeNewSection(line) {
			break
		}
	}
	if len(collected) > sectionJoinLines {
		collected = collected[:sectionJoinLines]
	}
	return strings.Join(collected, " ")
}

// DetailedContent rescans a page for the lines after the first occurrence of
// title, with a wider window than SectionContent and no joining limit.
func DetailedContent(lines []string, title string) string {
	needle := strings.ToLower(title)
	var collected []string
	found := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !found && strings.Contains(strings.ToLower(line), needle) {
			found = true
			continue
		}
		if !found || line == "" {
			continue
		}
		collected = append(collected, line)
		if len(collected) >= refineWindow || LooksLikeNewSection(line) {
			break
		}
	}
	return strings.Join(collected, " ")
}
