package persona

import "github.com/dgallion1/docsight/internal/span"

// MaxRefinedLen bounds refined_text, ellipsis included.
const (
	MaxRefinedLen = 500
	ellipsis      = "..."
)

// SubsectionAnalysis is the refined excerpt of one top-ranked section.
type SubsectionAnalysis struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// Refine produces one excerpt per section. Real page text after the section
// title is preferred; sections without it get a synthesized paragraph.
func Refine(sections []Section, docs map[string]*span.Document, role, job string) []SubsectionAnalysis {
	out := make([]SubsectionAnalysis, 0, len(sections))
	for _, s := range sections {
		var text string
		if page := docs[s.Document].Page(s.PageNumber); page != nil {
			text = DetailedContent(page.Lines, s.SectionTitle)
		}
		if text == "" {
			text = SynthesizedText(s.SectionTitle, role, job, s.Document)
		}
		out = append(out, SubsectionAnalysis{
			Document:    s.Document,
			RefinedText: Truncate(text, MaxRefinedLen),
			PageNumber:  s.PageNumber,
		})
	}
	return out
}

// Truncate shortens text to at most max runes, ending in "..." when cut.
func Truncate(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	keep := max - len(ellipsis)
	if keep < 0 {
		keep = 0
	}
	return string(r[:keep]) + ellipsis
}
