package outline

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docsight/internal/span"
)

// Level is a heading level in the outline.
type Level string

const (
	H1 Level = "H1"
	H2 Level = "H2"
	H3 Level = "H3"
)

// Thresholds relative to the page's font-size statistics.
const (
	H1MaxRatio        = 0.9 // of the page's largest size
	H2AvgRatio        = 1.4 // of the page's mean size
	H3AvgRatio        = 1.2
	SecondaryAvgRatio = 1.1 // floor for spans admitted only by LooksLikeHeading
)

// Body-content rejection limits.
const (
	maxHeadingLen      = 150
	sentenceMinLen     = 20
	stopWordMinWords   = 5
	stopWordMaxPortion = 0.4
	shortHeadingWords  = 6
)

// NumberingPattern matches leading section numbering such as "1.", "2.3 " or "4.1.2 ".
var NumberingPattern = regexp.MustCompile(`^\d+(\.\d+)*\.?\s+`)

var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "by": true,
}

var structuralKeywords = []string{
	"chapter", "section", "introduction", "conclusion", "summary",
	"overview", "background", "methodology", "results", "discussion",
}

// HeadingEntry is one line of the outline.
type HeadingEntry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// LooksLikeContent reports whether text reads as body copy. Such text is never
// a heading, whatever its size.
func LooksLikeContent(text string) bool {
	n := utf8.RuneCountInString(text)
	if n > maxHeadingLen {
		return true
	}
	if strings.HasSuffix(text, ".") && n > sentenceMinLen {
		return true
	}
	words := strings.Fields(strings.ToLower(text))
	if len(words) > stopWordMinWords {
		common := 0
		for _, w := range words {
			if stopWords[w] {
				common++
			}
		}
		if float64(common) > float64(len(words))*stopWordMaxPortion {
			return true
		}
	}
	return false
}

// LooksLikeHeading is the secondary heuristic for spans that are not large or
// bold enough on their own.
func LooksLikeHeading(text string) bool {
	if NumberingPattern.MatchString(text) {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range structuralKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return len(strings.Fields(text)) <= shortHeadingWords && StartsUpper(text)
}

// StartsUpper reports whether the first rune of text is an upper-case letter.
func StartsUpper(text string) bool {
	r, _ := utf8.DecodeRuneInString(text)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

// thresholds are derived once per page.
type thresholds struct {
	avg, h1, h2, h3 float64
}

func pageThresholds(spans []span.TextSpan) thresholds {
	avg, max := span.FontStats(spans)
	return thresholds{
		avg: avg,
		h1:  max * H1MaxRatio,
		h2:  avg * H2AvgRatio,
		h3:  avg * H3AvgRatio,
	}
}

func (t thresholds) level(s span.TextSpan) (Level, bool) {
	size := s.FontSize
	switch {
	case size >= t.h1 || (size >= t.h2 && s.IsBold):
		return H1, true
	case size >= t.h2 || (size >= t.h3 && s.IsBold):
		return H2, true
	case size >= t.h3 || s.IsBold:
		return H3, true
	}
	if LooksLikeHeading(s.Text) && size > t.avg*SecondaryAvgRatio {
		return H3, true
	}
	return "", false
}

// ClassifyPage returns the headings of a single page in top-to-bottom order.
// Statistics are taken over the page's own spans after short spans are dropped.
func ClassifyPage(page span.Page) []HeadingEntry {
	spans := span.Filter(page.Spans)
	if len(spans) == 0 {
		return nil
	}
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].YPosition < spans[j].YPosition
	})

	t := pageThresholds(spans)
	var out []HeadingEntry
	for _, s := range spans {
		if LooksLikeContent(s.Text) {
			continue
		}
		lvl, ok := t.level(s)
		if !ok {
			continue
		}
		out = append(out, HeadingEntry{Level: lvl, Text: s.Text, Page: page.Number})
	}
	return out
}
