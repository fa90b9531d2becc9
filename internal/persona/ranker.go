package persona

import "sort"

// TopK is the number of sections reported in an analysis.
const TopK = 5

// RankedSection is the output-facing view of a ranked Section.
type RankedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

// Rank orders sections by descending relevance. Ties keep extraction order.
// The returned sections are the sorted copies, paired index for index with
// the RankedSection list.
func Rank(sections []Section) ([]Section, []RankedSection) {
	sorted := make([]Section, len(sections))
	copy(sorted, sections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RelevanceScore > sorted[j].RelevanceScore
	})

	ranked := make([]RankedSection, len(sorted))
	for i, s := range sorted {
		ranked[i] = RankedSection{
			Document:       s.Document,
			SectionTitle:   s.SectionTitle,
			ImportanceRank: i + 1,
			PageNumber:     s.PageNumber,
		}
	}
	return sorted, ranked
}

func top[T any](s []T, k int) []T {
	if len(s) > k {
		return s[:k]
	}
	return s
}
