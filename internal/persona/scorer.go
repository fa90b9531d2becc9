package persona

import "strings"

// Score computes the relevance of s for the resolved keywords. It is a pure
// additive rule set: every distinct term found contributes its weight once.
func Score(s Section, kw Keywords) float64 {
	combined := strings.ToLower(s.SectionTitle) + " " + strings.ToLower(s.Content)

	var score float64
	score += PersonaKeywordWeight * float64(countTerms(combined, kw.Persona))
	score += JobKeywordWeight * float64(countTerms(combined, kw.Job))
	if strings.Contains(strings.ToLower(s.Document), "food contractor") {
		score += FoodContractorDocBoost
	}
	score += DietaryTermWeight * float64(countTerms(combined, dietaryTerms))
	score += RecipeTermWeight * float64(countTerms(combined, recipeTerms))
	if s.IsBold {
		score += BoldBoost
	}
	if s.FontSize > LargeFontSize {
		score += LargeFontBoost
	}
	return score
}

// ScoreSections assigns RelevanceScore to every section in place and returns
// the same slice.
func ScoreSections(sections []Section, role, job string) []Section {
	kw := ResolveKeywords(role, job)
	for i := range sections {
		sections[i].RelevanceScore = Score(sections[i], kw)
	}
	return sections
}

func countTerms(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, strings.ToLower(t)) {
			n++
		}
	}
	return n
}
