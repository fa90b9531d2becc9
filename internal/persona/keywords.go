package persona

import (
	"slices"
	"strings"
)

// Score weights.
const (
	PersonaKeywordWeight   = 2.0
	JobKeywordWeight       = 3.0
	FoodContractorDocBoost = 1.0
	DietaryTermWeight      = 4.0
	RecipeTermWeight       = 2.5
	BoldBoost              = 1.0
	LargeFontBoost         = 1.5
	LargeFontSize          = 14.0
)

// personaKeywords maps a lower-case persona role to its keyword list.
var personaKeywords = map[string][]string{
	"researcher":      {"methodology", "results", "analysis", "study", "research", "experiment", "data", "findings", "conclusion"},
	"student":         {"definition", "concept", "example", "practice", "exercise", "summary", "key points", "important"},
	"analyst":         {"trends", "growth", "revenue", "profit", "performance", "market", "competition", "strategy"},
	"food contractor": {"ingredients", "recipe", "preparation", "cooking", "vegetarian", "vegan", "gluten-free", "allergy", "diet"},
	"salesperson":     {"features", "benefits", "pricing", "comparison", "advantages", "value", "ROI"},
	"journalist":      {"facts", "sources", "quotes", "timeline", "background", "context", "who", "what", "when"},

	"travel planner":      {"destination", "itinerary", "activities", "accommodation", "transport", "budget", "attractions"},
	"academic researcher": {"methodology", "analysis", "research", "study", "data", "results", "conclusions"},
	"business analyst":    {"strategy", "analysis", "metrics", "performance", "trends", "market", "revenue"},
	"investment analyst":  {"financial", "investment", "portfolio", "risk", "returns", "market", "valuation"},
}

var genericPersonaKeywords = []string{"relevant", "important", "key", "essential", "critical"}

// jobArchetype pairs a phrase looked for in the job text with its keywords.
type jobArchetype struct {
	phrase   string
	keywords []string
}

// Evaluated in order so the union of keywords is deterministic.
var jobArchetypes = []jobArchetype{
	{"literature review", []string{"methodology", "previous work", "related studies", "comparison", "survey"}},
	{"exam preparation", []string{"definition", "formula", "key concepts", "examples", "practice"}},
	{"menu planning", []string{"ingredients", "recipe", "dietary", "nutrition", "allergies", "vegetarian", "gluten-free"}},
	{"financial analysis", []string{"revenue", "profit", "costs", "ROI", "growth", "trends", "performance"}},
	{"market research", []string{"trends", "competition", "market share", "customer", "demand", "growth"}},
	{"trip planning", []string{"itinerary", "attractions", "activities", "accommodation", "transportation", "budget", "schedule"}},
	{"travel planning", []string{"destinations", "sightseeing", "culture", "cuisine", "tips", "recommendations"}},
}

// importantJobTerms are picked out of the job text verbatim.
var importantJobTerms = []string{
	"vegetarian", "vegan", "gluten-free", "dairy-free", "buffet", "corporate",
	"menu", "dinner", "lunch", "breakfast", "allergies", "dietary",
}

var dietaryTerms = []string{"vegetarian", "vegan", "gluten-free", "allergy", "dairy-free"}

var recipeTerms = []string{"ingredients", "recipe", "preparation", "cooking", "instructions"}

// Keywords is the resolved keyword set for one persona and job.
type Keywords struct {
	Persona []string
	Job     []string
}

// PersonaKeywords returns the keyword list for role. Unknown roles get the
// generic list.
func PersonaKeywords(role string) []string {
	if kw, ok := personaKeywords[strings.ToLower(strings.TrimSpace(role))]; ok {
		return slices.Clone(kw)
	}
	return slices.Clone(genericPersonaKeywords)
}

// KnownPersonas lists the roles with a curated keyword list, sorted.
func KnownPersonas() []string {
	roles := make([]string, 0, len(personaKeywords))
	for r := range personaKeywords {
		roles = append(roles, r)
	}
	slices.Sort(roles)
	return roles
}

// JobKeywords unions the keyword lists of every archetype phrase found in job
// with the important terms it mentions. Duplicates are dropped.
func JobKeywords(job string) []string {
	job = strings.ToLower(job)
	var out []string
	seen := make(map[string]bool)
	add := func(kw string) {
		if !seen[kw] {
			seen[kw] = true
			out = append(out, kw)
		}
	}
	for _, a := range jobArchetypes {
		if strings.Contains(job, a.phrase) {
			for _, kw := range a.keywords {
				add(kw)
			}
		}
	}
	for _, term := range importantJobTerms {
		if strings.Contains(job, term) {
			add(term)
		}
	}
	return out
}

// ResolveKeywords resolves both keyword lists for a persona and job.
func ResolveKeywords(role, job string) Keywords {
	return Keywords{
		Persona: PersonaKeywords(role),
		Job:     JobKeywords(job),
	}
}
