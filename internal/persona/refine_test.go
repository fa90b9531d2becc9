package persona

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dgallion1/docsight/internal/span"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		max    int
		want   string
		length int
	}{
		{"short untouched", "hello", 10, "hello", 5},
		{"exact length untouched", strings.Repeat("a", 500), 500, strings.Repeat("a", 500), 500},
		{"cut with ellipsis", strings.Repeat("a", 501), 500, strings.Repeat("a", 497) + "...", 500},
		{"counts runes", strings.Repeat("é", 12), 10, strings.Repeat("é", 7) + "...", 10},
		{"tiny max", "abcdef", 2, "...", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if n := utf8.RuneCountInString(got); n != tt.length {
				t.Errorf("expected %d runes, got %d", tt.length, n)
			}
		})
	}
}

func TestFallbackArchetype(t *testing.T) {
	tests := []struct {
		role, job string
		want      Archetype
	}{
		{"Food Contractor", "anything", ArchetypeFood},
		{"Chef", "Plan the lunch menu", ArchetypeFood},
		{"Travel Planner", "anything", ArchetypeTravel},
		{"Student", "Organize a trip for friends", ArchetypeTravel},
		{"Researcher", "Literature review", ArchetypeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.job, func(t *testing.T) {
			if got := FallbackArchetype(tt.role, tt.job); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFallbackSections(t *testing.T) {
	inputs := []DocumentInput{{ID: "one.pdf"}, {ID: "two.pdf"}}
	got := FallbackSections(inputs, "Travel Planner", "Plan a trip of 4 days")
	if len(got) != 6 {
		t.Fatalf("expected 3 sections per document, got %d", len(got))
	}
	for i, s := range got {
		pos := i % 3
		if s.PageNumber != pos+1 {
			t.Errorf("section %d: expected page %d, got %d", i, pos+1, s.PageNumber)
		}
		wantFont := 14.0 + float64(2-pos)*2
		if s.FontSize != wantFont {
			t.Errorf("section %d: expected font %.0f, got %.0f", i, wantFont, s.FontSize)
		}
		if s.IsBold != (pos < 2) {
			t.Errorf("section %d: unexpected bold %v", i, s.IsBold)
		}
		if s.RelevanceScore != 0 {
			t.Errorf("section %d should be unscored", i)
		}
	}
	if got[0].Document != "one.pdf" || got[3].Document != "two.pdf" {
		t.Errorf("sections attributed to wrong documents: %q, %q", got[0].Document, got[3].Document)
	}
	if got[0].SectionTitle != "Group Activities for College Students" {
		t.Errorf("expected travel stubs, got %q", got[0].SectionTitle)
	}
}

func TestFallbackSections_GenericUsesTitle(t *testing.T) {
	inputs := []DocumentInput{{ID: "report.pdf", Title: "Annual Report"}, {ID: "notes.pdf"}}
	got := FallbackSections(inputs, "Analyst", "Summarize findings")
	if got[0].SectionTitle != "Key Concepts from Annual Report" {
		t.Errorf("unexpected generic title %q", got[0].SectionTitle)
	}
	if got[3].SectionTitle != "Key Concepts from notes" {
		t.Errorf("expected id-derived title, got %q", got[3].SectionTitle)
	}
	if !strings.Contains(got[0].Content, "relevant to Analyst working on Summarize findings") {
		t.Errorf("generic content should name persona and job, got %q", got[0].Content)
	}
}

func TestSynthesizedText(t *testing.T) {
	food := SynthesizedText("Gluten-Free Options", "Food Contractor", "job", "a.pdf")
	if !strings.HasPrefix(food, "Certified Gluten-Free Menu Items:") {
		t.Errorf("expected gluten-free paragraph, got %q", food)
	}
	travel := SynthesizedText("4-Day Itinerary Planning", "Travel Planner", "job", "a.pdf")
	if !strings.HasPrefix(travel, "4-Day Itinerary Structure:") {
		t.Errorf("expected itinerary paragraph, got %q", travel)
	}
	generic := SynthesizedText("Overview", "Chef", "cook dinner", "menu.pdf")
	if !strings.HasPrefix(generic, "Detailed analysis of Overview from menu.pdf:") ||
		!strings.Contains(generic, "relevant to Chef working on the task: cook dinner.") {
		t.Errorf("unexpected generic paragraph %q", generic)
	}
}

func TestRefine_PrefersPageText(t *testing.T) {
	docs := map[string]*span.Document{
		"a.pdf": {Pages: []span.Page{{
			Number: 2,
			Lines:  []string{"Budget", "keep receipts for every shared expense", "split costs evenly at the end"},
		}}},
	}
	sections := []Section{
		{Document: "a.pdf", SectionTitle: "Budget", PageNumber: 2},
		{Document: "a.pdf", SectionTitle: "Missing Title", PageNumber: 2},
		{Document: "b.pdf", SectionTitle: "Budget Management for Groups", PageNumber: 3},
	}
	got := Refine(sections, docs, "Travel Planner", "Plan a trip")
	if len(got) != len(sections) {
		t.Fatalf("expected %d excerpts, got %d", len(sections), len(got))
	}
	if got[0].RefinedText != "keep receipts for every shared expense split costs evenly at the end" {
		t.Errorf("expected page text, got %q", got[0].RefinedText)
	}
	if !strings.HasPrefix(got[1].RefinedText, "Detailed analysis of Missing Title from a.pdf") {
		t.Errorf("expected generic synthesized text, got %q", got[1].RefinedText)
	}
	if !strings.HasPrefix(got[2].RefinedText, "Group Budget Management:") {
		t.Errorf("expected budget paragraph, got %q", got[2].RefinedText)
	}
	if got[2].PageNumber != 3 || got[2].Document != "b.pdf" {
		t.Errorf("excerpt lost its location: %+v", got[2])
	}
	for i, r := range got {
		if utf8.RuneCountInString(r.RefinedText) > MaxRefinedLen {
			t.Errorf("excerpt %d exceeds %d runes", i, MaxRefinedLen)
		}
	}
}
