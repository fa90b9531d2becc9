package persona

import "testing"

func TestRank_DescendingWithStableTies(t *testing.T) {
	sections := []Section{
		{Document: "a", SectionTitle: "first tie", RelevanceScore: 3},
		{Document: "b", SectionTitle: "top", RelevanceScore: 9},
		{Document: "c", SectionTitle: "second tie", RelevanceScore: 3},
		{Document: "d", SectionTitle: "bottom", RelevanceScore: 0},
	}
	sorted, ranked := Rank(sections)

	wantTitles := []string{"top", "first tie", "second tie", "bottom"}
	if len(ranked) != len(wantTitles) {
		t.Fatalf("expected %d ranked sections, got %d", len(wantTitles), len(ranked))
	}
	for i, want := range wantTitles {
		if ranked[i].SectionTitle != want {
			t.Errorf("rank %d: expected %q, got %q", i+1, want, ranked[i].SectionTitle)
		}
		if ranked[i].ImportanceRank != i+1 {
			t.Errorf("position %d has importance_rank %d", i, ranked[i].ImportanceRank)
		}
		if sorted[i].SectionTitle != ranked[i].SectionTitle || sorted[i].Document != ranked[i].Document {
			t.Errorf("sorted and ranked disagree at %d", i)
		}
	}

	if sections[0].SectionTitle != "first tie" || sections[1].SectionTitle != "top" {
		t.Error("Rank must not reorder its input")
	}
}

func TestRank_Empty(t *testing.T) {
	sorted, ranked := Rank(nil)
	if len(sorted) != 0 || len(ranked) != 0 {
		t.Errorf("expected empty results, got %v %v", sorted, ranked)
	}
}

func TestTop(t *testing.T) {
	s := []int{1, 2, 3, 4, 5, 6, 7}
	if got := top(s, TopK); len(got) != TopK {
		t.Errorf("expected %d, got %d", TopK, len(got))
	}
	if got := top(s[:2], TopK); len(got) != 2 {
		t.Errorf("expected short slices unchanged, got %d", len(got))
	}
}
