package span

import "testing"

func TestStem(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"report.pdf", "report"},
		{"/tmp/uploads/Annual Report 2024.pdf", "Annual Report 2024"},
		{"archive.tar.gz", "archive.tar"},
		{"noext", "noext"},
		{"", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Stem(tt.in); got != tt.want {
				t.Errorf("Stem(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	in := []TextSpan{{Text: "a"}, {Text: "ab"}, {Text: "abc"}, {Text: "éé"}, {Text: "ééé"}}
	got := Filter(in)
	if len(got) != 2 || got[0].Text != "abc" || got[1].Text != "ééé" {
		t.Errorf("unexpected filtered spans %+v", got)
	}
}

func TestFontStats(t *testing.T) {
	avg, max := FontStats(nil)
	if avg != 12 || max != 12 {
		t.Errorf("expected 12/12 defaults, got %v/%v", avg, max)
	}
	avg, max = FontStats([]TextSpan{{FontSize: 10}, {FontSize: 20}, {FontSize: 12}})
	if avg != 14 || max != 20 {
		t.Errorf("expected 14/20, got %v/%v", avg, max)
	}
}

func TestDocumentPage(t *testing.T) {
	d := &Document{Pages: []Page{{Number: 2, Lines: []string{"b"}}, {Number: 1, Lines: []string{"a"}}}}
	if p := d.Page(1); p == nil || p.Lines[0] != "a" {
		t.Errorf("expected page 1, got %+v", p)
	}
	if p := d.Page(7); p != nil {
		t.Errorf("expected nil for missing page, got %+v", p)
	}
	var nilDoc *Document
	if nilDoc.Page(1) != nil || nilDoc.SpanCount() != 0 || nilDoc.Text() != "" {
		t.Error("nil document accessors must be safe")
	}
	if got := d.Text(); got != "b\fa" {
		t.Errorf("unexpected text %q", got)
	}
}
