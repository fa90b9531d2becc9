package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/docsight/internal/parser"
	"github.com/dgallion1/docsight/internal/schema"
)

const menuMarkdown = `# Corporate Dinner Menu

## Vegetarian Main Dishes

Vegetable lasagna layered with spinach and ricotta.
`

func newToolset(t *testing.T) *toolset {
	t.Helper()
	v, err := schema.New()
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}
	return &toolset{
		loader:      &parser.FileLoader{},
		validator:   v,
		log:         slog.New(slog.DiscardHandler),
		concurrency: 2,
	}
}

func writeMenu(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menu.md")
	if err := os.WriteFile(path, []byte(menuMarkdown), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestExtractOutline(t *testing.T) {
	ts := newToolset(t)
	_, out, err := ts.extractOutline(context.Background(), nil, ExtractOutlineInput{Path: writeMenu(t)})
	if err != nil {
		t.Fatalf("extractOutline: %v", err)
	}
	if !out.Schema.Valid || out.Result.Title == "" {
		t.Errorf("unexpected output %+v", out)
	}

	if _, _, err := ts.extractOutline(context.Background(), nil, ExtractOutlineInput{}); err == nil {
		t.Error("expected an error for an empty path")
	}
	if _, _, err := ts.extractOutline(context.Background(), nil, ExtractOutlineInput{Path: "/nonexistent/a.pdf"}); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestAnalyzeDocuments(t *testing.T) {
	ts := newToolset(t)
	in := AnalyzeDocumentsInput{
		Documents: []DocumentRef{{Path: writeMenu(t), Title: "Dinner Menu"}},
		Persona:   "Food Contractor",
		Job:       "Prepare a vegetarian buffet-style dinner menu",
	}
	_, out, err := ts.analyzeDocuments(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("analyzeDocuments: %v", err)
	}
	if out.Result == nil || len(out.Result.ExtractedSections) == 0 {
		t.Fatalf("expected ranked sections, got %+v", out.Result)
	}
	if out.Result.Metadata.InputDocuments[0] != "menu.md" {
		t.Errorf("expected documents named by base name, got %v", out.Result.Metadata.InputDocuments)
	}
	if !out.Schema.Valid {
		t.Errorf("expected a valid analysis, got %v", out.Schema.Errors)
	}
}

func TestAnalyzeDocuments_Validation(t *testing.T) {
	ts := newToolset(t)
	tests := []struct {
		name string
		in   AnalyzeDocumentsInput
	}{
		{"no persona", AnalyzeDocumentsInput{Job: "x", Documents: []DocumentRef{{Path: "a.pdf"}}}},
		{"no job", AnalyzeDocumentsInput{Persona: "x", Documents: []DocumentRef{{Path: "a.pdf"}}}},
		{"no documents", AnalyzeDocumentsInput{Persona: "x", Job: "y"}},
		{"duplicate names", AnalyzeDocumentsInput{Persona: "x", Job: "y", Documents: []DocumentRef{{Path: "/a/menu.pdf"}, {Path: "/b/menu.pdf"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ts.analyzeDocuments(context.Background(), nil, tt.in); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestToolSchemas(t *testing.T) {
	for _, tool := range []struct {
		name string
		got  string
	}{
		{"extract_outline", extractOutlineTool().Name},
		{"analyze_documents", analyzeDocumentsTool().Name},
	} {
		if tool.got != tool.name {
			t.Errorf("tool name = %q, want %q", tool.got, tool.name)
		}
	}
	if extractOutlineTool().InputSchema == nil || analyzeDocumentsTool().InputSchema == nil {
		t.Error("expected input schemas")
	}
	if desc := analyzeDocumentsTool().Description; !strings.Contains(desc, "food contractor, investment analyst") {
		t.Errorf("expected curated roles listed, got %q", desc)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/data/menu.pdf", "menu.pdf"},
		{`C:\docs\menu.pdf`, "menu.pdf"},
		{"menu.pdf", "menu.pdf"},
	}
	for _, tt := range tests {
		if got := baseName(tt.in); got != tt.want {
			t.Errorf("baseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
