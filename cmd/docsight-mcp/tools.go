package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dgallion1/docsight/internal/outline"
	"github.com/dgallion1/docsight/internal/persona"
	"github.com/dgallion1/docsight/internal/schema"
)

type ExtractOutlineInput struct {
	Path string `json:"path" jsonschema:"path of a PDF, DOCX, HTML, Markdown, CSV or text file"`
}

type ExtractOutlineOutput struct {
	Result outline.Result `json:"result"`
	Schema schema.Report  `json:"schema"`
}

type DocumentRef struct {
	Path  string `json:"path" jsonschema:"path of the document"`
	Title string `json:"title,omitempty" jsonschema:"display title used in synthesized excerpts"`
}

type AnalyzeDocumentsInput struct {
	Documents []DocumentRef `json:"documents" jsonschema:"documents to analyze"`
	Persona   string        `json:"persona" jsonschema:"role of the reader, e.g. Travel Planner"`
	Job       string        `json:"job" jsonschema:"task the reader wants to accomplish"`
}

type AnalyzeDocumentsOutput struct {
	Result *persona.AnalysisResult `json:"result"`
	Schema schema.Report           `json:"schema"`
}

// toolset holds what the tool handlers share.
type toolset struct {
	loader      persona.Loader
	validator   *schema.Validator
	log         *slog.Logger
	concurrency int
}

func extractOutlineTool() *mcp.Tool {
	inputschema, err := jsonschema.For[ExtractOutlineInput](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "extract_outline",
		Description: "Extract the title and H1/H2/H3 heading outline of a document using font-size statistics. Returns the outline and a schema validation report.",
		InputSchema: inputschema,
	}
}

func analyzeDocumentsTool() *mcp.Tool {
	inputschema, err := jsonschema.For[AnalyzeDocumentsInput](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "analyze_documents",
		Description: "Rank the sections of a set of documents by relevance to a persona and a job-to-be-done. Returns the top five sections with refined excerpts and a schema validation report. " +
			"Roles with curated keywords: " + strings.Join(persona.KnownPersonas(), ", ") + ". Other roles use a generic keyword list.",
		InputSchema: inputschema,
	}
}

func (ts *toolset) register(server *mcp.Server) {
	mcp.AddTool(server, extractOutlineTool(), ts.extractOutline)
	mcp.AddTool(server, analyzeDocumentsTool(), ts.analyzeDocuments)
}

func (ts *toolset) extractOutline(ctx context.Context, req *mcp.CallToolRequest, in ExtractOutlineInput) (*mcp.CallToolResult, ExtractOutlineOutput, error) {
	if strings.TrimSpace(in.Path) == "" {
		return nil, ExtractOutlineOutput{}, errors.New("path is required")
	}
	start := time.Now()
	doc, err := ts.loader.Load(ctx, in.Path)
	if err != nil {
		ts.log.Error("extract_outline failed", "path", in.Path, "error", err)
		return nil, ExtractOutlineOutput{}, err
	}
	res := outline.Extract(doc)
	ts.log.Info("extract_outline",
		"path", in.Path,
		"headings", len(res.Outline),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil, ExtractOutlineOutput{Result: res, Schema: ts.validator.Outline(res)}, nil
}

func (ts *toolset) analyzeDocuments(ctx context.Context, req *mcp.CallToolRequest, in AnalyzeDocumentsInput) (*mcp.CallToolResult, AnalyzeDocumentsOutput, error) {
	if strings.TrimSpace(in.Persona) == "" || strings.TrimSpace(in.Job) == "" {
		return nil, AnalyzeDocumentsOutput{}, errors.New("persona and job are required")
	}
	if len(in.Documents) == 0 {
		return nil, AnalyzeDocumentsOutput{}, errors.New("at least one document is required")
	}

	inputs := make([]persona.DocumentInput, 0, len(in.Documents))
	for _, d := range in.Documents {
		inputs = append(inputs, persona.DocumentInput{ID: baseName(d.Path), Title: d.Title, Path: d.Path})
	}
	res, err := persona.NewAnalyzer(ts.loader, ts.log, ts.concurrency).Analyze(ctx, inputs, in.Persona, in.Job)
	if err != nil {
		return nil, AnalyzeDocumentsOutput{}, fmt.Errorf("analyze_documents: %w", err)
	}
	return nil, AnalyzeDocumentsOutput{Result: res, Schema: ts.validator.Analysis(res)}, nil
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
