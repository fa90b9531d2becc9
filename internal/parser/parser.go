// Package parser decodes source documents into positioned text spans.
//
// PDFs carry real font metrics. Structured formats (Markdown, HTML, DOCX,
// CSV) map their heading markup onto synthetic font sizes so the same span
// heuristics apply to them.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docsight/internal/span"
)

// Parser converts raw document bytes into a span document.
type Parser interface {
	Parse(r io.Reader, filename string) (*span.Document, error)
}

// Options tunes the parsers returned by ForFile.
type Options struct {
	// FallbackPdftotext shells out to pdftotext when the PDF library yields
	// no text.
	FallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Parse decodes r with the parser for filename and wraps any failure in a
// DocumentReadError.
func Parse(r io.Reader, filename string, opts Options) (*span.Document, error) {
	p, err := ForFile(filename, opts)
	if err != nil {
		return nil, &DocumentReadError{Filename: filename, Err: err}
	}
	doc, err := p.Parse(r, filename)
	if err != nil {
		return nil, &DocumentReadError{Filename: filename, Err: err}
	}
	return doc, nil
}
