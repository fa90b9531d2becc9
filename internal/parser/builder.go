package parser

import (
	"strings"

	"github.com/dgallion1/docsight/internal/span"
)

// Synthetic metrics for formats without font information.
const (
	bodySize     = 11.0
	lineSpacing  = 1.2
	linesPerPage = 60
)

// headingSize maps a markup heading level to a font size.
func headingSize(level int) float64 {
	switch level {
	case 1:
		return 24
	case 2:
		return 20
	case 3:
		return 16
	default:
		return 13
	}
}

// pageBuilder lays text out top to bottom on synthetic pages.
type pageBuilder struct {
	doc   *span.Document
	y     float64
	lines int
}

func newPageBuilder(filename string) *pageBuilder {
	return &pageBuilder{doc: &span.Document{Filename: filename}}
}

func (b *pageBuilder) page() *span.Page {
	if len(b.doc.Pages) == 0 {
		b.doc.Pages = append(b.doc.Pages, span.Page{Number: 1})
	}
	return &b.doc.Pages[len(b.doc.Pages)-1]
}

// breakPage starts a new page unless the current one is still empty.
func (b *pageBuilder) breakPage() {
	if len(b.doc.Pages) == 0 || b.lines == 0 {
		return
	}
	b.doc.Pages = append(b.doc.Pages, span.Page{Number: len(b.doc.Pages) + 1})
	b.y, b.lines = 0, 0
}

func (b *pageBuilder) emit(text string, size float64, bold bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if b.lines >= linesPerPage {
		b.breakPage()
	}
	p := b.page()
	b.y += size * lineSpacing
	p.Spans = append(p.Spans, span.TextSpan{
		Text:       text,
		FontSize:   size,
		IsBold:     bold,
		YPosition:  b.y,
		PageNumber: p.Number,
	})
	p.Lines = append(p.Lines, text)
	b.lines++
}

func (b *pageBuilder) heading(level int, text string) {
	b.emit(text, headingSize(level), true)
}

// body emits one span per non-blank line of text.
func (b *pageBuilder) body(text string) {
	b.block(text, false)
}

func (b *pageBuilder) block(text string, bold bool) {
	for _, line := range strings.Split(text, "\n") {
		b.emit(line, bodySize, bold)
	}
}

func (b *pageBuilder) document() *span.Document {
	return b.doc
}
