package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/docsight/internal/span"
)

// DOCXParser handles .docx files. Heading styles map to heading spans and
// paragraphs whose runs are all bold become bold body spans.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*span.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	b := newPageBuilder(filename)
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text, bold := docxParagraphText(para)
		if text == "" {
			continue
		}
		if level := docxHeadingLevel(para); level > 0 {
			b.heading(level, text)
			continue
		}
		b.emit(text, bodySize, bold)
	}
	return b.document(), nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(style, "heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}

// docxParagraphText returns the paragraph text and whether every run with
// text is bold.
func docxParagraphText(para *docx.Paragraph) (string, bool) {
	var buf strings.Builder
	bold, runs := true, 0
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var rt strings.Builder
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				rt.WriteString(t.Text)
			}
		}
		if strings.TrimSpace(rt.String()) == "" {
			buf.WriteString(rt.String())
			continue
		}
		runs++
		if run.RunProperties == nil || run.RunProperties.Bold == nil {
			bold = false
		}
		buf.WriteString(rt.String())
	}
	return strings.TrimSpace(buf.String()), bold && runs > 0
}
