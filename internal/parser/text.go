package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docsight/internal/span"
)

// TextParser handles plain text files. Paragraphs become body spans; a form
// feed starts a new page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*span.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := newPageBuilder(filename)
	for scanner.Scan() {
		line := scanner.Text()
		for i, part := range strings.Split(line, "\f") {
			if i > 0 {
				b.breakPage()
			}
			b.body(part)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.document(), nil
}
