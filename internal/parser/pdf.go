package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"slices"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/docsight/internal/span"
)

// PDFParser handles PDF files. It decodes positioned glyphs with the Go
// library and falls back to pdftotext for plain lines when enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

// Layout tolerances, in points or multiples of the font size.
const (
	rowTolerance  = 3.0
	spaceGapRatio = 0.15
	spanGapRatio  = 1.5
	defaultTop    = 792.0 // US Letter
)

var boldMarkers = []string{"bold", "black", "heavy"}

// ErrNoText is returned for PDFs with no extractable text at all.
var ErrNoText = errors.New("no extractable text")

func (p *PDFParser) Parse(r io.Reader, filename string) (*span.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	doc, err := decodePDF(data, filename)
	if !p.FallbackPdftotext {
		return doc, err
	}
	if err == nil && doc.SpanCount() > 0 {
		return doc, nil
	}

	pages, ferr := extractPdftotext(data)
	if ferr != nil {
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
	if doc == nil {
		doc = &span.Document{Filename: filename}
	}
	doc.Pages = doc.Pages[:0]
	for i, text := range pages {
		doc.Pages = append(doc.Pages, span.Page{Number: i + 1, Lines: splitLines(text)})
	}
	return doc, nil
}

func decodePDF(data []byte, filename string) (doc *span.Document, err error) {
	// The library panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	doc = &span.Document{
		Filename:      filename,
		MetadataTitle: strings.TrimSpace(reader.Trailer().Key("Info").Key("Title").Text()),
	}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		var glyphs []glyph
		for _, t := range page.Content().Text {
			glyphs = append(glyphs, glyph{font: t.Font, size: t.FontSize, x: t.X, y: t.Y, w: t.W, s: t.S})
		}
		doc.Pages = append(doc.Pages, layoutPage(i, pageTop(page), glyphs))
	}
	return doc, nil
}

// pageTop returns the upper edge of the media box in user space. MediaBox is
// inheritable, so the page tree is walked up to the root.
func pageTop(page pdflib.Page) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() != 4 {
			continue
		}
		if top := box.Index(3).Float64(); top > 0 {
			return top
		}
		return defaultTop
	}
	return defaultTop
}

// glyph is one positioned text fragment as drawn on the page. y grows upward.
type glyph struct {
	font          string
	size, x, y, w float64
	s             string
}

type textRun struct {
	font    string
	size, y float64
	end     float64
	text    string
}

// layoutPage turns glyphs into spans and reading-order lines.
func layoutPage(number int, top float64, glyphs []glyph) span.Page {
	page := span.Page{Number: number}
	for _, row := range groupRows(glyphs) {
		var parts []string
		for _, run := range mergeRow(row) {
			text := strings.TrimSpace(norm.NFKC.String(run.text))
			if text == "" {
				continue
			}
			parts = append(parts, text)
			page.Spans = append(page.Spans, span.TextSpan{
				Text:       text,
				FontSize:   run.size,
				IsBold:     isBoldFont(run.font),
				FontName:   run.font,
				YPosition:  top - run.y,
				PageNumber: number,
			})
		}
		if len(parts) > 0 {
			page.Lines = append(page.Lines, strings.Join(parts, " "))
		}
	}
	return page
}

// groupRows buckets glyphs whose baselines lie within rowTolerance, top row
// first, each row ordered left to right.
func groupRows(glyphs []glyph) [][]glyph {
	sorted := slices.Clone(glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].y > sorted[j].y
	})

	var rows [][]glyph
	var rowY float64
	for _, g := range sorted {
		if len(rows) == 0 || math.Abs(rowY-g.y) > rowTolerance {
			rows = append(rows, []glyph{g})
			rowY = g.y
			continue
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], g)
	}
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].x < row[j].x
		})
	}
	return rows
}

// mergeRow joins adjacent glyphs sharing a font and size into runs.
func mergeRow(row []glyph) []textRun {
	var runs []textRun
	for _, g := range row {
		if n := len(runs); n > 0 {
			last := &runs[n-1]
			gap := g.x - last.end
			if last.font == g.font && last.size == g.size && gap <= g.size*spanGapRatio {
				if gap > g.size*spaceGapRatio && !strings.HasSuffix(last.text, " ") && !strings.HasPrefix(g.s, " ") {
					last.text += " "
				}
				last.text += g.s
				last.end = g.x + g.w
				continue
			}
		}
		runs = append(runs, textRun{font: g.font, size: g.size, y: g.y, end: g.x + g.w, text: g.s})
	}
	return runs
}

func isBoldFont(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range boldMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// extractPdftotext returns the text of each page as rendered by pdftotext.
func extractPdftotext(data []byte) ([]string, error) {
	tmp, err := os.CreateTemp("", "docsight-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	out, err := exec.Command("pdftotext", "-layout", tmpPath, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	text := strings.TrimRight(string(out), "\f\n")
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}
	return strings.Split(text, "\f"), nil
}

func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
