package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docsight/internal/span"
)

// rowsPerPage groups data rows so a large sheet spreads over several pages.
const rowsPerPage = 20

// CSVParser handles CSV files. Each page repeats the header row as a bold
// span followed by up to rowsPerPage data rows.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*span.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	b := newPageBuilder(filename)
	if len(records) == 0 {
		return b.document(), nil
	}

	headers := records[0]
	header := strings.Join(headers, ", ")
	dataRows := records[1:]
	if len(dataRows) == 0 {
		b.emit(header, bodySize, true)
		return b.document(), nil
	}

	for i := 0; i < len(dataRows); i += rowsPerPage {
		end := min(i+rowsPerPage, len(dataRows))
		b.breakPage()
		b.emit(header, bodySize, true)
		for _, row := range dataRows[i:end] {
			b.body(formatRow(headers, row))
		}
	}
	return b.document(), nil
}

func formatRow(headers, row []string) string {
	var sb strings.Builder
	for j, cell := range row {
		if j > 0 {
			sb.WriteString(", ")
		}
		if j < len(headers) {
			sb.WriteString(headers[j] + ": ")
		}
		sb.WriteString(cell)
	}
	return sb.String()
}
