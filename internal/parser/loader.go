package parser

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dgallion1/docsight/internal/span"
)

// FileLoader reads documents from the local filesystem.
type FileLoader struct {
	Options Options
}

// Load opens and decodes the document at path. The returned document is
// named by the file's base name.
func (l *FileLoader) Load(ctx context.Context, path string) (*span.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, &DocumentReadError{Filename: name, Err: err}
	}
	defer f.Close()
	return Parse(f, name, l.Options)
}
