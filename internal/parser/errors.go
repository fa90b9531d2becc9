package parser

import "fmt"

// DocumentReadError reports a document that could not be opened or decoded.
type DocumentReadError struct {
	Filename string
	Err      error
}

func (e *DocumentReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Filename, e.Err)
}

func (e *DocumentReadError) Unwrap() error {
	return e.Err
}
