// Package schema checks outline and analysis results against their JSON
// contracts. A failed check is reported, never enforced.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed outline.json
var outlineSchema []byte

//go:embed analysis.json
var analysisSchema []byte

const (
	outlineURL  = "https://docsight.local/schema/outline.json"
	analysisURL = "https://docsight.local/schema/analysis.json"
)

// Report is the outcome of a contract check.
type Report struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validator holds the compiled contracts.
type Validator struct {
	outline  *jsonschema.Schema
	analysis *jsonschema.Schema
	printer  *message.Printer
}

// New compiles the embedded schemas.
func New() (*Validator, error) {
	c := jsonschema.NewCompiler()
	for url, raw := range map[string][]byte{outlineURL: outlineSchema, analysisURL: analysisSchema} {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", url, err)
		}
		if err := c.AddResource(url, doc); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", url, err)
		}
	}

	v := &Validator{printer: message.NewPrinter(language.English)}
	var err error
	if v.outline, err = c.Compile(outlineURL); err != nil {
		return nil, fmt.Errorf("compile outline schema: %w", err)
	}
	if v.analysis, err = c.Compile(analysisURL); err != nil {
		return nil, fmt.Errorf("compile analysis schema: %w", err)
	}
	return v, nil
}

// Outline checks an outline result.
func (v *Validator) Outline(result any) Report {
	return v.check(v.outline, result)
}

// Analysis checks an analysis result.
func (v *Validator) Analysis(result any) Report {
	return v.check(v.analysis, result)
}

func (v *Validator) check(sch *jsonschema.Schema, result any) Report {
	raw, err := json.Marshal(result)
	if err != nil {
		return Report{Errors: []string{fmt.Sprintf("marshal: %v", err)}}
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return Report{Errors: []string{fmt.Sprintf("decode: %v", err)}}
	}

	err = sch.Validate(inst)
	if err == nil {
		return Report{Valid: true}
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return Report{Errors: []string{err.Error()}}
	}
	msgs := v.leaves(verr, nil)
	sort.Strings(msgs)
	return Report{Errors: msgs}
}

// leaves flattens the cause tree into "pointer: message" lines.
func (v *Validator) leaves(e *jsonschema.ValidationError, out []string) []string {
	if len(e.Causes) == 0 {
		ptr := "/" + strings.Join(e.InstanceLocation, "/")
		return append(out, fmt.Sprintf("%s: %s", ptr, e.ErrorKind.LocalizedString(v.printer)))
	}
	for _, c := range e.Causes {
		out = v.leaves(c, out)
	}
	return out
}
