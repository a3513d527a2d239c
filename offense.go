package linterkit

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
)

// DocumentURI is an opaque reference to a document. It is owned by the host;
// adapters only read and propagate it.
type DocumentURI string

// Position is a zero-indexed location in a document
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Before reports whether p comes strictly before other in document order
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Offense is one issue detected by a linter, normalized for the host
type Offense struct {
	// Code identifies the offense category. Together with Source it forms
	// the diagnostic identity.
	Code    string `json:"code"`
	Message string `json:"message"`
	// Source is the producing linter and must equal the adapter's
	// registered name.
	Source      string          `json:"source"`
	DocumentURI DocumentURI     `json:"documentUri"`
	Severity    OffenseSeverity `json:"severity"`

	LineStart   int `json:"lineStart"`
	ColumnStart int `json:"columnStart"`
	// LineEnd and ColumnEnd repeat the start values when the linter does
	// not report a range end.
	LineEnd   int `json:"lineEnd"`
	ColumnEnd int `json:"columnEnd"`

	Correctable bool            `json:"correctable"`
	DocsURL     string          `json:"docsUrl,omitempty"`
	InlineFix   *InlineFix      `json:"inlineFix,omitempty"`
	Meta        json.RawMessage `json:"meta,omitempty"` // adapter-private, passed back on fix calls
}

// Identity returns the source/code pair identifying the diagnostic
func (o Offense) Identity() string {
	return o.Source + "/" + o.Code
}

// Start returns the start position of the offense
func (o Offense) Start() Position {
	return Position{Line: o.LineStart, Column: o.ColumnStart}
}

// End returns the end position of the offense
func (o Offense) End() Position {
	return Position{Line: o.LineEnd, Column: o.ColumnEnd}
}

// Validate checks the record against the contract and returns every
// violation found. The contract does not require hosts to call it.
func (o Offense) Validate() error {
	var result *multierror.Error

	if o.Source == "" {
		result = multierror.Append(result, fmt.Errorf("offense %q has no source", o.Code))
	}
	if !o.Severity.Valid() {
		result = multierror.Append(result, fmt.Errorf("offense %q has invalid severity %d", o.Code, int(o.Severity)))
	}

	positions := []struct {
		name  string
		value int
	}{
		{"lineStart", o.LineStart},
		{"columnStart", o.ColumnStart},
		{"lineEnd", o.LineEnd},
		{"columnEnd", o.ColumnEnd},
	}
	negative := false
	for _, p := range positions {
		if p.value < 0 {
			negative = true
			result = multierror.Append(result, fmt.Errorf("offense %q has negative %s %d", o.Code, p.name, p.value))
		}
	}
	if !negative && o.End().Before(o.Start()) {
		result = multierror.Append(result, fmt.Errorf("offense %q ends at %d:%d before it starts at %d:%d",
			o.Code, o.LineEnd, o.ColumnEnd, o.LineStart, o.ColumnStart))
	}

	if o.InlineFix != nil {
		if err := o.InlineFix.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("offense %q: %w", o.Code, err))
		}
	}

	return result.ErrorOrNil()
}
