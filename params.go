package linterkit

import (
	"strings"
)

// LinterParams is the raw result of one linter command execution. It is
// passed by value; adapters get their own copy.
type LinterParams struct {
	DocumentURI DocumentURI `json:"documentUri"`
	Stdout      string      `json:"stdout"`
	Stderr      string      `json:"stderr"`
	Status      int         `json:"status"` // process exit code
}

// Line is one line of a document, without its terminator
type Line struct {
	Text   string `json:"text"`
	Number int    `json:"number"` // zero-indexed
}

// EolPragmaParams are the inputs of GetIgnoreEolPragma
type EolPragmaParams struct {
	Line Line
	Code string
}

// LinePragmaParams are the inputs of GetIgnoreLinePragma
type LinePragmaParams struct {
	Line   Line
	Code   string
	Indent string
}

// FilePragmaParams are the inputs of GetIgnoreFilePragma
type FilePragmaParams struct {
	Line     Line
	Code     string
	Indent   string
	Document Document
}

// FixOutputParams are the inputs of ParseFixOutput
type FixOutputParams struct {
	Input       string
	Stdout      string
	Stderr      string
	DocumentURI DocumentURI
}

// Document is a read-only view of a document owned by the host
type Document interface {
	URI() DocumentURI
	LanguageID() string
	Text() string
	LineCount() int
	LineAt(n int) (Line, bool)
}

// TextDocument is an in-memory Document
type TextDocument struct {
	uri        DocumentURI
	languageID string
	text       string
	lines      []string
}

// NewTextDocument creates a document from its full text
func NewTextDocument(uri DocumentURI, languageID, text string) *TextDocument {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &TextDocument{
		uri:        uri,
		languageID: languageID,
		text:       text,
		lines:      lines,
	}
}

func (d *TextDocument) URI() DocumentURI   { return d.uri }
func (d *TextDocument) LanguageID() string { return d.languageID }
func (d *TextDocument) Text() string       { return d.text }
func (d *TextDocument) LineCount() int     { return len(d.lines) }

// LineAt returns the zero-indexed line n
func (d *TextDocument) LineAt(n int) (Line, bool) {
	if n < 0 || n >= len(d.lines) {
		return Line{}, false
	}
	return Line{Text: d.lines[n], Number: n}, true
}
