package linterkit

import (
	"context"
)

// LinterAdapter is the one operation every adapter must provide
type LinterAdapter interface {
	// Name returns the registered linter name. Offenses produced by the
	// adapter carry it as their Source.
	Name() string

	// GetOffenses turns one command execution into offenses. Finding no
	// offenses is an empty slice and a nil error; errors are reserved for
	// output that cannot be parsed.
	GetOffenses(ctx context.Context, params LinterParams) ([]Offense, error)
}

// EolPragmaProvider returns line.Text with an end-of-line ignore marker for
// code appended. Applying it to its own output for the same code must not
// add a second marker.
type EolPragmaProvider interface {
	GetIgnoreEolPragma(ctx context.Context, params EolPragmaParams) (string, error)
}

// LinePragmaProvider returns the text of a new line, inserted before
// params.Line, that ignores code on the next line only.
type LinePragmaProvider interface {
	GetIgnoreLinePragma(ctx context.Context, params LinePragmaParams) (string, error)
}

// FilePragmaProvider returns a file-level ignore directive, usually inserted
// at the top of the document.
type FilePragmaProvider interface {
	GetIgnoreFilePragma(ctx context.Context, params FilePragmaParams) (string, error)
}

// FixOutputParser turns a fix command's output into the corrected document
// text, for linters that do not print the fixed file verbatim.
type FixOutputParser interface {
	ParseFixOutput(ctx context.Context, params FixOutputParams) (string, error)
}

// Operation names an optional adapter operation
type Operation uint8

const (
	OpIgnoreEol Operation = 1 << iota
	OpIgnoreLine
	OpIgnoreFile
	OpParseFixOutput
)

var operationNames = map[Operation]string{
	OpIgnoreEol:      "getIgnoreEolPragma",
	OpIgnoreLine:     "getIgnoreLinePragma",
	OpIgnoreFile:     "getIgnoreFilePragma",
	OpParseFixOutput: "parseFixOutput",
}

func (o Operation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return "unknown"
}

// OperationSet is a set of optional operations
type OperationSet uint8

// Has reports whether op is in the set
func (s OperationSet) Has(op Operation) bool {
	return s&OperationSet(op) != 0
}

// List returns the operations in the set in declaration order
func (s OperationSet) List() []Operation {
	var ops []Operation
	for _, op := range []Operation{OpIgnoreEol, OpIgnoreLine, OpIgnoreFile, OpParseFixOutput} {
		if s.Has(op) {
			ops = append(ops, op)
		}
	}
	return ops
}

// Operations returns the optional operations adapter implements
func Operations(adapter LinterAdapter) OperationSet {
	var set OperationSet
	if _, ok := adapter.(EolPragmaProvider); ok {
		set |= OperationSet(OpIgnoreEol)
	}
	if _, ok := adapter.(LinePragmaProvider); ok {
		set |= OperationSet(OpIgnoreLine)
	}
	if _, ok := adapter.(FilePragmaProvider); ok {
		set |= OperationSet(OpIgnoreFile)
	}
	if _, ok := adapter.(FixOutputParser); ok {
		set |= OperationSet(OpParseFixOutput)
	}
	return set
}
