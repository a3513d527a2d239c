// Package pragma builds ignore comments for comment-directive based linters.
//
// A Style has the three pragma methods of the adapter contract, so an
// adapter can embed one to provide GetIgnoreEolPragma, GetIgnoreLinePragma
// and GetIgnoreFilePragma.
package pragma

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jrossi/linterkit"
)

// ErrUnsupported is returned when the style has no directive of the
// requested kind
var ErrUnsupported = errors.New("pragma kind not supported by this style")

// Style describes how a linter spells its ignore directives
type Style struct {
	CommentStart string // e.g. "//" or "#"
	CommentEnd   string // e.g. " */" for block comments, usually empty

	EolDirective  string // directive at the end of the offending line
	LineDirective string // directive on its own line, applies to the next line
	FileDirective string // directive for the whole file

	// FileCommentStart and FileCommentEnd override the comment delimiters
	// for the file directive
	FileCommentStart string
	FileCommentEnd   string

	CodePrefix    string // between directive and codes, e.g. " " or "="
	CodeSeparator string // between codes, e.g. ", "
}

// Presets for common linters
var (
	ESLint = Style{
		CommentStart:     "//",
		EolDirective:     "eslint-disable-line",
		LineDirective:    "eslint-disable-next-line",
		FileDirective:    "eslint-disable",
		FileCommentStart: "/*",
		FileCommentEnd:   " */",
		CodePrefix:       " ",
		CodeSeparator:    ", ",
	}

	Pylint = Style{
		CommentStart:  "#",
		EolDirective:  "pylint: disable",
		LineDirective: "pylint: disable-next",
		FileDirective: "pylint: disable",
		CodePrefix:    "=",
		CodeSeparator: ",",
	}

	Ruff = Style{
		CommentStart:  "#",
		EolDirective:  "noqa:",
		FileDirective: "ruff: noqa:",
		CodePrefix:    " ",
		CodeSeparator: ", ",
	}

	RuboCop = Style{
		CommentStart:  "#",
		EolDirective:  "rubocop:disable",
		FileDirective: "rubocop:disable",
		CodePrefix:    " ",
		CodeSeparator: ", ",
	}

	ShellCheck = Style{
		CommentStart:  "#",
		LineDirective: "shellcheck disable",
		FileDirective: "shellcheck disable",
		CodePrefix:    "=",
		CodeSeparator: ",",
	}
)

// Presets maps preset names to styles
var Presets = map[string]Style{
	"eslint":     ESLint,
	"pylint":     Pylint,
	"ruff":       Ruff,
	"rubocop":    RuboCop,
	"shellcheck": ShellCheck,
}

func (s Style) comment(start, end, directive string, codes ...string) string {
	return start + " " + directive + s.CodePrefix + strings.Join(codes, s.CodeSeparator) + end
}

// Eol returns text with an end-of-line directive for code. If the text
// already ends in a directive, code is added to it; if that directive
// already covers code, or is a bare directive with no codes, text is
// returned unchanged.
// A trailing " -- description" on an existing directive is kept.
func (s Style) Eol(text, code string) (string, error) {
	if s.EolDirective == "" {
		return "", ErrUnsupported
	}

	base := strings.TrimRight(text, " \t")
	if base == "" {
		return s.eolComment([]string{code}, ""), nil
	}
	if s.bareEol(base) {
		return text, nil
	}
	if idx, codes, desc, ok := s.trailingEol(base); ok {
		for _, existing := range codes {
			if existing == code {
				return text, nil
			}
		}
		return base[:idx] + s.eolComment(append(codes, code), desc), nil
	}
	return base + " " + s.eolComment([]string{code}, ""), nil
}

var directiveCode = regexp.MustCompile(`^[A-Za-z0-9_./@:-]+$`)

func (s Style) eolComment(codes []string, desc string) string {
	return s.CommentStart + " " + s.EolDirective + s.CodePrefix + strings.Join(codes, s.CodeSeparator) + desc + s.CommentEnd
}

// bareEol reports whether line ends in a directive without codes, which
// already ignores every code on the line
func (s Style) bareEol(line string) bool {
	end := strings.TrimRight(s.CommentEnd, " \t")
	for _, directive := range []string{s.EolDirective, strings.TrimRight(s.EolDirective, ":")} {
		suffix := s.CommentStart + " " + directive + end
		if !strings.HasSuffix(line, suffix) {
			continue
		}
		if atWordStart(line, len(line)-len(suffix)) {
			return true
		}
	}
	return false
}

// trailingEol finds a directive with codes at the end of line. It returns
// the directive's offset, its codes and any " -- description" suffix.
func (s Style) trailingEol(line string) (int, []string, string, bool) {
	marker := s.CommentStart + " " + s.EolDirective + s.CodePrefix
	idx := strings.LastIndex(line, marker)
	if idx < 0 || !atWordStart(line, idx) {
		return 0, nil, "", false
	}

	tail := strings.TrimSuffix(line[idx+len(marker):], strings.TrimSpace(s.CommentEnd))
	tail = strings.TrimRight(tail, " \t")
	desc := ""
	if i := strings.Index(tail, " -- "); i >= 0 {
		tail, desc = tail[:i], tail[i:]
	}

	var codes []string
	for _, existing := range strings.Split(tail, strings.TrimSpace(s.CodeSeparator)) {
		existing = strings.TrimSpace(existing)
		if existing == "" {
			continue
		}
		if !directiveCode.MatchString(existing) {
			return 0, nil, "", false
		}
		codes = append(codes, existing)
	}
	return idx, codes, desc, true
}

func atWordStart(line string, idx int) bool {
	return idx == 0 || line[idx-1] == ' ' || line[idx-1] == '\t'
}

// Line returns a new line, indented with indent, that ignores code on the
// following line
func (s Style) Line(indent, code string) (string, error) {
	if s.LineDirective == "" {
		return "", ErrUnsupported
	}
	return indent + s.comment(s.CommentStart, s.CommentEnd, s.LineDirective, code), nil
}

// File returns a file-level directive ignoring code
func (s Style) File(indent, code string) (string, error) {
	if s.FileDirective == "" {
		return "", ErrUnsupported
	}
	start, end := s.CommentStart, s.CommentEnd
	if s.FileCommentStart != "" {
		start, end = s.FileCommentStart, s.FileCommentEnd
	}
	return indent + s.comment(start, end, s.FileDirective, code), nil
}

// GetIgnoreEolPragma implements linterkit.EolPragmaProvider
func (s Style) GetIgnoreEolPragma(_ context.Context, params linterkit.EolPragmaParams) (string, error) {
	return s.Eol(params.Line.Text, params.Code)
}

// GetIgnoreLinePragma implements linterkit.LinePragmaProvider
func (s Style) GetIgnoreLinePragma(_ context.Context, params linterkit.LinePragmaParams) (string, error) {
	return s.Line(params.Indent, params.Code)
}

// GetIgnoreFilePragma implements linterkit.FilePragmaProvider
func (s Style) GetIgnoreFilePragma(_ context.Context, params linterkit.FilePragmaParams) (string, error) {
	return s.File(params.Indent, params.Code)
}
