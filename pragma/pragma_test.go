package pragma

import (
	"context"
	"errors"
	"testing"

	"github.com/jrossi/linterkit"
)

func TestGetIgnoreLinePragma_ESLint(t *testing.T) {
	got, err := ESLint.GetIgnoreLinePragma(context.Background(), linterkit.LinePragmaParams{
		Line:   linterkit.Line{Text: "foo()", Number: 5},
		Code:   "E001",
		Indent: "  ",
	})
	if err != nil {
		t.Fatalf("GetIgnoreLinePragma failed: %v", err)
	}
	if got != "  // eslint-disable-next-line E001" {
		t.Errorf("got %q", got)
	}
}

func TestStyle_Eol(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		text  string
		code  string
		want  string
	}{
		{"eslint", ESLint, "foo()", "no-undef", "foo() // eslint-disable-line no-undef"},
		{"eslint trailing spaces", ESLint, "foo()   ", "no-undef", "foo() // eslint-disable-line no-undef"},
		{"eslint adds code", ESLint, "foo() // eslint-disable-line no-undef", "semi", "foo() // eslint-disable-line no-undef, semi"},
		{"eslint already present", ESLint, "foo() // eslint-disable-line no-undef, semi", "semi", "foo() // eslint-disable-line no-undef, semi"},
		{"pylint", Pylint, "x = 1", "C0103", "x = 1 # pylint: disable=C0103"},
		{"pylint adds code", Pylint, "x = 1 # pylint: disable=C0103", "W0612", "x = 1 # pylint: disable=C0103,W0612"},
		{"ruff", Ruff, "import os", "F401", "import os # noqa: F401"},
		{"rubocop", RuboCop, "  puts 'hi'", "Style/StringLiterals", "  puts 'hi' # rubocop:disable Style/StringLiterals"},
		{"empty line", Ruff, "", "E303", "# noqa: E303"},
		{"directive inside string literal", ESLint, `s = "// eslint-disable-line "`, "E001", `s = "// eslint-disable-line " // eslint-disable-line E001`},
		{"directive text inside string literal with codes", ESLint, `s = "a // eslint-disable-line semi"`, "semi", `s = "a // eslint-disable-line semi" // eslint-disable-line semi`},
		{"eslint keeps description", ESLint, "foo() // eslint-disable-line E001 -- legacy", "semi", "foo() // eslint-disable-line E001, semi -- legacy"},
		{"eslint description already covers code", ESLint, "foo() // eslint-disable-line E001 -- legacy", "E001", "foo() // eslint-disable-line E001 -- legacy"},
		{"eslint bare directive", ESLint, "foo() // eslint-disable-line", "semi", "foo() // eslint-disable-line"},
		{"ruff bare noqa", Ruff, "import os  # noqa", "F401", "import os  # noqa"},
		{"pylint empty code list", Pylint, "x = 1 # pylint: disable=", "C0103", "x = 1 # pylint: disable=C0103"},
		{"directive glued to code", Ruff, "x = 1#noqa: F401", "E501", "x = 1#noqa: F401 # noqa: E501"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.style.Eol(tt.text, tt.code)
			if err != nil {
				t.Fatalf("Eol failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Eol(%q, %q) = %q, want %q", tt.text, tt.code, got, tt.want)
			}
		})
	}
}

func TestStyle_EolIdempotent(t *testing.T) {
	for name, style := range Presets {
		if style.EolDirective == "" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			once, err := style.Eol("value = compute()", "X100")
			if err != nil {
				t.Fatalf("Eol failed: %v", err)
			}
			twice, err := style.Eol(once, "X100")
			if err != nil {
				t.Fatalf("Eol failed: %v", err)
			}
			if once != twice {
				t.Errorf("second application changed the line: %q -> %q", once, twice)
			}
		})
	}
}

func TestStyle_Line(t *testing.T) {
	tests := []struct {
		name   string
		style  Style
		indent string
		code   string
		want   string
	}{
		{"pylint", Pylint, "    ", "W0611", "    # pylint: disable-next=W0611"},
		{"shellcheck", ShellCheck, "", "SC2086", "# shellcheck disable=SC2086"},
		{"tab indent", ESLint, "\t", "eqeqeq", "\t// eslint-disable-next-line eqeqeq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.style.Line(tt.indent, tt.code)
			if err != nil {
				t.Fatalf("Line failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStyle_File(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		code  string
		want  string
	}{
		{"eslint block comment", ESLint, "no-console", "/* eslint-disable no-console */"},
		{"ruff", Ruff, "E501", "# ruff: noqa: E501"},
		{"rubocop", RuboCop, "Metrics/ClassLength", "# rubocop:disable Metrics/ClassLength"},
		{"shellcheck", ShellCheck, "SC1090", "# shellcheck disable=SC1090"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := linterkit.NewTextDocument("file:///x", "plaintext", "first line\n")
			got, err := tt.style.GetIgnoreFilePragma(context.Background(), linterkit.FilePragmaParams{
				Line:     linterkit.Line{Text: "first line", Number: 0},
				Code:     tt.code,
				Document: doc,
			})
			if err != nil {
				t.Fatalf("GetIgnoreFilePragma failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStyle_Unsupported(t *testing.T) {
	if _, err := Ruff.Line("", "E501"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Ruff.Line() error = %v, want ErrUnsupported", err)
	}
	if _, err := ShellCheck.Eol("echo $x", "SC2086"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("ShellCheck.Eol() error = %v, want ErrUnsupported", err)
	}
	if _, err := (Style{CommentStart: "#"}).File("", "X"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("File() error = %v, want ErrUnsupported", err)
	}
}

func TestStyle_ReferentiallyTransparent(t *testing.T) {
	params := linterkit.EolPragmaParams{Line: linterkit.Line{Text: "let a = 1", Number: 3}, Code: "prefer-const"}
	first, err := ESLint.GetIgnoreEolPragma(context.Background(), params)
	if err != nil {
		t.Fatalf("GetIgnoreEolPragma failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := ESLint.GetIgnoreEolPragma(context.Background(), params)
		if err != nil || again != first {
			t.Fatalf("call %d = %q, %v; want %q", i, again, err, first)
		}
	}
	if params.Line.Text != "let a = 1" {
		t.Error("input line was modified")
	}
}

func TestStyle_ImplementsProviders(t *testing.T) {
	var adapter struct {
		Style
	}
	adapter.Style = ESLint
	var _ linterkit.EolPragmaProvider = adapter
	var _ linterkit.LinePragmaProvider = adapter
	var _ linterkit.FilePragmaProvider = adapter
}
