package host

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jrossi/linterkit"
)

// Mode selects which of the mode variables ($lint, $fixAll, $fixOne,
// $fixCategory) is active
type Mode int

const (
	ModeLint Mode = iota
	ModeFixAll
	ModeFixOne
	ModeFixCategory
)

// ParseMode converts a mode name such as "fix-all" to a Mode
func ParseMode(name string) (Mode, error) {
	switch name {
	case "", "lint":
		return ModeLint, nil
	case "fix-all":
		return ModeFixAll, nil
	case "fix-one":
		return ModeFixOne, nil
	case "fix-category":
		return ModeFixCategory, nil
	}
	return 0, fmt.Errorf("unknown mode %q", name)
}

// Vars are the values substituted into a command template
type Vars struct {
	File        string // document path
	LanguageID  string
	Config      string // resolved config file, empty when none was found
	Code        string // offense code for fix-one and fix-category
	Debug       bool
	Mode        Mode
	Interpreter string // from the document's shebang line
}

// NewVars fills File, LanguageID and Interpreter for a document
func NewVars(path, languageID, text string) Vars {
	return Vars{
		File:        path,
		LanguageID:  languageID,
		Interpreter: Shebang(text),
	}
}

// Extension returns the lowercased file extension without the dot
func (v Vars) Extension() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(v.File)), ".")
}

// Expand substitutes vars into every command sequence of cfg.
//
// Value variables ($file, $extension, $config, $language, $code) are
// replaced by their value. Switch variables ($debug, the mode variables and
// the custom args) are removed from the token when active. A token that
// refers to an inactive switch or an empty value is dropped, as is a token
// left empty after substitution. "$$" is a literal dollar sign.
func Expand(cfg linterkit.LinterConfig, vars Vars) ([][]string, error) {
	values := map[string]string{
		"file":      vars.File,
		"extension": vars.Extension(),
		"config":    vars.Config,
		"language":  vars.LanguageID,
		"code":      vars.Code,
	}
	switches := map[string]bool{
		"debug":       vars.Debug,
		"lint":        vars.Mode == ModeLint,
		"fixAll":      vars.Mode == ModeFixAll,
		"fixOne":      vars.Mode == ModeFixOne,
		"fixCategory": vars.Mode == ModeFixCategory,
	}
	for name, rule := range cfg.Args {
		switches[strings.TrimPrefix(name, "$")] = rule.Matches(vars.LanguageID, vars.Extension(), vars.Interpreter)
	}

	expanded := make([][]string, 0, len(cfg.Command.Sequences))
	for _, seq := range cfg.Command.Sequences {
		tokens := make([]string, 0, len(seq))
		for _, token := range seq {
			out, keep, err := expandToken(token, values, switches)
			if err != nil {
				return nil, fmt.Errorf("linter %s: %w", cfg.Name, err)
			}
			if keep {
				tokens = append(tokens, out)
			}
		}
		if len(tokens) > 0 {
			expanded = append(expanded, tokens)
		}
	}
	return expanded, nil
}

func expandToken(token string, values map[string]string, switches map[string]bool) (string, bool, error) {
	var out strings.Builder
	for i := 0; i < len(token); i++ {
		c := token[i]
		if c != '$' {
			out.WriteByte(c)
			continue
		}
		if i+1 < len(token) && token[i+1] == '$' {
			out.WriteByte('$')
			i++
			continue
		}

		j := i + 1
		for j < len(token) && isIdentByte(token[j]) {
			j++
		}
		name := token[i+1 : j]
		if name == "" {
			out.WriteByte('$')
			continue
		}
		i = j - 1

		if value, ok := values[name]; ok {
			if value == "" {
				return "", false, nil
			}
			out.WriteString(value)
			continue
		}
		if active, ok := switches[name]; ok {
			if !active {
				return "", false, nil
			}
			continue
		}
		return "", false, fmt.Errorf("%w: $%s in %q", ErrUnresolvedVariable, name, token)
	}

	if out.Len() == 0 {
		return "", false, nil
	}
	return out.String(), true, nil
}

func isIdentByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// Shebang returns the interpreter named by a "#!" first line, following
// /usr/bin/env. It returns "" when there is no shebang.
func Shebang(text string) string {
	if !strings.HasPrefix(text, "#!") {
		return ""
	}
	line := text[2:]
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}

	fields := strings.Fields(strings.TrimSuffix(line, "\r"))
	if len(fields) == 0 {
		return ""
	}
	interpreter := filepath.Base(fields[0])
	if interpreter != "env" {
		return interpreter
	}
	for _, field := range fields[1:] {
		if strings.HasPrefix(field, "-") || strings.Contains(field, "=") {
			continue
		}
		return filepath.Base(field)
	}
	return ""
}
