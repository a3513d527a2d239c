// Package pattern is an adapter driven by a regular expression with named
// groups, for linters that print one offense per line.
package pattern

import (
	"bufio"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jrossi/linterkit"
)

// Stream selects which command output is scanned
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
	StreamBoth   Stream = "both"
)

// Config describes the output format. Pattern recognizes the groups line,
// column, endLine, endColumn, code, message and severity; line and message
// are required.
type Config struct {
	Pattern         string                               `json:"pattern"`
	OneBased        bool                                 `json:"oneBased,omitempty"`
	Stream          Stream                               `json:"stream,omitempty"`
	Severities      map[string]linterkit.OffenseSeverity `json:"severities,omitempty"`
	DefaultSeverity linterkit.OffenseSeverity            `json:"defaultSeverity,omitempty"`
	DefaultCode     string                               `json:"defaultCode,omitempty"`
	// DocsURL may contain {code}, replaced by the offense code
	DocsURL string `json:"docsUrl,omitempty"`
}

// Adapter turns matching output lines into offenses
type Adapter struct {
	name   string
	config Config
	re     *regexp.Regexp
	groups map[string]int
}

// New compiles cfg.Pattern and creates an adapter registered as name
func New(name string, cfg Config) (*Adapter, error) {
	re, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern for %s: %w", name, err)
	}

	groups := make(map[string]int)
	for i, group := range re.SubexpNames() {
		if group != "" {
			groups[group] = i
		}
	}
	for _, required := range []string{"line", "message"} {
		if _, ok := groups[required]; !ok {
			return nil, fmt.Errorf("pattern for %s has no %q group", name, required)
		}
	}
	if cfg.Stream == "" {
		cfg.Stream = StreamStdout
	}

	return &Adapter{
		name:   name,
		config: cfg,
		re:     re,
		groups: groups,
	}, nil
}

// Name returns the linter name
func (a *Adapter) Name() string {
	return a.name
}

// GetOffenses scans the configured output. Lines that do not match are
// ignored.
func (a *Adapter) GetOffenses(ctx context.Context, params linterkit.LinterParams) ([]linterkit.Offense, error) {
	var output string
	switch a.config.Stream {
	case StreamStderr:
		output = params.Stderr
	case StreamBoth:
		output = params.Stdout + "\n" + params.Stderr
	default:
		output = params.Stdout
	}

	offenses := []linterkit.Offense{}
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		match := a.re.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		offense, err := a.offense(match, params.DocumentURI)
		if err != nil {
			return nil, err
		}
		offenses = append(offenses, offense)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read linter output: %w", err)
	}
	return offenses, nil
}

func (a *Adapter) group(match []string, name string) string {
	if idx, ok := a.groups[name]; ok && idx < len(match) {
		return match[idx]
	}
	return ""
}

func (a *Adapter) number(match []string, name string, fallback int) (int, error) {
	value := a.group(match, name)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if a.config.OneBased && n > 0 {
		n--
	}
	return n, nil
}

func (a *Adapter) offense(match []string, uri linterkit.DocumentURI) (linterkit.Offense, error) {
	line, err := a.number(match, "line", 0)
	if err != nil {
		return linterkit.Offense{}, err
	}
	column, err := a.number(match, "column", 0)
	if err != nil {
		return linterkit.Offense{}, err
	}
	endLine, err := a.number(match, "endLine", line)
	if err != nil {
		return linterkit.Offense{}, err
	}
	endColumn, err := a.number(match, "endColumn", column)
	if err != nil {
		return linterkit.Offense{}, err
	}

	code := a.group(match, "code")
	if code == "" {
		code = a.config.DefaultCode
	}

	severity := a.config.DefaultSeverity
	if name := a.group(match, "severity"); name != "" {
		if mapped, ok := a.config.Severities[strings.ToLower(name)]; ok {
			severity = mapped
		} else if parsed, err := linterkit.ParseSeverity(name); err == nil {
			severity = parsed
		}
	}

	offense := linterkit.Offense{
		Code:        code,
		Message:     strings.TrimSpace(a.group(match, "message")),
		Source:      a.name,
		DocumentURI: uri,
		Severity:    severity,
		LineStart:   line,
		ColumnStart: column,
		LineEnd:     endLine,
		ColumnEnd:   endColumn,
	}
	if a.config.DocsURL != "" && code != "" {
		offense.DocsURL = strings.ReplaceAll(a.config.DocsURL, "{code}", code)
	}
	return offense, nil
}
