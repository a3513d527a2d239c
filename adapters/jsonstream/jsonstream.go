// Package jsonstream is an adapter for linters that print offenses in the
// normalized contract format, either as one JSON array or as JSON lines.
package jsonstream

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jrossi/linterkit"
	"github.com/jrossi/linterkit/pragma"
)

// Adapter converts normalized offense JSON into offenses. It embeds a
// pragma.Style for the ignore operations.
type Adapter struct {
	pragma.Style
	name string
}

// New creates an adapter registered as name using the given pragma style
func New(name string, style pragma.Style) *Adapter {
	return &Adapter{
		Style: style,
		name:  name,
	}
}

// Name returns the linter name
func (a *Adapter) Name() string {
	return a.name
}

// GetOffenses decodes the command's stdout. Offenses without a source or
// document get the adapter name and the params document.
func (a *Adapter) GetOffenses(ctx context.Context, params linterkit.LinterParams) ([]linterkit.Offense, error) {
	output := bytes.TrimSpace([]byte(params.Stdout))
	if len(output) == 0 {
		if params.Status != 0 && strings.TrimSpace(params.Stderr) != "" {
			return nil, fmt.Errorf("linter exited with status %d: %s", params.Status, strings.TrimSpace(params.Stderr))
		}
		return []linterkit.Offense{}, nil
	}

	var offenses []linterkit.Offense
	if output[0] == '[' {
		if err := json.Unmarshal(output, &offenses); err != nil {
			return nil, fmt.Errorf("failed to parse offense array: %w", err)
		}
	} else {
		var err error
		offenses, err = decodeLines(ctx, output)
		if err != nil {
			return nil, err
		}
	}

	for i := range offenses {
		if offenses[i].Source == "" {
			offenses[i].Source = a.name
		}
		if offenses[i].DocumentURI == "" {
			offenses[i].DocumentURI = params.DocumentURI
		}
	}
	return offenses, nil
}

func decodeLines(ctx context.Context, output []byte) ([]linterkit.Offense, error) {
	offenses := []linterkit.Offense{}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var offense linterkit.Offense
		if err := json.Unmarshal(line, &offense); err != nil {
			return nil, fmt.Errorf("failed to parse offense on line %d: %w", lineNum, err)
		}
		offenses = append(offenses, offense)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read linter output: %w", err)
	}
	return offenses, nil
}

// fixOutput is what the fix command prints when it does not print the
// fixed file itself
type fixOutput struct {
	Output *string `json:"output"`
}

// ParseFixOutput returns the "output" field of a JSON object on stdout.
// Empty stdout means the fix changed nothing.
func (a *Adapter) ParseFixOutput(_ context.Context, params linterkit.FixOutputParams) (string, error) {
	stdout := bytes.TrimSpace([]byte(params.Stdout))
	if len(stdout) == 0 {
		return params.Input, nil
	}

	var out fixOutput
	if err := json.Unmarshal(stdout, &out); err != nil {
		return "", fmt.Errorf("failed to parse fix output for %s: %w", params.DocumentURI, err)
	}
	if out.Output == nil {
		return params.Input, nil
	}
	return *out.Output, nil
}
