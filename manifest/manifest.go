// Package manifest reads linter manifests written in Markdown, with the
// linter configuration in YAML front matter, and renders Markdown reports of
// registered linters and their offenses.
package manifest

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/jrossi/linterkit"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

// Manifest is a parsed linter manifest
type Manifest struct {
	Config      linterkit.LinterConfig
	Title       string // first level-one heading
	Description string // first paragraph
}

func newParser() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			&frontmatter.Extender{},
		),
	)
}

// Load reads and parses a manifest file
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse parses manifest content
func Parse(content []byte) (*Manifest, error) {
	configJSON, doc, err := parse(content)
	if err != nil {
		return nil, err
	}

	config, err := linterkit.DecodeConfig(configJSON)
	if err != nil {
		return nil, err
	}
	if len(config.Linters) != 1 {
		return nil, fmt.Errorf("manifest must declare exactly one linter, found %d", len(config.Linters))
	}

	m := &Manifest{Config: config.Linters[0]}
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && m.Title == "" {
				m.Title = lineText(node, content)
			}
		case *ast.Paragraph:
			if m.Description == "" {
				m.Description = lineText(node, content)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest body: %w", err)
	}
	return m, nil
}

// ToJSON returns the front matter of a manifest as JSON. It has the
// linterkit.DecodeFunc signature so manifests can be loaded by a
// ConfigLoader.
func ToJSON(content []byte) ([]byte, error) {
	configJSON, _, err := parse(content)
	return configJSON, err
}

func parse(content []byte) ([]byte, ast.Node, error) {
	ctx := parser.NewContext()
	doc := newParser().Parser().Parse(text.NewReader(content), parser.WithContext(ctx))

	data := frontmatter.Get(ctx)
	if data == nil {
		return nil, nil, fmt.Errorf("manifest has no front matter")
	}

	var fields map[string]interface{}
	if err := data.Decode(&fields); err != nil {
		return nil, nil, fmt.Errorf("failed to decode front matter: %w", err)
	}
	configJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode front matter: %w", err)
	}
	return configJSON, doc, nil
}

func lineText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		if i > 0 {
			buf.WriteByte(' ')
		}
		segment := lines.At(i)
		buf.Write(bytes.TrimSpace(segment.Value(source)))
	}
	return buf.String()
}
