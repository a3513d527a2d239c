package manifest

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jrossi/linterkit"
	markdown "github.com/teekennedy/goldmark-markdown"
	"github.com/yuin/goldmark/text"
)

// Report collects linters and offenses for a Markdown summary
type Report struct {
	Title    string
	Linters  []linterkit.LinterConfig
	Offenses []linterkit.Offense
}

// Render writes the report as normalized Markdown
func (r *Report) Render(w io.Writer) error {
	source := []byte(r.draft())

	doc := newParser().Parser().Parse(text.NewReader(source))
	formatter := markdown.NewRenderer()
	if err := formatter.Render(w, source, doc); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func (r *Report) draft() string {
	var b strings.Builder

	title := r.Title
	if title == "" {
		title = "Linters"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	linters := append([]linterkit.LinterConfig(nil), r.Linters...)
	sort.Slice(linters, func(i, j int) bool { return linters[i].Name < linters[j].Name })

	for _, linter := range linters {
		fmt.Fprintf(&b, "## %s\n\n", linter.Name)
		if !linter.IsEnabled() {
			b.WriteString("*disabled*\n\n")
		}
		if len(linter.Languages) > 0 {
			fmt.Fprintf(&b, "- Languages: %s\n", strings.Join(linter.Languages, ", "))
		}
		if len(linter.Capabilities) > 0 {
			caps := make([]string, 0, len(linter.Capabilities))
			for _, c := range linter.CapabilitySet().Sorted() {
				caps = append(caps, string(c))
			}
			fmt.Fprintf(&b, "- Capabilities: %s\n", strings.Join(caps, ", "))
		}
		if len(linter.ConfigFiles) > 0 {
			fmt.Fprintf(&b, "- Config files: %s\n", strings.Join(linter.ConfigFiles, ", "))
		}
		if args := linter.ArgNames(); len(args) > 0 {
			fmt.Fprintf(&b, "- Custom variables: %s\n", strings.Join(args, ", "))
		}
		if len(linter.When) > 0 {
			conds := make([]string, len(linter.When))
			for i, c := range linter.When {
				conds[i] = string(c)
			}
			fmt.Fprintf(&b, "- When: %s\n", strings.Join(conds, ", "))
		}
		if linter.URL != "" {
			fmt.Fprintf(&b, "- URL: <%s>\n", linter.URL)
		}
		fmt.Fprintf(&b, "\n```sh\n%s\n```\n\n", linter.Command.String())
	}

	if len(r.Offenses) > 0 {
		b.WriteString("## Offenses\n\n")
		for _, o := range r.Offenses {
			fmt.Fprintf(&b, "- `%s:%d:%d` **%s** %s (%s)", o.DocumentURI, o.LineStart+1, o.ColumnStart+1,
				o.Severity, escape(o.Message), o.Identity())
			if o.Correctable {
				b.WriteString(" [fixable]")
			}
			b.WriteByte('\n')
		}
	}

	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
