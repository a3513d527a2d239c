package linterkit

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
)

// Condition is a precondition in LinterConfig.When
type Condition string

// ConditionRails holds when the project is a Rails application, detected from
// its Gemfile.
const ConditionRails Condition = "isRails"

// ArgRule activates a custom command variable when the current document
// matches any of the listed languages, extensions or shebang interpreters.
type ArgRule struct {
	Languages  []string `json:"languages,omitempty"`
	Extensions []string `json:"extensions,omitempty"`
	Shebangs   []string `json:"shebangs,omitempty"`
}

// IsEmpty reports whether the rule can never match
func (r ArgRule) IsEmpty() bool {
	return len(r.Languages) == 0 && len(r.Extensions) == 0 && len(r.Shebangs) == 0
}

// Matches reports whether the rule applies to a document with the given
// language id, file extension and shebang interpreter. Extensions compare
// case-insensitively, with or without the leading dot.
func (r ArgRule) Matches(languageID, extension, interpreter string) bool {
	for _, l := range r.Languages {
		if l == languageID {
			return true
		}
	}
	ext := strings.TrimPrefix(strings.ToLower(extension), ".")
	if ext != "" {
		for _, e := range r.Extensions {
			if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
				return true
			}
		}
	}
	if interpreter != "" {
		for _, s := range r.Shebangs {
			if s == interpreter || filepath.Base(s) == interpreter {
				return true
			}
		}
	}
	return false
}

// LinterConfig registers a linter with the host. It is loaded once and not
// mutated afterwards.
type LinterConfig struct {
	Name         string             `json:"name"`
	Command      Command            `json:"command"`
	ConfigFiles  []string           `json:"configFiles,omitempty"`
	Enabled      *bool              `json:"enabled,omitempty"`
	Languages    []string           `json:"languages,omitempty"`
	Capabilities []Capability       `json:"capabilities,omitempty"`
	Args         map[string]ArgRule `json:"args,omitempty"`
	URL          string             `json:"url,omitempty"`
	When         []Condition        `json:"when,omitempty"`

	// Extra keeps keys this package does not know about
	Extra map[string]json.RawMessage `json:"-"`
}

var knownConfigKeys = map[string]bool{
	"name":         true,
	"command":      true,
	"configFiles":  true,
	"enabled":      true,
	"languages":    true,
	"capabilities": true,
	"args":         true,
	"url":          true,
	"when":         true,
}

// linterConfigFields has the same fields as LinterConfig without its
// JSON methods
type linterConfigFields LinterConfig

// UnmarshalJSON decodes the known fields and keeps the rest in Extra
func (c *LinterConfig) UnmarshalJSON(b []byte) error {
	var fields linterConfigFields
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return err
	}
	for key, value := range all {
		if knownConfigKeys[key] {
			continue
		}
		if fields.Extra == nil {
			fields.Extra = make(map[string]json.RawMessage)
		}
		fields.Extra[key] = value
	}

	*c = LinterConfig(fields)
	return nil
}

// MarshalJSON encodes the known fields followed by Extra
func (c LinterConfig) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(linterConfigFields(c))
	if err != nil {
		return nil, err
	}
	if len(c.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage, len(c.Extra)+len(knownConfigKeys))
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for key, value := range c.Extra {
		if knownConfigKeys[key] {
			continue
		}
		merged[key] = value
	}
	return json.Marshal(merged)
}

// IsEnabled returns the enabled flag, true when unset
func (c *LinterConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

// CapabilitySet returns the declared capabilities as a set
func (c *LinterConfig) CapabilitySet() CapabilitySet {
	return NewCapabilitySet(c.Capabilities...)
}

// AppliesTo reports whether the linter handles the given language id
func (c *LinterConfig) AppliesTo(languageID string) bool {
	for _, l := range c.Languages {
		if l == languageID {
			return true
		}
	}
	return false
}

// ArgNames returns the custom variable names, each with a leading $, sorted
func (c *LinterConfig) ArgNames() []string {
	names := make([]string, 0, len(c.Args))
	for name := range c.Args {
		names = append(names, "$"+strings.TrimPrefix(name, "$"))
	}
	sort.Strings(names)
	return names
}

// Validate reports every problem with the configuration
func (c *LinterConfig) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.Name) == "" {
		result = multierror.Append(result, fmt.Errorf("linter name is required"))
	}

	if c.Command.IsZero() {
		result = multierror.Append(result, fmt.Errorf("linter %q: %w", c.Name, errEmptyCommand))
	} else {
		for i, seq := range c.Command.Sequences {
			if len(seq) == 0 {
				result = multierror.Append(result, fmt.Errorf("linter %q: command sequence %d is empty", c.Name, i))
			}
		}
	}

	for _, capability := range c.Capabilities {
		if _, err := ParseCapability(string(capability)); err != nil {
			result = multierror.Append(result, fmt.Errorf("linter %q: %w", c.Name, err))
		}
	}

	for _, cond := range c.When {
		if cond != ConditionRails {
			result = multierror.Append(result, fmt.Errorf("linter %q: unknown condition %q", c.Name, cond))
		}
	}

	for name, rule := range c.Args {
		trimmed := strings.TrimPrefix(name, "$")
		if trimmed == "" || builtinVariables[trimmed] {
			result = multierror.Append(result, fmt.Errorf("linter %q: invalid arg name %q", c.Name, name))
		}
		if rule.IsEmpty() {
			result = multierror.Append(result, fmt.Errorf("linter %q: arg %q has no activation rule", c.Name, name))
		}
	}

	return result.ErrorOrNil()
}

// builtinVariables are the substitution variables every host provides
var builtinVariables = map[string]bool{
	"file":        true,
	"extension":   true,
	"config":      true,
	"debug":       true,
	"lint":        true,
	"language":    true,
	"code":        true,
	"fixAll":      true,
	"fixOne":      true,
	"fixCategory": true,
}

// IsBuiltinVariable reports whether name (without $) is a host variable
func IsBuiltinVariable(name string) bool {
	return builtinVariables[strings.TrimPrefix(name, "$")]
}

// Config is a set of linter configurations, as read from one or more files
type Config struct {
	Linters []LinterConfig `json:"linters"`
}

// NewConfig creates an empty configuration
func NewConfig() *Config {
	return &Config{Linters: []LinterConfig{}}
}

// Merge adds the linters of other, replacing entries with the same name
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	for _, linter := range other.Linters {
		replaced := false
		for i := range c.Linters {
			if c.Linters[i].Name == linter.Name {
				c.Linters[i] = linter
				replaced = true
				break
			}
		}
		if !replaced {
			c.Linters = append(c.Linters, linter)
		}
	}
}

// Get returns the configuration for a linter by name
func (c *Config) Get(name string) (LinterConfig, bool) {
	for _, linter := range c.Linters {
		if linter.Name == name {
			return linter, true
		}
	}
	return LinterConfig{}, false
}

// Validate validates every linter and checks names are unique
func (c *Config) Validate() error {
	var result *multierror.Error
	seen := make(map[string]bool, len(c.Linters))
	for i := range c.Linters {
		if err := c.Linters[i].Validate(); err != nil {
			result = multierror.Append(result, err)
		}
		name := c.Linters[i].Name
		if name != "" && seen[name] {
			result = multierror.Append(result, fmt.Errorf("linter %q is declared more than once", name))
		}
		seen[name] = true
	}
	return result.ErrorOrNil()
}
