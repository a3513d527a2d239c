// Package adapters builds reference adapters from the "adapter" key of a
// linter configuration.
//
//	{
//	  "name": "shellcheck",
//	  "command": ["shellcheck", "--format=gcc", "$file"],
//	  "adapter": {"type": "pattern", "pattern": "...", "oneBased": true}
//	}
package adapters

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jrossi/linterkit"
	"github.com/jrossi/linterkit/adapters/jsonstream"
	"github.com/jrossi/linterkit/adapters/pattern"
	"github.com/jrossi/linterkit/pragma"
)

// ConfigKey is the LinterConfig extra key holding the adapter spec
const ConfigKey = "adapter"

// Spec selects and configures a reference adapter
type Spec struct {
	Type   string `json:"type"`             // "jsonstream" or "pattern"
	Pragma string `json:"pragma,omitempty"` // pragma preset for jsonstream
	pattern.Config
}

// FromConfig builds the adapter described by cfg.Extra["adapter"]. A config
// without that key gets a jsonstream adapter with the ESLint pragma style.
func FromConfig(cfg linterkit.LinterConfig) (linterkit.LinterAdapter, error) {
	raw, ok := cfg.Extra[ConfigKey]
	if !ok {
		return jsonstream.New(cfg.Name, pragma.ESLint), nil
	}

	var spec Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("linter %s: invalid adapter spec: %w", cfg.Name, err)
	}
	return FromSpec(cfg.Name, spec)
}

// FromSpec builds an adapter registered as name
func FromSpec(name string, spec Spec) (linterkit.LinterAdapter, error) {
	switch spec.Type {
	case "", "jsonstream":
		style := pragma.ESLint
		if spec.Pragma != "" {
			preset, ok := pragma.Presets[spec.Pragma]
			if !ok {
				return nil, fmt.Errorf("linter %s: unknown pragma preset %q", name, spec.Pragma)
			}
			style = preset
		}
		return jsonstream.New(name, style), nil
	case "pattern":
		adapter, err := pattern.New(name, spec.Config)
		if err != nil {
			return nil, err
		}
		return adapter, nil
	default:
		return nil, fmt.Errorf("linter %s: unknown adapter type %q", name, spec.Type)
	}
}
