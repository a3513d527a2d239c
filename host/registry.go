// Package host contains the host-side machinery around the linter contract:
// registration, capability-gated dispatch, concurrent lint passes, command
// template expansion and project inspection. It never runs processes; the
// caller executes commands and hands their output to the registry.
package host

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/jrossi/linterkit"
)

// Option configures a Registry
type Option func(*Registry)

// WithLogger sets the logger used for dropped offenses and dormant
// operations
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Registry holds the registered linters
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	logger  *slog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*Entry),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register validates cfg and adds the adapter under cfg.Name
func (r *Registry) Register(cfg linterkit.LinterConfig, adapter linterkit.LinterAdapter) (*Entry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config for linter %q: %w", cfg.Name, err)
	}
	if adapter == nil {
		return nil, fmt.Errorf("linter %q has no adapter", cfg.Name)
	}
	if adapter.Name() != cfg.Name {
		return nil, fmt.Errorf("%w: adapter %q, config %q", ErrNameMismatch, adapter.Name(), cfg.Name)
	}

	entry := newEntry(cfg, adapter, r.logger)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[cfg.Name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateLinter, cfg.Name)
	}
	r.entries[cfg.Name] = entry

	for _, op := range entry.capabilities.Dormant(entry.operations) {
		r.logger.Warn("adapter operation has no declared capability",
			"linter", cfg.Name, "operation", op.String())
	}
	r.logger.Debug("registered linter", "linter", cfg.Name,
		"languages", cfg.Languages, "capabilities", cfg.Capabilities)

	return entry, nil
}

// Unregister removes a linter, reporting whether it was present
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[name]
	delete(r.entries, name)
	return ok
}

// Lookup returns the entry for name
func (r *Registry) Lookup(name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLinter, name)
	}
	return entry, nil
}

// Names returns the registered linter names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForLanguage returns the enabled linters that handle languageID, sorted by
// name
func (r *Registry) ForLanguage(languageID string) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var entries []*Entry
	for _, entry := range r.entries {
		if entry.config.IsEnabled() && entry.config.AppliesTo(languageID) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries
}
