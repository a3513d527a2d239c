package host

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jrossi/linterkit"
)

// Entry is a registered linter: its configuration and adapter. Every call
// into the adapter goes through an Entry so capability checks happen in one
// place.
type Entry struct {
	config       linterkit.LinterConfig
	adapter      linterkit.LinterAdapter
	capabilities linterkit.CapabilitySet
	operations   linterkit.OperationSet
	logger       *slog.Logger
}

func newEntry(cfg linterkit.LinterConfig, adapter linterkit.LinterAdapter, logger *slog.Logger) *Entry {
	return &Entry{
		config:       cfg,
		adapter:      adapter,
		capabilities: cfg.CapabilitySet(),
		operations:   linterkit.Operations(adapter),
		logger:       logger.With("linter", cfg.Name),
	}
}

// Name returns the registered linter name
func (e *Entry) Name() string {
	return e.config.Name
}

// Config returns a copy of the linter configuration
func (e *Entry) Config() linterkit.LinterConfig {
	return e.config
}

// Offers reports whether the host should offer the action: the capability
// is declared and, except for fixes, the adapter implements it
func (e *Entry) Offers(c linterkit.Capability) bool {
	if !e.capabilities.Has(c) {
		return false
	}
	return c.IsFix() || e.operations.Has(c.Operation())
}

// Offenses runs the adapter's GetOffenses and keeps only well-formed
// offenses from this linter. Rejected records are logged, not returned.
func (e *Entry) Offenses(ctx context.Context, params linterkit.LinterParams) ([]linterkit.Offense, error) {
	offenses, err := e.adapter.GetOffenses(ctx, params)
	if err != nil {
		return nil, &LinterError{Linter: e.Name(), DocumentURI: params.DocumentURI, Err: err}
	}

	kept := make([]linterkit.Offense, 0, len(offenses))
	for _, offense := range offenses {
		if offense.DocumentURI == "" {
			offense.DocumentURI = params.DocumentURI
		}
		if offense.Source != e.Name() {
			e.logger.Warn("dropping offense from another source",
				"source", offense.Source, "code", offense.Code)
			continue
		}
		if err := offense.Validate(); err != nil {
			e.logger.Warn("dropping malformed offense", "code", offense.Code, "error", err)
			continue
		}
		kept = append(kept, offense)
	}
	return kept, nil
}

func (e *Entry) require(c linterkit.Capability) error {
	if !e.capabilities.Has(c) {
		return fmt.Errorf("linter %s: %w: %s", e.Name(), ErrCapabilityNotDeclared, c)
	}
	return nil
}

// IgnoreEol returns the line text with an end-of-line ignore pragma
func (e *Entry) IgnoreEol(ctx context.Context, params linterkit.EolPragmaParams) (string, error) {
	if err := e.require(linterkit.CapIgnoreEol); err != nil {
		return "", err
	}
	provider, ok := e.adapter.(linterkit.EolPragmaProvider)
	if !ok {
		return "", fmt.Errorf("linter %s: %w: %s", e.Name(), ErrNotImplemented, linterkit.OpIgnoreEol)
	}
	return provider.GetIgnoreEolPragma(ctx, params)
}

// IgnoreLine returns the text of a new line ignoring the next line
func (e *Entry) IgnoreLine(ctx context.Context, params linterkit.LinePragmaParams) (string, error) {
	if err := e.require(linterkit.CapIgnoreLine); err != nil {
		return "", err
	}
	provider, ok := e.adapter.(linterkit.LinePragmaProvider)
	if !ok {
		return "", fmt.Errorf("linter %s: %w: %s", e.Name(), ErrNotImplemented, linterkit.OpIgnoreLine)
	}
	return provider.GetIgnoreLinePragma(ctx, params)
}

// IgnoreFile returns a file-level ignore directive
func (e *Entry) IgnoreFile(ctx context.Context, params linterkit.FilePragmaParams) (string, error) {
	if err := e.require(linterkit.CapIgnoreAll); err != nil {
		return "", err
	}
	provider, ok := e.adapter.(linterkit.FilePragmaProvider)
	if !ok {
		return "", fmt.Errorf("linter %s: %w: %s", e.Name(), ErrNotImplemented, linterkit.OpIgnoreFile)
	}
	return provider.GetIgnoreFilePragma(ctx, params)
}

// FixedText returns the corrected document after a fix command ran with
// the given fix capability. Without a FixOutputParser the command's stdout
// is the corrected text.
func (e *Entry) FixedText(ctx context.Context, c linterkit.Capability, params linterkit.FixOutputParams) (string, error) {
	if !c.IsFix() {
		return "", fmt.Errorf("linter %s: %s is not a fix capability", e.Name(), c)
	}
	if err := e.require(c); err != nil {
		return "", err
	}
	parser, ok := e.adapter.(linterkit.FixOutputParser)
	if !ok {
		return params.Stdout, nil
	}
	return parser.ParseFixOutput(ctx, params)
}
