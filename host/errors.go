package host

import (
	"errors"
	"fmt"

	"github.com/jrossi/linterkit"
)

var (
	// ErrCapabilityNotDeclared is returned when the host asks for an action
	// the linter configuration does not advertise
	ErrCapabilityNotDeclared = errors.New("capability not declared")

	// ErrNotImplemented is returned when a capability is declared but the
	// adapter lacks the operation behind it
	ErrNotImplemented = errors.New("operation not implemented by adapter")

	ErrDuplicateLinter = errors.New("linter already registered")
	ErrNameMismatch    = errors.New("adapter name does not match config name")
	ErrUnknownLinter   = errors.New("unknown linter")

	// ErrUnresolvedVariable is returned when a command template references a
	// variable that is neither built in nor declared in args
	ErrUnresolvedVariable = errors.New("unresolved command variable")
)

// LinterError reports that a linter failed for a document
type LinterError struct {
	Linter      string
	DocumentURI linterkit.DocumentURI
	Err         error
}

func (e *LinterError) Error() string {
	return fmt.Sprintf("linter %s failed for %s: %v", e.Linter, e.DocumentURI, e.Err)
}

func (e *LinterError) Unwrap() error {
	return e.Err
}
