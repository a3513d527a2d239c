package linterkit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/goccy/go-json"
	"github.com/google/shlex"
)

// Command is a command template. It holds one or more token sequences run
// in order, e.g. a format pass followed by a lint pass. Tokens may contain
// $variables that the host substitutes.
type Command struct {
	Sequences [][]string
	nested    bool
}

// NewCommand creates a single-sequence command
func NewCommand(tokens ...string) Command {
	return Command{Sequences: [][]string{tokens}}
}

// NewCommandSequence creates a command from several sequences
func NewCommandSequence(sequences ...[]string) Command {
	return Command{Sequences: sequences, nested: true}
}

// ParseCommand splits a shell-like command line into a single-sequence
// command
func ParseCommand(line string) (Command, error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return Command{}, fmt.Errorf("failed to split command %q: %w", line, err)
	}
	return NewCommand(tokens...), nil
}

// Nested reports whether the command was declared as a list of sequences
func (c Command) Nested() bool {
	return c.nested
}

// IsZero reports whether the command has no tokens at all
func (c Command) IsZero() bool {
	for _, seq := range c.Sequences {
		if len(seq) > 0 {
			return false
		}
	}
	return true
}

// String renders the command as shell-quoted lines joined with " && "
func (c Command) String() string {
	lines := make([]string, 0, len(c.Sequences))
	for _, seq := range c.Sequences {
		lines = append(lines, shellescape.QuoteCommand(seq))
	}
	return strings.Join(lines, " && ")
}

// MarshalJSON writes a flat token list, or a list of lists for nested
// commands
func (c Command) MarshalJSON() ([]byte, error) {
	if !c.nested && len(c.Sequences) == 1 {
		return json.Marshal(c.Sequences[0])
	}
	seqs := c.Sequences
	if seqs == nil {
		seqs = [][]string{}
	}
	return json.Marshal(seqs)
}

// UnmarshalJSON accepts a command line string, a flat token list or a list
// whose elements are token lists or command line strings
func (c *Command) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case string:
		cmd, err := ParseCommand(value)
		if err != nil {
			return err
		}
		*c = cmd
		return nil
	case []interface{}:
		return c.fromList(value)
	case nil:
		*c = Command{}
		return nil
	default:
		return fmt.Errorf("invalid command type: %T", v)
	}
}

func (c *Command) fromList(items []interface{}) error {
	allStrings := true
	for _, item := range items {
		if _, ok := item.(string); !ok {
			allStrings = false
			break
		}
	}

	if allStrings {
		tokens := make([]string, len(items))
		for i, item := range items {
			tokens[i] = item.(string)
		}
		*c = NewCommand(tokens...)
		return nil
	}

	seqs := make([][]string, 0, len(items))
	for i, item := range items {
		switch value := item.(type) {
		case string:
			tokens, err := shlex.Split(value)
			if err != nil {
				return fmt.Errorf("command sequence %d: %w", i, err)
			}
			seqs = append(seqs, tokens)
		case []interface{}:
			tokens := make([]string, len(value))
			for j, token := range value {
				s, ok := token.(string)
				if !ok {
					return fmt.Errorf("command sequence %d token %d: expected string, got %T", i, j, token)
				}
				tokens[j] = s
			}
			seqs = append(seqs, tokens)
		default:
			return fmt.Errorf("command sequence %d: expected list or string, got %T", i, item)
		}
	}
	*c = NewCommandSequence(seqs...)
	return nil
}

var errEmptyCommand = errors.New("command is empty")
