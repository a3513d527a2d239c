package linterkit

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// FixEdit is the location part of an InlineFix. It is implemented only by
// ByRange and ByOffset.
type FixEdit interface {
	isFixEdit()
}

// ByRange replaces the text between two positions
type ByRange struct {
	Start Position
	End   Position
}

// ByOffset replaces the text between two character offsets, [Start, End)
type ByOffset struct {
	Start int
	End   int
}

func (ByRange) isFixEdit()  {}
func (ByOffset) isFixEdit() {}

// InlineFix is a text replacement that corrects an offense
type InlineFix struct {
	Replacement string
	Edit        FixEdit
}

// NewRangeFix builds a fix addressed by start and end positions
func NewRangeFix(replacement string, start, end Position) *InlineFix {
	return &InlineFix{Replacement: replacement, Edit: ByRange{Start: start, End: end}}
}

// NewOffsetFix builds a fix addressed by an offset pair
func NewOffsetFix(replacement string, start, end int) *InlineFix {
	return &InlineFix{Replacement: replacement, Edit: ByOffset{Start: start, End: end}}
}

var (
	errFixNoShape   = errors.New("inline fix has neither offset nor start/end")
	errFixBothShape = errors.New("inline fix has both offset and start/end")
)

// Validate checks that the edit is present and its bounds are ordered
func (f *InlineFix) Validate() error {
	switch edit := f.Edit.(type) {
	case ByRange:
		if edit.Start.Line < 0 || edit.Start.Column < 0 || edit.End.Line < 0 || edit.End.Column < 0 {
			return fmt.Errorf("inline fix range has negative position")
		}
		if edit.End.Before(edit.Start) {
			return fmt.Errorf("inline fix range ends before it starts")
		}
	case ByOffset:
		if edit.Start < 0 || edit.End < 0 {
			return fmt.Errorf("inline fix offset has negative value")
		}
		if edit.End < edit.Start {
			return fmt.Errorf("inline fix offset [%d,%d] ends before it starts", edit.Start, edit.End)
		}
	case nil:
		return errFixNoShape
	default:
		return fmt.Errorf("unsupported inline fix edit %T", f.Edit)
	}
	return nil
}

type rangeFixJSON struct {
	Replacement string   `json:"replacement"`
	Start       Position `json:"start"`
	End         Position `json:"end"`
}

type offsetFixJSON struct {
	Replacement string `json:"replacement"`
	Offset      [2]int `json:"offset"`
}

// MarshalJSON emits exactly one of the two structural shapes
func (f InlineFix) MarshalJSON() ([]byte, error) {
	switch edit := f.Edit.(type) {
	case ByRange:
		return json.Marshal(rangeFixJSON{Replacement: f.Replacement, Start: edit.Start, End: edit.End})
	case ByOffset:
		return json.Marshal(offsetFixJSON{Replacement: f.Replacement, Offset: [2]int{edit.Start, edit.End}})
	case nil:
		return nil, errFixNoShape
	default:
		return nil, fmt.Errorf("unsupported inline fix edit %T", f.Edit)
	}
}

// UnmarshalJSON selects the shape from the keys present: offset, or
// start and end.
func (f *InlineFix) UnmarshalJSON(b []byte) error {
	var raw struct {
		Replacement *string         `json:"replacement"`
		Start       json.RawMessage `json:"start"`
		End         json.RawMessage `json:"end"`
		Offset      json.RawMessage `json:"offset"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Replacement == nil {
		return errors.New("inline fix has no replacement")
	}

	hasOffset := present(raw.Offset)
	hasStart, hasEnd := present(raw.Start), present(raw.End)

	switch {
	case hasOffset && (hasStart || hasEnd):
		return errFixBothShape
	case hasOffset:
		var offset []int
		if err := json.Unmarshal(raw.Offset, &offset); err != nil {
			return fmt.Errorf("inline fix offset: %w", err)
		}
		if len(offset) != 2 {
			return fmt.Errorf("inline fix offset must have 2 elements, got %d", len(offset))
		}
		*f = InlineFix{Replacement: *raw.Replacement, Edit: ByOffset{Start: offset[0], End: offset[1]}}
	case hasStart && hasEnd:
		var edit ByRange
		if err := json.Unmarshal(raw.Start, &edit.Start); err != nil {
			return fmt.Errorf("inline fix start: %w", err)
		}
		if err := json.Unmarshal(raw.End, &edit.End); err != nil {
			return fmt.Errorf("inline fix end: %w", err)
		}
		*f = InlineFix{Replacement: *raw.Replacement, Edit: edit}
	case hasStart || hasEnd:
		return errors.New("inline fix range needs both start and end")
	default:
		return errFixNoShape
	}
	return nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
