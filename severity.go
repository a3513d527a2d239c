package linterkit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// OffenseSeverity is the severity of an offense. The integer values are part
// of the wire format and must not change.
type OffenseSeverity int

const (
	SeverityError       OffenseSeverity = 0
	SeverityWarning     OffenseSeverity = 1
	SeverityInformation OffenseSeverity = 2
	SeverityHint        OffenseSeverity = 3
)

var severityNames = [...]string{
	SeverityError:       "error",
	SeverityWarning:     "warning",
	SeverityInformation: "information",
	SeverityHint:        "hint",
}

// Valid reports whether s is one of the four known severities
func (s OffenseSeverity) Valid() bool {
	return s >= SeverityError && s <= SeverityHint
}

func (s OffenseSeverity) String() string {
	if !s.Valid() {
		return "OffenseSeverity(" + strconv.Itoa(int(s)) + ")"
	}
	return severityNames[s]
}

// ParseSeverity converts a severity name to its value. "info" is accepted as
// an alias for "information".
func ParseSeverity(name string) (OffenseSeverity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "information", "info":
		return SeverityInformation, nil
	case "hint":
		return SeverityHint, nil
	}
	return 0, fmt.Errorf("unknown severity %q", name)
}

// MarshalJSON encodes the severity as its integer ordinal
func (s OffenseSeverity) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(strconv.Itoa(int(s))), nil
}

// UnmarshalJSON accepts the integer ordinal or the severity name
func (s *OffenseSeverity) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		sev := OffenseSeverity(value)
		if float64(sev) != value || !sev.Valid() {
			return fmt.Errorf("invalid severity %v", value)
		}
		*s = sev
		return nil
	case string:
		sev, err := ParseSeverity(value)
		if err != nil {
			return err
		}
		*s = sev
		return nil
	default:
		return fmt.Errorf("invalid severity type: %T", v)
	}
}
