package linterkit

import (
	"fmt"
	"sort"
)

// Capability is an action a linter advertises to the host UI
type Capability string

const (
	CapIgnoreAll   Capability = "ignore-all"
	CapIgnoreLine  Capability = "ignore-line"
	CapIgnoreEol   Capability = "ignore-eol"
	CapFixOne      Capability = "fix-one"
	CapFixCategory Capability = "fix-category"
	CapFixAll      Capability = "fix-all"
)

// AllCapabilities lists every known capability
var AllCapabilities = []Capability{
	CapIgnoreAll,
	CapIgnoreLine,
	CapIgnoreEol,
	CapFixOne,
	CapFixCategory,
	CapFixAll,
}

// ParseCapability validates a capability string
func ParseCapability(s string) (Capability, error) {
	for _, c := range AllCapabilities {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown capability %q", s)
}

// Operation returns the adapter operation backing the capability. Fix
// capabilities map to OpParseFixOutput, which adapters may omit.
func (c Capability) Operation() Operation {
	switch c {
	case CapIgnoreEol:
		return OpIgnoreEol
	case CapIgnoreLine:
		return OpIgnoreLine
	case CapIgnoreAll:
		return OpIgnoreFile
	case CapFixOne, CapFixCategory, CapFixAll:
		return OpParseFixOutput
	}
	return 0
}

// IsFix reports whether the capability runs a fix command
func (c Capability) IsFix() bool {
	return c == CapFixOne || c == CapFixCategory || c == CapFixAll
}

// CapabilitySet is the set of capabilities declared by a linter
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from a list
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether c is declared
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// HasFix reports whether any fix capability is declared
func (s CapabilitySet) HasFix() bool {
	return s.Has(CapFixOne) || s.Has(CapFixCategory) || s.Has(CapFixAll)
}

// Sorted returns the capabilities in a stable order
func (s CapabilitySet) Sorted() []Capability {
	caps := make([]Capability, 0, len(s))
	for c := range s {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}

// Dormant returns operations the adapter implements without a declared
// capability to enable them. The host never calls these.
func (s CapabilitySet) Dormant(ops OperationSet) []Operation {
	var dormant []Operation
	for _, op := range ops.List() {
		enabled := false
		for c := range s {
			if c.Operation() == op {
				enabled = true
				break
			}
		}
		if !enabled {
			dormant = append(dormant, op)
		}
	}
	return dormant
}
