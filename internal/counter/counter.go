// Package counter measures text length in the unit used to size word-group
// pages.
//
// Three units are supported: tokens (tiktoken cl100k_base), whitespace
// separated words and Unicode characters. The page splitter in package chunk
// only depends on the Counter interface, so the unit is a configuration
// choice.
//
// Usage Example:
//
//	unit, err := counter.ParseUnit("words")
//	c, err := counter.New(unit)
//	n := c.Count("a page of crawled text")
package counter

import (
	"errors"
	"fmt"
)

// ErrUnknownUnit is returned by ParseUnit for a name it does not recognize.
var ErrUnknownUnit = errors.New("unknown page unit")

// Counter measures text in one unit.
type Counter interface {
	// Count returns the number of units (tokens, words, or characters) in text.
	Count(text string) int

	// Name returns a human-readable name for this unit (for logging)
	Name() string
}

// Unit selects a Counter implementation.
type Unit int

const (
	// Tokens uses tiktoken with cl100k_base encoding
	Tokens Unit = iota
	// Words counts whitespace separated words (default)
	Words
	// Characters counts runes, whitespace included
	Characters
)

// String returns the string representation of the unit.
func (u Unit) String() string {
	switch u {
	case Tokens:
		return "tokens"
	case Words:
		return "words"
	case Characters:
		return "characters"
	default:
		return "unknown"
	}
}

// ParseUnit maps a configuration value to its Unit.
func ParseUnit(s string) (Unit, error) {
	// names match String, so config files and flags round-trip
	for _, u := range []Unit{Tokens, Words, Characters} {
		if u.String() == s {
			return u, nil
		}
	}
	return 0, fmt.Errorf("%w %q: want tokens, words or characters", ErrUnknownUnit, s)
}

// New returns the Counter for unit. Only the token counter can fail, when
// its encoding cannot be loaded.
func New(unit Unit) (Counter, error) {
	switch unit {
	case Tokens:
		// loads the BPE ranks, may hit the network on first use
		return NewTokenCounter()
	case Words:
		return NewWordCounter(), nil
	case Characters:
		return NewCharCounter(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownUnit, unit)
	}
}
