package counter

import (
	"log/slog"
	"unicode/utf8"
)

// CharCounter counts runes, not bytes.
type CharCounter struct{}

// NewCharCounter creates a CharCounter.
func NewCharCounter() Counter {
	return &CharCounter{}
}

// Count returns the number of runes in text.
func (cc *CharCounter) Count(text string) int {
	if text == "" {
		return 0
	}

	// invalid UTF-8 bytes count as one rune each
	charCount := utf8.RuneCountInString(text)

	slog.Debug("Character count calculated", "textLength", len(text), "charCount", charCount)
	return charCount
}

// Name returns the name of this unit.
func (cc *CharCounter) Name() string {
	return "characters"
}
