package counter

import (
	"log/slog"
	"strings"
)

// WordCounter counts whitespace separated words.
type WordCounter struct{}

// NewWordCounter creates a WordCounter.
func NewWordCounter() Counter {
	return &WordCounter{}
}

// Count returns the number of words in text; any run of Unicode whitespace
// separates two words.
func (wc *WordCounter) Count(text string) int {
	if text == "" {
		return 0
	}

	// punctuation stays attached, "ammo," is one word
	wordCount := len(strings.Fields(text))

	slog.Debug("Word count calculated", "textLength", len(text), "wordCount", wordCount)
	return wordCount
}

// Name returns the name of this unit.
func (wc *WordCounter) Name() string {
	return "words"
}
