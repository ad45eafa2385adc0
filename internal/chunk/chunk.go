// Package chunk splits extracted page text into the fixed-size pages a word
// group counts page occurrences over.
//
// Text is broken along the coarsest boundary that brings every piece under
// the page size:
//  1. Paragraph boundaries (double newlines)
//  2. Sentence boundaries
//  3. Line boundaries (single newlines)
//  4. Word boundaries, for oversized lines
//
// The pieces are then packed greedily, in order, into pages of at most size
// units as measured by a counter.Counter.
//
// Usage Example:
//
//	pages := chunk.SplitPages(text, 150, counter.NewWordCounter())
//	// pages of at most 150 words
package chunk

import (
	"log/slog"
	"strings"

	"github.com/chriscorrea/atol/internal/counter"
)

// splitStrategy defines a method for breaking up text.
type splitStrategy struct {
	name      string
	delimiter string
}

// strategies are ordered from largest semantic unit to smallest.
var strategies = []splitStrategy{
	{name: "paragraph", delimiter: "\n\n"},
	{name: "sentence", delimiter: ". "},
	{name: "sentence-question", delimiter: "? "},
	{name: "sentence-exclamation", delimiter: "! "},
	{name: "line", delimiter: "\n"},
	{name: "word", delimiter: " "},
}

// SplitPages breaks text into pages of at most size units. A single word
// larger than size becomes a page of its own. Empty text or a non-positive
// size yields no pages.
func SplitPages(text string, size int, c counter.Counter) []string {
	text = strings.TrimSpace(text)
	if size <= 0 || text == "" {
		return nil
	}

	segments := segment(text, size, c, 0)
	pages := pack(segments, size, c)
	slog.Debug("Text split into pages", "unit", c.Name(), "size", size, "segments", len(segments), "pages", len(pages))
	return pages
}

// segment splits text at strategies[level:] until every piece fits in size.
func segment(text string, size int, c counter.Counter, level int) []string {
	if level == len(strategies) || c.Count(text) <= size {
		return []string{text}
	}

	d := strategies[level].delimiter
	if !strings.Contains(text, d) {
		return segment(text, size, c, level+1)
	}

	var out []string
	for _, part := range strings.Split(text, d) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, segment(part, size, c, level+1)...)
	}
	return out
}

// pack joins consecutive segments while the page stays within size. Segment
// counts are summed, so separators are not charged.
func pack(segments []string, size int, c counter.Counter) []string {
	var pages []string
	var page strings.Builder
	used := 0
	for _, s := range segments {
		n := c.Count(s)
		if page.Len() > 0 && used+n > size {
			pages = append(pages, page.String())
			page.Reset()
			used = 0
		}
		if page.Len() > 0 {
			page.WriteByte('\n')
		}
		page.WriteString(s)
		used += n
	}
	if page.Len() > 0 {
		pages = append(pages, page.String())
	}
	return pages
}
