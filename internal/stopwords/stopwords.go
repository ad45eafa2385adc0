// Package stopwords loads the token set ignored when titles and category
// statistics are built.
//
// The raw word-count store does not consult this set; only the
// title index and the statistics builder do.
package stopwords

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Set is an immutable set of stopword tokens.
type Set struct {
	words map[string]struct{}
}

// New creates a Set from the given tokens.
func New(tokens ...string) *Set {
	s := &Set{words: make(map[string]struct{}, len(tokens))}
	for _, t := range tokens {
		s.words[t] = struct{}{}
	}
	return s
}

// Load reads a stopword file (one token per line, '#' comments skipped).
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stopwords file %q: %w", path, err)
	}
	defer f.Close()

	set, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read stopwords file %q: %w", path, err)
	}
	slog.Debug("Stopwords loaded", "path", path, "count", set.Len())
	return set, nil
}

// Read parses stopwords from r.
func Read(r io.Reader) (*Set, error) {
	set := New()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		set.words[strings.TrimRight(line, "\r")] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// Contains reports whether token is a stopword. A nil Set contains nothing.
func (s *Set) Contains(token string) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[token]
	return ok
}

// Len returns the number of stopwords.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}
