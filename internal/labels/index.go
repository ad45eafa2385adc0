// Package labels builds the per-document label, title and seed keyword
// indices from the line-oriented input files.
//
// Every builder shares the same record rules: lines starting with '#' are
// comments, malformed records are skipped rather than reported, and repeated
// keys append to the existing list instead of replacing it. Key order is the
// order in which keys first appear in the file.
package labels

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// maxLineBytes bounds a single input line; index files carry long titles.
const maxLineBytes = 1024 * 1024

// Index is an ordered mapping from a key (document or category) to a list
// of associated strings (categories, title tokens or keywords).
type Index struct {
	order   []string
	entries map[string][]string
	members map[string]map[string]struct{}
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{
		entries: make(map[string][]string),
		members: make(map[string]map[string]struct{}),
	}
}

// Add appends values to the list stored under key.
func (ix *Index) Add(key string, values ...string) {
	if _, ok := ix.entries[key]; !ok {
		ix.order = append(ix.order, key)
		ix.members[key] = make(map[string]struct{})
	}
	ix.entries[key] = append(ix.entries[key], values...)
	for _, v := range values {
		ix.members[key][v] = struct{}{}
	}
}

// Get returns the list stored under key, nil when absent.
func (ix *Index) Get(key string) []string {
	if ix == nil {
		return nil
	}
	return ix.entries[key]
}

// Has reports whether key is present.
func (ix *Index) Has(key string) bool {
	if ix == nil {
		return false
	}
	_, ok := ix.entries[key]
	return ok
}

// Contains reports whether value is in the list stored under key.
func (ix *Index) Contains(key, value string) bool {
	if ix == nil {
		return false
	}
	_, ok := ix.members[key][value]
	return ok
}

// Keys returns the keys in first-seen order.
func (ix *Index) Keys() []string {
	if ix == nil {
		return nil
	}
	return ix.order
}

// Len returns the number of keys.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.order)
}

// Values returns the unique values across all keys, sorted.
func (ix *Index) Values() []string {
	if ix == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, set := range ix.members {
		for v := range set {
			seen[v] = struct{}{}
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// scanRecords calls fn for every non-comment line of r with the line ending
// trimmed.
func scanRecords(r io.Reader, fn func(line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		fn(strings.TrimRight(line, "\r\n"))
	}
	return scanner.Err()
}

// loadFile opens path and hands it to read, wrapping errors with the file
// role for the diagnostic.
func loadFile(role, path string, read func(io.Reader) (*Index, error)) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %q: %w", role, path, err)
	}
	defer f.Close()

	ix, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file %q: %w", role, path, err)
	}
	return ix, nil
}
