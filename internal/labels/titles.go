package labels

import (
	"io"
	"strings"

	"github.com/chriscorrea/atol/internal/stopwords"
)

// Titles maps a document to its title tokens, stopwords removed.
type Titles struct {
	*Index
}

// Title returns the document's title tokens joined by single spaces; this
// string is the dedup equivalence key.
func (t Titles) Title(doc string) (string, bool) {
	tokens := t.Get(doc)
	if tokens == nil {
		return "", false
	}
	return strings.Join(tokens, " "), true
}

// ReadTitles parses the title column (field 3) of an index file. Titles of
// length <= 1 are skipped, as are stopword tokens and tokens of length <= 1.
// Documents left with no tokens are absent from the result.
func ReadTitles(r io.Reader, stop *stopwords.Set) (Titles, error) {
	ix := NewIndex()
	err := scanRecords(r, func(line string) {
		fields := strings.Split(line, ",")
		if len(fields) < 3 {
			return
		}
		doc, title := fields[0], fields[2]
		if len(title) <= 1 {
			return
		}
		for _, word := range strings.Split(title, " ") {
			if stop.Contains(word) || len(word) <= 1 {
				continue
			}
			ix.Add(doc, word)
		}
	})
	return Titles{Index: ix}, err
}

// LoadTitles reads the titles of the index file at path.
func LoadTitles(path string, stop *stopwords.Set) (Titles, error) {
	ix, err := loadFile("index", path, func(r io.Reader) (*Index, error) {
		t, err := ReadTitles(r, stop)
		return t.Index, err
	})
	return Titles{Index: ix}, err
}
