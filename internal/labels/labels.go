package labels

import (
	"io"
	"log/slog"
	"strings"
)

// ReadLabels parses a train or test label file: "document_id,category".
// Only the first two fields are read; categories of length <= 1 are skipped.
func ReadLabels(r io.Reader) (*Index, error) {
	ix := NewIndex()
	err := scanRecords(r, func(line string) {
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			return
		}
		doc, category := fields[0], fields[1]
		if len(category) <= 1 {
			slog.Debug("Skipping label with empty category", "document", doc)
			return
		}
		ix.Add(doc, category)
	})
	return ix, err
}

// LoadLabels reads the label file at path.
func LoadLabels(path string) (*Index, error) {
	return loadFile("label", path, ReadLabels)
}

// ReadLegacyCategories parses the categories column (field 11) of an index
// file: "id,port,title,links,language,first,last,status,check,cp,categories".
func ReadLegacyCategories(r io.Reader) (*Index, error) {
	ix := NewIndex()
	err := scanRecords(r, func(line string) {
		fields := strings.Split(line, ",")
		if len(fields) < 11 {
			return
		}
		addAnnotatedCategories(ix, fields[0], fields[10])
	})
	return ix, err
}

// LoadLegacyCategories reads the legacy categories of the index file at path.
func LoadLegacyCategories(path string) (*Index, error) {
	return loadFile("index", path, ReadLegacyCategories)
}

// ReadBaseline parses a baseline label file:
// "document_id.suffix; category1[...];category2[...]".
func ReadBaseline(r io.Reader) (*Index, error) {
	ix := NewIndex()
	err := scanRecords(r, func(line string) {
		fields := strings.Split(line, "; ")
		if len(fields) < 2 {
			return
		}
		doc, _, _ := strings.Cut(fields[0], ".")
		addAnnotatedCategories(ix, doc, fields[1])
	})
	return ix, err
}

// LoadBaseline reads the baseline label file at path.
func LoadBaseline(path string) (*Index, error) {
	return loadFile("baseline", path, ReadBaseline)
}

// addAnnotatedCategories splits a ';'-separated list of "category[...]"
// entries and adds the bare category names under doc.
func addAnnotatedCategories(ix *Index, doc, field string) {
	if len(field) <= 1 {
		return
	}
	for _, entry := range strings.Split(field, ";") {
		category, _, _ := strings.Cut(entry, "[")
		category = strings.TrimSpace(category)
		if len(category) > 1 {
			ix.Add(doc, category)
		}
	}
}
