// Package wordcount reads and writes per-document word-count files and holds
// the resulting corpus statistics in memory.
//
// A word-count file is named "<document_id>.<ext>" and carries one record per
// line: "word,count,page_count,ratio". The store keeps both the raw records
// (used by the category statistics builder) and an inference profile where
// each word's count is boosted by the number of pages it appears on.
package wordcount

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultPageMultiplier scales the page-count bonus of the inference profile.
const DefaultPageMultiplier = 1.0

// Record is one line of a word-count file.
type Record struct {
	Word  string
	Count float64
	Pages float64
	Ratio float64
}

// Profile maps a word to its inference count.
type Profile map[string]float64

// Document is the content of one word-count file.
type Document struct {
	ID      string
	Records []Record
}

// Store is an ordered document -> word -> count mapping.
type Store struct {
	pageMultiplier float64
	order          []string
	profiles       map[string]Profile
	records        map[string][]Record
}

// NewStore creates an empty store. Each record contributes
// count + pageMultiplier*sqrt(pages) to its word's inference count.
func NewStore(pageMultiplier float64) *Store {
	return &Store{
		pageMultiplier: pageMultiplier,
		profiles:       make(map[string]Profile),
		records:        make(map[string][]Record),
	}
}

// Add folds a document into the store. Adding the same document id twice
// accumulates counts additively.
func (s *Store) Add(doc Document) {
	profile, ok := s.profiles[doc.ID]
	if !ok {
		profile = make(Profile)
		s.profiles[doc.ID] = profile
		s.order = append(s.order, doc.ID)
	}
	for _, rec := range doc.Records {
		profile[rec.Word] += rec.Count + s.pageMultiplier*math.Sqrt(rec.Pages)
	}
	s.records[doc.ID] = append(s.records[doc.ID], doc.Records...)
}

// IDs returns document ids in the order they were first added.
func (s *Store) IDs() []string {
	return s.order
}

// Len returns the number of documents.
func (s *Store) Len() int {
	return len(s.order)
}

// Has reports whether the store holds doc.
func (s *Store) Has(doc string) bool {
	_, ok := s.profiles[doc]
	return ok
}

// Profile returns the inference profile of doc; nil when absent.
func (s *Store) Profile(doc string) Profile {
	return s.profiles[doc]
}

// Records returns the raw records of doc.
func (s *Store) Records(doc string) []Record {
	return s.records[doc]
}

// Size returns the number of distinct words in doc's profile.
func (s *Store) Size(doc string) int {
	return len(s.profiles[doc])
}

// Filter returns a new store holding only the documents for which keep
// returns true, in the original order.
func (s *Store) Filter(keep func(doc string) bool) *Store {
	out := NewStore(s.pageMultiplier)
	for _, id := range s.order {
		if !keep(id) {
			continue
		}
		out.order = append(out.order, id)
		out.profiles[id] = s.profiles[id]
		out.records[id] = s.records[id]
	}
	return out
}

// DocumentID derives the document id from a word-count file name: the base
// name up to the first '.'.
func DocumentID(path string) string {
	id, _, _ := strings.Cut(filepath.Base(path), ".")
	return id
}

// Read parses word-count records from r. Comment lines and lines with an
// empty field are skipped; a count that is not a number is an error.
func Read(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 3 || hasEmpty(fields) {
			continue
		}

		count, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid count %q: %w", lineNo, fields[1], err)
		}
		pages, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid page count %q: %w", lineNo, fields[2], err)
		}
		rec := Record{Word: fields[0], Count: count, Pages: pages}
		if len(fields) > 3 {
			// ratio is informational, a bad value is not worth failing over
			rec.Ratio, _ = strconv.ParseFloat(fields[3], 64)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadFile parses the word-count file at path.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open word-count file %q: %w", path, err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse word-count file %q: %w", path, err)
	}
	return Document{ID: DocumentID(path), Records: records}, nil
}

// Files lists the regular files of dir in name order.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read word-count directory %q: %w", dir, err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// LoadDir reads every word-count file of dir into a new store. progress, if
// non-nil, is called after each file. LoadDir stops with ctx.Err() once ctx
// is done.
func LoadDir(ctx context.Context, dir string, pageMultiplier float64, progress func(done, total int)) (*Store, error) {
	files, err := Files(dir)
	if err != nil {
		return nil, err
	}

	store := NewStore(pageMultiplier)
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		store.Add(doc)
		if progress != nil {
			progress(i+1, len(files))
		}
	}

	slog.Debug("Word-count directory loaded", "dir", dir, "files", len(files), "documents", store.Len())
	return store, nil
}

// WriteRecords writes records in word-count file format.
func WriteRecords(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		_, err := fmt.Fprintf(bw, "%s,%s,%s,%s\n",
			rec.Word,
			strconv.FormatFloat(rec.Count, 'f', -1, 64),
			strconv.FormatFloat(rec.Pages, 'f', -1, 64),
			strconv.FormatFloat(rec.Ratio, 'f', 6, 64))
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes records to a new word-count file at path, replacing any
// existing file.
func WriteFile(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create word-count file %q: %w", path, err)
	}
	if err := WriteRecords(f, records); err != nil {
		f.Close()
		return fmt.Errorf("failed to write word-count file %q: %w", path, err)
	}
	return f.Close()
}

func hasEmpty(fields []string) bool {
	for _, f := range fields {
		if f == "" {
			return true
		}
	}
	return false
}
