// Package wordgroup turns page text into word-count records: how often each
// word occurs and on how many pages of the text it appears.
//
// The text is cut into fixed-size pages by package chunk, each page is
// tokenized, and tokens are lowercased, filtered and optionally stemmed.
// Records come out sorted by count, most frequent first.
package wordgroup

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
	"github.com/kljensen/snowball"

	"github.com/chriscorrea/atol/internal/chunk"
	"github.com/chriscorrea/atol/internal/counter"
	"github.com/chriscorrea/atol/internal/wordcount"
)

// ErrUnknownTokenizer is returned by ParseTokenizer for an unsupported name.
var ErrUnknownTokenizer = errors.New("unknown tokenizer")

// Tokenizer selects how page text is split into tokens.
type Tokenizer int

const (
	// Simple takes runs of letters and digits that start with a letter
	Simple Tokenizer = iota
	// Prose uses the prose tokenizer, which handles contractions and
	// punctuation inside words
	Prose
)

// String returns the string representation of the tokenizer.
func (t Tokenizer) String() string {
	switch t {
	case Simple:
		return "simple"
	case Prose:
		return "prose"
	default:
		return "unknown"
	}
}

// ParseTokenizer maps a configuration value to its Tokenizer.
func ParseTokenizer(s string) (Tokenizer, error) {
	for _, t := range []Tokenizer{Simple, Prose} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w %q: want simple or prose", ErrUnknownTokenizer, s)
}

// minTokenLength is the shortest token, in runes, that is counted.
const minTokenLength = 2

// Options configure a Grouper.
type Options struct {
	PageSize  int             // page size in Counter units
	Counter   counter.Counter // nil counts words
	Tokenizer Tokenizer
	Stem      bool // English snowball stemming
}

// Grouper computes word groups. It is safe for concurrent use.
type Grouper struct {
	opts       Options
	tokenRegex *regexp.Regexp
}

// New creates a Grouper.
func New(opts Options) (*Grouper, error) {
	if opts.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", opts.PageSize)
	}
	if opts.Counter == nil {
		opts.Counter = counter.NewWordCounter()
	}
	if opts.Tokenizer != Simple && opts.Tokenizer != Prose {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTokenizer, opts.Tokenizer)
	}
	return &Grouper{
		opts:       opts,
		tokenRegex: regexp.MustCompile(`\p{L}[\p{L}\p{N}]*`),
	}, nil
}

// Tokens returns the normalized tokens of text, in order.
func (g *Grouper) Tokens(text string) ([]string, error) {
	var raw []string
	switch g.opts.Tokenizer {
	case Prose:
		doc, err := prose.NewDocument(text,
			prose.WithTagging(false),
			prose.WithSegmentation(false),
			prose.WithExtraction(false))
		if err != nil {
			return nil, fmt.Errorf("failed to tokenize text: %w", err)
		}
		for _, tok := range doc.Tokens() {
			raw = append(raw, tok.Text)
		}
	default:
		raw = g.tokenRegex.FindAllString(text, -1)
	}

	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = g.normalize(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens, nil
}

// normalize lowercases a token and stems it if enabled. Tokens that do not
// start with a letter, are too short or contain the record separator come
// back empty.
func (g *Grouper) normalize(token string) string {
	first, _ := utf8.DecodeRuneInString(token)
	if !unicode.IsLetter(first) || strings.ContainsRune(token, ',') {
		return ""
	}
	token = strings.ToLower(token)
	if utf8.RuneCountInString(token) < minTokenLength {
		return ""
	}
	if g.opts.Stem {
		if stemmed, err := snowball.Stem(token, "english", true); err == nil && stemmed != "" {
			token = stemmed
		}
	}
	return token
}

// Group computes the word-count records of text. Empty text yields no
// records.
func (g *Grouper) Group(text string) ([]wordcount.Record, error) {
	counts := make(map[string]float64)
	pages := make(map[string]float64)
	total := 0

	for _, page := range chunk.SplitPages(text, g.opts.PageSize, g.opts.Counter) {
		tokens, err := g.Tokens(page)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			counts[t]++
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				pages[t]++
			}
		}
		total += len(tokens)
	}

	records := make([]wordcount.Record, 0, len(counts))
	for w, c := range counts {
		records = append(records, wordcount.Record{
			Word:  w,
			Count: c,
			Pages: pages[w],
			Ratio: c / float64(total),
		})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Count != records[j].Count {
			return records[i].Count > records[j].Count
		}
		return records[i].Word < records[j].Word
	})
	return records, nil
}
