// Package stats folds word counts, labels, titles and seed keywords into the
// weighted category statistics the TF-ICF engine reads.
//
// Two dual mappings are maintained: category -> word -> weight and its
// transpose word -> category -> weight. Every write goes to both, so they
// stay numerically consistent.
//
// Per labeled document with categories C (|C| = N):
//
//	contribution(c, w) = raw(w)/N * [kw multiplier if w seeds c] * [rater multiplier if rater labels]
//	title(c, t)        = title multiplier, for every title token t
package stats

import (
	"context"
	"log/slog"

	"github.com/chriscorrea/atol/internal/labels"
	"github.com/chriscorrea/atol/internal/stopwords"
	"github.com/chriscorrea/atol/internal/wordcount"
)

// Params are the weighting constants used by the builder.
type Params struct {
	KeywordMultiplier float64
	RatersMultiplier  float64
	TitleMultiplier   float64
	MinDocSize        int
}

// Summary counts how documents were treated while folding.
type Summary struct {
	Used      int            // documents that contributed to the statistics
	Sparse    int            // labeled documents below the minimum size
	Unlabeled int            // documents with no train or legacy labels
	Leaked    map[string]int // documents in both train and test, by first train category
}

// Statistics holds the two dual aggregate mappings.
type Statistics struct {
	ByCategory *Matrix // category -> word -> weight
	ByWord     *Matrix // word -> category -> weight
	Summary    Summary
}

// New creates empty statistics.
func New() *Statistics {
	return &Statistics{
		ByCategory: NewMatrix(),
		ByWord:     NewMatrix(),
		Summary:    Summary{Leaked: make(map[string]int)},
	}
}

func (s *Statistics) add(category, word string, v float64) {
	s.ByCategory.Add(category, word, v)
	s.ByWord.Add(word, category, v)
}

// Merge folds other into s. Workers that each build partial statistics over
// a disjoint slice of documents can be combined this way.
func (s *Statistics) Merge(other *Statistics) {
	s.ByCategory.merge(other.ByCategory)
	s.ByWord.merge(other.ByWord)
	s.Summary.Used += other.Summary.Used
	s.Summary.Sparse += other.Summary.Sparse
	s.Summary.Unlabeled += other.Summary.Unlabeled
	for c, n := range other.Summary.Leaked {
		s.Summary.Leaked[c] += n
	}
}

// Document is one step of the fold: a document's raw records and the size of
// its inference profile.
type Document struct {
	ID      string
	Records []wordcount.Record
	Size    int // distinct words in the raw profile
}

// Builder holds the read-only inputs of the fold.
type Builder struct {
	params   Params
	labels   *labels.Set
	keywords *labels.Index
	titles   labels.Titles
	stop     *stopwords.Set
}

// NewBuilder creates a Builder.
func NewBuilder(params Params, set *labels.Set, keywords *labels.Index, titles labels.Titles, stop *stopwords.Set) *Builder {
	return &Builder{
		params:   params,
		labels:   set,
		keywords: keywords,
		titles:   titles,
		stop:     stop,
	}
}

// Add folds doc into acc and returns acc.
func (b *Builder) Add(acc *Statistics, doc Document) *Statistics {
	res := b.labels.Resolve(doc.ID)
	if res.Leaked {
		acc.Summary.Leaked[res.Categories[0]]++
		slog.Debug("Document in both train and test labels excluded", "document", doc.ID)
		return acc
	}
	if len(res.Categories) == 0 {
		acc.Summary.Unlabeled++
		return acc
	}
	if doc.Size < b.params.MinDocSize {
		acc.Summary.Sparse++
		return acc
	}

	share := 1.0 / float64(len(res.Categories))
	for _, rec := range doc.Records {
		if b.stop.Contains(rec.Word) {
			continue
		}
		base := rec.Count * share
		for _, c := range res.Categories {
			v := base
			if b.keywords.Contains(c, rec.Word) {
				v *= b.params.KeywordMultiplier
			}
			if res.RaterDerived() {
				v *= b.params.RatersMultiplier
			}
			acc.add(c, rec.Word, v)
		}
	}

	for _, token := range b.titles.Get(doc.ID) {
		for _, c := range res.Categories {
			acc.add(c, token, b.params.TitleMultiplier)
		}
	}

	acc.Summary.Used++
	return acc
}

// Build folds every document of store, in store order, into new statistics.
// It stops with ctx.Err() once ctx is done.
func (b *Builder) Build(ctx context.Context, store *wordcount.Store) (*Statistics, error) {
	acc := New()
	for _, id := range store.IDs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		acc = b.Add(acc, Document{
			ID:      id,
			Records: store.Records(id),
			Size:    store.Size(id),
		})
	}
	slog.Debug("Category statistics built",
		"categories", acc.ByCategory.Len(),
		"words", acc.ByWord.Len(),
		"used", acc.Summary.Used,
		"sparse", acc.Summary.Sparse)
	return acc, nil
}
