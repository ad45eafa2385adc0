// Package tficf turns category statistics into ranked keyword vectors using
// term frequency × inverse class frequency.
//
// TF-ICF is TF-IDF with categories in place of documents:
//   - Term Frequency (TF): the aggregate weight of a word within a category
//   - Inverse Class Frequency (ICF): how few categories the word appears in
//
// Usage Example:
//
//	vectors := tficf.Compute(statistics, categories, tficf.DefaultParams())
//	for _, w := range vectors["Weapons"] {
//		fmt.Println(w.Word, w.Score)
//	}
//
// A parallel baseline weighting assigns every seed keyword a uniform weight of
// 1.0 and serves as the control in accuracy reports.
package tficf

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/chriscorrea/atol/internal/labels"
	"github.com/chriscorrea/atol/internal/stats"
)

// Params controls ICF smoothing and vector pruning.
type Params struct {
	Epsilon          float64 // added to both sides of the ICF ratio
	MinKeywordLength int     // words with this many runes or fewer are pruned
	MaxVectorSize    int
}

// DefaultParams returns the built-in weighting parameters.
func DefaultParams() Params {
	return Params{
		Epsilon:          0.0000000001,
		MinKeywordLength: 3,
		MaxVectorSize:    50,
	}
}

// Weight is one entry of a keyword vector.
type Weight struct {
	Word  string
	Score float64
}

// Vector is a category's keyword list ordered by descending score.
type Vector []Weight

// Words returns the vector's words in order.
func (v Vector) Words() []string {
	words := make([]string, len(v))
	for i, w := range v {
		words[i] = w.Word
	}
	return words
}

// String formats the vector as "[(word, score), ...]".
func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, w := range v {
		parts[i] = fmt.Sprintf("(%s, %.4f)", w.Word, w.Score)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Vectors maps a category to its keyword vector.
type Vectors map[string]Vector

// Compute derives a keyword vector for every category in categories.
//
// For each word w, icf(w) = (C + ε) / (C_w + ε) where C is the number of
// categories with statistics and C_w the number of categories containing w.
// A category's entry for w scores sqrt(tf * icf). Entries are stably sorted
// by descending score, so equal scores keep statistics insertion order.
// A category without statistics gets an empty vector.
func Compute(s *stats.Statistics, categories []string, p Params) Vectors {
	total := float64(s.ByCategory.Len())
	icf := make(map[string]float64, s.ByWord.Len())
	for _, w := range s.ByWord.Keys() {
		icf[w] = (total + p.Epsilon) / (float64(s.ByWord.Row(w).Len()) + p.Epsilon)
	}

	vectors := make(Vectors, len(categories))
	for _, c := range categories {
		row := s.ByCategory.Row(c)
		scored := make(Vector, 0, row.Len())
		for _, w := range row.Keys() {
			scored = append(scored, Weight{Word: w, Score: math.Sqrt(row.Get(w) * icf[w])})
		}
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})

		vec := make(Vector, 0, min(len(scored), p.MaxVectorSize))
		for _, w := range scored {
			if len(vec) == p.MaxVectorSize {
				break
			}
			if utf8.RuneCountInString(w.Word) <= p.MinKeywordLength {
				continue
			}
			vec = append(vec, w)
		}
		vectors[c] = vec
	}

	slog.Debug("TF-ICF vectors computed", "categories", len(vectors), "words", len(icf))
	return vectors
}

// Baseline builds the control vectors: each category's seed keywords, in file
// order, with a weight of 1.0.
func Baseline(keywords *labels.Index) Vectors {
	vectors := make(Vectors, keywords.Len())
	for _, c := range keywords.Keys() {
		seeds := keywords.Get(c)
		vec := make(Vector, len(seeds))
		for i, w := range seeds {
			vec[i] = Weight{Word: w, Score: 1.0}
		}
		vectors[c] = vec
	}
	return vectors
}

// NewKeywords lists, per category, the vector words that are not a seed
// keyword of any of the given categories, in vector order and capped at limit.
func NewKeywords(vectors Vectors, keywords *labels.Index, categories []string, limit int) map[string][]string {
	seeds := make(map[string]struct{})
	for _, c := range categories {
		for _, w := range keywords.Get(c) {
			seeds[w] = struct{}{}
		}
	}

	found := make(map[string][]string, len(categories))
	for _, c := range categories {
		var fresh []string
		for _, w := range vectors[c] {
			if len(fresh) == limit {
				break
			}
			if _, ok := seeds[w.Word]; ok {
				continue
			}
			fresh = append(fresh, w.Word)
		}
		found[c] = fresh
	}
	return found
}
