// Package classify scores documents against per-category keyword vectors.
//
// A category's raw score is the sum of weight*count over the vector words
// present in the document's profile. Raw scores are divided by their total to
// give a probability-like distribution; when the total is zero the scores
// are left as they are (all zero). No softmax is applied, so the result is a
// normalized heuristic, not a calibrated posterior.
package classify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/chriscorrea/atol/internal/labels"
	"github.com/chriscorrea/atol/internal/tficf"
	"github.com/chriscorrea/atol/internal/wordcount"
)

// CategoryScore is one category's entry in a prediction.
type CategoryScore struct {
	Category   string
	Raw        float64
	Normalized float64
}

// Prediction is a document's category distribution, sorted by descending
// normalized score.
type Prediction struct {
	Scores []CategoryScore
	Total  float64 // sum of raw scores
}

// Top returns the predicted category; false when no category was scored.
func (p Prediction) Top() (CategoryScore, bool) {
	if len(p.Scores) == 0 {
		return CategoryScore{}, false
	}
	return p.Scores[0], true
}

// String formats the distribution as "[(category, p), ...]".
func (p Prediction) String() string {
	parts := make([]string, len(p.Scores))
	for i, s := range p.Scores {
		parts[i] = fmt.Sprintf("(%s, %.4f)", s.Category, s.Normalized)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Classifier scores profiles against a fixed set of keyword vectors.
type Classifier struct {
	vectors    tficf.Vectors
	categories []string
}

// NewClassifier creates a Classifier over categories. Only categories that
// have an entry in vectors are scored; an entry may be an empty vector.
func NewClassifier(vectors tficf.Vectors, categories []string) *Classifier {
	return &Classifier{vectors: vectors, categories: categories}
}

// Score computes the prediction for profile. A nil profile scores zero on
// every category.
func (c *Classifier) Score(profile wordcount.Profile) Prediction {
	pred := Prediction{Scores: make([]CategoryScore, 0, len(c.categories))}
	for _, category := range c.categories {
		vec, ok := c.vectors[category]
		if !ok {
			continue
		}
		var raw float64
		for _, w := range vec {
			if count, ok := profile[w.Word]; ok {
				raw += w.Score * count
			}
		}
		pred.Scores = append(pred.Scores, CategoryScore{Category: category, Raw: raw, Normalized: raw})
		pred.Total += raw
	}

	if pred.Total > 0 {
		for i := range pred.Scores {
			pred.Scores[i].Normalized = pred.Scores[i].Raw / pred.Total
		}
	}

	sort.SliceStable(pred.Scores, func(i, j int) bool {
		return pred.Scores[i].Normalized > pred.Scores[j].Normalized
	})
	return pred
}

// Tally counts correct predictions.
type Tally struct {
	Correct int
	Total   int
}

// Percent returns the accuracy as a percentage, 0 when nothing was counted.
func (t Tally) Percent() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) * 100 / float64(t.Total)
}

// Counts reports whether a document with profile enters the accuracy
// denominator: it needs more than one word.
func Counts(profile wordcount.Profile) bool {
	return len(profile) > 1
}

// Correct reports whether pred's top category equals the first label. Only
// the first label is ground truth.
func Correct(pred Prediction, truth []string) bool {
	top, ok := pred.Top()
	return ok && len(truth) > 0 && top.Category == truth[0]
}

// Accuracy scores every document of truth, in label order, and tallies the
// ones that count. It stops with ctx.Err() once ctx is done.
func (c *Classifier) Accuracy(ctx context.Context, store *wordcount.Store, truth *labels.Index) (Tally, error) {
	var t Tally
	for _, doc := range truth.Keys() {
		if err := ctx.Err(); err != nil {
			return t, err
		}
		profile := store.Profile(doc)
		pred := c.Score(profile)
		if !Counts(profile) {
			continue
		}
		t.Total++
		if Correct(pred, truth.Get(doc)) {
			t.Correct++
		}
	}
	return t, nil
}
