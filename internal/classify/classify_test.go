package classify_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/chriscorrea/atol/internal/classify"
	"github.com/chriscorrea/atol/internal/labels"
	"github.com/chriscorrea/atol/internal/tficf"
	"github.com/chriscorrea/atol/internal/wordcount"
)

var vectors = tficf.Vectors{
	"A": {{Word: "bomb", Score: 2.0}},
	"B": {{Word: "gun", Score: 3.0}},
}

func TestScore(t *testing.T) {
	c := classify.NewClassifier(vectors, []string{"A", "B"})

	pred := c.Score(wordcount.Profile{"bomb": 10})

	top, ok := pred.Top()
	if !ok || top.Category != "A" {
		t.Fatalf("Top() = %+v, %v; want A", top, ok)
	}
	want := []classify.CategoryScore{
		{Category: "A", Raw: 20, Normalized: 1},
		{Category: "B", Raw: 0, Normalized: 0},
	}
	for i, w := range want {
		if pred.Scores[i] != w {
			t.Errorf("Scores[%d] = %+v, want %+v", i, pred.Scores[i], w)
		}
	}
}

func TestScoreDistribution(t *testing.T) {
	c := classify.NewClassifier(tficf.Vectors{
		"A": {{Word: "bomb", Score: 1.5}, {Word: "powder", Score: 0.5}},
		"B": {{Word: "gun", Score: 3.0}, {Word: "powder", Score: 1.0}},
		"C": {{Word: "pills", Score: 0.7}},
	}, []string{"A", "B", "C"})

	tests := []struct {
		name    string
		profile wordcount.Profile
		top     string
	}{
		{"single category", wordcount.Profile{"pills": 4}, "C"},
		{"mixed", wordcount.Profile{"bomb": 2, "gun": 1, "powder": 3, "pills": 1}, "B"},
		{"shared word", wordcount.Profile{"powder": 1}, "B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := c.Score(tt.profile)
			var sum float64
			for i, s := range pred.Scores {
				if s.Normalized < 0 || s.Raw < 0 {
					t.Errorf("negative score %+v", s)
				}
				if i > 0 && pred.Scores[i-1].Normalized < s.Normalized {
					t.Errorf("scores not sorted at %d", i)
				}
				sum += s.Normalized
			}
			if math.Abs(sum-1) > 1e-9 {
				t.Errorf("normalized scores sum to %v, want 1", sum)
			}
			if top, _ := pred.Top(); top.Category != tt.top {
				t.Errorf("Top() = %s, want %s", top.Category, tt.top)
			}
		})
	}
}

func TestScoreZeroOverlap(t *testing.T) {
	c := classify.NewClassifier(vectors, []string{"A", "B"})

	for _, profile := range []wordcount.Profile{{"unrelated": 7}, nil} {
		pred := c.Score(profile)
		if len(pred.Scores) != 2 {
			t.Fatalf("zero-overlap document should still list every category, got %v", pred.Scores)
		}
		for _, s := range pred.Scores {
			if s.Raw != 0 || s.Normalized != 0 {
				t.Errorf("score %+v, want exactly 0", s)
			}
		}
		// ties keep category order
		if top, _ := pred.Top(); top.Category != "A" {
			t.Errorf("Top() = %s, want A", top.Category)
		}
	}
}

func TestScoreOnlyVectorCategories(t *testing.T) {
	c := classify.NewClassifier(tficf.Vectors{"A": vectors["A"], "Empty": {}}, []string{"A", "Empty", "Missing"})

	pred := c.Score(wordcount.Profile{"bomb": 1})
	if len(pred.Scores) != 2 {
		t.Fatalf("Scores = %v, want A and Empty only", pred.Scores)
	}
	for _, s := range pred.Scores {
		if s.Category == "Missing" {
			t.Error("category without a vector entry must not be scored")
		}
	}
	if _, ok := classify.NewClassifier(vectors, nil).Score(nil).Top(); ok {
		t.Error("Top() of an empty prediction should report false")
	}
}

func TestPredictionString(t *testing.T) {
	pred := classify.NewClassifier(vectors, []string{"A", "B"}).Score(wordcount.Profile{"bomb": 1, "gun": 2})
	if got := pred.String(); got != "[(B, 0.7500), (A, 0.2500)]" {
		t.Errorf("String() = %q", got)
	}
}

func TestAccuracy(t *testing.T) {
	store := wordcount.NewStore(0)
	store.Add(wordcount.Document{ID: "d1", Records: []wordcount.Record{{Word: "bomb", Count: 3}, {Word: "misc", Count: 1}}})
	store.Add(wordcount.Document{ID: "d2", Records: []wordcount.Record{{Word: "gun", Count: 3}, {Word: "misc", Count: 1}}})
	store.Add(wordcount.Document{ID: "tiny", Records: []wordcount.Record{{Word: "gun", Count: 3}}})

	c := classify.NewClassifier(vectors, []string{"A", "B"})

	tests := []struct {
		name    string
		labels  map[string][]string
		want    classify.Tally
		percent float64
	}{
		{
			name:    "all correct",
			labels:  map[string][]string{"d1": {"A"}, "d2": {"B", "A"}},
			want:    classify.Tally{Correct: 2, Total: 2},
			percent: 100,
		},
		{
			name:    "none correct, only first label is truth",
			labels:  map[string][]string{"d1": {"B", "A"}, "d2": {"A"}},
			want:    classify.Tally{Correct: 0, Total: 2},
			percent: 0,
		},
		{
			name:    "single-word and missing profiles are not counted",
			labels:  map[string][]string{"d1": {"A"}, "tiny": {"B"}, "absent": {"A"}},
			want:    classify.Tally{Correct: 1, Total: 1},
			percent: 100,
		},
		{
			name:    "nothing counted",
			labels:  map[string][]string{"tiny": {"B"}},
			want:    classify.Tally{},
			percent: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			truth := labels.NewIndex()
			for _, doc := range []string{"d1", "d2", "tiny", "absent"} {
				if cats, ok := tt.labels[doc]; ok {
					truth.Add(doc, cats...)
				}
			}
			got, err := c.Accuracy(context.Background(), store, truth)
			if err != nil {
				t.Fatalf("Accuracy() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Accuracy() = %+v, want %+v", got, tt.want)
			}
			if got.Percent() != tt.percent {
				t.Errorf("Percent() = %v, want %v", got.Percent(), tt.percent)
			}
		})
	}
}

func TestAccuracyCanceled(t *testing.T) {
	truth := labels.NewIndex()
	truth.Add("d1", "A")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := classify.NewClassifier(vectors, []string{"A"}).Accuracy(ctx, wordcount.NewStore(1), truth)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Accuracy() error = %v, want context.Canceled", err)
	}
}
