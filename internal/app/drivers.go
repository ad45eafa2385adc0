package app

import (
	"context"
	"time"

	"github.com/chriscorrea/atol/internal/classify"
	"github.com/chriscorrea/atol/internal/metrics"
	"github.com/chriscorrea/atol/internal/tficf"
)

// runAccuracy scores the test set with the baseline seed keywords and then
// with the TF-ICF vectors.
func (r *runner) runAccuracy(ctx context.Context) error {
	r.printf("\n\n==== Running PHASE 2 (Accuracy) ====\n")

	runs := []struct {
		name, heading string
		classifier    *classify.Classifier
	}{
		{
			name:       metrics.KeywordsBaseline,
			heading:    "baseline keyword list",
			classifier: classify.NewClassifier(tficf.Baseline(r.corpus.keywords), r.statistics.ByCategory.SortedKeys()),
		},
		{
			name:       metrics.KeywordsLearned,
			heading:    "ATOL keyword list",
			classifier: classify.NewClassifier(r.vectors, r.categories),
		},
	}

	for _, run := range runs {
		r.printf("\n\n==== PHASE 2: Probability estimates using %s ====\n", run.heading)
		t0 := time.Now()
		tally, err := run.classifier.Accuracy(ctx, r.corpus.store, r.corpus.labels.Test)
		if err != nil {
			return err
		}
		if tally.Total == 0 {
			r.warn("no %s test document has more than one word, accuracy is reported as 0", run.name)
		}
		r.printf("%s: Accuracy (percentage) = %.2f\tCorrect_Count = %d, Total_Count = %d\n",
			run.name, tally.Percent(), tally.Correct, tally.Total)
		r.metrics.Accuracy.WithLabelValues(run.name).Set(tally.Percent())
		r.printf("\n %s running time: %0.3fs.\n", run.name, r.stage("accuracy_"+run.name, t0))
	}
	return nil
}

// runFiltering scores, for each filtering target, the legacy-index documents
// carrying that target and reports confidence buckets of the correct
// predictions.
func (r *runner) runFiltering(ctx context.Context) error {
	r.printf("\n\n==== Running PHASE 3 (Filtering) ====\n")
	c := classify.NewClassifier(r.vectors, r.categories)
	legacy := r.corpus.labels.Legacy
	eval := r.cfg.Settings.Evaluation

	for _, target := range eval.FilteringTargets {
		r.printf("\n\n==== PHASE 3: Results on data subset labeled as %s by baseline algorithm ====\n", target)

		var tally classify.Tally
		var correctProbs []float64
		listed := make(map[float64][]string, len(eval.ListThresholds))
		for _, doc := range legacy.Keys() {
			if err := ctx.Err(); err != nil {
				return err
			}
			truth := legacy.Get(doc)
			if !legacy.Contains(doc, target) {
				continue
			}
			r.printf("\nonion = %s, label = %s, title words = %s\n", doc, list(truth), r.titleOf(doc))

			profile := r.corpus.store.Profile(doc)
			pred := c.Score(profile)
			r.printf("\tProbs = %s\n", pred)
			if classify.Counts(profile) {
				tally.Total++
				if classify.Correct(pred, truth) {
					tally.Correct++
					top, _ := pred.Top()
					correctProbs = append(correctProbs, top.Normalized)
					for _, th := range eval.ListThresholds {
						if top.Normalized > th {
							listed[th] = append(listed[th], doc)
						}
					}
				}
			}
			r.printf("\tCorrect_Count = %d, Total_Count = %d\n", tally.Correct, tally.Total)
		}

		r.printf("\nTotal found = %d\n", tally.Total)
		r.printf("Number of predictions: \n")
		for _, b := range eval.ConfidenceBuckets {
			r.printf("\t > %g = %d\n", b, above(correctProbs, b))
		}
		for _, th := range eval.ListThresholds {
			r.printf("\n==== List for > %g, size = %d\n", th, len(listed[th]))
			for _, doc := range listed[th] {
				r.printf("\nonion = %s, title words = %s\n", doc, r.titleOf(doc))
			}
		}
	}
	return nil
}

// runDiscovery scores every document of the store and lists the ones whose
// top category is the discovery target with threshold < p < 1 that the
// baseline heuristic did not label with the target.
func (r *runner) runDiscovery(ctx context.Context) error {
	eval := r.cfg.Settings.Evaluation
	target, threshold := eval.DiscoveryTarget, eval.DiscoveryThreshold
	r.printf("\n\n==== Running PHASE 4 (Discovery) ====\n")
	r.printf("\n\n==== PHASE 4: From full data we find onions where %s has high probability ====\n", target)

	c := classify.NewClassifier(r.vectors, r.categories)
	baseline := r.corpus.labels.Baseline
	all, found, novel := 0, 0, 0
	for _, doc := range r.corpus.store.IDs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		all++
		pred := c.Score(r.corpus.store.Profile(doc))
		top, ok := pred.Top()
		if !ok || top.Category != target || top.Normalized <= threshold || top.Normalized >= 1.0 {
			continue
		}
		found++
		if baseline.Contains(doc, target) {
			continue
		}
		novel++
		r.printf("\nonion = %s, title words = %s\n", doc, r.titleOf(doc))
		r.printf("\tProbs = %s\n", pred)
		if baseline.Has(doc) {
			r.printf("\tBaseline labels = %s\n", list(baseline.Get(doc)))
		}
	}

	r.printf("NumAllOnions = %d\n", all)
	r.printf("NumTargetOnions = %d\n", found)
	r.printf("NumDiffOnions = %d, at threshold= %g\n", novel, threshold)
	r.metrics.Discovered.WithLabelValues(target, "target").Set(float64(found))
	r.metrics.Discovered.WithLabelValues(target, "novel").Set(float64(novel))
	return nil
}

// runPractical prints the category distribution of every practical document.
func (r *runner) runPractical(ctx context.Context) error {
	r.printf("\n\n==== Running PHASE 5 (Practical) ====\n")
	r.printf("\n\n==== PHASE 5: Categorizing from new onion website ====\n")

	c := classify.NewClassifier(r.vectors, r.categories)
	practical := r.corpus.practical
	for _, doc := range practical.IDs() {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.printf("onion = %s\n", doc)
		r.printf("Probs = %s\n", c.Score(practical.Profile(doc)))
	}
	return nil
}

func above(probs []float64, threshold float64) int {
	n := 0
	for _, p := range probs {
		if p > threshold {
			n++
		}
	}
	return n
}
