package app

import (
	"sort"
	"strings"

	"github.com/chriscorrea/atol/internal/tficf"
)

// printKeywordReport prints the final vectors, the existing and newly found
// keywords per category and the statistics summary.
func (r *runner) printKeywordReport() {
	w := r.cfg.Settings.Weighting
	r.printf("\n\n==== Printing final weighted keyword list, pruned to top %d ====\n\n", w.MaxVectorSize)
	for _, c := range r.categories {
		r.printf("Category: %s, kw list: %s\n\n", c, r.vectors[c])
	}

	limit := r.cfg.Settings.Evaluation.NewKeywordLimit
	fresh := tficf.NewKeywords(r.vectors, r.corpus.keywords, r.categories, limit)
	r.printf("\n==== Printing original and new keyword lists ====\n")
	for _, c := range r.categories {
		r.printf("\n\nExisting keywords for category: %s = %s\n", c, list(r.corpus.keywords.Get(c)))
		r.printf("\nNew keywords for category: %s = %s\n", c, list(fresh[c]))
	}

	sum := r.statistics.Summary
	r.printf("\n==== Category statistics ====\n")
	r.printf("Documents used = %d, sparse = %d, unlabeled = %d\n", sum.Used, sum.Sparse, sum.Unlabeled)
	leaked := make([]string, 0, len(sum.Leaked))
	total := 0
	for c, n := range sum.Leaked {
		leaked = append(leaked, c)
		total += n
	}
	sort.Strings(leaked)
	r.printf("Documents in both train and test labels (excluded) = %d\n", total)
	for _, c := range leaked {
		r.printf("\t%s = %d\n", c, sum.Leaked[c])
	}
}

// list formats words as "[a, b, c]".
func list(words []string) string {
	return "[" + strings.Join(words, ", ") + "]"
}

// titleOf returns the document's title words, or "UNKNOWN".
func (r *runner) titleOf(doc string) string {
	if title, ok := r.corpus.titles.Title(doc); ok {
		return title
	}
	return "UNKNOWN"
}
