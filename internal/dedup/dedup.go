// Package dedup collapses documents that share an identical title.
//
// The train and test passes use different rules. Train keeps
// the richest document of each title group; test keeps the first document
// per title in test-label order.
package dedup

import (
	"log/slog"

	"github.com/chriscorrea/atol/internal/labels"
	"github.com/chriscorrea/atol/internal/wordcount"
)

// Train returns a copy of store holding one representative per title: the
// member with strictly the most distinct words, the first member in title
// order winning ties. A group whose members all have empty profiles keeps
// no document. Documents without a title are dropped.
func Train(store *wordcount.Store, titles labels.Titles) *wordcount.Store {
	groups := make(map[string][]string)
	var order []string
	for _, doc := range titles.Keys() {
		title, _ := titles.Title(doc)
		if _, ok := groups[title]; !ok {
			order = append(order, title)
		}
		groups[title] = append(groups[title], doc)
	}

	selected := make(map[string]struct{}, len(order))
	for _, title := range order {
		best, most := "", 0
		for _, doc := range groups[title] {
			if size := store.Size(doc); size > most {
				best, most = doc, size
			}
		}
		if most > 0 {
			selected[best] = struct{}{}
		}
	}

	out := store.Filter(func(doc string) bool {
		_, ok := selected[doc]
		return ok
	})
	slog.Debug("Train documents deduplicated", "before", store.Len(), "after", out.Len(), "titles", len(order))
	return out
}

// Test returns a copy of test keeping, for every title, only the first
// document in test-label order. Documents without a title are kept.
func Test(test *labels.Index, titles labels.Titles) *labels.Index {
	seen := make(map[string]struct{})
	out := labels.NewIndex()
	for _, doc := range test.Keys() {
		if title, ok := titles.Title(doc); ok {
			if _, dup := seen[title]; dup {
				continue
			}
			seen[title] = struct{}{}
		}
		out.Add(doc, test.Get(doc)...)
	}
	slog.Debug("Test documents deduplicated", "before", test.Len(), "after", out.Len())
	return out
}
