package labels

import (
	"io"
	"log/slog"
	"strings"
)

// ReadKeywords parses a seed keyword file: "category,keyword1,keyword2,...".
// Categories that do not occur in the train labels are skipped so that noise
// categories never reach the keyword vectors.
func ReadKeywords(r io.Reader, train *Index) (*Index, error) {
	known := make(map[string]struct{})
	for _, c := range train.Values() {
		known[c] = struct{}{}
	}

	ix := NewIndex()
	err := scanRecords(r, func(line string) {
		fields := strings.Split(line, ",")
		category := fields[0]
		if _, ok := known[category]; !ok {
			slog.Debug("Skipping keywords of category absent from train labels", "category", category)
			return
		}
		for _, kw := range fields[1:] {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			ix.Add(category, kw)
		}
	})
	return ix, err
}

// LoadKeywords reads the seed keyword file at path.
func LoadKeywords(path string, train *Index) (*Index, error) {
	return loadFile("keywords", path, func(r io.Reader) (*Index, error) {
		return ReadKeywords(r, train)
	})
}
