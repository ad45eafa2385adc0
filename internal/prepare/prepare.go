// Package prepare converts a directory of raw labeled documents into the
// classifier's inputs: a title index, train and test label files and one
// word-count file per document.
//
// The data directory holds "tr_<category>" and "te_<category>"
// subdirectories with one plain-text document per file; the first line of a
// document is its title. Hidden files are skipped.
package prepare

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chriscorrea/atol/internal/wordcount"
	"github.com/chriscorrea/atol/internal/wordgroup"
)

// Output file names written to the parameters directory.
const (
	TitleFile = "title.txt"
	TrainFile = "train.txt"
	TestFile  = "test.txt"
)

const (
	trainPrefix = "tr_"
	testPrefix  = "te_"
)

// Options locate the input and output directories.
type Options struct {
	DataDir      string
	ParamsDir    string
	WordGroupDir string
	Grouper      *wordgroup.Grouper
}

// Summary counts the prepared documents.
type Summary struct {
	Categories int
	Train      int
	Test       int
}

// outputs are the three label-side files being written.
type outputs struct {
	titles, train, test *bufio.Writer
}

// Run prepares every train category of opts.DataDir and its matching test
// directory, if any. Output files are overwritten.
func Run(ctx context.Context, opts Options) (Summary, error) {
	categories, err := trainCategories(opts.DataDir)
	if err != nil {
		return Summary{}, err
	}
	for _, dir := range []string{opts.ParamsDir, opts.WordGroupDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Summary{}, fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
	}

	var out outputs
	var files []*os.File
	for _, f := range []struct {
		name string
		w    **bufio.Writer
	}{
		{TitleFile, &out.titles},
		{TrainFile, &out.train},
		{TestFile, &out.test},
	} {
		path := filepath.Join(opts.ParamsDir, f.name)
		file, err := os.Create(path)
		if err != nil {
			closeAll(files)
			return Summary{}, fmt.Errorf("failed to create %q: %w", path, err)
		}
		files = append(files, file)
		*f.w = bufio.NewWriter(file)
	}
	defer closeAll(files)

	sum := Summary{Categories: len(categories)}
	for _, category := range categories {
		n, err := prepareDir(ctx, opts, filepath.Join(opts.DataDir, trainPrefix+category), category, out.train, out.titles)
		if err != nil {
			return sum, err
		}
		sum.Train += n

		testDir := filepath.Join(opts.DataDir, testPrefix+category)
		if info, err := os.Stat(testDir); err != nil || !info.IsDir() {
			slog.Debug("No test directory for category", "category", category)
			continue
		}
		n, err = prepareDir(ctx, opts, testDir, category, out.test, out.titles)
		if err != nil {
			return sum, err
		}
		sum.Test += n
	}

	for _, w := range []*bufio.Writer{out.titles, out.train, out.test} {
		if err := w.Flush(); err != nil {
			return sum, fmt.Errorf("failed to write parameters: %w", err)
		}
	}
	slog.Debug("Data prepared", "categories", sum.Categories, "train", sum.Train, "test", sum.Test)
	return sum, nil
}

// trainCategories lists the categories that have a train directory, sorted.
func trainCategories(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %q: %w", dataDir, err)
	}
	var categories []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() && strings.HasPrefix(name, trainPrefix) && len(name) > len(trainPrefix) {
			categories = append(categories, name[len(trainPrefix):])
		}
	}
	return categories, nil
}

// prepareDir writes the labels, titles and word groups of every document of
// dir and returns how many it prepared.
func prepareDir(ctx context.Context, opts Options, dir, category string, labels, titles *bufio.Writer) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read %q: %w", dir, err)
	}

	n := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}

		path := filepath.Join(dir, e.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return n, fmt.Errorf("failed to read document %q: %w", path, err)
		}
		records, err := opts.Grouper.Group(string(content))
		if err != nil {
			return n, fmt.Errorf("failed to group words of %q: %w", path, err)
		}

		id := wordcount.DocumentID(e.Name())
		if err := wordcount.WriteFile(filepath.Join(opts.WordGroupDir, id+".onion"), records); err != nil {
			return n, err
		}
		fmt.Fprintf(titles, "%s,,%s\n", id, title(content))
		fmt.Fprintf(labels, "%s,%s\n", id, category)
		n++
	}
	return n, nil
}

// title is the first line of a document, with commas replaced so the index
// columns stay aligned.
func title(content []byte) string {
	first, _, _ := strings.Cut(string(content), "\n")
	first = strings.ReplaceAll(first, ",", " ")
	return strings.Join(strings.Fields(first), " ")
}

func closeAll(files []*os.File) {
	for _, f := range files {
		f.Close()
	}
}
