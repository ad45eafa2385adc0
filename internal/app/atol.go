// Package app contains the core application logic for the atol CLI tool.
// It loads the corpus, builds the keyword vectors and runs one evaluation
// driver, separated from CLI concerns.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/chriscorrea/atol/internal/config"
	"github.com/chriscorrea/atol/internal/dedup"
	"github.com/chriscorrea/atol/internal/labels"
	"github.com/chriscorrea/atol/internal/metrics"
	"github.com/chriscorrea/atol/internal/spinner"
	"github.com/chriscorrea/atol/internal/stats"
	"github.com/chriscorrea/atol/internal/stopwords"
	"github.com/chriscorrea/atol/internal/tficf"
	"github.com/chriscorrea/atol/internal/wordcount"
)

var (
	// ErrUnknownMode is returned for a mode outside accuracy, filtering,
	// discovery and practical.
	ErrUnknownMode = errors.New("unknown mode")
	// ErrMissingPractical is returned when practical mode has no directory.
	ErrMissingPractical = errors.New("practical mode requires a practical directory")
)

// Mode selects the evaluation driver.
type Mode int

const (
	// Accuracy compares baseline and TF-ICF vectors on the test set
	Accuracy Mode = iota
	// Filtering scores legacy-index documents of the filtering targets
	Filtering
	// Discovery looks for high-confidence target documents in the whole corpus
	Discovery
	// Practical prints distributions for an unlabeled corpus
	Practical
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case Accuracy:
		return "accuracy"
	case Filtering:
		return "filtering"
	case Discovery:
		return "discovery"
	case Practical:
		return "practical"
	default:
		return "unknown"
	}
}

// ParseMode maps a mode name to its Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{Accuracy, Filtering, Discovery, Practical} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w %q: want accuracy, filtering, discovery or practical", ErrUnknownMode, s)
}

// Config holds all configuration options of a classifier run.
type Config struct {
	TrainLabels  string // document_id,category
	WordGroupDir string // one word-count file per document
	Keywords     string // category,keyword1,keyword2,...
	Index        string // legacy index: titles and categories
	TestLabels   string
	Stopwords    string
	Baseline     string // baseline heuristic labels
	Mode         Mode
	Dedup        bool
	PracticalDir string

	Settings    config.Config
	PushGateway string // empty disables the metrics push
	Quiet       bool   // suppress warnings and the spinner
	Debug       bool
}

// corpus is everything read from the input files.
type corpus struct {
	stop      *stopwords.Set
	labels    *labels.Set
	titles    labels.Titles
	keywords  *labels.Index
	store     *wordcount.Store
	practical *wordcount.Store
}

// runner carries the state shared by the report and the drivers.
type runner struct {
	cfg        Config
	out        io.Writer
	errOut     io.Writer
	metrics    *metrics.Run
	corpus     *corpus
	statistics *stats.Statistics
	categories []string // unique train categories, sorted
	vectors    tficf.Vectors
}

// Run executes one classifier run and writes the report to out.
//
// Processing Pipeline:
// 1. Load stopwords, labels, titles, keywords and word counts
// 2. Fold them into category statistics
// 3. Optionally deduplicate the train store and the test labels
// 4. Compute TF-ICF vectors and print the keyword report
// 5. Run the driver selected by cfg.Mode
//
// ctx cancels the run between documents; the error is then ctx.Err().
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if cfg.Mode == Practical && cfg.PracticalDir == "" {
		return ErrMissingPractical
	}
	if cfg.Mode < Accuracy || cfg.Mode > Practical {
		return fmt.Errorf("%w: %d", ErrUnknownMode, cfg.Mode)
	}

	r := &runner{
		cfg:     cfg,
		out:     out,
		errOut:  os.Stderr,
		metrics: metrics.NewRun(),
	}
	err := r.run(ctx)

	if cfg.PushGateway != "" {
		// push what was recorded even when the run failed part way
		if perr := r.metrics.Push(context.WithoutCancel(ctx), cfg.PushGateway); perr != nil {
			slog.Error("Metrics push failed", "error", perr)
			r.warn("%v", perr)
		}
	}
	return err
}

func (r *runner) run(ctx context.Context) error {
	t0 := time.Now()
	c, err := r.load(ctx)
	if err != nil {
		return err
	}
	r.corpus = c

	w := r.cfg.Settings.Weighting
	builder := stats.NewBuilder(stats.Params{
		KeywordMultiplier: w.KeywordMultiplier,
		RatersMultiplier:  w.RatersMultiplier,
		TitleMultiplier:   w.TitleMultiplier,
		MinDocSize:        w.MinDocSize,
	}, c.labels, c.keywords, c.titles, c.stop)
	r.statistics, err = builder.Build(ctx, c.store)
	if err != nil {
		return err
	}
	r.recordFold()

	if r.cfg.Dedup {
		r.dedup()
	}

	r.categories = c.labels.Train.Values()
	if len(r.categories) == 0 {
		r.warn("no categories found in train labels %s", r.cfg.TrainLabels)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.printf("\n\n==== Running PHASE 1 (Keywords) ====\n")
	r.printf("\n\n==== PHASE 1: New keyword list ====\n")
	r.printf("\n Pre-processing & Dataset loading done in %0.3fs.\n", r.stage("load", t0))

	t0 = time.Now()
	r.vectors = tficf.Compute(r.statistics, r.categories, tficf.Params{
		Epsilon:          w.Epsilon,
		MinKeywordLength: w.MinKeywordLength,
		MaxVectorSize:    w.MaxVectorSize,
	})
	r.printKeywordReport()
	r.printf("\n TFICF Computation done in %0.3fs.\n", r.stage("tficf", t0))

	switch r.cfg.Mode {
	case Accuracy:
		return r.runAccuracy(ctx)
	case Filtering:
		return r.runFiltering(ctx)
	case Discovery:
		return r.runDiscovery(ctx)
	default:
		return r.runPractical(ctx)
	}
}

// load reads every input file. Any required file that cannot be read aborts
// the run.
func (r *runner) load(ctx context.Context) (*corpus, error) {
	var sp *spinner.Spinner
	if !r.cfg.Quiet && spinner.IsTerminal(r.errOut) {
		sp = spinner.New(ctx, r.errOut, "Loading labels...")
		sp.Start()
		defer sp.Stop()
	}

	stop, err := stopwords.Load(r.cfg.Stopwords)
	if err != nil {
		return nil, err
	}
	train, err := labels.LoadLabels(r.cfg.TrainLabels)
	if err != nil {
		return nil, err
	}
	keywords, err := labels.LoadKeywords(r.cfg.Keywords, train)
	if err != nil {
		return nil, err
	}
	titles, err := labels.LoadTitles(r.cfg.Index, stop)
	if err != nil {
		return nil, err
	}
	test, err := labels.LoadLabels(r.cfg.TestLabels)
	if err != nil {
		return nil, err
	}
	legacy, err := labels.LoadLegacyCategories(r.cfg.Index)
	if err != nil {
		return nil, err
	}
	baseline, err := labels.LoadBaseline(r.cfg.Baseline)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pm := r.cfg.Settings.Weighting.PageMultiplier
	var progress func(done, total int)
	if sp != nil {
		sp.UpdateMessage("Loading word counts...")
		progress = sp.Progress
	}
	store, err := wordcount.LoadDir(ctx, r.cfg.WordGroupDir, pm, progress)
	if err != nil {
		return nil, err
	}
	r.metrics.DocumentsLoaded.WithLabelValues("train").Set(float64(store.Len()))

	c := &corpus{
		stop:     stop,
		labels:   &labels.Set{Train: train, Test: test, Legacy: legacy, Baseline: baseline},
		titles:   titles,
		keywords: keywords,
		store:    store,
	}

	if r.cfg.PracticalDir != "" {
		if sp != nil {
			sp.UpdateMessage("Loading practical word counts...")
		}
		c.practical, err = wordcount.LoadDir(ctx, r.cfg.PracticalDir, pm, progress)
		if err != nil {
			return nil, err
		}
		if c.practical.Len() == 0 {
			r.warn("no word-count files in practical directory %s", r.cfg.PracticalDir)
		}
		r.metrics.DocumentsLoaded.WithLabelValues("practical").Set(float64(c.practical.Len()))
	}

	slog.Debug("Corpus loaded",
		"stopwords", stop.Len(),
		"train", train.Len(),
		"test", test.Len(),
		"legacy", legacy.Len(),
		"baseline", baseline.Len(),
		"titles", titles.Len(),
		"documents", store.Len())
	return c, nil
}

func (r *runner) recordFold() {
	sum := r.statistics.Summary
	leaked := 0
	for _, n := range sum.Leaked {
		leaked += n
	}
	r.metrics.DocumentsFolded.WithLabelValues("used").Set(float64(sum.Used))
	r.metrics.DocumentsFolded.WithLabelValues("sparse").Set(float64(sum.Sparse))
	r.metrics.DocumentsFolded.WithLabelValues("unlabeled").Set(float64(sum.Unlabeled))
	r.metrics.DocumentsFolded.WithLabelValues("leaked").Set(float64(leaked))
}

func (r *runner) dedup() {
	c := r.corpus
	r.printf("\nDeduplicating data and test.\n")
	r.printf("Data size before deduplication: %d\n", c.store.Len())
	c.store = dedup.Train(c.store, c.titles)
	r.printf("Data size after deduplication: %d\n", c.store.Len())
	r.printf("Test size before deduplication: %d\n", c.labels.Test.Len())
	c.labels.Test = dedup.Test(c.labels.Test, c.titles)
	r.printf("Test size after deduplication: %d\n", c.labels.Test.Len())
}

// stage records the time since t0 and returns it in seconds.
func (r *runner) stage(name string, t0 time.Time) float64 {
	d := time.Since(t0)
	r.metrics.ObserveStage(name, d)
	return d.Seconds()
}

func (r *runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// warn prints a warning to stderr unless quiet.
func (r *runner) warn(format string, args ...any) {
	if r.cfg.Quiet {
		return
	}
	fmt.Fprintf(r.errOut, "Warning: "+format+"\n", args...)
}
