// Package metrics records per-run Prometheus metrics and pushes them to a
// Pushgateway. A batch run exits before any scraper could reach it, so the
// collectors live on a private registry that is pushed once at the end.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobName is the Pushgateway job the run is grouped under.
const JobName = "atol"

// Keyword sets, the label values of Run.Accuracy.
const (
	KeywordsBaseline = "baseline" // seed keywords, uniform weights
	KeywordsLearned  = "atol"     // TF-ICF vectors
)

// Run holds the collectors of one classifier run.
type Run struct {
	registry *prometheus.Registry

	DocumentsLoaded *prometheus.GaugeVec // by corpus: train, practical
	DocumentsFolded *prometheus.GaugeVec // by outcome: used, sparse, unlabeled, leaked
	Accuracy        *prometheus.GaugeVec // by keyword set: KeywordsBaseline, KeywordsLearned
	Discovered      *prometheus.GaugeVec // by target and kind: target, novel
	StageDuration   *prometheus.GaugeVec // by stage
}

// NewRun creates the collectors and registers them on a fresh registry.
func NewRun() *Run {
	r := &Run{
		registry: prometheus.NewRegistry(),

		DocumentsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "atol",
			Name:      "documents_loaded",
			Help:      "Documents read from word-count directories",
		}, []string{"corpus"}),

		DocumentsFolded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "atol",
			Name:      "documents_folded",
			Help:      "Documents seen by the category statistics builder, by outcome",
		}, []string{"outcome"}),

		Accuracy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "atol",
			Name:      "accuracy_percent",
			Help:      "Test set accuracy by keyword set",
		}, []string{"keywords"}),

		Discovered: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "atol",
			Name:      "discovered_documents",
			Help:      "High-confidence documents of the discovery target",
		}, []string{"target", "kind"}),

		StageDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "atol",
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent in each stage of the run",
		}, []string{"stage"}),
	}

	r.registry.MustRegister(
		r.DocumentsLoaded, r.DocumentsFolded,
		r.Accuracy, r.Discovered, r.StageDuration,
	)
	return r
}

// Registry returns the private registry.
func (r *Run) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveStage records how long stage took.
func (r *Run) ObserveStage(stage string, d time.Duration) {
	r.StageDuration.WithLabelValues(stage).Set(d.Seconds())
}

// Push sends every collector to the Pushgateway at url, replacing the
// job's previous metrics.
func (r *Run) Push(ctx context.Context, url string) error {
	if err := push.New(url, JobName).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
