// Package config holds the tunable constants of the keyword weighting, the
// evaluation drivers and the crawler, optionally loaded from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full set of tunables.
type Config struct {
	Weighting  WeightingConfig  `yaml:"weighting"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Crawl      CrawlConfig      `yaml:"crawl"`
}

// WeightingConfig controls category statistics and TF-ICF vectors.
type WeightingConfig struct {
	Epsilon           float64 `yaml:"epsilon"`            // added to both sides of the ICF ratio
	MinKeywordLength  int     `yaml:"min_keyword_length"` // keywords this short or shorter are pruned
	MinDocSize        int     `yaml:"min_doc_size"`       // documents with fewer distinct words are ignored
	MaxVectorSize     int     `yaml:"max_vector_size"`
	TitleMultiplier   float64 `yaml:"title_multiplier"`
	KeywordMultiplier float64 `yaml:"keyword_multiplier"`
	PageMultiplier    float64 `yaml:"page_multiplier"`
	RatersMultiplier  float64 `yaml:"raters_multiplier"`
}

// EvaluationConfig names the target categories of the filtering and
// discovery drivers.
type EvaluationConfig struct {
	FilteringTargets   []string  `yaml:"filtering_targets"`
	ConfidenceBuckets  []float64 `yaml:"confidence_buckets"`
	ListThresholds     []float64 `yaml:"list_thresholds"`
	DiscoveryTarget    string    `yaml:"discovery_target"`
	DiscoveryThreshold float64   `yaml:"discovery_threshold"`
	NewKeywordLimit    int       `yaml:"new_keyword_limit"`
}

// CrawlConfig holds crawler and word grouping defaults.
type CrawlConfig struct {
	Proxy      string `yaml:"proxy"` // SOCKS5 address, empty for a direct connection
	TimeoutSec int    `yaml:"timeout_sec"`
	Workers    int    `yaml:"workers"`
	PageSize   int    `yaml:"page_size"`
	PageUnit   string `yaml:"page_unit"` // tokens, words, characters
	Tokenizer  string `yaml:"tokenizer"` // simple, prose
	Stem       bool   `yaml:"stem"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Weighting: WeightingConfig{
			Epsilon:           0.0000000001,
			MinKeywordLength:  3,
			MinDocSize:        10,
			MaxVectorSize:     50,
			TitleMultiplier:   10,
			KeywordMultiplier: 100,
			PageMultiplier:    1,
			RatersMultiplier:  1.5,
		},
		Evaluation: EvaluationConfig{
			FilteringTargets:   []string{"DRUGS", "HACKER", "Weapons"},
			ConfidenceBuckets:  []float64{0.5, 0.6, 0.7, 0.8, 0.9},
			ListThresholds:     []float64{0.9, 0.8},
			DiscoveryTarget:    "Weapons",
			DiscoveryThreshold: 0.5,
			NewKeywordLimit:    200,
		},
		Crawl: CrawlConfig{
			Proxy:      "127.0.0.1:9050",
			TimeoutSec: 30,
			Workers:    1,
			PageSize:   150,
			PageUnit:   "words",
			Tokenizer:  "simple",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults. ${VAR} and ${VAR:-default} references are expanded first.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	data = expandEnvVars(data)

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	w := c.Weighting
	if w.Epsilon <= 0 {
		return fmt.Errorf("weighting.epsilon must be positive, got %g", w.Epsilon)
	}
	if w.MaxVectorSize <= 0 {
		return fmt.Errorf("weighting.max_vector_size must be positive, got %d", w.MaxVectorSize)
	}
	if w.MinKeywordLength < 0 || w.MinDocSize < 0 {
		return fmt.Errorf("weighting.min_keyword_length and weighting.min_doc_size must not be negative")
	}
	if w.TitleMultiplier < 0 || w.KeywordMultiplier < 0 || w.PageMultiplier < 0 || w.RatersMultiplier < 0 {
		return fmt.Errorf("weighting multipliers must not be negative")
	}

	e := c.Evaluation
	if e.DiscoveryThreshold < 0 || e.DiscoveryThreshold >= 1 {
		return fmt.Errorf("evaluation.discovery_threshold must be in [0, 1), got %g", e.DiscoveryThreshold)
	}
	if e.NewKeywordLimit < 0 {
		return fmt.Errorf("evaluation.new_keyword_limit must not be negative, got %d", e.NewKeywordLimit)
	}

	switch c.Crawl.PageUnit {
	case "tokens", "words", "characters":
		// ok
	default:
		return fmt.Errorf("crawl.page_unit must be \"tokens\", \"words\" or \"characters\", got %q", c.Crawl.PageUnit)
	}
	switch c.Crawl.Tokenizer {
	case "simple", "prose":
		// ok
	default:
		return fmt.Errorf("crawl.tokenizer must be \"simple\" or \"prose\", got %q", c.Crawl.Tokenizer)
	}
	if c.Crawl.Workers <= 0 {
		return fmt.Errorf("crawl.workers must be positive, got %d", c.Crawl.Workers)
	}
	if c.Crawl.PageSize <= 0 {
		return fmt.Errorf("crawl.page_size must be positive, got %d", c.Crawl.PageSize)
	}
	return nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
