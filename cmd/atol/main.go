package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/chriscorrea/atol/internal/app"
	"github.com/chriscorrea/atol/internal/config"

	"github.com/spf13/cobra"
)

// usageError marks errors caused by how the command was invoked. They are
// reported where they are detected and exit with status 2.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// requiredFlags are the input files of a classifier run, in usage order.
var requiredFlags = []struct {
	name, short string
}{
	{"label", "l"},
	{"dir", "d"},
	{"keywords", "k"},
	{"index", "i"},
	{"test", "t"},
	{"stopwords", "s"},
	{"baseline", "b"},
	{"mode", "m"},
}

// buildConfig constructs an app.Config from command flags
func buildConfig(cmd *cobra.Command) (app.Config, error) {
	flags := cmd.Flags()

	var missing []string
	for _, f := range requiredFlags {
		if v, _ := flags.GetString(f.name); v == "" {
			missing = append(missing, f.short)
		}
	}
	if len(missing) > 0 {
		for _, short := range missing {
			cmd.PrintErrf("Required option -%s not given\n", short)
		}
		return app.Config{}, usageError{fmt.Errorf("missing required options %v", missing)}
	}

	modeName, _ := flags.GetString("mode")
	mode, err := app.ParseMode(modeName)
	if err != nil {
		cmd.PrintErrln("Error:", err)
		return app.Config{}, usageError{err}
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return app.Config{}, err
	}

	get := func(name string) string {
		v, _ := flags.GetString(name)
		return v
	}
	unique, _ := flags.GetBool("unique")
	quiet, _ := flags.GetBool("quiet")
	debug, _ := flags.GetBool("debug")

	return app.Config{
		TrainLabels:  get("label"),
		WordGroupDir: get("dir"),
		Keywords:     get("keywords"),
		Index:        get("index"),
		TestLabels:   get("test"),
		Stopwords:    get("stopwords"),
		Baseline:     get("baseline"),
		Mode:         mode,
		Dedup:        unique,
		PracticalDir: get("practical"),
		Settings:     settings,
		PushGateway:  get("pushgateway"),
		Quiet:        quiet,
		Debug:        debug,
	}, nil
}

// loadSettings reads the --config file over the built-in defaults.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	settings, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("configuration error: %w", err)
	}
	return settings, nil
}

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// signalContext returns a context canceled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

var rootCmd = &cobra.Command{
	Use:   "atol -l train -d wordgrp_dir -k keywords -i index -t test -s stopwords -b baseline -m mode",
	Short: "Keyword-based topic classification of short, noisy documents",
	Long: `Atol learns weighted keyword lists per category from a few seed keywords
and labeled word-count files, then scores documents against them.

Modes:
  accuracy    compare seed keywords and learned keywords on the test labels
  filtering   score legacy-index documents of the filtering targets
  discovery   find likely target documents the baseline labels missed
  practical   print category distributions for a new directory (-p)

Examples:
  atol -l parameters/train.txt -d wrdgroups -k parameters/keywords.txt \
       -i parameters/index.txt -t parameters/test.txt \
       -s parameters/stopwords.txt -b parameters/baseline.txt -m accuracy
  atol crawl urls.txt newgroups
  atol prepare data`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig(cmd)
		if err != nil {
			var uerr usageError
			if errors.As(err, &uerr) {
				_ = cmd.Usage()
			}
			return err
		}

		setupLogger(cfg.Debug)

		ctx, stop := signalContext()
		defer stop()

		if err := app.Run(ctx, cfg, cmd.OutOrStdout()); err != nil {
			if errors.Is(err, app.ErrMissingPractical) {
				cmd.PrintErrln("Error:", err)
				_ = cmd.Usage()
				return usageError{err}
			}
			return fmt.Errorf("atol failed: %w", err)
		}
		return nil
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringP("label", "l", "", "Train label file (document_id,category)")
	f.StringP("dir", "d", "", "Directory of word-count files")
	f.StringP("keywords", "k", "", "Seed keyword file (category,keyword,...)")
	f.StringP("index", "i", "", "Legacy index file with titles and categories")
	f.StringP("test", "t", "", "Test label file (document_id,category)")
	f.StringP("stopwords", "s", "", "Stopword file, one word per line")
	f.StringP("baseline", "b", "", "Baseline heuristic label file")
	f.StringP("mode", "m", "", "Run mode: accuracy, filtering, discovery or practical")
	f.BoolP("unique", "u", false, "Deduplicate train and test documents by title")
	f.StringP("practical", "p", "", "Directory of word-count files to categorize in practical mode")
	f.String("pushgateway", "", "Prometheus Pushgateway URL for run metrics")

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "YAML file with weighting, evaluation and crawl settings")
	pf.BoolP("quiet", "q", false, "Suppress warnings and progress output")
	pf.BoolP("debug", "D", false, "Enable debug logging")
	_ = pf.MarkHidden("debug")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.PrintErrln("Error:", err)
		_ = cmd.Usage()
		return usageError{err}
	})

	rootCmd.AddCommand(crawlCmd, prepareCmd, wordgroupCmd)
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	var uerr usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &uerr):
		return 2
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

func main() {
	err := rootCmd.Execute()
	var uerr usageError
	if err != nil && !errors.As(err, &uerr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}
