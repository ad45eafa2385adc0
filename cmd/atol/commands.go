package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chriscorrea/atol/internal/config"
	"github.com/chriscorrea/atol/internal/counter"
	"github.com/chriscorrea/atol/internal/crawl"
	"github.com/chriscorrea/atol/internal/extract"
	"github.com/chriscorrea/atol/internal/fetch"
	"github.com/chriscorrea/atol/internal/prepare"
	"github.com/chriscorrea/atol/internal/spinner"
	"github.com/chriscorrea/atol/internal/wordcount"
	"github.com/chriscorrea/atol/internal/wordgroup"

	"github.com/spf13/cobra"
)

// addGroupFlags registers the word grouping flags shared by the
// subcommands. Unset flags keep the config file values.
func addGroupFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("page-size", 0, "Page size in page units (default 150)")
	f.String("page-unit", "", "Page unit: tokens, words or characters (default words)")
	f.String("tokenizer", "", "Tokenizer: simple or prose (default simple)")
	f.Bool("stem", false, "Stem words with the English snowball stemmer")
}

// addFetchFlags registers the network and extraction flags.
func addFetchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("proxy", "", "SOCKS5 proxy address, empty for a direct connection (default 127.0.0.1:9050)")
	f.Int("timeout", 0, "Request timeout in seconds (default 30)")
	f.Bool("readability", false, "Keep only the main content of each page")
	f.String("selector", "", "CSS selector of the content to keep")
}

// crawlSettings loads the config file and applies the flags that were set.
func crawlSettings(cmd *cobra.Command) (config.Config, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return config.Config{}, err
	}

	f := cmd.Flags()
	c := &settings.Crawl
	if f.Changed("proxy") {
		c.Proxy, _ = f.GetString("proxy")
	}
	if f.Changed("timeout") {
		c.TimeoutSec, _ = f.GetInt("timeout")
	}
	if f.Changed("workers") {
		c.Workers, _ = f.GetInt("workers")
	}
	if f.Changed("page-size") {
		c.PageSize, _ = f.GetInt("page-size")
	}
	if f.Changed("page-unit") {
		c.PageUnit, _ = f.GetString("page-unit")
	}
	if f.Changed("tokenizer") {
		c.Tokenizer, _ = f.GetString("tokenizer")
	}
	if f.Changed("stem") {
		c.Stem, _ = f.GetBool("stem")
	}

	if err := settings.Validate(); err != nil {
		cmd.PrintErrln("Error:", err)
		return config.Config{}, usageError{err}
	}
	return settings, nil
}

// newGrouper builds the word grouper described by the crawl settings.
func newGrouper(c config.CrawlConfig) (*wordgroup.Grouper, error) {
	unit, err := counter.ParseUnit(c.PageUnit)
	if err != nil {
		return nil, err
	}
	cnt, err := counter.New(unit)
	if err != nil {
		return nil, err
	}
	tokenizer, err := wordgroup.ParseTokenizer(c.Tokenizer)
	if err != nil {
		return nil, err
	}
	return wordgroup.New(wordgroup.Options{
		PageSize:  c.PageSize,
		Counter:   cnt,
		Tokenizer: tokenizer,
		Stem:      c.Stem,
	})
}

func newClient(c config.CrawlConfig) (*fetch.Client, error) {
	return fetch.NewClient(c.Proxy, time.Duration(c.TimeoutSec)*time.Second)
}

func extractOptions(cmd *cobra.Command) extract.Options {
	selector, _ := cmd.Flags().GetString("selector")
	readability, _ := cmd.Flags().GetBool("readability")
	return extract.Options{Selector: selector, MainContent: readability}
}

// startSpinner starts a spinner on stderr unless quiet or stderr is not a
// terminal; the returned spinner may be nil.
func startSpinner(ctx context.Context, cmd *cobra.Command, message string) *spinner.Spinner {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet || !spinner.IsTerminal(os.Stderr) {
		return nil
	}
	sp := spinner.New(ctx, os.Stderr, message)
	sp.Start()
	return sp
}

var crawlCmd = &cobra.Command{
	Use:   "crawl URL_LIST OUT_DIR",
	Short: "Fetch pages and write one word-count file per page",
	Long: `Crawl fetches every "url[,title]" line of URL_LIST, through a SOCKS5 proxy
such as a local Tor daemon, and writes <id>.onion word-count files to OUT_DIR.
The id is the first label of the host name. Pages that cannot be fetched are
skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := crawlSettings(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		quiet, _ := cmd.Flags().GetBool("quiet")
		setupLogger(debug)

		ctx, stop := signalContext()
		defer stop()

		list, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open URL list: %w", err)
		}
		targets, err := crawl.ReadTargets(list)
		list.Close()
		if err != nil {
			return err
		}

		client, err := newClient(settings.Crawl)
		if err != nil {
			return err
		}
		grouper, err := newGrouper(settings.Crawl)
		if err != nil {
			return err
		}

		cfg := crawl.Config{
			OutDir:  args[1],
			Workers: settings.Crawl.Workers,
			Extract: extractOptions(cmd),
		}
		if !quiet {
			cfg.Warnings = os.Stderr
		}
		if path, _ := cmd.Flags().GetString("titles"); path != "" {
			titles, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create title file: %w", err)
			}
			defer titles.Close()
			cfg.Titles = titles
		}

		sp := startSpinner(ctx, cmd, "Crawling...")
		if sp != nil {
			cfg.Progress = sp.Progress
		}
		res, err := crawl.New(client, grouper, cfg).Run(ctx, targets)
		if sp != nil {
			sp.Stop()
		}
		if err != nil {
			return err
		}

		if !quiet {
			fmt.Fprintf(os.Stderr, "Wrote %d word-count files, skipped %d of %d pages\n",
				res.Written, res.Skipped, len(targets))
		}
		return nil
	},
}

var prepareCmd = &cobra.Command{
	Use:   "prepare DATA_DIR",
	Short: "Build labels, titles and word groups from tr_/te_ category directories",
	Long: `Prepare reads DATA_DIR/tr_<category> and DATA_DIR/te_<category> directories
of plain-text documents (first line is the title) and writes title.txt,
train.txt and test.txt to the parameters directory and one word-count file
per document to the word-groups directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := crawlSettings(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		quiet, _ := cmd.Flags().GetBool("quiet")
		setupLogger(debug)

		ctx, stop := signalContext()
		defer stop()

		grouper, err := newGrouper(settings.Crawl)
		if err != nil {
			return err
		}
		params, _ := cmd.Flags().GetString("params")
		groups, _ := cmd.Flags().GetString("wordgroups")

		sum, err := prepare.Run(ctx, prepare.Options{
			DataDir:      args[0],
			ParamsDir:    params,
			WordGroupDir: groups,
			Grouper:      grouper,
		})
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(os.Stderr, "Prepared %d categories: %d train and %d test documents\n",
				sum.Categories, sum.Train, sum.Test)
		}
		return nil
	},
}

var wordgroupCmd = &cobra.Command{
	Use:   "wordgroup [sources...]",
	Short: "Print the word-count records of files, URLs or standard input",
	Long: `Wordgroup prints "word,count,page_count,ratio" records for each source.
Sources may be local files, URLs or "-" for standard input (the default).
With --html the source is treated as an HTML page and its text extracted
first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := crawlSettings(cmd)
		if err != nil {
			return err
		}
		debug, _ := cmd.Flags().GetBool("debug")
		setupLogger(debug)

		ctx, stop := signalContext()
		defer stop()

		grouper, err := newGrouper(settings.Crawl)
		if err != nil {
			return err
		}
		client, err := newClient(settings.Crawl)
		if err != nil {
			return err
		}
		html, _ := cmd.Flags().GetBool("html")
		opts := extractOptions(cmd)

		sources := args
		if len(sources) == 0 {
			sources = []string{"-"}
		}
		out := cmd.OutOrStdout()
		for _, source := range sources {
			rc, err := client.Open(ctx, source)
			if err != nil {
				return err
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", source, err)
			}

			text := string(data)
			if html {
				page, err := extract.Text(bytes.NewReader(data), opts)
				if err != nil {
					return fmt.Errorf("failed to extract %s: %w", source, err)
				}
				text = page.Text
			}
			records, err := grouper.Group(text)
			if err != nil {
				return err
			}

			// comment lines are skipped by word-count readers
			if len(sources) > 1 {
				fmt.Fprintf(out, "# %s\n", source)
			}
			if err := wordcount.WriteRecords(out, records); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	crawlCmd.Flags().IntP("workers", "w", 0, "Number of concurrent fetches (default 1)")
	crawlCmd.Flags().String("titles", "", "Write \"id,,title\" index lines to this file")
	addFetchFlags(crawlCmd)
	addGroupFlags(crawlCmd)

	prepareCmd.Flags().String("params", "parameters", "Output directory of title.txt, train.txt and test.txt")
	prepareCmd.Flags().String("wordgroups", "wrdgroups", "Output directory of word-count files")
	addGroupFlags(prepareCmd)

	wordgroupCmd.Flags().Bool("html", false, "Extract the text of HTML sources before grouping")
	addFetchFlags(wordgroupCmd)
	addGroupFlags(wordgroupCmd)
}
