// Package crawl fetches a list of pages, usually onion sites behind a
// SOCKS5 proxy, and writes one word-count file per page.
//
// Pages are processed by a bounded worker pool. A page that cannot be
// fetched or yields no words is skipped with a warning; only failures to
// write output abort the crawl. Every target gets its own file: ids are
// assigned in list order before any fetch starts, so two pages of one host
// never share a name.
package crawl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/chriscorrea/atol/internal/extract"
	"github.com/chriscorrea/atol/internal/wordcount"
	"github.com/chriscorrea/atol/internal/wordgroup"
)

// Extension is appended to the document id of every written file.
const Extension = ".onion"

// Target is one line of a URL list.
type Target struct {
	Line  int // 1-based line number in the list
	URL   string
	Title string // optional; the page <title> is used when empty
}

// ID returns the document id for the target: the first label of the host
// name, or the zero-padded line number when the URL has no usable host.
func (t Target) ID() string {
	if u, err := url.Parse(t.URL); err == nil {
		if label, _, _ := strings.Cut(u.Hostname(), "."); label != "" {
			return label
		}
	}
	return fmt.Sprintf("%05d", t.Line)
}

// ReadTargets parses a URL list: one "url[,title]" per line. Blank lines
// and lines starting with '#' are skipped.
func ReadTargets(r io.Reader) ([]Target, error) {
	var targets []Target
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, title, _ := strings.Cut(line, ",")
		targets = append(targets, Target{
			Line:  lineNo,
			URL:   strings.TrimSpace(u),
			Title: strings.TrimSpace(title),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return targets, nil
}

// Fetcher retrieves a page body.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Config holds the crawler settings.
type Config struct {
	OutDir  string
	Workers int // at least 1
	Extract extract.Options
	// Titles, if non-nil, receives one "id,,title" line per written page.
	Titles io.Writer
	// Progress, if non-nil, is called after each target with the number of
	// targets handled so far. It may be called from several goroutines.
	Progress func(done, total int)
	// Warnings, if non-nil, receives one "Warning: ..." line per skipped page.
	Warnings io.Writer
}

// Result counts the outcome of a crawl.
type Result struct {
	Written int
	Skipped int
}

// Crawler fetches targets and writes their word groups.
type Crawler struct {
	fetcher Fetcher
	grouper *wordgroup.Grouper
	cfg     Config

	mu sync.Mutex // guards Titles and Warnings
}

// New creates a Crawler.
func New(fetcher Fetcher, grouper *wordgroup.Grouper, cfg Config) *Crawler {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Crawler{fetcher: fetcher, grouper: grouper, cfg: cfg}
}

// Run crawls targets. The output directory is created if needed and
// existing files are overwritten. Run stops early with ctx.Err() when ctx is
// canceled, or with the first write error.
func (c *Crawler) Run(ctx context.Context, targets []Target) (Result, error) {
	if err := os.MkdirAll(c.cfg.OutDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory %q: %w", c.cfg.OutDir, err)
	}

	ids := assignIDs(targets)

	var written, skipped, done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)

	for i, t := range targets {
		i, t := i, t
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			ok, err := c.crawl(gctx, t, ids[i])
			if err != nil {
				return err
			}
			if ok {
				written.Add(1)
			} else {
				skipped.Add(1)
			}
			if c.cfg.Progress != nil {
				c.cfg.Progress(int(done.Add(1)), len(targets))
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	res := Result{Written: int(written.Load()), Skipped: int(skipped.Load())}
	slog.Debug("Crawl finished", "targets", len(targets), "written", res.Written, "skipped", res.Skipped)
	return res, err
}

// assignIDs returns the file id of every target. A repeated id gets the
// target's line number appended.
func assignIDs(targets []Target) []string {
	ids := make([]string, len(targets))
	used := make(map[string]bool, len(targets))
	for i, t := range targets {
		base := t.ID()
		id := base
		for n := 0; used[id]; n++ {
			id = fmt.Sprintf("%s-%05d", base, t.Line)
			if n > 0 {
				id = fmt.Sprintf("%s-%d", id, n)
			}
		}
		used[id] = true
		ids[i] = id
	}
	return ids
}

// crawl handles one target; false means it was skipped.
func (c *Crawler) crawl(ctx context.Context, t Target, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	body, err := c.fetcher.Get(ctx, t.URL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		c.skip(t, "fetch failed: %v", err)
		return false, nil
	}
	if len(body) == 0 {
		c.skip(t, "empty response")
		return false, nil
	}

	opts := c.cfg.Extract
	if u, err := url.Parse(t.URL); err == nil {
		opts.BaseURL = u
	}
	page, err := extract.Text(bytes.NewReader(body), opts)
	if err != nil {
		c.skip(t, "extraction failed: %v", err)
		return false, nil
	}

	records, err := c.grouper.Group(page.Text)
	if err != nil {
		c.skip(t, "word grouping failed: %v", err)
		return false, nil
	}
	if len(records) == 0 {
		c.skip(t, "no words")
		return false, nil
	}

	if err := wordcount.WriteFile(filepath.Join(c.cfg.OutDir, id+Extension), records); err != nil {
		return false, err
	}

	title := t.Title
	if title == "" {
		title = page.Title
	}
	if err := c.writeTitle(id, title); err != nil {
		return false, err
	}
	slog.Debug("Page written", "url", t.URL, "id", id, "words", len(records))
	return true, nil
}

// writeTitle appends an index-compatible title line. Commas would shift the
// index columns and are replaced by spaces.
func (c *Crawler) writeTitle(id, title string) error {
	if c.cfg.Titles == nil {
		return nil
	}
	title = strings.Join(strings.Fields(strings.ReplaceAll(title, ",", " ")), " ")

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.cfg.Titles, "%s,,%s\n", id, title); err != nil {
		return fmt.Errorf("failed to write title of %s: %w", id, err)
	}
	return nil
}

// skip reports a skipped target.
func (c *Crawler) skip(t Target, format string, args ...any) {
	reason := fmt.Sprintf(format, args...)
	slog.Debug("Page skipped", "url", t.URL, "reason", reason)
	if c.cfg.Warnings == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.cfg.Warnings, "Warning: skipped %s (line %d): %s\n", t.URL, t.Line, reason)
}
