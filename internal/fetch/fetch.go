// Package fetch retrieves crawl targets over HTTP, optionally through a
// SOCKS5 proxy such as a local Tor daemon, and opens the local inputs of the
// word grouper.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// Size limits to prevent memory overload
const (
	MaxFileSizeBytes = 50 * 1024 * 1024 // 50MB limit for files and stdin
	MaxPageSizeBytes = 10 * 1024 * 1024 // 10MB limit for a crawled page
)

// DefaultTimeout bounds a whole request when NewClient is given zero.
const DefaultTimeout = 30 * time.Second

// UserAgent is sent with every request.
const UserAgent = "atol/0.1"

// limitedReadCloser wraps an io.ReadCloser to enforce size limits
type limitedReadCloser struct {
	io.ReadCloser
	N      int64  // max bytes remaining
	source string // for error messages
}

func (l *limitedReadCloser) Read(p []byte) (n int, err error) {
	if l.N <= 0 {
		return 0, fmt.Errorf("content from %q exceeds size limit", l.source)
	}
	if int64(len(p)) > l.N {
		p = p[0:l.N]
	}
	n, err = l.ReadCloser.Read(p)
	l.N -= int64(n)
	return
}

// Client fetches pages. It is safe for concurrent use by crawler workers.
type Client struct {
	http     *http.Client
	maxBytes int64
}

// NewClient creates a Client. A non-empty proxyAddr ("host:port") routes
// every connection through that SOCKS5 proxy; host names are resolved by the
// proxy, which is what .onion addresses require. timeout bounds a whole
// request; the dial and TLS phases get a sixth of it each and the response
// headers half.
func NewClient(proxyAddr string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dialer := &net.Dialer{Timeout: timeout / 6}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   timeout / 6,
		ResponseHeaderTimeout: timeout / 2,
		// onion circuits are not worth keeping between pages
		DisableKeepAlives: true,
	}

	if proxyAddr != "" {
		socks, err := proxy.SOCKS5("tcp", proxyAddr, nil, dialer)
		if err != nil {
			return nil, fmt.Errorf("failed to configure SOCKS5 proxy %q: %w", proxyAddr, err)
		}
		cd, ok := socks.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("SOCKS5 dialer for %q does not support contexts", proxyAddr)
		}
		transport.DialContext = cd.DialContext
		slog.Debug("Routing requests through SOCKS5 proxy", "proxy", proxyAddr)
	}

	return &Client{
		http:     &http.Client{Timeout: timeout, Transport: transport},
		maxBytes: MaxPageSizeBytes,
	}, nil
}

// Get returns the body of url. Non-200 responses and bodies over the size
// limit are errors.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	body, err := c.open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", url, err)
	}
	slog.Debug("Fetched page", "url", url, "bytes", len(data), "elapsed", time.Since(start))
	return data, nil
}

func (c *Client) open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request failed for URL %q: status %d %s", url, resp.StatusCode, resp.Status)
	}

	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil && size > c.maxBytes {
			resp.Body.Close()
			return nil, fmt.Errorf("HTTP content too large (%d bytes > %d bytes limit)", size, c.maxBytes)
		}
	}

	return &limitedReadCloser{
		ReadCloser: resp.Body,
		N:          c.maxBytes,
		source:     url,
	}, nil
}

// Open returns a reader for a word-grouper input:
//   - "-" reads from standard input
//   - URLs starting with "http://" or "https://" are fetched with c
//   - everything else is treated as a local file path
func (c *Client) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "-":
		return &limitedReadCloser{
			ReadCloser: os.Stdin,
			N:          MaxFileSizeBytes,
			source:     "stdin",
		}, nil
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return c.open(ctx, source)
	default:
		return openFile(source)
	}
}

// openFile opens a local file after checking its size.
func openFile(path string) (io.ReadCloser, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if fileInfo.Size() > MaxFileSizeBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)",
			path, fileInfo.Size(), MaxFileSizeBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}
	return file, nil
}
