package extract_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/chriscorrea/atol/internal/extract"
)

const (
	simpleHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Gun Shop</title>
    <style>body { color: red; }</style>
    <script>var tracker = "pixel";</script>
</head>
<body>
    <header>
        <h1>Site Header</h1>
        <nav>Navigation</nav>
    </header>
    <main>
        <article>
            <h1>Main Article Title</h1>
            <!-- editor note: hidden comment -->
            <p>This is the main content of the article. It contains important information.</p>
            <p>This is a second paragraph with <strong>bold text</strong> and <em>italic text</em>.</p>
            <ul>
                <li>First list item</li>
                <li>Second list item</li>
            </ul>
        </article>
    </main>
    <aside>
        <p>This is sidebar content that should be filtered out.</p>
    </aside>
    <footer>
        <p>Footer content</p>
    </footer>
</body>
</html>`

	listingHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Listing</title>
</head>
<body>
    <div class="container">
        <header class="site-header">
            <h1>Vendor Hub</h1>
        </header>
        <div class="content">
            <article class="listing-post">
                <h2>Hunting Rifle Scopes and Mounts</h2>
                <p class="meta">Listed on July 5, 2018</p>
                <div class="post-content">
                    <p>Every order from this vendor ships with <strong>stealth packaging</strong> for the safest delivery.</p>
                    <h3>Products</h3>
                    <ul>
                        <li>2 scopes (slightly used)</li>
                        <li>1 mount, steel</li>
                        <li>3 lens caps</li>
                    </ul>
                    <h3>Shipping</h3>
                    <ol>
                        <li>Pay the escrow and send your address encrypted</li>
                        <li>Wait for the tracking number</li>
                        <li>Finalize after arrival at 350°F</li>
                    </ol>
                    <blockquote>
                        <p>The secret is in the packaging!</p>
                    </blockquote>
                </div>
            </article>
        </div>
        <aside class="sidebar">
            <h3>Other Vendors</h3>
            <ul>
                <li><a href="#">Pill Market</a></li>
                <li><a href="#">Card Shop</a></li>
            </ul>
        </aside>
    </div>
</body>
</html>`

	malformedHTML = `<html>
<body>
    <div class="content">
        <h1>Unclosed Header
        <p>Paragraph without closing tag
        <div class="nested">
            <span>Some text</span>
        </div>
    </div>
</body>`
)

func TestText(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		opts        extract.Options
		expectError bool
		expectEmpty bool
		title       string
		contains    []string
		notContains []string
	}{
		{
			name:        "all body text",
			html:        simpleHTML,
			title:       "Gun Shop",
			contains:    []string{"Site Header", "Main Article Title", "bold text and italic text", "sidebar content", "Footer content"},
			notContains: []string{"tracker", "color: red", "editor note"},
		},
		{
			name:        "main content",
			html:        simpleHTML,
			opts:        extract.Options{MainContent: true},
			contains:    []string{"main content", "bold text", "First list item"},
			notContains: []string{"Navigation", "sidebar content", "Footer content", "tracker"},
		},
		{
			name:        "listing main content",
			html:        listingHTML,
			opts:        extract.Options{MainContent: true},
			contains:    []string{"Rifle Scopes", "stealth packaging", "Products", "Shipping"},
			notContains: []string{"Vendor Hub", "Other Vendors"},
		},
		{
			name:        "with article selector",
			html:        simpleHTML,
			opts:        extract.Options{Selector: "article"},
			title:       "Gun Shop",
			contains:    []string{"Main Article Title", "main content", "bold text", "First list item"},
			notContains: []string{"Site Header", "Navigation", "sidebar content", "Footer"},
		},
		{
			name:        "selector overrides main content",
			html:        listingHTML,
			opts:        extract.Options{Selector: ".post-content", MainContent: true},
			contains:    []string{"stealth packaging", "Products", "2 scopes", "The secret is in the packaging"},
			notContains: []string{"Hunting Rifle", "Listed on", "Vendor Hub", "Other Vendors"},
		},
		{
			name:        "with h3 selector (multiple elements)",
			html:        listingHTML,
			opts:        extract.Options{Selector: "h3"},
			contains:    []string{"Products", "Shipping", "Other Vendors"},
			notContains: []string{"Hunting Rifle", "stealth packaging"},
		},
		{
			name:        "non-existent selector",
			html:        simpleHTML,
			opts:        extract.Options{Selector: ".non-existent"},
			expectError: true,
		},
		{
			name:        "invalid selector",
			html:        simpleHTML,
			opts:        extract.Options{Selector: ">>invalid<<"},
			expectError: true,
		},
		{
			name:     "malformed HTML with selector",
			html:     malformedHTML,
			opts:     extract.Options{Selector: ".content"},
			contains: []string{"Unclosed Header", "Paragraph without closing", "Some text"},
		},
		{
			name:        "empty HTML",
			html:        "",
			expectEmpty: true,
		},
		{
			name:        "whitespace only HTML",
			html:        "   \n\t   ",
			opts:        extract.Options{MainContent: true},
			expectEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := extract.Text(strings.NewReader(tt.html), tt.opts)

			if tt.expectError {
				if err == nil {
					t.Errorf("Text() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Text() unexpected error: %v", err)
			}

			if tt.expectEmpty {
				if page.Text != "" || page.Title != "" {
					t.Errorf("Text() expected empty page but got: %+v", page)
				}
				return
			}
			if tt.title != "" && page.Title != tt.title {
				t.Errorf("Title = %q, want %q", page.Title, tt.title)
			}
			for _, expected := range tt.contains {
				if !strings.Contains(page.Text, expected) {
					t.Errorf("Text should contain %q but doesn't.\nText: %s", expected, page.Text)
				}
			}
			for _, notExpected := range tt.notContains {
				if strings.Contains(page.Text, notExpected) {
					t.Errorf("Text should not contain %q but does.\nText: %s", notExpected, page.Text)
				}
			}
		})
	}
}

func TestTextLineLayout(t *testing.T) {
	html := `<html><body><h1>Guns  and
	ammo</h1><p>Ships <b>world</b>wide</p><ul><li>one</li><li>two</li></ul>text<br>after</body></html>`

	page, err := extract.Text(strings.NewReader(html), extract.Options{})
	if err != nil {
		t.Fatalf("Text() unexpected error: %v", err)
	}
	want := "Guns and ammo\nShips worldwide\none\ntwo\ntext\nafter"
	if page.Text != want {
		t.Errorf("Text = %q, want %q", page.Text, want)
	}
	if page.Title != "" {
		t.Errorf("Title = %q, want empty", page.Title)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestTextReadError(t *testing.T) {
	_, err := extract.Text(failingReader{}, extract.Options{})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Text() error = %v, want io.ErrUnexpectedEOF", err)
	}
}
