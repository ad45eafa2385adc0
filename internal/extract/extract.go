// Package extract turns a crawled HTML page into the plain text and title
// that the word grouper consumes.
//
// Three modes are supported, mirroring how much of the page is kept:
// a CSS selector keeps only the matching elements, main-content mode runs
// go-readability to drop navigation and sidebars, and the default keeps all
// visible body text. Script, style and comment nodes never reach the text.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Page is the text extracted from one HTML document.
type Page struct {
	Title string
	Text  string // one line per block element, whitespace collapsed
}

// Options selects the extraction mode.
type Options struct {
	Selector    string   // CSS selector; overrides MainContent
	MainContent bool     // readability article extraction
	BaseURL     *url.URL // page URL, used by readability (may be nil)
}

// skipped elements contribute no text.
var skipped = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"svg": true, "iframe": true, "head": true,
}

// block elements end a line.
var block = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "td": true, "th": true, "table": true, "section": true,
	"article": true, "header": true, "footer": true, "nav": true, "aside": true,
	"main": true, "pre": true, "blockquote": true, "form": true, "dd": true,
	"dt": true, "title": true, "option": true,
}

// lineBreaks flattens source formatting inside text nodes; only block
// elements start new lines.
var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")

// Text extracts the title and text of the HTML document read from content.
func Text(content io.Reader, opts Options) (Page, error) {
	raw, err := io.ReadAll(content)
	if err != nil {
		return Page{}, fmt.Errorf("failed to read HTML content: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Page{}, nil
	}

	if opts.Selector == "" && opts.MainContent {
		return mainContent(raw, opts.BaseURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return Page{}, fmt.Errorf("failed to parse HTML: %w", err)
	}
	page := Page{Title: collapse(doc.Find("title").First().Text())}

	selection := doc.Find("body")
	if opts.Selector != "" {
		selection = doc.Find(opts.Selector)
		if selection.Length() == 0 {
			return Page{}, fmt.Errorf("no elements found matching selector: %s", opts.Selector)
		}
	} else if selection.Length() == 0 {
		selection = doc.Selection
	}

	var b strings.Builder
	for _, n := range selection.Nodes {
		collect(n, &b)
		b.WriteByte('\n')
	}
	page.Text = normalize(b.String())
	return page, nil
}

// mainContent uses go-readability to extract the main article text.
func mainContent(raw []byte, baseURL *url.URL) (Page, error) {
	if baseURL == nil {
		baseURL = &url.URL{}
	}

	article, err := readability.FromReader(bytes.NewReader(raw), baseURL)
	if err != nil {
		return Page{}, fmt.Errorf("failed to extract main content: %w", err)
	}

	// re-walk the article HTML so block elements keep their line breaks
	text := article.TextContent
	if article.Node != nil {
		var b strings.Builder
		collect(article.Node, &b)
		text = b.String()
	}
	return Page{Title: collapse(article.Title), Text: normalize(text)}, nil
}

func collect(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		lineBreaks.WriteString(b, n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if skipped[n.Data] {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, b)
	}
	if n.Type == html.ElementNode && block[n.Data] {
		b.WriteByte('\n')
	}
}

// normalize collapses whitespace inside lines and drops empty lines.
func normalize(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = collapse(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
