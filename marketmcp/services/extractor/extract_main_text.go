package extractor

import (
	"context"
	"marketmcp/marketmcp/utils/logging"
	"marketmcp/marketmcp/utils/types"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// publishedDateSelectors are probed in order; the first non-empty value wins.
var publishedDateSelectors = []string{
	`meta[property="article:published_time"]`,
	`meta[name="pubdate"]`,
	`meta[name="date"]`,
	`meta[itemprop="datePublished"]`,
	`time[itemprop="datePublished"]`,
}

// ExtractMainText pulls the readable article out of rawHTML along with its
// title, publish date and publisher. baseURL may be empty.
func ExtractMainText(ctx context.Context, rawHTML, baseURL string) types.ExtractResult {
	defer logging.LogDuration(ctx, "ExtractMainText")()

	pageURL := &url.URL{}
	if baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil {
			pageURL = u
		}
	}

	var result types.ExtractResult

	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		// no article found; fall back to the whole document
		logging.AppLogger.Warn("readability failed", zap.String("base_url", baseURL), zap.Error(err))
		result.MainText = FlattenText(rawHTML)
	} else {
		result.MainText = FlattenText(article.Content)
		if title := strings.TrimSpace(article.Title); title != "" {
			result.Title = &title
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err == nil {
		result.PublishedDate = publishedDate(doc)
	}
	result.Publisher = publisher(rawHTML, baseURL)

	return result
}

// FlattenText returns the trimmed, non-empty text nodes of htmlContent joined by newlines.
func FlattenText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var lines []string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				lines = append(lines, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)

	return strings.Join(lines, "\n")
}

func publishedDate(doc *goquery.Document) *string {
	for _, sel := range publishedDateSelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		value := strings.TrimSpace(node.AttrOr("content", ""))
		if value == "" {
			value = strings.TrimSpace(node.Text())
		}
		if value != "" {
			return &value
		}
	}
	return nil
}

// publisher prefers og:site_name and falls back to the base URL's host.
func publisher(rawHTML, baseURL string) *string {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(rawHTML)); err == nil {
		if name := strings.TrimSpace(og.SiteName); name != "" {
			return &name
		}
	}

	if baseURL == "" {
		return nil
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	return &host
}
