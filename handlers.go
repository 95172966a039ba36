package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

var debugEnabled bool

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	debugEnabled = enabled
}

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// TextHandler pulls article text out of page markup
type TextHandler interface {
	ExtractText(pageURL, markup string) (string, error)
}

// SelectorHandler joins the text of every element matching a CSS selector
type SelectorHandler struct {
	selector string
}

// ExtractText returns the matched elements' text joined by single spaces,
// or "" when nothing matches.
func (h *SelectorHandler) ExtractText(pageURL, markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parsing article markup: %w", err)
	}

	var parts []string
	doc.Find(h.selector).Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, s.Text())
	})
	return strings.Join(parts, " "), nil
}

// ReadabilityHandler extracts the main content of pages without a stable paragraph class
type ReadabilityHandler struct{}

func (h *ReadabilityHandler) ExtractText(pageURL, markup string) (string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parsing article URL: %w", err)
	}

	article, err := readability.FromReader(strings.NewReader(markup), parsedURL)
	if err != nil {
		return "", fmt.Errorf("extracting readable content: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return "", fmt.Errorf("parsing readable content: %w", err)
	}

	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := normalizeText(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return normalizeText(doc.Text()), nil
	}
	return strings.Join(parts, " "), nil
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ArticleExtractor fetches an article page and extracts its text
type ArticleExtractor struct {
	fetcher PageFetcher
	handler TextHandler
}

// NewArticleExtractor picks the text handler for the configured extraction mode
func NewArticleExtractor(fetcher PageFetcher, source SourceSettings) *ArticleExtractor {
	var handler TextHandler = &SelectorHandler{selector: source.ParagraphSelector}
	if source.Extraction == ExtractReadability {
		handler = &ReadabilityHandler{}
	}
	return &ArticleExtractor{fetcher: fetcher, handler: handler}
}

// ArticleText returns the article body for url. A fetch failure is returned as an
// error; a page without matching paragraphs yields "".
func (e *ArticleExtractor) ArticleText(ctx context.Context, url string) (string, error) {
	markup, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return e.handler.ExtractText(url, markup)
}
