package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Trim is a positional filter dropping navigation links from both ends of the index page.
// It is a heuristic on page structure, not on content.
type Trim struct {
	Leading  int
	Trailing int
}

// DefaultTrim drops the first link and the last five
var DefaultTrim = Trim{Leading: 1, Trailing: 5}

// LinkOptions controls how index page anchors become ArticleLinks
type LinkOptions struct {
	BaseURL    string
	Trim       Trim
	Duplicates DuplicatePolicy
}

type linkEntry struct {
	title string
	url   string
}

// ParseArticleLinks extracts article links from index page markup.
// Anchors with blank text are ignored. Entries keep the document order of each
// title's first appearance; opts.Duplicates decides which URL a repeated title keeps.
func ParseArticleLinks(markup string, opts LinkOptions) ([]ArticleLink, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", opts.BaseURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing index markup: %w", err)
	}

	var entries []linkEntry
	positions := make(map[string]int)

	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Text())
		if title == "" {
			return
		}
		href, _ := s.Attr("href")
		link := resolveURL(base, href)

		if opts.Duplicates == DuplicateKeep {
			entries = append(entries, linkEntry{title: title, url: link})
			return
		}

		if pos, seen := positions[title]; seen {
			if opts.Duplicates != DuplicateFirst {
				entries[pos].url = link
			}
			debugLog("duplicate title %q collapsed (%s)", title, opts.Duplicates)
			return
		}
		positions[title] = len(entries)
		entries = append(entries, linkEntry{title: title, url: link})
	})

	return trimLinks(entries, opts.Trim), nil
}

// trimLinks applies the positional trim once and numbers the survivors from 1
func trimLinks(entries []linkEntry, trim Trim) []ArticleLink {
	end := len(entries) - trim.Trailing
	if trim.Leading >= end {
		return []ArticleLink{}
	}

	kept := entries[trim.Leading:end]
	links := make([]ArticleLink, 0, len(kept))
	for i, e := range kept {
		links = append(links, ArticleLink{Index: i + 1, Title: e.title, URL: e.url})
	}
	return links
}

// resolveURL joins href onto base. Root-relative hrefs become base + href.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return strings.TrimRight(base.String(), "/") + href
	}
	return base.ResolveReference(ref).String()
}
