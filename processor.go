package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
)

// ArticleRanker scores a list of links against a preference
type ArticleRanker interface {
	Rank(ctx context.Context, links []ArticleLink, preference string) ([]RankedArticle, error)
}

// Processor runs the scrape-then-rank pipeline
type Processor struct {
	fetcher     PageFetcher
	ranker      ArticleRanker
	source      SourceSettings
	maxArticles int
}

// NewProcessor wires the fetcher, article extractor and ranker from config
func NewProcessor(config *Config, model Model) (*Processor, error) {
	prompt, err := NewScoringPrompt(config.GetUserPrompt())
	if err != nil {
		return nil, fmt.Errorf("loading scorer prompt: %w", err)
	}

	settings := config.Settings
	fetcher := NewContentFetcher(settings.HTTP)
	extractor := NewArticleExtractor(fetcher, settings.Source)

	return &Processor{
		fetcher:     fetcher,
		ranker:      NewRanker(model, prompt, extractor, settings.Ranker.OnModelError),
		source:      settings.Source,
		maxArticles: settings.Server.MaxArticles,
	}, nil
}

// MaxArticles returns the largest count a RankRequest may ask for
func (p *Processor) MaxArticles() int {
	return p.maxArticles
}

// IndexLinks fetches the index page and extracts its links with the given trim
func (p *Processor) IndexLinks(ctx context.Context, trim Trim) ([]ArticleLink, error) {
	markup, err := p.fetcher.Fetch(ctx, p.source.IndexURL)
	if err != nil {
		return nil, fmt.Errorf("fetching index: %w", err)
	}

	links, err := ParseArticleLinks(markup, LinkOptions{
		BaseURL:    p.source.BaseURL,
		Trim:       trim,
		Duplicates: p.source.Duplicates,
	})
	if err != nil {
		return nil, fmt.Errorf("extracting links: %w", err)
	}
	return links, nil
}

// ArticleList returns the articles on the index page. A failed fetch is logged
// and yields an empty list.
func (p *Processor) ArticleList(ctx context.Context) []ArticleLink {
	log.Printf("→ Fetching index %s", p.source.IndexURL)
	links, err := p.IndexLinks(ctx, p.source.Trim())
	if err != nil {
		log.Printf("✗ %v", err)
		return []ArticleLink{}
	}
	log.Printf("✓ Found %d articles", len(links))
	return links
}

// Validate checks the request against the configured bounds
func (p *Processor) Validate(req RankRequest) error {
	if strings.TrimSpace(req.Preference) == "" {
		return fmt.Errorf("%w: preference is required", ErrInvalidRequest)
	}
	if req.Count < 1 || req.Count > p.maxArticles {
		return fmt.Errorf("%w: count must be between 1 and %d, got %d", ErrInvalidRequest, p.maxArticles, req.Count)
	}
	return nil
}

// Run ranks every article on the index page and returns the top req.Count.
// External calls: one index fetch plus one model call and one fetch per article.
func (p *Processor) Run(ctx context.Context, req RankRequest) (*RankResult, error) {
	if err := p.Validate(req); err != nil {
		return nil, err
	}
	preference := strings.TrimSpace(req.Preference)

	runID := uuid.NewString()
	log.Printf("→ Run %s: top %d for %q", runID, req.Count, preference)

	links := p.ArticleList(ctx)
	ranked, err := p.ranker.Rank(ctx, links, preference)
	if err != nil {
		log.Printf("✗ Run %s failed: %v", runID, err)
		return nil, fmt.Errorf("ranking articles: %w", err)
	}

	SortByRank(ranked)
	top := Top(ranked, req.Count)

	log.Printf("✓ Run %s completed: showing %d of %d articles", runID, len(top), len(ranked))
	return &RankResult{
		RunID:      runID,
		Preference: preference,
		Count:      req.Count,
		Total:      len(ranked),
		Articles:   top,
	}, nil
}
