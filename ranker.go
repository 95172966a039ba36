package main

import (
	"context"
	"log"
	"sort"
)

// TextSource returns the body text of an article page
type TextSource interface {
	ArticleText(ctx context.Context, url string) (string, error)
}

// Ranker scores each article against the reader's preference, one at a time
type Ranker struct {
	model    Model
	prompt   *ScoringPrompt
	articles TextSource
	policy   ModelErrorPolicy
}

// NewRanker creates a ranker. A failed model call aborts the pass unless policy is PolicySkip.
func NewRanker(model Model, prompt *ScoringPrompt, articles TextSource, policy ModelErrorPolicy) *Ranker {
	return &Ranker{
		model:    model,
		prompt:   prompt,
		articles: articles,
		policy:   policy,
	}
}

// Rank returns one RankedArticle per link, in input order. Unparseable model
// responses leave Rank nil and failed article fetches leave Text nil.
func (r *Ranker) Rank(ctx context.Context, links []ArticleLink, preference string) ([]RankedArticle, error) {
	ranked := make([]RankedArticle, 0, len(links))

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Printf("[%d/%d] Ranking: %s", i+1, len(links), link.Title)
		article := RankedArticle{
			Number: link.Index,
			Title:  link.Title,
			URL:    link.URL,
		}

		response, err := r.model.Complete(ctx, r.prompt.Render(link.Title, preference))
		if err != nil {
			modelErr := &ModelError{Number: link.Index, Title: link.Title, Err: err}
			if r.policy != PolicySkip {
				return nil, modelErr
			}
			log.Printf("  ✗ %v (left unranked)", modelErr)
		} else if rank, err := ParseRank(response); err != nil {
			log.Printf("  ✗ Failed to convert ranking to a number: %v", err)
		} else {
			article.Rank = rank
			debugLog("article %d ranked %v", link.Index, *rank)
		}

		text, err := r.articles.ArticleText(ctx, link.URL)
		if err != nil {
			log.Printf("  ✗ Fetching article text %s: %v", link.URL, err)
		} else {
			article.Text = &text
		}

		ranked = append(ranked, article)
	}

	return ranked, nil
}

// SortByRank orders articles by descending rank. Unranked articles come after
// every ranked one; ties keep their input order.
func SortByRank(articles []RankedArticle) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i].Rank, articles[j].Rank
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
}

// Top returns at most n articles from the front of the list
func Top(articles []RankedArticle, n int) []RankedArticle {
	if n < 0 {
		n = 0
	}
	if n > len(articles) {
		n = len(articles)
	}
	return articles[:n]
}
