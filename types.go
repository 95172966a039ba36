package main

import (
	"errors"
	"fmt"
	"strconv"
)

// ArticleLink is one article entry extracted from the index page
type ArticleLink struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// RankedArticle is an ArticleLink enriched with the model's score and the article body.
// Rank is nil when the model response did not parse as a number.
// Text is nil when the article page could not be fetched.
type RankedArticle struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	URL    string   `json:"url"`
	Rank   *float64 `json:"rank"`
	Text   *string  `json:"text"`
}

// RankLabel formats the rank for display
func (a RankedArticle) RankLabel() string {
	if a.Rank == nil {
		return "unranked"
	}
	return strconv.FormatFloat(*a.Rank, 'f', -1, 64)
}

// Body returns the article text, or "" when it could not be fetched
func (a RankedArticle) Body() string {
	if a.Text == nil {
		return ""
	}
	return *a.Text
}

// RankRequest carries the reader's inputs for one ranking pass
type RankRequest struct {
	Preference string
	Count      int
}

// RankResult is the outcome of one ranking pass
type RankResult struct {
	RunID      string          `json:"run_id"`
	Preference string          `json:"preference"`
	Count      int             `json:"count"`
	Total      int             `json:"total"`
	Articles   []RankedArticle `json:"articles"`
}

// ErrInvalidRequest is returned when a RankRequest fails validation
var ErrInvalidRequest = errors.New("invalid rank request")

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// ModelError reports a failed model call for a single article
type ModelError struct {
	Number int
	Title  string
	Err    error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("scoring article %d (%s): %v", e.Number, e.Title, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// ModelErrorPolicy decides what a failed model call does to the ranking pass
type ModelErrorPolicy string

const (
	PolicyAbort ModelErrorPolicy = "abort"
	PolicySkip  ModelErrorPolicy = "skip"
)

// DuplicatePolicy decides how anchors sharing a title are collapsed
type DuplicatePolicy string

const (
	DuplicateLast  DuplicatePolicy = "last"
	DuplicateFirst DuplicatePolicy = "first"
	DuplicateKeep  DuplicatePolicy = "keep"
)

// ExtractionMode selects how article text is pulled from a page
type ExtractionMode string

const (
	ExtractSelector    ExtractionMode = "selector"
	ExtractReadability ExtractionMode = "readability"
)
