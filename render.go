package main

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/mattn/go-runewidth"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns ranking results into HTML pages and console Markdown
type Renderer struct {
	templates *template.Template
	converter *md.Converter
}

// pageData is the view model of the web UI page
type pageData struct {
	Preference string
	Count      int
	Counts     []int
	Result     *RankResult
	Error      string
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Renderer{
		templates: templates,
		converter: md.NewConverter("", true, &md.Options{HorizontalRule: "---"}),
	}, nil
}

// Page writes the full web UI page
func (r *Renderer) Page(w io.Writer, data pageData) error {
	return r.templates.ExecuteTemplate(w, "page", data)
}

// ArticlesHTML renders the result list as an HTML fragment
func (r *Renderer) ArticlesHTML(result *RankResult) (string, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "articles", result); err != nil {
		return "", fmt.Errorf("rendering articles: %w", err)
	}
	return buf.String(), nil
}

// Markdown renders the result list as Markdown for the console
func (r *Renderer) Markdown(result *RankResult) (string, error) {
	html, err := r.ArticlesHTML(result)
	if err != nil {
		return "", err
	}

	markdown, err := r.converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}

// WriteTable prints a fixed-width summary of the articles.
// Titles wider than maxTitle display cells are truncated.
func WriteTable(w io.Writer, articles []RankedArticle, maxTitle int) error {
	rows := [][3]string{{"#", "RANK", "TITLE"}}
	for _, a := range articles {
		rows = append(rows, [3]string{
			fmt.Sprint(a.Number),
			a.RankLabel(),
			runewidth.Truncate(a.Title, maxTitle, "…"),
		})
	}

	var widths [3]int
	for _, row := range rows {
		for i, cell := range row {
			if width := runewidth.StringWidth(cell); width > widths[i] {
				widths[i] = width
			}
		}
	}

	for _, row := range rows {
		line := fmt.Sprintf("%s  %s  %s",
			runewidth.FillRight(row[0], widths[0]),
			runewidth.FillRight(row[1], widths[1]),
			row[2])
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// countOptions lists the selectable article counts
func countOptions(max int) []int {
	counts := make([]int, max)
	for i := range counts {
		counts[i] = i + 1
	}
	return counts
}
