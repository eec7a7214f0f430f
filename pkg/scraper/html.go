package scraper

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/xhad/aibench/internal/models"
)

var errEmptyPage = errors.New("no text content found")

var excessiveLinesRe = regexp.MustCompile(`\n{3,}`)

// HTMLExtractor turns an HTML page into one or more documents.
type HTMLExtractor interface {
	Extract(body io.Reader, source string) ([]models.Document, error)
}

// mainSelectors are tried in order before falling back to <body>.
var mainSelectors = []string{
	"main",
	"article",
	"[role=main]",
	".content",
	"#content",
	".post-content",
	".entry-content",
}

const noiseSelectors = "script, style, nav, header, footer, noscript, iframe, aside, form"

func selectMain(doc *goquery.Document) *goquery.Selection {
	doc.Find(noiseSelectors).Remove()

	for _, selector := range mainSelectors {
		if selected := doc.Find(selector).First(); selected.Length() > 0 && strings.TrimSpace(selected.Text()) != "" {
			return selected
		}
	}
	return doc.Find("body")
}

// TextExtractor returns the main content of a page as whitespace-collapsed
// plain text.
type TextExtractor struct{}

func (TextExtractor) Extract(body io.Reader, source string) ([]models.Document, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	content := cleanContent(selectMain(doc).Text())
	if content == "" {
		return nil, errEmptyPage
	}

	return []models.Document{{
		Source:  source,
		Title:   title,
		Content: content,
		Metadata: map[string]interface{}{
			"format": "text",
		},
	}}, nil
}

// MarkdownExtractor converts the main content of a page to GitHub-flavored
// markdown, keeping headings and lists that plain text flattens.
type MarkdownExtractor struct {
	converter *md.Converter
}

func NewMarkdownExtractor() *MarkdownExtractor {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &MarkdownExtractor{converter: converter}
}

func (m *MarkdownExtractor) Extract(body io.Reader, source string) ([]models.Document, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	html, err := goquery.OuterHtml(selectMain(doc))
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	markdown, err := m.converter.ConvertString(html)
	if err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	markdown = strings.TrimSpace(excessiveLinesRe.ReplaceAllString(markdown, "\n\n"))
	if markdown == "" {
		return nil, errEmptyPage
	}

	return []models.Document{{
		Source:  source,
		Title:   title,
		Content: markdown,
		Metadata: map[string]interface{}{
			"format": "markdown",
		},
	}}, nil
}

func cleanContent(content string) string {
	// Remove extra whitespace
	content = strings.Join(strings.Fields(content), " ")

	// Remove common noise
	noisePatterns := []string{
		"Cookie Policy",
		"Accept Cookies",
		"Privacy Policy",
		"Terms of Service",
	}

	for _, pattern := range noisePatterns {
		content = strings.ReplaceAll(content, pattern, "")
	}

	return strings.TrimSpace(content)
}
