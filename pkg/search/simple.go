package search

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xhad/aibench/internal/models"
)

const googleSearchURL = "https://www.google.com/search"

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.2 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:90.0) Gecko/20100101 Firefox/90.0",
}

// Simple scrapes the Google results page. It needs no credentials but is
// fragile against markup changes.
type Simple struct {
	baseURL string
	client  *http.Client
}

func NewSimple(client *http.Client) *Simple {
	if client == nil {
		client = http.DefaultClient
	}
	return &Simple{baseURL: googleSearchURL, client: client}
}

// WithBaseURL points the backend at another results page.
func (s *Simple) WithBaseURL(baseURL string) *Simple {
	s.baseURL = baseURL
	return s
}

func (s *Simple) Name() string { return ProviderSimple }

func (s *Simple) Query(ctx context.Context, query string, numResults int) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("num", strconv.Itoa(numResults+5))
	params.Set("hl", "fr")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received status code %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	var results []models.SearchResult
	doc.Find("div.g").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := unwrapLink(sel.Find("a").First().AttrOr("href", ""))
		if link == "" || strings.HasPrefix(link, "/") {
			return true
		}

		title := strings.TrimSpace(sel.Find("h3").First().Text())
		if title == "" {
			title = "No title"
		}
		snippet := strings.TrimSpace(sel.Find("div.VwiC3b").First().Text())
		if snippet == "" {
			snippet = "No snippet"
		}

		results = append(results, models.SearchResult{Title: title, Link: link, Snippet: snippet})
		return len(results) < numResults
	})

	return results, nil
}

// unwrapLink turns Google's /url?q=<target>&sa=... redirects into the target.
func unwrapLink(href string) string {
	rest, found := strings.CutPrefix(href, "/url?q=")
	if !found {
		return href
	}
	target, _, _ := strings.Cut(rest, "&sa=")
	if unescaped, err := url.QueryUnescape(target); err == nil {
		return unescaped
	}
	return target
}
