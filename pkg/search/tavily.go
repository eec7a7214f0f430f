package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/xhad/aibench/internal/models"
)

const tavilyURL = "https://api.tavily.com/search"

type tavilyRequest struct {
	APIKey            string   `json:"api_key"`
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth"`
	MaxResults        int      `json:"max_results"`
	IncludeAnswer     bool     `json:"include_answer"`
	IncludeDomains    []string `json:"include_domains"`
	IncludeRawContent bool     `json:"include_raw_content"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Tavily queries the Tavily search API.
type Tavily struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewTavily(apiKey string, client *http.Client) *Tavily {
	if client == nil {
		client = http.DefaultClient
	}
	return &Tavily{apiKey: apiKey, baseURL: tavilyURL, client: client}
}

// WithBaseURL points the backend at another endpoint.
func (t *Tavily) WithBaseURL(baseURL string) *Tavily {
	t.baseURL = baseURL
	return t
}

func (t *Tavily) Name() string { return ProviderTavily }

func (t *Tavily) Query(ctx context.Context, query string, numResults int) ([]models.SearchResult, error) {
	if t.apiKey == "" {
		return nil, ErrMissingKey
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:         t.apiKey,
		Query:          query,
		SearchDepth:    "advanced",
		MaxResults:     numResults,
		IncludeDomains: []string{"*.fr", "*.eu", "*.com", "*.org"},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received status code %d", resp.StatusCode)
	}

	var decoded tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]models.SearchResult, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		results = append(results, models.SearchResult{
			Title:   r.Title,
			Link:    r.URL,
			Snippet: r.Content,
		})
	}
	return results, nil
}
