package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/xhad/aibench/internal/models"
)

const (
	ProviderAuto   = "auto"
	ProviderTavily = "tavily"
	ProviderGoogle = "google"
	ProviderSimple = "simple"
)

// ErrMissingKey is returned by backends that were built without their API
// credentials.
var ErrMissingKey = errors.New("search: API credentials not configured")

// Backend runs a raw query against one search provider.
type Backend interface {
	Name() string
	Query(ctx context.Context, query string, numResults int) ([]models.SearchResult, error)
}

type Config struct {
	Provider     string
	TavilyAPIKey string
	GoogleAPIKey string
	GoogleCSEID  string
	HTTPClient   *http.Client
}

// Searcher builds the industry queries and runs them on a backend.
type Searcher struct {
	backend Backend
}

func NewWithBackend(backend Backend) *Searcher {
	return &Searcher{backend: backend}
}

// New picks a backend. With ProviderAuto Tavily wins when its key is set,
// then Google when both key and engine id are set, then the keyless
// scraper. An explicit provider with missing credentials is still built
// and fails its queries with ErrMissingKey.
func New(config Config) (*Searcher, error) {
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	provider := config.Provider
	if provider == "" || provider == ProviderAuto {
		switch {
		case config.TavilyAPIKey != "":
			provider = ProviderTavily
		case config.GoogleAPIKey != "" && config.GoogleCSEID != "":
			provider = ProviderGoogle
		default:
			provider = ProviderSimple
		}
	}

	var backend Backend
	switch provider {
	case ProviderTavily:
		if config.TavilyAPIKey == "" {
			slog.Warn("TAVILY_API_KEY is not set, searches will return no results")
		}
		backend = NewTavily(config.TavilyAPIKey, config.HTTPClient)
	case ProviderGoogle:
		if config.GoogleAPIKey == "" || config.GoogleCSEID == "" {
			slog.Warn("GOOGLE_API_KEY or GOOGLE_CSE_ID is not set, searches will return no results")
		}
		backend = NewGoogle(config.GoogleAPIKey, config.GoogleCSEID)
	case ProviderSimple:
		backend = NewSimple(config.HTTPClient)
	default:
		return nil, fmt.Errorf("unknown search provider %q", provider)
	}

	slog.Debug("search backend selected", "provider", backend.Name())
	return NewWithBackend(backend), nil
}

func (s *Searcher) Backend() string {
	return s.backend.Name()
}

// SearchIndustryAICases finds articles about AI use cases in an industry.
// On failure the error is logged and returned with an empty result list.
func (s *Searcher) SearchIndustryAICases(ctx context.Context, industry string, numResults int) ([]models.SearchResult, error) {
	return s.run(ctx, IndustryQuery(industry), numResults)
}

// SearchSpecificCase narrows the search to one use case in an industry.
func (s *Searcher) SearchSpecificCase(ctx context.Context, industry, specificCase string) ([]models.SearchResult, error) {
	return s.run(ctx, SpecificCaseQuery(industry, specificCase), 3)
}

func (s *Searcher) run(ctx context.Context, query string, numResults int) ([]models.SearchResult, error) {
	results, err := s.backend.Query(ctx, query, numResults)
	if err != nil {
		slog.Error("search failed", "provider", s.backend.Name(), "err", err)
		return []models.SearchResult{}, fmt.Errorf("%s search: %w", s.backend.Name(), err)
	}
	if len(results) > numResults {
		results = results[:numResults]
	}
	return results, nil
}

func IndustryQuery(industry string) string {
	return fmt.Sprintf("cas d'utilisation IA intelligence artificielle dans %s études de cas exemples France Europe", industry)
}

func SpecificCaseQuery(industry, specificCase string) string {
	return fmt.Sprintf("%s implémentation IA dans %s résultats métriques", specificCase, industry)
}

// ValidLinks keeps the results whose link is an http(s) URL.
func ValidLinks(results []models.SearchResult) []models.SearchResult {
	valid := make([]models.SearchResult, 0, len(results))
	for _, result := range results {
		if strings.HasPrefix(result.Link, "http") {
			valid = append(valid, result)
		}
	}
	return valid
}
