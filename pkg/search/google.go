package search

import (
	"context"
	"fmt"

	"github.com/xhad/aibench/internal/models"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// Google queries a Programmable Search Engine through the Custom Search
// JSON API. The API returns at most 10 results per request.
type Google struct {
	apiKey   string
	cx       string
	endpoint string
}

func NewGoogle(apiKey, cx string) *Google {
	return &Google{apiKey: apiKey, cx: cx}
}

// WithEndpoint points the backend at another API root.
func (g *Google) WithEndpoint(endpoint string) *Google {
	g.endpoint = endpoint
	return g
}

func (g *Google) Name() string { return ProviderGoogle }

func (g *Google) Query(ctx context.Context, query string, numResults int) ([]models.SearchResult, error) {
	if g.apiKey == "" || g.cx == "" {
		return nil, ErrMissingKey
	}

	opts := []option.ClientOption{option.WithAPIKey(g.apiKey)}
	if g.endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.endpoint))
	}

	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create custom search client: %w", err)
	}

	res, err := svc.Cse.List().
		Context(ctx).
		Q(query).
		Cx(g.cx).
		Num(int64(min(numResults, 10))).
		Lr("lang_fr").
		Gl("fr").
		Do()
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(res.Items))
	for _, item := range res.Items {
		results = append(results, models.SearchResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
