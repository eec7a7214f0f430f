package types

import (
	"context"

	"github.com/xhad/aibench/internal/models"
)

// Core interfaces shared between the runner, the server and their fakes.

type Searcher interface {
	SearchIndustryAICases(ctx context.Context, industry string, numResults int) ([]models.SearchResult, error)
}

type Loader interface {
	Load(ctx context.Context, url string) []models.Document
	Process(docs []models.Document) []models.ProcessedDocument
}

type Extractor interface {
	Extract(ctx context.Context, content, url, industry string) (*models.UseCase, error)
	Compare(ctx context.Context, useCases []models.UseCase, industry string) (string, error)
}

type Enhancer interface {
	FilterRelevance(ctx context.Context, content, industry string) (bool, error)
	VerifyCoherence(ctx context.Context, useCase models.UseCase, industry string) (string, error)
	Enrich(ctx context.Context, useCase models.UseCase, industry string) (string, error)
}

type UseCaseWriter interface {
	SaveUseCases(ctx context.Context, useCases []models.UseCase) int
}

type UseCaseReader interface {
	GroupByIndustry(ctx context.Context) (map[string][]models.UseCase, error)
	Count(ctx context.Context) (int, error)
}

type ChunkIndexer interface {
	Index(ctx context.Context, docs []models.ProcessedDocument) error
}

type ChunkSearcher interface {
	SimilarText(ctx context.Context, text string, limit int) ([]models.Chunk, error)
}
