package ingest

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/xhad/aibench/internal/models"
	"github.com/xhad/aibench/pkg/processor"
	"github.com/xhad/aibench/pkg/scraper"
)

// Fetcher retrieves the raw documents behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) scraper.Result
}

// Stats counts what the pipeline has seen since it was created.
type Stats struct {
	Loaded    atomic.Int64
	Failed    atomic.Int64
	Truncated atomic.Int64
}

type Pipeline struct {
	fetcher   Fetcher
	processor processor.Processor
	stats     Stats
}

func New(fetcher Fetcher, p processor.Processor) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		processor: p,
	}
}

// Load fetches a URL and bounds its content. The returned slice is never
// empty: failures come back as a single document describing the error.
func (p *Pipeline) Load(ctx context.Context, url string) []models.Document {
	result := p.fetcher.Fetch(ctx, url)
	docs := result.Documents()

	if result.Failed() {
		p.stats.Failed.Add(1)
		if err, ok := result.(error); ok {
			slog.Warn("fetch failed", "url", url, "err", err)
		} else {
			slog.Warn("fetch failed", "url", url)
		}
		return docs
	}

	p.stats.Loaded.Add(1)
	docs = processor.Normalize(docs)
	for _, doc := range docs {
		if doc.Truncated {
			p.stats.Truncated.Add(1)
			slog.Info("document truncated", "url", url, "runes", processor.MaxDocumentLength)
			break
		}
	}

	return docs
}

// ExtractKeyInformation splits loaded documents into overlapping chunks.
func (p *Pipeline) ExtractKeyInformation(docs []models.Document) []models.Chunk {
	return p.processor.Chunk(docs)
}

// Process chunks each document and keeps the chunks next to it, which is
// the shape the chunk index stores.
func (p *Pipeline) Process(docs []models.Document) []models.ProcessedDocument {
	processed := make([]models.ProcessedDocument, 0, len(docs))
	for _, doc := range docs {
		processed = append(processed, models.ProcessedDocument{
			Document: doc,
			Chunks:   p.ExtractKeyInformation([]models.Document{doc}),
		})
	}
	return processed
}

func (p *Pipeline) Stats() *Stats {
	return &p.stats
}
