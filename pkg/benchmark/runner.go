package benchmark

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xhad/aibench/internal/models"
	"github.com/xhad/aibench/internal/types"
	"github.com/xhad/aibench/pkg/output"
	"github.com/xhad/aibench/pkg/search"
)

// Review holds the model's notes on one collected use case.
type Review struct {
	Source     string
	Coherence  string
	Enrichment string
}

// Report summarizes one run.
type Report struct {
	Industry  string
	UseCases  []models.UseCase
	Reviews   []Review
	Benchmark string
	Files     []string
	Processed int
	Relevant  int
	Failed    int
	Saved     int
	Duration  time.Duration
}

// Progress is called after each search result has been handled.
type Progress func(done, total int, url string)

type Runner struct {
	Searcher  types.Searcher
	Loader    types.Loader
	Extractor types.Extractor
	Enhancer  types.Enhancer
	// Store and Indexer are optional.
	Store    types.UseCaseWriter
	Indexer  types.ChunkIndexer
	Output   output.Writer
	Progress Progress
}

// Run searches for articles about AI in industry, turns the relevant ones
// into use cases, writes the export files and saves the records. A failure
// on one article is logged and the article skipped. Output files are
// written even when no use case was found.
func (r *Runner) Run(ctx context.Context, industry string, count int) (*Report, error) {
	start := time.Now()
	report := &Report{Industry: industry, UseCases: []models.UseCase{}}

	results, err := r.Searcher.SearchIndustryAICases(ctx, industry, count)
	if err != nil {
		slog.Warn("search returned no results", "industry", industry, "err", err)
	}
	results = search.ValidLinks(results)
	slog.Info("search complete", "industry", industry, "results", len(results))

	var processed []models.ProcessedDocument
	for i, result := range results {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		docs := r.handle(ctx, report, result, industry)
		if r.Indexer != nil && len(docs) > 0 {
			processed = append(processed, r.Loader.Process(docs)...)
		}

		if r.Progress != nil {
			r.Progress(i+1, len(results), result.Link)
		}
	}

	if r.Indexer != nil && len(processed) > 0 {
		if err := r.Indexer.Index(ctx, processed); err != nil {
			slog.Error("chunk indexing failed", "err", err)
		}
	}

	report.Benchmark, err = r.Extractor.Compare(ctx, report.UseCases, industry)
	if err != nil {
		slog.Error("benchmark comparison failed", "industry", industry, "err", err)
		report.Benchmark = fmt.Sprintf("Benchmark generation failed: %v", err)
	}

	report.Files, err = r.Output.Write(industry, report.UseCases, report.Benchmark)
	if err != nil {
		return report, fmt.Errorf("write outputs: %w", err)
	}

	if r.Store != nil && len(report.UseCases) > 0 {
		report.Saved = r.Store.SaveUseCases(ctx, report.UseCases)
		slog.Info("saved use cases", "saved", report.Saved, "total", len(report.UseCases))
	}

	report.Duration = time.Since(start)
	return report, nil
}

// handle runs one search result through loading, relevance, extraction and
// review. It returns the loaded documents of relevant articles for
// indexing.
func (r *Runner) handle(ctx context.Context, report *Report, result models.SearchResult, industry string) []models.Document {
	url := result.Link
	report.Processed++
	log := slog.With("url", url)

	docs := r.Loader.Load(ctx, url)
	if failed(docs) {
		report.Failed++
		return nil
	}

	content := joinContent(docs)

	relevant, err := r.Enhancer.FilterRelevance(ctx, content, industry)
	if err != nil {
		log.Error("relevance check failed", "err", err)
		report.Failed++
		return nil
	}
	if !relevant {
		log.Info("article not relevant")
		return nil
	}
	report.Relevant++

	useCase, err := r.Extractor.Extract(ctx, content, url, industry)
	if err != nil {
		log.Error("extraction failed", "err", err)
		report.Failed++
		return nil
	}

	review := Review{Source: url}
	if review.Coherence, err = r.Enhancer.VerifyCoherence(ctx, *useCase, industry); err != nil {
		log.Error("coherence check failed", "err", err)
		report.Failed++
		return nil
	}
	if review.Enrichment, err = r.Enhancer.Enrich(ctx, *useCase, industry); err != nil {
		log.Error("enrichment failed", "err", err)
		report.Failed++
		return nil
	}

	log.Info("use case collected", "organization", useCase.Organization)
	report.UseCases = append(report.UseCases, *useCase)
	report.Reviews = append(report.Reviews, review)
	return docs
}

func failed(docs []models.Document) bool {
	if len(docs) != 1 {
		return false
	}
	isErr, _ := docs[0].Metadata["error"].(bool)
	return isErr
}

func joinContent(docs []models.Document) string {
	contents := make([]string, len(docs))
	for i, doc := range docs {
		contents[i] = doc.Content
	}
	return strings.Join(contents, " ")
}
