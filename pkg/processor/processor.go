package processor

import (
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
	"github.com/xhad/aibench/internal/models"
)

const (
	StrategyWindow    = "window"
	StrategyRecursive = "recursive"
)

type ProcessorConfig struct {
	ChunkSize    int
	ChunkOverlap int
	// Strategy is StrategyWindow (fixed character windows) or
	// StrategyRecursive (separator-aware splitting).
	Strategy string
}

type Processor struct {
	config ProcessorConfig
}

func NewWithConfig(config ProcessorConfig) Processor {
	if config.ChunkSize <= 0 {
		config.ChunkSize = 1000
	}
	if config.ChunkOverlap < 0 || config.ChunkOverlap >= config.ChunkSize {
		config.ChunkOverlap = config.ChunkSize / 10
	}
	if config.Strategy == "" {
		config.Strategy = StrategyWindow
	}

	return Processor{
		config: config,
	}
}

// Chunk splits every document into bounded segments, in document order.
func (p *Processor) Chunk(docs []models.Document) []models.Chunk {
	var chunks []models.Chunk
	for _, doc := range docs {
		chunks = append(chunks, p.chunkDocument(doc)...)
	}
	return chunks
}

func (p *Processor) chunkDocument(doc models.Document) []models.Chunk {
	if doc.Content == "" {
		return nil
	}

	var parts []string
	if p.config.Strategy == StrategyRecursive {
		parts = p.splitRecursive(doc.Content)
	}
	if parts == nil {
		return p.splitWindow(doc)
	}

	chunks := make([]models.Chunk, len(parts))
	for i, part := range parts {
		chunks[i] = models.Chunk{Source: doc.Source, Index: i, Content: part}
	}
	return chunks
}

// splitWindow cuts the content into windows of ChunkSize runes that advance
// by ChunkSize-ChunkOverlap, so each chunk starts with the last ChunkOverlap
// runes of the previous one.
func (p *Processor) splitWindow(doc models.Document) []models.Chunk {
	runes := []rune(doc.Content)
	step := p.config.ChunkSize - p.config.ChunkOverlap

	var chunks []models.Chunk
	for start := 0; ; start += step {
		end := min(start+p.config.ChunkSize, len(runes))

		chunk := models.Chunk{
			Source:  doc.Source,
			Index:   len(chunks),
			Content: string(runes[start:end]),
		}
		if start > 0 {
			chunk.Overlap = string(runes[start : start+p.config.ChunkOverlap])
		}
		chunks = append(chunks, chunk)

		if end == len(runes) {
			break
		}
	}
	return chunks
}

func (p *Processor) splitRecursive(text string) []string {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(p.config.ChunkSize),
		textsplitter.WithChunkOverlap(p.config.ChunkOverlap),
	)

	parts, err := splitter.SplitText(text)
	if err != nil {
		slog.Warn("recursive split failed, using windows", "err", err)
		return nil
	}

	kept := parts[:0]
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	return kept
}
