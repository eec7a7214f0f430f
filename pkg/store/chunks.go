package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/xhad/aibench/internal/models"
)

type ChunkIndexConfig struct {
	TableName   string
	VectorDim   int
	SearchLimit int
}

// ChunkIndex stores chunk embeddings in a pgvector table for similarity
// lookups across runs.
type ChunkIndex struct {
	config   ChunkIndexConfig
	table    string
	db       DB
	embedder embeddings.Embedder
}

func NewChunkIndex(db DB, embedder embeddings.Embedder, config ChunkIndexConfig) *ChunkIndex {
	if config.TableName == "" {
		config.TableName = "use_case_chunks"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 1536 // Default for OpenAI embeddings
	}
	if config.SearchLimit == 0 {
		config.SearchLimit = 5
	}

	return &ChunkIndex{
		config:   config,
		table:    quoteIdent(config.TableName),
		db:       db,
		embedder: embedder,
	}
}

func (c *ChunkIndex) Init(ctx context.Context) error {
	if _, err := c.db.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			title TEXT,
			chunk_index INTEGER NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d)
		)`, c.table, c.config.VectorDim)
	if _, err := c.db.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		quoteIdent(c.config.TableName+"_embedding_idx"), c.table)
	if _, err := c.db.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// ChunkID is stable for a source, the position of the document among the
// documents loaded from that source, and the chunk position, so re-indexing
// a page replaces its chunks.
func ChunkID(source string, part, index int) string {
	name := source + "#" + strconv.Itoa(part) + "." + strconv.Itoa(index)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

type indexedChunk struct {
	id    string
	title string
	chunk models.Chunk
}

// Index embeds every chunk and upserts them in one transaction.
func (c *ChunkIndex) Index(ctx context.Context, docs []models.ProcessedDocument) error {
	var entries []indexedChunk
	parts := make(map[string]int)
	for _, doc := range docs {
		part := parts[doc.Source]
		parts[doc.Source]++
		for _, chunk := range doc.Chunks {
			entries = append(entries, indexedChunk{
				id:    ChunkID(doc.Source, part, chunk.Index),
				title: sanitizeUTF8(doc.Title),
				chunk: chunk,
			})
		}
	}
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = sanitizeUTF8(entry.chunk.Content)
	}

	vectors, err := c.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(vectors) != len(entries) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(entries))
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, source, title, chunk_index, content, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content, embedding = EXCLUDED.embedding`,
		c.table)

	batch := &pgx.Batch{}
	for i, entry := range entries {
		batch.Queue(stmt,
			entry.id,
			entry.chunk.Source,
			entry.title,
			entry.chunk.Index,
			texts[i],
			pgvector.NewVector(vectors[i]),
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("batch exec %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	slog.Info("indexed chunks", "count", len(entries))
	return nil
}

// Similar returns the stored chunks closest to the embedding by cosine
// distance.
func (c *ChunkIndex) Similar(ctx context.Context, embedding []float32, limit int) ([]models.Chunk, error) {
	if limit <= 0 {
		limit = c.config.SearchLimit
	}

	query := fmt.Sprintf(`
		SELECT source, chunk_index, content
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`,
		c.table)

	rows, err := c.db.Query(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.Chunk
	for rows.Next() {
		var chunk models.Chunk
		if err := rows.Scan(&chunk.Source, &chunk.Index, &chunk.Content); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// SimilarText embeds text and returns the closest stored chunks.
func (c *ChunkIndex) SimilarText(ctx context.Context, text string, limit int) ([]models.Chunk, error) {
	embedding, err := c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return c.Similar(ctx, embedding, limit)
}
