package processor_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/aibench/internal/models"
	"github.com/xhad/aibench/pkg/processor"
)

func TestProcessor_ChunkWindow(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:    1000,
		ChunkOverlap: 100,
	})

	tests := []struct {
		name   string
		length int
		chunks int
	}{
		{"empty", 0, 0},
		{"shorter than a chunk", 10, 1},
		{"exactly one chunk", 1000, 1},
		{"one past a chunk", 1001, 2},
		{"two full windows", 1900, 2},
		{"large", 10000, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := ramp(tt.length)
			chunks := p.Chunk([]models.Document{{Source: "https://example.com", Content: content}})
			require.Len(t, chunks, tt.chunks)

			if tt.chunks == 0 {
				return
			}

			var rebuilt strings.Builder
			for i, chunk := range chunks {
				assert.Equal(t, i, chunk.Index)
				assert.Equal(t, "https://example.com", chunk.Source)
				assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Content), 1000)

				if i == 0 {
					assert.Empty(t, chunk.Overlap)
				} else {
					prev := chunks[i-1].Content
					assert.Len(t, chunk.Overlap, 100)
					assert.True(t, strings.HasSuffix(prev, chunk.Overlap))
					assert.True(t, strings.HasPrefix(chunk.Content, chunk.Overlap))
				}
				rebuilt.WriteString(strings.TrimPrefix(chunk.Content, chunk.Overlap))
			}
			assert.Equal(t, content, rebuilt.String())
		})
	}
}

func TestProcessor_ChunkKeepsDocumentBoundaries(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{ChunkSize: 50, ChunkOverlap: 10})

	docs := []models.Document{
		{Source: "a", Content: ramp(60)},
		{Source: "b", Content: ramp(30)},
	}

	chunks := p.Chunk(docs)
	require.Len(t, chunks, 3)
	assert.Equal(t, "a", chunks[0].Source)
	assert.Equal(t, "a", chunks[1].Source)
	assert.Equal(t, "b", chunks[2].Source)
	assert.Equal(t, 0, chunks[2].Index)
	assert.Empty(t, chunks[2].Overlap)
}

func TestProcessor_ChunkIsDeterministic(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{})
	docs := []models.Document{{Source: "x", Content: ramp(5555)}}

	assert.Equal(t, p.Chunk(docs), p.Chunk(docs))
}

func TestProcessor_ChunkMultibyte(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{ChunkSize: 10, ChunkOverlap: 2})
	chunks := p.Chunk([]models.Document{{Source: "x", Content: strings.Repeat("日本語", 10)}})

	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk.Content))
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Content), 10)
	}
}

func TestProcessor_ChunkRecursive(t *testing.T) {
	p := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:    100,
		ChunkOverlap: 10,
		Strategy:     processor.StrategyRecursive,
	})

	paragraph := strings.Repeat("AI improves demand forecasting. ", 3)
	content := strings.Join([]string{paragraph, paragraph, paragraph, paragraph}, "\n\n")

	chunks := p.Chunk([]models.Document{{Source: "x", Content: content}})
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk.Content), 100)
		assert.NotEmpty(t, strings.TrimSpace(chunk.Content))
	}
}
