package llm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/aibench/internal/models"
	"github.com/xhad/aibench/pkg/llm"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }

func TestAnalyzerExtract(t *testing.T) {
	tests := []struct {
		name     string
		response string
		check    func(t *testing.T, useCase *models.UseCase)
	}{
		{
			name: "fenced response",
			response: "```json\n" + `{
				"industry": "retail",
				"business_function": "supply chain",
				"organization": "Carrefour",
				"source_origin": "Le Monde",
				"source_link": "https://wrong.example",
				"impacted_processes": ["replenishment"],
				"gains": ["less waste"],
				"ai_usage": "demand forecasting",
				"ai_technologies": ["machine learning"],
				"partners": []
			}` + "\n```",
			check: func(t *testing.T, useCase *models.UseCase) {
				assert.Equal(t, "Carrefour", useCase.Organization)
				assert.Equal(t, "https://example.com/article", useCase.SourceLink)
				assert.Equal(t, "2024-03-15", useCase.LastUpdated)
				assert.Equal(t, []string{"machine learning"}, useCase.AITechnologies)
			},
		},
		{
			name: "placeholder partners",
			response: `Voici le résultat : {
				"business_function": "marketing",
				"ai_usage": "chatbot",
				"last_updated": "2023-11-02",
				"partners": "Non mentionné"
			}`,
			check: func(t *testing.T, useCase *models.UseCase) {
				assert.Equal(t, "retail", useCase.Industry)
				assert.Equal(t, "2023-11-02", useCase.LastUpdated)
				assert.Equal(t, []string{}, useCase.Partners)
				assert.Equal(t, []string{}, useCase.Gains)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &fakeModel{responses: []string{tt.response}}
			analyzer := llm.NewAnalyzer(model, llm.AnalyzerConfig{Now: fixedNow})

			useCase, err := analyzer.Extract(context.Background(), "article text", "https://example.com/article", "retail")
			require.NoError(t, err)
			tt.check(t, useCase)

			require.Len(t, model.prompts, 1)
			assert.Contains(t, model.prompts[0], "article text")
			assert.Contains(t, model.prompts[0], "retail")
			assert.Contains(t, model.prompts[0], "French")
		})
	}
}

func TestAnalyzerExtractErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
		target   error
	}{
		{"no json", "Sorry, nothing here.", llm.ErrNoJSON},
		{"missing usage", `{"business_function": "HR"}`, llm.ErrIncomplete},
		{"missing function", `{"ai_usage": "screening"}`, llm.ErrIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := llm.NewAnalyzer(&fakeModel{responses: []string{tt.response}}, llm.AnalyzerConfig{})
			_, err := analyzer.Extract(context.Background(), "text", "https://example.com", "retail")
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestAnalyzerWithoutCredentials(t *testing.T) {
	model, err := llm.NewModel(llm.ModelConfig{Provider: llm.ProviderOpenAI})
	require.NoError(t, err)

	analyzer := llm.NewAnalyzer(model, llm.AnalyzerConfig{})
	_, err = analyzer.Extract(context.Background(), "text", "https://example.com", "retail")
	assert.ErrorIs(t, err, llm.ErrNoCredentials)
}

func TestAnalyzerCompare(t *testing.T) {
	t.Run("no use cases", func(t *testing.T) {
		model := &fakeModel{}
		analyzer := llm.NewAnalyzer(model, llm.AnalyzerConfig{})

		text, err := analyzer.Compare(context.Background(), nil, "retail")
		require.NoError(t, err)
		assert.Equal(t, llm.NoBenchmarkData, text)
		assert.Empty(t, model.prompts)
	})

	t.Run("use cases", func(t *testing.T) {
		model := &fakeModel{responses: []string{"  Forecasting dominates.\n"}}
		analyzer := llm.NewAnalyzer(model, llm.AnalyzerConfig{Language: "English"})

		text, err := analyzer.Compare(context.Background(), []models.UseCase{
			{Organization: "Carrefour", AIUsage: "forecasting"},
			{Organization: "Auchan", AIUsage: "pricing"},
		}, "retail")
		require.NoError(t, err)
		assert.Equal(t, "Forecasting dominates.", text)

		require.Len(t, model.prompts, 1)
		assert.Contains(t, model.prompts[0], "Carrefour")
		assert.Contains(t, model.prompts[0], "Auchan")
		assert.Contains(t, model.prompts[0], "English")
	})
}

func TestNewModel(t *testing.T) {
	_, err := llm.NewModel(llm.ModelConfig{Provider: "bard"})
	assert.Error(t, err)

	model, err := llm.NewModel(llm.ModelConfig{Provider: llm.ProviderOllama})
	require.NoError(t, err)
	assert.NotNil(t, model)

	_, err = llm.NewEmbedder(llm.ModelConfig{Provider: llm.ProviderOpenAI})
	assert.ErrorIs(t, err, llm.ErrNoCredentials)
}
