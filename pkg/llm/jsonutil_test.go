package llm_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/aibench/pkg/llm"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "fenced block",
			input:    "Here you go:\n```json\n{\"industry\": \"retail\"}\n```\nAnything else?",
			expected: `{"industry": "retail"}`,
		},
		{
			name:     "fence without language",
			input:    "```\n{\"industry\": \"retail\"}\n```",
			expected: `{"industry": "retail"}`,
		},
		{
			name:     "object in prose",
			input:    `The record is {"industry": "retail", "gains": []} as requested.`,
			expected: `{"industry": "retail", "gains": []}`,
		},
		{
			name:     "trailing commas",
			input:    "{\"gains\": [\"a\", \"b\",],\n}",
			expected: "{\"gains\": [\"a\", \"b\"]}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := llm.ExtractJSON(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
			assert.True(t, json.Valid([]byte(out)))
		})
	}
}

func TestExtractJSONNone(t *testing.T) {
	_, err := llm.ExtractJSON("I could not find any use case in this article.")
	assert.ErrorIs(t, err, llm.ErrNoJSON)
}

func TestRepairListFields(t *testing.T) {
	data := map[string]any{
		"partners":           "Non mentionné",
		"gains":              "Lower costs",
		"ai_technologies":    []any{"NLP", nil, "N/A", 42.0},
		"impacted_processes": nil,
		"industry":           "retail",
	}

	llm.RepairListFields(data, []string{"partners", "gains", "ai_technologies", "impacted_processes", "missing"}, llm.Placeholders)

	assert.Equal(t, []any{}, data["partners"])
	assert.Equal(t, []any{"Lower costs"}, data["gains"])
	assert.Equal(t, []any{"NLP", "42"}, data["ai_technologies"])
	assert.Equal(t, []any{}, data["impacted_processes"])
	assert.Equal(t, []any{}, data["missing"])
	assert.Equal(t, "retail", data["industry"])
}

func TestDecodeUseCase(t *testing.T) {
	t.Run("well formed", func(t *testing.T) {
		useCase, err := llm.DecodeUseCase([]byte(`{
			"industry": "retail",
			"business_function": "supply chain",
			"ai_usage": "demand forecasting",
			"gains": ["less waste"]
		}`))
		require.NoError(t, err)
		assert.Equal(t, "supply chain", useCase.BusinessFunction)
		assert.Equal(t, []string{"less waste"}, useCase.Gains)
		assert.NotNil(t, useCase.Partners)
		assert.Empty(t, useCase.Partners)
	})

	t.Run("placeholder lists are repaired", func(t *testing.T) {
		useCase, err := llm.DecodeUseCase([]byte(`{
			"business_function": "marketing",
			"ai_usage": "personalization",
			"partners": "Non mentionné",
			"ai_technologies": "recommender systems",
			"impacted_processes": null
		}`))
		require.NoError(t, err)
		assert.Equal(t, []string{}, useCase.Partners)
		assert.Equal(t, []string{"recommender systems"}, useCase.AITechnologies)
		assert.Equal(t, []string{}, useCase.ImpactedProcesses)
	})

	t.Run("scalar mismatch is not repaired", func(t *testing.T) {
		_, err := llm.DecodeUseCase([]byte(`{"economic_value": 12, "partners": "Non mentionné"}`))
		var typeErr *json.UnmarshalTypeError
		require.ErrorAs(t, err, &typeErr)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := llm.DecodeUseCase([]byte(`{"industry": `))
		assert.Error(t, err)
	})
}
