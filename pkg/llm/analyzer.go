package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/xhad/aibench/internal/models"
)

// ErrIncomplete is returned when a decoded use case lacks a required field.
var ErrIncomplete = errors.New("incomplete use case")

type AnalyzerConfig struct {
	// Language the model answers in.
	Language    string
	CallOptions []llms.CallOption
	// Now is used for the default LastUpdated date.
	Now func() time.Time
}

// Analyzer turns article text into use case records and compares them.
type Analyzer struct {
	model  llms.Model
	config AnalyzerConfig
}

func NewAnalyzer(model llms.Model, config AnalyzerConfig) *Analyzer {
	if config.Language == "" {
		config.Language = "French"
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Analyzer{model: model, config: config}
}

func (a *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, a.model, prompt, a.config.CallOptions...)
}

// Extract asks the model for a structured use case describing content.
// SourceLink is always set to url.
func (a *Analyzer) Extract(ctx context.Context, content, url, industry string) (*models.UseCase, error) {
	prompt, err := format(extractPrompt, map[string]any{
		"industry": industry,
		"language": a.config.Language,
		"url":      url,
		"content":  content,
	})
	if err != nil {
		return nil, err
	}

	response, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extract use case: %w", err)
	}

	raw, err := ExtractJSON(response)
	if err != nil {
		return nil, fmt.Errorf("extract use case: %w", err)
	}

	useCase, err := DecodeUseCase([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("extract use case: %w", err)
	}

	useCase.SourceLink = url
	if useCase.Industry == "" {
		useCase.Industry = industry
	}
	if useCase.LastUpdated == "" {
		useCase.LastUpdated = a.config.Now().Format("2006-01-02")
	}

	if useCase.BusinessFunction == "" {
		return nil, fmt.Errorf("%w: business_function is empty", ErrIncomplete)
	}
	if useCase.AIUsage == "" {
		return nil, fmt.Errorf("%w: ai_usage is empty", ErrIncomplete)
	}

	return useCase, nil
}

// DecodeUseCase decodes a use case object. When a list field holds the
// wrong type, the object is repaired with RepairListFields and decoded
// again; if that still fails the first error is returned.
func DecodeUseCase(raw []byte) (*models.UseCase, error) {
	var useCase models.UseCase
	err := json.Unmarshal(raw, &useCase)
	if err == nil {
		useCase.Normalize()
		return &useCase, nil
	}

	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return nil, err
	}

	var generic map[string]any
	if json.Unmarshal(raw, &generic) != nil {
		return nil, err
	}
	RepairListFields(generic, models.ListFields, Placeholders)

	repaired, mErr := json.Marshal(generic)
	if mErr != nil {
		return nil, err
	}

	var fixed models.UseCase
	if json.Unmarshal(repaired, &fixed) != nil {
		return nil, err
	}
	fixed.Normalize()
	return &fixed, nil
}

// Compare writes a comparative analysis of the use cases of one industry.
func (a *Analyzer) Compare(ctx context.Context, useCases []models.UseCase, industry string) (string, error) {
	if len(useCases) == 0 {
		return NoBenchmarkData, nil
	}

	described := make([]string, 0, len(useCases))
	for _, useCase := range useCases {
		data, err := json.Marshal(useCase)
		if err != nil {
			return "", fmt.Errorf("encode use case: %w", err)
		}
		described = append(described, string(data))
	}

	prompt, err := format(comparePrompt, map[string]any{
		"industry":  industry,
		"language":  a.config.Language,
		"use_cases": strings.Join(described, "\n\n"),
	})
	if err != nil {
		return "", err
	}

	response, err := a.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("compare use cases: %w", err)
	}
	return strings.TrimSpace(response), nil
}

// NoBenchmarkData is the benchmark text for an industry without use cases.
const NoBenchmarkData = "No data available for benchmarking."
