package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"github.com/xhad/aibench/internal/models"
)

// NoEnrichment is returned by Enrich for records that are already complete.
const NoEnrichment = "No enrichment needed."

// Enhancer gates content on relevance and reviews extracted records.
type Enhancer struct {
	model       llms.Model
	language    string
	callOptions []llms.CallOption
}

func NewEnhancer(model llms.Model, language string, opts ...llms.CallOption) *Enhancer {
	if language == "" {
		language = "French"
	}
	return &Enhancer{model: model, language: language, callOptions: opts}
}

// FilterRelevance reports whether content describes an AI use case in the
// industry. Both YES and OUI count as a positive answer.
func (e *Enhancer) FilterRelevance(ctx context.Context, content, industry string) (bool, error) {
	prompt, err := format(relevancePrompt, map[string]any{
		"industry": industry,
		"content":  content,
	})
	if err != nil {
		return false, err
	}

	response, err := llms.GenerateFromSinglePrompt(ctx, e.model, prompt, e.callOptions...)
	if err != nil {
		return false, fmt.Errorf("filter relevance: %w", err)
	}

	answer := strings.ToUpper(response)
	return strings.Contains(answer, "YES") || strings.Contains(answer, "OUI"), nil
}

// VerifyCoherence returns the model's review of a record.
func (e *Enhancer) VerifyCoherence(ctx context.Context, useCase models.UseCase, industry string) (string, error) {
	return e.review(ctx, coherencePrompt, useCase, industry)
}

// Enrich asks the model to estimate the organization and technologies of
// an incomplete record. Complete records are not sent to the model.
func (e *Enhancer) Enrich(ctx context.Context, useCase models.UseCase, industry string) (string, error) {
	if useCase.Organization != "" && len(useCase.AITechnologies) > 0 {
		return NoEnrichment, nil
	}
	return e.review(ctx, enrichPrompt, useCase, industry)
}

func (e *Enhancer) review(ctx context.Context, tmpl prompts.PromptTemplate, useCase models.UseCase, industry string) (string, error) {
	data, err := json.Marshal(useCase)
	if err != nil {
		return "", fmt.Errorf("encode use case: %w", err)
	}

	prompt, err := format(tmpl, map[string]any{
		"industry": industry,
		"language": e.language,
		"use_case": string(data),
	})
	if err != nil {
		return "", err
	}

	response, err := llms.GenerateFromSinglePrompt(ctx, e.model, prompt, e.callOptions...)
	if err != nil {
		return "", fmt.Errorf("review use case: %w", err)
	}
	return strings.TrimSpace(response), nil
}
