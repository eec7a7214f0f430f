package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	switch c.LLM.Provider {
	case "openai", "ollama":
	default:
		errors = append(errors, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unsupported provider: %s", c.LLM.Provider),
		})
	}

	if c.LLM.Provider == "ollama" && c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "Ollama base URL is required",
		})
	}

	if c.LLM.BaseURL != "" {
		if u, err := url.Parse(c.LLM.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.base_url",
				Message: "invalid LLM base URL",
			})
		}
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 16384 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 16384",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	// Validate Search config
	switch c.Search.Provider {
	case "auto", "tavily", "google", "simple":
	default:
		errors = append(errors, ValidationError{
			Field:   "search.provider",
			Message: fmt.Sprintf("unsupported provider: %s", c.Search.Provider),
		})
	}

	if c.Search.Results < 1 {
		errors = append(errors, ValidationError{
			Field:   "search.results",
			Message: "results must be positive",
		})
	}

	// Validate Database config
	if c.Database.URL != "" {
		if u, err := url.Parse(c.Database.URL); err != nil || u.Scheme == "" {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	// Validate Scraper config
	if c.Scraper.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scraper.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.Scraper.HTMLFormat != "text" && c.Scraper.HTMLFormat != "markdown" {
		errors = append(errors, ValidationError{
			Field:   "scraper.html_format",
			Message: "html_format must be text or markdown",
		})
	}

	if c.Scraper.MaxPDFPages < 1 {
		errors = append(errors, ValidationError{
			Field:   "scraper.max_pdf_pages",
			Message: "max_pdf_pages must be positive",
		})
	}

	// Validate Processor config
	if c.Processor.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "processor.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.Processor.ChunkOverlap < 0 || c.Processor.ChunkOverlap >= c.Processor.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "processor.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}

	if c.Processor.Strategy != "window" && c.Processor.Strategy != "recursive" {
		errors = append(errors, ValidationError{
			Field:   "processor.strategy",
			Message: "strategy must be window or recursive",
		})
	}

	if c.Index.Enabled && c.Index.VectorDim < 1 {
		errors = append(errors, ValidationError{
			Field:   "index.vector_dim",
			Message: "vector_dim must be positive",
		})
	}

	switch c.Output.Format {
	case "json", "csv", "all":
	default:
		errors = append(errors, ValidationError{
			Field:   "output.format",
			Message: "format must be json, csv or all",
		})
	}

	return errors
}
