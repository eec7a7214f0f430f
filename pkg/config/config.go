package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Search    SearchConfig    `yaml:"search"`
	Database  DatabaseConfig  `yaml:"database"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Processor ProcessorConfig `yaml:"processor"`
	Index     IndexConfig     `yaml:"index"`
	Output    OutputConfig    `yaml:"output"`
	Server    ServerConfig    `yaml:"server"`
}

type LLMConfig struct {
	Provider       string  `yaml:"provider"`
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	EmbeddingModel string  `yaml:"embedding_model"`
	MaxTokens      int     `yaml:"max_tokens"`
	Temperature    float64 `yaml:"temperature"`
	Language       string  `yaml:"language"`
}

type SearchConfig struct {
	Provider     string `yaml:"provider"`
	TavilyAPIKey string `yaml:"tavily_api_key"`
	GoogleAPIKey string `yaml:"google_api_key"`
	GoogleCSEID  string `yaml:"google_cse_id"`
	Results      int    `yaml:"results"`
}

type DatabaseConfig struct {
	URL       string `yaml:"url"`
	TableName string `yaml:"table_name"`
}

type ScraperConfig struct {
	RateLimit    float64       `yaml:"rate_limit"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	HTMLFormat   string        `yaml:"html_format"`
	MaxPDFPages  int           `yaml:"max_pdf_pages"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

type ProcessorConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	Strategy     string `yaml:"strategy"`
}

type IndexConfig struct {
	Enabled   bool   `yaml:"enabled"`
	TableName string `yaml:"table_name"`
	VectorDim int    `yaml:"vector_dim"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// LoadDotEnv reads .env into the process environment. Variables already set
// are left alone.
func LoadDotEnv() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/aibench/config.yaml"),
			"/etc/aibench/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := newConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	mergeWithEnv(config)
	applyDefaults(config)

	return config, nil
}

// newConfig presets the fields for which zero is a valid setting. The YAML
// decoder only overwrites keys present in the file, so an explicit 0 stays
// 0 while a missing key keeps the default.
func newConfig() *Config {
	return &Config{
		LLM:       LLMConfig{Temperature: 0.1},
		Processor: ProcessorConfig{ChunkOverlap: 100},
	}
}

func getDefaultConfig() (*Config, error) {
	config := newConfig()
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Provider == "" {
		config.LLM.Provider = "openai"
	}
	if config.LLM.Model == "" {
		if config.LLM.Provider == "ollama" {
			config.LLM.Model = "mistral"
		} else {
			config.LLM.Model = "gpt-4o-mini"
		}
	}
	if config.LLM.EmbeddingModel == "" {
		if config.LLM.Provider == "ollama" {
			config.LLM.EmbeddingModel = "nomic-embed-text:latest"
		} else {
			config.LLM.EmbeddingModel = "text-embedding-3-small"
		}
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 2000
	}
	if config.LLM.BaseURL == "" && config.LLM.Provider == "ollama" {
		config.LLM.BaseURL = "http://localhost:11434"
	}
	if config.LLM.Language == "" {
		config.LLM.Language = "French"
	}

	if config.Search.Provider == "" {
		config.Search.Provider = "auto"
	}
	if config.Search.Results == 0 {
		config.Search.Results = 5
	}

	if config.Database.URL == "" {
		config.Database.URL = "postgres://localhost:5432/ai_use_cases?sslmode=disable"
	}
	if config.Database.TableName == "" {
		config.Database.TableName = "ai_use_cases"
	}

	if config.Scraper.RateLimit == 0 {
		config.Scraper.RateLimit = 2.0
	}
	if config.Scraper.Timeout == 0 {
		config.Scraper.Timeout = 30 * time.Second
	}
	if config.Scraper.UserAgent == "" {
		config.Scraper.UserAgent = "Mozilla/5.0 (compatible; aibench/1.0)"
	}
	if config.Scraper.HTMLFormat == "" {
		config.Scraper.HTMLFormat = "text"
	}
	if config.Scraper.MaxPDFPages == 0 {
		config.Scraper.MaxPDFPages = 5
	}
	if config.Scraper.MaxBodyBytes == 0 {
		config.Scraper.MaxBodyBytes = 20 << 20
	}

	if config.Processor.ChunkSize == 0 {
		config.Processor.ChunkSize = 1000
	}
	if config.Processor.Strategy == "" {
		config.Processor.Strategy = "window"
	}

	if config.Index.TableName == "" {
		config.Index.TableName = "use_case_chunks"
	}
	if config.Index.VectorDim == 0 {
		config.Index.VectorDim = 1536
	}

	if config.Output.Dir == "" {
		config.Output.Dir = "output"
	}
	if config.Output.Format == "" {
		config.Output.Format = "all"
	}

	if config.Server.Addr == "" {
		config.Server.Addr = ":5000"
	}
	if config.Server.RefreshInterval == 0 {
		config.Server.RefreshInterval = 10 * time.Second
	}
}

func mergeWithEnv(config *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && config.LLM.APIKey == "" {
		config.LLM.APIKey = key
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if key := os.Getenv("TAVILY_API_KEY"); key != "" {
		config.Search.TavilyAPIKey = key
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		config.Search.GoogleAPIKey = key
	}
	if cx := os.Getenv("GOOGLE_CSE_ID"); cx != "" {
		config.Search.GoogleCSEID = cx
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if port := os.Getenv("PORT"); port != "" {
		config.Server.Addr = ":" + port
	}
}

// MissingCredentials lists the credentials whose absence leaves a component
// constructible but degraded.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.LLM.Provider == "openai" && c.LLM.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	switch c.Search.Provider {
	case "tavily":
		if c.Search.TavilyAPIKey == "" {
			missing = append(missing, "TAVILY_API_KEY")
		}
	case "google":
		if c.Search.GoogleAPIKey == "" {
			missing = append(missing, "GOOGLE_API_KEY")
		}
		if c.Search.GoogleCSEID == "" {
			missing = append(missing, "GOOGLE_CSE_ID")
		}
	}
	return missing
}
