package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/xhad/aibench/pkg/benchmark"
	cfgPkg "github.com/xhad/aibench/pkg/config"
	"github.com/xhad/aibench/pkg/ingest"
	"github.com/xhad/aibench/pkg/llm"
	"github.com/xhad/aibench/pkg/output"
	"github.com/xhad/aibench/pkg/processor"
	"github.com/xhad/aibench/pkg/scraper"
	"github.com/xhad/aibench/pkg/search"
	"github.com/xhad/aibench/pkg/store"
)

func runCmd(flags *globalFlags) *cobra.Command {
	var (
		industry string
		count    int
		format   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Search, extract and store AI use cases for one industry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("count") {
				cfg.Search.Results = count
			}
			if cmd.Flags().Changed("format") {
				cfg.Output.Format = format
			}
			if errs := cfg.Validate(); len(errs) > 0 {
				return errs[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBenchmark(ctx, cfg, industry)
		},
	}

	cmd.Flags().StringVarP(&industry, "industry", "i", "", "Industry to benchmark (e.g. retail, banking)")
	cmd.Flags().IntVarP(&count, "count", "n", 5, "Number of search results to process")
	cmd.Flags().StringVarP(&format, "format", "f", output.FormatAll, "Output format: json, csv or all")
	cmd.MarkFlagRequired("industry")

	return cmd
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("articles"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func runBenchmark(ctx context.Context, cfg *cfgPkg.Config, industry string) error {
	color.Cyan("\nBenchmarking AI use cases in %s\n", industry)

	modelConfig := modelConfigFrom(cfg)
	model, err := llm.NewModel(modelConfig)
	if err != nil {
		return err
	}

	searcher, err := search.New(search.Config{
		Provider:     cfg.Search.Provider,
		TavilyAPIKey: cfg.Search.TavilyAPIKey,
		GoogleAPIKey: cfg.Search.GoogleAPIKey,
		GoogleCSEID:  cfg.Search.GoogleCSEID,
	})
	if err != nil {
		return err
	}

	pipeline := ingest.New(newScraper(cfg), processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:    cfg.Processor.ChunkSize,
		ChunkOverlap: cfg.Processor.ChunkOverlap,
		Strategy:     cfg.Processor.Strategy,
	}))

	runner := &benchmark.Runner{
		Searcher: searcher,
		Loader:   pipeline,
		Extractor: llm.NewAnalyzer(model, llm.AnalyzerConfig{
			Language:    cfg.LLM.Language,
			CallOptions: modelConfig.CallOptions(),
		}),
		Enhancer: llm.NewEnhancer(model, cfg.LLM.Language, modelConfig.CallOptions()...),
		Output:   output.Writer{Dir: cfg.Output.Dir, Format: cfg.Output.Format},
	}

	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		slog.Warn("database unavailable, results will not be saved", "err", err)
	} else {
		defer pool.Close()
		useCases := store.NewUseCaseStore(pool, cfg.Database.TableName)
		if err := useCases.Init(ctx); err != nil {
			return err
		}
		runner.Store = useCases

		if cfg.Index.Enabled {
			if index := newChunkIndex(ctx, pool, cfg); index != nil {
				runner.Indexer = index
			}
		}
	}

	bar := getProgressBar(cfg.Search.Results, " Processing articles")
	runner.Progress = func(done, total int, url string) {
		bar.ChangeMax(total)
		bar.Set(done)
	}

	report, err := runner.Run(ctx, industry, cfg.Search.Results)
	bar.Finish()
	if err != nil {
		return err
	}

	printReport(report, pipeline.Stats())
	return nil
}

func newScraper(cfg *cfgPkg.Config) *scraper.Scraper {
	var html scraper.HTMLExtractor = scraper.TextExtractor{}
	if cfg.Scraper.HTMLFormat == "markdown" {
		html = scraper.NewMarkdownExtractor()
	}
	return scraper.NewWithConfig(scraper.ScraperConfig{
		RateLimit:    cfg.Scraper.RateLimit,
		Timeout:      cfg.Scraper.Timeout,
		UserAgent:    cfg.Scraper.UserAgent,
		MaxPDFPages:  cfg.Scraper.MaxPDFPages,
		MaxBodyBytes: cfg.Scraper.MaxBodyBytes,
		HTML:         html,
		PDF:          scraper.LedongthucParser{},
	})
}

func modelConfigFrom(cfg *cfgPkg.Config) llm.ModelConfig {
	return llm.ModelConfig{
		Provider:       cfg.LLM.Provider,
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		EmbeddingModel: cfg.LLM.EmbeddingModel,
		MaxTokens:      cfg.LLM.MaxTokens,
		Temperature:    cfg.LLM.Temperature,
	}
}

// newChunkIndex returns nil when embeddings are unavailable or the table
// cannot be created.
func newChunkIndex(ctx context.Context, db store.DB, cfg *cfgPkg.Config) *store.ChunkIndex {
	embedder, err := llm.NewEmbedder(modelConfigFrom(cfg))
	if err != nil {
		slog.Warn("chunk index disabled", "err", err)
		return nil
	}

	index := store.NewChunkIndex(db, embedder, store.ChunkIndexConfig{
		TableName: cfg.Index.TableName,
		VectorDim: cfg.Index.VectorDim,
	})
	if err := index.Init(ctx); err != nil {
		slog.Warn("chunk index disabled", "err", err)
		return nil
	}
	return index
}

func printReport(report *benchmark.Report, stats *ingest.Stats) {
	fmt.Println()
	color.Green("✓ Processed %d articles in %s", report.Processed, report.Duration.Round(time.Millisecond))
	fmt.Printf("  relevant: %d  use cases: %d  failed: %d  saved: %d\n",
		report.Relevant, len(report.UseCases), report.Failed, report.Saved)
	fmt.Printf("  fetched: %d  fetch errors: %d  truncated: %d\n",
		stats.Loaded.Load(), stats.Failed.Load(), stats.Truncated.Load())

	for _, review := range report.Reviews {
		color.Cyan("\n%s", review.Source)
		fmt.Printf("  coherence:  %s\n", review.Coherence)
		fmt.Printf("  enrichment: %s\n", review.Enrichment)
	}

	color.Cyan("\nBenchmark")
	fmt.Println(report.Benchmark)

	for _, path := range report.Files {
		color.Green("✓ Wrote %s", path)
	}
}
