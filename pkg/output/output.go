package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xhad/aibench/internal/models"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatAll  = "all"
)

// Columns is the header row of the CSV export.
var Columns = []string{
	"industry",
	"business_function",
	"organization",
	"source_origin",
	"source_link",
	"last_updated",
	"impacted_processes",
	"economic_value",
	"gains",
	"ai_usage",
	"ai_technologies",
	"partners",
}

const listSeparator = "; "

var unsafeName = regexp.MustCompile(`[/\\:*?"<>|\s]+`)

// Benchmark is the JSON export of one run.
type Benchmark struct {
	UseCases  []models.UseCase `json:"use_cases"`
	Benchmark string           `json:"benchmark"`
}

// Writer writes run results under Dir.
type Writer struct {
	Dir    string
	Format string
}

// BaseName is the file name, without extension, used for an industry.
func BaseName(industry string) string {
	name := strings.Trim(unsafeName.ReplaceAllString(strings.TrimSpace(industry), "_"), "_.")
	if name == "" {
		name = "unknown"
	}
	return "benchmark_" + name
}

// Write exports the use cases and benchmark text in the configured formats
// and returns the paths written.
func (w Writer) Write(industry string, useCases []models.UseCase, benchmark string) ([]string, error) {
	format := w.Format
	if format == "" {
		format = FormatAll
	}
	if format != FormatJSON && format != FormatCSV && format != FormatAll {
		return nil, fmt.Errorf("unknown output format %q", format)
	}

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	base := filepath.Join(w.Dir, BaseName(industry))
	var paths []string

	if format == FormatJSON || format == FormatAll {
		path := base + ".json"
		if err := WriteJSON(path, useCases, benchmark); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	if format == FormatCSV || format == FormatAll {
		path := base + ".csv"
		if err := WriteCSV(path, useCases); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

// WriteJSON writes {"use_cases": [...], "benchmark": "..."} with two-space
// indentation and without HTML escaping.
func WriteJSON(path string, useCases []models.UseCase, benchmark string) error {
	normalized := make([]models.UseCase, len(useCases))
	for i, useCase := range useCases {
		useCase.Normalize()
		normalized[i] = useCase
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Benchmark{UseCases: normalized, Benchmark: benchmark}); err != nil {
		return fmt.Errorf("encode benchmark: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes one row per use case with list fields joined by "; ".
func WriteCSV(path string, useCases []models.UseCase) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, u := range useCases {
		record := []string{
			u.Industry,
			u.BusinessFunction,
			u.Organization,
			u.SourceOrigin,
			u.SourceLink,
			u.LastUpdated,
			strings.Join(u.ImpactedProcesses, listSeparator),
			u.EconomicValue,
			strings.Join(u.Gains, listSeparator),
			u.AIUsage,
			strings.Join(u.AITechnologies, listSeparator),
			strings.Join(u.Partners, listSeparator),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
