package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/xhad/aibench/internal/models"
)

const useCaseColumns = `id, industry, business_function, organization, source_origin, source_link,
	last_updated, impacted_processes, economic_value, gains, ai_usage, ai_technologies, partners`

// UseCaseStore persists use cases in one flat table. List fields are kept
// as JSON text.
type UseCaseStore struct {
	db    DB
	table string
}

func NewUseCaseStore(db DB, table string) *UseCaseStore {
	if table == "" {
		table = "ai_use_cases"
	}
	return &UseCaseStore{db: db, table: quoteIdent(table)}
}

// Init creates the table when it does not exist yet.
func (s *UseCaseStore) Init(ctx context.Context) error {
	_, err := s.db.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			industry TEXT NOT NULL,
			business_function TEXT NOT NULL,
			organization TEXT NOT NULL DEFAULT '',
			source_origin TEXT NOT NULL DEFAULT '',
			source_link TEXT NOT NULL,
			last_updated TEXT NOT NULL DEFAULT '',
			impacted_processes TEXT NOT NULL DEFAULT '[]',
			economic_value TEXT NOT NULL DEFAULT '',
			gains TEXT NOT NULL DEFAULT '[]',
			ai_usage TEXT NOT NULL,
			ai_technologies TEXT NOT NULL DEFAULT '[]',
			partners TEXT NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.table))
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// SaveUseCase stores one record in its own transaction and returns its id.
func (s *UseCaseStore) SaveUseCase(ctx context.Context, useCase models.UseCase) (string, error) {
	if useCase.ID == "" {
		useCase.ID = uuid.NewString()
	}

	args, err := toRow(useCase)
	if err != nil {
		return "", err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`, s.table, useCaseColumns)
	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.Warn("rollback failed", "err", rbErr)
		}
		return "", fmt.Errorf("failed to insert use case: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit use case: %w", err)
	}
	return useCase.ID, nil
}

// SaveUseCases stores each record independently. A failed record is
// logged and skipped; the number of stored records is returned.
func (s *UseCaseStore) SaveUseCases(ctx context.Context, useCases []models.UseCase) int {
	saved := 0
	for _, useCase := range useCases {
		if _, err := s.SaveUseCase(ctx, useCase); err != nil {
			slog.Error("error saving use case", "source", useCase.SourceLink, "err", err)
			continue
		}
		saved++
	}
	return saved
}

func (s *UseCaseStore) UseCasesByIndustry(ctx context.Context, industry string) ([]models.UseCase, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE industry = $1 ORDER BY created_at, id`, useCaseColumns, s.table)
	return s.query(ctx, query, industry)
}

func (s *UseCaseStore) Industries(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf(`SELECT DISTINCT industry FROM %s ORDER BY industry`, s.table))
	if err != nil {
		return nil, fmt.Errorf("failed to query industries: %w", err)
	}
	defer rows.Close()

	industries := []string{}
	for rows.Next() {
		var industry string
		if err := rows.Scan(&industry); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		industries = append(industries, industry)
	}
	return industries, rows.Err()
}

// GroupByIndustry returns every stored record keyed by industry.
func (s *UseCaseStore) GroupByIndustry(ctx context.Context) (map[string][]models.UseCase, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY industry, created_at, id`, useCaseColumns, s.table)
	useCases, err := s.query(ctx, query)
	if err != nil {
		return nil, err
	}
	return Group(useCases), nil
}

func (s *UseCaseStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, s.table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count use cases: %w", err)
	}
	return count, nil
}

func (s *UseCaseStore) query(ctx context.Context, query string, args ...any) ([]models.UseCase, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query use cases: %w", err)
	}
	defer rows.Close()

	useCases := []models.UseCase{}
	for rows.Next() {
		useCase, err := scanUseCase(rows)
		if err != nil {
			return nil, err
		}
		useCases = append(useCases, useCase)
	}
	return useCases, rows.Err()
}

// Group keys use cases by industry, keeping their order.
func Group(useCases []models.UseCase) map[string][]models.UseCase {
	grouped := make(map[string][]models.UseCase)
	for _, useCase := range useCases {
		grouped[useCase.Industry] = append(grouped[useCase.Industry], useCase)
	}
	return grouped
}

func toRow(u models.UseCase) ([]any, error) {
	lists := make([]string, 0, 4)
	for _, list := range [][]string{u.ImpactedProcesses, u.Gains, u.AITechnologies, u.Partners} {
		if list == nil {
			list = []string{}
		}
		data, err := json.Marshal(list)
		if err != nil {
			return nil, fmt.Errorf("encode list field: %w", err)
		}
		lists = append(lists, string(data))
	}

	return []any{
		u.ID,
		sanitizeUTF8(u.Industry),
		sanitizeUTF8(u.BusinessFunction),
		sanitizeUTF8(u.Organization),
		sanitizeUTF8(u.SourceOrigin),
		u.SourceLink,
		u.LastUpdated,
		sanitizeUTF8(lists[0]),
		sanitizeUTF8(u.EconomicValue),
		sanitizeUTF8(lists[1]),
		sanitizeUTF8(u.AIUsage),
		sanitizeUTF8(lists[2]),
		sanitizeUTF8(lists[3]),
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUseCase(row scanner) (models.UseCase, error) {
	var u models.UseCase
	var impacted, gains, technologies, partners string

	err := row.Scan(
		&u.ID,
		&u.Industry,
		&u.BusinessFunction,
		&u.Organization,
		&u.SourceOrigin,
		&u.SourceLink,
		&u.LastUpdated,
		&impacted,
		&u.EconomicValue,
		&gains,
		&u.AIUsage,
		&technologies,
		&partners,
	)
	if err != nil {
		return u, fmt.Errorf("failed to scan row: %w", err)
	}

	u.ImpactedProcesses = decodeList(impacted)
	u.Gains = decodeList(gains)
	u.AITechnologies = decodeList(technologies)
	u.Partners = decodeList(partners)
	return u, nil
}

// decodeList reads a JSON list column. Values that are not a JSON array are
// kept as a single item.
func decodeList(s string) []string {
	list := []string{}
	if s == "" {
		return list
	}
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return []string{s}
	}
	if list == nil {
		list = []string{}
	}
	return list
}
