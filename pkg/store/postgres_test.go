package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/aibench/internal/models"
)

func TestUseCaseStorePostgres(t *testing.T) {
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, connString)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS test_ai_use_cases`)
	require.NoError(t, err)

	s := NewUseCaseStore(pool, "test_ai_use_cases")
	require.NoError(t, s.Init(ctx))

	saved := s.SaveUseCases(ctx, []models.UseCase{sampleUseCase("retail"), sampleUseCase("banking"), sampleUseCase("retail")})
	assert.Equal(t, 3, saved)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	industries, err := s.Industries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"banking", "retail"}, industries)

	retail, err := s.UseCasesByIndustry(ctx, "retail")
	require.NoError(t, err)
	require.Len(t, retail, 2)
	assert.Equal(t, []string{"less waste", "fewer stockouts"}, retail[0].Gains)
	assert.Equal(t, []string{}, retail[0].Partners)

	grouped, err := s.GroupByIndustry(ctx)
	require.NoError(t, err)
	assert.Len(t, grouped["retail"], 2)
	assert.Len(t, grouped["banking"], 1)
}
