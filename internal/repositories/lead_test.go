package repositories_test

import (
	"context"
	"github.com/ceotarot/ceotarot/internal/models"
	"github.com/ceotarot/ceotarot/internal/repositories"
	"github.com/ceotarot/ceotarot/internal/sqlite"
	"github.com/ceotarot/ceotarot/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
	"time"
)

func newTestRepository(t *testing.T) *repositories.LeadRepository {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	logger := testhelpers.NewLogger(io.Discard)
	db, err := sqlite.Open(ctx, ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		_ = db.Close()
	})
	return repositories.NewLeadRepository(db, logger)
}

func TestLeadRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	require.True(t, repo.Configured())
	require.Equal(t, "sqlite", repo.Name())

	first := models.Lead{SubmittedAt: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), Name: "김사장", Email: "kim@example.com"}
	second := models.Lead{SubmittedAt: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC), Name: "Lee", Email: "lee@example.com"}
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))
	// Duplicates are kept, there is no dedup.
	require.NoError(t, repo.Append(ctx, second))

	leads, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []models.Lead{second, second, first}, leads)

	leads, err = repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, leads, 1)
}

func TestLeadRepository_nilIsUnconfigured(t *testing.T) {
	var repo *repositories.LeadRepository
	require.False(t, repo.Configured())
}
