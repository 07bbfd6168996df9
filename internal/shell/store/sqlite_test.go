package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/dockhand/internal/core/domain"
)

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func recordTestRun(t *testing.T, store Store, mode domain.RunMode, host string) *domain.Run {
	t.Helper()
	run := domain.NewRun(mode, host)
	if mode == domain.ModeDeploy {
		run.RepoURL = "https://example/app.git"
		run.Branch = "main"
	}
	err := store.RecordRun(context.Background(), run)
	require.NoError(t, err)
	return run
}

// =============================================================================
// Run Record Tests
// =============================================================================

func TestRecordRun(t *testing.T) {
	store := setupTestStore(t)
	run := recordTestRun(t, store, domain.ModeDeploy, "10.0.0.5")

	got, err := store.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, domain.ModeDeploy, got.Mode)
	assert.Equal(t, "10.0.0.5", got.Host)
	assert.Equal(t, "https://example/app.git", got.RepoURL)
	assert.Empty(t, got.FinalState)
	assert.Nil(t, got.FinishedAt)
}

func TestRecordRun_DuplicateID(t *testing.T) {
	store := setupTestStore(t)
	run := recordTestRun(t, store, domain.ModeDeploy, "10.0.0.5")

	err := store.RecordRun(context.Background(), run)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestFinishRun(t *testing.T) {
	store := setupTestStore(t)
	run := recordTestRun(t, store, domain.ModeDeploy, "10.0.0.5")

	run.Commit = "abc1234"
	run.Finish(domain.StateCompleted, nil)
	err := store.FinishRun(context.Background(), run)
	require.NoError(t, err)

	got, err := store.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StateCompleted), got.FinalState)
	assert.Equal(t, "abc1234", got.Commit)
	assert.Empty(t, got.Error)
	require.NotNil(t, got.FinishedAt)
	assert.False(t, got.FinishedAt.Before(got.StartedAt.Truncate(time.Second)))
}

func TestFinishRun_RecordsFailure(t *testing.T) {
	store := setupTestStore(t)
	run := recordTestRun(t, store, domain.ModeDeploy, "10.0.0.5")

	run.Finish(domain.StateAborted, errors.New("stage provision: exit 100"))
	err := store.FinishRun(context.Background(), run)
	require.NoError(t, err)

	got, err := store.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StateAborted), got.FinalState)
	assert.Contains(t, got.Error, "exit 100")
}

func TestFinishRun_NotFound(t *testing.T) {
	store := setupTestStore(t)

	run := domain.NewRun(domain.ModeCleanup, "10.0.0.5")
	run.Finish(domain.StateCompleted, nil)
	err := store.FinishRun(context.Background(), run)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRun_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "GetRun", storeErr.Op)
}

func TestListRecent_NewestFirst(t *testing.T) {
	store := setupTestStore(t)

	older := domain.NewRun(domain.ModeDeploy, "10.0.0.5")
	older.StartedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, store.RecordRun(context.Background(), older))

	newer := recordTestRun(t, store, domain.ModeCleanup, "10.0.0.6")

	runs, err := store.ListRecent(context.Background(), DefaultListOptions())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID)
	assert.Equal(t, older.ID, runs[1].ID)
}

func TestListRecent_RespectsLimit(t *testing.T) {
	store := setupTestStore(t)
	for i := 0; i < 5; i++ {
		recordTestRun(t, store, domain.ModeDeploy, "10.0.0.5")
	}

	runs, err := store.ListRecent(context.Background(), ListOptions{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestListRecent_EmptyStore(t *testing.T) {
	store := setupTestStore(t)

	runs, err := store.ListRecent(context.Background(), DefaultListOptions())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

// =============================================================================
// List Options Tests
// =============================================================================

func TestListOptionsNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   ListOptions
		want ListOptions
	}{
		{"defaults applied", ListOptions{}, ListOptions{Limit: 20}},
		{"negative offset clamped", ListOptions{Limit: 10, Offset: -5}, ListOptions{Limit: 10}},
		{"oversized limit clamped", ListOptions{Limit: 5000}, ListOptions{Limit: 1000}},
		{"valid passes through", ListOptions{Limit: 50, Offset: 10}, ListOptions{Limit: 50, Offset: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}
