package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// TestRunStore_SaveAndList tests saving runs and listing newest first
func TestRunStore_SaveAndList(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"r1", "r2", "r3"} {
		require.NoError(t, store.SaveRun(ctx, domain.Run{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Process:   domain.ProcessUnknown,
		}))
	}

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "r3", runs[0].ID)
	assert.Equal(t, "r2", runs[1].ID)
	assert.Equal(t, "r1", runs[2].ID)
}

// TestRunStore_ListLimit tests that the limit truncates listings
func TestRunStore_ListLimit(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveRun(ctx, domain.Run{
			ID:        string(rune('a' + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	runs, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "e", runs[0].ID)
	assert.Equal(t, "d", runs[1].ID)
}

// TestRunStore_GetRun tests retrieval by ID
func TestRunStore_GetRun(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, domain.Run{ID: "r1", Issues: 4}))

	run, err := store.GetRun(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 4, run.Issues)

	_, err = store.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
