package repositories

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"sentiment-webapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func newTestRequestLogRepo(t *testing.T) (RequestLogRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "requests.json")
	return NewJSONRequestLogRepository(path, zap.NewNop()), path
}

func TestRequestLogRepoMissingFileIsEmpty(t *testing.T) {
	repo, path := newTestRequestLogRepo(t)
	ctx := context.Background()

	assert.Empty(t, repo.List(ctx))
	entry, err := repo.FindByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, entry)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRequestLogRepoAppendAndFind(t *testing.T) {
	repo, path := newTestRequestLogRepo(t)
	ctx := context.Background()

	prob := 0.93
	entry := models.RequestLogEntry{
		LogID:       "id-1",
		Timestamp:   "2024-05-01T10:00:00.000000+00:00",
		RequestType: models.RequestTypeText,
		Success:     true,
		Review:      strPtr("great"),
		Prediction:  strPtr("positive"),
		Probability: &prob,
	}
	require.NoError(t, repo.Append(ctx, entry))

	got, err := repo.FindByID(ctx, "id-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry, *got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[\n  {\n    \"log_id\": \"id-1\"")
	assert.NotContains(t, string(raw), "filename")
	assert.NotContains(t, string(raw), "null")
}

func TestRequestLogRepoKeepsInsertionOrder(t *testing.T) {
	repo, _ := newTestRequestLogRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, models.RequestLogEntry{
			LogID:       fmt.Sprintf("id-%d", i),
			RequestType: models.RequestTypeFile,
		}))
	}

	entries := repo.List(ctx)
	require.Len(t, entries, 5)
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("id-%d", i), e.LogID)
	}
}

func TestRequestLogRepoDelete(t *testing.T) {
	repo, path := newTestRequestLogRepo(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Append(ctx, models.RequestLogEntry{LogID: id, RequestType: models.RequestTypeText}))
	}

	before, err := os.ReadFile(path)
	require.NoError(t, err)
	deleted, err := repo.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	deleted, err = repo.Delete(ctx, "b")
	require.NoError(t, err)
	assert.True(t, deleted)

	entries := repo.List(ctx)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].LogID)
	assert.Equal(t, "c", entries[1].LogID)

	got, err := repo.FindByID(ctx, "b")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRequestLogRepoMalformedFile(t *testing.T) {
	repo, path := newTestRequestLogRepo(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	assert.Empty(t, repo.List(ctx))

	require.NoError(t, repo.Append(ctx, models.RequestLogEntry{LogID: "fresh", RequestType: models.RequestTypeText}))
	entries := repo.List(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, "fresh", entries[0].LogID)
}

func TestRequestLogRepoCancelledContext(t *testing.T) {
	repo, _ := newTestRequestLogRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Append(ctx, models.RequestLogEntry{LogID: "x"}), context.Canceled)
	assert.Empty(t, repo.List(context.Background()))
}
