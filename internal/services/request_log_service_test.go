package services

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"sentiment-webapi/internal/models"
	"sentiment-webapi/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRequestLogService(t *testing.T) *requestLogServiceImpl {
	t.Helper()
	repo := repositories.NewJSONRequestLogRepository(filepath.Join(t.TempDir(), "requests.json"), zap.NewNop())
	return NewRequestLogService(repo, zap.NewNop()).(*requestLogServiceImpl)
}

func TestRecordTextRoundTrip(t *testing.T) {
	svc := newTestRequestLogService(t)
	ctx := context.Background()

	logID, err := svc.Record(ctx, LogParams{
		RequestType: models.RequestTypeText,
		Success:     true,
		Review:      Ptr("this product is amazing"),
		Prediction:  Ptr("positive"),
		Probability: Ptr(0.95),
		Filename:    Ptr("ignored.csv"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, logID)

	entry, err := svc.Get(ctx, logID)
	require.NoError(t, err)
	assert.Equal(t, logID, entry.LogID)
	assert.Equal(t, models.RequestTypeText, entry.RequestType)
	assert.True(t, entry.Success)
	assert.Equal(t, "this product is amazing", *entry.Review)
	assert.Equal(t, "positive", *entry.Prediction)
	assert.Equal(t, 0.95, *entry.Probability)
	assert.Nil(t, entry.Filename)
	assert.Nil(t, entry.FileType)
	assert.Nil(t, entry.Error)

	_, err = time.Parse(timestampLayout, entry.Timestamp)
	assert.NoError(t, err)
}

func TestRecordFileDropsTextFields(t *testing.T) {
	svc := newTestRequestLogService(t)
	ctx := context.Background()

	logID, err := svc.Record(ctx, LogParams{
		RequestType: models.RequestTypeFile,
		Success:     false,
		Review:      Ptr("not for files"),
		Error:       Ptr("column 'comments' not found"),
	})
	require.NoError(t, err)

	data, err := svc.Export(ctx, logID)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.ElementsMatch(t,
		[]string{"log_id", "timestamp", "request_type", "success", "error"},
		keys(fields),
	)
	assert.Equal(t, "column 'comments' not found", fields["error"])
	assert.Contains(t, string(data), "\n  \"log_id\": ")
}

func TestBuildEntryKeepsSuppliedZeroValues(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 6000, time.FixedZone("", 7*3600))
	entry := buildEntry("id", at, LogParams{
		RequestType: models.RequestTypeText,
		Success:     true,
		Review:      Ptr("qwerty"),
		Prediction:  Ptr("neutral"),
		Probability: Ptr(0.0),
	})
	assert.Equal(t, "2024-01-02T03:04:05.000006+07:00", entry.Timestamp)
	require.NotNil(t, entry.Probability)

	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"probability":0`)
}

func TestListRecentFirst(t *testing.T) {
	svc := newTestRequestLogService(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := svc.Record(ctx, LogParams{RequestType: models.RequestTypeText, Success: true})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	all := svc.ListAll(ctx)
	recent := svc.ListRecentFirst(ctx)
	require.Len(t, all, 3)
	require.Len(t, recent, 3)
	for i := range ids {
		assert.Equal(t, ids[i], all[i].LogID)
		assert.Equal(t, ids[len(ids)-1-i], recent[i].LogID)
	}
}

func TestGetDeleteExportNotFound(t *testing.T) {
	svc := newTestRequestLogService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrRequestNotFound)
	_, err = svc.Export(ctx, "missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)

	id, err := svc.Record(ctx, LogParams{RequestType: models.RequestTypeText})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
