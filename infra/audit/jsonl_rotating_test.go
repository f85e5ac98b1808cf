package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreaudit "github.com/hakaaaa22/alrakeen-teltonika-can-v3/core/audit"
)

func TestRotatingJSONLStoreAppendQuery(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "audit", "runs.jsonl")
	s, err := NewRotatingJSONLStore(path, 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	t0 := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.Append(ctx, coreaudit.RunRecord{RunID: "b", Kind: coreaudit.KindPlan, Timestamp: t0.Add(time.Hour), TotalDays: 5}))
	require.NoError(t, s.Append(ctx, coreaudit.RunRecord{RunID: "a", Kind: coreaudit.KindRecommend, Timestamp: t0, Vehicles: 3}))

	all, err := s.Query(ctx, coreaudit.Query{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].RunID)
	assert.Equal(t, "b", all[1].RunID)

	plans, err := s.Query(ctx, coreaudit.Query{Kind: coreaudit.KindPlan})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, 5, plans[0].TotalDays)
}

func TestRotatingJSONLStoreReadsBackups(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.jsonl")
	backup := filepath.Join(dir, "runs-2025-01-01T00-00-00.000.jsonl")
	require.NoError(t, os.WriteFile(backup, []byte(`{"run_id":"old","kind":"plan","timestamp":"2024-12-31T10:00:00Z"}`+"\nnot json\n"), 0o644))

	s, err := NewRotatingJSONLStore(path, 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	require.NoError(t, s.Append(ctx, coreaudit.RunRecord{RunID: "new", Kind: coreaudit.KindPlan, Timestamp: time.Now().UTC()}))

	recs, err := s.Query(ctx, coreaudit.Query{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "old", recs[0].RunID)
	assert.Equal(t, "new", recs[1].RunID)
}

func TestRotatingJSONLStoreCancelled(t *testing.T) {
	s, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "runs.jsonl"), 1, 1, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, s.Append(ctx, coreaudit.RunRecord{RunID: "x"}))
}
