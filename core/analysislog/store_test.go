package analysislog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords(base time.Time) []Record {
	return []Record{
		{RunID: "r1", Timestamp: base, Airfield: "LFPB", Scheduled: []string{"a1"}},
		{RunID: "r2", Timestamp: base.Add(time.Hour), Airfield: "LFPB", Scheduled: []string{"a1"}, Unscheduled: []string{"a2"}},
		{RunID: "r3", Timestamp: base.Add(2 * time.Hour), Airfield: "EGLL"},
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	for _, r := range sampleRecords(base) {
		require.NoError(t, s.Append(ctx, r))
	}

	all, err := s.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "r1", all[0].RunID)
	assert.Equal(t, "r3", all[2].RunID)

	byField, err := s.Query(ctx, Query{Airfield: "LFPB"})
	require.NoError(t, err)
	assert.Len(t, byField, 2)

	failed, err := s.Query(ctx, Query{FailedOnly: true})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "r2", failed[0].RunID)

	inWindow, err := s.Query(ctx, Query{Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, inWindow, 1)
	assert.Equal(t, "r2", inWindow[0].RunID)

	byInduction, err := s.Query(ctx, Query{Induction: "a2"})
	require.NoError(t, err)
	require.Len(t, byInduction, 1)
}

func TestJSONLStore(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "runs", "analysis.jsonl"), 1, 2, 0)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestJSONLStore_EmptyQuery(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "analysis.jsonl"), 1, 1, 0)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	out, err := s.Query(context.Background(), Query{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "analysis.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestConfig(t *testing.T) {
	var c Config
	c.SetDefaults()
	require.NoError(t, c.Validate())
	s, err := Open(c)
	require.NoError(t, err)
	assert.Nil(t, s)

	c.Backend = "jsonl"
	assert.Error(t, c.Validate())
	c.Backend = "csv"
	c.Path = "x"
	assert.Error(t, c.Validate())
	_, err = Open(c)
	assert.Error(t, err)
}
