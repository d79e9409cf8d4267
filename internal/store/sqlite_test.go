package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutMapping(ctx, Mapping{
		PlayerKey:  "abc-123",
		Provider:   "sleeper",
		ExternalID: "4046",
		Confidence: 0.9,
		Verified:   true,
	}))

	m, err := s.GetMapping(ctx, "sleeper", "4046")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "abc-123", m.PlayerKey)
	assert.Equal(t, 0.9, m.Confidence)
	assert.True(t, m.Verified)
}

func TestSQLiteStore_GetMapping_Absent(t *testing.T) {
	s := newTestSQLiteStore(t)

	m, err := s.GetMapping(context.Background(), "sleeper", "missing")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestSQLiteStore_LowerConfidenceDoesNotDowngrade(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutMapping(ctx, Mapping{
		PlayerKey: "abc-123", Provider: "sleeper", ExternalID: "4046", Confidence: 1.0,
	}))
	require.NoError(t, s.PutMapping(ctx, Mapping{
		PlayerKey: "wrong-key", Provider: "sleeper", ExternalID: "4046", Confidence: 0.7,
	}))

	m, err := s.GetMapping(ctx, "sleeper", "4046")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", m.PlayerKey)
	assert.Equal(t, 1.0, m.Confidence)
}

func TestSQLiteStore_VerifiedIsSticky(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutMapping(ctx, Mapping{
		PlayerKey: "abc-123", Provider: "espn", ExternalID: "311", Confidence: 0.9, Verified: true,
	}))
	require.NoError(t, s.PutMapping(ctx, Mapping{
		PlayerKey: "abc-123", Provider: "espn", ExternalID: "311", Confidence: 0.95, Verified: false,
	}))

	m, err := s.GetMapping(ctx, "espn", "311")
	require.NoError(t, err)
	assert.True(t, m.Verified)
	assert.Equal(t, 0.95, m.Confidence)
}

func TestSQLiteStore_ListMappingsSorted(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutMapping(ctx, Mapping{
		PlayerKey: "abc-123", Provider: "sleeper", ExternalID: "4046", Confidence: 0.9,
	}))
	require.NoError(t, s.PutMapping(ctx, Mapping{
		PlayerKey: "abc-123", Provider: "espn", ExternalID: "311", Confidence: 1.0,
	}))

	mappings, err := s.ListMappings(ctx, "abc-123")
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	assert.Equal(t, "espn", mappings[0].Provider)
	assert.Equal(t, "sleeper", mappings[1].Provider)
}

func TestSQLiteStore_Coverage(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutMapping(ctx, Mapping{
		PlayerKey: "abc-123", Provider: "sleeper", ExternalID: "4046", Confidence: 1.0,
	}))
	require.NoError(t, s.PutMapping(ctx, Mapping{
		PlayerKey: "other-456", Provider: "sleeper", ExternalID: "5000", Confidence: 1.0,
	}))
	require.NoError(t, s.PutMapping(ctx, Mapping{
		PlayerKey: "abc-123", Provider: "espn", ExternalID: "311", Confidence: 1.0,
	}))

	stats, err := s.Coverage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPlayers)
	assert.Equal(t, 2, stats.ByProvider["sleeper"])
	assert.Equal(t, 1, stats.ByProvider["espn"])
	assert.Equal(t, 50.0, stats.Percentages["espn"])
}
