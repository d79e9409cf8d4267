package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sleeperPayload = `{
  "provider": "sleeper",
  "season": "2025",
  "week": 5,
  "players": [
    {"name": "Patrick Mahomes", "team": "KC", "position": "QB", "external_id": "4046",
     "stats": {"pass_yd": 300, "pass_td": 2}}
  ]
}`

func TestLoadPayloadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sleeper.json")
	require.NoError(t, os.WriteFile(path, []byte(sleeperPayload), 0o644))

	payload, err := LoadPayloadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sleeper", payload.Provider)
	assert.Equal(t, 5, payload.Week)
	require.Len(t, payload.Players, 1)
	assert.Equal(t, "Patrick Mahomes", payload.Players[0].Name)
	assert.Equal(t, 300.0, payload.Players[0].Stats["pass_yd"])
}

func TestLoadPayloadFile_NoProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anon.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"season":"2025","players":[]}`), 0o644))

	_, err := LoadPayloadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no provider")
}

func TestLoadPayloadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

	_, err := LoadPayloadFile(path)
	assert.Error(t, err)
}

func TestLoadPayloadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_espn.json"),
		[]byte(`{"provider":"espn","season":"2025","week":5,"players":[]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_sleeper.json"), []byte(sleeperPayload), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	payloads, err := LoadPayloadDir(dir)
	require.NoError(t, err)
	require.Len(t, payloads, 2)
	// Sorted by filename.
	assert.Equal(t, "sleeper", payloads[0].Provider)
	assert.Equal(t, "espn", payloads[1].Provider)
}

func TestLoadPayloadDir_Empty(t *testing.T) {
	_, err := LoadPayloadDir(t.TempDir())
	assert.Error(t, err)
}
