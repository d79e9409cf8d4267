package provider

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_CoreProviders(t *testing.T) {
	r := NewDefaultRegistry()

	caps, ok := r.Get("fantasypros")
	require.True(t, ok)
	assert.Equal(t, 0.90, caps.Weight)
	assert.Equal(t, FormatFantasyPros, caps.Format)

	assert.Equal(t, 0.85, r.Weight("sleeper"))
	assert.Equal(t, 0.80, r.Weight("ESPN")) // lookup is case-insensitive
}

func TestRegistry_UnknownProviderDefaults(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, DefaultWeight, r.Weight("numberfire"))
	assert.Equal(t, FormatCanonical, r.Format("numberfire"))
}

func TestRegistry_List_Sorted(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, []string{"espn", "fantasypros", "sleeper"}, r.List())
}

func TestRegistry_ProjectionProviders(t *testing.T) {
	r := NewRegistry()
	r.Register("projector", Capabilities{Projections: true, Weight: 0.7})
	r.Register("newsonly", Capabilities{Weight: 0.7})
	assert.Equal(t, []string{"projector"}, r.ProjectionProviders())
}

func TestRegistry_LoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")
	content := `
providers:
  sleeper:
    projections: true
    weekly: true
    weight: 0.95
    format: sleeper
  numberfire:
    projections: true
    weight: 0.6
    format: canonical
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r := NewDefaultRegistry()
	require.NoError(t, r.LoadOverrides(path))

	assert.Equal(t, 0.95, r.Weight("sleeper"))
	assert.Equal(t, 0.6, r.Weight("numberfire"))
}

func TestRegistry_LoadOverrides_RejectsBadWeight(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers:\n  bad:\n    weight: 1.5\n"), 0o644))

	r := NewRegistry()
	err := r.LoadOverrides(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestRegistry_LoadOverrides_MissingFile(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.LoadOverrides(filepath.Join(t.TempDir(), "absent.yaml")))
}
