package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Patrick Mahomes", "patrick mahomes"},
		{"A.J. Brown", "aj brown"},
		{"Ja'Marr Chase", "jamarr chase"},
		{"José Martínez", "jose martinez"},
		{"  D'Andre   Swift ", "dandre swift"},
		{"Kenneth Walker III", "kenneth walker iii"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), "input %q", tt.in)
	}
}

func TestNameVariations_SuffixRemoved(t *testing.T) {
	vars := nameVariations("marvin harrison jr")
	assert.Contains(t, vars, "marvin harrison")
}

func TestNameVariations_SuffixAdded(t *testing.T) {
	vars := nameVariations("marvin harrison")
	assert.Contains(t, vars, "marvin harrison jr")
	assert.Contains(t, vars, "marvin harrison sr")
}

func TestNameVariations_MiddleElided(t *testing.T) {
	vars := nameVariations("william scott anderson")
	assert.Contains(t, vars, "william anderson")
}

func TestNameVariations_ExcludesOriginal(t *testing.T) {
	assert.NotContains(t, nameVariations("patrick mahomes"), "patrick mahomes")
}

func TestNormalizeTeam(t *testing.T) {
	assert.Equal(t, "JAX", NormalizeTeam("JAC", "fantasypros"))
	assert.Equal(t, "JAX", NormalizeTeam("jac", "fantasypros"))
	assert.Equal(t, "WAS", NormalizeTeam("WSH", "espn"))
	assert.Equal(t, "JAC", NormalizeTeam("JAC", "sleeper")) // no override for sleeper
	assert.Equal(t, "KC", NormalizeTeam(" kc ", "fantasypros"))
	assert.Equal(t, "", NormalizeTeam("", "espn"))
}

func TestDefenseTeam(t *testing.T) {
	abbr, ok := DefenseTeam("Chicago Bears")
	assert.True(t, ok)
	assert.Equal(t, "CHI", abbr)

	abbr, ok = DefenseTeam("San Francisco 49ers D/ST")
	assert.True(t, ok)
	assert.Equal(t, "SF", abbr)

	abbr, ok = DefenseTeam("Jacksonville Jaguars Defense")
	assert.True(t, ok)
	assert.Equal(t, "JAX", abbr)

	abbr, ok = DefenseTeam("LAC")
	assert.True(t, ok)
	assert.Equal(t, "LAC", abbr)

	_, ok = DefenseTeam("London Monarchs")
	assert.False(t, ok)
}
