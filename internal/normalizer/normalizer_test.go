package normalizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/consensus/internal/model"
	"github.com/gridironlabs/consensus/internal/provider"
)

func projSource(name string) Source {
	return Source{Provider: name, Week: 5, Season: "2025", Kind: model.StatKindProjection}
}

func TestNormalize_SleeperFields(t *testing.T) {
	raw := map[string]any{
		"pass_yd":  272.4,
		"pass_td":  1.8,
		"pass_int": 0.7,
		"rush_yd":  18.2,
	}

	rec := Normalize(raw, provider.FormatSleeper, model.PositionQB, projSource("sleeper"))

	assert.Equal(t, 272.4, rec.Value(model.FieldPassYds))
	assert.Equal(t, 1.8, rec.Value(model.FieldPassTDs))
	assert.Equal(t, 0.7, rec.Value(model.FieldPassInts))
	assert.Equal(t, 18.2, rec.Value(model.FieldRushYds))
	assert.Equal(t, "sleeper", rec.Provider)
	assert.Equal(t, 5, rec.Week)
	assert.Equal(t, model.StatKindProjection, rec.Kind)
}

func TestNormalize_FantasyProsVerboseFields(t *testing.T) {
	raw := map[string]any{
		"receiving_yards": 88.5,
		"receptions":      6.5,
		"receiving_tds":   0.6,
		"fg_50_plus":      0.3, // folds into the 50-59 bracket
	}

	rec := Normalize(raw, provider.FormatFantasyPros, model.PositionWR, projSource("fantasypros"))

	assert.Equal(t, 88.5, rec.Value(model.FieldRecYds))
	assert.Equal(t, 6.5, rec.Value(model.FieldRec))
	assert.Equal(t, 0.6, rec.Value(model.FieldRecTDs))
	assert.Equal(t, 0.3, rec.Value("fgm_50_59"))
}

func TestNormalize_ZeroFillsFullCanonicalSet(t *testing.T) {
	rec := Normalize(map[string]any{"rush_yd": 50}, provider.FormatSleeper, model.PositionRB, projSource("sleeper"))

	require.Len(t, rec.Values, len(model.CanonicalFields()))
	assert.Equal(t, 0.0, rec.Value(model.FieldPassYds))
	assert.Equal(t, 0.0, rec.Value("pts_allow_7_13"))
	assert.Equal(t, 50.0, rec.Value(model.FieldRushYds))
}

func TestNormalize_DropsUnmappedFields(t *testing.T) {
	raw := map[string]any{
		"rush_yd":          75,
		"made_up_metric":   12.0,
		"another_surprise": "hello",
	}

	rec := Normalize(raw, provider.FormatSleeper, model.PositionRB, projSource("sleeper"))

	_, ok := rec.Values["made_up_metric"]
	assert.False(t, ok)
	assert.Equal(t, 75.0, rec.Value(model.FieldRushYds))
}

func TestNormalize_CoercesBadValuesToZero(t *testing.T) {
	raw := map[string]any{
		"pass_yd":  "not-a-number",
		"pass_td":  nil,
		"rush_yd":  "42.5",
		"rec_yd":   math.NaN(),
		"rush_td":  []string{"nonsense"},
		"pass_int": math.Inf(1),
	}

	rec := Normalize(raw, provider.FormatSleeper, model.PositionQB, projSource("sleeper"))

	assert.Equal(t, 0.0, rec.Value(model.FieldPassYds))
	assert.Equal(t, 0.0, rec.Value(model.FieldPassTDs))
	assert.Equal(t, 42.5, rec.Value(model.FieldRushYds)) // numeric strings parse
	assert.Equal(t, 0.0, rec.Value(model.FieldRecYds))
	assert.Equal(t, 0.0, rec.Value(model.FieldRushTDs))
	assert.Equal(t, 0.0, rec.Value(model.FieldPassInts))
}

func TestNormalize_TeamEntityOverrides(t *testing.T) {
	raw := map[string]any{
		"sacks":                3.1,
		"interceptions":        1.2,
		"total_points_allowed": 20.5,
	}

	rec := Normalize(raw, provider.FormatFantasyPros, model.PositionDEF, projSource("fantasypros"))

	assert.Equal(t, 3.1, rec.Value("def_sack"))
	assert.Equal(t, 1.2, rec.Value("def_int"))
	assert.Equal(t, 20.5, rec.Value("pts_allow"))
}

func TestNormalize_TeamFieldsIgnoredForPlayers(t *testing.T) {
	// "sacks" for a skill player is not a defensive stat; without the team
	// override table in play it is simply unmapped.
	rec := Normalize(map[string]any{"sacks": 2}, provider.FormatFantasyPros, model.PositionQB, projSource("fantasypros"))
	assert.Equal(t, 0.0, rec.Value("def_sack"))
}

func TestNormalize_CanonicalIdentityIsNoOp(t *testing.T) {
	raw := map[string]any{}
	for _, f := range model.CanonicalFields() {
		raw[f] = 1.5
	}

	rec := Normalize(raw, provider.FormatCanonical, model.PositionRB, projSource("internal"))

	for _, f := range model.CanonicalFields() {
		assert.Equal(t, 1.5, rec.Value(f), "field %s changed under identity mapping", f)
	}
}

func TestNormalize_UnknownFormat(t *testing.T) {
	rec := Normalize(map[string]any{"pass_yd": 100}, provider.Format("mystery"), model.PositionQB, projSource("mystery"))

	// Every value zero, full set present.
	require.Len(t, rec.Values, len(model.CanonicalFields()))
	for f, v := range rec.Values {
		assert.Zero(t, v, "field %s", f)
	}
}

func TestValidateFormat(t *testing.T) {
	for _, format := range []provider.Format{
		provider.FormatSleeper, provider.FormatFantasyPros,
		provider.FormatESPN, provider.FormatCanonical,
	} {
		result := ValidateFormat(format)
		assert.True(t, result.Valid, "format %s missing %v", format, result.MissingFields)
		assert.Positive(t, result.TotalMappings)
	}

	bad := ValidateFormat(provider.Format("mystery"))
	assert.False(t, bad.Valid)
	assert.Len(t, bad.MissingFields, 7)
}
