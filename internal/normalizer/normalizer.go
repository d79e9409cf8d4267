// Package normalizer maps raw provider stat payloads into the canonical
// vocabulary. Each provider format has one static mapping table; values are
// coerced to numbers defensively, unmapped source fields are dropped, and the
// output always carries the full canonical field set with zero fill.
package normalizer

import (
	"math"
	"strconv"

	"go.uber.org/zap"

	"github.com/gridironlabs/consensus/internal/model"
	"github.com/gridironlabs/consensus/internal/provider"
)

// Source carries provenance metadata for a normalized record.
type Source struct {
	Provider string
	Week     int
	Season   string
	Kind     model.StatKind
}

// Normalize converts one raw stat payload into a canonical StatRecord.
// Non-numeric, missing, or nil values become 0; a single bad field never
// fails the record. Fields absent from the format's table are dropped, which
// keeps the pipeline forward-compatible with providers that send extras.
func Normalize(raw map[string]any, format provider.Format, pos model.Position, src Source) model.StatRecord {
	values := make(map[string]float64, len(model.CanonicalFields()))
	for _, f := range model.CanonicalFields() {
		values[f] = 0
	}

	table, ok := tables[format]
	if !ok {
		zap.L().Warn("normalizer: unknown provider format, dropping all fields",
			zap.String("format", string(format)),
			zap.String("provider", src.Provider),
		)
		return model.StatRecord{
			Provider: src.Provider, Week: src.Week, Season: src.Season,
			Kind: src.Kind, Values: values,
		}
	}

	apply := func(mapping map[string]string) {
		for sourceField, canonicalField := range mapping {
			rawValue, present := raw[sourceField]
			if !present {
				continue
			}
			values[canonicalField] = coerceFloat(rawValue)
		}
	}

	apply(table.fields)
	if pos.IsTeamEntity() {
		apply(table.teamFields)
	}

	return model.StatRecord{
		Provider: src.Provider,
		Week:     src.Week,
		Season:   src.Season,
		Kind:     src.Kind,
		Values:   values,
	}
}

// ValidationResult reports whether a format's mapping table covers the
// baseline offensive fields.
type ValidationResult struct {
	Format        provider.Format `json:"format"`
	TotalMappings int             `json:"total_mappings"`
	MissingFields []string        `json:"missing_fields,omitempty"`
	Valid         bool            `json:"valid"`
}

// requiredOffensive are the fields every projection format must be able to
// produce for skill positions.
var requiredOffensive = []string{
	model.FieldPassYds, model.FieldPassTDs,
	model.FieldRushYds, model.FieldRushTDs,
	model.FieldRecYds, model.FieldRecTDs, model.FieldRec,
}

// ValidateFormat checks a format's mapping table for baseline coverage.
func ValidateFormat(format provider.Format) ValidationResult {
	result := ValidationResult{Format: format}
	table, ok := tables[format]
	if !ok {
		result.MissingFields = append([]string(nil), requiredOffensive...)
		return result
	}

	covered := make(map[string]bool, len(table.fields))
	for _, canonical := range table.fields {
		covered[canonical] = true
	}
	for _, required := range requiredOffensive {
		if !covered[required] {
			result.MissingFields = append(result.MissingFields, required)
		}
	}
	result.TotalMappings = len(table.fields) + len(table.teamFields)
	result.Valid = len(result.MissingFields) == 0
	return result
}

// coerceFloat converts an arbitrary raw value to float64, returning 0 for
// anything that is not usable as a finite number.
func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return finiteOrZero(val)
	case float32:
		return finiteOrZero(float64(val))
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0
		}
		return finiteOrZero(f)
	default:
		return 0
	}
}

// finiteOrZero guards against NaN and infinities sneaking into arithmetic.
func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
