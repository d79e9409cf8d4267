package model

import "strings"

// Position is a roster position as reported by providers.
type Position string

// Known positions. DST is accepted as an alias for DEF on input.
const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionFB  Position = "FB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDEF Position = "DEF"
	PositionDST Position = "DST"
)

// ParsePosition normalizes a raw position string. DST folds into DEF so the
// rest of the pipeline only ever sees one team-defense position.
func ParsePosition(raw string) Position {
	p := Position(strings.ToUpper(strings.TrimSpace(raw)))
	if p == PositionDST {
		return PositionDEF
	}
	return p
}

// IsTeamEntity reports whether the position denotes a whole-team unit rather
// than an individual player. Team entities skip name-based identity matching.
func (p Position) IsTeamEntity() bool {
	return p == PositionDEF || p == PositionDST
}

// StatKind distinguishes observed stats from projected stats.
type StatKind string

const (
	StatKindActual     StatKind = "actual"
	StatKindProjection StatKind = "projection"
)

// StatRecord is a canonicalized stat line: values keyed by canonical field
// name, plus provenance metadata. Values are always finite; fields the source
// did not report are zero, never absent, so downstream arithmetic does not
// branch on missing keys.
type StatRecord struct {
	Provider string             `json:"provider"`
	Week     int                `json:"week,omitempty"` // 0 means full-season scope
	Season   string             `json:"season"`
	Kind     StatKind           `json:"kind"`
	Values   map[string]float64 `json:"values"`
}

// Value returns the stat value for a canonical field, zero if unset.
func (r StatRecord) Value(field string) float64 {
	return r.Values[field]
}

// ProviderMapping links a canonical player to one provider's identifier.
type ProviderMapping struct {
	ExternalID string  `json:"external_id"`
	Confidence float64 `json:"confidence"`
	Verified   bool    `json:"verified"`
}

// PlayerIdentity is a canonical player plus the append-only set of confirmed
// provider mappings. Mappings are only ever added or upgraded, never removed.
type PlayerIdentity struct {
	Key      string                     `json:"key"`
	Name     string                     `json:"name"`
	Team     string                     `json:"team"`
	Position Position                   `json:"position"`
	Mappings map[string]ProviderMapping `json:"mappings"`
}

// ProviderProjection is one provider's projection for one player, already
// normalized and identity-resolved. Immutable once created; a later ingestion
// cycle supersedes it with a new record rather than mutating this one.
type ProviderProjection struct {
	PlayerKey  string         `json:"player_key"`
	Provider   string         `json:"provider"`
	PlayerName string         `json:"player_name"`
	Team       string         `json:"team"`
	Position   Position       `json:"position"`
	Stats      StatRecord     `json:"stats"`
	Weight     float64        `json:"weight"`
	RawRef     map[string]any `json:"raw_ref,omitempty"`
}

// ConsensusProjection is the weighted-average combination of several provider
// projections for one player in one scope. Always produced as a whole; never
// partially updated.
type ConsensusProjection struct {
	PlayerKey     string               `json:"player_key"`
	PlayerName    string               `json:"player_name"`
	Team          string               `json:"team"`
	Position      Position             `json:"position"`
	Values        map[string]float64   `json:"values"`
	ProviderCount int                  `json:"provider_count"`
	TotalWeight   float64              `json:"total_weight"`
	Contributors  []ProviderProjection `json:"contributors"`
}

// ScoringResult holds fantasy point totals per format plus a per-category
// breakdown. Derived and recomputable; never persisted by this core.
type ScoringResult struct {
	Standard  float64            `json:"standard"`
	PPR       float64            `json:"ppr"`
	HalfPPR   float64            `json:"half_ppr"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
}
