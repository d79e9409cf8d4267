// Package store provides persistence for the append-only player identity
// graph. The resolver treats any implementation as a collaborator: lookups
// feed the known-mapping strategy, and confirmed matches are written back.
package store

import (
	"context"
	"math"
	"time"
)

// Mapping is one confirmed link between a canonical player and a provider's
// external identifier. Mappings are append-only: a re-confirmation may raise
// confidence or set verified, but a mapping is never deleted or downgraded.
type Mapping struct {
	PlayerKey  string    `json:"player_key"`
	Provider   string    `json:"provider"`
	ExternalID string    `json:"external_id"`
	Confidence float64   `json:"confidence"`
	Verified   bool      `json:"verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// CoverageStats summarizes how many canonical players carry a mapping for
// each provider.
type CoverageStats struct {
	TotalPlayers int                `json:"total_players"`
	ByProvider   map[string]int     `json:"by_provider"`
	Percentages  map[string]float64 `json:"percentages"`
}

// IdentityStore is the persistence interface for the identity graph.
type IdentityStore interface {
	// GetMapping returns the mapping for (provider, externalID), or nil when
	// no mapping exists. Absence is not an error.
	GetMapping(ctx context.Context, provider, externalID string) (*Mapping, error)

	// PutMapping records a confirmed mapping with append-only semantics: an
	// existing mapping is only updated when the new confidence is at least
	// as high as the stored one.
	PutMapping(ctx context.Context, m Mapping) error

	// ListMappings returns all mappings for a canonical player key.
	ListMappings(ctx context.Context, playerKey string) ([]Mapping, error)

	// Coverage reports per-provider mapping coverage.
	Coverage(ctx context.Context) (*CoverageStats, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// coveragePercentages derives percentage coverage from raw counts, rounded
// to 2 decimal places.
func coveragePercentages(total int, byProvider map[string]int) map[string]float64 {
	pct := make(map[string]float64, len(byProvider))
	if total == 0 {
		return pct
	}
	for prov, n := range byProvider {
		pct[prov] = math.Round(float64(n)/float64(total)*10000) / 100
	}
	return pct
}
