// Package consensus combines normalized, identity-resolved provider
// projections into a single weighted-average line per player.
package consensus

import (
	"context"
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gridironlabs/consensus/internal/model"
)

// DefaultConcurrency bounds AggregateAll's parallelism.
const DefaultConcurrency = 8

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Group buckets projections by canonical player key.
func Group(projections []model.ProviderProjection) map[string][]model.ProviderProjection {
	grouped := make(map[string][]model.ProviderProjection)
	for _, p := range projections {
		grouped[p.PlayerKey] = append(grouped[p.PlayerKey], p)
	}
	return grouped
}

// Aggregate combines one player's provider projections into a consensus line.
// The output covers the union of fields the contributors reported, so a field
// outside the canonical vocabulary still aggregates rather than vanishing.
// Each field is the weighted mean of the providers that reported a non-zero
// value for it; a provider projecting zero for a stat is treated as not
// covering that stat rather than dragging the mean down. Returns nil for an
// empty input.
func Aggregate(projections []model.ProviderProjection) *model.ConsensusProjection {
	if len(projections) == 0 {
		return nil
	}

	contributors := make([]model.ProviderProjection, len(projections))
	copy(contributors, projections)
	sort.Slice(contributors, func(i, j int) bool {
		return contributors[i].Provider < contributors[j].Provider
	})

	providers := make(map[string]bool, len(contributors))
	var totalWeight float64
	for _, c := range contributors {
		providers[c.Provider] = true
		totalWeight += c.Weight
	}

	fieldSet := make(map[string]bool)
	for _, c := range contributors {
		for field := range c.Stats.Values {
			fieldSet[field] = true
		}
	}
	fields := make([]string, 0, len(fieldSet))
	for field := range fieldSet {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	values := make(map[string]float64, len(fields))
	for _, field := range fields {
		var weightedSum, weightSum float64
		for _, c := range contributors {
			v := c.Stats.Value(field)
			if v == 0 {
				continue
			}
			weightedSum += v * c.Weight
			weightSum += c.Weight
		}
		if weightSum == 0 {
			values[field] = 0
			continue
		}
		values[field] = round2(weightedSum / weightSum)
	}

	lead := contributors[0]
	return &model.ConsensusProjection{
		PlayerKey:     lead.PlayerKey,
		PlayerName:    lead.PlayerName,
		Team:          lead.Team,
		Position:      lead.Position,
		Values:        values,
		ProviderCount: len(providers),
		TotalWeight:   round2(totalWeight),
		Contributors:  contributors,
	}
}

// AggregateAll groups projections by player and aggregates each group in
// parallel, returning consensus lines sorted by player key.
func AggregateAll(ctx context.Context, projections []model.ProviderProjection) ([]model.ConsensusProjection, error) {
	grouped := Group(projections)

	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := make([]model.ConsensusProjection, len(keys))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)

	for i, key := range keys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c := Aggregate(grouped[key])
			if c == nil {
				return eris.Errorf("consensus: empty projection group for %s", key)
			}
			results[i] = *c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "consensus: aggregate all")
	}

	zap.L().Info("consensus aggregation complete",
		zap.Int("players", len(results)),
		zap.Int("provider_projections", len(projections)),
	)
	return results, nil
}

// SummaryStats describes the provider coverage behind a consensus batch.
type SummaryStats struct {
	Players            int            `json:"players"`
	AvgProviders       float64        `json:"avg_providers"`
	ByProvider         map[string]int `json:"by_provider"`
	SingleProviderOnly int            `json:"single_provider_only"`
}

// Summarize reports coverage stats across a batch of consensus lines.
func Summarize(lines []model.ConsensusProjection) SummaryStats {
	stats := SummaryStats{
		Players:    len(lines),
		ByProvider: make(map[string]int),
	}
	if len(lines) == 0 {
		return stats
	}

	var totalProviders int
	for _, line := range lines {
		totalProviders += line.ProviderCount
		if line.ProviderCount == 1 {
			stats.SingleProviderOnly++
		}
		for _, c := range line.Contributors {
			stats.ByProvider[c.Provider]++
		}
	}
	stats.AvgProviders = round2(float64(totalProviders) / float64(len(lines)))
	return stats
}
