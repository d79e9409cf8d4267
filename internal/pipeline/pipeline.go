// Package pipeline wires normalization, identity resolution, aggregation,
// and caching into the end-to-end consensus flow.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gridironlabs/consensus/internal/cache"
	"github.com/gridironlabs/consensus/internal/consensus"
	"github.com/gridironlabs/consensus/internal/identity"
	"github.com/gridironlabs/consensus/internal/model"
	"github.com/gridironlabs/consensus/internal/normalizer"
	"github.com/gridironlabs/consensus/internal/provider"
)

// RawPlayer is one player's row as a provider delivers it.
type RawPlayer struct {
	Name       string         `json:"name"`
	Team       string         `json:"team"`
	Position   string         `json:"position"`
	ExternalID string         `json:"external_id,omitempty"`
	Stats      map[string]any `json:"stats"`
}

// RawPayload is one provider's projection batch for a scope.
type RawPayload struct {
	Provider string      `json:"provider"`
	Season   string      `json:"season"`
	Week     int         `json:"week"` // 0 means full-season scope
	Players  []RawPlayer `json:"players"`
}

// Result is a consensus batch plus the identity coverage behind it.
type Result struct {
	Lines     []model.ConsensusProjection `json:"lines"`
	Report    *identity.MatchReport       `json:"report"`
	FromCache bool                        `json:"from_cache"`
}

// Builder runs provider payloads through the full consensus pipeline.
type Builder struct {
	registry *provider.Registry
	resolver *identity.Resolver
	cache    *cache.Cache
}

// NewBuilder creates a Builder.
func NewBuilder(registry *provider.Registry, resolver *identity.Resolver, c *cache.Cache) *Builder {
	return &Builder{registry: registry, resolver: resolver, cache: c}
}

// Ingest normalizes and identity-resolves raw payloads into provider
// projections. Unresolved players are dropped and reported, not fatal.
func (b *Builder) Ingest(ctx context.Context, payloads []RawPayload) ([]model.ProviderProjection, *identity.MatchReport, error) {
	var projections []model.ProviderProjection
	report := &identity.MatchReport{}

	for _, payload := range payloads {
		format := b.registry.Format(payload.Provider)
		weight := b.registry.Weight(payload.Provider)

		candidates := make([]identity.Candidate, len(payload.Players))
		for i, p := range payload.Players {
			candidates[i] = identity.Candidate{
				Provider:   payload.Provider,
				Name:       p.Name,
				Team:       p.Team,
				Position:   model.ParsePosition(p.Position),
				ExternalID: p.ExternalID,
			}
		}

		matches, batchReport, err := b.resolver.ResolveBatch(ctx, candidates)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "pipeline: resolve %s payload", payload.Provider)
		}
		report.Total += batchReport.Total
		report.Matched += batchReport.Matched
		report.Unmatched = append(report.Unmatched, batchReport.Unmatched...)

		src := normalizer.Source{
			Provider: payload.Provider,
			Week:     payload.Week,
			Season:   payload.Season,
			Kind:     model.StatKindProjection,
		}
		for i, p := range payload.Players {
			if matches[i] == nil {
				continue
			}
			pos := candidates[i].Position
			projections = append(projections, model.ProviderProjection{
				PlayerKey:  matches[i].PlayerKey,
				Provider:   payload.Provider,
				PlayerName: p.Name,
				Team:       identity.NormalizeTeam(p.Team, payload.Provider),
				Position:   pos,
				Stats:      normalizer.Normalize(p.Stats, format, pos, src),
				Weight:     weight,
			})
		}
	}

	if report.Total > 0 {
		report.MatchRate = float64(report.Matched) / float64(report.Total)
	}
	return projections, report, nil
}

// Build computes the consensus batch for a scope, reading through the cache.
// The payloads are only ingested when the cache has no fresh entry.
func (b *Builder) Build(ctx context.Context, key cache.Key, payloads []RawPayload) (*Result, error) {
	var report *identity.MatchReport

	lines, fromCache, err := b.cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]model.ConsensusProjection, error) {
		projections, r, err := b.Ingest(ctx, payloads)
		if err != nil {
			return nil, err
		}
		report = r

		all, err := consensus.AggregateAll(ctx, projections)
		if err != nil {
			return nil, err
		}
		return filterPosition(all, key.Position), nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build consensus")
	}

	if fromCache {
		zap.L().Debug("consensus served from cache",
			zap.String("season", key.Season),
			zap.Int("week", key.Week),
		)
	}
	return &Result{Lines: lines, Report: report, FromCache: fromCache}, nil
}

// filterPosition keeps only the lines for one position. An empty position
// keeps everything.
func filterPosition(lines []model.ConsensusProjection, pos model.Position) []model.ConsensusProjection {
	if pos == "" {
		return lines
	}
	out := make([]model.ConsensusProjection, 0, len(lines))
	for _, line := range lines {
		if line.Position == pos {
			out = append(out, line)
		}
	}
	return out
}
