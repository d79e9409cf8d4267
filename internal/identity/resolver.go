package identity

import (
	"context"

	"github.com/agext/levenshtein"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gridironlabs/consensus/internal/model"
	"github.com/gridironlabs/consensus/internal/store"
)

// Match strategies, in the order the resolver attempts them.
const (
	StrategyKnown     = "known_mapping"
	StrategyDefense   = "defense"
	StrategyExact     = "exact"
	StrategyVariation = "variation"
	StrategyFuzzy     = "fuzzy"
	StrategyFallback  = "team_dropped"
)

// Confidence assigned per strategy. Fuzzy matches carry their similarity
// score instead.
const (
	confidenceExact     = 1.0
	confidenceVariation = 0.9
	confidenceFallback  = 0.7
)

// DefaultFuzzyThreshold is the minimum similarity for a fuzzy match.
const DefaultFuzzyThreshold = 0.8

// verifiedThreshold marks stored mappings as verified when the match
// confidence clears it.
const verifiedThreshold = 0.95

// Candidate is one provider row awaiting resolution to a canonical player.
type Candidate struct {
	Provider   string
	Name       string
	Team       string
	Position   model.Position
	ExternalID string
}

// Match is a successful resolution.
type Match struct {
	PlayerKey  string  `json:"player_key"`
	Strategy   string  `json:"strategy"`
	Confidence float64 `json:"confidence"`
}

// MatchReport summarizes a batch resolution.
type MatchReport struct {
	Total     int         `json:"total"`
	Matched   int         `json:"matched"`
	MatchRate float64     `json:"match_rate"`
	Unmatched []Candidate `json:"unmatched,omitempty"`
}

// Resolver maps provider rows to canonical player identities using an
// ordered waterfall of matching strategies. Confirmed matches are written
// back to the identity store so later runs short-circuit on the stored
// mapping.
type Resolver struct {
	dir       *Directory
	store     store.IdentityStore
	threshold float64
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithFuzzyThreshold overrides the minimum fuzzy-match similarity.
func WithFuzzyThreshold(threshold float64) ResolverOption {
	return func(r *Resolver) { r.threshold = threshold }
}

// NewResolver creates a Resolver over a directory and an identity store.
func NewResolver(dir *Directory, st store.IdentityStore, opts ...ResolverOption) *Resolver {
	r := &Resolver{dir: dir, store: st, threshold: DefaultFuzzyThreshold}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs the strategy waterfall for one candidate. A nil Match with a
// nil error means no strategy produced a confident answer.
func (r *Resolver) Resolve(ctx context.Context, c Candidate) (*Match, error) {
	log := zap.L().With(
		zap.String("provider", c.Provider),
		zap.String("name", c.Name),
	)

	// Stored mappings win outright.
	if c.ExternalID != "" {
		m, err := r.store.GetMapping(ctx, c.Provider, c.ExternalID)
		if err != nil {
			return nil, eris.Wrap(err, "identity: lookup stored mapping")
		}
		if m != nil {
			return &Match{PlayerKey: m.PlayerKey, Strategy: StrategyKnown, Confidence: m.Confidence}, nil
		}
	}

	if c.Position.IsTeamEntity() {
		return r.resolveDefense(ctx, c, log)
	}

	team := NormalizeTeam(c.Team, c.Provider)
	norm := NormalizeName(c.Name)

	if key, ok := r.dir.LookupExact(norm, team, c.Position); ok {
		return r.confirm(ctx, c, Match{PlayerKey: key, Strategy: StrategyExact, Confidence: confidenceExact})
	}

	for _, variation := range nameVariations(norm) {
		if key, ok := r.dir.LookupExact(variation, team, c.Position); ok {
			log.Debug("name variation match", zap.String("variation", variation))
			return r.confirm(ctx, c, Match{PlayerKey: key, Strategy: StrategyVariation, Confidence: confidenceVariation})
		}
	}

	if m := r.fuzzyMatch(norm, team, c.Position, log); m != nil {
		return r.confirm(ctx, c, *m)
	}

	// Team data goes stale after trades; accept a name+position match when
	// it is unambiguous. A row that never carried a team is an exact match
	// on name and position, not a fallback.
	if keys := r.dir.LookupNamePos(norm, c.Position); len(keys) == 1 {
		if team == "" {
			return r.confirm(ctx, c, Match{PlayerKey: keys[0], Strategy: StrategyExact, Confidence: confidenceExact})
		}
		log.Debug("matched with team dropped", zap.String("team", team))
		return r.confirm(ctx, c, Match{PlayerKey: keys[0], Strategy: StrategyFallback, Confidence: confidenceFallback})
	}

	log.Debug("no match")
	return nil, nil
}

func (r *Resolver) resolveDefense(ctx context.Context, c Candidate, log *zap.Logger) (*Match, error) {
	team, ok := DefenseTeam(c.Name)
	if !ok {
		team = NormalizeTeam(c.Team, c.Provider)
	}
	if team == "" {
		log.Warn("defense row has no recognizable team")
		return nil, nil
	}
	key, ok := r.dir.DefenseKey(team)
	if !ok {
		log.Warn("defense not in directory", zap.String("team", team))
		return nil, nil
	}
	return r.confirm(ctx, c, Match{PlayerKey: key, Strategy: StrategyDefense, Confidence: confidenceExact})
}

func (r *Resolver) fuzzyMatch(norm, team string, pos model.Position, log *zap.Logger) *Match {
	candidates := r.dir.CandidatesByTeamPos(team, pos)

	var best *model.PlayerIdentity
	bestScore := 0.0
	for i := range candidates {
		score := levenshtein.Similarity(norm, NormalizeName(candidates[i].Name), nil)
		if score >= r.threshold && score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}
	if best == nil {
		return nil
	}
	log.Debug("fuzzy match",
		zap.String("matched", best.Name),
		zap.Float64("similarity", bestScore),
	)
	return &Match{PlayerKey: best.Key, Strategy: StrategyFuzzy, Confidence: bestScore}
}

// confirm records the match in the identity store when the candidate carries
// an external ID, then returns it.
func (r *Resolver) confirm(ctx context.Context, c Candidate, m Match) (*Match, error) {
	if c.ExternalID != "" {
		err := r.store.PutMapping(ctx, store.Mapping{
			PlayerKey:  m.PlayerKey,
			Provider:   c.Provider,
			ExternalID: c.ExternalID,
			Confidence: m.Confidence,
			Verified:   m.Confidence >= verifiedThreshold,
		})
		if err != nil {
			return nil, eris.Wrap(err, "identity: record mapping")
		}
	}
	return &m, nil
}

// ResolveBatch resolves a slice of candidates and reports match coverage.
// The returned slice is aligned with the input; unresolved entries are nil.
func (r *Resolver) ResolveBatch(ctx context.Context, candidates []Candidate) ([]*Match, *MatchReport, error) {
	matches := make([]*Match, len(candidates))
	report := &MatchReport{Total: len(candidates)}

	for i, c := range candidates {
		m, err := r.Resolve(ctx, c)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "identity: resolve %q", c.Name)
		}
		if m == nil {
			report.Unmatched = append(report.Unmatched, c)
			continue
		}
		matches[i] = m
		report.Matched++
	}

	if report.Total > 0 {
		report.MatchRate = float64(report.Matched) / float64(report.Total)
	}
	zap.L().Info("batch resolution complete",
		zap.Int("total", report.Total),
		zap.Int("matched", report.Matched),
		zap.Float64("match_rate", report.MatchRate),
	)
	return matches, report, nil
}
