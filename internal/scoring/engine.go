package scoring

import (
	"math"

	"github.com/gridironlabs/consensus/internal/model"
)

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Score computes fantasy point totals for a canonical stat line under a rule
// set. The function is pure: identical inputs always produce identical
// results.
//
// Receptions are handled per format: the base total covers every stat except
// receptions, PPR adds the full reception points (plus the TE premium when
// the position is TE), and half-PPR adds half of that reception contribution.
func Score(values map[string]float64, pos model.Position, rules RuleSet) (model.ScoringResult, error) {
	if len(rules) == 0 {
		return model.ScoringResult{}, ErrNoRuleSet
	}

	var base float64
	for _, field := range model.CanonicalFields() {
		if field == model.FieldRec {
			continue
		}
		v := values[field]
		if v == 0 {
			continue
		}
		base += v * rules.PointsFor(field)
	}

	receptions := values[model.FieldRec]
	recPoints := receptions * rules[model.FieldRec]
	var teBonus float64
	if pos == model.PositionTE {
		teBonus = receptions * rules[BonusRecTE]
	}
	recContribution := recPoints + teBonus

	return model.ScoringResult{
		Standard:  round2(base),
		PPR:       round2(base + recContribution),
		HalfPPR:   round2(base + recContribution*0.5),
		Breakdown: breakdown(values, pos, rules),
	}, nil
}

// ScoreConsensus scores a consensus projection.
func ScoreConsensus(c model.ConsensusProjection, rules RuleSet) (model.ScoringResult, error) {
	return Score(c.Values, c.Position, rules)
}

// breakdown sums PPR points per display category, omitting empty buckets.
// Reception points land in the receiving bucket.
func breakdown(values map[string]float64, pos model.Position, rules RuleSet) map[string]float64 {
	out := make(map[string]float64)
	for category, fields := range model.Categories {
		var points float64
		for _, field := range fields {
			points += values[field] * rules.PointsFor(field)
		}
		if category == model.CategoryReceiving {
			receptions := values[model.FieldRec]
			points += receptions * rules[model.FieldRec]
			if pos == model.PositionTE {
				points += receptions * rules[BonusRecTE]
			}
		}
		if points != 0 {
			out[category] = round2(points)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
