// Package scoring turns canonical stat lines into fantasy point totals under
// a configurable rule set.
package scoring

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ErrNoRuleSet is returned when scoring is attempted without rules. Callers
// opt in to DefaultRules explicitly; there is no implicit fallback.
var ErrNoRuleSet = eris.New("scoring: no rule set configured")

// RuleSet maps rule keys to point values. Rule keys are league-settings
// vocabulary ("pass_yd", "rec", "bonus_rec_te"), not canonical stat fields;
// ruleKey translates between the two.
type RuleSet map[string]float64

// BonusRecTE is the rule key for the tight end reception premium.
const BonusRecTE = "bonus_rec_te"

// statRuleKeys translates canonical stat fields to rule keys where the two
// vocabularies differ. Fields not listed here use their own name.
var statRuleKeys = map[string]string{
	"pass_yds":       "pass_yd",
	"pass_tds":       "pass_td",
	"pass_ints":      "pass_int",
	"rush_yds":       "rush_yd",
	"rush_tds":       "rush_td",
	"rec_yds":        "rec_yd",
	"rec_tds":        "rec_td",
	"def_sack":       "sack",
	"def_int":        "int",
	"def_fumble_rec": "fum_rec",
	"def_safety":     "safe",
	"def_block_kick": "blk_kick",
}

func ruleKey(field string) string {
	if key, ok := statRuleKeys[field]; ok {
		return key
	}
	return field
}

// PointsFor returns the rule value for a canonical stat field, zero when the
// rule set does not score it.
func (r RuleSet) PointsFor(field string) float64 {
	return r[ruleKey(field)]
}

// DefaultRules returns a standard league scoring table. Receptions score 1.0,
// which the engine applies per format rather than as part of the base total.
func DefaultRules() RuleSet {
	return RuleSet{
		// Passing
		"pass_yd":   0.04,
		"pass_td":   4.0,
		"pass_int":  -2.0,
		"pass_sack": -0.25,
		"pass_2pt":  2.0,

		// Rushing
		"rush_yd":  0.1,
		"rush_td":  6.0,
		"rush_2pt": 2.0,

		// Receiving
		"rec_yd":  0.1,
		"rec_td":  6.0,
		"rec":     1.0,
		"rec_2pt": 2.0,

		// Fumbles
		"fum_lost": -2.0,

		// Kicking
		"fgm":       3.0,
		"xpm":       1.0,
		"xpmiss":    -1.0,
		"fgm_40_49": 1.0,
		"fgm_50_59": 2.0,
		"fgm_60p":   3.0,

		// Defense
		"sack":     1.0,
		"int":      2.0,
		"fum_rec":  2.0,
		"def_td":   6.0,
		"safe":     2.0,
		"blk_kick": 2.0,

		// Points allowed tiers
		"pts_allow_0":     10.0,
		"pts_allow_1_6":   7.0,
		"pts_allow_7_13":  4.0,
		"pts_allow_14_20": 1.0,
		"pts_allow_21_27": 0.0,
		"pts_allow_28_34": -1.0,
		"pts_allow_35p":   -4.0,

		// Tackles by offensive players
		"tkl":      1.0,
		"tkl_solo": 1.0,
		"tkl_ast":  0.5,
		"idp_tkl":  1.0,
	}
}

// LoadRules reads a YAML rule set from disk.
func LoadRules(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scoring: read rules %s", path)
	}

	var rules RuleSet
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, eris.Wrapf(err, "scoring: parse rules %s", path)
	}
	if len(rules) == 0 {
		return nil, eris.Errorf("scoring: rules file %s is empty", path)
	}
	return rules, nil
}
