package normalizer

import (
	"github.com/gridironlabs/consensus/internal/model"
	"github.com/gridironlabs/consensus/internal/provider"
)

// mappingTable declares how one provider format's raw field names translate
// into the canonical vocabulary. fields applies to every record; teamFields
// overrides entries for team-entity (DEF) records, where providers reuse
// generic names like "sack" that mean something different for a player.
type mappingTable struct {
	fields     map[string]string
	teamFields map[string]string
}

// tables is the static per-format registry. Adding a provider format is one
// new entry here; no call sites change.
var tables = map[provider.Format]mappingTable{
	provider.FormatSleeper: {
		fields: map[string]string{
			"pass_yd":   model.FieldPassYds,
			"pass_td":   model.FieldPassTDs,
			"pass_int":  model.FieldPassInts,
			"pass_att":  model.FieldPassAtt,
			"pass_cmp":  model.FieldPassCmp,
			"pass_sack": model.FieldPassSack,
			"pass_2pt":  model.FieldPass2Pt,
			"rush_yd":   model.FieldRushYds,
			"rush_td":   model.FieldRushTDs,
			"rush_att":  model.FieldRushAtt,
			"rush_2pt":  model.FieldRush2Pt,
			"rec":       model.FieldRec,
			"rec_yd":    model.FieldRecYds,
			"rec_td":    model.FieldRecTDs,
			"rec_tgt":   model.FieldRecTgt,
			"rec_2pt":   model.FieldRec2Pt,
			"fum":       model.FieldFum,
			"fum_lost":  model.FieldFumLost,
			"ff":        model.FieldFF,
			"fgm":       model.FieldFGM,
			"fga":       model.FieldFGA,
			"xpm":       model.FieldXPM,
			"xpa":       model.FieldXPA,
			"fgm_0_19":  "fgm_0_19",
			"fgm_20_29": "fgm_20_29",
			"fgm_30_39": "fgm_30_39",
			"fgm_40_49": "fgm_40_49",
			"fgm_50_59": "fgm_50_59",
			"fgm_60p":   "fgm_60p",
			"kr_yd":     "kr_yd",
			"pr_yd":     "pr_yd",
			"st_td":     "st_td",
			"idp_tkl":   "idp_tkl",
		},
		teamFields: map[string]string{
			"sack":       "def_sack",
			"int":        "def_int",
			"fum_rec":    "def_fumble_rec",
			"def_td":     "def_td",
			"safe":       "def_safety",
			"blk_kick":   "def_block_kick",
			"pts_allow":  "pts_allow",
			"yds_allow":  "yds_allow",
			"st_td":      "st_td",
			"st_fum_rec": "st_fum_rec",
			"st_ff":      "st_ff",
		},
	},

	provider.FormatFantasyPros: {
		fields: map[string]string{
			"passing_yards":         model.FieldPassYds,
			"passing_tds":           model.FieldPassTDs,
			"passing_interceptions": model.FieldPassInts,
			"passing_attempts":      model.FieldPassAtt,
			"passing_completions":   model.FieldPassCmp,
			"rushing_yards":         model.FieldRushYds,
			"rushing_tds":           model.FieldRushTDs,
			"rushing_attempts":      model.FieldRushAtt,
			"receiving_yards":       model.FieldRecYds,
			"receiving_tds":         model.FieldRecTDs,
			"receptions":            model.FieldRec,
			"targets":               model.FieldRecTgt,
			"fumbles_lost":          model.FieldFumLost,

			"field_goals_made":       model.FieldFGM,
			"field_goals_attempted":  model.FieldFGA,
			"extra_points_made":      model.FieldXPM,
			"extra_points_attempted": model.FieldXPA,
			"field_goal_yards":       model.FieldFGMYds,
			"fg_0_19":                "fgm_0_19",
			"fg_20_29":               "fgm_20_29",
			"fg_30_39":               "fgm_30_39",
			"fg_40_49":               "fgm_40_49",
			"fg_50_plus":             "fgm_50_59", // 50+ folds into the 50-59 bracket
			"fg_60_plus":             "fgm_60p",
		},
		teamFields: map[string]string{
			"sacks":             "def_sack",
			"interceptions":     "def_int",
			"fumble_recoveries": "def_fumble_rec",
			"defensive_tds":     "def_td",
			"safeties":          "def_safety",
			"blocked_kicks":     "def_block_kick",
			"fourth_down_stops": "def_4_and_stop",

			"pts_allow_0":       "pts_allow_0",
			"pts_allow_1_6":     "pts_allow_1_6",
			"pts_allow_7_13":    "pts_allow_7_13",
			"pts_allow_14_20":   "pts_allow_14_20",
			"pts_allow_21_27":   "pts_allow_21_27",
			"pts_allow_28_34":   "pts_allow_28_34",
			"pts_allow_35_plus": "pts_allow_35p",

			"yds_allow_0_100":    "yds_allow_0_100",
			"yds_allow_100_199":  "yds_allow_100_199",
			"yds_allow_200_299":  "yds_allow_200_299",
			"yds_allow_300_349":  "yds_allow_300_349",
			"yds_allow_350_399":  "yds_allow_350_399",
			"yds_allow_400_plus": "yds_allow_400_449",

			"total_points_allowed": "pts_allow",
			"total_yards_allowed":  "yds_allow",
		},
	},

	provider.FormatESPN: {
		fields: map[string]string{
			"passingYards":         model.FieldPassYds,
			"passingTouchdowns":    model.FieldPassTDs,
			"passingInterceptions": model.FieldPassInts,
			"passingAttempts":      model.FieldPassAtt,
			"passingCompletions":   model.FieldPassCmp,
			"rushingYards":         model.FieldRushYds,
			"rushingTouchdowns":    model.FieldRushTDs,
			"rushingAttempts":      model.FieldRushAtt,
			"receivingYards":       model.FieldRecYds,
			"receivingTouchdowns":  model.FieldRecTDs,
			"receivingReceptions":  model.FieldRec,
			"receivingTargets":     model.FieldRecTgt,
			"fumblesLost":          model.FieldFumLost,
			"madeFieldGoals":       model.FieldFGM,
			"attemptedFieldGoals":  model.FieldFGA,
			"madeExtraPoints":      model.FieldXPM,
			"attemptedExtraPoints": model.FieldXPA,
		},
		teamFields: map[string]string{
			"defensiveSacks":            "def_sack",
			"defensiveInterceptions":    "def_int",
			"defensiveFumbleRecoveries": "def_fumble_rec",
			"defensiveTouchdowns":       "def_td",
			"defensiveSafeties":         "def_safety",
			"defensiveBlockedKicks":     "def_block_kick",
			"defensivePointsAllowed":    "pts_allow",
			"defensiveYardsAllowed":     "yds_allow",
		},
	},
}

func init() {
	// The canonical format maps every field to itself, which makes
	// normalization of an already-canonical record a no-op.
	identity := make(map[string]string, len(model.CanonicalFields()))
	for _, f := range model.CanonicalFields() {
		identity[f] = f
	}
	tables[provider.FormatCanonical] = mappingTable{fields: identity}
}
