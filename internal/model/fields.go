// Package model defines the canonical stat vocabulary and core data types
// shared by the normalization, identity, consensus, and scoring packages.
package model

// Canonical stat field names. Every provider payload is normalized into this
// closed vocabulary before any downstream arithmetic runs.
const (
	// Passing
	FieldPassYds  = "pass_yds"
	FieldPassTDs  = "pass_tds"
	FieldPassInts = "pass_ints"
	FieldPassAtt  = "pass_att"
	FieldPassCmp  = "pass_cmp"
	FieldPassSack = "pass_sack"
	FieldPass2Pt  = "pass_2pt"

	// Rushing
	FieldRushYds = "rush_yds"
	FieldRushTDs = "rush_tds"
	FieldRushAtt = "rush_att"
	FieldRush2Pt = "rush_2pt"

	// Receiving
	FieldRec    = "rec"
	FieldRecYds = "rec_yds"
	FieldRecTDs = "rec_tds"
	FieldRecTgt = "rec_tgt"
	FieldRec2Pt = "rec_2pt"

	// Fumbles
	FieldFum      = "fum"
	FieldFumLost  = "fum_lost"
	FieldFF       = "ff"
	FieldFumRecTD = "fum_rec_td"

	// Kicking
	FieldFGM    = "fgm"
	FieldFGA    = "fga"
	FieldXPM    = "xpm"
	FieldXPA    = "xpa"
	FieldXPMiss = "xpmiss"
	FieldFGMYds = "fgm_yds"
)

// fgBrackets lists the distance-bracketed field goal fields.
var fgBrackets = []string{
	"fgm_0_19", "fgm_20_29", "fgm_30_39", "fgm_40_49", "fgm_50_59", "fgm_60p",
	"fgmiss_0_19", "fgmiss_20_29", "fgmiss_30_39", "fgmiss_40_49",
}

// defenseFields lists defensive and points/yards-allowed tier fields.
var defenseFields = []string{
	"def_sack", "def_int", "def_fumble_rec", "def_td", "def_safety",
	"def_block_kick", "def_4_and_stop",
	"pts_allow_0", "pts_allow_1_6", "pts_allow_7_13", "pts_allow_14_20",
	"pts_allow_21_27", "pts_allow_28_34", "pts_allow_35p",
	"yds_allow_0_100", "yds_allow_100_199", "yds_allow_200_299",
	"yds_allow_300_349", "yds_allow_350_399", "yds_allow_400_449",
	"yds_allow_450_499", "yds_allow_500_549", "yds_allow_550p",
	"pts_allow", "yds_allow",
}

// specialTeamsFields lists special teams fields.
var specialTeamsFields = []string{
	"st_td", "kr_yd", "pr_yd", "st_fum_rec", "st_ff",
}

// tackleFields lists IDP and offensive-player tackle fields.
var tackleFields = []string{
	"idp_tkl", "def_pass_def", "def_tackle_solo", "def_tackle_assist",
	"def_qb_hit", "def_tfl", "tkl", "tkl_solo", "tkl_ast",
}

var canonicalFields []string

var canonicalSet map[string]bool

func init() {
	canonicalFields = []string{
		FieldPassYds, FieldPassTDs, FieldPassInts, FieldPassAtt, FieldPassCmp,
		FieldPassSack, FieldPass2Pt,
		FieldRushYds, FieldRushTDs, FieldRushAtt, FieldRush2Pt,
		FieldRec, FieldRecYds, FieldRecTDs, FieldRecTgt, FieldRec2Pt,
		FieldFum, FieldFumLost, FieldFF, FieldFumRecTD,
		FieldFGM, FieldFGA, FieldXPM, FieldXPA, FieldXPMiss, FieldFGMYds,
	}
	canonicalFields = append(canonicalFields, fgBrackets...)
	canonicalFields = append(canonicalFields, defenseFields...)
	canonicalFields = append(canonicalFields, specialTeamsFields...)
	canonicalFields = append(canonicalFields, tackleFields...)

	canonicalSet = make(map[string]bool, len(canonicalFields))
	for _, f := range canonicalFields {
		canonicalSet[f] = true
	}
}

// CanonicalFields returns the full canonical vocabulary in a stable order.
// The returned slice must not be modified.
func CanonicalFields() []string {
	return canonicalFields
}

// IsCanonical reports whether name is part of the canonical vocabulary.
func IsCanonical(name string) bool {
	return canonicalSet[name]
}

// Scoring breakdown categories.
const (
	CategoryPassing      = "passing"
	CategoryRushing      = "rushing"
	CategoryReceiving    = "receiving"
	CategoryKicking      = "kicking"
	CategoryDefense      = "defense"
	CategorySpecialTeams = "special_teams"
	CategoryFumbles      = "fumbles"
	CategoryTackles      = "tackles"
)

// Categories maps each breakdown bucket to its canonical fields. Receptions
// are part of the receiving bucket even though the scoring engine handles
// their point contribution per format.
var Categories = map[string][]string{
	CategoryPassing:   {FieldPassYds, FieldPassTDs, FieldPassInts, FieldPassSack, FieldPass2Pt},
	CategoryRushing:   {FieldRushYds, FieldRushTDs, FieldRush2Pt},
	CategoryReceiving: {FieldRecYds, FieldRecTDs, FieldRec2Pt},
	CategoryKicking: {FieldFGM, FieldFGA, FieldXPM, FieldXPA, FieldXPMiss, FieldFGMYds,
		"fgm_0_19", "fgm_20_29", "fgm_30_39", "fgm_40_49", "fgm_50_59", "fgm_60p",
		"fgmiss_0_19", "fgmiss_20_29", "fgmiss_30_39", "fgmiss_40_49"},
	CategoryDefense:      defenseFields,
	CategorySpecialTeams: specialTeamsFields,
	CategoryFumbles:      {FieldFum, FieldFumLost, FieldFF, FieldFumRecTD},
	CategoryTackles:      tackleFields,
}

// DisplayFields returns the position-specific fields worth surfacing to a
// consumer, mapped to short display labels.
func DisplayFields(pos Position) map[string]string {
	switch pos {
	case PositionQB:
		return map[string]string{
			FieldPassYds:  "Pass Yds",
			FieldPassTDs:  "Pass TDs",
			FieldPassInts: "INTs",
			FieldRushYds:  "Rush Yds",
			FieldRushTDs:  "Rush TDs",
		}
	case PositionRB, PositionFB:
		return map[string]string{
			FieldRushYds: "Rush Yds",
			FieldRushTDs: "Rush TDs",
			FieldRecYds:  "Rec Yds",
			FieldRecTDs:  "Rec TDs",
			FieldRec:     "Receptions",
		}
	case PositionWR, PositionTE:
		return map[string]string{
			FieldRecYds:  "Rec Yds",
			FieldRecTDs:  "Rec TDs",
			FieldRec:     "Receptions",
			FieldRushYds: "Rush Yds",
			FieldRushTDs: "Rush TDs",
		}
	case PositionK:
		return map[string]string{
			FieldFGM:    "FG Made",
			FieldFGA:    "FG Att",
			FieldXPM:    "XP Made",
			"fgm_40_49": "FG 40-49",
			"fgm_50_59": "FG 50+",
		}
	case PositionDEF, PositionDST:
		return map[string]string{
			"def_sack":       "Sacks",
			"def_int":        "INTs",
			"def_fumble_rec": "Fum Rec",
			"def_td":         "Def TDs",
			"pts_allow":      "Pts Allow",
		}
	default:
		return map[string]string{}
	}
}
