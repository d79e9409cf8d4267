package identity

import "strings"

// Providers mostly agree on team abbreviations; the exceptions are enumerated
// per provider pair and applied on top of an uppercase fold.
var teamTranslations = map[string]map[string]string{
	"fantasypros": {
		"JAC": "JAX",
	},
	"espn": {
		"JAC": "JAX",
		"WSH": "WAS",
	},
}

// NormalizeTeam converts a provider's team abbreviation to the canonical
// (sleeper-style) form. Unknown abbreviations pass through uppercased.
func NormalizeTeam(team, fromProvider string) string {
	if team == "" {
		return ""
	}
	abbr := strings.ToUpper(strings.TrimSpace(team))
	if overrides, ok := teamTranslations[strings.ToLower(fromProvider)]; ok {
		if canonical, ok := overrides[abbr]; ok {
			return canonical
		}
	}
	return abbr
}

// defenseNames maps full franchise names, as some providers label defense
// rows, to canonical team abbreviations.
var defenseNames = map[string]string{
	"arizona cardinals":     "ARI",
	"atlanta falcons":       "ATL",
	"baltimore ravens":      "BAL",
	"buffalo bills":         "BUF",
	"carolina panthers":     "CAR",
	"chicago bears":         "CHI",
	"cincinnati bengals":    "CIN",
	"cleveland browns":      "CLE",
	"dallas cowboys":        "DAL",
	"denver broncos":        "DEN",
	"detroit lions":         "DET",
	"green bay packers":     "GB",
	"houston texans":        "HOU",
	"indianapolis colts":    "IND",
	"jacksonville jaguars":  "JAX",
	"kansas city chiefs":    "KC",
	"las vegas raiders":     "LV",
	"los angeles chargers":  "LAC",
	"los angeles rams":      "LAR",
	"miami dolphins":        "MIA",
	"minnesota vikings":     "MIN",
	"new england patriots":  "NE",
	"new orleans saints":    "NO",
	"new york giants":       "NYG",
	"new york jets":         "NYJ",
	"philadelphia eagles":   "PHI",
	"pittsburgh steelers":   "PIT",
	"san francisco 49ers":   "SF",
	"seattle seahawks":      "SEA",
	"tampa bay buccaneers":  "TB",
	"tennessee titans":      "TEN",
	"washington commanders": "WAS",
}

// DefenseTeam resolves a defense entry's label to a team abbreviation. The
// label may be a full franchise name ("Chicago Bears"), a name with a unit
// suffix ("Chicago Bears D/ST"), or already an abbreviation.
func DefenseTeam(label string) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(label))
	for _, suffix := range []string{" d/st", " dst", " defense", " def"} {
		cleaned = strings.TrimSuffix(cleaned, suffix)
	}
	cleaned = strings.TrimSpace(cleaned)

	if abbr, ok := defenseNames[cleaned]; ok {
		return abbr, true
	}

	upper := strings.ToUpper(cleaned)
	if len(upper) >= 2 && len(upper) <= 3 {
		for _, abbr := range defenseNames {
			if abbr == upper {
				return abbr, true
			}
		}
	}
	return "", false
}
