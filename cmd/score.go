package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gridironlabs/consensus/internal/cache"
	"github.com/gridironlabs/consensus/internal/model"
	"github.com/gridironlabs/consensus/internal/pipeline"
	"github.com/gridironlabs/consensus/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score consensus projections into fantasy points",
	Long: `Builds consensus projections and scores every player under a rule set,
reporting standard, PPR, and half-PPR totals.

Examples:
  # Score week 5 with the default rules, ranked by PPR
  score --payload-dir ./payloads --players ./players.json --week 5

  # Score with league-specific rules
  score --payload-dir ./payloads --players ./players.json --week 5 --rules league.yaml`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("payload-dir", "", "directory of provider payload JSON files (required)")
	f.String("players", "", "canonical player list JSON file (required)")
	f.Int("week", 0, "week scope (0 = full season)")
	f.String("season", "", "season (default from config)")
	f.String("position", "", "filter to one position")
	f.String("rules", "", "scoring rules YAML file (default: config or built-in rules)")
	f.String("format", "table", "output format: table or json")
	f.String("output", "", "output file path (default: stdout)")
	f.Int("limit", 0, "show only the top N players (0 = all)")

	_ = scoreCmd.MarkFlagRequired("payload-dir")
	_ = scoreCmd.MarkFlagRequired("players")

	rootCmd.AddCommand(scoreCmd)
}

// scoredLine pairs a consensus line with its point totals for output.
type scoredLine struct {
	Player   string              `json:"player"`
	Team     string              `json:"team"`
	Position model.Position      `json:"position"`
	Points   model.ScoringResult `json:"points"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		return err
	}

	log := zap.L().With(zap.String("command", "score"))

	payloadDir, _ := cmd.Flags().GetString("payload-dir")
	playersPath, _ := cmd.Flags().GetString("players")
	week, _ := cmd.Flags().GetInt("week")
	season, _ := cmd.Flags().GetString("season")
	position, _ := cmd.Flags().GetString("position")
	rulesPath, _ := cmd.Flags().GetString("rules")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	limit, _ := cmd.Flags().GetInt("limit")

	if season == "" {
		season = cfg.Season.Season
	}
	if format != "table" && format != "json" {
		return eris.Errorf("score: --format must be table or json (got %q)", format)
	}

	rules, err := loadRules(rulesPath)
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	dir, err := loadDirectory(playersPath)
	if err != nil {
		return err
	}

	builder, _, err := newBuilder(st, dir)
	if err != nil {
		return err
	}

	payloads, err := pipeline.LoadPayloadDir(payloadDir)
	if err != nil {
		return err
	}

	key := cache.Key{Season: season, Week: week}
	if position != "" {
		key.Position = model.ParsePosition(position)
	}

	result, err := builder.Build(ctx, key, payloads)
	if err != nil {
		return err
	}

	scored := make([]scoredLine, 0, len(result.Lines))
	for _, line := range result.Lines {
		points, err := scoring.ScoreConsensus(line, rules)
		if err != nil {
			return eris.Wrapf(err, "score: %s", line.PlayerName)
		}
		scored = append(scored, scoredLine{
			Player:   line.PlayerName,
			Team:     line.Team,
			Position: line.Position,
			Points:   points,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Points.PPR > scored[j].Points.PPR
	})
	if limit > 0 && limit < len(scored) {
		scored = scored[:limit]
	}

	log.Info("scoring complete",
		zap.Int("players", len(scored)),
		zap.String("season", season),
		zap.Int("week", week),
	)
	return outputScores(scored, format, outputPath)
}

func outputScores(scored []scoredLine, format, outputPath string) error {
	var w *os.File
	if outputPath != "" {
		var err error
		w, err = os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "score: create output file %s", outputPath)
		}
		defer w.Close() //nolint:errcheck
	} else {
		w = os.Stdout
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(scored), "score: encode JSON")
	case "table":
		return writeScoreTable(w, scored)
	default:
		return eris.Errorf("score: unsupported format %q", format)
	}
}

func writeScoreTable(w *os.File, scored []scoredLine) error {
	header := fmt.Sprintf("%-4s %-28s %-5s %-4s %8s %8s %8s\n",
		"Rank", "Player", "Team", "Pos", "Std", "PPR", "Half")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "score: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 72)); err != nil {
		return eris.Wrap(err, "score: write table separator")
	}

	for i, s := range scored {
		name := s.Player
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		row := fmt.Sprintf("%-4d %-28s %-5s %-4s %8.2f %8.2f %8.2f\n",
			i+1, name, s.Team, s.Position, s.Points.Standard, s.Points.PPR, s.Points.HalfPPR)
		if _, err := fmt.Fprint(w, row); err != nil {
			return eris.Wrap(err, "score: write table row")
		}
	}
	return nil
}
