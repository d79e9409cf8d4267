package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gridironlabs/consensus/internal/cache"
	"github.com/gridironlabs/consensus/internal/consensus"
	"github.com/gridironlabs/consensus/internal/model"
	"github.com/gridironlabs/consensus/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build consensus projections from provider payloads",
	Long: `Ingests provider payload files, resolves players to canonical identities,
and aggregates the projections into one weighted consensus line per player.

Examples:
  # Weekly consensus for all positions
  build --payload-dir ./payloads --players ./players.json --week 5

  # Full-season RB consensus to JSON
  build --payload-dir ./payloads --players ./players.json --position RB --format json`,
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.String("payload-dir", "", "directory of provider payload JSON files (required)")
	f.String("players", "", "canonical player list JSON file (required)")
	f.Int("week", 0, "week scope (0 = full season)")
	f.String("season", "", "season (default from config)")
	f.String("position", "", "filter to one position (QB, RB, WR, TE, K, DEF)")
	f.String("format", "table", "output format: table or json")
	f.String("output", "", "output file path (default: stdout)")
	f.Bool("refresh", false, "drop any cached batch for this scope before building")

	_ = buildCmd.MarkFlagRequired("payload-dir")
	_ = buildCmd.MarkFlagRequired("players")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		return err
	}

	log := zap.L().With(zap.String("command", "build"))

	payloadDir, _ := cmd.Flags().GetString("payload-dir")
	playersPath, _ := cmd.Flags().GetString("players")
	week, _ := cmd.Flags().GetInt("week")
	season, _ := cmd.Flags().GetString("season")
	position, _ := cmd.Flags().GetString("position")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	refresh, _ := cmd.Flags().GetBool("refresh")

	if season == "" {
		season = cfg.Season.Season
	}
	if format != "table" && format != "json" {
		return eris.Errorf("build: --format must be table or json (got %q)", format)
	}

	key := cache.Key{Season: season, Week: week}
	if position != "" {
		key.Position = model.ParsePosition(position)
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

	builder, consensusCache, err := newBuilder(st, dir)
	if err != nil {
		return err
	}
	if refresh {
		consensusCache.Invalidate(cache.Filter{Season: &season, Week: &week})
	}

	payloads, err := pipeline.LoadPayloadDir(payloadDir)
	if err != nil {
		return err
	}

	log.Info("building consensus",
		zap.String("season", season),
		zap.Int("week", week),
		zap.String("position", position),
		zap.Int("payloads", len(payloads)),
	)

	result, err := builder.Build(ctx, key, payloads)
	if err != nil {
		return err
	}

	if err := outputConsensus(result.Lines, format, outputPath); err != nil {
		return err
	}
	printBuildSummary(result)
	return nil
}

func printBuildSummary(result *pipeline.Result) {
	stats := consensus.Summarize(result.Lines)
	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Players:           %d\n", stats.Players)
	fmt.Printf("Avg providers:     %.2f\n", stats.AvgProviders)
	fmt.Printf("Single-provider:   %d\n", stats.SingleProviderOnly)
	if result.Report != nil {
		fmt.Printf("Match rate:        %.1f%% (%d/%d)\n",
			result.Report.MatchRate*100, result.Report.Matched, result.Report.Total)
		for _, u := range result.Report.Unmatched {
			fmt.Printf("  unmatched: %s (%s %s, %s)\n", u.Name, u.Team, u.Position, u.Provider)
		}
	}
	if result.FromCache {
		fmt.Println("Served from cache.")
	}
}

func outputConsensus(lines []model.ConsensusProjection, format, outputPath string) error {
	var w *os.File
	if outputPath != "" {
		var err error
		w, err = os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "build: create output file %s", outputPath)
		}
		defer w.Close() //nolint:errcheck
	} else {
		w = os.Stdout
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(lines), "build: encode JSON")
	case "table":
		return writeConsensusTable(w, lines)
	default:
		return eris.Errorf("build: unsupported format %q", format)
	}
}

func writeConsensusTable(w *os.File, lines []model.ConsensusProjection) error {
	header := fmt.Sprintf("%-28s %-5s %-4s %-10s %s\n",
		"Player", "Team", "Pos", "Providers", "Projection")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "build: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 90)); err != nil {
		return eris.Wrap(err, "build: write table separator")
	}

	for _, line := range lines {
		name := line.PlayerName
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		row := fmt.Sprintf("%-28s %-5s %-4s %-10d %s\n",
			name, line.Team, line.Position, line.ProviderCount, formatStatLine(line))
		if _, err := fmt.Fprint(w, row); err != nil {
			return eris.Wrap(err, "build: write table row")
		}
	}
	return nil
}

// formatStatLine renders the position-relevant fields of a consensus line.
func formatStatLine(line model.ConsensusProjection) string {
	display := model.DisplayFields(line.Position)
	parts := make([]string, 0, len(display))
	for _, field := range model.CanonicalFields() {
		label, ok := display[field]
		if !ok {
			continue
		}
		v := line.Values[field]
		if v == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %.1f", label, v))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
