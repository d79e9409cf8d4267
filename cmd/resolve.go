package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gridironlabs/consensus/internal/identity"
	"github.com/gridironlabs/consensus/internal/model"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve one provider player to a canonical identity",
	Long: `Runs the identity matching waterfall for a single provider row and
reports which strategy matched and at what confidence.

Examples:
  resolve --players ./players.json --provider fantasypros --name "Marvin Harrison" --team ARI --position WR
  resolve --players ./players.json --provider sleeper --name "Chicago Bears" --position DEF`,
	RunE: runResolve,
}

func init() {
	f := resolveCmd.Flags()
	f.String("players", "", "canonical player list JSON file (required)")
	f.String("provider", "", "provider name (required)")
	f.String("name", "", "player name as the provider reports it (required)")
	f.String("team", "", "team abbreviation as the provider reports it")
	f.String("position", "", "position as the provider reports it (required)")
	f.String("external-id", "", "provider's identifier for the player")

	_ = resolveCmd.MarkFlagRequired("players")
	_ = resolveCmd.MarkFlagRequired("provider")
	_ = resolveCmd.MarkFlagRequired("name")
	_ = resolveCmd.MarkFlagRequired("position")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		return err
	}

	playersPath, _ := cmd.Flags().GetString("players")
	providerName, _ := cmd.Flags().GetString("provider")
	name, _ := cmd.Flags().GetString("name")
	team, _ := cmd.Flags().GetString("team")
	position, _ := cmd.Flags().GetString("position")
	externalID, _ := cmd.Flags().GetString("external-id")

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	dir, err := loadDirectory(playersPath)
	if err != nil {
		return err
	}
	resolver := identity.NewResolver(dir, st,
		identity.WithFuzzyThreshold(cfg.Resolver.FuzzyThreshold),
	)

	match, err := resolver.Resolve(ctx, identity.Candidate{
		Provider:   providerName,
		Name:       name,
		Team:       team,
		Position:   model.ParsePosition(position),
		ExternalID: externalID,
	})
	if err != nil {
		return err
	}
	if match == nil {
		fmt.Printf("No match for %q (%s %s, %s)\n", name, team, position, providerName)
		return nil
	}

	player, _ := dir.Get(match.PlayerKey)
	fmt.Printf("Key:        %s\n", match.PlayerKey)
	fmt.Printf("Player:     %s (%s %s)\n", player.Name, player.Team, player.Position)
	fmt.Printf("Strategy:   %s\n", match.Strategy)
	fmt.Printf("Confidence: %.2f\n", match.Confidence)
	return nil
}
