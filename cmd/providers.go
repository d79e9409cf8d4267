package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List registered projection providers",
	RunE:  runProviders,
}

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Report identity mapping coverage per provider",
	RunE:  runCoverage,
}

func init() {
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(coverageCmd)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	registry, err := newRegistry()
	if err != nil {
		return err
	}

	fmt.Printf("%-15s %-12s %-8s %s\n", "Provider", "Format", "Weight", "Capabilities")
	fmt.Println(strings.Repeat("-", 60))
	for _, name := range registry.List() {
		caps, _ := registry.Get(name)
		var features []string
		if caps.Projections {
			features = append(features, "projections")
		}
		if caps.Rankings {
			features = append(features, "rankings")
		}
		if caps.Stats {
			features = append(features, "stats")
		}
		fmt.Printf("%-15s %-12s %-8.2f %s\n",
			name, caps.Format, caps.Weight, strings.Join(features, ", "))
	}
	return nil
}

func runCoverage(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Coverage(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Players with mappings: %d\n\n", stats.TotalPlayers)
	fmt.Printf("%-15s %-8s %s\n", "Provider", "Mapped", "Coverage")
	fmt.Println(strings.Repeat("-", 36))
	for provider, n := range stats.ByProvider {
		fmt.Printf("%-15s %-8d %.2f%%\n", provider, n, stats.Percentages[provider])
	}
	return nil
}
