package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gridironlabs/consensus/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "consensus",
	Short: "Fantasy football projection reconciliation pipeline",
	Long:  "Normalizes projections from multiple providers into a shared stat vocabulary, resolves player identities, and produces weighted consensus lines with fantasy scoring.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
