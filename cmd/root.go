package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/uhi-synth/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "uhi-synth",
	Short: "Synthetic urban heat island dataset generator",
	Long:  "Generates a deterministic satellite-like grid dataset (spectral bands, vegetation/urban indices, LST with an urban heat island pattern) and exports it to CSV and XLSX.",
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
