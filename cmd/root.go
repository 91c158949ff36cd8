package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/helioavila/landuse-intensity/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "landuse",
	Short: "Land-use intensity mapping pipeline",
	Long:  "Fetches municipal boundaries, land-use and building polygons from OSM, classifies sector and intensity, and exports CSV/GeoPackage datasets and static maps.",
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
