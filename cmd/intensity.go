package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var intensityCmd = &cobra.Command{
	Use:   "intensity",
	Short: "Classify exported landuse layers and render intensity maps",
	Long:  "Loads landuse layers from GeoPackage files or URLs (defaulting to a prior export's artifacts), classifies sector and intensity, exports enriched datasets, and renders per-city and merged maps.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := buildPipeline()
		if err != nil {
			return err
		}
		return p.Intensity(ctx, cfg.Cities, cfg.Intensity.Sources, cfg.Intensity.Layer)
	},
}

func init() { rootCmd.AddCommand(intensityCmd) }
