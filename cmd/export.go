package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetch and export raw landuse and building footprints",
	Long:  "Resolves each configured municipality's boundary, fetches landuse and building polygons within it, and exports per-city and merged CSV/GeoPackage datasets.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := buildPipeline()
		if err != nil {
			return err
		}
		return p.Export(ctx, cfg.Cities)
	},
}

func init() { rootCmd.AddCommand(exportCmd) }
