package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Full pipeline: fetch, classify, export, render",
	Long:  "Runs the whole pipeline in one pass per municipality without reloading intermediate files, then merges results across municipalities.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := buildPipeline()
		if err != nil {
			return err
		}
		return p.Run(ctx, cfg.Cities)
	},
}

func init() { rootCmd.AddCommand(runCmd) }
