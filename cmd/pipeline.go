package main

import (
	"net/http"
	"time"

	"github.com/helioavila/landuse-intensity/internal/boundary"
	"github.com/helioavila/landuse-intensity/internal/export"
	"github.com/helioavila/landuse-intensity/internal/pipeline"
	"github.com/helioavila/landuse-intensity/pkg/nominatim"
	"github.com/helioavila/landuse-intensity/pkg/overpass"
)

// buildPipeline wires the resolver, fetcher and writer from config.
func buildPipeline() (*pipeline.Pipeline, error) {
	var providers []boundary.Provider
	if cfg.Boundary.Shapefile != "" {
		providers = append(providers,
			boundary.NewShapefileProvider(cfg.Boundary.Shapefile, cfg.Boundary.NameField))
	}
	providers = append(providers, boundary.NewNominatimProvider(
		nominatim.NewClient(
			nominatim.WithBaseURL(cfg.Boundary.Endpoint),
			nominatim.WithUserAgent(cfg.Boundary.UserAgent),
		),
	))

	fetcher := overpass.NewFetcher(cfg.Fetch.Endpoint,
		time.Duration(cfg.Fetch.TimeoutSecs)*time.Second)

	writer, err := export.NewWriter(export.Options{
		DataDir:     cfg.Export.DataDir,
		CSVGeometry: cfg.Export.CSVGeometry,
		XLSX:        cfg.Export.XLSX,
	})
	if err != nil {
		return nil, err
	}

	return pipeline.New(boundary.NewChain(providers...), fetcher, writer, pipeline.Options{
		MapsDir:    cfg.Render.MapsDir,
		MapWidth:   cfg.Render.Width,
		MapHeight:  cfg.Render.Height,
		HTTPClient: &http.Client{Timeout: 5 * time.Minute},
	}), nil
}
