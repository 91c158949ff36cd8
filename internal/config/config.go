// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Cities    []string        `yaml:"cities" mapstructure:"cities"`
	Boundary  BoundaryConfig  `yaml:"boundary" mapstructure:"boundary"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Render    RenderConfig    `yaml:"render" mapstructure:"render"`
	Intensity IntensityConfig `yaml:"intensity" mapstructure:"intensity"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// BoundaryConfig configures boundary resolution.
type BoundaryConfig struct {
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	Shapefile string `yaml:"shapefile" mapstructure:"shapefile"`
	NameField string `yaml:"name_field" mapstructure:"name_field"`
}

// FetchConfig configures the Overpass feature fetch.
type FetchConfig struct {
	Endpoint    string `yaml:"endpoint" mapstructure:"endpoint"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ExportConfig configures file exports.
type ExportConfig struct {
	DataDir     string `yaml:"data_dir" mapstructure:"data_dir"`
	CSVGeometry string `yaml:"csv_geometry" mapstructure:"csv_geometry"`
	XLSX        bool   `yaml:"xlsx" mapstructure:"xlsx"`
}

// RenderConfig configures map rendering.
type RenderConfig struct {
	MapsDir string `yaml:"maps_dir" mapstructure:"maps_dir"`
	Width   int    `yaml:"width" mapstructure:"width"`
	Height  int    `yaml:"height" mapstructure:"height"`
}

// IntensityConfig configures the intensity command's landuse sources. Keys
// are municipality names; values are GeoPackage paths or URLs. Cities with
// no entry default to the artifacts of a prior export run.
type IntensityConfig struct {
	Sources map[string]string `yaml:"sources" mapstructure:"sources"`
	Layer   string            `yaml:"layer" mapstructure:"layer"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LANDUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("cities", []string{
		"Vancouver, British Columbia, Canada",
		"City of North Vancouver, British Columbia, Canada",
	})
	v.SetDefault("boundary.endpoint", "https://nominatim.openstreetmap.org")
	v.SetDefault("boundary.user_agent", "landuse-intensity/1.0")
	v.SetDefault("boundary.name_field", "NAME")
	v.SetDefault("fetch.endpoint", "https://overpass-api.de/api/interpreter")
	v.SetDefault("fetch.timeout_secs", 180)
	v.SetDefault("export.data_dir", "data")
	v.SetDefault("export.csv_geometry", "wkt")
	v.SetDefault("export.xlsx", false)
	v.SetDefault("render.maps_dir", "maps")
	v.SetDefault("render.width", 1200)
	v.SetDefault("render.height", 1200)
	v.SetDefault("intensity.layer", "landuse")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
