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
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`
	Map     MapConfig     `yaml:"map" mapstructure:"map"`
	Render  RenderConfig  `yaml:"render" mapstructure:"render"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// DatasetConfig locates the attendance GeoJSON and describes its shape.
type DatasetConfig struct {
	Source           string `yaml:"source" mapstructure:"source"`
	AttributePattern string `yaml:"attribute_pattern" mapstructure:"attribute_pattern"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent        string `yaml:"user_agent" mapstructure:"user_agent"`
}

// MapConfig holds the viewport and basemap settings.
type MapConfig struct {
	CenterLat   float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLon   float64 `yaml:"center_lon" mapstructure:"center_lon"`
	Zoom        int     `yaml:"zoom" mapstructure:"zoom"`
	MaxZoom     int     `yaml:"max_zoom" mapstructure:"max_zoom"`
	TileURL     string  `yaml:"tile_url" mapstructure:"tile_url"`
	Attribution string  `yaml:"attribution" mapstructure:"attribution"`
	Width       int     `yaml:"width" mapstructure:"width"`
	Height      int     `yaml:"height" mapstructure:"height"`
}

// RenderConfig configures headless output.
type RenderConfig struct {
	OutputDir   string `yaml:"output_dir" mapstructure:"output_dir"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
	Format      string `yaml:"format" mapstructure:"format"`
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
	v.SetEnvPrefix("ATTENDANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset.source", "data/attendance.geojson")
	v.SetDefault("dataset.attribute_pattern", "Avg")
	v.SetDefault("dataset.timeout_secs", 30)
	v.SetDefault("dataset.user_agent", "attendance-map/1.0")
	v.SetDefault("map.center_lat", 37.639018)
	v.SetDefault("map.center_lon", -87.981940)
	v.SetDefault("map.zoom", 4)
	v.SetDefault("map.max_zoom", 18)
	v.SetDefault("map.tile_url", "https://api.tiles.mapbox.com/v4/{id}/{z}/{x}/{y}.png?access_token={accessToken}")
	v.SetDefault("map.attribution", "Map data &copy; OpenStreetMap contributors, CC-BY-SA, Imagery © Mapbox")
	v.SetDefault("map.width", 1024)
	v.SetDefault("map.height", 640)
	v.SetDefault("render.output_dir", "out")
	v.SetDefault("render.concurrency", 4)
	v.SetDefault("render.format", "svg")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings no view can be built from.
func (c *Config) Validate() error {
	if c.Dataset.Source == "" {
		return eris.New("config: dataset.source is required")
	}
	if c.Dataset.AttributePattern == "" {
		return eris.New("config: dataset.attribute_pattern is required")
	}
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		return eris.Errorf("config: map size must be positive, got %dx%d", c.Map.Width, c.Map.Height)
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > c.Map.MaxZoom {
		return eris.Errorf("config: map.zoom %d outside [0, %d]", c.Map.Zoom, c.Map.MaxZoom)
	}
	switch c.Render.Format {
	case "svg", "geojson":
	default:
		return eris.Errorf("config: unknown render.format %q", c.Render.Format)
	}
	return nil
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
