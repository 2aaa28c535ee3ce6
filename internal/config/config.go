// Package config loads settings from config.yaml, .env and MADRID_*
// environment variables, and builds the global logger.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Map    MapConfig    `yaml:"map" mapstructure:"map"`
	UI     UIConfig     `yaml:"ui" mapstructure:"ui"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the two input datasets. Each location is a local path
// or an http(s):// or ftp:// URL, optionally pointing at a .zip archive.
type DataConfig struct {
	Listings        string  `yaml:"listings" mapstructure:"listings"`
	Neighbourhoods  string  `yaml:"neighbourhoods" mapstructure:"neighbourhoods"`
	TempDir         string  `yaml:"temp_dir" mapstructure:"temp_dir"`
	HTTPTimeoutSecs int     `yaml:"http_timeout_secs" mapstructure:"http_timeout_secs"`
	MaxRetries      int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSecond   float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// HTTPTimeout returns the download timeout.
func (d DataConfig) HTTPTimeout() time.Duration {
	return time.Duration(d.HTTPTimeoutSecs) * time.Second
}

// MapConfig sets the map viewport and tile source.
type MapConfig struct {
	CenterLat   float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLng   float64 `yaml:"center_lng" mapstructure:"center_lng"`
	Zoom        int     `yaml:"zoom" mapstructure:"zoom"`
	Width       int     `yaml:"width" mapstructure:"width"`
	Height      int     `yaml:"height" mapstructure:"height"`
	TilesURL    string  `yaml:"tiles_url" mapstructure:"tiles_url"`
	Attribution string  `yaml:"attribution" mapstructure:"attribution"`
}

// UIConfig holds page texts and the default neighbourhood selection
// ("none" or "all").
type UIConfig struct {
	Title                 string `yaml:"title" mapstructure:"title"`
	Subtitle              string `yaml:"subtitle" mapstructure:"subtitle"`
	DefaultNeighbourhoods string `yaml:"default_neighbourhoods" mapstructure:"default_neighbourhoods"`
}

// CacheConfig sizes the render cache.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
	TTLSecs    int `yaml:"ttl_secs" mapstructure:"ttl_secs"`
}

// TTL returns the cache entry lifetime; zero means no expiry.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSecs) * time.Second
}

// ServerConfig configures the dashboard server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config.yaml and the environment.
// Environment variables win over the file, which wins over defaults.
func Load() (*Config, error) {
	// Optional; existing environment variables are not overwritten.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MADRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.listings", "data/pisos.csv")
	v.SetDefault("data.neighbourhoods", "data/neighbourhoods.geojson")
	v.SetDefault("data.temp_dir", "")
	v.SetDefault("data.http_timeout_secs", 60)
	v.SetDefault("data.max_retries", 3)
	v.SetDefault("data.rate_per_second", 5.0)
	v.SetDefault("map.center_lat", 40.4268627127925)
	v.SetDefault("map.center_lng", -3.6912505241863776)
	v.SetDefault("map.zoom", 12)
	v.SetDefault("map.width", 600)
	v.SetDefault("map.height", 600)
	v.SetDefault("map.tiles_url", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("map.attribution", "&copy; OpenStreetMap contributors")
	v.SetDefault("ui.title", "Airbnb - Madrid")
	v.SetDefault("ui.subtitle", "Patricia Barrios")
	v.SetDefault("ui.default_neighbourhoods", "none")
	v.SetDefault("cache.max_entries", 1)
	v.SetDefault("cache.ttl_secs", 0)
	v.SetDefault("server.port", 8501)
	v.SetDefault("server.allowed_origins", []string{"*"})
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

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is "serve", "render"
// or "options"; every problem is reported in one error.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
	case "render", "options":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if strings.TrimSpace(c.Data.Listings) == "" {
		errs = append(errs, "data.listings is required")
	}
	if strings.TrimSpace(c.Data.Neighbourhoods) == "" {
		errs = append(errs, "data.neighbourhoods is required")
	}
	if c.Data.MaxRetries < 0 {
		errs = append(errs, "data.max_retries must be >= 0")
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 19 {
		errs = append(errs, "map.zoom must be between 0 and 19")
	}
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		errs = append(errs, "map.width and map.height must be > 0")
	}
	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 || c.Map.CenterLng < -180 || c.Map.CenterLng > 180 {
		errs = append(errs, "map center is outside valid coordinates")
	}
	switch c.UI.DefaultNeighbourhoods {
	case "none", "all":
	default:
		errs = append(errs, `ui.default_neighbourhoods must be "none" or "all"`)
	}
	if c.Cache.MaxEntries < 1 {
		errs = append(errs, "cache.max_entries must be >= 1")
	}
	if c.Cache.TTLSecs < 0 {
		errs = append(errs, "cache.ttl_secs must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
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
