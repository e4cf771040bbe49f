package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"pairs-analytics-go/infrastructure/logger"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env       string          `yaml:"env"`
	Symbols   []string        `yaml:"symbols"`
	Buffer    BufferConfig    `yaml:"buffer"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	HTTP      HTTPConfig      `yaml:"http"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Cache     CacheConfig     `yaml:"cache"`
	Alerting  AlertingConfig  `yaml:"alerting"`
	Log       logger.Config   `yaml:"log"`
}

type BufferConfig struct {
	Capacity int `yaml:"capacity"` // per-symbol tick buffer size
}

type AnalyticsConfig struct {
	ResampleIntervalMs int     `yaml:"resampleIntervalMs"` // bar width in milliseconds
	Window             int     `yaml:"window"`             // default rolling window
	ZScoreThreshold    float64 `yaml:"zscoreThreshold"`    // default alert threshold
	MaxPoints          int     `yaml:"maxPoints"`          // series points returned per response
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the metrics server
}

type GatewayConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	FlushSpec string `yaml:"flushSpec"` // cron spec, e.g. "@every 5s"
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLMs   int  `yaml:"ttlMs"` // 0 means one resample interval
}

type AlertingConfig struct {
	ThrottleMs int `yaml:"throttleMs"` // per-pair minimum between dispatches
}

// ResampleInterval returns the bar width as a duration.
func (c AnalyticsConfig) ResampleInterval() time.Duration {
	return time.Duration(c.ResampleIntervalMs) * time.Millisecond
}

// CacheTTL returns the result cache TTL; results never outlive the bar that
// produced them, so the default is one resample interval.
func (c AppConfig) CacheTTL() time.Duration {
	if c.Cache.TTLMs > 0 {
		return time.Duration(c.Cache.TTLMs) * time.Millisecond
	}
	return c.Analytics.ResampleInterval()
}

// Load reads YAML config from path, applies defaults and validates.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides deploy-specific fields
// from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("PAIRS_GATEWAY_ENDPOINT"); v != "" {
		cfg.Gateway.Endpoint = v
	}
	if v := os.Getenv("PAIRS_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	return cfg, Validate(cfg)
}

// Default returns the configuration used when a field is omitted.
func Default() AppConfig {
	cfg := AppConfig{
		Env: "dev",
		Log: logger.DefaultConfig(),
	}
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Buffer.Capacity == 0 {
		cfg.Buffer.Capacity = 10000
	}
	if cfg.Analytics.ResampleIntervalMs == 0 {
		cfg.Analytics.ResampleIntervalMs = 1000
	}
	if cfg.Analytics.Window == 0 {
		cfg.Analytics.Window = 50
	}
	if cfg.Analytics.ZScoreThreshold == 0 {
		cfg.Analytics.ZScoreThreshold = 2.0
	}
	if cfg.Analytics.MaxPoints == 0 {
		cfg.Analytics.MaxPoints = 300
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8000"
	}
	if cfg.Gateway.Endpoint == "" {
		cfg.Gateway.Endpoint = "wss://fstream.binance.com"
	}
	if cfg.Archive.FlushSpec == "" {
		cfg.Archive.FlushSpec = "@every 5s"
	}
	if cfg.Archive.Path == "" {
		cfg.Archive.Path = "ticks.db"
	}
	if cfg.Alerting.ThrottleMs == 0 {
		cfg.Alerting.ThrottleMs = 30000
	}
	if cfg.Log.Level == "" {
		cfg.Log = logger.DefaultConfig()
	}
}
