package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures required fields are present and sane.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if len(cfg.Symbols) < 2 {
		return errors.New("at least two symbols are required for pair analytics")
	}
	seen := make(map[string]bool, len(cfg.Symbols))
	for _, sym := range cfg.Symbols {
		s := strings.ToLower(strings.TrimSpace(sym))
		if s == "" {
			return errors.New("symbols must be non-empty")
		}
		if seen[s] {
			return fmt.Errorf("duplicate symbol %s", s)
		}
		seen[s] = true
	}
	if cfg.Buffer.Capacity <= 0 {
		return errors.New("buffer.capacity must be > 0")
	}
	if cfg.Analytics.ResampleIntervalMs <= 0 {
		return errors.New("analytics.resampleIntervalMs must be > 0")
	}
	if cfg.Analytics.Window < 2 {
		return errors.New("analytics.window must be >= 2")
	}
	if cfg.Analytics.ZScoreThreshold <= 0 {
		return errors.New("analytics.zscoreThreshold must be > 0")
	}
	if cfg.Analytics.MaxPoints <= 0 {
		return errors.New("analytics.maxPoints must be > 0")
	}
	if cfg.Gateway.Endpoint == "" {
		return errors.New("gateway.endpoint is required")
	}
	if cfg.Archive.Enabled && cfg.Archive.Path == "" {
		return errors.New("archive.path is required when archive is enabled")
	}
	if cfg.Cache.TTLMs < 0 {
		return errors.New("cache.ttlMs must be >= 0")
	}
	return nil
}
