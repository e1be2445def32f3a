// Package config handles configuration loading for lumap.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the lumap configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Convert ConvertConfig `yaml:"convert"`
	Cache   CacheConfig   `yaml:"cache"`
	Render  RenderConfig  `yaml:"render"`
}

// ServerConfig contains viewer server settings.
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// ConvertConfig contains conversion defaults.
type ConvertConfig struct {
	OutDir string `yaml:"out_dir"`
}

// CacheConfig contains serve-side caching settings.
type CacheConfig struct {
	PayloadSizeMB     int `yaml:"payload_size_mb"`
	PayloadTTLMinutes int `yaml:"payload_ttl_minutes"`
	QueryCacheSize    int `yaml:"query_cache_size"`
}

// RenderConfig contains preview rendering settings.
type RenderConfig struct {
	PreviewSize int     `yaml:"preview_size"`
	PointRadius float64 `yaml:"point_radius"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return default config if file doesn't exist
		return DefaultConfig(), nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        5173,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Convert: ConvertConfig{
			OutDir: "lumap_bundle",
		},
		Cache: CacheConfig{
			PayloadSizeMB:     64,
			PayloadTTLMinutes: 10,
			QueryCacheSize:    256,
		},
		Render: RenderConfig{
			PreviewSize: 1024,
			PointRadius: 2.0,
		},
	}
}

func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Server.Host == "" {
		cfg.Server.Host = defaults.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = defaults.Server.CORSOrigins
	}
	if cfg.Convert.OutDir == "" {
		cfg.Convert.OutDir = defaults.Convert.OutDir
	}
	if cfg.Cache.PayloadSizeMB == 0 {
		cfg.Cache.PayloadSizeMB = defaults.Cache.PayloadSizeMB
	}
	if cfg.Cache.PayloadTTLMinutes == 0 {
		cfg.Cache.PayloadTTLMinutes = defaults.Cache.PayloadTTLMinutes
	}
	if cfg.Cache.QueryCacheSize == 0 {
		cfg.Cache.QueryCacheSize = defaults.Cache.QueryCacheSize
	}
	if cfg.Render.PreviewSize == 0 {
		cfg.Render.PreviewSize = defaults.Render.PreviewSize
	}
	if cfg.Render.PointRadius == 0 {
		cfg.Render.PointRadius = defaults.Render.PointRadius
	}
}
