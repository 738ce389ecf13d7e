package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig      `yaml:"server"`
	Database  DatabaseConfig    `yaml:"database"`
	Redis     RedisConfig       `yaml:"redis"`
	Storage   StorageConfig     `yaml:"storage"`
	Thumbnail ThumbnailConfig   `yaml:"thumbnail"`
	Assets    AssetsConfig      `yaml:"assets"`
	Log       LogConfig         `yaml:"log"`
	Health    HealthCheckConfig `yaml:"health_check"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type DatabaseConfig struct {
	Path         string `yaml:"path"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// How long ingest progress keys live after the last write, in seconds.
	ProgressExpire int `yaml:"progress_expire"`
}

type StorageConfig struct {
	// QuotaBytes is the advertised storage budget. Zero or negative falls
	// back to a fixed constant at query time.
	QuotaBytes   int64 `yaml:"quota_bytes"`
	MaxFileSize  int64 `yaml:"max_file_size"`
	FetchTimeout int   `yaml:"fetch_timeout"`
}

type ThumbnailConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Quality int `yaml:"quality"`
}

type AssetsConfig struct {
	Version    string   `yaml:"version"`
	Upstream   string   `yaml:"upstream"`
	EntryPoint string   `yaml:"entry_point"`
	Manifest   []string `yaml:"manifest"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type HealthCheckConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

var AppConfig *Config

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	AppConfig = &cfg
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "gallery.db"
	}
	if cfg.Storage.MaxFileSize == 0 {
		cfg.Storage.MaxFileSize = 50 << 20
	}
	if cfg.Storage.FetchTimeout == 0 {
		cfg.Storage.FetchTimeout = 30
	}
	if cfg.Thumbnail.Width == 0 {
		cfg.Thumbnail.Width = 200
	}
	if cfg.Thumbnail.Height == 0 {
		cfg.Thumbnail.Height = 200
	}
	if cfg.Thumbnail.Quality == 0 {
		cfg.Thumbnail.Quality = 80
	}
	if cfg.Assets.Version == "" {
		cfg.Assets.Version = "v1"
	}
	if cfg.Assets.EntryPoint == "" {
		cfg.Assets.EntryPoint = "/index.html"
	}
	if cfg.Redis.ProgressExpire == 0 {
		cfg.Redis.ProgressExpire = 3600
	}
	if cfg.Health.Endpoint == "" {
		cfg.Health.Endpoint = "/health"
	}
}
