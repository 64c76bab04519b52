// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port          int    `env:"PORT" envDefault:"5000"`
	PublicHostURL string `env:"PUBLIC_HOST_URL" envDefault:"http://localhost:5000"`

	UpstreamURL   string `env:"ODOO_DATABASE_URL,required"`
	UpstreamToken string `env:"ODOO_API_TOKEN,required"`

	SQLitePath string `env:"SQLITE_DB_PATH" envDefault:"./signage.db"`

	CacheDir      string  `env:"CACHE_DIR" envDefault:"./cache"`
	MaxCacheBytes int64   `env:"MAX_CACHE_BYTES" envDefault:"31457280"`
	EvictTarget   float64 `env:"CACHE_EVICT_TARGET" envDefault:"0.9"`

	PriorityBatch int           `env:"CACHE_PRIORITY_BATCH" envDefault:"3"`
	Workers       int           `env:"CACHE_WORKERS" envDefault:"4"`
	FetchTimeout  time.Duration `env:"CACHE_FETCH_TIMEOUT" envDefault:"30s"`

	MaxImageWidth  int `env:"MAX_IMAGE_WIDTH" envDefault:"1280"`
	MaxImageHeight int `env:"MAX_IMAGE_HEIGHT" envDefault:"720"`
	ImageQuality   int `env:"IMAGE_QUALITY" envDefault:"85"`

	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"5m"`
	SweepInterval   time.Duration `env:"DEVICE_SWEEP_INTERVAL" envDefault:"5m"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
