package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Resolver struct {
		Timeout          time.Duration
		PreferredQuality string
	}
}

// Load reads config from environment (CIPHERBOX_ prefix) and optional cipherbox.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CIPHERBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("cipherbox")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("resolver.timeout", "20s")
	v.SetDefault("resolver.preferred_quality", "720p")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Resolver.PreferredQuality = v.GetString("resolver.preferred_quality")

	timeout, err := time.ParseDuration(v.GetString("resolver.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid CIPHERBOX_RESOLVER_TIMEOUT: %w", err)
	}
	cfg.Resolver.Timeout = timeout

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("CIPHERBOX_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("CIPHERBOX_DB_DSN is required")
	}

	switch cfg.Resolver.PreferredQuality {
	case "1080p", "720p", "480p", "360p":
	default:
		return nil, fmt.Errorf("invalid CIPHERBOX_RESOLVER_PREFERRED_QUALITY %q: must be 1080p, 720p, 480p, or 360p", cfg.Resolver.PreferredQuality)
	}

	return cfg, nil
}
