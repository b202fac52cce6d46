package server

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AppConfig defines application configuration loaded from files and environment.
type AppConfig struct {
	Env        string           `koanf:"env"`
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Valkey     ValkeyConfig     `koanf:"valkey"`
	Session    SessionConfig    `koanf:"session"`
	Commission CommissionConfig `koanf:"commission"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type DatabaseConfig struct {
	DSN string `koanf:"dsn"`
}

type ValkeyConfig struct {
	Addr   string `koanf:"addr"`
	Prefix string `koanf:"prefix"`
}

type SessionConfig struct {
	JWTSecret  string `koanf:"jwt_secret"`
	TTLMinutes int    `koanf:"ttl_minutes"`
}

type CommissionConfig struct {
	RateBps int64 `koanf:"rate_bps"`
}

var (
	cfgOnce sync.Once
	cfgInst *AppConfig
)

// GetConfig loads and returns the singleton AppConfig. Loading order:
// 1) config/config.yaml (optional)
// 2) config/config.<APP_ENV>.yaml (optional), APP_ENV defaults to "local"
// 3) Environment variables with prefix MARKET_ mapped using __ as nested
//    separator, e.g. MARKET_DATABASE__DSN
func GetConfig() *AppConfig {
	cfgOnce.Do(func() {
		k := koanf.New(".")
		configDir := os.Getenv("CONFIG_DIR")
		if configDir == "" {
			configDir = "config"
		}
		// Whether to load files (default: disabled to keep tests isolated)
		loadFiles := strings.EqualFold(os.Getenv("APP_CONFIG_FILES"), "1") || strings.EqualFold(os.Getenv("APP_CONFIG_FILES"), "true")
		if loadFiles {
			base := filepath.Join(configDir, "config.yaml")
			if _, err := os.Stat(base); err == nil {
				if err := k.Load(file.Provider(base), yaml.Parser()); err != nil {
					log.Printf("config: failed loading base: %v", err)
				}
			}
		}
		envName := os.Getenv("APP_ENV")
		if envName == "" {
			envName = "local"
		}
		if loadFiles {
			envFile := filepath.Join(configDir, "config."+envName+".yaml")
			if _, err := os.Stat(envFile); err == nil {
				if err := k.Load(file.Provider(envFile), yaml.Parser()); err != nil {
					log.Printf("config: failed loading env file: %v", err)
				}
			}
		}
		_ = k.Load(env.Provider("MARKET_", "__", func(s string) string {
			// MARKET_DATABASE__DSN -> database.dsn
			return s
		}), nil)

		var c AppConfig
		if err := k.Unmarshal("", &c); err != nil {
			log.Printf("config: unmarshal error: %v", err)
		}
		if c.Env == "" {
			c.Env = envName
		}
		cfgInst = &c
	})
	return cfgInst
}

// DatabaseDSN returns the effective DSN (config first, then env fallback).
func (c *AppConfig) DatabaseDSN() string {
	if c != nil && c.Database.DSN != "" {
		return strings.TrimSpace(c.Database.DSN)
	}
	dsn := strings.TrimSpace(os.Getenv("MARKET_DB_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("MIGRATE_DSN"))
	}
	return dsn
}

// SessionTTL returns the configured session lifetime, defaulting to 24h.
func (c *AppConfig) SessionTTL() time.Duration {
	if c != nil && c.Session.TTLMinutes > 0 {
		return time.Duration(c.Session.TTLMinutes) * time.Minute
	}
	return 24 * time.Hour
}

// CommissionRateBps returns the marketplace commission rate in basis points,
// defaulting to 10%.
func (c *AppConfig) CommissionRateBps() int64 {
	if c != nil && c.Commission.RateBps > 0 {
		return c.Commission.RateBps
	}
	return 1000
}

// ListenAddr returns the HTTP bind address.
func (c *AppConfig) ListenAddr() string {
	if c != nil && c.Server.Addr != "" {
		return c.Server.Addr
	}
	return ":8080"
}
