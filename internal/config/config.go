package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the CLI configuration loaded from flags, files and environment variables.
type Config struct {
	AppName               string        `mapstructure:"app_name"`
	LogLevel              string        `mapstructure:"log_level"`
	Token                 string        `mapstructure:"validacurp_token"`
	Endpoint              string        `mapstructure:"validacurp_endpoint"`
	APIVersion            int           `mapstructure:"api_version"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`
	PublishersFile        string        `mapstructure:"publishers_file"`
	MetricsAddr           string        `mapstructure:"metrics_addr"`

	CacheType            string        `mapstructure:"cache_type"`
	CachePath            string        `mapstructure:"cache_path"`
	CacheTTLSeconds      int64         `mapstructure:"cache_ttl_seconds"`
	CacheCleanupSeconds  int64         `mapstructure:"cache_cleanup_interval_seconds"`
	CacheTTL             time.Duration `mapstructure:"-"`
	CacheCleanupInterval time.Duration `mapstructure:"-"`
}

// DefaultEnvFile is read before the environment, if present.
const DefaultEnvFile = "configs/.env"

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"token":       "validacurp_token",
	"endpoint":    "validacurp_endpoint",
	"api-version": "api_version",
	"log-level":   "log_level",
	"publishers":  "publishers_file",
	"cache":       "cache_type",
	"cache-path":  "cache_path",
	"metrics":     "metrics_addr",
}

// RegisterFlags declares the global flags Load understands.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("token", "", "valida-curp API token (env VALIDACURP_TOKEN)")
	fs.String("endpoint", "", "custom API base URL, shared by both versions")
	fs.Int("api-version", 2, "API version: 1 (deprecated) or 2")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("publishers", "", "publishers file (YAML or JSON) for batch results")
	fs.String("cache", "none", "entity cache backend: none or bbolt")
	fs.String("cache-path", "./data/cache.db", "bbolt cache file")
	fs.String("metrics", "", "address to serve Prometheus metrics on during batch runs")
	fs.String("env-file", DefaultEnvFile, "dotenv file loaded before the environment")
}

// Load reads configuration from the dotenv file, environment variables and flags.
// Flags only override values when set explicitly. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	envFile := DefaultEnvFile
	if fs != nil {
		if f := fs.Lookup("env-file"); f != nil && f.Value.String() != "" {
			envFile = f.Value.String()
		}
	}
	_ = godotenv.Load(envFile)

	v := viper.New()

	v.SetDefault("app_name", "validacurp")
	v.SetDefault("log_level", "info")
	v.SetDefault("validacurp_token", "")
	v.SetDefault("validacurp_endpoint", "")
	v.SetDefault("api_version", 2)
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("publishers_file", "")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("cache_type", "none")
	v.SetDefault("cache_path", "./data/cache.db")
	v.SetDefault("cache_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("cache_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.CacheType = strings.ToLower(strings.TrimSpace(cfg.CacheType))

	if cfg.APIVersion != 1 && cfg.APIVersion != 2 {
		return nil, fmt.Errorf("invalid api_version %d (must be 1 or 2)", cfg.APIVersion)
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.CacheTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid cache_ttl_seconds (must be positive seconds)")
	}
	if cfg.CacheCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid cache_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.CacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	cfg.CacheCleanupInterval = time.Duration(cfg.CacheCleanupSeconds) * time.Second

	return &cfg, nil
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.Token != "" {
		c.Token = "***"
	}
	return c
}
