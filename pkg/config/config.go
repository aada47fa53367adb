// Package config provides functionality for loading and saving configuration
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFileName is the default name for the configuration file
const DefaultConfigFileName = "config.json"

// Providers and cache drivers accepted by Validate
const (
	ProviderLoopia = "loopia"
	ProviderDNS    = "dns"
	ProviderStatic = "static"

	CacheMemory = "memory"
	CacheSQLite = "sqlite"
)

// Default returns the built-in configuration with credentials taken from the environment.
func Default() *domain.Config {
	cfg := &domain.Config{
		Username: os.Getenv("LOOPIA_USERNAME"),
		Password: os.Getenv("LOOPIA_PASSWORD"),
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero field with its default.
func ApplyDefaults(cfg *domain.Config) {
	applyRequired(cfg)

	s := &cfg.Search
	setInt(&s.MaxRetries, 2)
	setInt(&s.BackoffMS, 250)
	setInt(&s.CacheTTLSeconds, 600)
	setFloat(&s.FloorPercentile, 0.22)
	setFloat(&s.FloorMargin, 2.0)
	setFloat(&s.FloorMarginStep, 0.5)
	setFloat(&s.AbsoluteFloor, 6)
	setInt(&s.NearMissLimit, 3)
}

// applyRequired fills the zero fields that have no meaning at zero. Knobs where
// zero is a valid setting are left alone.
func applyRequired(cfg *domain.Config) {
	if cfg.Provider == "" {
		cfg.Provider = ProviderLoopia
	}
	if cfg.PrimaryTLD == "" {
		cfg.PrimaryTLD = domain.DefaultPrimaryTLD
	}
	if len(cfg.AlternateTLDs) == 0 {
		cfg.AlternateTLDs = []string{"io", "co", "net"}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 60
	}
	if cfg.RateWindowSeconds == 0 {
		cfg.RateWindowSeconds = 60
	}

	s := &cfg.Search
	setInt(&s.TimeBudgetMS, 20000)
	setInt(&s.MaxLookups, 120)
	setInt(&s.BatchSize, 24)
	setInt(&s.Concurrency, 8)
	setInt(&s.MinLength, 4)
	setInt(&s.BasePoolSize, 160)

	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = CacheMemory
	}
	if cfg.Cache.Driver == CacheSQLite && cfg.Cache.Path == "" {
		cfg.Cache.Path = filepath.Join("cache", "availability.db")
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setFloat(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// Validate rejects configurations the search engine cannot run with.
func Validate(cfg *domain.Config) error {
	var errs []error
	switch cfg.Provider {
	case ProviderLoopia, ProviderDNS, ProviderStatic:
	default:
		errs = append(errs, fmt.Errorf("unknown provider %q", cfg.Provider))
	}
	switch cfg.Cache.Driver {
	case CacheMemory, CacheSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver))
	}
	if cfg.RateLimit < 0 || cfg.RateWindowSeconds < 0 {
		errs = append(errs, errors.New("rate limit and window must not be negative"))
	}

	s := cfg.Search
	for name, v := range map[string]int{
		"time_budget_ms":    s.TimeBudgetMS,
		"max_lookups":       s.MaxLookups,
		"batch_size":        s.BatchSize,
		"concurrency":       s.Concurrency,
		"max_retries":       s.MaxRetries,
		"backoff_ms":        s.BackoffMS,
		"max_backoff_ms":    s.MaxBackoffMS,
		"cache_ttl_seconds": s.CacheTTLSeconds,
		"min_length":        s.MinLength,
		"base_pool_size":    s.BasePoolSize,
		"near_miss_limit":   s.NearMissLimit,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("search.%s must not be negative, got %d", name, v))
		}
	}
	if s.FloorPercentile < 0 || s.FloorPercentile > 1 {
		errs = append(errs, fmt.Errorf("search.floor_percentile must be within [0, 1], got %g", s.FloorPercentile))
	}
	if s.FloorMargin < 0 || s.FloorMarginStep < 0 {
		errs = append(errs, errors.New("search.floor_margin and floor_margin_step must not be negative"))
	}
	return errors.Join(errs...)
}

// Load loads the configuration from a JSON or YAML file.
// If the file doesn't exist, it returns a default configuration.
// The file is decoded over the defaults, so keys it leaves out keep their
// default and an explicit 0 is kept where 0 is a valid setting.
func Load(configFileName string) (*domain.Config, error) {
	config := Default()

	if _, err := os.Stat(configFileName); os.IsNotExist(err) {
		log.Warn().Str("file", configFileName).Msg("Configuration file not found, using defaults and environment variables")
		return config, nil
	}

	data, err := os.ReadFile(configFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	fileConfig := *config
	fileConfig.Username, fileConfig.Password = "", ""
	switch strings.ToLower(filepath.Ext(configFileName)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fileConfig)
	default:
		err = json.Unmarshal(data, &fileConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Credentials in the file win; the environment is the fallback
	if fileConfig.Username == "" {
		fileConfig.Username = config.Username
	}
	if fileConfig.Password == "" {
		fileConfig.Password = config.Password
	}
	applyRequired(&fileConfig)

	if err := Validate(&fileConfig); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configFileName, err)
	}
	return &fileConfig, nil
}

// Save saves the configuration to the config file as JSON
func Save(config *domain.Config, configFileName string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFileName, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
