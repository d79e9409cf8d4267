package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Providers ProvidersConfig `yaml:"providers" mapstructure:"providers"`
	Resolver  ResolverConfig  `yaml:"resolver" mapstructure:"resolver"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Season    SeasonConfig    `yaml:"season" mapstructure:"season"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the identity store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // memory, sqlite, postgres
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ProvidersConfig configures the provider registry.
type ProvidersConfig struct {
	OverridesPath string `yaml:"overrides_path" mapstructure:"overrides_path"`
}

// ResolverConfig configures identity matching.
type ResolverConfig struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
}

// CacheConfig configures consensus caching.
type CacheConfig struct {
	NearTTLMinutes int `yaml:"near_ttl_minutes" mapstructure:"near_ttl_minutes"`
	FarTTLMinutes  int `yaml:"far_ttl_minutes" mapstructure:"far_ttl_minutes"`
}

// ScoringConfig configures the scoring engine.
type ScoringConfig struct {
	RulesPath   string `yaml:"rules_path" mapstructure:"rules_path"`
	UseDefaults bool   `yaml:"use_defaults" mapstructure:"use_defaults"`
}

// SeasonConfig pins the season and active week used for cache scoping.
type SeasonConfig struct {
	Season     string `yaml:"season" mapstructure:"season"`
	ActiveWeek int    `yaml:"active_week" mapstructure:"active_week"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CONSENSUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key needs one so AutomaticEnv can surface it.
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.sqlite_path", "consensus.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("providers.overrides_path", "")
	v.SetDefault("resolver.fuzzy_threshold", 0.8)
	v.SetDefault("cache.near_ttl_minutes", 30)
	v.SetDefault("cache.far_ttl_minutes", 240)
	v.SetDefault("scoring.rules_path", "")
	v.SetDefault("scoring.use_defaults", true)
	v.SetDefault("season.season", "2025")
	v.SetDefault("season.active_week", 0)
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

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var problems []string

	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.SQLitePath == "" {
			problems = append(problems, "store.sqlite_path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	default:
		problems = append(problems, "store.driver must be one of memory, sqlite, postgres")
	}

	if c.Resolver.FuzzyThreshold < 0 || c.Resolver.FuzzyThreshold > 1 {
		problems = append(problems, "resolver.fuzzy_threshold must be between 0 and 1")
	}
	if c.Cache.NearTTLMinutes <= 0 || c.Cache.FarTTLMinutes <= 0 {
		problems = append(problems, "cache TTLs must be positive")
	}
	if c.Season.ActiveWeek < 0 || c.Season.ActiveWeek > 18 {
		problems = append(problems, "season.active_week must be between 0 and 18")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
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
