// Package config provides configuration loading and validation for omen.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidPort          = errors.New("invalid server port")
	ErrInvalidConcurrent    = errors.New("max concurrent analyses must be positive")
	ErrInvalidMinCochanges  = errors.New("coupling min_cochanges must be positive")
	ErrInvalidMaxVocab      = errors.New("semantic max_vocab must be positive")
	ErrInvalidMutationClone = errors.New("mutation timeout must be positive")
)

// Default configuration values.
const (
	defaultPort              = 8080
	defaultHost              = "0.0.0.0"
	defaultMaxConcurrent     = 10
	maxPort                  = 65535
	defaultMinCochanges      = 3
	defaultMaxVocab          = 10000
	defaultMutationWorkers   = 0 // 0 => runtime.GOMAXPROCS-derived available parallelism.
	defaultMutationBuildCmd  = "go build ./..."
	defaultMutationTestCmd   = "go test ./..."
	defaultSinceDays         = 0 // 0 => unlimited history.
	defaultSearchIndexDBName = "search.db"
	defaultSearchIndexDir    = ".omen"
)

// Config holds all configuration for omen.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Coupling   CouplingConfig   `mapstructure:"coupling"`
	Mutation   MutationConfig   `mapstructure:"mutation"`
	Semantic   SemanticConfig   `mapstructure:"semantic"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
}

// ServerConfig holds MCP/HTTP server configuration. It is loaded and
// validated, but no omen command reads it.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	Port         int           `mapstructure:"port"`
	Enabled      bool          `mapstructure:"enabled"`
}

// CacheConfig holds the semantic-index and blob cache configuration.
type CacheConfig struct {
	Directory       string        `mapstructure:"directory"`
	MaxSize         string        `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Enabled         bool          `mapstructure:"enabled"`
}

// AnalysisConfig holds history-analyzer configuration shared by churn,
// ownership, and hotspot/defect.
type AnalysisConfig struct {
	Timeout               time.Duration `mapstructure:"timeout"`
	SinceDays             int           `mapstructure:"since_days"`
	MaxConcurrentAnalyses int           `mapstructure:"max_concurrent_analyses"`
}

// CouplingConfig holds temporal-coupling analyzer configuration.
type CouplingConfig struct {
	MinCochanges int `mapstructure:"min_cochanges"`
}

// MutationConfig holds mutation-engine configuration.
type MutationConfig struct {
	BuildCommand string        `mapstructure:"build_command"`
	TestCommand  string        `mapstructure:"test_command"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Workers      int           `mapstructure:"workers"`
}

// SemanticConfig holds TF-IDF index configuration.
type SemanticConfig struct {
	IndexDirectory string `mapstructure:"index_directory"`
	IndexFileName  string `mapstructure:"index_file_name"`
	MaxVocab       int    `mapstructure:"max_vocab"`
	ForceRebuild   bool   `mapstructure:"force_rebuild"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// RepositoryConfig holds repository-specific configuration.
type RepositoryConfig struct {
	MaxFileSize      string        `mapstructure:"max_file_size"`
	AllowedProtocols []string      `mapstructure:"allowed_protocols"`
	CloneTimeout     time.Duration `mapstructure:"clone_timeout"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".omen")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/omen")
	}

	viperCfg.SetEnvPrefix("OMEN")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	if validateErr := validateConfig(&cfg); validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("server.enabled", false)
	viperCfg.SetDefault("server.port", defaultPort)
	viperCfg.SetDefault("server.host", defaultHost)
	viperCfg.SetDefault("server.read_timeout", "30s")
	viperCfg.SetDefault("server.write_timeout", "30s")
	viperCfg.SetDefault("server.idle_timeout", "60s")

	viperCfg.SetDefault("cache.enabled", true)
	viperCfg.SetDefault("cache.directory", ".omen/cache")
	viperCfg.SetDefault("cache.ttl", "24h")
	viperCfg.SetDefault("cache.cleanup_interval", "1h")
	viperCfg.SetDefault("cache.max_size", "1GB")

	viperCfg.SetDefault("analysis.since_days", defaultSinceDays)
	viperCfg.SetDefault("analysis.max_concurrent_analyses", defaultMaxConcurrent)
	viperCfg.SetDefault("analysis.timeout", "30m")

	viperCfg.SetDefault("coupling.min_cochanges", defaultMinCochanges)

	viperCfg.SetDefault("mutation.workers", defaultMutationWorkers)
	viperCfg.SetDefault("mutation.build_command", defaultMutationBuildCmd)
	viperCfg.SetDefault("mutation.test_command", defaultMutationTestCmd)
	viperCfg.SetDefault("mutation.timeout", "2m")

	viperCfg.SetDefault("semantic.max_vocab", defaultMaxVocab)
	viperCfg.SetDefault("semantic.index_directory", defaultSearchIndexDir)
	viperCfg.SetDefault("semantic.index_file_name", defaultSearchIndexDBName)
	viperCfg.SetDefault("semantic.force_rebuild", false)

	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "json")
	viperCfg.SetDefault("logging.output", "stdout")

	viperCfg.SetDefault("repository.clone_timeout", "10m")
	viperCfg.SetDefault("repository.max_file_size", "1MB")
	viperCfg.SetDefault("repository.allowed_protocols", []string{"https", "http", "ssh", "git"})
}

// validateConfig validates the configuration.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Server.Port)
	}

	if cfg.Analysis.MaxConcurrentAnalyses <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidConcurrent, cfg.Analysis.MaxConcurrentAnalyses)
	}

	if cfg.Coupling.MinCochanges <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMinCochanges, cfg.Coupling.MinCochanges)
	}

	if cfg.Semantic.MaxVocab <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxVocab, cfg.Semantic.MaxVocab)
	}

	if cfg.Mutation.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidMutationClone, cfg.Mutation.Timeout)
	}

	return nil
}
