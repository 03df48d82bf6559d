// Package config loads the wikirun configuration file and applies
// environment overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Env variable names recognized on top of the file.
const (
	EnvConfigPath      = "WIKIRUN_CONFIG"
	EnvOpenAIKey       = "WIKIRUN_OPENAI_API_KEY"
	EnvAnthropicKey    = "WIKIRUN_ANTHROPIC_API_KEY"
	EnvRedisAddr       = "WIKIRUN_REDIS_ADDR"
	EnvEmbeddingURL    = "WIKIRUN_EMBEDDING_URL"
	EnvWikipediaAPIURL = "WIKIRUN_WIKIPEDIA_API_URL"
)

// DefaultPath is where wikirun looks for its config when WIKIRUN_CONFIG
// is unset and no --config flag is given.
const DefaultPath = "wikirun.yaml"

// SolverConfig selects and parameterizes the decision solver.
type SolverConfig struct {
	Name    string `yaml:"name"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// EmbeddingConfig points at the embedding provider.
type EmbeddingConfig struct {
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
}

// WikipediaConfig points at the MediaWiki endpoint.
type WikipediaConfig struct {
	APIURL string `yaml:"api_url"`
}

// RedisConfig enables the article cache when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// RunConfig holds the per-run defaults.
type RunConfig struct {
	StepBudget int           `yaml:"step_budget"`
	WallBudget time.Duration `yaml:"wall_budget"`
	Pacing     time.Duration `yaml:"pacing"`
}

// ServerConfig holds the control API settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the root configuration.
type Config struct {
	Solver    SolverConfig    `yaml:"solver"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Wikipedia WikipediaConfig `yaml:"wikipedia"`
	Redis     RedisConfig     `yaml:"redis"`
	Run       RunConfig       `yaml:"run"`
	Server    ServerConfig    `yaml:"server"`
	LogLevel  string          `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Solver:   SolverConfig{Name: "similarity"},
		Server:   ServerConfig{Addr: ":8080"},
		LogLevel: "info",
	}
}

// Load reads the config file at path, falling back to WIKIRUN_CONFIG and
// then DefaultPath. A missing default file is not an error; an explicitly
// requested file must exist. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvOpenAIKey); v != "" && cfg.Solver.Name == "openai" {
		cfg.Solver.APIKey = v
	}
	if v := os.Getenv(EnvAnthropicKey); v != "" && cfg.Solver.Name == "anthropic" {
		cfg.Solver.APIKey = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv(EnvEmbeddingURL); v != "" {
		cfg.Embedding.BaseURL = v
	}
	if v := os.Getenv(EnvWikipediaAPIURL); v != "" {
		cfg.Wikipedia.APIURL = v
	}
}
