package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wikirun.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	// Point at an empty directory so the default file is absent.
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Solver.Name != "similarity" {
		t.Errorf("default solver = %q, want similarity", cfg.Solver.Name)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q", cfg.Server.Addr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("default log level = %q", cfg.LogLevel)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
solver:
  name: ollama
  model: llama3.1
redis:
  addr: localhost:6379
  ttl: 1h
run:
  step_budget: 25
  wall_budget: 2m
log_level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Solver.Name != "ollama" || cfg.Solver.Model != "llama3.1" {
		t.Errorf("solver = %+v", cfg.Solver)
	}
	if cfg.Redis.TTL != time.Hour {
		t.Errorf("redis ttl = %v", cfg.Redis.TTL)
	}
	if cfg.Run.StepBudget != 25 || cfg.Run.WallBudget != 2*time.Minute {
		t.Errorf("run = %+v", cfg.Run)
	}
	// File values must not clobber untouched defaults.
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q, want the default preserved", cfg.Server.Addr)
	}
}

func TestLoadExplicitMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("an explicitly requested missing file must error")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
solver:
  name: anthropic
  api_key: from-file
`)
	t.Setenv(EnvAnthropicKey, "from-env")
	t.Setenv(EnvRedisAddr, "redis:6379")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Solver.APIKey != "from-env" {
		t.Errorf("api key = %q, env must win over the file", cfg.Solver.APIKey)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
}

func TestLoadEnvKeyIgnoredForOtherSolver(t *testing.T) {
	path := writeConfig(t, `
solver:
  name: similarity
`)
	t.Setenv(EnvOpenAIKey, "sk-unused")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Solver.APIKey != "" {
		t.Errorf("api key = %q, the openai key only applies to the openai solver", cfg.Solver.APIKey)
	}
}

func TestLoadConfigPathEnv(t *testing.T) {
	path := writeConfig(t, "log_level: warn\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("log level = %q, want the WIKIRUN_CONFIG file honored", cfg.LogLevel)
	}
}
