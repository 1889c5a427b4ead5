package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "URBANOUS_CONFIG"
	databaseDSN   = "DATABASE_DSN"
	llmAPIKeyEnv  = "LLM_API_KEY"
	llmModelEnv   = "LLM_MODEL"
	httpAddrEnv   = "HTTP_ADDR"
)

// Config holds high-level settings required across the application.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Scan     ScanConfig     `yaml:"scan"`
	Logging  LoggingConfig  `yaml:"logging"`
	Outlets  []OutletConfig `yaml:"outlets"`
}

// HTTPConfig describes the listening server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// LLMConfig defines how to contact the chat-completions API used for
// category navigation and relevance verification.
type LLMConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// ScanConfig carries the run-policy defaults.
type ScanConfig struct {
	OutletLimit          int `yaml:"outletLimit"`
	DeepLimit            int `yaml:"deepLimit"`
	FetchTimeoutSeconds  int `yaml:"fetchTimeoutSeconds"`
	PingIntervalSeconds  int `yaml:"pingIntervalSeconds"`
	HardCutoffMultiplier int `yaml:"hardCutoffMultiplier"`
}

// FetchTimeout resolves the per-fetch timeout.
func (s ScanConfig) FetchTimeout() time.Duration {
	return time.Duration(s.FetchTimeoutSeconds) * time.Second
}

// PingInterval resolves the keep-alive idle threshold.
func (s ScanConfig) PingInterval() time.Duration {
	return time.Duration(s.PingIntervalSeconds) * time.Second
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// OutletConfig describes one source website available to scans.
type OutletConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	City    string `yaml:"city"`
	Country string `yaml:"country"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSN); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.HTTP.Addr = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.HTTP.Addr != "" {
		base.HTTP.Addr = override.HTTP.Addr
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}

	if override.Scan.OutletLimit > 0 {
		base.Scan.OutletLimit = override.Scan.OutletLimit
	}
	if override.Scan.DeepLimit > 0 {
		base.Scan.DeepLimit = override.Scan.DeepLimit
	}
	if override.Scan.FetchTimeoutSeconds > 0 {
		base.Scan.FetchTimeoutSeconds = override.Scan.FetchTimeoutSeconds
	}
	if override.Scan.PingIntervalSeconds > 0 {
		base.Scan.PingIntervalSeconds = override.Scan.PingIntervalSeconds
	}
	if override.Scan.HardCutoffMultiplier > 0 {
		base.Scan.HardCutoffMultiplier = override.Scan.HardCutoffMultiplier
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if len(override.Outlets) > 0 {
		base.Outlets = override.Outlets
	}

	return base
}

func defaultConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Addr: ":8080"},
		Database: DatabaseConfig{DSN: ""},
		LLM: LLMConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
		},
		Scan: ScanConfig{
			OutletLimit:          5,
			DeepLimit:            5,
			FetchTimeoutSeconds:  20,
			PingIntervalSeconds:  20,
			HardCutoffMultiplier: 3,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
