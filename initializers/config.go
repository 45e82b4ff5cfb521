package initializers

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config drives the whole console process. Values come from three layers,
// lowest priority first: built-in defaults, an optional YAML file, then
// environment variable overrides.
type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Backend struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
		// Mode is "live" or "demo". Demo serves canned analysis data with
		// no network calls, for when the backend is unreachable.
		Mode string `yaml:"mode"`
	} `yaml:"backend"`

	Poll struct {
		Interval    time.Duration `yaml:"interval"`
		MaxAttempts int           `yaml:"max_attempts"`
	} `yaml:"poll"`

	RateLimit struct {
		Global int           `yaml:"global"`
		Strict int           `yaml:"strict"`
		Window time.Duration `yaml:"window"`
	} `yaml:"rate_limit"`

	Log struct {
		Level    string `yaml:"level"`
		Encoding string `yaml:"encoding"`
		File     string `yaml:"file"`
	} `yaml:"log"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Backend.BaseURL = "http://localhost:8000"
	cfg.Backend.Timeout = 30 * time.Second
	cfg.Backend.Mode = "live"
	cfg.Poll.Interval = 2 * time.Second
	cfg.Poll.MaxAttempts = 60
	cfg.RateLimit.Global = 100
	cfg.RateLimit.Strict = 10
	cfg.RateLimit.Window = time.Minute
	cfg.Log.Level = "info"
	cfg.Log.Encoding = "json"
	return cfg
}

// LoadConfig builds the effective configuration. path may be empty, in
// which case only defaults and environment overrides apply.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("BACKEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Backend.Timeout = d
		}
	}
	if v := os.Getenv("APP_MODE"); v != "" {
		cfg.Backend.Mode = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Poll.Interval = d
		}
	}
	if v := os.Getenv("POLL_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Poll.MaxAttempts = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Backend.Mode {
	case "live", "demo":
	default:
		return fmt.Errorf("invalid mode %q, expected live or demo", c.Backend.Mode)
	}
	if c.Backend.Mode == "live" && c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url is required in live mode")
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.Poll.MaxAttempts <= 0 {
		return fmt.Errorf("poll max_attempts must be positive")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
