package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// ClientConfig configures the anvaya CLI.
type ClientConfig struct {
	BaseURL     string        `env:"ANVAYA_API_BASE_URL" env-default:"http://localhost:8000" env-description:"API base URL"`
	SessionFile string        `env:"ANVAYA_SESSION_FILE" env-default:"~/.config/anvaya/session.toml" env-description:"where the login session is kept"`
	Timeout     time.Duration `env:"ANVAYA_TIMEOUT"      env-default:"30s" env-description:"per-request timeout"`
	LogLevel    string        `env:"ANVAYA_LOG_LEVEL"    env-default:"warn" env-description:"debug, info, warn or error"`
	LogFormat   string        `env:"ANVAYA_LOG_FORMAT"   env-default:"pretty" env-description:"json, text or pretty"`
}

// LogConfig returns the logging part of the client settings.
func (c ClientConfig) LogConfig() LogConfig {
	return LogConfig{Level: c.LogLevel, Format: c.LogFormat}
}

// LoadClient reads ClientConfig from the environment.
func LoadClient() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("config: ANVAYA_TIMEOUT must be > 0 (got %v)", cfg.Timeout)
	}
	return &cfg, nil
}
