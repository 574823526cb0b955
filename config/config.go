package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"hass-skill/internal/infra/homeassistant"
)

type Config struct {
	HomeAssistant HomeAssistantConfig `yaml:"homeassistant"`
	Skill         SkillConfig         `yaml:"skill"`
	HTTP          HTTPConfig          `yaml:"http"`
	Bus           BusConfig           `yaml:"bus"`
	Pushover      PushoverConfig      `yaml:"pushover"`
	Log           LogConfig           `yaml:"log"`
}

type HomeAssistantConfig struct {
	URL        string `yaml:"url"`
	Token      string `yaml:"token"`
	Password   string `yaml:"password"`
	Timeout    string `yaml:"timeout"`
	VerifySSL  *bool  `yaml:"verify_ssl"`
	SocksProxy string `yaml:"socks_proxy"`
}

type SkillConfig struct {
	Language       string `yaml:"language"`
	EnableFallback bool   `yaml:"enable_fallback"`
}

type HTTPConfig struct {
	Enabled   *bool  `yaml:"enabled"`
	Addr      string `yaml:"addr"`
	AuthToken string `yaml:"auth_token"`
	RateLimit int    `yaml:"rate_limit"`
}

type BusConfig struct {
	Enabled      bool   `yaml:"enabled"`
	URL          string `yaml:"url"`
	IntentType   string `yaml:"intent_type"`
	FallbackType string `yaml:"fallback_type"`
	MaxAttempts  int    `yaml:"max_attempts"`
}

type PushoverConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
	Enabled bool   `yaml:"enabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse reads a YAML config. ${VAR} references are expanded from the
// environment first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	if _, err := cfg.HomeAssistant.timeout(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.HomeAssistant.Timeout == "" {
		c.HomeAssistant.Timeout = homeassistant.DefaultTimeout.String()
	}
	if c.HomeAssistant.VerifySSL == nil {
		verify := true
		c.HomeAssistant.VerifySSL = &verify
	}
	if c.Skill.Language == "" {
		c.Skill.Language = "en-us"
	}
	if c.HTTP.Enabled == nil {
		enabled := true
		c.HTTP.Enabled = &enabled
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.RateLimit == 0 {
		c.HTTP.RateLimit = 60
	}
	if c.Bus.URL == "" {
		c.Bus.URL = "ws://localhost:8181/core"
	}
	if c.Bus.IntentType == "" {
		c.Bus.IntentType = "homeassistant.intent"
	}
	if c.Bus.FallbackType == "" {
		c.Bus.FallbackType = "homeassistant.fallback"
	}
	if c.Bus.MaxAttempts == 0 {
		c.Bus.MaxAttempts = 5
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (h HomeAssistantConfig) timeout() (time.Duration, error) {
	d, err := time.ParseDuration(h.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid homeassistant.timeout %q: %w", h.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid homeassistant.timeout %q: must be positive", h.Timeout)
	}
	return d, nil
}

// Settings turns the section into client settings, falling back to the
// supervisor add-on environment when no URL is configured.
func (h HomeAssistantConfig) Settings() homeassistant.Settings {
	timeout, err := h.timeout()
	if err != nil {
		timeout = homeassistant.DefaultTimeout
	}
	return homeassistant.Settings{
		URL:                h.URL,
		Token:              h.Token,
		Password:           h.Password,
		Timeout:            timeout,
		InsecureSkipVerify: h.VerifySSL != nil && !*h.VerifySSL,
		SocksProxy:         h.SocksProxy,
	}.Resolve()
}
