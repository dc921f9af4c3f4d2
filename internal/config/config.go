// Package config loads service settings from the environment, optionally
// seeded by a YAML file named in CONFIG_FILE. Environment variables always
// win over file values so deployments can override a shared base file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort  int    `yaml:"api_port"`
	LogLevel string `yaml:"log_level"`

	PostgresDSN string `yaml:"postgres_dsn"`

	NATSURL              string `yaml:"nats_url"`
	NATSRefreshSubject   string `yaml:"nats_refresh_subject"`
	NATSRefreshedSubject string `yaml:"nats_refreshed_subject"`

	ProxyTimeoutSeconds int    `yaml:"proxy_timeout_seconds"`
	ProxyUserAgent      string `yaml:"proxy_user_agent"`

	SuggestSellerMode string `yaml:"suggest_seller_mode"`

	APIRateLimitRPS   float64 `yaml:"api_rate_limit_rps"`
	APIRateLimitBurst int     `yaml:"api_rate_limit_burst"`
}

func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		APIPort:              8080,
		LogLevel:             "info",
		NATSURL:              "nats://localhost:4222",
		NATSRefreshSubject:   "sellers.refresh",
		NATSRefreshedSubject: "sellers.refreshed",
		ProxyTimeoutSeconds:  30,
		SuggestSellerMode:    "substring",
		APIRateLimitRPS:      50,
		APIRateLimitBurst:    100,
	}
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	if c.APIPort, err = envInt("API_PORT", c.APIPort); err != nil {
		return err
	}
	c.LogLevel = envString("LOG_LEVEL", c.LogLevel)
	c.PostgresDSN = envString("POSTGRES_DSN", c.PostgresDSN)
	c.NATSURL = envString("NATS_URL", c.NATSURL)
	c.NATSRefreshSubject = envString("NATS_REFRESH_SUBJECT", c.NATSRefreshSubject)
	c.NATSRefreshedSubject = envString("NATS_REFRESHED_SUBJECT", c.NATSRefreshedSubject)
	if c.ProxyTimeoutSeconds, err = envInt("PROXY_TIMEOUT_SECONDS", c.ProxyTimeoutSeconds); err != nil {
		return err
	}
	c.ProxyUserAgent = envString("PROXY_USER_AGENT", c.ProxyUserAgent)
	c.SuggestSellerMode = envString("SUGGEST_SELLER_MODE", c.SuggestSellerMode)
	if c.APIRateLimitRPS, err = envFloat("API_RATE_LIMIT_RPS", c.APIRateLimitRPS); err != nil {
		return err
	}
	if c.APIRateLimitBurst, err = envInt("API_RATE_LIMIT_BURST", c.APIRateLimitBurst); err != nil {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	if c.PostgresDSN == "" {
		return fmt.Errorf("config: POSTGRES_DSN is required")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("config: API_PORT %d out of range", c.APIPort)
	}
	if c.ProxyTimeoutSeconds <= 0 {
		return fmt.Errorf("config: PROXY_TIMEOUT_SECONDS must be positive")
	}
	switch strings.ToLower(c.SuggestSellerMode) {
	case "substring", "prefix":
	default:
		return fmt.Errorf("config: SUGGEST_SELLER_MODE %q must be substring or prefix", c.SuggestSellerMode)
	}
	return nil
}

func (c *Config) ProxyTimeout() time.Duration {
	return time.Duration(c.ProxyTimeoutSeconds) * time.Second
}

func envString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, value)
	}
	return parsed, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a number", key, value)
	}
	return parsed, nil
}
