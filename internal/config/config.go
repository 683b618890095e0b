// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chiehlin/taifex-gateway/internal/types"
	"gopkg.in/yaml.v3"
)

// Session modes.
const (
	SessionModePaper  = "paper"
	SessionModeBridge = "bridge"
)

// Config represents the full gateway configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Session     SessionConfig     `yaml:"session"`
	Trading     TradingConfig     `yaml:"trading"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Alerting    AlertingConfig    `yaml:"alerting"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               int    `yaml:"port"`
	AuthKey            string `yaml:"auth_key"`
	ReadTimeoutSec     int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec    int    `yaml:"write_timeout_sec"`
	ShutdownTimeoutSec int    `yaml:"shutdown_timeout_sec"`
}

// SessionConfig holds brokerage session settings.
type SessionConfig struct {
	Mode       string       `yaml:"mode"`       // paper | bridge
	Simulation bool         `yaml:"simulation"` // live trading requires CA activation when false
	APIKey     string       `yaml:"api_key"`
	SecretKey  string       `yaml:"secret_key"`
	CAPath     string       `yaml:"ca_path"`
	CAPassword string       `yaml:"ca_password"`
	Bridge     BridgeConfig `yaml:"bridge"`
}

// BridgeConfig holds settings for the brokerage bridge connection.
type BridgeConfig struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	TimeoutSec         int    `yaml:"timeout_sec"`
	RateLimitPerSecond int    `yaml:"rate_limit_per_second"`
}

// TradingConfig holds trading settings.
type TradingConfig struct {
	SupportedFamilies []string `yaml:"supported_families"`
}

// PersistenceConfig holds audit store settings.
type PersistenceConfig struct {
	Path string `yaml:"path"`
}

// AlertingConfig holds alerting settings.
type AlertingConfig struct {
	Enabled  bool            `yaml:"enabled"`
	Channels []ChannelConfig `yaml:"channels"`
	Events   []string        `yaml:"events"`
}

// ChannelConfig holds a single alert channel configuration.
type ChannelConfig struct {
	Type     string `yaml:"type"` // console | telegram
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes.
func LoadFromBytes(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration and fills in defaults.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be a valid port number")
	}
	if c.Server.AuthKey == "" {
		errs = append(errs, "server.auth_key is required")
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = 10
	}
	if c.Server.WriteTimeoutSec <= 0 {
		c.Server.WriteTimeoutSec = 30
	}
	if c.Server.ShutdownTimeoutSec <= 0 {
		c.Server.ShutdownTimeoutSec = 15
	}

	// Session validation
	if c.Session.Mode == "" {
		c.Session.Mode = SessionModePaper
	}
	switch c.Session.Mode {
	case SessionModePaper:
		// no credentials needed
	case SessionModeBridge:
		if c.Session.APIKey == "" || c.Session.SecretKey == "" {
			errs = append(errs, "session.api_key and session.secret_key are required in bridge mode")
		}
		if c.Session.Bridge.Host == "" {
			errs = append(errs, "session.bridge.host is required in bridge mode")
		}
		if c.Session.Bridge.Port <= 0 {
			errs = append(errs, "session.bridge.port is required in bridge mode")
		}
		if !c.Session.Simulation && (c.Session.CAPath == "" || c.Session.CAPassword == "") {
			errs = append(errs, "session.ca_path and session.ca_password are required for live trading")
		}
	default:
		errs = append(errs, fmt.Sprintf("session.mode '%s' is not supported (paper, bridge)", c.Session.Mode))
	}
	if c.Session.Bridge.TimeoutSec <= 0 {
		c.Session.Bridge.TimeoutSec = 10
	}
	if c.Session.Bridge.RateLimitPerSecond <= 0 {
		c.Session.Bridge.RateLimitPerSecond = 10
	}

	// Trading validation: normalize the family allow-list
	families := make([]string, 0, len(c.Trading.SupportedFamilies))
	for _, f := range c.Trading.SupportedFamilies {
		f = strings.ToUpper(strings.TrimSpace(f))
		if f != "" {
			families = append(families, f)
		}
	}
	if len(families) == 0 {
		families = []string{"MXF", "TXF"}
	}
	c.Trading.SupportedFamilies = families

	// Persistence validation
	if c.Persistence.Path == "" {
		c.Persistence.Path = "gateway.db"
	}

	// Alerting validation
	if c.Alerting.Enabled {
		for i, ch := range c.Alerting.Channels {
			switch ch.Type {
			case "console":
			case "telegram":
				if ch.BotToken == "" || ch.ChatID == "" {
					errs = append(errs, fmt.Sprintf("alerting.channels[%d]: telegram requires bot_token and chat_id", i))
				}
			default:
				errs = append(errs, fmt.Sprintf("alerting.channels[%d]: type '%s' is not supported", i, ch.Type))
			}
		}
	}

	// Logging validation
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level '%s' is not supported", c.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", types.ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

// ReadTimeout returns the server read timeout duration.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSec) * time.Second
}

// WriteTimeout returns the server write timeout duration.
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSec) * time.Second
}

// ShutdownTimeout returns the shutdown timeout duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// BridgeTimeout returns the per-request bridge timeout duration.
func (c *Config) BridgeTimeout() time.Duration {
	return time.Duration(c.Session.Bridge.TimeoutSec) * time.Second
}

// IsAlertEventEnabled checks if an alert event type is enabled.
func (c *Config) IsAlertEventEnabled(event string) bool {
	if !c.Alerting.Enabled {
		return false
	}
	// If no events specified, all are enabled
	if len(c.Alerting.Events) == 0 {
		return true
	}
	for _, e := range c.Alerting.Events {
		if e == event || e == "all" {
			return true
		}
	}
	return false
}
