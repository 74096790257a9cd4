package client

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ClientConfig represents the complete client configuration
type ClientConfig struct {
	Server ServerConnection `hcl:"server,block"`
	Player PlayerSettings   `hcl:"player,block"`
	UI     *UISettings      `hcl:"ui,block"`
}

// ServerConnection contains server connection settings
type ServerConnection struct {
	URL            string `hcl:"url"`
	ConnectTimeout int    `hcl:"connect_timeout,optional"`
}

// PlayerSettings contains player-specific settings
type PlayerSettings struct {
	Name    string `hcl:"name"`
	Channel string `hcl:"channel,optional"`
}

// UISettings contains user interface settings
type UISettings struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// DefaultClientConfig returns default client configuration
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Server: ServerConnection{
			URL:            "http://localhost:8080",
			ConnectTimeout: 10,
		},
		Player: PlayerSettings{
			Channel: "#blackjack",
		},
		UI: &UISettings{
			LogLevel: "warn",
			LogFile:  "blackjack-client.log",
		},
	}
}

// LoadClientConfig loads client configuration from HCL file
func LoadClientConfig(filename string) (*ClientConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultClientConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ClientConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *ClientConfig) applyDefaults() {
	defaults := DefaultClientConfig()

	if c.Server.URL == "" {
		c.Server.URL = defaults.Server.URL
	}
	if c.Server.ConnectTimeout == 0 {
		c.Server.ConnectTimeout = defaults.Server.ConnectTimeout
	}
	if c.Player.Channel == "" {
		c.Player.Channel = defaults.Player.Channel
	}
	if c.UI == nil {
		c.UI = defaults.UI
		return
	}
	if c.UI.LogLevel == "" {
		c.UI.LogLevel = defaults.UI.LogLevel
	}
	if c.UI.LogFile == "" {
		c.UI.LogFile = defaults.UI.LogFile
	}
}

type clientEnv struct {
	URL     string `env:"BLACKJACK_SERVER"`
	Name    string `env:"BLACKJACK_PLAYER"`
	Channel string `env:"BLACKJACK_CHANNEL"`
}

// ApplyEnv overrides configuration from BLACKJACK_* variables in environ
func (c *ClientConfig) ApplyEnv(environ map[string]string) error {
	var e clientEnv
	if err := env.ParseWithOptions(&e, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	if e.URL != "" {
		c.Server.URL = e.URL
	}
	if e.Name != "" {
		c.Player.Name = e.Name
	}
	if e.Channel != "" {
		c.Player.Channel = e.Channel
	}
	return nil
}

// Validate validates the client configuration
func (c *ClientConfig) Validate() error {
	var errs []error

	if c.Server.URL == "" {
		errs = append(errs, errors.New("server URL is required"))
	} else if _, err := websocketURL(c.Server.URL); err != nil {
		errs = append(errs, err)
	}
	if c.Server.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("connect timeout must be positive"))
	}
	if c.Player.Name == "" {
		errs = append(errs, errors.New("player name is required"))
	}
	if !strings.HasPrefix(c.Player.Channel, "#") {
		errs = append(errs, fmt.Errorf("channel %q must start with #", c.Player.Channel))
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if c.UI != nil && !validLogLevels[c.UI.LogLevel] {
		errs = append(errs, fmt.Errorf("invalid log level: %s", c.UI.LogLevel))
	}

	return errors.Join(errs...)
}

// ConnectTimeoutDuration returns the connect timeout as a duration
func (c *ClientConfig) ConnectTimeoutDuration() time.Duration {
	return time.Duration(c.Server.ConnectTimeout) * time.Second
}
