package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/game"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Game   *GameSettings  `hcl:"game,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings controls how rounds are played. Durations are Go duration
// strings such as "45s".
type GameSettings struct {
	MoveTimeout string `hcl:"move_timeout,optional"`
	DealerDelay string `hcl:"dealer_delay,optional"`
	MaxPlayers  int    `hcl:"max_players,optional"`
	Seed        int64  `hcl:"seed,optional"` // 0 picks a time-based seed
}

// envOverrides are applied on top of the file
type envOverrides struct {
	Addr        string        `env:"BLACKJACK_ADDR"`
	LogLevel    string        `env:"BLACKJACK_LOG_LEVEL"`
	MoveTimeout time.Duration `env:"BLACKJACK_MOVE_TIMEOUT"`
	DealerDelay time.Duration `env:"BLACKJACK_DEALER_DELAY"`
}

const (
	defaultAddress    = "localhost"
	defaultPort       = 8080
	defaultLogLevel   = "info"
	defaultMaxPlayers = 6
)

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  defaultAddress,
			Port:     defaultPort,
			LogLevel: defaultLogLevel,
		},
		Game: &GameSettings{
			MoveTimeout: game.DefaultMoveTimeout.String(),
			DealerDelay: game.DefaultDealerDelay.String(),
			MaxPlayers:  defaultMaxPlayers,
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *ServerConfig) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = defaultAddress
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaultLogLevel
	}
	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Game.MoveTimeout == "" {
		c.Game.MoveTimeout = game.DefaultMoveTimeout.String()
	}
	if c.Game.DealerDelay == "" {
		c.Game.DealerDelay = game.DefaultDealerDelay.String()
	}
	if c.Game.MaxPlayers == 0 {
		c.Game.MaxPlayers = defaultMaxPlayers
	}
}

// ApplyEnv overrides settings from BLACKJACK_* variables. A nil environ
// reads the process environment.
func (c *ServerConfig) ApplyEnv(environ map[string]string) error {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	if o.Addr != "" {
		host, port, err := net.SplitHostPort(o.Addr)
		if err != nil {
			return fmt.Errorf("BLACKJACK_ADDR: %w", err)
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("BLACKJACK_ADDR: invalid port %q", port)
		}
		c.Server.Address, c.Server.Port = host, p
	}
	if o.LogLevel != "" {
		c.Server.LogLevel = o.LogLevel
	}
	if o.MoveTimeout != 0 {
		c.Game.MoveTimeout = o.MoveTimeout.String()
	}
	if o.DealerDelay != 0 {
		c.Game.DealerDelay = o.DealerDelay.String()
	}
	return nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Server.Port))
	}
	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level: %q", c.Server.LogLevel))
	}

	if d, err := time.ParseDuration(c.Game.MoveTimeout); err != nil {
		errs = append(errs, fmt.Errorf("game.move_timeout: %w", err))
	} else if d <= 0 {
		errs = append(errs, fmt.Errorf("game.move_timeout must be positive"))
	}
	if d, err := time.ParseDuration(c.Game.DealerDelay); err != nil {
		errs = append(errs, fmt.Errorf("game.dealer_delay: %w", err))
	} else if d < 0 {
		errs = append(errs, fmt.Errorf("game.dealer_delay must not be negative"))
	}
	if c.Game.MaxPlayers < 1 || c.Game.MaxPlayers > 7 {
		errs = append(errs, fmt.Errorf("game.max_players must be between 1 and 7"))
	}

	return errors.Join(errs...)
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// MoveTimeoutDuration returns the parsed move timeout. Call Validate first.
func (g GameSettings) MoveTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(g.MoveTimeout)
	return d
}

// DealerDelayDuration returns the parsed dealer delay. Call Validate first.
func (g GameSettings) DealerDelayDuration() time.Duration {
	d, _ := time.ParseDuration(g.DealerDelay)
	return d
}
