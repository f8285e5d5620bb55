package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/multierr"

	"github.com/rennerdo30/repoctl/internal/logging"
	"github.com/rennerdo30/repoctl/internal/util"
)

// Config is the repoctl configuration file.
type Config struct {
	Server  ServerConnection `yaml:"server" json:"server"`
	Logging logging.Config   `yaml:"logging" json:"logging"`
	Metrics MetricsConfig    `yaml:"metrics" json:"metrics"`
}

// ServerConnection locates and authenticates against the repository server.
type ServerConnection struct {
	URL      string   `yaml:"url" json:"url"`
	Username string   `yaml:"username,omitempty" json:"username,omitempty"`
	Password string   `yaml:"password,omitempty" json:"password,omitempty"`
	Timeout  Duration `yaml:"timeout" json:"timeout"`
}

// MetricsConfig controls metric export.
type MetricsConfig struct {
	// Textfile is a node exporter textfile the metrics are written to after
	// each command. Empty disables export.
	Textfile string `yaml:"textfile,omitempty" json:"textfile,omitempty"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConnection{
			URL:     "http://localhost:8081/nexus",
			Timeout: Duration(30 * time.Second),
		},
		Logging: logging.DefaultConfig(),
	}
}

// Validate validates the configuration and reports every problem found.
func (c *Config) Validate() error {
	var err error

	if c.Server.URL == "" {
		err = multierr.Append(err, errors.New("server url is required"))
	} else if u, perr := url.Parse(c.Server.URL); perr != nil {
		err = multierr.Append(err, fmt.Errorf("server url: %w", perr))
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		err = multierr.Append(err, fmt.Errorf("server url must be an absolute http(s) url, got: %s", c.Server.URL))
	}

	if c.Server.Password != "" && c.Server.Username == "" {
		err = multierr.Append(err, errors.New("server password is set without a username"))
	}

	if c.Server.Timeout < 0 {
		err = multierr.Append(err, errors.New("server timeout must be non-negative"))
	}

	if err != nil {
		return fmt.Errorf("%w: %w", util.ErrInvalidConfig, err)
	}
	return nil
}
