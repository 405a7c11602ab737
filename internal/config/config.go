package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	ServerHost string
	ServerPort int

	// Upstream settings
	Source         string
	UpstreamURL    string
	DBPath         string
	RequestTimeout time.Duration
	UpstreamRPS    float64

	// Browse settings
	APIURL string
	Width  int // 0 means detect from the terminal

	// Log settings
	LogLevel zerolog.Level
}

// DefaultConfig returns an initial configuration with hardcoded defaults.
func DefaultConfig() *Config {
	logLevel, _ := zerolog.ParseLevel(DefaultLogLevel)

	return &Config{
		ServerHost:     DefaultServerHost,
		ServerPort:     DefaultServerPort,
		Source:         DefaultSource,
		UpstreamURL:    DefaultUpstreamURL,
		DBPath:         DefaultDBPath,
		RequestTimeout: time.Duration(DefaultRequestTimeout) * time.Second,
		UpstreamRPS:    DefaultUpstreamRPS,
		APIURL:         DefaultAPIURL,
		LogLevel:       logLevel,
	}
}

// ListenAddr returns the formatted listen address for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Source {
	case SourcePlaceholder:
		if c.UpstreamURL == "" {
			return fmt.Errorf("upstream URL is required for source %q", c.Source)
		}
	case SourceSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("database path is required for source %q", c.Source)
		}
	default:
		return fmt.Errorf("unknown source %q (use %q or %q)", c.Source, SourcePlaceholder, SourceSQLite)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.UpstreamRPS < 0 {
		return fmt.Errorf("upstream rps must not be negative, got %v", c.UpstreamRPS)
	}
	return nil
}
