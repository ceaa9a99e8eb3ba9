package server

import (
	"fmt"
	"time"
)

// Config holds HTTP server configuration.
type Config struct {
	// Host is the bind address (default: 0.0.0.0).
	Host string `yaml:"host" mapstructure:"host"`

	// Port is the listen port (default: 8080).
	Port int `yaml:"port" mapstructure:"port"`

	// ReadTimeout bounds reading the full request (e.g. "15s").
	ReadTimeout string `yaml:"read_timeout" mapstructure:"read_timeout"`

	// WriteTimeout bounds writing the response (e.g. "15s").
	WriteTimeout string `yaml:"write_timeout" mapstructure:"write_timeout"`

	// IdleTimeout bounds keep-alive idle connections (e.g. "60s").
	IdleTimeout string `yaml:"idle_timeout" mapstructure:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown (e.g. "10s").
	ShutdownTimeout string `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`

	// CORS configures cross-origin request handling.
	CORS CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled" mapstructure:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "15s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "15s"
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "60s"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "10s"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
	}
}

// Validate checks that fields are in range and parseable.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got: %d)", c.Port)
	}
	for name, value := range map[string]string{
		"server.read_timeout":     c.ReadTimeout,
		"server.write_timeout":    c.WriteTimeout,
		"server.idle_timeout":     c.IdleTimeout,
		"server.shutdown_timeout": c.ShutdownTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
	}
	return nil
}

// Addr returns the host:port bind address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) duration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}
