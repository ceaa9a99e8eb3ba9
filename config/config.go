package config

import (
	"fmt"

	"github.com/skillsenselab/identity/auth/jwt"
	"github.com/skillsenselab/identity/auth/password"
	"github.com/skillsenselab/identity/database"
	"github.com/skillsenselab/identity/server"
)

// Config is the full configuration for the identity service.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server   server.Config   `yaml:"server" mapstructure:"server"`
	Database database.Config `yaml:"database" mapstructure:"database"`
	Auth     AuthConfig      `yaml:"auth" mapstructure:"auth"`

	// PerPage is the page size for paginated list endpoints.
	PerPage int `yaml:"per_page" mapstructure:"per_page"`

	// Seed describes the superadmin account created on first run so a
	// fresh deployment can authenticate. Ignored when the user exists.
	Seed SeedConfig `yaml:"seed" mapstructure:"seed"`
}

// AuthConfig groups the two secret-bearing configs. The token signing key
// and the password hashing key are distinct on purpose.
type AuthConfig struct {
	JWT      jwt.Config      `yaml:"jwt" mapstructure:"jwt"`
	Password password.Config `yaml:"password" mapstructure:"password"`
}

// SeedConfig describes the bootstrap superadmin account.
type SeedConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Name     string `yaml:"name" mapstructure:"name"`
	Username string `yaml:"username" mapstructure:"username"`
	Email    string `yaml:"email" mapstructure:"email"`
	Password string `yaml:"password" mapstructure:"password"`
}

// Load reads the service configuration from config.yml/.env/environment.
func Load(opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig("identity", &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills zero-valued fields across all sections.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "identity"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Auth.JWT.ApplyDefaults()
	c.Auth.Password.ApplyDefaults()
	if c.PerPage <= 0 {
		c.PerPage = 10
	}
}

// Validate checks all sections.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Auth.JWT.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Password.Validate(); err != nil {
		return err
	}
	if c.Seed.Enabled {
		if c.Seed.Username == "" || c.Seed.Email == "" || c.Seed.Password == "" {
			return fmt.Errorf("seed.username, seed.email and seed.password are required when seeding is enabled")
		}
	}
	return nil
}
