package password

import "fmt"

// Algorithm represents supported credential hashing algorithms.
type Algorithm string

const (
	// AlgorithmHMAC is keyed HMAC-SHA256 hashing (the default scheme).
	AlgorithmHMAC Algorithm = "hmac"

	// AlgorithmBcrypt is per-record salted bcrypt hashing.
	AlgorithmBcrypt Algorithm = "bcrypt"
)

// Config configures credential hashing behavior.
type Config struct {
	// Algorithm selects the hashing algorithm (default: "hmac").
	Algorithm Algorithm `yaml:"algorithm" mapstructure:"algorithm"`

	// Secret is the HMAC key. Required for the hmac algorithm; supplied
	// via environment, distinct from the token signing key, never logged.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// BcryptCost is the bcrypt cost parameter (default: 12, range: 4-31).
	// Only used when Algorithm is "bcrypt".
	BcryptCost int `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmHMAC
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmHMAC:
		if c.Secret == "" {
			return fmt.Errorf("auth.password.secret is required for the hmac algorithm")
		}
	case AlgorithmBcrypt:
		if c.BcryptCost < 4 || c.BcryptCost > 31 {
			return fmt.Errorf("auth.password.bcrypt_cost must be between 4 and 31 (got: %d)", c.BcryptCost)
		}
	default:
		return fmt.Errorf("unsupported algorithm: %s (use hmac or bcrypt)", c.Algorithm)
	}
	return nil
}

// NewHasher creates a Hasher from configuration.
func NewHasher(cfg Config) Hasher {
	cfg.ApplyDefaults()
	switch cfg.Algorithm {
	case AlgorithmBcrypt:
		return NewBcryptHasher(cfg.BcryptCost)
	default:
		return NewHMACHasher(cfg.Secret)
	}
}
