package password

import "fmt"

// Algorithm names a password hashing scheme.
type Algorithm string

const (
	// AlgorithmBcrypt is bcrypt, the default.
	AlgorithmBcrypt Algorithm = "bcrypt"
	// AlgorithmArgon2id is argon2id with a PHC-style encoded hash.
	AlgorithmArgon2id Algorithm = "argon2id"
)

// Config selects and tunes the hasher.
type Config struct {
	// Algorithm is bcrypt or argon2id (default bcrypt).
	Algorithm Algorithm `yaml:"algorithm" mapstructure:"algorithm"`
	// BcryptCost is the bcrypt work factor, 4..31 (default 12).
	BcryptCost int `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
	// Argon2Time is the argon2id iteration count (default 1).
	Argon2Time uint32 `yaml:"argon2_time" mapstructure:"argon2_time"`
	// Argon2Memory is the argon2id memory in KiB (default 64MB).
	Argon2Memory uint32 `yaml:"argon2_memory" mapstructure:"argon2_memory"`
	// Argon2Threads is the argon2id parallelism (default 4).
	Argon2Threads uint8 `yaml:"argon2_threads" mapstructure:"argon2_threads"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmBcrypt
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
	if c.Argon2Time == 0 {
		c.Argon2Time = 1
	}
	if c.Argon2Memory == 0 {
		c.Argon2Memory = 64 * 1024
	}
	if c.Argon2Threads == 0 {
		c.Argon2Threads = 4
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmBcrypt, AlgorithmArgon2id:
	default:
		return fmt.Errorf("password.algorithm must be bcrypt or argon2id (got: %q)", c.Algorithm)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("password.bcrypt_cost must be between 4 and 31 (got: %d)", c.BcryptCost)
	}
	return nil
}

// NewHasher returns the hasher cfg selects.
func NewHasher(cfg Config) Hasher {
	cfg.ApplyDefaults()
	if cfg.Algorithm == AlgorithmArgon2id {
		return &Argon2Hasher{
			time:    cfg.Argon2Time,
			memory:  cfg.Argon2Memory,
			threads: cfg.Argon2Threads,
			keyLen:  32,
			saltLen: 16,
		}
	}
	return &BcryptHasher{cost: cfg.BcryptCost}
}
