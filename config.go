package authcore

import (
	"errors"
	"time"
)

// Config is the full engine configuration.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	JWT      JWTConfig
	Session  SessionConfig
	Register RegisterConfig
	Password PasswordConfig
	Sweep    SweepConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// JWTConfig holds the signing secret and per-kind token lifetimes. Both kinds
// are signed with HMAC-SHA-512 over the same secret; the kind claim inside
// the payload is what separates them.
type JWTConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// SessionConfig controls the Redis key namespace used by the session store.
type SessionConfig struct {
	RedisPrefix string
}

// RegisterConfig controls self-registration.
type RegisterConfig struct {
	// DebounceTTL is the lifetime of the per-username registration lock.
	// Duplicate submissions inside the window fail fast.
	DebounceTTL time.Duration
	DefaultRole string
}

// PasswordConfig controls bcrypt hashing.
type PasswordConfig struct {
	Cost int
}

// SweepConfig controls the periodic expired-token purge.
type SweepConfig struct {
	Interval time.Duration
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  2 * time.Hour,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Session: SessionConfig{
			RedisPrefix: "ba",
		},
		Register: RegisterConfig{
			DebounceTTL: 5 * time.Second,
			DefaultRole: RoleUser,
		},
		Password: PasswordConfig{
			Cost: 10,
		},
		Sweep: SweepConfig{
			Interval: time.Hour,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate rejects configurations the engine cannot run with. Zero values
// that have safe defaults are filled by defaultConfig, not here.
func (c Config) Validate() error {
	if len(c.JWT.Secret) == 0 {
		return errors.New("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret must be at least 32 bytes")
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT access TTL must be positive")
	}
	if c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT refresh TTL must be positive")
	}
	if c.JWT.RefreshTTL < c.JWT.AccessTTL {
		return errors.New("JWT refresh TTL must not be shorter than access TTL")
	}
	if c.Register.DebounceTTL < 0 {
		return errors.New("register debounce TTL must not be negative")
	}
	if c.Sweep.Interval < 0 {
		return errors.New("sweep interval must not be negative")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive when audit is enabled")
	}
	return nil
}
