package userauth

import (
	"errors"
	"time"
)

// Config groups all engine tunables. The zero value is not usable; start
// from DefaultConfig and override what you need.
type Config struct {
	JWT      JWTConfig
	Password PasswordConfig
	Lockout  LockoutConfig
	Refresh  RefreshConfig
	Cache    CacheConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// JWTConfig controls access-token signing and validation.
type JWTConfig struct {
	// Secret is the HS256 signing key. Mandatory; there is no default.
	Secret []byte

	// AccessTTL bounds the lifetime of issued access tokens.
	AccessTTL time.Duration

	// Issuer and Audience, when set, are stamped on issued tokens and
	// enforced during validation.
	Issuer   string
	Audience string
}

// PasswordConfig controls credential hashing.
type PasswordConfig struct {
	// Cost is the bcrypt work factor. Zero selects the default.
	Cost int
}

// LockoutConfig controls the consecutive-failure brute-force lock.
type LockoutConfig struct {
	// Threshold is the number of consecutive failures that opens the
	// lockout window.
	Threshold int

	// Duration is how long the window stays open.
	Duration time.Duration
}

// RefreshConfig controls refresh-token lifetimes.
type RefreshConfig struct {
	TTL time.Duration
}

// CacheConfig controls the Redis-backed profile cache. The cache is only
// active when the builder is given a Redis client.
type CacheConfig struct {
	RedisPrefix string
	ProfileTTL  time.Duration
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int

	// DropIfFull makes emission non-blocking: events are counted and
	// discarded when the buffer is full instead of stalling the hot path.
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics registry.
type MetricsConfig struct {
	Enabled                bool
	EnableLatencyHistogram bool
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL: 30 * time.Minute,
		},
		Password: PasswordConfig{
			Cost: 12,
		},
		Lockout: LockoutConfig{
			Threshold: 5,
			Duration:  30 * time.Minute,
		},
		Refresh: RefreshConfig{
			TTL: 7 * 24 * time.Hour,
		},
		Cache: CacheConfig{
			RedisPrefix: "profile",
			ProfileTTL:  10 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// DefaultConfig returns the baseline configuration: 30 minute access tokens,
// 7 day refresh tokens, bcrypt cost 12, lockout after 5 failures for 30
// minutes, 10 minute profile cache.
func DefaultConfig() Config {
	return defaultConfig()
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.JWT.Secret != nil {
		out.JWT.Secret = make([]byte, len(cfg.JWT.Secret))
		copy(out.JWT.Secret, cfg.JWT.Secret)
	}
	return out
}

// Validate checks the configuration for values that would make the engine
// unsafe or inert. A missing JWT secret is a startup failure, never a
// runtime fallback.
func (c *Config) Validate() error {
	if len(c.JWT.Secret) == 0 {
		return errors.New("config: JWT secret is required")
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("config: JWT access TTL must be positive")
	}
	if c.Refresh.TTL <= 0 {
		return errors.New("config: refresh TTL must be positive")
	}
	if c.Lockout.Threshold < 1 {
		return errors.New("config: lockout threshold must be at least 1")
	}
	if c.Lockout.Duration <= 0 {
		return errors.New("config: lockout duration must be positive")
	}
	if c.Cache.ProfileTTL <= 0 {
		return errors.New("config: profile cache TTL must be positive")
	}
	if c.Cache.RedisPrefix == "" {
		return errors.New("config: cache prefix must not be empty")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 1 {
		return errors.New("config: audit buffer size must be at least 1")
	}
	return nil
}
