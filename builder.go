package userauth

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/shopmesh/userauth/cache"
	"github.com/shopmesh/userauth/jwt"
	"github.com/shopmesh/userauth/password"
)

// Builder assembles an Engine. A credential store is mandatory; Redis is
// optional and only enables the profile cache.
type Builder struct {
	config Config
	store  CredentialStore
	redis  redis.UniversalClient
	audit  AuditSink
}

// New returns a Builder preloaded with DefaultConfig.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the entire configuration. The config is cloned so
// later mutation of the argument does not affect the engine.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore supplies the credential store.
func (b *Builder) WithStore(store CredentialStore) *Builder {
	b.store = store
	return b
}

// WithRedis supplies the Redis client backing the profile cache.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink supplies the audit sink. Without one, audit events go to a
// NoOpSink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.audit = sink
	return b
}

// Build validates the configuration and wires the engine. Configuration
// problems fail here, at startup, never at request time.
func (b *Builder) Build() (*Engine, error) {
	if b.store == nil {
		return nil, fmt.Errorf("%w: credential store is required", ErrEngineNotReady)
	}
	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineNotReady, err)
	}

	hasher, err := password.NewHasher(password.Config{Cost: b.config.Password.Cost})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineNotReady, err)
	}

	signer, err := jwt.NewManager(jwt.Config{
		Secret:    b.config.JWT.Secret,
		AccessTTL: b.config.JWT.AccessTTL,
		Issuer:    b.config.JWT.Issuer,
		Audience:  b.config.JWT.Audience,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineNotReady, err)
	}

	e := &Engine{
		config:  b.config,
		store:   b.store,
		hasher:  hasher,
		signer:  signer,
		metrics: NewMetrics(b.config.Metrics),
		audit:   newAuditDispatcher(b.config.Audit, b.audit),
	}

	if b.redis != nil {
		e.profiles = cache.New[Profile](b.redis, b.config.Cache.RedisPrefix, b.config.Cache.ProfileTTL)
	}

	return e, nil
}
