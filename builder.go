package memberauth

import (
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/sjpark-dev/memberauth/kv"
	"github.com/sjpark-dev/memberauth/password"
	"github.com/sjpark-dev/memberauth/token"
)

// Builder assembles an [Engine]. Configure it during initialization and call
// Build exactly once; a Builder is not safe for concurrent use.
type Builder struct {
	config Config
	store  kv.Store

	members MemberProvider
	mailer  Mailer
	images  ImageStore

	auditSink AuditSink
	logger    *slog.Logger

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the entire configuration. Call it before the other
// With* methods that mutate config fields.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis wires the verification and refresh-token state to a Redis client.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.store = kv.NewRedis(client)
	return b
}

// WithStore wires an arbitrary [kv.Store]; an alternative to [Builder.WithRedis]
// for hosts that bring their own store.
func (b *Builder) WithStore(store kv.Store) *Builder {
	b.store = store
	return b
}

// WithMemberProvider wires the account repository. Required.
func (b *Builder) WithMemberProvider(p MemberProvider) *Builder {
	b.members = p
	return b
}

// WithMailer wires the email transport. Required for [Engine.RequestCode];
// engines built without a mailer reject it with ErrEngineNotReady.
func (b *Builder) WithMailer(m Mailer) *Builder {
	b.mailer = m
	return b
}

// WithImageStore wires profile-image storage. Optional; without it sign-up
// records an empty image key.
func (b *Builder) WithImageStore(s ImageStore) *Builder {
	b.images = s
	return b
}

// WithAuditSink wires an audit sink and enables the audit dispatcher.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithLogger sets the logger for infrastructure failures the caller never
// sees. Defaults to a discard logger.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wiring and returns a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.store == nil {
		return nil, errors.New("key-value store required (WithRedis or WithStore)")
	}
	if b.members == nil {
		return nil, errors.New("member provider required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tokens, err := token.NewManager(token.Config{
		Secret:     cfg.Token.Secret,
		Issuer:     cfg.Token.Issuer,
		AccessTTL:  cfg.Token.AccessTTL,
		RefreshTTL: cfg.Token.RefreshTTL,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(cfg.Password.Cost)
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = discardLogger()
	}

	metrics := NewMetrics(cfg.Metrics)

	e := &Engine{
		config:        cfg,
		verification:  newVerificationStore(b.store),
		refreshTokens: newRefreshStore(b.store),
		tokens:        tokens,
		passwords:     hasher,
		members:       b.members,
		images:        b.images,
		metrics:       metrics,
		logger:        logger,
	}

	e.mail = newMailDispatcher(cfg.Mailer, b.mailer, logger, metrics)
	e.audit = newAuditDispatcher(cfg.Audit, b.auditSink)

	b.built = true
	return e, nil
}
