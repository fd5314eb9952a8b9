package auth

import (
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"secureapp/server/internal/audit"
	"secureapp/server/internal/metrics"
	"secureapp/server/internal/store"
	"secureapp/server/jwt"
	"secureapp/server/mail"
	"secureapp/server/password"
)

// Builder assembles an Engine. Redis and a user store are required; the
// mailer defaults to log-only delivery and the audit sink to discard.
type Builder struct {
	config    Config
	redis     *redis.Client
	users     store.UserStore
	mailer    mail.Sender
	auditSink audit.Sink
	logger    *slog.Logger

	built bool
}

func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the client backing the verification code store.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithUserStore sets the durable account store.
func (b *Builder) WithUserStore(users store.UserStore) *Builder {
	b.users = users
	return b
}

// WithMailer sets the verification code delivery channel.
func (b *Builder) WithMailer(sender mail.Sender) *Builder {
	b.mailer = sender
	return b
}

// WithAuditSink enables audit event dispatch into sink.
func (b *Builder) WithAuditSink(sink audit.Sink) *Builder {
	b.auditSink = sink
	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration and wires the Engine. A Builder can be
// used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.users == nil {
		return nil, errors.New("user store required")
	}

	cfg := b.config
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	hasher, err := password.NewArgon2(cfg.Password)
	if err != nil {
		return nil, err
	}

	jwtManager, err := jwt.NewManager(jwt.Config{
		Secret: cfg.JWT.Secret,
		TTL:    cfg.JWT.TTL,
		Issuer: cfg.JWT.Issuer,
		Leeway: cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	mailer := b.mailer
	if mailer == nil {
		mailer = mail.NewLogSender(logger)
	}

	auditCfg := cfg.Audit
	if b.auditSink != nil {
		auditCfg.Enabled = true
	}

	engine := &Engine{
		config:       cfg,
		users:        b.users,
		codes:        newVerificationStore(b.redis, cfg.Codes),
		loginLimiter: newLoginLimiter(cfg.Login),
		passwordHash: hasher,
		jwtManager:   jwtManager,
		mailer:       mailer,
		audit:        audit.NewDispatcher(auditCfg, b.auditSink),
		metrics:      metrics.New(cfg.MetricsEnabled),
		logger:       logger,
	}

	b.built = true
	return engine, nil
}
