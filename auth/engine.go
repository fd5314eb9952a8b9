package auth

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"secureapp/server/internal/audit"
	"secureapp/server/internal/metrics"
	"secureapp/server/internal/store"
	"secureapp/server/jwt"
	"secureapp/server/mail"
	"secureapp/server/password"
)

// Engine is the account lifecycle engine. Construct it with the Builder;
// a zero Engine is not usable.
type Engine struct {
	config Config

	users        store.UserStore
	codes        *verificationStore
	loginLimiter *loginLimiter
	passwordHash *password.Argon2
	jwtManager   *jwt.Manager
	mailer       mail.Sender
	audit        *audit.Dispatcher
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// PublicUser is the externally visible identity: never the password hash.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResult carries the authenticated identity and its session token.
type LoginResult struct {
	User  PublicUser
	Token string
}

// Matches anything of the shape local@domain.tld without whitespace. Full
// RFC 5322 validation is the mail provider's problem; this only rejects
// obvious garbage before a code is issued.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// normalizeEmail lowercases and trims. All storage and lookup keys use the
// normalized form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

func publicUser(u store.User) PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

// Close flushes the audit pipeline. Call once during shutdown.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() metrics.Snapshot {
	if e == nil {
		return metrics.Snapshot{Counters: map[metrics.ID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports audit events discarded due to backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) metricInc(id metrics.ID) {
	e.metrics.Inc(id)
}

const (
	auditEventCodeIssued     = "code_issued"
	auditEventCodeDelivery   = "code_delivery_failed"
	auditEventRegister       = "register"
	auditEventLoginSuccess   = "login_success"
	auditEventLoginFailure   = "login_failure"
	auditEventLoginLocked    = "login_rate_limited"
	auditEventTokenRejected  = "token_rejected"
	auditEventAccountDeleted = "account_deleted"
)

func (e *Engine) emitAudit(ctx context.Context, eventType, identifier string, success bool, err error, metadata map[string]string) {
	if e == nil || e.audit == nil {
		return
	}

	event := audit.Event{
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		Identifier: identifier,
		IP:         clientIPFromContext(ctx),
		Success:    success,
		Metadata:   metadata,
	}
	if err != nil {
		event.Error = err.Error()
	}

	e.audit.Emit(ctx, event)
}
