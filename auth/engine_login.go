package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"secureapp/server/internal/metrics"
	"secureapp/server/internal/store"
)

// Login authenticates by email or username (case-insensitive) and returns
// the identity with a fresh session token. Every attempt counts against
// the identifier's lockout budget, including attempts with a missing
// password or an unknown identifier, so the limiter cannot be probed for
// which identifiers exist.
func (e *Engine) Login(ctx context.Context, identifier, plaintext string) (LoginResult, error) {
	identifier = normalizeIdentifier(identifier)
	if identifier == "" {
		return LoginResult{}, ErrMissingFields
	}

	allowed, retryAfter := e.loginLimiter.CheckAndRecord(identifier)
	if !allowed {
		e.metricInc(metrics.LoginRateLimited)
		e.emitAudit(ctx, auditEventLoginLocked, identifier, false, ErrLoginRateLimited, nil)
		return LoginResult{}, &RateLimitError{Err: ErrLoginRateLimited, RetryAfter: retryAfter}
	}

	if plaintext == "" {
		return LoginResult{}, ErrMissingFields
	}

	user, err := e.users.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.metricInc(metrics.LoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, identifier, false, ErrInvalidCredentials, nil)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	ok, err := e.passwordHash.Verify(plaintext, user.PasswordHash)
	if err != nil {
		return LoginResult{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		e.metricInc(metrics.LoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, identifier, false, ErrInvalidCredentials, nil)
		return LoginResult{}, ErrInvalidCredentials
	}

	e.loginLimiter.Clear(identifier)
	e.maybeUpgradeHash(ctx, *user, plaintext)

	token, err := e.jwtManager.Issue(user.ID, user.Email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	e.metricInc(metrics.LoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, identifier, true, nil, map[string]string{
		"user_id": user.ID,
	})

	return LoginResult{User: publicUser(*user), Token: token}, nil
}

// maybeUpgradeHash re-hashes the password after a successful verification
// when the stored hash uses weaker parameters than the current config.
// Failures are logged and ignored; login already succeeded.
func (e *Engine) maybeUpgradeHash(ctx context.Context, user store.User, plaintext string) {
	upgrade, err := e.passwordHash.NeedsUpgrade(user.PasswordHash)
	if err != nil || !upgrade {
		return
	}

	hash, err := e.passwordHash.Hash(plaintext)
	if err != nil {
		e.logger.Warn("password hash upgrade failed", "user_id", user.ID, "error", err)
		return
	}
	if err := e.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		e.logger.Warn("password hash upgrade failed", "user_id", user.ID, "error", err)
	}
}

// Authenticate validates a session token and resolves it to a live user.
// Signature and expiry alone are not enough: the user must still exist and
// the token's email must match the account's current email.
func (e *Engine) Authenticate(ctx context.Context, token string) (PublicUser, error) {
	claims, err := e.jwtManager.Validate(token)
	if err != nil {
		e.metricInc(metrics.TokenRejected)
		return PublicUser{}, ErrUnauthorized
	}

	user, err := e.users.GetUserByID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.metricInc(metrics.TokenRejected)
			e.emitAudit(ctx, auditEventTokenRejected, claims.Email, false, ErrUnauthorized, nil)
			return PublicUser{}, ErrUnauthorized
		}
		return PublicUser{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if !strings.EqualFold(user.Email, claims.Email) {
		e.metricInc(metrics.TokenRejected)
		return PublicUser{}, ErrUnauthorized
	}

	return publicUser(*user), nil
}
