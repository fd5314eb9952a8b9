package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"secureapp/server/internal/metrics"
	"secureapp/server/internal/store"
	"secureapp/server/password"
)

// Register creates an account gated on a valid verification code. The code
// is consumed before anything else is checked against durable state, so a
// failed registration burns it and the user must request a new one.
// Uniqueness of the email is decided atomically by the user store.
func (e *Engine) Register(ctx context.Context, username, email, plaintext, code string) (PublicUser, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if username == "" || email == "" || plaintext == "" || code == "" {
		return PublicUser{}, ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return PublicUser{}, ErrInvalidEmail
	}

	if err := e.codes.Consume(ctx, email, code); err != nil {
		if errors.Is(err, ErrCodeInvalid) || errors.Is(err, ErrCodeExpired) {
			e.metricInc(metrics.CodeMismatch)
			e.emitAudit(ctx, auditEventRegister, email, false, err, nil)
		}
		return PublicUser{}, err
	}
	e.metricInc(metrics.CodeConsumed)

	if !password.IsStrong(plaintext) {
		e.emitAudit(ctx, auditEventRegister, email, false, ErrWeakPassword, nil)
		return PublicUser{}, ErrWeakPassword
	}

	hash, err := e.passwordHash.Hash(plaintext)
	if err != nil {
		return PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := e.users.CreateUser(ctx, store.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			e.metricInc(metrics.AccountDuplicate)
			e.emitAudit(ctx, auditEventRegister, email, false, ErrEmailExists, nil)
			return PublicUser{}, ErrEmailExists
		}
		return PublicUser{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(metrics.AccountCreated)
	e.emitAudit(ctx, auditEventRegister, email, true, nil, map[string]string{
		"user_id": user.ID,
	})

	return publicUser(user), nil
}
