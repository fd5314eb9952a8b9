package auth

import (
	"context"
	"errors"
	"fmt"

	"secureapp/server/internal/metrics"
	"secureapp/server/internal/store"
)

// DeleteAccount removes the account identified by the session token. The
// token itself names the account; callers cannot delete anyone else.
// Deletion of an already-deleted account is idempotent at the store level
// but fails here because the token no longer resolves. Any pending
// verification code for the email is cleaned up best-effort.
func (e *Engine) DeleteAccount(ctx context.Context, token string) error {
	user, err := e.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	email := normalizeEmail(user.Email)
	if err := e.users.DeleteUserByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := e.codes.Delete(ctx, email); err != nil {
		e.logger.Warn("pending code cleanup failed after account deletion",
			"email", email, "error", err)
	}

	e.metricInc(metrics.AccountDeleted)
	e.emitAudit(ctx, auditEventAccountDeleted, email, true, nil, map[string]string{
		"user_id": user.ID,
	})

	return nil
}
