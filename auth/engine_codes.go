package auth

import (
	"context"
	"fmt"

	"secureapp/server/internal/metrics"
)

// SendCode issues a fresh verification code for email and delivers it via
// the configured mailer. A repeat request inside the resend cooldown
// returns ErrCodeRateLimited (as a RateLimitError) and keeps the previous
// code valid. Delivery failure is not an error: the code is already stored
// and is surfaced through the logs instead.
func (e *Engine) SendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}

	code, err := newOTP(e.config.Codes.Digits)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	if err := e.codes.Issue(ctx, email, code); err != nil {
		if RetryAfter(err) > 0 {
			e.metricInc(metrics.CodeRateLimited)
			e.emitAudit(ctx, auditEventCodeIssued, email, false, err, nil)
		}
		return err
	}

	e.metricInc(metrics.CodeIssued)
	e.emitAudit(ctx, auditEventCodeIssued, email, true, nil, nil)

	if err := e.mailer.SendCode(ctx, email, code); err != nil {
		e.metricInc(metrics.CodeDeliveryFailed)
		e.emitAudit(ctx, auditEventCodeDelivery, email, false, err, nil)
		e.logger.Warn("verification code delivery failed, code remains valid",
			"email", email, "error", err)
	}

	return nil
}
