package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingFields is returned when a required request field is empty.
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidEmail is returned when the email fails format validation.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrCodeInvalid is returned when a verification code does not match,
	// was already consumed, or was never issued.
	ErrCodeInvalid = errors.New("invalid or expired verification code")
	// ErrCodeExpired is returned when the verification code exists but its
	// validity window has passed.
	ErrCodeExpired = errors.New("verification code expired")
	// ErrWeakPassword is returned when the password fails the strength policy.
	ErrWeakPassword = errors.New("password does not meet strength requirements")
	// ErrEmailExists is returned when registration targets an email that
	// already has an account.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidCredentials is returned for any unknown-identifier or
	// wrong-password login, without distinguishing the two.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginRateLimited is returned when the identifier is locked out.
	ErrLoginRateLimited = errors.New("too many login attempts")
	// ErrCodeRateLimited is returned when a code is requested again before
	// the resend cooldown has elapsed.
	ErrCodeRateLimited = errors.New("verification code recently sent")
	// ErrUnauthorized is returned when a session token is missing, invalid,
	// expired, or refers to a user that no longer exists.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStoreUnavailable is returned when a backing store cannot be reached.
	ErrStoreUnavailable = errors.New("backend unavailable")
)

// RateLimitError wraps a rate-limit sentinel with the wait the caller must
// observe before retrying. errors.Is matches the wrapped sentinel.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%v: retry after %s", e.Err, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// RetryAfter extracts the wait from err when it carries one. Returns zero
// when err is not a rate-limit error.
func RetryAfter(err error) time.Duration {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return rle.RetryAfter
	}
	return 0
}
