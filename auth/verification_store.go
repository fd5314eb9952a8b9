package auth

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	verificationKeyPrefix   = "vc"
	verificationRecordV1    = 1
	verificationMaxCASRetry = 4
)

// verificationRecord is the Redis value for a pending code. Only a hash of
// the code is stored; the plaintext exists solely in the delivery email.
type verificationRecord struct {
	IssuedAt  int64
	ExpiresAt int64
	CodeHash  [32]byte
}

// verificationStore keeps pending codes in Redis, keyed by normalized
// email. Issue enforces the resend cooldown and Consume deletes the record
// in the same transaction that matches it, so a code succeeds at most once.
type verificationStore struct {
	redis *redis.Client
	cfg   CodeConfig

	now func() time.Time
}

func newVerificationStore(client *redis.Client, cfg CodeConfig) *verificationStore {
	return &verificationStore{
		redis: client,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (s *verificationStore) key(email string) string {
	return verificationKeyPrefix + ":" + email
}

// Issue stores a fresh code for email, replacing any previous one. When the
// previous code was issued less than ResendCooldown ago, Issue returns
// ErrCodeRateLimited wrapped with the remaining wait and leaves the old
// code in place.
func (s *verificationStore) Issue(ctx context.Context, email, code string) error {
	key := s.key(email)

	for i := 0; i < verificationMaxCASRetry; i++ {
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}

			now := s.now()
			if err == nil {
				existing, decodeErr := decodeVerificationRecord(data)
				if decodeErr == nil {
					elapsed := now.Sub(time.Unix(existing.IssuedAt, 0))
					if elapsed < s.cfg.ResendCooldown {
						return &RateLimitError{
							Err:        ErrCodeRateLimited,
							RetryAfter: s.cfg.ResendCooldown - elapsed,
						}
					}
				}
				// An undecodable record is stale data from an older
				// deployment; overwrite it.
			}

			record := &verificationRecord{
				IssuedAt:  now.Unix(),
				ExpiresAt: now.Add(s.cfg.TTL).Unix(),
				CodeHash:  sha256.Sum256([]byte(code)),
			}
			encoded := encodeVerificationRecord(record)

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, encoded, s.cfg.TTL)
				return nil
			})
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, ErrCodeRateLimited) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil
	}

	return fmt.Errorf("%w: issue contention not resolved", ErrStoreUnavailable)
}

// Consume checks code against the pending record for email and deletes the
// record when it matches. Exactly one concurrent caller can succeed; the
// delete rides in the same optimistic transaction as the comparison. A
// mismatched code leaves the record untouched.
func (s *verificationStore) Consume(ctx context.Context, email, code string) error {
	key := s.key(email)
	providedHash := sha256.Sum256([]byte(code))

	for i := 0; i < verificationMaxCASRetry; i++ {
		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			record, err := decodeVerificationRecord(data)
			if err != nil {
				return ErrCodeInvalid
			}

			if s.now().Unix() > record.ExpiresAt {
				_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
					pipe.Del(ctx, key)
					return nil
				})
				if err != nil {
					return err
				}
				return ErrCodeExpired
			}

			if subtle.ConstantTimeCompare(record.CodeHash[:], providedHash[:]) != 1 {
				return ErrCodeInvalid
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			switch {
			case errors.Is(err, redis.Nil):
				return ErrCodeInvalid
			case errors.Is(err, ErrCodeInvalid), errors.Is(err, ErrCodeExpired):
				return err
			default:
				return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			}
		}
		return nil
	}

	// Every retry lost the race; whoever won consumed the record.
	return ErrCodeInvalid
}

// Delete drops any pending code for email. Missing records are not an error.
func (s *verificationStore) Delete(ctx context.Context, email string) error {
	if err := s.redis.Del(ctx, s.key(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func encodeVerificationRecord(record *verificationRecord) []byte {
	var buf bytes.Buffer

	buf.WriteByte(verificationRecordV1)
	_ = binary.Write(&buf, binary.BigEndian, record.IssuedAt)
	_ = binary.Write(&buf, binary.BigEndian, record.ExpiresAt)
	buf.Write(record.CodeHash[:])

	return buf.Bytes()
}

func decodeVerificationRecord(data []byte) (*verificationRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != verificationRecordV1 {
		return nil, errors.New("invalid verification record version")
	}

	record := &verificationRecord{}
	if err := binary.Read(reader, binary.BigEndian, &record.IssuedAt); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &record.ExpiresAt); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(reader, record.CodeHash[:]); err != nil {
		return nil, err
	}

	return record, nil
}

// newOTP draws a numeric code digit by digit from crypto/rand, avoiding the
// modulo bias of reducing one large integer.
func newOTP(digits int) (string, error) {
	if digits < 6 || digits > 10 {
		return "", errors.New("invalid otp digits")
	}

	var b strings.Builder
	b.Grow(digits)

	max := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String(), nil
}
