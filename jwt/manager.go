package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid is returned for every validation failure: missing token,
// malformed token, bad signature, or expiry. Callers get no further detail,
// which keeps the rejection path uniform.
var ErrTokenInvalid = errors.New("invalid token")

// MinSecretLength is the smallest accepted HS256 signing secret.
const MinSecretLength = 32

// Config holds the signing secret and token lifetime. Secret must be at
// least 32 bytes; HS256 is the only supported algorithm.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	Leeway time.Duration
}

// SessionClaims is the payload of a session token: the user's ID and email
// plus the registered expiry/issued-at claims.
type SessionClaims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and validates HS256 session tokens. Safe for concurrent
// use after construction.
type Manager struct {
	config Config
}

func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, errors.New("signing secret must be at least 32 bytes")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Manager{config: cfg}, nil
}

// Issue signs a token for the given user identity with expiry = now + TTL.
func (m *Manager) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UID:   userID,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.config.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.config.Secret)
}

// Validate parses and verifies a token. It never panics and collapses every
// failure into ErrTokenInvalid. A valid result proves signature and expiry
// only; callers must still confirm the identity resolves to a live user.
func (m *Manager) Validate(tokenStr string) (*SessionClaims, error) {
	if tokenStr == "" {
		return nil, ErrTokenInvalid
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.UID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
