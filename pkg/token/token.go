package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Type tags carried in the "typ" claim.
const (
	TypeTap     = "tap"
	TypeCode    = "code"
	TypeSession = "session"
)

// Default lifetimes per token type.
const (
	TapTTL     = 60 * time.Second
	CodeTTL    = 24 * time.Hour
	SessionTTL = 12 * time.Hour
)

// MinSecretLength is the shortest HS256 secret the issuer accepts.
const MinSecretLength = 32

var (
	ErrExpired      = errors.New("token expired")
	ErrBadSignature = errors.New("token signature invalid")
	ErrMalformed    = errors.New("token malformed")
	ErrNoSecret     = errors.New("token secret missing or too short")
)

// Claims is the payload of every token the issuer mints.
type Claims struct {
	Type string `json:"typ"`
	// Code binds a code-session token to one review code.
	Code string `json:"code,omitempty"`
	Role string `json:"role,omitempty"`
	// Impersonator is the admin account id when a session was minted on behalf of another user.
	Impersonator string `json:"imp,omitempty"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies HS256 tokens with an embedded expiry.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

type Option func(*Issuer)

// WithClock overrides the wall clock used for iat/exp stamping and verification.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

func NewIssuer(secret string, opts ...Option) (*Issuer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrNoSecret
	}
	i := &Issuer{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Mint signs claims with iat=now and exp=now+ttl. NumericDate carries whole
// seconds, so exp is rounded up: a token stays valid for at least ttl.
func (i *Issuer) Mint(claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("token: ttl must be positive, got %s", ttl)
	}
	now := i.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(ceilSecond(now.Add(ttl)))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded claims.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMalformed
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformed
		}
	}
	return claims, nil
}

// VerifyType verifies the token and additionally requires the given type tag.
func (i *Issuer) VerifyType(raw, typ string) (*Claims, error) {
	claims, err := i.Verify(raw)
	if err != nil {
		return nil, err
	}
	if claims.Type != typ {
		return nil, ErrMalformed
	}
	return claims, nil
}

func ceilSecond(t time.Time) time.Time {
	truncated := t.Truncate(time.Second)
	if truncated.Before(t) {
		return truncated.Add(time.Second)
	}
	return truncated
}
