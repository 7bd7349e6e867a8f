package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind labels what a token may be used for. The kind lives inside the signed
// payload, so a captured access token cannot be replayed as a refresh token
// even if a store-side check is bypassed.
type Kind string

const (
	// KindAccess marks short-lived tokens presented on API calls.
	KindAccess Kind = "access"
	// KindRefresh marks long-lived tokens accepted only by the refresh flow.
	KindRefresh Kind = "refresh"
)

var (
	// ErrInvalidSignature is returned when the MAC check fails.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired is returned for an authentic token whose expiry has passed.
	// Verify still returns the decoded claims alongside it.
	ErrExpired = errors.New("token expired")
	// ErrMalformed is returned when the token structure cannot be decoded.
	ErrMalformed = errors.New("malformed token")
)

// Config holds the signing secret and per-kind lifetimes.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims is the signed token payload: subject (username), role, kind,
// issuance and expiry instants, and a unique jti.
type Claims struct {
	Role string `json:"role"`
	Kind Kind   `json:"type"`
	jwt.RegisteredClaims
}

// IsRefresh reports whether the claims describe a refresh-kind token.
func (c *Claims) IsRefresh() bool {
	return c.Kind == KindRefresh
}

// Subject returns the token subject (the username).
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Expiry returns the absolute expiry instant.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Codec issues and verifies signed dual-kind tokens. It is stateless and
// safe for concurrent use.
type Codec struct {
	config Config
	now    func() time.Time
}

// NewCodec validates cfg and returns a ready Codec.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("signing secret is required")
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("invalid access TTL configuration")
	}
	if cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid refresh TTL configuration")
	}
	return &Codec{config: cfg, now: time.Now}, nil
}

// IssueAccess mints an access-kind token for subject/role and returns it with
// its absolute expiry.
func (c *Codec) IssueAccess(subject, role string) (string, time.Time, error) {
	return c.issue(subject, role, KindAccess, c.config.AccessTTL)
}

// IssueRefresh mints a refresh-kind token with the longer configured TTL.
func (c *Codec) IssueRefresh(subject, role string) (string, time.Time, error) {
	return c.issue(subject, role, KindRefresh, c.config.RefreshTTL)
}

func (c *Codec) issue(subject, role string, kind Kind, ttl time.Duration) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			// jti keeps two same-second issuances for one user distinct;
			// the session index keys on the raw token string.
			ID: uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(c.config.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and structure of token and decodes its claims.
//
// Failure classification matters to callers: ErrMalformed and
// ErrInvalidSignature mean the token is garbage and any partial state should
// be cleared; ErrExpired means the token was authentic and the decoded claims
// are returned with the error so the caller can route the client to refresh.
func (c *Codec) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
	).ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.config.Secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			// Signature already checked at this point; surface the claims.
			return claims, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformed
		}
	}
	if parsed == nil || !parsed.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

// AccessTTL returns the configured access-token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.config.AccessTTL }

// RefreshTTL returns the configured refresh-token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.config.RefreshTTL }
