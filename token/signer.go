package token

import (
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	apperrors "github.com/akulov/reservd/internal/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// HMACSigner signs and verifies JWT tokens using symmetric HMAC-SHA256.
// It holds no mutable state and is safe for concurrent use.
type HMACSigner struct {
	secret []byte
}

// NewHMACSigner creates a new HMAC signer with the given secret
func NewHMACSigner(secret string) (*HMACSigner, error) {
	if secret == "" {
		return nil, errors.New("[NewHMACSigner] secret is required")
	}
	return &HMACSigner{secret: []byte(secret)}, nil
}

// Sign serializes the claims with an absolute expiry derived from ttl and
// signs the result. The caller's identity fields are copied as-is; issued-at,
// expiry and the token ID are stamped here.
func (h *HMACSigner) Sign(c Claims, ttl time.Duration) (string, error) {
	now := NowTimeFunc()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &c)
	signedToken, err := t.SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token with HMAC")
	}
	return signedToken, nil
}

// Verify parses a raw token and validates its signature and expiry.
// It returns apperrors.ErrInvalidToken for anything structurally or
// cryptographically wrong and apperrors.ErrTokenExpired only for a token
// whose signature checked out but whose expiry has passed. Signature
// validity is decided before expiry, so a forged token can never reach the
// expired branch.
func (h *HMACSigner) Verify(rawToken string) (*Claims, error) {
	if rawToken == "" {
		return nil, apperrors.ErrMissingToken
	}

	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return NowTimeFunc() }),
	)
	_, err := parser.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (any, error) {
		return h.secret, nil
	})

	switch {
	case err == nil:
	case stderrors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, apperrors.ErrInvalidToken
	case stderrors.Is(err, jwt.ErrTokenExpired):
		return nil, apperrors.ErrTokenExpired
	default:
		return nil, apperrors.ErrInvalidToken
	}

	if !claims.hasIdentity() {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
