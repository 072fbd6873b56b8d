package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity record embedded in both access and refresh tokens.
// Once signed it is immutable; a renewed token pair carries a fresh copy with
// new timestamps, never an edited one.
type Claims struct {
	UserID string `json:"uid"`
	Login  string `json:"login"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// hasIdentity reports whether the identity fields a verifier must be able to
// rely on are present. Tokens missing them are treated as invalid, not as a
// partially usable identity.
func (c *Claims) hasIdentity() bool {
	return c.UserID != "" && c.Login != ""
}

// Pair bundles the two credentials minted by a single authentication or
// renewal event.
type Pair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}
