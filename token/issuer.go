package token

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/akulov/reservd/users"
)

// Issuer mints access/refresh token pairs for an authenticated user. The two
// tokens carry identical identity claims but are signed with independent
// secrets and lifetimes: the access token is the narrow, frequently rotated
// credential, the refresh token the rarely used renewal credential.
//
// Issuer is stateless apart from the clock; verification never consults
// storage, so there is no revocation: a refresh token stays valid until its
// own expiry even after rotation has superseded it.
type Issuer struct {
	access     *HMACSigner
	refresh    *HMACSigner
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer creates an Issuer from the two signing secrets and lifetimes.
func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if accessSecret == refreshSecret {
		return nil, errors.New("[NewIssuer] access and refresh secrets must differ")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("[NewIssuer] token TTLs must be positive")
	}

	accessSigner, err := NewHMACSigner(accessSecret)
	if err != nil {
		return nil, errors.Wrap(err, "[NewIssuer] access signer")
	}
	refreshSigner, err := NewHMACSigner(refreshSecret)
	if err != nil {
		return nil, errors.Wrap(err, "[NewIssuer] refresh signer")
	}

	return &Issuer{
		access:     accessSigner,
		refresh:    refreshSigner,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// Issue builds a token pair for the given user.
func (i *Issuer) Issue(user *users.User) (*Pair, error) {
	return i.mint(Claims{
		UserID: user.ID,
		Login:  user.Login,
		Role:   user.Role,
	})
}

// Renew mints a fresh pair from the identity carried by verified refresh
// claims. The previous refresh token is not invalidated; it simply ages out.
func (i *Issuer) Renew(claims *Claims) (*Pair, error) {
	return i.mint(Claims{
		UserID: claims.UserID,
		Login:  claims.Login,
		Role:   claims.Role,
	})
}

// VerifyAccess validates a raw access token and returns its claims.
func (i *Issuer) VerifyAccess(rawToken string) (*Claims, error) {
	return i.access.Verify(rawToken)
}

// VerifyRefresh validates a raw refresh token and returns its claims.
func (i *Issuer) VerifyRefresh(rawToken string) (*Claims, error) {
	return i.refresh.Verify(rawToken)
}

// RefreshTTL exposes the refresh lifetime so the cookie max-age can match it.
func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

func (i *Issuer) mint(identity Claims) (*Pair, error) {
	identity.ID = uuid.New().String()

	accessToken, err := i.access.Sign(identity, i.accessTTL)
	if err != nil {
		return nil, errors.Wrap(err, "[Issuer.mint] access token")
	}

	identity.ID = uuid.New().String()
	refreshToken, err := i.refresh.Sign(identity, i.refreshTTL)
	if err != nil {
		return nil, errors.Wrap(err, "[Issuer.mint] refresh token")
	}

	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
