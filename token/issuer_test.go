package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/akulov/reservd/internal/errors"
	"github.com/akulov/reservd/token"
	"github.com/akulov/reservd/users"
)

func newTestIssuer(t *testing.T) *token.Issuer {
	t.Helper()
	issuer, err := token.NewIssuer(testSecret, otherSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return issuer
}

func testUser() *users.User {
	return &users.User{ID: "user-1", Login: "john", Role: "user"}
}

func TestIssuePairCarriesSameIdentity(t *testing.T) {
	issuer := newTestIssuer(t)

	pair, err := issuer.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	accessClaims, err := issuer.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	refreshClaims, err := issuer.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)

	require.Equal(t, accessClaims.UserID, refreshClaims.UserID)
	require.Equal(t, accessClaims.Login, refreshClaims.Login)
	require.Equal(t, accessClaims.Role, refreshClaims.Role)
}

func TestSecretIndependence(t *testing.T) {
	issuer := newTestIssuer(t)

	pair, err := issuer.Issue(testUser())
	require.NoError(t, err)

	// A refresh token must never validate as an access token, and vice versa.
	_, err = issuer.VerifyAccess(pair.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = issuer.VerifyRefresh(pair.AccessToken)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRenewFromRefreshClaims(t *testing.T) {
	issuer := newTestIssuer(t)

	pair, err := issuer.Issue(testUser())
	require.NoError(t, err)
	refreshClaims, err := issuer.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)

	renewed, err := issuer.Renew(refreshClaims)
	require.NoError(t, err)

	claims, err := issuer.VerifyAccess(renewed.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "john", claims.Login)
}

func TestRenewIsNotSingleUse(t *testing.T) {
	issuer := newTestIssuer(t)

	pair, err := issuer.Issue(testUser())
	require.NoError(t, err)
	refreshClaims, err := issuer.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)

	// Two renewals from the same refresh token both succeed; rotation does
	// not invalidate the old token.
	first, err := issuer.Renew(refreshClaims)
	require.NoError(t, err)
	second, err := issuer.Renew(refreshClaims)
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(first.AccessToken)
	require.NoError(t, err)
	_, err = issuer.VerifyAccess(second.AccessToken)
	require.NoError(t, err)

	_, err = issuer.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
}

func TestNewIssuerValidation(t *testing.T) {
	_, err := token.NewIssuer("same", "same", time.Minute, time.Hour)
	require.Error(t, err)

	_, err = token.NewIssuer("a", "b", 0, time.Hour)
	require.Error(t, err)

	_, err = token.NewIssuer("a", "b", time.Minute, -time.Hour)
	require.Error(t, err)

	_, err = token.NewIssuer("", "b", time.Minute, time.Hour)
	require.Error(t, err)
}

func TestExpiredAccessStillValidRefresh(t *testing.T) {
	issuer := newTestIssuer(t)

	var pair *token.Pair
	var err error
	withNowTime(t, time.Now().Add(-time.Hour), func() {
		pair, err = issuer.Issue(testUser())
		require.NoError(t, err)
	})

	_, err = issuer.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, apperrors.ErrTokenExpired)

	_, err = issuer.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
}
