package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/akulov/reservd/server"
	"github.com/akulov/reservd/token"
	"github.com/akulov/reservd/users"
)

// issueExpiredPair issues a token pair backdated by age, so the access token
// (and, for a large enough age, the refresh token too) is already expired.
func issueExpiredPair(t *testing.T, issuer *token.Issuer, user *users.User, age time.Duration) *token.Pair {
	t.Helper()

	restore := token.NowTimeFunc
	token.NowTimeFunc = func() time.Time { return time.Now().Add(-age) }
	defer func() { token.NowTimeFunc = restore }()

	pair, err := issuer.Issue(user)
	require.NoError(t, err)
	return pair
}

func TestGuardRejectsMissingToken(t *testing.T) {
	f := setupTestFixture(t)

	// Scenario B: no Authorization header
	rec := f.do(httptest.NewRequest(http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Present but not a bearer scheme
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec = f.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuardAcceptsValidToken(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t)

	pair, err := f.issuer.Issue(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []*users.User
	decodeBody(t, rec, &list)
	require.Len(t, list, 1)
	require.Equal(t, testLogin, list[0].Login)

	// No renewal happened, so nothing was rotated or surfaced
	require.Empty(t, rec.Header().Get(server.HeaderNewAccessToken))
	require.Nil(t, cookieByName(rec.Result().Cookies(), testCookieName))
}

func TestGuardRejectsTamperedToken(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t)

	pair, err := f.issuer.Issue(user)
	require.NoError(t, err)

	// Tampered token is terminal even with a perfectly valid refresh cookie:
	// invalid must never be treated as "maybe expired".
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken+"x")
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: pair.RefreshToken})
	rec := f.do(req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, rec.Header().Get(server.HeaderNewAccessToken))
}

func TestGuardSilentRenewal(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t)

	// Scenario C: expired access token, valid refresh cookie
	pair := issueExpiredPair(t, f.issuer, user, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: pair.RefreshToken})
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Fresh access token surfaced for the client to adopt
	newAccess := rec.Header().Get(server.HeaderNewAccessToken)
	require.NotEmpty(t, newAccess)
	claims, err := f.issuer.VerifyAccess(newAccess)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)

	// Refresh cookie rotated alongside
	rotated := cookieByName(rec.Result().Cookies(), testCookieName)
	require.NotNil(t, rotated)
	require.NotEqual(t, pair.RefreshToken, rotated.Value)
	require.True(t, rotated.HttpOnly)
	_, err = f.issuer.VerifyRefresh(rotated.Value)
	require.NoError(t, err)
}

func TestGuardExpiredAccessNoCookie(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t)

	pair := issueExpiredPair(t, f.issuer, user, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := f.do(req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuardExpiredAccessInvalidRefresh(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t)

	pair := issueExpiredPair(t, f.issuer, user, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "garbage"})
	rec := f.do(req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGuardExpiredAccessExpiredRefresh(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t)

	// Backdated past the refresh TTL, so both tokens are expired
	pair := issueExpiredPair(t, f.issuer, user, 8*24*time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: pair.RefreshToken})
	rec := f.do(req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var resp struct {
		Message string `json:"message"`
	}
	decodeBody(t, rec, &resp)
	require.Equal(t, "refresh token expired, please log in again", resp.Message)
	require.Nil(t, cookieByName(rec.Result().Cookies(), testCookieName))
}

func TestGuardRenewalIsRepeatable(t *testing.T) {
	f := setupTestFixture(t)
	user := f.createTestUser(t)

	pair := issueExpiredPair(t, f.issuer, user, time.Hour)

	// The same expired-access/valid-refresh combination renews twice; no
	// single-use bookkeeping exists to reject the replay.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: pair.RefreshToken})
		rec := f.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotEmpty(t, rec.Header().Get(server.HeaderNewAccessToken))
	}
}
