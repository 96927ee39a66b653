package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"fundchain/crypto"
)

func signerEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signer, ok := SignerFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(crypto.FormatIdentity(signer)))
	})
}

func TestAuthenticatorAcceptsSignedSubject(t *testing.T) {
	auth := NewAuthenticator(AuthConfig{HMACSecret: "secret", Issuer: "fundchain"}, nil)
	signer := [20]byte{9}
	token, err := IssueToken("secret", "fundchain", signer, time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/platforms", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	auth.Middleware()(signerEcho(t)).ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, crypto.FormatIdentity(signer), res.Body.String())
}

func TestAuthenticatorRejects(t *testing.T) {
	auth := NewAuthenticator(AuthConfig{HMACSecret: "secret", Issuer: "fundchain"}, nil)
	now := time.Now()
	wrongIssuer, err := IssueToken("secret", "elsewhere", [20]byte{1}, time.Hour, now)
	require.NoError(t, err)
	expired, err := IssueToken("secret", "fundchain", [20]byte{1}, time.Minute, now.Add(-time.Hour))
	require.NoError(t, err)
	wrongKey, err := IssueToken("other", "fundchain", [20]byte{1}, time.Hour, now)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"wrong issuer": "Bearer " + wrongIssuer,
		"expired":      "Bearer " + expired,
		"wrong key":    "Bearer " + wrongKey,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/platforms", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			res := httptest.NewRecorder()
			auth.Middleware()(signerEcho(t)).ServeHTTP(res, req)
			require.Equal(t, http.StatusUnauthorized, res.Code)
		})
	}
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewRateLimiter(map[string]RateLimit{"calls": {RatePerSecond: 1, Burst: 1}}, clock, nil)
	handler := limiter.Middleware("calls")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
		req.RemoteAddr = remote
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		return res.Code
	}
	require.Equal(t, http.StatusOK, serve("10.0.0.1:1000"))
	require.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1:1001"))
	require.Equal(t, http.StatusOK, serve("10.0.0.2:1000"), "clients are limited independently")

	clock.Advance(time.Second)
	require.Equal(t, http.StatusOK, serve("10.0.0.1:1000"))
}

func TestRateLimiterPrunesIdleVisitors(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := NewRateLimiter(map[string]RateLimit{"calls": {RatePerSecond: 1, Burst: 1}}, clock, nil)
	require.True(t, limiter.allow("a", limiter.limits["calls"]))
	require.Len(t, limiter.visitors, 1)

	clock.Advance(visitorIdleTTL + time.Second)
	require.True(t, limiter.allow("b", limiter.limits["calls"]))
	require.Len(t, limiter.visitors, 1)
}

func TestRateLimiterIgnoresUnknownKeys(t *testing.T) {
	limiter := NewRateLimiter(nil, nil, nil)
	handler := limiter.Middleware("queries")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for i := 0; i < 5; i++ {
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, res.Code)
	}
}
