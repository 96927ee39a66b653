package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fundchain/crypto"
	"fundchain/gateway/middleware"
	"fundchain/native/fundraise"
)

func TestKeygenPrintsIdentity(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{keygenCommand}, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	addr := strings.TrimPrefix(lines[0], "address: ")
	_, err := crypto.ParseIdentity(addr)
	require.NoError(t, err)
}

func TestTokenIsAcceptedByGateway(t *testing.T) {
	t.Setenv(defaultSecretEnv, "cli-secret")
	signer := [20]byte{7}
	var out bytes.Buffer
	require.NoError(t, runToken([]string{"--subject", crypto.FormatIdentity(signer)}, &out, time.Now()))

	auth := middleware.NewAuthenticator(middleware.AuthConfig{HMACSecret: "cli-secret", Issuer: "fundchain"}, nil)
	var got [20]byte
	handler := auth.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = middleware.SignerFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/platforms", nil)
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(out.String()))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, signer, got)
}

func TestTokenRequiresSubject(t *testing.T) {
	t.Setenv(defaultSecretEnv, "cli-secret")
	require.Error(t, runToken(nil, &bytes.Buffer{}, time.Now()))
}

func TestAddressesDerivesRecords(t *testing.T) {
	owner := [20]byte{1}
	var out bytes.Buffer
	require.NoError(t, runAddresses([]string{"--authority", crypto.FormatIdentity(owner), "--slots", "2"}, &out))
	text := out.String()
	platform := fundraise.PlatformAddress(owner)
	require.Contains(t, text, "platform: "+crypto.FormatIdentity(platform))
	require.Contains(t, text, "contributor 1: "+crypto.FormatIdentity(fundraise.ContributorAddress(platform, 1)))
}

func TestUnknownCommand(t *testing.T) {
	require.ErrorIs(t, run([]string{"bogus"}, &bytes.Buffer{}), errUsage)
}
