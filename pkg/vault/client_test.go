package vault_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/certops/certops/pkg/vault"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authorityStub is a minimal authority endpoint. Handlers are keyed by
// "METHOD /v1/path".
type authorityStub struct {
	t        *testing.T
	handlers map[string]http.HandlerFunc
	logins   atomic.Int32
	server   *httptest.Server
}

func newAuthorityStub(t *testing.T, policies []string) *authorityStub {
	stub := &authorityStub{t: t, handlers: map[string]http.HandlerFunc{}}

	tokenSeq := atomic.Int32{}
	stub.handlers["POST /v1/auth/userpass/login/alice"] = func(w http.ResponseWriter, r *http.Request) {
		stub.logins.Add(1)
		n := tokenSeq.Add(1)
		writeJSON(w, map[string]any{
			"auth": map[string]any{
				"client_token": tokenName(n),
				"policies":     policies,
			},
		})
	}
	stub.handlers["GET /v1/auth/token/lookup-self"] = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"data": map[string]any{
				"policies": policies,
			},
		})
	}

	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := stub.handlers[r.Method+" "+r.URL.Path]
		if !ok {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotImplemented)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *authorityStub) client() *vault.Client {
	return vault.NewClient(vault.ClientConfig{
		Address:  s.server.URL,
		Username: "alice",
		Password: "secret",
	})
}

func tokenName(n int32) string {
	return map[int32]string{1: "token-1", 2: "token-2"}[n]
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func writeErrors(w http.ResponseWriter, status int, messages ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"errors": messages})
}

func TestEnsureAuthenticatedCachesToken(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	client := stub.client()

	require.True(t, client.EnsureAuthenticated(context.Background()))
	require.True(t, client.EnsureAuthenticated(context.Background()))
	assert.EqualValues(t, 1, stub.logins.Load())
}

func TestEnsureAuthenticatedFailsClosedOnMissingPolicy(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default"})
	client := stub.client()

	require.False(t, client.EnsureAuthenticated(context.Background()))

	// The session was not kept, so the next attempt logs in again.
	require.False(t, client.EnsureAuthenticated(context.Background()))
	assert.EqualValues(t, 2, stub.logins.Load())
}

func TestEnsureAuthenticatedLoginFailure(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["POST /v1/auth/userpass/login/alice"] = func(w http.ResponseWriter, r *http.Request) {
		stub.logins.Add(1)
		writeErrors(w, http.StatusUnauthorized, "invalid username or password")
	}
	client := stub.client()

	require.False(t, client.EnsureAuthenticated(context.Background()))
}

func TestAppRoleLogin(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["POST /v1/auth/approle/login"] = func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "role-id", payload["role_id"])
		assert.Equal(t, "secret-id", payload["secret_id"])
		writeJSON(w, map[string]any{
			"auth": map[string]any{
				"client_token": "token-1",
				"policies":     []string{"default", "cert-storage-policy"},
			},
		})
	}

	client := vault.NewClient(vault.ClientConfig{
		Address:    stub.server.URL,
		AuthMethod: vault.AuthMethodAppRole,
		RoleID:     "role-id",
		SecretID:   "secret-id",
	})
	require.True(t, client.EnsureAuthenticated(context.Background()))
}

func TestRejectedTokenIsRetriedOnce(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})

	attempts := atomic.Int32{}
	stub.handlers["POST /v1/pki/issue/web"] = func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			require.Equal(t, "token-1", r.Header.Get("X-Vault-Token"))
			writeErrors(w, http.StatusForbidden, "permission denied")
			return
		}
		require.Equal(t, "token-2", r.Header.Get("X-Vault-Token"))
		writeJSON(w, map[string]any{
			"data": map[string]any{
				"certificate":   "CERT",
				"private_key":   "KEY",
				"issuing_ca":    "CA",
				"serial_number": "aa:bb",
				"expiration":    1700000000,
			},
		})
	}
	client := stub.client()

	result, err := client.Issue(context.Background(), "web", vault.IssueRequest{CommonName: "svc.example.com", TTLHours: 720})
	require.NoError(t, err)
	assert.Equal(t, "CERT", result.CertificatePEM)
	assert.Equal(t, "aa:bb", result.SerialNumber)
	assert.EqualValues(t, 2, attempts.Load())
	assert.EqualValues(t, 2, stub.logins.Load())
}

func TestRejectedTokenGivesUpAfterRetry(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["POST /v1/pki/issue/web"] = func(w http.ResponseWriter, r *http.Request) {
		writeErrors(w, http.StatusForbidden, "permission denied")
	}
	client := stub.client()

	_, err := client.Issue(context.Background(), "web", vault.IssueRequest{CommonName: "svc.example.com", TTLHours: 720})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrPermission)
	assert.EqualValues(t, 2, stub.logins.Load())
}

func TestTransportErrorIsTransient(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	client := stub.client()
	require.True(t, client.EnsureAuthenticated(context.Background()))

	stub.server.Close()
	err := client.EnsurePKIRole(context.Background(), "web")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrTransient)
}
