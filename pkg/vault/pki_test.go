package vault_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/certops/certops/pkg/vault"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTTL(t *testing.T) {
	assert.Equal(t, "2160h", vault.FormatTTL(2160))
	assert.Equal(t, "1h", vault.FormatTTL(1))
	assert.Equal(t, "1800s", vault.FormatTTL(0.5))
	assert.Equal(t, "5400s", vault.FormatTTL(1.5))
}

func TestIssue(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["POST /v1/pki/issue/web"] = func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "svc.example.com", payload["common_name"])
		assert.Equal(t, "720h", payload["ttl"])
		assert.Equal(t, "pem", payload["format"])
		assert.Equal(t, "Example Corp", payload["organization"])
		assert.Equal(t, "US", payload["country"])
		_, hasProvince := payload["province"]
		assert.False(t, hasProvince)

		writeJSON(w, map[string]any{
			"data": map[string]any{
				"certificate":   "CERT",
				"private_key":   "KEY",
				"issuing_ca":    "ISSUING CA",
				"ca_chain":      []string{"INTERMEDIATE", "ROOT"},
				"serial_number": "aa:bb:cc",
				"expiration":    1700000000,
			},
		})
	}

	result, err := stub.client().Issue(context.Background(), "web", vault.IssueRequest{
		CommonName:   "svc.example.com",
		Organization: "Example Corp",
		Country:      "us",
		TTLHours:     720,
	})
	require.NoError(t, err)
	assert.Equal(t, vault.IssueResult{
		CertificatePEM: "CERT",
		PrivateKeyPEM:  "KEY",
		CAChainPEM:     "ISSUING CA",
		SerialNumber:   "aa:bb:cc",
		ExpiresAt:      1700000000,
	}, result)
}

func TestIssueJoinsChainWhenIssuerAbsent(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["POST /v1/pki/issue/web"] = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"data": map[string]any{
				"certificate":   "CERT",
				"private_key":   "KEY",
				"ca_chain":      []string{"INTERMEDIATE", "ROOT"},
				"serial_number": "aa:bb:cc",
				"expiration":    1700000000,
			},
		})
	}

	result, err := stub.client().Issue(context.Background(), "web", vault.IssueRequest{
		CommonName: "svc.example.com",
		TTLHours:   720,
	})
	require.NoError(t, err)
	assert.Equal(t, "INTERMEDIATE\nROOT", result.CAChainPEM)
}

func TestIssueClassifiesCAExpiry(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["POST /v1/pki/issue/web"] = func(w http.ResponseWriter, r *http.Request) {
		writeErrors(w, http.StatusBadRequest,
			"cannot satisfy request, as TTL would result in notAfter of 2026-09-30T00:00:00Z that is beyond the expiration of the CA certificate at 2026-09-01T00:00:00Z")
	}

	_, err := stub.client().Issue(context.Background(), "web", vault.IssueRequest{CommonName: "svc.example.com", TTLHours: 8760})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrCAExpired)

	var issErr *vault.IssuanceError
	require.ErrorAs(t, err, &issErr)
	assert.Equal(t, vault.IssuanceErrorCAExpired, issErr.Kind)
	assert.Equal(t, "2026-09-01T00:00:00Z", issErr.CAExpiresAt)
	assert.Equal(t, "2026-09-30T00:00:00Z", issErr.RequestedExpiresAt)
}

func TestIssueClassifiesPermissionFailure(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["POST /v1/pki/issue/web"] = func(w http.ResponseWriter, r *http.Request) {
		writeErrors(w, http.StatusForbidden, "permission denied")
	}

	_, err := stub.client().Issue(context.Background(), "web", vault.IssueRequest{CommonName: "svc.example.com", TTLHours: 720})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrPermission)

	var issErr *vault.IssuanceError
	require.ErrorAs(t, err, &issErr)
	assert.Equal(t, vault.IssuanceErrorPermission, issErr.Kind)
}

func TestEnsurePKIRoleCreatesMissingRole(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	created := false
	stub.handlers["GET /v1/pki/roles/web"] = func(w http.ResponseWriter, r *http.Request) {
		writeErrors(w, http.StatusNotFound, "")
	}
	stub.handlers["POST /v1/pki/roles/web"] = func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "*", payload["allowed_domains"])
		assert.Equal(t, true, payload["allow_any_name"])
		assert.Equal(t, "2160h", payload["ttl"])
		assert.Equal(t, "8760h", payload["max_ttl"])
		created = true
		w.WriteHeader(http.StatusNoContent)
	}

	require.NoError(t, stub.client().EnsurePKIRole(context.Background(), "web"))
	assert.True(t, created)
}

func TestEnsurePKIRoleKeepsExistingRole(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["GET /v1/pki/roles/web"] = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": map[string]any{"ttl": "2160h"}})
	}

	require.NoError(t, stub.client().EnsurePKIRole(context.Background(), "web"))
}

func TestRevoke(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["POST /v1/pki/revoke"] = func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "aa:bb:cc", payload["serial_number"])
		_, hasCert := payload["certificate"]
		assert.False(t, hasCert)
		writeJSON(w, map[string]any{"data": map[string]any{"revocation_time": 1700000000}})
	}

	result, err := stub.client().Revoke(context.Background(), vault.RevokeRequest{
		SerialNumber:   "aa:bb:cc",
		CertificatePEM: "CERT",
	})
	require.NoError(t, err)
	assert.Equal(t, vault.RevokeResult{RevokedAt: 1700000000}, result)
}

func TestRevokeAlreadyRevokedIsSuccess(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["POST /v1/pki/revoke"] = func(w http.ResponseWriter, r *http.Request) {
		writeErrors(w, http.StatusBadRequest, "certificate with serial aa:bb:cc is already revoked")
	}

	result, err := stub.client().Revoke(context.Background(), vault.RevokeRequest{SerialNumber: "aa:bb:cc"})
	require.NoError(t, err)
	assert.True(t, result.AlreadyRevoked)
}

func TestRevokeWithoutMaterial(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})

	_, err := stub.client().Revoke(context.Background(), vault.RevokeRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidParameter))
}

func TestListIssuers(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["LIST /v1/pki/issuers"] = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"data": map[string]any{
				"keys": []string{"issuer-1", "issuer-2"},
				"key_info": map[string]any{
					"issuer-1": map[string]any{"issuer_name": "root-2024"},
					"issuer-2": map[string]any{"issuer_name": "root-2020"},
				},
			},
		})
	}
	stub.handlers["GET /v1/pki/config/issuers"] = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": map[string]any{"default": "issuer-1"}})
	}

	issuers, err := stub.client().ListIssuers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []vault.IssuerInfo{
		{ID: "issuer-1", Name: "root-2024", IsDefault: true},
		{ID: "issuer-2", Name: "root-2020"},
	}, issuers)
}

func TestListIssuersEmptyMount(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["LIST /v1/pki/issuers"] = func(w http.ResponseWriter, r *http.Request) {
		writeErrors(w, http.StatusNotFound, "")
	}

	issuers, err := stub.client().ListIssuers(context.Background())
	require.NoError(t, err)
	assert.Nil(t, issuers)
}
