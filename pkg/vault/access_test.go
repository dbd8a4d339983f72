package vault_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/certops/certops/pkg/vault"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCertReaderPolicyCreatesMissingPolicy(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["GET /v1/sys/policies/acl/bobsmith-combined-policy"] = func(w http.ResponseWriter, r *http.Request) {
		writeErrors(w, http.StatusNotFound, "")
	}

	var written map[string]string
	stub.handlers["PUT /v1/sys/policies/acl/bobsmith-combined-policy"] = func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&written))
		w.WriteHeader(http.StatusNoContent)
	}

	name, err := stub.client().EnsureCertReaderPolicy(context.Background(), "bobsmith", "alice", "web")
	require.NoError(t, err)
	assert.Equal(t, "bobsmith-combined-policy", name)
	assert.Contains(t, written["policy"], `path "secret/data/certs/alice/web/*"`)
	assert.Contains(t, written["policy"], `path "secret/metadata/certs/alice/web/*"`)
}

func TestEnsureCertReaderPolicyKeepsExistingPolicy(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["GET /v1/sys/policies/acl/bobsmith-combined-policy"] = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": map[string]any{"name": "bobsmith-combined-policy"}})
	}

	name, err := stub.client().EnsureCertReaderPolicy(context.Background(), "bobsmith", "alice", "web")
	require.NoError(t, err)
	assert.Equal(t, "bobsmith-combined-policy", name)
}

func TestEnsureAuthRoleCreatesMissingRole(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["GET /v1/auth/aws/role/app-role"] = func(w http.ResponseWriter, r *http.Request) {
		writeErrors(w, http.StatusNotFound, "")
	}

	var created map[string]any
	stub.handlers["POST /v1/auth/aws/role/app-role"] = func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		w.WriteHeader(http.StatusNoContent)
	}

	err := stub.client().EnsureAuthRole(context.Background(), "app-role", "arn:aws:iam::123456789012:role/app", []string{"bobsmith-combined-policy"})
	require.NoError(t, err)
	assert.Equal(t, "iam", created["auth_type"])
	assert.Equal(t, "arn:aws:iam::123456789012:role/app", created["bound_iam_principal_arn"])
}

func TestEnsureAuthRoleMergesPolicies(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["GET /v1/auth/aws/role/app-role"] = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"data": map[string]any{
				"token_policies": []string{"existing-policy"},
			},
		})
	}

	var updated map[string][]string
	stub.handlers["POST /v1/auth/aws/role/app-role"] = func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
		w.WriteHeader(http.StatusNoContent)
	}

	err := stub.client().EnsureAuthRole(context.Background(), "app-role", "arn:aws:iam::123456789012:role/app", []string{"bobsmith-combined-policy"})
	require.NoError(t, err)
	assert.Equal(t, []string{"existing-policy", "bobsmith-combined-policy"}, updated["token_policies"])
}

func TestEnsureAuthRoleSkipsWriteWhenPoliciesPresent(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["GET /v1/auth/aws/role/app-role"] = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"data": map[string]any{
				"token_policies": []string{"bobsmith-combined-policy"},
			},
		})
	}

	err := stub.client().EnsureAuthRole(context.Background(), "app-role", "arn:aws:iam::123456789012:role/app", []string{"bobsmith-combined-policy"})
	require.NoError(t, err)
}

func TestEnsureTokenRolePolicy(t *testing.T) {
	stub := newAuthorityStub(t, []string{"default", "cert-storage-policy"})
	stub.handlers["GET /v1/auth/approle/role/cert-engine"] = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"data": map[string]any{
				"token_policies": []string{"default"},
			},
		})
	}

	var updated map[string][]string
	stub.handlers["POST /v1/auth/approle/role/cert-engine"] = func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
		w.WriteHeader(http.StatusNoContent)
	}

	err := stub.client().EnsureTokenRolePolicy(context.Background(), "cert-engine", "bobsmith-combined-policy")
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "bobsmith-combined-policy"}, updated["token_policies"])

	// A policy already on the role is not written again.
	stub.handlers["GET /v1/auth/approle/role/cert-engine"] = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"data": map[string]any{
				"token_policies": []string{"default", "bobsmith-combined-policy"},
			},
		})
	}
	delete(stub.handlers, "POST /v1/auth/approle/role/cert-engine")
	require.NoError(t, stub.client().EnsureTokenRolePolicy(context.Background(), "cert-engine", "bobsmith-combined-policy"))
}

func TestCertReaderPolicyName(t *testing.T) {
	assert.Equal(t, "bobsmith-combined-policy", vault.CertReaderPolicyName("bobsmith"))
}
