package vault

import "context"

// Authority is the PKI side of the certificate authority: issuing,
// revoking and the issuing role/issuer inventory.
type Authority interface {
	EnsureAuthenticated(ctx context.Context) bool
	Issue(ctx context.Context, roleName string, req IssueRequest) (IssueResult, error)
	Revoke(ctx context.Context, req RevokeRequest) (RevokeResult, error)
	EnsurePKIRole(ctx context.Context, roleName string) error
	ListIssuers(ctx context.Context) ([]IssuerInfo, error)
	DeleteIssuer(ctx context.Context, issuerRef string) error
}

// SecretStore is the KV-v2 side where issued certificate material is kept.
type SecretStore interface {
	PutSecret(ctx context.Context, path string, data map[string]any) error
	DeleteSecret(ctx context.Context, path string) error
	TagRevoked(ctx context.Context, path string) error
}

// AccessManager maintains the ACL policies and auth-backend role
// bindings that let certificate owners read their material.
type AccessManager interface {
	EnsurePolicy(ctx context.Context, name string, document string) error
	EnsureCertReaderPolicy(ctx context.Context, username, accountID, roleName string) (string, error)
	EnsureAuthRole(ctx context.Context, roleName, principalARN string, policies []string) error
	EnsureTokenRolePolicy(ctx context.Context, roleName, policy string) error
}

type IssueRequest struct {
	CommonName   string
	Organization string
	Country      string
	Province     string
	Locality     string
	AltNames     []string
	TTLHours     float64
}

type IssueResult struct {
	CertificatePEM string
	PrivateKeyPEM  string
	CAChainPEM     string
	SerialNumber   string
	ExpiresAt      int64 // Unix Time (in second) reported by the authority.
}

type RevokeRequest struct {
	SerialNumber   string // Preferred revocation key.
	CertificatePEM string // Fallback when no serial number is known.
}

type RevokeResult struct {
	RevokedAt      int64 // Unix Time (in second) of the revocation, 0 when already revoked.
	AlreadyRevoked bool
}

type IssuerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}
