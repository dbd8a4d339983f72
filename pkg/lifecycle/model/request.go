package model

import "fmt"

type RequestStatus string

const (
	RequestStatusPending RequestStatus = "pending"
	RequestStatusIssued  RequestStatus = "issued"
	RequestStatusExpired RequestStatus = "expired"
	RequestStatusRevoked RequestStatus = "revoked"
	RequestStatusFailed  RequestStatus = "failed"
)

type AuditNote struct {
	At   int64  `json:"at"`   // Unix Time (in second) when the note was recorded.
	Note string `json:"note"` // Human readable description of what happened.
}

// CertificateRequest tracks one certificate from submission through
// issuance, rotation and revocation or expiry.
type CertificateRequest struct {
	ID      string        `json:"id"`      // Unique ID of the request.
	Version int64         `json:"version"` // Version of the request record.
	Status  RequestStatus `json:"status"`  // Status of the request.

	// Subject of the certificate.
	CommonName   string `json:"common_name"`
	Organization string `json:"organization"`
	Country      string `json:"country"`
	Province     string `json:"province"`
	Locality     string `json:"locality"`

	Requester      string `json:"requester"`       // Who submitted the request.
	RequesterEmail string `json:"requester_email"` // Email of the requester. The local part names the secret owner.

	AccountID string `json:"account_id"` // Account the certificate belongs to.
	RoleName  string `json:"role_name"`  // Issuing role at the authority.
	CertName  string `json:"cert_name"`  // Name of the certificate within the account.

	SerialNumber string `json:"serial_number"` // Serial number assigned by the authority.
	ExpiresAt    int64  `json:"expires_at"`    // Unix Time (in second) when the certificate expires. 0 means unknown.

	// TTLRequestedHours is the TTL asked of the authority on the last
	// issuance. It is a cache, not the truth. TTLRemaining recomputed
	// from ExpiresAt is authoritative; TTLRequestedHours is only used
	// when the countdown was never initialized and as the base for
	// renewal TTL bumping.
	TTLRequestedHours float64 `json:"ttl_requested_hours"`
	TTLRemaining      float64 `json:"ttl_remaining"` // Remaining lifetime in hours at the last sweep.

	CertificatePEM string `json:"certificate_pem"` // PEM encoded leaf certificate.
	PrivateKeyPEM  string `json:"private_key_pem"` // PEM encoded private key.
	CAChainPEM     string `json:"ca_chain_pem"`    // PEM encoded CA chain.

	AuditNotes []AuditNote `json:"audit_notes"`

	CreatedAt int64 `json:"created_at"` // Unix Time (in second) when the request was created.
	UpdatedAt int64 `json:"updated_at"` // Unix Time (in second) when the request was last modified.
	RevokedAt int64 `json:"revoked_at"` // Unix Time (in second) when the certificate was revoked.
	IssuedAt  int64 `json:"issued_at"`  // Unix Time (in second) when the certificate was last issued.
}

// KVPath is the location of the certificate material in the secret store.
func (r *CertificateRequest) KVPath() string {
	return fmt.Sprintf("certs/%s/%s/%s", r.AccountID, r.RoleName, r.CertName)
}

func (r *CertificateRequest) AppendAudit(ts int64, note string) {
	r.AuditNotes = append(r.AuditNotes, AuditNote{At: ts, Note: note})
}

// RotationSummary reports one batch rotation run.
type RotationSummary struct {
	TotalChecked int    `json:"total_checked"`
	Rotated      int    `json:"rotated"`
	Skipped      int    `json:"skipped"`
	Errors       int    `json:"errors"`
	CAExpired    bool   `json:"ca_expired"`
	CAExpiresAt  string `json:"ca_expires_at,omitempty"`
}

// SweepSummary reports one TTL sweep run.
type SweepSummary struct {
	TotalChecked int `json:"total_checked"`
	Valid        int `json:"valid"`
	Expired      int `json:"expired"`
	Updated      int `json:"updated"`
	NoExpiration int `json:"no_expiration"`
	Errors       int `json:"errors"`
}
