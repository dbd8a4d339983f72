package intake

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/certops/certops/pkg/lifecycle/storage"
	"github.com/certops/certops/pkg/lifecycle/ttl"
	"github.com/certops/certops/pkg/vault"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const defaultIssueTTLHours = 2160

type Controller interface {
	// SubmitRequest validates and records a new certificate request.
	SubmitRequest(ctx context.Context, ts int64, req SubmitRequestRequest) (model.CertificateRequest, error)

	// IssueRequest asks the authority for the certificate of a pending
	// request and stores the material. A failed request can be retried.
	IssueRequest(ctx context.Context, ts int64, requestID string) (model.CertificateRequest, error)

	ListRequests(ctx context.Context, req storage.ListRequestsRequest) (storage.ListRequestsResponse, error)
}

type SubmitRequestRequest struct {
	Requester      string `json:"requester"`       // Who makes the request.
	RequesterEmail string `json:"requester_email"` // Email of the requester.

	AccountID string `json:"account_id"`
	RoleName  string `json:"role_name"`
	CertName  string `json:"cert_name"`

	CommonName   string `json:"common_name"`
	Organization string `json:"organization"`
	Country      string `json:"country"`
	Province     string `json:"province"`
	Locality     string `json:"locality"`

	TTLHours float64 `json:"ttl_hours"` // Requested lifetime, 0 means the default.
}

type _Controller struct {
	requestStorage storage.RequestStorage
	authority      vault.Authority
	secrets        vault.SecretStore
	access         vault.AccessManager
}

func NewController(requestStorage storage.RequestStorage, authority vault.Authority, secrets vault.SecretStore, access vault.AccessManager) *_Controller {
	return &_Controller{
		requestStorage: requestStorage,
		authority:      authority,
		secrets:        secrets,
		access:         access,
	}
}

// OwnerFromEmail derives the secret owner name from the local part of
// an email address. Characters outside [a-z0-9-] are dropped.
func OwnerFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		local = email
	}
	local = strings.ToLower(local)
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, local)
}

func (c *_Controller) SubmitRequest(ctx context.Context, ts int64, req SubmitRequestRequest) (model.CertificateRequest, error) {
	if err := ValidateSubmitRequestRequest(req); err != nil {
		return model.CertificateRequest{}, err
	}

	tx, txCtx, err := c.requestStorage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return model.CertificateRequest{}, err
	}
	defer tx.Rollback(txCtx)

	existing, err := c.requestStorage.ListRequests(txCtx, tx, storage.ListRequestsRequest{
		Limit:      10,
		AccountIDs: []string{req.AccountID},
		RoleNames:  []string{req.RoleName},
		CertNames:  []string{req.CertName},
		Requesters: []string{req.Requester},
	})
	if err != nil {
		return model.CertificateRequest{}, err
	}
	duplicates := lo.Filter(existing.Requests, func(r model.CertificateRequest, _ int) bool {
		return r.Status != model.RequestStatusFailed
	})
	if len(duplicates) > 0 {
		return model.CertificateRequest{}, fmt.Errorf(
			"request for %s/%s/%s by %s already exists with status %s %w",
			req.AccountID, req.RoleName, req.CertName, req.Requester, duplicates[0].Status, model.ErrWrongStatus,
		)
	}

	ttlHours := req.TTLHours
	if ttlHours == 0 {
		ttlHours = defaultIssueTTLHours
	}

	request := model.CertificateRequest{
		ID:                uuid.NewString(),
		Version:           1,
		Status:            model.RequestStatusPending,
		CommonName:        req.CommonName,
		Organization:      req.Organization,
		Country:           req.Country,
		Province:          req.Province,
		Locality:          req.Locality,
		Requester:         req.Requester,
		RequesterEmail:    req.RequesterEmail,
		AccountID:         req.AccountID,
		RoleName:          req.RoleName,
		CertName:          req.CertName,
		TTLRequestedHours: ttlHours,
		CreatedAt:         ts,
		UpdatedAt:         ts,
	}
	request.AppendAudit(ts, fmt.Sprintf("submitted by %s", req.Requester))

	if err := c.requestStorage.PutRequest(txCtx, tx, request); err != nil {
		return model.CertificateRequest{}, err
	}
	if err := tx.Commit(txCtx); err != nil {
		return model.CertificateRequest{}, err
	}

	return request, nil
}

func (c *_Controller) IssueRequest(ctx context.Context, ts int64, requestID string) (model.CertificateRequest, error) {
	if requestID == "" {
		return model.CertificateRequest{}, fmt.Errorf("request id is required%w", model.ErrInvalidParameter)
	}

	request, err := c.getRequest(ctx, requestID)
	if err != nil {
		return model.CertificateRequest{}, err
	}
	if request.Status != model.RequestStatusPending && request.Status != model.RequestStatusFailed {
		return model.CertificateRequest{}, fmt.Errorf("request %s is %s, only pending or failed requests issue %w", requestID, request.Status, model.ErrWrongStatus)
	}

	if !c.authority.EnsureAuthenticated(ctx) {
		return model.CertificateRequest{}, fmt.Errorf("cannot establish authority session%w", model.ErrAuth)
	}

	// Access bindings are repaired on every issuance. A failure here is
	// recorded but does not block the certificate.
	if owner := OwnerFromEmail(request.RequesterEmail); owner != "" {
		if _, err := c.access.EnsureCertReaderPolicy(ctx, owner, request.AccountID, request.RoleName); err != nil {
			logrus.Warnf("failed to ensure reader policy for %s: %v", owner, err)
			request.AppendAudit(ts, fmt.Sprintf("reader policy for %s not ensured: %v", owner, err))
		}
	}

	if err := c.authority.EnsurePKIRole(ctx, request.RoleName); err != nil {
		return c.failRequest(ctx, ts, request, fmt.Sprintf("issuing role not available: %v", err), err)
	}

	result, err := c.authority.Issue(ctx, request.RoleName, vault.IssueRequest{
		CommonName:   request.CommonName,
		Organization: request.Organization,
		Country:      request.Country,
		Province:     request.Province,
		Locality:     request.Locality,
		TTLHours:     request.TTLRequestedHours,
	})
	if err != nil {
		return c.failRequest(ctx, ts, request, fmt.Sprintf("issuance failed: %v", err), err)
	}

	if err := c.secrets.PutSecret(ctx, request.KVPath(), map[string]any{
		"certificate":   result.CertificatePEM,
		"private_key":   result.PrivateKeyPEM,
		"ca_chain":      result.CAChainPEM,
		"serial_number": result.SerialNumber,
		"expires_at":    result.ExpiresAt,
		"cert_name":     request.CertName,
		"account":       request.AccountID,
		"role":          request.RoleName,
	}); err != nil {
		return c.failRequest(ctx, ts, request, fmt.Sprintf("certificate issued but not stored: %v", err), err)
	}

	request.Version += 1
	request.Status = model.RequestStatusIssued
	request.SerialNumber = result.SerialNumber
	request.CertificatePEM = result.CertificatePEM
	request.PrivateKeyPEM = result.PrivateKeyPEM
	request.CAChainPEM = result.CAChainPEM
	request.ExpiresAt = result.ExpiresAt
	request.TTLRemaining = ttl.RemainingHours(result.ExpiresAt, time.Unix(ts, 0))
	request.IssuedAt = ts
	request.UpdatedAt = ts
	request.AppendAudit(ts, fmt.Sprintf("issued, serial %s", result.SerialNumber))

	if err := c.putRequest(ctx, request); err != nil {
		return model.CertificateRequest{}, err
	}

	request.PrivateKeyPEM = "" // Do not return the private key.
	return request, nil
}

func (c *_Controller) ListRequests(ctx context.Context, req storage.ListRequestsRequest) (storage.ListRequestsResponse, error) {
	if err := ValidateListRequestsRequest(req); err != nil {
		return storage.ListRequestsResponse{}, err
	}

	tx, ctx, err := c.requestStorage.CreateTx(ctx)
	if err != nil {
		return storage.ListRequestsResponse{}, err
	}
	defer tx.Rollback(ctx)

	result, err := c.requestStorage.ListRequests(ctx, tx, req)
	if err != nil {
		return storage.ListRequestsResponse{}, err
	}
	for i := range result.Requests {
		result.Requests[i].PrivateKeyPEM = "" // Do not return the private key.
	}
	return result, nil
}

func (c *_Controller) failRequest(ctx context.Context, ts int64, request model.CertificateRequest, note string, cause error) (model.CertificateRequest, error) {
	request.Version += 1
	request.Status = model.RequestStatusFailed
	request.UpdatedAt = ts
	request.AppendAudit(ts, note)

	if err := c.putRequest(ctx, request); err != nil {
		logrus.Errorf("failed to record failure of request %s: %v", request.ID, err)
	}
	return model.CertificateRequest{}, cause
}

func (c *_Controller) putRequest(ctx context.Context, request model.CertificateRequest) error {
	tx, ctx, err := c.requestStorage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := c.requestStorage.PutRequest(ctx, tx, request); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (c *_Controller) getRequest(ctx context.Context, requestID string) (model.CertificateRequest, error) {
	tx, ctx, err := c.requestStorage.CreateTx(ctx)
	if err != nil {
		return model.CertificateRequest{}, err
	}
	defer tx.Rollback(ctx)

	result, err := c.requestStorage.ListRequests(ctx, tx, storage.ListRequestsRequest{
		Limit: 1,
		IDs:   []string{requestID},
	})
	if err != nil {
		return model.CertificateRequest{}, err
	}
	if len(result.Requests) == 0 {
		return model.CertificateRequest{}, fmt.Errorf("request %s not found %w", requestID, model.ErrRequestNotFound)
	}
	return result.Requests[0], nil
}
