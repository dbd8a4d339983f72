package rotation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/certops/certops/pkg/lifecycle/storage"
	"github.com/certops/certops/pkg/lifecycle/ttl"
	"github.com/certops/certops/pkg/vault"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultThresholdDays is the rotation window. Certificates with
	// that many days of lifetime or less are renewed.
	DefaultThresholdDays = 30

	// A renewal asking for less than minRenewalTTLHours is bumped to
	// renewalFloorTTLHours so the new certificate does not come back
	// into the window right away.
	minRenewalTTLHours   = 720
	renewalFloorTTLHours = 2160

	rotationBatchLimit = 1000
)

type Rotator interface {
	// RotateAll renews every tracked certificate inside the rotation
	// window. The run halts when the signing CA cannot cover a renewal.
	RotateAll(ctx context.Context, ts int64) (model.RotationSummary, error)

	// RotateOne renews a single issued certificate regardless of its
	// remaining lifetime.
	RotateOne(ctx context.Context, ts int64, requestID string) (model.CertificateRequest, error)
}

type _Rotator struct {
	requestStorage storage.RequestStorage
	authority      vault.Authority
	secrets        vault.SecretStore
	thresholdDays  int
}

func NewRotator(requestStorage storage.RequestStorage, authority vault.Authority, secrets vault.SecretStore, thresholdDays int) *_Rotator {
	if thresholdDays <= 0 {
		thresholdDays = DefaultThresholdDays
	}
	return &_Rotator{
		requestStorage: requestStorage,
		authority:      authority,
		secrets:        secrets,
		thresholdDays:  thresholdDays,
	}
}

func (r *_Rotator) RotateAll(ctx context.Context, ts int64) (model.RotationSummary, error) {
	summary := model.RotationSummary{}

	if !r.authority.EnsureAuthenticated(ctx) {
		return summary, fmt.Errorf("cannot establish authority session%w", model.ErrAuth)
	}

	candidates, err := r.listCandidates(ctx)
	if err != nil {
		return summary, err
	}

	now := time.Unix(ts, 0)
	for _, request := range candidates {
		summary.TotalChecked++

		// The requested TTL stands in only while the countdown was never
		// initialized. A record past its expiration is not due, the TTL
		// sweep flips it.
		currentTTL := ttl.RemainingHours(request.ExpiresAt, now)
		if request.ExpiresAt == 0 {
			currentTTL = request.TTLRequestedHours
		}
		if !ttl.IsDueForRotation(currentTTL, r.thresholdDays) {
			summary.Skipped++
			continue
		}

		if err := r.rotateRequest(ctx, ts, request, currentTTL); err != nil {
			summary.Errors++
			if errors.Is(err, model.ErrCAExpired) {
				summary.CAExpired = true
				var issErr *vault.IssuanceError
				if errors.As(err, &issErr) {
					summary.CAExpiresAt = issErr.CAExpiresAt
				}
				logrus.Errorf("signing CA cannot cover renewals, halting rotation run: %v", err)
				break
			}
			logrus.Errorf("failed to rotate certificate %s: %v", request.ID, err)
			continue
		}
		summary.Rotated++
	}

	logrus.Infof(
		"rotation run finished: checked=%d rotated=%d skipped=%d errors=%d ca_expired=%v",
		summary.TotalChecked, summary.Rotated, summary.Skipped, summary.Errors, summary.CAExpired,
	)
	return summary, nil
}

func (r *_Rotator) RotateOne(ctx context.Context, ts int64, requestID string) (model.CertificateRequest, error) {
	if !r.authority.EnsureAuthenticated(ctx) {
		return model.CertificateRequest{}, fmt.Errorf("cannot establish authority session%w", model.ErrAuth)
	}

	request, err := r.getRequest(ctx, requestID)
	if err != nil {
		return model.CertificateRequest{}, err
	}
	if request.Status != model.RequestStatusIssued {
		return model.CertificateRequest{}, fmt.Errorf("request %s is %s, only issued certificates rotate %w", requestID, request.Status, model.ErrWrongStatus)
	}
	if request.CertName == "" {
		return model.CertificateRequest{}, fmt.Errorf("request %s has no certificate name %w", requestID, model.ErrInvalidParameter)
	}

	now := time.Unix(ts, 0)
	currentTTL := ttl.RemainingHours(request.ExpiresAt, now)
	if request.ExpiresAt == 0 {
		currentTTL = request.TTLRequestedHours
	}

	if err := r.rotateRequest(ctx, ts, request, currentTTL); err != nil {
		return model.CertificateRequest{}, err
	}

	rotated, err := r.getRequest(ctx, requestID)
	if err != nil {
		return model.CertificateRequest{}, err
	}
	rotated.PrivateKeyPEM = "" // Do not return the private key.
	return rotated, nil
}

func (r *_Rotator) rotateRequest(ctx context.Context, ts int64, request model.CertificateRequest, currentTTL float64) error {
	renewTTL := currentTTL
	forced := false
	if renewTTL < minRenewalTTLHours {
		renewTTL = renewalFloorTTLHours
		forced = true
	}

	result, err := r.authority.Issue(ctx, request.RoleName, vault.IssueRequest{
		CommonName:   request.CommonName,
		Organization: request.Organization,
		Country:      request.Country,
		Province:     request.Province,
		Locality:     request.Locality,
		TTLHours:     renewTTL,
	})
	if err != nil {
		return err
	}

	if forced && request.SerialNumber != "" {
		// The previous entry is cleared only once the reissue succeeded.
		// A failed renewal leaves the old material in place.
		if err := r.secrets.DeleteSecret(ctx, request.KVPath()); err != nil {
			logrus.Warnf("failed to clear secret %s before storing renewal: %v", request.KVPath(), err)
		}
	}

	if err := r.secrets.PutSecret(ctx, request.KVPath(), map[string]any{
		"certificate":   result.CertificatePEM,
		"private_key":   result.PrivateKeyPEM,
		"ca_chain":      result.CAChainPEM,
		"serial_number": result.SerialNumber,
		"expires_at":    result.ExpiresAt,
		"cert_name":     request.CertName,
		"account":       request.AccountID,
		"role":          request.RoleName,
	}); err != nil {
		return fmt.Errorf("store renewed certificate: %w", err)
	}

	now := time.Unix(ts, 0)
	request.Version += 1
	request.Status = model.RequestStatusIssued
	request.SerialNumber = result.SerialNumber
	request.CertificatePEM = result.CertificatePEM
	request.PrivateKeyPEM = result.PrivateKeyPEM
	request.CAChainPEM = result.CAChainPEM
	request.ExpiresAt = result.ExpiresAt
	request.TTLRequestedHours = renewTTL
	request.TTLRemaining = ttl.RemainingHours(result.ExpiresAt, now)
	request.IssuedAt = ts
	request.UpdatedAt = ts
	if forced {
		request.AppendAudit(ts, fmt.Sprintf("rotated with forced ttl bump to %.0fh, serial %s", renewTTL, result.SerialNumber))
	} else {
		request.AppendAudit(ts, fmt.Sprintf("rotated with ttl %.0fh, serial %s", renewTTL, result.SerialNumber))
	}

	tx, txCtx, err := r.requestStorage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return err
	}
	defer tx.Rollback(txCtx)

	if err := r.requestStorage.PutRequest(txCtx, tx, request); err != nil {
		return err
	}
	if err := tx.Commit(txCtx); err != nil {
		return err
	}
	return nil
}

func (r *_Rotator) listCandidates(ctx context.Context) ([]model.CertificateRequest, error) {
	tx, ctx, err := r.requestStorage.CreateTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	result, err := r.requestStorage.ListRequests(ctx, tx, storage.ListRequestsRequest{
		Limit:            rotationBatchLimit,
		Statuses:         []model.RequestStatus{model.RequestStatusIssued},
		RotationEligible: true,
		SortByTTLDesc:    true,
	})
	if err != nil {
		return nil, err
	}
	return result.Requests, nil
}

func (r *_Rotator) getRequest(ctx context.Context, requestID string) (model.CertificateRequest, error) {
	tx, ctx, err := r.requestStorage.CreateTx(ctx)
	if err != nil {
		return model.CertificateRequest{}, err
	}
	defer tx.Rollback(ctx)

	result, err := r.requestStorage.ListRequests(ctx, tx, storage.ListRequestsRequest{
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
