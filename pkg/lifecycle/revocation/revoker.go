package revocation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/certops/certops/pkg/lifecycle/storage"
	"github.com/certops/certops/pkg/vault"
	"github.com/sirupsen/logrus"
)

type Revoker interface {
	// RevokeByRequestID revokes the certificate tracked by the request.
	// Revoking an already revoked request is a no-op success.
	RevokeByRequestID(ctx context.Context, ts int64, requestID, requester string) (model.CertificateRequest, error)

	// RevokeBySerial locates the tracked request by certificate serial
	// number and revokes it.
	RevokeBySerial(ctx context.Context, ts int64, serialNumber, requester string) (model.CertificateRequest, error)
}

type _Revoker struct {
	requestStorage storage.RequestStorage
	authority      vault.Authority
	secrets        vault.SecretStore
}

func NewRevoker(requestStorage storage.RequestStorage, authority vault.Authority, secrets vault.SecretStore) *_Revoker {
	return &_Revoker{
		requestStorage: requestStorage,
		authority:      authority,
		secrets:        secrets,
	}
}

func (r *_Revoker) RevokeByRequestID(ctx context.Context, ts int64, requestID, requester string) (model.CertificateRequest, error) {
	if err := ValidateRevokeByRequestIDRequest(requestID, requester); err != nil {
		return model.CertificateRequest{}, err
	}

	request, err := r.getRequest(ctx, storage.ListRequestsRequest{Limit: 1, IDs: []string{requestID}})
	if err != nil {
		return model.CertificateRequest{}, err
	}
	return r.revoke(ctx, ts, request, requester)
}

func (r *_Revoker) RevokeBySerial(ctx context.Context, ts int64, serialNumber, requester string) (model.CertificateRequest, error) {
	if err := ValidateRevokeBySerialRequest(serialNumber, requester); err != nil {
		return model.CertificateRequest{}, err
	}

	request, err := r.getRequest(ctx, storage.ListRequestsRequest{Limit: 1, SerialNumbers: []string{serialNumber}})
	if err != nil {
		return model.CertificateRequest{}, err
	}
	return r.revoke(ctx, ts, request, requester)
}

func (r *_Revoker) revoke(ctx context.Context, ts int64, request model.CertificateRequest, requester string) (model.CertificateRequest, error) {
	if request.Status == model.RequestStatusRevoked {
		request.PrivateKeyPEM = "" // Do not return the private key.
		return request, nil
	}
	if request.SerialNumber == "" && request.CertificatePEM == "" {
		return model.CertificateRequest{}, fmt.Errorf("request %s carries no revocable certificate %w", request.ID, model.ErrWrongStatus)
	}

	if !r.authority.EnsureAuthenticated(ctx) {
		return model.CertificateRequest{}, fmt.Errorf("cannot establish authority session%w", model.ErrAuth)
	}

	result, err := r.authority.Revoke(ctx, vault.RevokeRequest{
		SerialNumber:   request.SerialNumber,
		CertificatePEM: request.CertificatePEM,
	})
	if err != nil {
		return model.CertificateRequest{}, err
	}

	// Tagging the stored secret is best effort. The revocation itself
	// already happened at the authority.
	if err := r.secrets.TagRevoked(ctx, request.KVPath()); err != nil {
		logrus.Warnf("failed to tag secret %s as revoked: %v", request.KVPath(), err)
	}

	request.Version += 1
	request.Status = model.RequestStatusRevoked
	request.RevokedAt = ts
	request.UpdatedAt = ts
	request.TTLRemaining = 0
	if result.AlreadyRevoked {
		request.AppendAudit(ts, fmt.Sprintf("revocation by %s: authority reported certificate already revoked", requester))
	} else {
		request.AppendAudit(ts, fmt.Sprintf("revoked by %s", requester))
	}

	tx, txCtx, err := r.requestStorage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return model.CertificateRequest{}, err
	}
	defer tx.Rollback(txCtx)

	if err := r.requestStorage.PutRequest(txCtx, tx, request); err != nil {
		return model.CertificateRequest{}, err
	}
	if err := tx.Commit(txCtx); err != nil {
		return model.CertificateRequest{}, err
	}

	request.PrivateKeyPEM = "" // Do not return the private key.
	return request, nil
}

func (r *_Revoker) getRequest(ctx context.Context, req storage.ListRequestsRequest) (model.CertificateRequest, error) {
	tx, ctx, err := r.requestStorage.CreateTx(ctx)
	if err != nil {
		return model.CertificateRequest{}, err
	}
	defer tx.Rollback(ctx)

	result, err := r.requestStorage.ListRequests(ctx, tx, req)
	if err != nil {
		return model.CertificateRequest{}, err
	}
	if len(result.Requests) == 0 {
		return model.CertificateRequest{}, fmt.Errorf("certificate request not found %w", model.ErrRequestNotFound)
	}
	return result.Requests[0], nil
}
