package postgres

import (
	"context"

	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/certops/certops/pkg/lifecycle/storage"
)

func (s *_Storage) PutRequest(ctx context.Context, tx storage.Tx, request model.CertificateRequest) error {
	query := `
WITH ins AS (
	INSERT INTO certificate_request (id, version, status, account_id, role_name, cert_name, requester, serial_number, expires_at, ttl_remaining, created_at, updated_at, req)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id) DO UPDATE SET
		version = excluded.version,
		status = excluded.status,
		account_id = excluded.account_id,
		role_name = excluded.role_name,
		cert_name = excluded.cert_name,
		requester = excluded.requester,
		serial_number = excluded.serial_number,
		expires_at = excluded.expires_at,
		ttl_remaining = excluded.ttl_remaining,
		updated_at = excluded.updated_at,
		req = excluded.req
	RETURNING id, version, updated_at, req
)
INSERT INTO certificate_request_history (id, version, created_at, req)
SELECT * FROM ins
`
	_, err := tx.Exec(
		ctx,
		query,
		request.ID,
		request.Version,
		request.Status,
		request.AccountID,
		request.RoleName,
		request.CertName,
		request.Requester,
		request.SerialNumber,
		request.ExpiresAt,
		request.TTLRemaining,
		request.CreatedAt,
		request.UpdatedAt,
		request,
	)
	if err != nil {
		return err
	}
	return nil
}

func (s *_Storage) ListRequests(ctx context.Context, tx storage.Tx, req storage.ListRequestsRequest) (storage.ListRequestsResponse, error) {
	query := `
WITH filtered AS (
	SELECT rec_id, ttl_remaining, "req" FROM "certificate_request"
	WHERE
		(COALESCE(ARRAY_LENGTH($3::TEXT[], 1), 0) = 0 OR id = ANY($3)) AND
		(COALESCE(ARRAY_LENGTH($4::TEXT[], 1), 0) = 0 OR status = ANY($4)) AND
		(COALESCE(ARRAY_LENGTH($5::TEXT[], 1), 0) = 0 OR serial_number = ANY($5)) AND
		(COALESCE(ARRAY_LENGTH($6::TEXT[], 1), 0) = 0 OR account_id = ANY($6)) AND
		(COALESCE(ARRAY_LENGTH($7::TEXT[], 1), 0) = 0 OR role_name = ANY($7)) AND
		(COALESCE(ARRAY_LENGTH($8::TEXT[], 1), 0) = 0 OR cert_name = ANY($8)) AND
		(COALESCE(ARRAY_LENGTH($9::TEXT[], 1), 0) = 0 OR requester = ANY($9)) AND
		($10 = FALSE OR (cert_name <> '' AND ttl_remaining > 0 AND COALESCE(req->>'certificate_pem', '') <> ''))
)
, paged AS (
	SELECT "req" FROM filtered
	ORDER BY (CASE WHEN $11 THEN ttl_remaining END) DESC NULLS LAST, rec_id ASC
	OFFSET $1 LIMIT $2
)
, total AS (
	SELECT COUNT(*) AS total FROM filtered
)
SELECT total, "req" FROM paged FULL JOIN total ON FALSE
`
	rows, err := tx.Query(
		ctx,
		query,
		req.Offset,
		req.Limit,
		req.IDs,
		req.Statuses,
		req.SerialNumbers,
		req.AccountIDs,
		req.RoleNames,
		req.CertNames,
		req.Requesters,
		req.RotationEligible,
		req.SortByTTLDesc,
	)
	if err != nil {
		return storage.ListRequestsResponse{}, err
	}
	defer rows.Close()

	result := storage.ListRequestsResponse{}
	for rows.Next() {
		var total *int64
		var request *model.CertificateRequest
		if err := rows.Scan(&total, &request); err != nil {
			return storage.ListRequestsResponse{}, err
		}
		if total != nil {
			result.Total = *total
		}
		if request != nil {
			result.Requests = append(result.Requests, *request)
		}
	}
	if err := rows.Err(); err != nil {
		return storage.ListRequestsResponse{}, err
	}

	return result, nil
}
