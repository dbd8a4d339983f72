package storage

import (
	"context"
	"database/sql"

	"github.com/certops/certops/pkg/lifecycle/model"
)

type StorageContextKey string

const (
	TRANSACTION StorageContextKey = "transaction"
)

type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (Result, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
}

type Row interface {
	Scan(dest ...any) error
}

type Result interface {
	// RowsAffected returns the number of rows affected by an
	// update, insert, or delete. Not every database or database
	// driver may support this.
	RowsAffected() (int64, error)
}

type CreateTxOption func(*sql.TxOptions)

type TransactionInterface interface {
	CreateTx(ctx context.Context, options ...CreateTxOption) (Tx, context.Context, error)
}

func TxOptionWithWrite(write bool) CreateTxOption {
	return func(option *sql.TxOptions) {
		option.ReadOnly = !write
	}
}

func TxOptionWithIsolationLevel(level sql.IsolationLevel) CreateTxOption {
	return func(option *sql.TxOptions) {
		option.Isolation = level
	}
}

type ListRequestsRequest struct {
	Offset int
	Limit  int

	IDs           []string
	Statuses      []model.RequestStatus
	SerialNumbers []string
	AccountIDs    []string
	RoleNames     []string
	CertNames     []string
	Requesters    []string

	// RotationEligible restricts the result to records that can be
	// renewed: a certificate is present, the cert name is set and the
	// stored countdown is positive.
	RotationEligible bool

	// SortByTTLDesc orders the result by the stored countdown, longest
	// lifetime first. The default order is insertion order.
	SortByTTLDesc bool
}

type ListRequestsResponse struct {
	Total    int64                      `json:"total"`
	Requests []model.CertificateRequest `json:"requests"`
}

type RequestStorage interface {
	TransactionInterface
	PutRequest(ctx context.Context, tx Tx, request model.CertificateRequest) error
	ListRequests(ctx context.Context, tx Tx, req ListRequestsRequest) (ListRequestsResponse, error)
}
