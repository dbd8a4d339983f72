package sweep

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/certops/certops/pkg/lifecycle/storage"
	"github.com/certops/certops/pkg/lifecycle/ttl"
	"github.com/sirupsen/logrus"
)

// Countdown changes smaller than this are not written back.
const writeEpsilonHours = 0.001

const sweepBatchLimit = 1000

type Sweeper interface {
	// CheckAll recomputes the countdown of every issued certificate,
	// flips the expired ones and reports records without an expiration
	// timestamp.
	CheckAll(ctx context.Context, ts int64) (model.SweepSummary, error)
}

type _Sweeper struct {
	requestStorage storage.RequestStorage
}

func NewSweeper(requestStorage storage.RequestStorage) *_Sweeper {
	return &_Sweeper{
		requestStorage: requestStorage,
	}
}

func (s *_Sweeper) CheckAll(ctx context.Context, ts int64) (model.SweepSummary, error) {
	summary := model.SweepSummary{}

	requests, err := s.listIssued(ctx)
	if err != nil {
		return summary, err
	}

	now := time.Unix(ts, 0)
	for _, request := range requests {
		summary.TotalChecked++

		if request.ExpiresAt <= 0 {
			// Reported but left untouched. Someone has to find out
			// where the expiration went.
			summary.NoExpiration++
			logrus.Warnf("certificate request %s (%s) has no expiration timestamp", request.ID, request.CertName)
			continue
		}

		remaining := ttl.RemainingHours(request.ExpiresAt, now)
		if remaining <= 0 {
			request.Version += 1
			request.Status = model.RequestStatusExpired
			request.TTLRemaining = 0
			request.UpdatedAt = ts
			request.AppendAudit(ts, "certificate expired")
			if err := s.putRequest(ctx, request); err != nil {
				summary.Errors++
				logrus.Errorf("failed to mark request %s expired: %v", request.ID, err)
				continue
			}
			summary.Expired++
			summary.Updated++
			continue
		}

		summary.Valid++
		if math.Abs(remaining-request.TTLRemaining) <= writeEpsilonHours {
			continue
		}

		request.Version += 1
		request.TTLRemaining = remaining
		request.UpdatedAt = ts
		if err := s.putRequest(ctx, request); err != nil {
			summary.Errors++
			logrus.Errorf("failed to update countdown of request %s: %v", request.ID, err)
			continue
		}
		summary.Updated++
	}

	logrus.Infof(
		"ttl sweep finished: checked=%d valid=%d expired=%d updated=%d no_expiration=%d errors=%d",
		summary.TotalChecked, summary.Valid, summary.Expired, summary.Updated, summary.NoExpiration, summary.Errors,
	)
	return summary, nil
}

func (s *_Sweeper) listIssued(ctx context.Context) ([]model.CertificateRequest, error) {
	tx, ctx, err := s.requestStorage.CreateTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	result, err := s.requestStorage.ListRequests(ctx, tx, storage.ListRequestsRequest{
		Limit:    sweepBatchLimit,
		Statuses: []model.RequestStatus{model.RequestStatusIssued},
	})
	if err != nil {
		return nil, fmt.Errorf("list issued requests: %w", err)
	}
	return result.Requests, nil
}

func (s *_Sweeper) putRequest(ctx context.Context, request model.CertificateRequest) error {
	tx, ctx, err := s.requestStorage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := s.requestStorage.PutRequest(ctx, tx, request); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
