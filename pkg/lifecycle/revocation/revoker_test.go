package revocation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/certops/certops/pkg/lifecycle/revocation"
	"github.com/certops/certops/pkg/lifecycle/storage"
	"github.com/certops/certops/pkg/vault"
	mock_storage "github.com/certops/certops/test/mock/lifecycle/storage"
	mock_vault "github.com/certops/certops/test/mock/vault"
	"github.com/stretchr/testify/suite"
)

type RevokerTestSuite struct {
	suite.Suite

	ctrl      *gomock.Controller
	ctx       context.Context
	storage   *mock_storage.MockRequestStorage
	tx        *mock_storage.MockTx
	authority *mock_vault.MockAuthority
	secrets   *mock_vault.MockSecretStore
	revoker   revocation.Revoker
}

func TestRevokerTestSuite(t *testing.T) {
	suite.Run(t, new(RevokerTestSuite))
}

func (s *RevokerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.storage = mock_storage.NewMockRequestStorage(s.ctrl)
	s.tx = mock_storage.NewMockTx(s.ctrl)
	s.authority = mock_vault.NewMockAuthority(s.ctrl)
	s.secrets = mock_vault.NewMockSecretStore(s.ctrl)
	s.revoker = revocation.NewRevoker(s.storage, s.authority, s.secrets)
}

func (s *RevokerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func revocableRequest() model.CertificateRequest {
	return model.CertificateRequest{
		ID:             "req_1",
		Version:        2,
		Status:         model.RequestStatusIssued,
		CommonName:     "svc.example.com",
		AccountID:      "alice",
		RoleName:       "web",
		CertName:       "frontend",
		SerialNumber:   "aa:bb:cc",
		CertificatePEM: "CERT",
		PrivateKeyPEM:  "KEY",
	}
}

func (s *RevokerTestSuite) TestRevokeByRequestID() {
	ts := int64(1700000000)
	request := revocableRequest()

	updated := request
	updated.Version = 3
	updated.Status = model.RequestStatusRevoked
	updated.RevokedAt = ts
	updated.UpdatedAt = ts
	updated.TTLRemaining = 0
	updated.AuditNotes = []model.AuditNote{{At: ts, Note: "revoked by operator"}}

	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(0)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().ListRequests(gomock.Any(), s.tx, storage.ListRequestsRequest{
			Limit: 1,
			IDs:   []string{"req_1"},
		}).Return(storage.ListRequestsResponse{Total: 1, Requests: []model.CertificateRequest{request}}, nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
		s.authority.EXPECT().EnsureAuthenticated(gomock.Any()).Return(true),
		// The serial number wins over the PEM when both are present.
		s.authority.EXPECT().Revoke(gomock.Any(), vault.RevokeRequest{
			SerialNumber:   "aa:bb:cc",
			CertificatePEM: "CERT",
		}).Return(vault.RevokeResult{RevokedAt: ts}, nil),
		s.secrets.EXPECT().TagRevoked(gomock.Any(), "certs/alice/web/frontend").Return(nil),
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(2)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().PutRequest(gomock.Any(), s.tx, updated).Return(nil),
		s.tx.EXPECT().Commit(gomock.Any()).Return(nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	revoked, err := s.revoker.RevokeByRequestID(s.ctx, ts, "req_1", "operator")
	s.Require().NoError(err)

	expected := updated
	expected.PrivateKeyPEM = ""
	s.Equal(expected, revoked)
}

func (s *RevokerTestSuite) TestRevokeBySerial() {
	ts := int64(1700000000)
	request := revocableRequest()

	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(0)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().ListRequests(gomock.Any(), s.tx, storage.ListRequestsRequest{
			Limit:         1,
			SerialNumbers: []string{"aa:bb:cc"},
		}).Return(storage.ListRequestsResponse{Total: 1, Requests: []model.CertificateRequest{request}}, nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
		s.authority.EXPECT().EnsureAuthenticated(gomock.Any()).Return(true),
		s.authority.EXPECT().Revoke(gomock.Any(), gomock.Any()).Return(vault.RevokeResult{RevokedAt: ts}, nil),
		s.secrets.EXPECT().TagRevoked(gomock.Any(), gomock.Any()).Return(nil),
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(2)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().PutRequest(gomock.Any(), s.tx, gomock.Any()).Return(nil),
		s.tx.EXPECT().Commit(gomock.Any()).Return(nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	revoked, err := s.revoker.RevokeBySerial(s.ctx, ts, "aa:bb:cc", "operator")
	s.Require().NoError(err)
	s.Equal(model.RequestStatusRevoked, revoked.Status)
	s.Empty(revoked.PrivateKeyPEM)
}

func (s *RevokerTestSuite) TestRevokeAlreadyRevokedRecord() {
	request := revocableRequest()
	request.Status = model.RequestStatusRevoked
	request.RevokedAt = 1690000000

	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(0)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().ListRequests(gomock.Any(), s.tx, gomock.Any()).
			Return(storage.ListRequestsResponse{Total: 1, Requests: []model.CertificateRequest{request}}, nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	revoked, err := s.revoker.RevokeByRequestID(s.ctx, 1700000000, "req_1", "operator")
	s.Require().NoError(err)

	expected := request
	expected.PrivateKeyPEM = ""
	s.Equal(expected, revoked)
}

func (s *RevokerTestSuite) TestRevokeWhenAuthorityReportsAlreadyRevoked() {
	ts := int64(1700000000)
	request := revocableRequest()

	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(0)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().ListRequests(gomock.Any(), s.tx, gomock.Any()).
			Return(storage.ListRequestsResponse{Total: 1, Requests: []model.CertificateRequest{request}}, nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
		s.authority.EXPECT().EnsureAuthenticated(gomock.Any()).Return(true),
		s.authority.EXPECT().Revoke(gomock.Any(), gomock.Any()).Return(vault.RevokeResult{AlreadyRevoked: true}, nil),
		s.secrets.EXPECT().TagRevoked(gomock.Any(), gomock.Any()).Return(nil),
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(2)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().PutRequest(gomock.Any(), s.tx, gomock.Any()).Return(nil),
		s.tx.EXPECT().Commit(gomock.Any()).Return(nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	revoked, err := s.revoker.RevokeByRequestID(s.ctx, ts, "req_1", "operator")
	s.Require().NoError(err)
	s.Equal(model.RequestStatusRevoked, revoked.Status)
	s.Contains(revoked.AuditNotes[len(revoked.AuditNotes)-1].Note, "already revoked")
}

func (s *RevokerTestSuite) TestRevokeSurvivesTagFailure() {
	ts := int64(1700000000)
	request := revocableRequest()

	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(0)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().ListRequests(gomock.Any(), s.tx, gomock.Any()).
			Return(storage.ListRequestsResponse{Total: 1, Requests: []model.CertificateRequest{request}}, nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
		s.authority.EXPECT().EnsureAuthenticated(gomock.Any()).Return(true),
		s.authority.EXPECT().Revoke(gomock.Any(), gomock.Any()).Return(vault.RevokeResult{RevokedAt: ts}, nil),
		s.secrets.EXPECT().TagRevoked(gomock.Any(), gomock.Any()).Return(errors.New("metadata endpoint unavailable")),
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(2)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().PutRequest(gomock.Any(), s.tx, gomock.Any()).Return(nil),
		s.tx.EXPECT().Commit(gomock.Any()).Return(nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	revoked, err := s.revoker.RevokeByRequestID(s.ctx, ts, "req_1", "operator")
	s.Require().NoError(err)
	s.Equal(model.RequestStatusRevoked, revoked.Status)
}

func (s *RevokerTestSuite) TestRevokeWithoutCertificateMaterial() {
	request := revocableRequest()
	request.SerialNumber = ""
	request.CertificatePEM = ""
	request.Status = model.RequestStatusPending

	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(0)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().ListRequests(gomock.Any(), s.tx, gomock.Any()).
			Return(storage.ListRequestsResponse{Total: 1, Requests: []model.CertificateRequest{request}}, nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	_, err := s.revoker.RevokeByRequestID(s.ctx, 1700000000, "req_1", "operator")
	s.Require().ErrorIs(err, model.ErrWrongStatus)
}

func (s *RevokerTestSuite) TestRevokeValidation() {
	_, err := s.revoker.RevokeByRequestID(s.ctx, 1700000000, "", "operator")
	s.Require().ErrorIs(err, model.ErrInvalidParameter)

	_, err = s.revoker.RevokeBySerial(s.ctx, 1700000000, "aa:bb:cc", "")
	s.Require().ErrorIs(err, model.ErrInvalidParameter)
}
