package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/certops/certops/pkg/lifecycle/intake"
	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/certops/certops/pkg/lifecycle/revocation"
	"github.com/certops/certops/pkg/lifecycle/rotation"
	"github.com/certops/certops/pkg/lifecycle/storage"
	"github.com/certops/certops/pkg/lifecycle/storage/postgres"
	"github.com/certops/certops/pkg/lifecycle/sweep"
	"github.com/certops/certops/pkg/util"
	"github.com/certops/certops/pkg/vault"
	"github.com/gorilla/mux"
)

type ContextKey string

const (
	REQUESTER_HEADER      = "X-Requester"
	REQUESTER_CONTEXT_KEY = ContextKey("requester")
)

type RestServerConfig struct {
	Database             util.PostgresDatabaseConfig `yaml:"database"`
	Vault                vault.ClientConfig          `yaml:"vault"`
	PrivateServerAddress string                      `yaml:"private_server_address"`
	PublicServerAddress  string                      `yaml:"public_server_address"`
	RotationThreshold    int                         `yaml:"rotation_threshold_days"`
}

type RestServer struct {
	controller intake.Controller
	rotator    rotation.Rotator
	revoker    revocation.Revoker
	sweeper    sweep.Sweeper
	authority  vault.Authority

	privateHttpServer *http.Server
	publicHttpServer  *http.Server
}

func ExtractRequester(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requester := r.Header.Get(REQUESTER_HEADER)
		ctx = context.WithValue(ctx, REQUESTER_CONTEXT_KEY, requester)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func NewRestServerWithConfig(config RestServerConfig) (*RestServer, error) {
	requestStorage, err := postgres.NewStorageWithConfig(config.Database)
	if err != nil {
		return nil, err
	}

	vaultClient := vault.NewClient(config.Vault)
	controller := intake.NewController(requestStorage, vaultClient, vaultClient, vaultClient)
	rotator := rotation.NewRotator(requestStorage, vaultClient, vaultClient, config.RotationThreshold)
	revoker := revocation.NewRevoker(requestStorage, vaultClient, vaultClient)
	sweeper := sweep.NewSweeper(requestStorage)

	return NewRestServerWithController(controller, rotator, revoker, sweeper, vaultClient, config.PrivateServerAddress, config.PublicServerAddress), nil
}

func NewRestServerWithController(
	controller intake.Controller,
	rotator rotation.Rotator,
	revoker revocation.Revoker,
	sweeper sweep.Sweeper,
	authority vault.Authority,
	privateAddress, publicAddress string,
) *RestServer {
	restServer := &RestServer{
		controller: controller,
		rotator:    rotator,
		revoker:    revoker,
		sweeper:    sweeper,
		authority:  authority,
	}

	registerPublicEndpoints := func(r *mux.Router) {
		r.HandleFunc("/request", restServer.listRequests).Methods(http.MethodGet)
		r.HandleFunc("/request/{id}", restServer.getRequest).Methods(http.MethodGet)
	}

	privateRouter := mux.NewRouter()
	privateRouter.Use(Log, ExtractRequester)
	privateRouter.HandleFunc("/request", restServer.submitRequest).Methods(http.MethodPost)
	privateRouter.HandleFunc("/request/{id}/issue", restServer.issueRequest).Methods(http.MethodPost)
	privateRouter.HandleFunc("/request/{id}/rotate", restServer.rotateRequest).Methods(http.MethodPost)
	privateRouter.HandleFunc("/request/{id}", restServer.revokeRequest).Methods(http.MethodDelete)
	privateRouter.HandleFunc("/revocation", restServer.revokeBySerial).Methods(http.MethodPost)
	privateRouter.HandleFunc("/rotation/run", restServer.runRotation).Methods(http.MethodPost)
	privateRouter.HandleFunc("/ttl/run", restServer.runSweep).Methods(http.MethodPost)
	privateRouter.HandleFunc("/issuers", restServer.listIssuers).Methods(http.MethodGet)
	privateRouter.HandleFunc("/issuer/{ref}", restServer.deleteIssuer).Methods(http.MethodDelete)
	registerPublicEndpoints(privateRouter)

	publicRouter := mux.NewRouter()
	publicRouter.Use(Log, ExtractRequester)
	registerPublicEndpoints(publicRouter)

	if privateAddress != "" {
		restServer.privateHttpServer = &http.Server{
			Addr:    privateAddress,
			Handler: privateRouter,
		}
	}
	if publicAddress != "" {
		restServer.publicHttpServer = &http.Server{
			Addr:    publicAddress,
			Handler: publicRouter,
		}
	}

	return restServer
}

func (s *RestServer) Run() error {
	if s.privateHttpServer == nil && s.publicHttpServer == nil {
		return errors.New("no server to run")
	}

	var privateServerErr error
	var publicServerErr error
	wg := sync.WaitGroup{}

	if s.privateHttpServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.privateHttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				privateServerErr = err
			}
		}()
	}
	if s.publicHttpServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.publicHttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				publicServerErr = err
			}
		}()
	}

	wg.Wait()
	if privateServerErr != nil {
		return privateServerErr
	}
	if publicServerErr != nil {
		return publicServerErr
	}
	return nil
}

func (s *RestServer) Close(ctx context.Context) error {
	var serverErr error
	wg := sync.WaitGroup{}
	if s.privateHttpServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.privateHttpServer.SetKeepAlivesEnabled(false)
			if err := s.privateHttpServer.Shutdown(ctx); err != nil {
				serverErr = err
			}
		}()
	}

	if s.publicHttpServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.publicHttpServer.SetKeepAlivesEnabled(false)
			if err := s.publicHttpServer.Shutdown(ctx); err != nil {
				serverErr = err
			}
		}()
	}

	wg.Wait()
	return serverErr
}

func (s *RestServer) listRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 10
	}
	req := storage.ListRequestsRequest{
		Offset: offset,
		Limit:  limit,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Statuses = []model.RequestStatus{model.RequestStatus(status)}
	}
	if account := r.URL.Query().Get("account"); account != "" {
		req.AccountIDs = []string{account}
	}
	if requester := r.URL.Query().Get("requester"); requester != "" {
		req.Requesters = []string{requester}
	}

	result, err := s.controller.ListRequests(ctx, req)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list certificate requests: %s", err.Error()), model.ErrToHttpStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

func (s *RestServer) getRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := mux.Vars(r)["id"]

	req := storage.ListRequestsRequest{
		Limit: 1,
		IDs:   []string{requestID},
	}

	result, err := s.controller.ListRequests(ctx, req)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list certificate requests: %s", err.Error()), model.ErrToHttpStatus(err))
		return
	}

	if len(result.Requests) == 0 {
		http.Error(w, fmt.Sprintf("Certificate request not found: %s", requestID), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result.Requests[0])
}

func (s *RestServer) submitRequest(w http.ResponseWriter, r *http.Request) {
	ts := time.Now().Unix()
	ctx := r.Context()
	requester := ctx.Value(REQUESTER_CONTEXT_KEY).(string)

	req := intake.SubmitRequestRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %s", err.Error()), http.StatusBadRequest)
		return
	}
	req.Requester = requester

	request, err := s.controller.SubmitRequest(ctx, ts, req)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to submit certificate request: %s", err.Error()), model.ErrToHttpStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(request)
}

func (s *RestServer) issueRequest(w http.ResponseWriter, r *http.Request) {
	ts := time.Now().Unix()
	ctx := r.Context()
	requestID := mux.Vars(r)["id"]

	request, err := s.controller.IssueRequest(ctx, ts, requestID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to issue certificate: %s", err.Error()), model.ErrToHttpStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(request)
}

func (s *RestServer) rotateRequest(w http.ResponseWriter, r *http.Request) {
	ts := time.Now().Unix()
	ctx := r.Context()
	requestID := mux.Vars(r)["id"]

	request, err := s.rotator.RotateOne(ctx, ts, requestID)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to rotate certificate: %s", err.Error()), model.ErrToHttpStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(request)
}

func (s *RestServer) revokeRequest(w http.ResponseWriter, r *http.Request) {
	ts := time.Now().Unix()
	ctx := r.Context()
	requester := ctx.Value(REQUESTER_CONTEXT_KEY).(string)
	requestID := mux.Vars(r)["id"]

	request, err := s.revoker.RevokeByRequestID(ctx, ts, requestID, requester)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to revoke certificate: %s", err.Error()), model.ErrToHttpStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(request)
}

func (s *RestServer) revokeBySerial(w http.ResponseWriter, r *http.Request) {
	ts := time.Now().Unix()
	ctx := r.Context()
	requester := ctx.Value(REQUESTER_CONTEXT_KEY).(string)

	req := struct {
		SerialNumber string `json:"serial_number"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %s", err.Error()), http.StatusBadRequest)
		return
	}

	request, err := s.revoker.RevokeBySerial(ctx, ts, req.SerialNumber, requester)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to revoke certificate: %s", err.Error()), model.ErrToHttpStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(request)
}

func (s *RestServer) runRotation(w http.ResponseWriter, r *http.Request) {
	ts := time.Now().Unix()
	ctx := r.Context()

	summary, err := s.rotator.RotateAll(ctx, ts)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to run rotation: %s", err.Error()), model.ErrToHttpStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summary)
}

func (s *RestServer) runSweep(w http.ResponseWriter, r *http.Request) {
	ts := time.Now().Unix()
	ctx := r.Context()

	summary, err := s.sweeper.CheckAll(ctx, ts)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to run ttl sweep: %s", err.Error()), model.ErrToHttpStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summary)
}

func (s *RestServer) listIssuers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	issuers, err := s.authority.ListIssuers(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list issuers: %s", err.Error()), model.ErrToHttpStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(issuers)
}

func (s *RestServer) deleteIssuer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	issuerRef := mux.Vars(r)["ref"]

	if err := s.authority.DeleteIssuer(ctx, issuerRef); err != nil {
		http.Error(w, fmt.Sprintf("Failed to delete issuer: %s", err.Error()), model.ErrToHttpStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
