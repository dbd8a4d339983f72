package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/certops/certops/pkg/lifecycle/api"
	"github.com/certops/certops/pkg/lifecycle/intake"
	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/certops/certops/pkg/lifecycle/storage"
	"github.com/certops/certops/pkg/util"
	"github.com/certops/certops/pkg/vault"
)

type RestClient struct {
	requester string
	server    string // http://server/
}

func NewRestClient(server, requester string) *RestClient {
	return &RestClient{
		requester: requester,
		server:    server,
	}
}

func (r *RestClient) SubmitRequest(req intake.SubmitRequestRequest) (model.CertificateRequest, error) {
	path := "/request"
	request := model.CertificateRequest{}
	if err := r.execute(http.MethodPost, path, util.StructToJSONReader(req), &request); err != nil {
		return model.CertificateRequest{}, err
	}
	return request, nil
}

func (r *RestClient) IssueRequest(requestID string) (model.CertificateRequest, error) {
	path := fmt.Sprintf("/request/%s/issue", requestID)
	request := model.CertificateRequest{}
	if err := r.execute(http.MethodPost, path, nil, &request); err != nil {
		return model.CertificateRequest{}, err
	}
	return request, nil
}

func (r *RestClient) RotateRequest(requestID string) (model.CertificateRequest, error) {
	path := fmt.Sprintf("/request/%s/rotate", requestID)
	request := model.CertificateRequest{}
	if err := r.execute(http.MethodPost, path, nil, &request); err != nil {
		return model.CertificateRequest{}, err
	}
	return request, nil
}

func (r *RestClient) RevokeRequest(requestID string) (model.CertificateRequest, error) {
	path := fmt.Sprintf("/request/%s", requestID)
	request := model.CertificateRequest{}
	if err := r.execute(http.MethodDelete, path, nil, &request); err != nil {
		return model.CertificateRequest{}, err
	}
	return request, nil
}

func (r *RestClient) RevokeSerial(serialNumber string) (model.CertificateRequest, error) {
	path := "/revocation"
	req := struct {
		SerialNumber string `json:"serial_number"`
	}{SerialNumber: serialNumber}

	request := model.CertificateRequest{}
	if err := r.execute(http.MethodPost, path, util.StructToJSONReader(req), &request); err != nil {
		return model.CertificateRequest{}, err
	}
	return request, nil
}

func (r *RestClient) ListRequests(offset, limit int, status string) (storage.ListRequestsResponse, error) {
	path := fmt.Sprintf("/request?offset=%d&limit=%d", offset, limit)
	if status != "" {
		path += "&status=" + status
	}
	requests := storage.ListRequestsResponse{}
	if err := r.execute(http.MethodGet, path, nil, &requests); err != nil {
		return storage.ListRequestsResponse{}, err
	}
	return requests, nil
}

func (r *RestClient) GetRequest(requestID string) (model.CertificateRequest, error) {
	path := fmt.Sprintf("/request/%s", requestID)
	request := model.CertificateRequest{}
	if err := r.execute(http.MethodGet, path, nil, &request); err != nil {
		return model.CertificateRequest{}, err
	}
	return request, nil
}

func (r *RestClient) RunRotation() (model.RotationSummary, error) {
	path := "/rotation/run"
	summary := model.RotationSummary{}
	if err := r.execute(http.MethodPost, path, nil, &summary); err != nil {
		return model.RotationSummary{}, err
	}
	return summary, nil
}

func (r *RestClient) RunSweep() (model.SweepSummary, error) {
	path := "/ttl/run"
	summary := model.SweepSummary{}
	if err := r.execute(http.MethodPost, path, nil, &summary); err != nil {
		return model.SweepSummary{}, err
	}
	return summary, nil
}

func (r *RestClient) ListIssuers() ([]vault.IssuerInfo, error) {
	path := "/issuers"
	issuers := []vault.IssuerInfo{}
	if err := r.execute(http.MethodGet, path, nil, &issuers); err != nil {
		return nil, err
	}
	return issuers, nil
}

func (r *RestClient) DeleteIssuer(issuerRef string) error {
	path := fmt.Sprintf("/issuer/%s", issuerRef)
	return r.execute(http.MethodDelete, path, nil, nil)
}

func (r *RestClient) execute(method, path string, body io.Reader, result any) error {
	endPoint := r.server + path
	req, err := http.NewRequest(method, endPoint, body)
	if err != nil {
		return err
	}
	req.Header.Set(api.REQUESTER_HEADER, r.requester)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	if status/100 != 2 {
		message, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d, message: %s", status, string(message))
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return err
	}
	return nil
}
