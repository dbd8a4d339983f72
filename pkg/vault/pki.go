package vault

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strings"

	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/sirupsen/logrus"
)

type IssuanceErrorKind string

const (
	IssuanceErrorCAExpired  IssuanceErrorKind = "ca_expired"
	IssuanceErrorPermission IssuanceErrorKind = "permission"
	IssuanceErrorOther      IssuanceErrorKind = "other"
)

// IssuanceError is a classified issuance failure. CAExpiresAt and
// RequestedExpiresAt are filled when the authority message carries them.
type IssuanceError struct {
	Kind               IssuanceErrorKind
	CAExpiresAt        string
	RequestedExpiresAt string
	cause              error
}

func NewIssuanceError(kind IssuanceErrorKind, cause error) *IssuanceError {
	return &IssuanceError{Kind: kind, cause: cause}
}

func (e *IssuanceError) Error() string {
	if e.Kind == IssuanceErrorCAExpired && e.CAExpiresAt != "" {
		return fmt.Sprintf("issuance failed (%s, CA expires at %s): %s", e.Kind, e.CAExpiresAt, e.cause.Error())
	}
	return fmt.Sprintf("issuance failed (%s): %s", e.Kind, e.cause.Error())
}

func (e *IssuanceError) Unwrap() error {
	switch e.Kind {
	case IssuanceErrorCAExpired:
		return model.ErrCAExpired
	case IssuanceErrorPermission:
		return model.ErrPermission
	}
	return e.cause
}

var caExpiryPattern = regexp.MustCompile(`CA certificate at ([0-9TZ:.+-]+)`)
var requestedExpiryPattern = regexp.MustCompile(`notAfter of ([0-9TZ:.+-]+)`)

// classifyIssuanceError keeps the message matching against the
// authority's error text in one place. Everything above it works with
// the Kind and the error sentinels.
func classifyIssuanceError(err error) error {
	issErr := &IssuanceError{cause: err}
	msg := err.Error()

	caExpired := strings.Contains(msg, "beyond the expiration of the CA certificate") ||
		(strings.Contains(msg, "exceeds") && strings.Contains(msg, "CA"))
	if caExpired {
		issErr.Kind = IssuanceErrorCAExpired
		if m := caExpiryPattern.FindStringSubmatch(msg); m != nil {
			issErr.CAExpiresAt = m[1]
		}
		if m := requestedExpiryPattern.FindStringSubmatch(msg); m != nil {
			issErr.RequestedExpiresAt = m[1]
		}
		return issErr
	}

	if errors.Is(err, model.ErrPermission) {
		issErr.Kind = IssuanceErrorPermission
		return issErr
	}

	issErr.Kind = IssuanceErrorOther
	return issErr
}

// FormatTTL renders an hour count the way the authority expects.
// Fractional hours are sent as seconds.
func FormatTTL(hours float64) string {
	if hours == math.Trunc(hours) {
		return fmt.Sprintf("%dh", int64(hours))
	}
	return fmt.Sprintf("%ds", int64(hours*3600))
}

func (c *Client) Issue(ctx context.Context, roleName string, req IssueRequest) (IssueResult, error) {
	payload := map[string]any{
		"common_name": req.CommonName,
		"ttl":         FormatTTL(req.TTLHours),
		"format":      "pem",
	}
	if len(req.AltNames) > 0 {
		payload["alt_names"] = strings.Join(req.AltNames, ",")
	}
	if req.Organization != "" {
		payload["organization"] = req.Organization
	}
	if req.Country != "" {
		payload["country"] = strings.ToUpper(req.Country)
	}
	if req.Province != "" {
		payload["province"] = req.Province
	}
	if req.Locality != "" {
		payload["locality"] = req.Locality
	}

	resp := struct {
		Data struct {
			Certificate  string   `json:"certificate"`
			PrivateKey   string   `json:"private_key"`
			IssuingCA    string   `json:"issuing_ca"`
			CAChain      []string `json:"ca_chain"`
			SerialNumber string   `json:"serial_number"`
			Expiration   int64    `json:"expiration"`
		} `json:"data"`
	}{}

	if err := c.do(ctx, http.MethodPost, c.config.PKIMount+"/issue/"+roleName, payload, &resp); err != nil {
		return IssueResult{}, classifyIssuanceError(err)
	}

	// The issuer certificate is the canonical chain; the joined ca_chain
	// list is the fallback when the response omits it.
	chain := resp.Data.IssuingCA
	if chain == "" {
		chain = strings.Join(resp.Data.CAChain, "\n")
	}

	return IssueResult{
		CertificatePEM: resp.Data.Certificate,
		PrivateKeyPEM:  resp.Data.PrivateKey,
		CAChainPEM:     chain,
		SerialNumber:   resp.Data.SerialNumber,
		ExpiresAt:      resp.Data.Expiration,
	}, nil
}

func (c *Client) EnsurePKIRole(ctx context.Context, roleName string) error {
	path := c.config.PKIMount + "/roles/" + roleName
	err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrDataNotFound) {
		return fmt.Errorf("check issuing role %s: %w", roleName, err)
	}

	payload := map[string]any{
		"allowed_domains":   "*",
		"allow_subdomains":  true,
		"allow_any_name":    true,
		"enforce_hostnames": false,
		"ttl":               "2160h",
		"max_ttl":           "8760h",
	}
	if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("create issuing role %s: %w", roleName, err)
	}
	logrus.Infof("created issuing role %s", roleName)
	return nil
}

func (c *Client) Revoke(ctx context.Context, req RevokeRequest) (RevokeResult, error) {
	payload := map[string]any{}
	if req.SerialNumber != "" {
		payload["serial_number"] = req.SerialNumber
	} else if req.CertificatePEM != "" {
		payload["certificate"] = req.CertificatePEM
	} else {
		return RevokeResult{}, fmt.Errorf("revocation needs a serial number or a certificate%w", model.ErrInvalidParameter)
	}

	resp := struct {
		Data struct {
			RevocationTime int64 `json:"revocation_time"`
		} `json:"data"`
	}{}
	if err := c.do(ctx, http.MethodPost, c.config.PKIMount+"/revoke", payload, &resp); err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "already revoked") || strings.Contains(msg, "not found") || errors.Is(err, model.ErrDataNotFound) {
			return RevokeResult{AlreadyRevoked: true}, nil
		}
		return RevokeResult{}, err
	}

	return RevokeResult{RevokedAt: resp.Data.RevocationTime}, nil
}

func (c *Client) ListIssuers(ctx context.Context) ([]IssuerInfo, error) {
	resp := struct {
		Data struct {
			Keys    []string `json:"keys"`
			KeyInfo map[string]struct {
				IssuerName string `json:"issuer_name"`
			} `json:"key_info"`
		} `json:"data"`
	}{}
	if err := c.do(ctx, "LIST", c.config.PKIMount+"/issuers", nil, &resp); err != nil {
		if errors.Is(err, model.ErrDataNotFound) {
			return nil, nil
		}
		return nil, err
	}

	defaultResp := struct {
		Data struct {
			Default string `json:"default"`
		} `json:"data"`
	}{}
	if err := c.do(ctx, http.MethodGet, c.config.PKIMount+"/config/issuers", nil, &defaultResp); err != nil {
		logrus.Debugf("failed to read default issuer: %v", err)
	}

	issuers := make([]IssuerInfo, 0, len(resp.Data.Keys))
	for _, key := range resp.Data.Keys {
		issuers = append(issuers, IssuerInfo{
			ID:        key,
			Name:      resp.Data.KeyInfo[key].IssuerName,
			IsDefault: key == defaultResp.Data.Default,
		})
	}
	return issuers, nil
}

func (c *Client) DeleteIssuer(ctx context.Context, issuerRef string) error {
	return c.do(ctx, http.MethodDelete, c.config.PKIMount+"/issuer/"+issuerRef, nil, nil)
}
