package vault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/goccy/go-json"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const (
	AuthMethodUserPass = "userpass"
	AuthMethodAppRole  = "approle"
)

// The authority does not report a lease duration we can rely on across
// deployments, so sessions are renewed on a fixed schedule.
const tokenLifetime = 3600 * time.Second

type ClientConfig struct {
	Address    string `yaml:"address"`
	Namespace  string `yaml:"namespace"`
	AuthMethod string `yaml:"auth_method"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	RoleID     string `yaml:"role_id"`
	SecretID   string `yaml:"secret_id"`

	PKIMount string `yaml:"pki_mount"`
	KVMount  string `yaml:"kv_mount"`

	// RequiredPolicies must all be attached to the session token.
	// A session missing any of them is discarded.
	RequiredPolicies []string `yaml:"required_policies"`

	Timeout int `yaml:"timeout"` // HTTP timeout in seconds.
}

type Client struct {
	config     ClientConfig
	httpClient *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

type ClientOption func(c *Client)

func ClientWithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(config ClientConfig, opts ...ClientOption) *Client {
	if config.PKIMount == "" {
		config.PKIMount = "pki"
	}
	if config.KVMount == "" {
		config.KVMount = "secret"
	}
	if len(config.RequiredPolicies) == 0 {
		config.RequiredPolicies = []string{"cert-storage-policy"}
	}
	if config.Timeout == 0 {
		config.Timeout = 30
	}
	config.Address = strings.TrimSuffix(config.Address, "/")

	client := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: time.Duration(config.Timeout) * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// APIError is a non-2xx answer from the authority.
type APIError struct {
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("authority returned %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return model.ErrAuth
	case e.StatusCode == http.StatusForbidden:
		return model.ErrPermission
	case e.StatusCode == http.StatusNotFound:
		return model.ErrDataNotFound
	case e.StatusCode >= 500:
		return model.ErrTransient
	}
	return nil
}

type tokenRejectedError struct {
	cause *APIError
}

func (e *tokenRejectedError) Error() string {
	return e.cause.Error()
}

func (e *tokenRejectedError) Unwrap() error {
	return e.cause
}

// EnsureAuthenticated makes sure a verified session token is cached.
// It reports false when login fails or the token lacks a mandatory
// policy. The session stays cleared in both cases.
func (c *Client) EnsureAuthenticated(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return true
	}

	token, err := c.login(ctx)
	if err != nil {
		logrus.Errorf("failed to authenticate against authority: %v", err)
		c.token = ""
		c.tokenExpiry = time.Time{}
		return false
	}

	if err := c.verifyCapabilities(ctx, token); err != nil {
		logrus.Errorf("authority session rejected: %v", err)
		c.token = ""
		c.tokenExpiry = time.Time{}
		return false
	}

	c.token = token
	c.tokenExpiry = time.Now().Add(tokenLifetime)
	return true
}

func (c *Client) login(ctx context.Context) (string, error) {
	resp := struct {
		Auth struct {
			ClientToken string   `json:"client_token"`
			Policies    []string `json:"policies"`
		} `json:"auth"`
	}{}

	var err error
	switch c.config.AuthMethod {
	case AuthMethodAppRole:
		payload := map[string]string{
			"role_id":   c.config.RoleID,
			"secret_id": c.config.SecretID,
		}
		err = c.send(ctx, http.MethodPost, "auth/approle/login", payload, &resp, "")
	case AuthMethodUserPass, "":
		payload := map[string]string{
			"password": c.config.Password,
		}
		err = c.send(ctx, http.MethodPost, "auth/userpass/login/"+c.config.Username, payload, &resp, "")
	default:
		return "", fmt.Errorf("unknown auth method %q%w", c.config.AuthMethod, model.ErrInvalidParameter)
	}
	if err != nil {
		return "", err
	}
	if resp.Auth.ClientToken == "" {
		return "", fmt.Errorf("authority returned no session token%w", model.ErrAuth)
	}
	return resp.Auth.ClientToken, nil
}

func (c *Client) verifyCapabilities(ctx context.Context, token string) error {
	resp := struct {
		Data struct {
			Policies []string `json:"policies"`
		} `json:"data"`
	}{}
	if err := c.send(ctx, http.MethodGet, "auth/token/lookup-self", nil, &resp, token); err != nil {
		return err
	}

	missing, _ := lo.Difference(c.config.RequiredPolicies, resp.Data.Policies)
	if len(missing) > 0 {
		return fmt.Errorf("session token lacks mandatory policies %v%w", missing, model.ErrPermission)
	}
	return nil
}

func (c *Client) sessionToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) clearSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.tokenExpiry = time.Time{}
}

// do performs an authenticated call. A rejected token is retried
// exactly once after re-authentication.
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	return retry.Do(
		func() error {
			if !c.EnsureAuthenticated(ctx) {
				return fmt.Errorf("authority authentication failed%w", model.ErrAuth)
			}
			err := c.send(ctx, method, path, payload, out, c.sessionToken())
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
				c.clearSession()
				return &tokenRejectedError{cause: apiErr}
			}
			return err
		},
		retry.Attempts(2),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			var rejected *tokenRejectedError
			return errors.As(err, &rejected)
		}),
	)
}

func (c *Client) send(ctx context.Context, method, path string, payload any, out any, token string) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.Address+"/v1/"+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Vault-Token", token)
	}
	if c.config.Namespace != "" {
		req.Header.Set("X-Vault-Namespace", c.config.Namespace)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request to authority: %s%w", err.Error(), model.ErrTransient)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		respBody, _ := io.ReadAll(resp.Body)
		errBody := struct {
			Errors []string `json:"errors"`
		}{}
		if json.Unmarshal(respBody, &errBody) == nil {
			apiErr.Messages = errBody.Errors
		}
		if len(apiErr.Messages) == 0 && len(respBody) > 0 {
			apiErr.Messages = []string{string(respBody)}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode authority response: %w", err)
	}
	return nil
}
