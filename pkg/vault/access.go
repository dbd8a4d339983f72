package vault

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/certops/certops/pkg/lifecycle/model"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

func CertReaderPolicyName(username string) string {
	return username + "-combined-policy"
}

// EnsurePolicy writes the ACL policy when it does not exist yet.
// An existing policy is left untouched.
func (c *Client) EnsurePolicy(ctx context.Context, name string, document string) error {
	path := "sys/policies/acl/" + name
	err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrDataNotFound) {
		return fmt.Errorf("check policy %s: %w", name, err)
	}

	payload := map[string]any{
		"policy": document,
	}
	if err := c.do(ctx, http.MethodPut, path, payload, nil); err != nil {
		return fmt.Errorf("write policy %s: %w", name, err)
	}
	logrus.Infof("created policy %s", name)
	return nil
}

// EnsureCertReaderPolicy grants the user read access to the certificate
// material of one account/role and returns the policy name.
func (c *Client) EnsureCertReaderPolicy(ctx context.Context, username, accountID, roleName string) (string, error) {
	name := CertReaderPolicyName(username)
	document := fmt.Sprintf(`path "%s/data/certs/%s/%s/*" {
  capabilities = ["read", "list"]
}

path "%s/metadata/certs/%s/%s/*" {
  capabilities = ["read", "list"]
}
`,
		c.config.KVMount, accountID, roleName,
		c.config.KVMount, accountID, roleName,
	)

	if err := c.EnsurePolicy(ctx, name, document); err != nil {
		return "", err
	}
	return name, nil
}

// EnsureAuthRole binds the IAM principal to the auth backend role and
// makes sure the given policies are attached. Policies already on the
// role are kept.
func (c *Client) EnsureAuthRole(ctx context.Context, roleName, principalARN string, policies []string) error {
	path := "auth/aws/role/" + roleName

	existing := struct {
		Data struct {
			Policies      []string `json:"policies"`
			TokenPolicies []string `json:"token_policies"`
		} `json:"data"`
	}{}
	err := c.do(ctx, http.MethodGet, path, nil, &existing)
	if errors.Is(err, model.ErrDataNotFound) {
		payload := map[string]any{
			"auth_type":               "iam",
			"bound_iam_principal_arn": principalARN,
			"token_policies":          policies,
		}
		if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
			return fmt.Errorf("create auth role %s: %w", roleName, err)
		}
		logrus.Infof("created auth role %s for %s", roleName, principalARN)
		return nil
	}
	if err != nil {
		return fmt.Errorf("check auth role %s: %w", roleName, err)
	}

	current := existing.Data.TokenPolicies
	if len(current) == 0 {
		current = existing.Data.Policies
	}
	merged := lo.Union(current, policies)
	if len(merged) == len(current) {
		return nil
	}

	payload := map[string]any{
		"token_policies": merged,
	}
	if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("update auth role %s: %w", roleName, err)
	}
	return nil
}

// EnsureTokenRolePolicy attaches the policy to the client's own login
// role so later sessions carry it.
func (c *Client) EnsureTokenRolePolicy(ctx context.Context, roleName, policy string) error {
	path := "auth/approle/role/" + roleName

	existing := struct {
		Data struct {
			TokenPolicies []string `json:"token_policies"`
		} `json:"data"`
	}{}
	if err := c.do(ctx, http.MethodGet, path, nil, &existing); err != nil {
		return fmt.Errorf("check login role %s: %w", roleName, err)
	}

	if lo.Contains(existing.Data.TokenPolicies, policy) {
		return nil
	}

	payload := map[string]any{
		"token_policies": append(existing.Data.TokenPolicies, policy),
	}
	if err := c.do(ctx, http.MethodPost, path, payload, nil); err != nil {
		return fmt.Errorf("update login role %s: %w", roleName, err)
	}
	return nil
}
