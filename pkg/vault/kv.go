package vault

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/certops/certops/pkg/lifecycle/model"
)

func (c *Client) PutSecret(ctx context.Context, path string, data map[string]any) error {
	payload := map[string]any{
		"data": data,
	}
	if err := c.do(ctx, http.MethodPost, c.config.KVMount+"/data/"+path, payload, nil); err != nil {
		return fmt.Errorf("store secret %s: %w", path, err)
	}
	return nil
}

func (c *Client) DeleteSecret(ctx context.Context, path string) error {
	err := c.do(ctx, http.MethodDelete, c.config.KVMount+"/data/"+path, nil, nil)
	if err != nil && !errors.Is(err, model.ErrDataNotFound) {
		return fmt.Errorf("delete secret %s: %w", path, err)
	}
	return nil
}

// TagRevoked marks the secret metadata as revoked. Existing custom
// metadata is preserved.
func (c *Client) TagRevoked(ctx context.Context, path string) error {
	meta := struct {
		Data struct {
			CustomMetadata map[string]string `json:"custom_metadata"`
		} `json:"data"`
	}{}
	if err := c.do(ctx, http.MethodGet, c.config.KVMount+"/metadata/"+path, nil, &meta); err != nil && !errors.Is(err, model.ErrDataNotFound) {
		return fmt.Errorf("read secret metadata %s: %w", path, err)
	}

	merged := meta.Data.CustomMetadata
	if merged == nil {
		merged = map[string]string{}
	}
	merged["revoked"] = "true"
	merged["revoked_at"] = time.Now().UTC().Format(time.RFC3339)

	payload := map[string]any{
		"custom_metadata": merged,
	}
	if err := c.do(ctx, http.MethodPost, c.config.KVMount+"/metadata/"+path, payload, nil); err != nil {
		return fmt.Errorf("update secret metadata %s: %w", path, err)
	}
	return nil
}
