package accesssdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Signing key administration - requires the manage-users capability (administrators only)

// RotateKey generates a new signing key and promotes it to primary. With
// RetireExisting set, current keys enter their retirement grace period and
// stop signing while remaining valid for verification.
// Automatically refreshes the access token if expired.
func (s *Session) RotateKey(ctx context.Context, req RotateKeyRequest) (*RotateKeyResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/keys/rotate", bytes.NewReader(body), headers)
	if err != nil {
		return nil, err
	}

	var rotated RotateKeyResponse
	if err := decodeJSON(resp, &rotated, http.StatusOK); err != nil {
		return nil, err
	}

	return &rotated, nil
}

// ListKeys returns all signing keys with their rotation status.
// Automatically refreshes the access token if expired.
func (s *Session) ListKeys(ctx context.Context) ([]SigningKeyInfo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/keys", nil, nil)
	if err != nil {
		return nil, err
	}

	var keys ListKeysResponse
	if err := decodeJSON(resp, &keys, http.StatusOK); err != nil {
		return nil, err
	}

	return keys.Keys, nil
}

// RetireKey retires a specific signing key by its key ID. The last active
// key cannot be retired.
// Automatically refreshes the access token if expired.
func (s *Session) RetireKey(ctx context.Context, kid string) error {
	path := fmt.Sprintf("/v1/keys/%s/retire", url.PathEscape(kid))

	resp, err := s.doAuthRequest(ctx, http.MethodPost, path, nil, nil)
	if err != nil {
		return err
	}

	return checkStatusNoContent(resp)
}
