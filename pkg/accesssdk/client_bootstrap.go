package accesssdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// GetBootstrapStatus reports whether the service has been bootstrapped with
// its first organization. Installers poll this to decide whether to show the
// first-run setup screen.
func (c *SDKClient) GetBootstrapStatus(ctx context.Context) (*BootstrapStatusResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/bootstrap", nil, nil)
	if err != nil {
		return nil, err
	}

	var status BootstrapStatusResponse
	if err := decodeJSON(resp, &status, http.StatusOK); err != nil {
		return nil, err
	}

	return &status, nil
}

// Bootstrap initializes an empty deployment with its first organization and
// administrator. The token must match the one configured on the server; a
// deployment that already has users refuses with a conflict error.
func (c *SDKClient) Bootstrap(
	ctx context.Context,
	token string,
	req BootstrapRequest,
) (*BootstrapResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := map[string]string{
		"Content-Type":      "application/json",
		"X-Bootstrap-Token": token,
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/bootstrap", bytes.NewReader(body), headers)
	if err != nil {
		return nil, err
	}

	var bootstrapResp BootstrapResponse
	if err := decodeJSON(resp, &bootstrapResp, http.StatusCreated); err != nil {
		return nil, err
	}

	return &bootstrapResp, nil
}
