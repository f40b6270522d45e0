package accesssdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ValidateRegistrationToken checks whether a registration token can still be
// redeemed, without consuming it. Dead tokens (unknown, expired or already
// consumed) report Valid=false rather than an error, so signup forms can show
// a friendly message before asking for a password.
//
// This is a public endpoint (no authentication required).
func (c *SDKClient) ValidateRegistrationToken(ctx context.Context, token string) (*ValidateTokenResponse, error) {
	path := "/v1/registration/" + url.PathEscape(token)

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var verdict ValidateTokenResponse
	if err := decodeJSON(resp, &verdict, http.StatusOK); err != nil {
		return nil, err
	}

	return &verdict, nil
}

// ConsumeRegistrationToken redeems a registration token to create a new user
// account. Unlike validation, consumption reports precise failures: dead
// tokens come back as typed *APIError values (ErrTokenNotFound,
// ErrTokenExpired, ErrTokenAlreadyConsumed, ErrTokenEmailMismatch), weak
// passwords as *PolicyViolationError and a full organization as
// *LimitExceededError.
//
// This is a public endpoint (no authentication required).
func (c *SDKClient) ConsumeRegistrationToken(
	ctx context.Context,
	req ConsumeTokenRequest,
) (*PrincipalInfo, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/registration/consume", bytes.NewReader(body), headers)
	if err != nil {
		return nil, err
	}

	var created PrincipalInfo
	if err := decodeJSON(resp, &created, http.StatusCreated); err != nil {
		return nil, err
	}

	return &created, nil
}
