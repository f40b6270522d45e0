package accesssdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// MintInvite creates a registration token for the requested role. The raw
// token is returned exactly once; the service stores only its hash. Minting
// fails with *LimitExceededError when the organization has no seats left.
// Requires the manage-users capability (administrators only).
// Automatically refreshes the access token if expired.
func (s *Session) MintInvite(ctx context.Context, req InviteRequest) (*InviteResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/invites", bytes.NewReader(body), headers)
	if err != nil {
		return nil, err
	}

	var invite InviteResponse
	if err := decodeJSON(resp, &invite, http.StatusCreated); err != nil {
		return nil, err
	}

	return &invite, nil
}
