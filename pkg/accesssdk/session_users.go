package accesssdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// User administration - requires the manage-users capability (administrators only)

// ListUsers retrieves every user in the caller's organization.
// Automatically refreshes the access token if expired.
func (s *Session) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/users", nil, nil)
	if err != nil {
		return nil, err
	}

	var users ListUsersResponse
	if err := decodeJSON(resp, &users, http.StatusOK); err != nil {
		return nil, err
	}

	return &users, nil
}

// AssignRole changes a user's role. Demoting the organization's only
// administrator is refused with a conflict error.
// Automatically refreshes the access token if expired.
func (s *Session) AssignRole(ctx context.Context, userID, role string) error {
	body, err := json.Marshal(AssignRoleRequest{Role: role})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	path := fmt.Sprintf("/v1/users/%s/role", url.PathEscape(userID))

	resp, err := s.doAuthRequest(ctx, http.MethodPost, path, bytes.NewReader(body), headers)
	if err != nil {
		return err
	}

	return checkStatusNoContent(resp)
}

// ResetUserPassword issues a temporary password for another user and flags
// their account for a forced change on next login. The temporary password is
// returned exactly once; hand it to the user out of band.
// Automatically refreshes the access token if expired.
func (s *Session) ResetUserPassword(ctx context.Context, userID string) (*PasswordResetResponse, error) {
	path := fmt.Sprintf("/v1/users/%s/password-reset", url.PathEscape(userID))

	resp, err := s.doAuthRequest(ctx, http.MethodPost, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var reset PasswordResetResponse
	if err := decodeJSON(resp, &reset, http.StatusOK); err != nil {
		return nil, err
	}

	return &reset, nil
}
