package accesssdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Me retrieves the authenticated principal, read live from the store so role
// changes and forced password flags show up immediately.
// Automatically refreshes the access token if expired.
func (s *Session) Me(ctx context.Context) (*PrincipalInfo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}

	var me PrincipalInfo
	if err := decodeJSON(resp, &me, http.StatusOK); err != nil {
		return nil, err
	}

	return &me, nil
}

// Introspect asks the service whether a token is active and, if so, who it
// belongs to. Dead tokens are not an error: they come back with Active=false.
// Resource servers that cannot verify JWTs locally use this as their check.
// Automatically refreshes the access token if expired.
func (s *Session) Introspect(ctx context.Context, token string) (*IntrospectionResponse, error) {
	body, err := json.Marshal(IntrospectRequest{Token: token})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/introspect", bytes.NewReader(body), headers)
	if err != nil {
		return nil, err
	}

	var introspection IntrospectionResponse
	if err := decodeJSON(resp, &introspection, http.StatusOK); err != nil {
		return nil, err
	}

	return &introspection, nil
}

// ChangePassword replaces the authenticated user's password after verifying
// the current one. A password rejected by policy returns
// *PolicyViolationError listing the unmet clauses. Changing the password
// clears a pending forced-change flag.
// Automatically refreshes the access token if expired.
func (s *Session) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body, err := json.Marshal(PasswordChangeRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/password", bytes.NewReader(body), headers)
	if err != nil {
		return err
	}

	return checkStatusNoContent(resp)
}
