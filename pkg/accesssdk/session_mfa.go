package accesssdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// EnrollTOTP initiates TOTP enrollment for the authenticated user, returning
// the shared secret and a QR code for authenticator apps. Enrollment is not
// active until the first code is confirmed with VerifyTOTP.
// Automatically refreshes the access token if expired.
func (s *Session) EnrollTOTP(ctx context.Context) (*TOTPEnrollResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/mfa/enroll", nil, nil)
	if err != nil {
		return nil, err
	}

	var enrollment TOTPEnrollResponse
	if err := decodeJSON(resp, &enrollment, http.StatusOK); err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// VerifyTOTP confirms a TOTP code and completes MFA enrollment. The returned
// backup codes are shown exactly once; subsequent logins require a second factor.
// Automatically refreshes the access token if expired.
func (s *Session) VerifyTOTP(ctx context.Context, code string) (*BackupCodesResponse, error) {
	body, err := json.Marshal(TOTPVerifyRequest{Code: code})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/mfa/verify", bytes.NewReader(body), headers)
	if err != nil {
		return nil, err
	}

	var codes BackupCodesResponse
	if err := decodeJSON(resp, &codes, http.StatusOK); err != nil {
		return nil, err
	}

	return &codes, nil
}

// RegenerateBackupCodes replaces all backup codes, invalidating any unused
// ones. Requires a current TOTP code.
// Automatically refreshes the access token if expired.
func (s *Session) RegenerateBackupCodes(ctx context.Context, totpCode string) (*BackupCodesResponse, error) {
	body, err := json.Marshal(BackupCodesRegenerateRequest{Code: totpCode})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/mfa/backup-codes", bytes.NewReader(body), headers)
	if err != nil {
		return nil, err
	}

	var codes BackupCodesResponse
	if err := decodeJSON(resp, &codes, http.StatusOK); err != nil {
		return nil, err
	}

	return &codes, nil
}

// DisableMFA removes the second factor from the authenticated user's account.
// Requires a current TOTP code.
// Automatically refreshes the access token if expired.
func (s *Session) DisableMFA(ctx context.Context, totpCode string) error {
	body, err := json.Marshal(TOTPRemoveRequest{Code: totpCode})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/mfa/disable", bytes.NewReader(body), headers)
	if err != nil {
		return err
	}

	return checkStatusNoContent(resp)
}
