package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/truenorthhq/truenorth/internal/access/service"
	"github.com/truenorthhq/truenorth/pkg/accesssdk"
	"github.com/truenorthhq/truenorth/pkg/httpx"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

// MFAHandler handles TOTP enrollment and lifecycle endpoints.
type MFAHandler struct {
	MFAService *service.MFAService
}

func writeMFAError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTOTPCode):
		accesssdk.NewAPIError(http.StatusBadRequest,
			"invalid_mfa_code",
			"the provided code is not valid").WriteError(w)
	case errors.Is(err, service.ErrMFAAlreadyEnabled):
		accesssdk.NewAPIError(http.StatusBadRequest,
			"mfa_already_enabled",
			"MFA is already enabled for this user").WriteError(w)
	case errors.Is(err, service.ErrMFANotEnabled):
		accesssdk.NewAPIError(http.StatusBadRequest,
			"mfa_not_enabled",
			"MFA is not enabled for this user").WriteError(w)
	case errors.Is(err, service.ErrMFANotEnrolled):
		accesssdk.NewAPIError(http.StatusBadRequest,
			"mfa_not_enrolled",
			"call enroll before verifying").WriteError(w)
	default:
		accesssdk.ErrServerError.WriteError(w)
	}
}

// HandleEnroll handles POST /v1/auth/mfa/enroll
//
//	@Summary		Enroll in TOTP MFA
//	@Description	Generates a TOTP secret for the authenticated user and returns it with the otpauth QR payload. MFA turns on only after the first code is verified.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accesssdk.TOTPEnrollResponse	"TOTP secret and QR code"
//	@Failure		400	{object}	accesssdk.ErrorResponse			"MFA already enabled"
//	@Failure		401	{object}	accesssdk.ErrorResponse			"Invalid or missing credential"
//	@Failure		500	{object}	accesssdk.ErrorResponse			"Internal server error"
//	@Router			/v1/auth/mfa/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := PrincipalFrom(ctx)
	if !ok {
		writeBearerError(w, "missing credential")
		return
	}

	enrollData, err := h.MFAService.EnrollTOTP(ctx, p.UserID, p.Email)
	if err != nil {
		if !errors.Is(err, service.ErrMFAAlreadyEnabled) {
			log.Error("TOTP enrollment failed", "user_id", p.UserID, "err", err)
		}
		writeMFAError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.TOTPEnrollResponse{
		Secret:  enrollData.Secret,
		QRCode:  enrollData.QRCode,
		Issuer:  enrollData.Issuer,
		Account: enrollData.Account,
	})
}

// HandleVerify handles POST /v1/auth/mfa/verify
//
//	@Summary		Verify TOTP and enable MFA
//	@Description	Confirms enrollment with a first valid code, enables MFA and returns single-use backup codes. The codes are shown exactly once; only fingerprints are stored.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.TOTPVerifyRequest		true	"TOTP code"
//	@Success		200		{object}	accesssdk.BackupCodesResponse	"Backup codes (shown once)"
//	@Failure		400		{object}	accesssdk.ErrorResponse			"Invalid code, not enrolled, or already enabled"
//	@Failure		401		{object}	accesssdk.ErrorResponse			"Invalid or missing credential"
//	@Failure		500		{object}	accesssdk.ErrorResponse			"Internal server error"
//	@Router			/v1/auth/mfa/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := PrincipalFrom(ctx)
	if !ok {
		writeBearerError(w, "missing credential")
		return
	}

	var req accesssdk.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accesssdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	codes, err := h.MFAService.VerifyTOTP(ctx, p.UserID, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTOTPCode) {
			log.Warn("TOTP verification failed", "user_id", p.UserID)
		}
		writeMFAError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.BackupCodesResponse{Codes: codes})
}

// HandleBackupCodes handles POST /v1/auth/mfa/backup-codes
//
//	@Summary		Regenerate backup codes
//	@Description	Replaces every backup code after verifying a current TOTP code. Previously issued codes stop working immediately.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.BackupCodesRegenerateRequest	true	"TOTP code"
//	@Success		200		{object}	accesssdk.BackupCodesResponse			"Fresh backup codes (shown once)"
//	@Failure		400		{object}	accesssdk.ErrorResponse					"Invalid code or MFA not enabled"
//	@Failure		401		{object}	accesssdk.ErrorResponse					"Invalid or missing credential"
//	@Failure		500		{object}	accesssdk.ErrorResponse					"Internal server error"
//	@Router			/v1/auth/mfa/backup-codes [post].
func (h *MFAHandler) HandleBackupCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, ok := PrincipalFrom(ctx)
	if !ok {
		writeBearerError(w, "missing credential")
		return
	}

	var req accesssdk.BackupCodesRegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accesssdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	codes, err := h.MFAService.RegenerateBackupCodes(ctx, p.UserID, req.Code)
	if err != nil {
		writeMFAError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.BackupCodesResponse{Codes: codes})
}

// HandleDisable handles POST /v1/auth/mfa/disable
//
//	@Summary		Disable MFA
//	@Description	Turns MFA off after verifying a current TOTP code, and deletes the secret and all backup codes.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	accesssdk.TOTPRemoveRequest	true	"TOTP code"
//	@Success		204		"MFA disabled"
//	@Failure		400		{object}	accesssdk.ErrorResponse	"Invalid code or MFA not enabled"
//	@Failure		401		{object}	accesssdk.ErrorResponse	"Invalid or missing credential"
//	@Failure		500		{object}	accesssdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/mfa/disable [post].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := PrincipalFrom(ctx)
	if !ok {
		writeBearerError(w, "missing credential")
		return
	}

	var req accesssdk.TOTPRemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accesssdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	if err := h.MFAService.RemoveMFA(ctx, p.UserID, req.Code); err != nil {
		writeMFAError(w, err)
		return
	}

	log.Info("MFA disabled", "user_id", p.UserID)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
