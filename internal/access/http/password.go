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

// PasswordHandler handles the self-service password change endpoint.
type PasswordHandler struct {
	PasswordService *service.PasswordService
}

// HandleChange handles POST /v1/auth/password
//
//	@Summary		Change the caller's password
//	@Description	Re-verifies the current password, policy-checks the replacement, stores it, clears any forced-change flag and revokes every other session. This is the one endpoint reachable while a forced change is pending.
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	accesssdk.PasswordChangeRequest	true	"Current and new password"
//	@Success		204	"Password changed"
//	@Failure		400	{object}	accesssdk.ErrorResponse	"Malformed request body"
//	@Failure		401	{object}	accesssdk.ErrorResponse	"Missing credential or wrong current password"
//	@Failure		422	{object}	accesssdk.ErrorResponse	"New password fails the policy (clauses listed)"
//	@Failure		500	{object}	accesssdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/password [post].
func (h *PasswordHandler) HandleChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := PrincipalFrom(ctx)
	if !ok {
		writeBearerError(w, "missing credential")
		return
	}

	var req accesssdk.PasswordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accesssdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	err := h.PasswordService.ChangePassword(ctx, p, req.CurrentPassword, req.NewPassword)
	if err != nil {
		var policyErr *service.PolicyViolationError
		switch {
		case errors.As(err, &policyErr):
			policyErr.WriteError(w)
		case errors.Is(err, service.ErrInvalidCredentials):
			accesssdk.NewAPIError(http.StatusUnauthorized,
				accesssdk.ErrorCodeUnauthenticated,
				"current password is incorrect").WriteError(w)
		default:
			log.Error("password change failed", "user_id", p.UserID, "err", err)
			accesssdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
