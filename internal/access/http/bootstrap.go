package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/service"
	"github.com/truenorthhq/truenorth/pkg/accesssdk"
	"github.com/truenorthhq/truenorth/pkg/httpx"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

// BootstrapHandler seeds an empty installation with its first organization
// and administrator.
type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// HandleStatus handles GET /v1/bootstrap
//
//	@Summary		Bootstrap status
//	@Description	Reports whether the installation already has its first organization and administrator. The setup wizard polls this to decide whether to show the first-run form.
//	@Tags			Bootstrap
//	@Produce		json
//	@Success		200	{object}	accesssdk.BootstrapStatusResponse	"Bootstrap state"
//	@Failure		500	{object}	accesssdk.ErrorResponse				"Internal server error"
//	@Router			/v1/bootstrap [get].
func (h *BootstrapHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	bootstrapped, err := h.BootstrapService.IsBootstrapped(ctx)
	if err != nil {
		log.Error("bootstrap status check failed", "err", err)
		accesssdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.BootstrapStatusResponse{Bootstrapped: bootstrapped})
}

// HandleBootstrap handles POST /v1/bootstrap
//
//	@Summary		Bootstrap the installation
//	@Description	Creates the first organization and its administrator. Only available while the store is empty and a bootstrap token is configured; the token travels in the X-Bootstrap-Token header. Usable exactly once.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Pre-configured bootstrap token"
//	@Param			request				body		accesssdk.BootstrapRequest	true	"First organization and administrator"
//	@Success		201					{object}	accesssdk.BootstrapResponse	"Created organization and administrator"
//	@Failure		400					{object}	accesssdk.ErrorResponse		"Malformed body or missing fields"
//	@Failure		401					{object}	accesssdk.ErrorResponse		"Missing or wrong bootstrap token"
//	@Failure		404					{object}	accesssdk.ErrorResponse		"Bootstrap not enabled (no token configured)"
//	@Failure		409					{object}	accesssdk.ErrorResponse		"Already bootstrapped"
//	@Failure		422					{object}	accesssdk.ErrorResponse		"Administrator password fails the policy"
//	@Failure		500					{object}	accesssdk.ErrorResponse		"Internal server error"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) HandleBootstrap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if h.BootstrapService.Token == "" {
		accesssdk.NewAPIError(http.StatusNotFound,
			"not_found",
			"bootstrap endpoint is not enabled").WriteError(w)
		return
	}

	var req accesssdk.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accesssdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	admin, org, err := h.BootstrapService.Bootstrap(ctx, r.Header.Get("X-Bootstrap-Token"), domain.BootstrapData{
		OrgName:       req.OrgName,
		AdminEmail:    req.AdminEmail,
		AdminName:     req.AdminName,
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		var policyErr *service.PolicyViolationError
		switch {
		case errors.As(err, &policyErr):
			policyErr.WriteError(w)
		case errors.Is(err, service.ErrBootstrapAlready):
			accesssdk.NewAPIError(http.StatusConflict,
				accesssdk.ErrorCodeConflict,
				"system is already bootstrapped").WriteError(w)
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			accesssdk.NewAPIError(http.StatusUnauthorized,
				accesssdk.ErrorCodeUnauthenticated,
				"bootstrap token is missing or wrong").WriteError(w)
		case errors.Is(err, service.ErrInvalidBootstrap):
			accesssdk.NewAPIError(http.StatusBadRequest,
				accesssdk.ErrorCodeInvalidRequest,
				"org name, admin email and admin name are required").WriteError(w)
		default:
			log.Error("bootstrap failed", "err", err)
			accesssdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accesssdk.BootstrapResponse{
		OrgID:       org.ID,
		OrgName:     org.Name,
		AdminUserID: admin.ID,
		AdminEmail:  admin.Email,
	})
}
