package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/service"
	"github.com/truenorthhq/truenorth/pkg/accesssdk"
	"github.com/truenorthhq/truenorth/pkg/httpx"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

// InviteHandler mints invite tokens for the caller's organization.
type InviteHandler struct {
	RegistrationService *service.RegistrationService
}

// ServeHTTP handles POST /v1/invites
//
//	@Summary		Mint an invite token
//	@Description	Creates a registration token granting the given role in the caller's organization, after a seat precheck. The raw token is returned exactly once; only its fingerprint is stored.
//	@Tags			Registration
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.InviteRequest		true	"Role, optional email binding and TTL"
//	@Success		201		{object}	accesssdk.InviteResponse	"Minted invite"
//	@Failure		400		{object}	accesssdk.ErrorResponse		"Malformed body or unknown role"
//	@Failure		401		{object}	accesssdk.ErrorResponse		"Invalid or missing credential"
//	@Failure		402		{object}	accesssdk.ErrorResponse		"Organization is out of user seats"
//	@Failure		403		{object}	accesssdk.ErrorResponse		"Caller lacks the manage-users capability"
//	@Failure		500		{object}	accesssdk.ErrorResponse		"Internal server error"
//	@Router			/v1/invites [post].
func (h *InviteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := PrincipalFrom(ctx)
	if !ok {
		writeBearerError(w, "missing credential")
		return
	}

	var req accesssdk.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accesssdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		accesssdk.NewAPIError(http.StatusBadRequest,
			accesssdk.ErrorCodeInvalidRequest,
			"unknown role").WriteError(w)
		return
	}

	ttl := service.DefaultInviteTTL
	if req.TTLHours > 0 {
		ttl = time.Duration(req.TTLHours) * time.Hour
	}

	raw, err := h.RegistrationService.MintInvite(ctx, p, role, req.Email, ttl)
	if err != nil {
		var limitErr *service.LimitExceededError
		switch {
		case errors.As(err, &limitErr):
			limitErr.WriteError(w)
		case errors.Is(err, service.ErrInvalidRole):
			accesssdk.NewAPIError(http.StatusBadRequest,
				accesssdk.ErrorCodeInvalidRequest,
				"unknown role").WriteError(w)
		default:
			log.Error("invite mint failed", "org_id", p.OrgID, "err", err)
			accesssdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accesssdk.InviteResponse{
		RegistrationToken: raw,
		Role:              string(role),
		ExpiresAt:         time.Now().Add(ttl),
	})
}
