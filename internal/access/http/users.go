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

// UserHandler handles organization member administration.
type UserHandler struct {
	UserService     *service.UserService
	PasswordService *service.PasswordService
}

func userInfo(u domain.User) accesssdk.UserInfo {
	return accesssdk.UserInfo{
		UserID:             u.ID,
		Email:              u.Email,
		Name:               u.Name,
		Role:               string(u.Role),
		MFAEnabled:         u.MFAEnabled != nil,
		MustChangePassword: u.MustChangePassword,
		CreatedAt:          u.CreatedAt,
	}
}

// HandleList handles GET /v1/users
//
//	@Summary		List organization members
//	@Description	Returns every member of the caller's organization. Cross-organization reads are impossible: the roster is keyed by the caller's own org.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accesssdk.ListUsersResponse	"Organization roster"
//	@Failure		401	{object}	accesssdk.ErrorResponse		"Invalid or missing credential"
//	@Failure		403	{object}	accesssdk.ErrorResponse		"Caller lacks the manage-users capability"
//	@Failure		500	{object}	accesssdk.ErrorResponse		"Internal server error"
//	@Router			/v1/users [get].
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := PrincipalFrom(ctx)
	if !ok {
		writeBearerError(w, "missing credential")
		return
	}

	users, err := h.UserService.ListUsers(ctx, p)
	if err != nil {
		log.Error("failed to list users", "org_id", p.OrgID, "err", err)
		accesssdk.ErrServerError.WriteError(w)
		return
	}

	resp := accesssdk.ListUsersResponse{Users: make([]accesssdk.UserInfo, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, userInfo(u))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleAssignRole handles POST /v1/users/{id}/role
//
//	@Summary		Assign a member's role
//	@Description	Changes the target's role; the target sees it on their next authenticated request because principals are rebuilt from the live user row. Demoting the last administrator is refused.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string						true	"Target user id"
//	@Param			request	body	accesssdk.AssignRoleRequest	true	"New role"
//	@Success		204		"Role assigned"
//	@Failure		400		{object}	accesssdk.ErrorResponse	"Malformed body or unknown role"
//	@Failure		401		{object}	accesssdk.ErrorResponse	"Invalid or missing credential"
//	@Failure		403		{object}	accesssdk.ErrorResponse	"Caller lacks the manage-users capability"
//	@Failure		404		{object}	accesssdk.ErrorResponse	"No such user in the caller's organization"
//	@Failure		409		{object}	accesssdk.ErrorResponse	"Target is the last administrator"
//	@Failure		500		{object}	accesssdk.ErrorResponse	"Internal server error"
//	@Router			/v1/users/{id}/role [post].
func (h *UserHandler) HandleAssignRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := PrincipalFrom(ctx)
	if !ok {
		writeBearerError(w, "missing credential")
		return
	}

	var req accesssdk.AssignRoleRequest
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

	err = h.UserService.AssignRole(ctx, p, r.PathValue("id"), role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			accesssdk.NewAPIError(http.StatusNotFound,
				"not_found",
				"no such user").WriteError(w)
		case errors.Is(err, service.ErrLastAdministrator):
			accesssdk.NewAPIError(http.StatusConflict,
				accesssdk.ErrorCodeConflict,
				"cannot demote the last administrator").WriteError(w)
		case errors.Is(err, service.ErrInvalidRole):
			accesssdk.NewAPIError(http.StatusBadRequest,
				accesssdk.ErrorCodeInvalidRequest,
				"unknown role").WriteError(w)
		default:
			log.Error("role assignment failed", "target", r.PathValue("id"), "err", err)
			accesssdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleResetPassword handles POST /v1/users/{id}/password-reset
//
//	@Summary		Reset a member's password
//	@Description	Issues a temporary password for the target, revokes their sessions and flags the account for a forced change on next login. The temporary password is returned exactly once.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string								true	"Target user id"
//	@Success		200	{object}	accesssdk.PasswordResetResponse		"Temporary password (shown once)"
//	@Failure		401	{object}	accesssdk.ErrorResponse				"Invalid or missing credential"
//	@Failure		403	{object}	accesssdk.ErrorResponse				"Caller lacks the manage-users capability"
//	@Failure		404	{object}	accesssdk.ErrorResponse				"No such user in the caller's organization"
//	@Failure		500	{object}	accesssdk.ErrorResponse				"Internal server error"
//	@Router			/v1/users/{id}/password-reset [post].
func (h *UserHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := PrincipalFrom(ctx)
	if !ok {
		writeBearerError(w, "missing credential")
		return
	}

	temp, err := h.PasswordService.ResetPassword(ctx, p, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			accesssdk.NewAPIError(http.StatusNotFound,
				"not_found",
				"no such user").WriteError(w)
			return
		}
		log.Error("password reset failed", "target", r.PathValue("id"), "err", err)
		accesssdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.PasswordResetResponse{TemporaryPassword: temp})
}
