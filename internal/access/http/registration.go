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

// RegistrationHandler handles the public signup endpoints: token
// validation for the signup form and token consumption.
type RegistrationHandler struct {
	RegistrationService *service.RegistrationService
}

// HandleValidate handles GET /v1/registration/{token}
//
//	@Summary		Check a registration token
//	@Description	Read-only pre-signup check. A valid token answers with the role it grants and any email binding so the form can prefill; unknown, expired and consumed tokens all answer valid=false. Never consumes the token.
//	@Tags			Registration
//	@Produce		json
//	@Param			token	path		string							true	"Raw registration token"
//	@Success		200		{object}	accesssdk.ValidateTokenResponse	"Validity verdict"
//	@Failure		500		{object}	accesssdk.ErrorResponse			"Internal server error"
//	@Router			/v1/registration/{token} [get].
func (h *RegistrationHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token, err := h.RegistrationService.Validate(ctx, r.PathValue("token"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenNotFound),
			errors.Is(err, service.ErrTokenExpired),
			errors.Is(err, service.ErrTokenConsumed):
			httpx.WriteJSON(w, http.StatusOK, accesssdk.ValidateTokenResponse{Valid: false})
		default:
			log.Error("token validation failed", "err", err)
			accesssdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.ValidateTokenResponse{
		Valid:         true,
		Role:          string(token.Role),
		IntendedEmail: token.IntendedEmail,
		ExpiresAt:     token.ExpiresAt,
	})
}

// HandleConsume handles POST /v1/registration/consume
//
//	@Summary		Redeem a registration token
//	@Description	Creates the account a token stands for. Exactly-once: the consumed flip is a single conditional update, so one of two concurrent redemptions loses with token_already_consumed. The seat limit is re-checked inside the same transaction.
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.ConsumeTokenRequest	true	"Token and account details"
//	@Success		201		{object}	accesssdk.PrincipalInfo			"Created account"
//	@Failure		400		{object}	accesssdk.ErrorResponse			"Malformed body, missing fields or email binding mismatch"
//	@Failure		402		{object}	accesssdk.ErrorResponse			"Organization is out of user seats"
//	@Failure		404		{object}	accesssdk.ErrorResponse			"Unknown token"
//	@Failure		409		{object}	accesssdk.ErrorResponse			"Token already consumed, or email already registered"
//	@Failure		410		{object}	accesssdk.ErrorResponse			"Token expired"
//	@Failure		422		{object}	accesssdk.ErrorResponse			"Password fails the policy"
//	@Failure		500		{object}	accesssdk.ErrorResponse			"Internal server error"
//	@Router			/v1/registration/consume [post].
func (h *RegistrationHandler) HandleConsume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accesssdk.ConsumeTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accesssdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	user, err := h.RegistrationService.Consume(ctx, req.Token, req.Email, req.Name, req.Password)
	if err != nil {
		var (
			policyErr *service.PolicyViolationError
			limitErr  *service.LimitExceededError
		)
		switch {
		case errors.As(err, &policyErr):
			policyErr.WriteError(w)
		case errors.As(err, &limitErr):
			limitErr.WriteError(w)
		case errors.Is(err, service.ErrTokenNotFound):
			accesssdk.ErrTokenNotFound.WriteError(w)
		case errors.Is(err, service.ErrTokenExpired):
			accesssdk.ErrTokenExpired.WriteError(w)
		case errors.Is(err, service.ErrTokenConsumed):
			accesssdk.ErrTokenAlreadyConsumed.WriteError(w)
		case errors.Is(err, service.ErrEmailMismatch):
			accesssdk.ErrTokenEmailMismatch.WriteError(w)
		case errors.Is(err, service.ErrEmailTaken):
			accesssdk.NewAPIError(http.StatusConflict,
				accesssdk.ErrorCodeConflict,
				"email is already registered").WriteError(w)
		case errors.Is(err, service.ErrInvalidRegistration):
			accesssdk.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("registration consume failed", "err", err)
			accesssdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, principalInfo(domain.PrincipalFromUser(user)))
}
