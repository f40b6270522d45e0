package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/service"
	"github.com/truenorthhq/truenorth/pkg/accesssdk"
	"github.com/truenorthhq/truenorth/pkg/cryptox"
	"github.com/truenorthhq/truenorth/pkg/httpx"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

// SessionHandler handles login, second factor, refresh, logout and the
// principal read endpoints.
type SessionHandler struct {
	SessionService *service.SessionService
}

// setSessionCookies installs the browser session: the access token in the
// HttpOnly tn_session cookie and a fresh anti-forgery token in the readable
// tn_csrf cookie. Both expire with the access token; the SPA renews them by
// refreshing with cookie mode on.
func setSessionCookies(w http.ResponseWriter, r *http.Request, pair *domain.TokenPair) {
	secure := r.TLS != nil
	maxAge := int(pair.ExpiresIn)

	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.CSRFCookie,
		Value:    cryptox.MustGenerateToken(cryptox.TokenSize128),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookies(w http.ResponseWriter, r *http.Request) {
	secure := r.TLS != nil
	for _, name := range []string{httpx.SessionCookie, httpx.CSRFCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: name == httpx.SessionCookie,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func tokenResponse(pair *domain.TokenPair) accesssdk.TokenResponse {
	return accesssdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}
}

func principalInfo(p domain.Principal) accesssdk.PrincipalInfo {
	return accesssdk.PrincipalInfo{
		UserID:             p.UserID,
		OrgID:              p.OrgID,
		Email:              p.Email,
		Name:               p.Name,
		Role:               string(p.Role),
		MustChangePassword: p.MustChangePassword,
	}
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Log in with email and password
//	@Description	Verifies credentials and returns an access/refresh token pair. MFA-enabled accounts receive a 409 challenge carrying an mfa_token instead; complete it at /v1/auth/mfa. With "cookie" set, browser session cookies are installed alongside the body.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	accesssdk.TokenResponse	"Access and refresh tokens"
//	@Failure		400		{object}	accesssdk.ErrorResponse	"Malformed request body"
//	@Failure		401		{object}	accesssdk.ErrorResponse	"Unknown email or wrong password"
//	@Failure		409		{object}	accesssdk.ErrorResponse	"MFA challenge (mfa_required with mfa_token)"
//	@Failure		429		{object}	accesssdk.ErrorResponse	"Too many attempts"
//	@Failure		500		{object}	accesssdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accesssdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accesssdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	pair, err := h.SessionService.Login(ctx, req.Email, req.Password)
	if err != nil {
		var mfaErr *service.MFARequiredError
		switch {
		case errors.As(err, &mfaErr):
			mfaErr.WriteError(w)
		case errors.Is(err, service.ErrInvalidCredentials):
			accesssdk.NewAPIError(http.StatusUnauthorized,
				accesssdk.ErrorCodeUnauthenticated,
				"invalid email or password").WriteError(w)
		case errors.Is(err, service.ErrTooManyAttempts):
			accesssdk.ErrTooManyAttempts.WriteError(w)
		default:
			log.Error("login failed", "err", err)
			accesssdk.ErrServerError.WriteError(w)
		}
		return
	}

	if req.Cookie {
		setSessionCookies(w, r, pair)
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResponse(pair))
}

// HandleMFA handles POST /v1/auth/mfa
//
//	@Summary		Complete an MFA login challenge
//	@Description	Exchanges the mfa_token from the login challenge plus a TOTP or backup code for the token pair. Backup codes are single-use.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.MFACompleteRequest	true	"Challenge token and second factor"
//	@Success		200		{object}	accesssdk.TokenResponse			"Access and refresh tokens"
//	@Failure		400		{object}	accesssdk.ErrorResponse			"Malformed request body"
//	@Failure		401		{object}	accesssdk.ErrorResponse			"Unknown or expired challenge, or wrong code"
//	@Failure		429		{object}	accesssdk.ErrorResponse			"Challenge attempt budget exhausted"
//	@Failure		500		{object}	accesssdk.ErrorResponse			"Internal server error"
//	@Router			/v1/auth/mfa [post].
func (h *SessionHandler) HandleMFA(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accesssdk.MFACompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accesssdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	pair, err := h.SessionService.CompleteMFA(ctx, req.MFAToken, req.Method, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMFAToken):
			accesssdk.NewAPIError(http.StatusUnauthorized,
				accesssdk.ErrorCodeUnauthenticated,
				"unknown or expired MFA challenge").WriteError(w)
		case errors.Is(err, service.ErrInvalidMFACode):
			accesssdk.NewAPIError(http.StatusUnauthorized,
				accesssdk.ErrorCodeUnauthenticated,
				"invalid MFA code").WriteError(w)
		case errors.Is(err, service.ErrTooManyAttempts):
			accesssdk.ErrTooManyAttempts.WriteError(w)
		default:
			log.Error("MFA completion failed", "err", err)
			accesssdk.ErrServerError.WriteError(w)
		}
		return
	}

	if req.Cookie {
		setSessionCookies(w, r, pair)
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResponse(pair))
}

// HandleRefresh handles POST /v1/auth/refresh
//
//	@Summary		Rotate a refresh token
//	@Description	Exchanges a live refresh token for a new pair. Each refresh token works exactly once; replaying a rotated-away token revokes the whole session.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	accesssdk.TokenResponse		"New access and refresh tokens"
//	@Failure		400		{object}	accesssdk.ErrorResponse		"Malformed request body"
//	@Failure		401		{object}	accesssdk.ErrorResponse		"Unknown, expired, revoked or reused refresh token"
//	@Failure		500		{object}	accesssdk.ErrorResponse		"Internal server error"
//	@Router			/v1/auth/refresh [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accesssdk.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accesssdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	pair, err := h.SessionService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			accesssdk.NewAPIError(http.StatusUnauthorized,
				accesssdk.ErrorCodeUnauthenticated,
				"invalid refresh token").WriteError(w)
			return
		}
		log.Error("refresh failed", "err", err)
		accesssdk.ErrServerError.WriteError(w)
		return
	}

	if req.Cookie {
		setSessionCookies(w, r, pair)
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResponse(pair))
}

// HandleLogout handles POST /v1/auth/logout
//
//	@Summary		Log out
//	@Description	Revokes the session named by the presented credential and clears browser cookies. Idempotent: expired, revoked or absent credentials still return 204.
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Success		204	"Session revoked (or was already gone)"
//	@Failure		500	{object}	accesssdk.ErrorResponse	"Internal server error"
//	@Router			/v1/auth/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if raw := credentialFrom(r); raw != "" {
		if err := h.SessionService.Logout(ctx, raw); err != nil {
			log.Error("logout failed", "err", err)
			accesssdk.ErrServerError.WriteError(w)
			return
		}
	}

	clearSessionCookies(w, r)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe handles GET /v1/auth/me
//
//	@Summary		Current principal
//	@Description	Returns the live principal for the presented credential. Role and the forced-change flag come from the user row at read time, so a role change or revocation shows up immediately.
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accesssdk.PrincipalInfo	"Authenticated principal"
//	@Failure		401	{object}	accesssdk.ErrorResponse	"Invalid or missing credential"
//	@Router			/v1/auth/me [get].
func (h *SessionHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		writeBearerError(w, "missing credential")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, principalInfo(p))
}

// HandleIntrospect handles POST /v1/auth/introspect
//
//	@Summary		Introspect a token
//	@Description	Resource-server endpoint: examines a third-party access token and reports whether it is live, with the principal snapshot when it is. Dead tokens return 200 with active=false, never an error.
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accesssdk.IntrospectRequest			true	"Token to examine"
//	@Success		200		{object}	accesssdk.IntrospectionResponse		"Introspection result"
//	@Failure		400		{object}	accesssdk.ErrorResponse				"Malformed request body"
//	@Failure		401		{object}	accesssdk.ErrorResponse				"Caller's own credential is invalid"
//	@Failure		500		{object}	accesssdk.ErrorResponse				"Internal server error"
//	@Router			/v1/auth/introspect [post].
func (h *SessionHandler) HandleIntrospect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accesssdk.IntrospectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accesssdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	p, err := h.SessionService.Authenticate(ctx, req.Token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			httpx.WriteJSON(w, http.StatusOK, accesssdk.IntrospectionResponse{Active: false})
			return
		}
		log.Error("introspection failed", "err", err)
		accesssdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.IntrospectionResponse{
		Active:             true,
		UserID:             p.UserID,
		OrgID:              p.OrgID,
		Email:              p.Email,
		Name:               p.Name,
		Role:               string(p.Role),
		MustChangePassword: p.MustChangePassword,
		SessionID:          p.SessionID,
		AMR:                p.AMR,
	})
}
