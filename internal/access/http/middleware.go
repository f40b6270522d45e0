package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/truenorthhq/truenorth/internal/access/authz"
	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/service"
	"github.com/truenorthhq/truenorth/pkg/accesssdk"
	"github.com/truenorthhq/truenorth/pkg/httpx"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

type principalCtxKey struct{}

func withPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// PrincipalFrom returns the authenticated principal injected by the authn
// middleware. ok is false on unauthenticated requests.
func PrincipalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(domain.Principal)
	return p, ok
}

// credentialFrom extracts the raw access token from the Authorization
// header, falling back to the tn_session cookie for browser requests.
func credentialFrom(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		}
		return ""
	}
	if c, err := r.Cookie(httpx.SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// AuthnMiddleware authenticates every request through the session service,
// so revoked sessions and stale roles are caught live rather than trusted
// from claims. The resulting principal is injected into the request context.
func AuthnMiddleware(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := credentialFrom(r)
			if raw == "" {
				writeBearerError(w, "missing credential")
				return
			}

			p, err := sessions.Authenticate(ctx, raw)
			if err != nil {
				if !errors.Is(err, service.ErrUnauthenticated) {
					log.Error("authentication failed", "err", err)
					accesssdk.ErrServerError.WriteError(w)
					return
				}
				writeBearerError(w, "invalid or expired credential")
				return
			}

			ctx = withPrincipal(ctx, p)
			ctx = httpx.WithUserID(ctx, p.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability gates a route on the authorization matrix. Ownership
// does not apply to the routes this service hosts, so the non-owner cell
// decides.
func RequireCapability(capability authz.Capability) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				writeBearerError(w, "missing credential")
				return
			}
			if err := authz.Require(p.Role, capability, false); err != nil {
				accesssdk.ErrForbidden.WriteError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePasswordChanged blocks accounts flagged for a forced password
// change. Applied to every authenticated route except the password change
// and logout endpoints, which must stay reachable for the reset to finish.
func RequirePasswordChanged() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if ok && p.MustChangePassword {
				accesssdk.ErrPasswordChangeRequired.WriteError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	accesssdk.NewAPIError(http.StatusUnauthorized, accesssdk.ErrorCodeUnauthenticated, desc).WriteError(w)
}
