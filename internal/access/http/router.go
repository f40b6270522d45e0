package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/truenorthhq/truenorth/internal/access/authz"
	"github.com/truenorthhq/truenorth/internal/access/billing"
	"github.com/truenorthhq/truenorth/internal/access/service"
	"github.com/truenorthhq/truenorth/internal/access/store"
	"github.com/truenorthhq/truenorth/pkg/httpx"
	"github.com/truenorthhq/truenorth/pkg/jwtx"
	"github.com/truenorthhq/truenorth/pkg/slogx"

	_ "github.com/truenorthhq/truenorth/api/access" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store               store.Store
	SessionService      *service.SessionService
	RegistrationService *service.RegistrationService
	EntitlementService  *service.EntitlementService
	UserService         *service.UserService
	PasswordService     *service.PasswordService
	MFAService          *service.MFAService
	BootstrapService    *service.BootstrapService
	KeyRotationService  *service.KeyRotationService
	BillingWebhook      *billing.Webhook
}

func NewRouter(
	keys *jwtx.KeySet,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain. Anti-forgery runs globally so no
	// cookie-authenticated mutation can be registered without it.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CSRFMiddleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerRegistration()
	r.registerUsers()
	r.registerBilling()
	r.registerMFA()
	r.registerKeyRotation()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			TrueNorth Access Service API
//	@version		0.1.0
//	@description	Access control and entitlement core for TrueNorth: sessions, roles and capabilities, registration tokens, plan entitlements and billing state.
//	@description
//	@description				Access tokens are EdDSA-signed JWTs verifiable against the JWKS endpoint. Browser clients may use the tn_session cookie instead; cookie-authenticated mutations require the X-CSRF-Token header.
//
//	@contact.name				TrueNorth Engineering
//	@contact.url				https://github.com/truenorthhq/truenorth
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	h := &SessionHandler{SessionService: r.SessionService}

	// POST /login - strict rate limit by IP (credential guessing)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /mfa - strict rate limit by IP (second-factor guessing)
	r.Mux.Handle("POST /v1/auth/mfa",
		httpx.Chain(http.HandlerFunc(h.HandleMFA),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /refresh - moderate rate limit by IP (no principal yet)
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /logout - unauthenticated on purpose: revocation is best-effort
	// and must succeed for expired credentials too
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /me - authenticated read, lenient limit by user
	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			AuthnMiddleware(r.SessionService),
			RequirePasswordChanged(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// POST /introspect - trusted resource servers verifying third-party
	// tokens; caller authenticates with its own credential
	r.Mux.Handle("POST /v1/auth/introspect",
		httpx.Chain(http.HandlerFunc(h.HandleIntrospect),
			AuthnMiddleware(r.SessionService),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// POST /password - reachable under a forced change, so no
	// RequirePasswordChanged here
	pw := &PasswordHandler{PasswordService: r.PasswordService}
	r.Mux.Handle("POST /v1/auth/password",
		httpx.Chain(http.HandlerFunc(pw.HandleChange),
			AuthnMiddleware(r.SessionService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerRegistration() {
	h := &RegistrationHandler{RegistrationService: r.RegistrationService}

	// GET /registration/{token} - pre-signup form check, lenient by IP
	r.Mux.Handle("GET /v1/registration/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleValidate),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /registration/consume - strict rate limit by IP (signup endpoint)
	r.Mux.Handle("POST /v1/registration/consume",
		httpx.Chain(http.HandlerFunc(h.HandleConsume),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /invites - manage-users capability, moderate by user
	invite := &InviteHandler{RegistrationService: r.RegistrationService}
	r.Mux.Handle("POST /v1/invites",
		httpx.Chain(invite,
			AuthnMiddleware(r.SessionService),
			RequirePasswordChanged(),
			RequireCapability(authz.CapManageUsers),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UserHandler{
		UserService:     r.UserService,
		PasswordService: r.PasswordService,
	}

	// GET /users - manage-users read, lenient by user
	r.Mux.Handle("GET /v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			AuthnMiddleware(r.SessionService),
			RequirePasswordChanged(),
			RequireCapability(authz.CapManageUsers),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// POST /users/{id}/role - manage-users mutation, moderate by user
	r.Mux.Handle("POST /v1/users/{id}/role",
		httpx.Chain(http.HandlerFunc(h.HandleAssignRole),
			AuthnMiddleware(r.SessionService),
			RequirePasswordChanged(),
			RequireCapability(authz.CapManageUsers),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /users/{id}/password-reset - manage-users mutation, moderate by user
	r.Mux.Handle("POST /v1/users/{id}/password-reset",
		httpx.Chain(http.HandlerFunc(h.HandleResetPassword),
			AuthnMiddleware(r.SessionService),
			RequirePasswordChanged(),
			RequireCapability(authz.CapManageUsers),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerBilling() {
	h := &BillingHandler{EntitlementService: r.EntitlementService}

	// GET /orgs/{id}/billing - any member of the org, lenient by user
	r.Mux.Handle("GET /v1/orgs/{id}/billing",
		httpx.Chain(http.HandlerFunc(h.HandleInfo),
			AuthnMiddleware(r.SessionService),
			RequirePasswordChanged(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// POST /orgs/{id}/entitlements/check - gate consulted on every create,
	// lenient by user
	r.Mux.Handle("POST /v1/orgs/{id}/entitlements/check",
		httpx.Chain(http.HandlerFunc(h.HandleEntitlementCheck),
			AuthnMiddleware(r.SessionService),
			RequirePasswordChanged(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// POST /billing/webhook - HMAC-authenticated provider callback,
	// moderate by IP
	wh := &WebhookHandler{Webhook: r.BillingWebhook}
	r.Mux.Handle("POST /v1/billing/webhook",
		httpx.Chain(wh,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}

	// POST /mfa/enroll - moderate rate limit by user
	r.Mux.Handle("POST /v1/auth/mfa/enroll",
		httpx.Chain(http.HandlerFunc(h.HandleEnroll),
			AuthnMiddleware(r.SessionService),
			RequirePasswordChanged(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /mfa/verify - strict rate limit by user (TOTP guessing)
	r.Mux.Handle("POST /v1/auth/mfa/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			AuthnMiddleware(r.SessionService),
			RequirePasswordChanged(),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)

	// POST /mfa/backup-codes - strict rate limit by user (code verification)
	r.Mux.Handle("POST /v1/auth/mfa/backup-codes",
		httpx.Chain(http.HandlerFunc(h.HandleBackupCodes),
			AuthnMiddleware(r.SessionService),
			RequirePasswordChanged(),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)

	// POST /mfa/disable - strict rate limit by user (code verification)
	r.Mux.Handle("POST /v1/auth/mfa/disable",
		httpx.Chain(http.HandlerFunc(h.HandleDisable),
			AuthnMiddleware(r.SessionService),
			RequirePasswordChanged(),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerKeyRotation() {
	h := &KeyRotationHandler{KeyRotationService: r.KeyRotationService}

	// POST /v1/keys/rotate - manage-users capability, moderate by user
	r.Mux.Handle("POST /v1/keys/rotate",
		httpx.Chain(http.HandlerFunc(h.HandleRotate),
			AuthnMiddleware(r.SessionService),
			RequirePasswordChanged(),
			RequireCapability(authz.CapManageUsers),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /v1/keys - manage-users read, moderate by user
	r.Mux.Handle("GET /v1/keys",
		httpx.Chain(http.HandlerFunc(h.HandleListKeys),
			AuthnMiddleware(r.SessionService),
			RequirePasswordChanged(),
			RequireCapability(authz.CapManageUsers),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /v1/keys/{kid}/retire - manage-users mutation, moderate by user
	r.Mux.Handle("POST /v1/keys/{kid}/retire",
		httpx.Chain(http.HandlerFunc(h.HandleRetireKey),
			AuthnMiddleware(r.SessionService),
			RequirePasswordChanged(),
			RequireCapability(authz.CapManageUsers),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /.well-known/jwks.json - public endpoint with high limit
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerBootstrap() {
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}

	// GET /bootstrap - setup wizard poll, lenient by IP
	r.Mux.Handle("GET /v1/bootstrap",
		httpx.Chain(http.HandlerFunc(h.HandleStatus),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(http.HandlerFunc(h.HandleBootstrap),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}
