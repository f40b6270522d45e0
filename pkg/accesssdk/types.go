package accesssdk

import (
	"time"

	"github.com/truenorthhq/truenorth/pkg/jwtx"
)

// ============================================================================
// Internal Response Types (used for JSON unmarshaling)
// ============================================================================

// ErrorResponse is the standard error envelope returned by the access
// service. It is used internally for parsing HTTP error responses; client
// code should use the typed errors from errors.go instead.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g. "unauthenticated")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Session Types
// ============================================================================

// LoginRequest is the credential payload for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// Cookie asks the service to additionally set the browser session
	// cookies (tn_session and tn_csrf) on success. API clients leave it
	// unset and use the Authorization header.
	Cookie bool `json:"cookie,omitempty"`
}

// MFACompleteRequest submits the second factor for POST /v1/auth/mfa.
type MFACompleteRequest struct {
	// MFAToken is the short-lived opaque token from the login challenge
	MFAToken string `json:"mfa_token"`

	// Method is "totp" or "backup_code"
	Method string `json:"method"`

	// Code is the 6-digit TOTP code or one backup code
	Code string `json:"code"`

	Cookie bool `json:"cookie,omitempty"`
}

// RefreshRequest rotates a session via POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`

	Cookie bool `json:"cookie,omitempty"`
}

// TokenResponse is the session pair returned by login, MFA completion and
// refresh.
type TokenResponse struct {
	// AccessToken is the EdDSA-signed JWT used to authenticate API requests
	AccessToken string `json:"access_token"`

	// RefreshToken is the opaque token used to obtain the next pair.
	// Rotated on every refresh; presenting a rotated-away token revokes
	// the session.
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the access token lifetime in seconds
	ExpiresIn int64 `json:"expires_in"`
}

// PrincipalInfo is the caller's identity snapshot returned by
// GET /v1/auth/me and by registration consume. Role and the forced-change
// flag reflect the user row at read time, not token claims.
type PrincipalInfo struct {
	UserID             string `json:"user_id"`
	OrgID              string `json:"organization_id"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"must_change_password"`
}

// IntrospectRequest carries the token to examine for POST /v1/auth/introspect.
type IntrospectRequest struct {
	Token string `json:"token"`
}

// IntrospectionResponse is the introspection result for resource servers.
// When the token is not live only Active is present and false.
type IntrospectionResponse struct {
	Active bool `json:"active"`

	// Optional fields (only present when active=true)
	UserID             string   `json:"user_id,omitempty"`
	OrgID              string   `json:"organization_id,omitempty"`
	Email              string   `json:"email,omitempty"`
	Name               string   `json:"name,omitempty"`
	Role               string   `json:"role,omitempty"`
	MustChangePassword bool     `json:"must_change_password,omitempty"`
	SessionID          string   `json:"sid,omitempty"`
	AMR                []string `json:"amr,omitempty"`
}

// ============================================================================
// Registration Types
// ============================================================================

// ValidateTokenResponse is the read-only answer for GET /v1/registration/{token}.
// Role and IntendedEmail let the signup form prefill without consuming the
// token; both are empty when the token is not valid.
type ValidateTokenResponse struct {
	Valid bool `json:"valid"`

	Role          string    `json:"role,omitempty"`
	IntendedEmail string    `json:"intended_email,omitempty"`
	ExpiresAt     time.Time `json:"expires_at,omitzero"`
}

// ConsumeTokenRequest redeems a registration token into an account via
// POST /v1/registration/consume.
type ConsumeTokenRequest struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// InviteRequest mints an invite token for POST /v1/invites.
type InviteRequest struct {
	// Role granted to the account created from this invite
	Role string `json:"role"`

	// Email binds the invite to one address when non-empty
	Email string `json:"email,omitempty"`

	// TTLHours overrides the default invite lifetime (168h) when positive
	TTLHours int `json:"ttl_hours,omitempty"`
}

// InviteResponse carries the minted token. The raw token is returned
// exactly once; the service stores only its fingerprint.
type InviteResponse struct {
	RegistrationToken string    `json:"registration_token"`
	Role              string    `json:"role"`
	ExpiresAt         time.Time `json:"expires_at"`
}

// ============================================================================
// User Management Types
// ============================================================================

// UserInfo is one organization member as returned by GET /v1/users.
type UserInfo struct {
	UserID             string    `json:"user_id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	MFAEnabled         bool      `json:"mfa_enabled"`
	MustChangePassword bool      `json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
}

// ListUsersResponse is the organization roster.
type ListUsersResponse struct {
	Users []UserInfo `json:"users"`
}

// AssignRoleRequest changes a member's role via POST /v1/users/{id}/role.
type AssignRoleRequest struct {
	Role string `json:"role"`
}

// PasswordChangeRequest is the self-service password change payload.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PasswordResetResponse carries the administrator-issued temporary
// password. Returned exactly once; the target account is flagged for a
// forced change on next login.
type PasswordResetResponse struct {
	TemporaryPassword string `json:"temporary_password"`
}

// ============================================================================
// Entitlement and Billing Types
// ============================================================================

// EntitlementCheckRequest asks whether the organization may create one more
// resource of the given kind via POST /v1/orgs/{id}/entitlements/check.
type EntitlementCheckRequest struct {
	// Resource is the counted kind: "priority", "project" or "user"
	Resource string `json:"resource"`

	// Current is the caller's live count of that resource. Required for
	// priority and project checks; user checks count seats server-side.
	Current *int64 `json:"current,omitempty"`
}

// EntitlementDecision is the allow answer from an entitlement check.
// Denials arrive as a 402 LimitExceededError instead.
type EntitlementDecision struct {
	Allowed  bool   `json:"allowed"`
	Resource string `json:"resource"`

	// Limit is the plan cap, -1 when unbounded
	Limit   int64 `json:"limit"`
	Current int64 `json:"current"`
}

// PlanLimits are the per-resource caps of a plan. -1 means unbounded.
type PlanLimits struct {
	Priorities int64 `json:"priorities"`
	Projects   int64 `json:"projects"`
	Users      int64 `json:"users"`
}

// PlanResponse describes the organization's effective plan as returned by
// GET /v1/orgs/{id}/billing.
type PlanResponse struct {
	PlanID                string     `json:"plan_id"`
	IsLegacy              bool       `json:"is_legacy"`
	HasActiveSubscription bool       `json:"has_active_subscription"`
	Limits                PlanLimits `json:"limits"`
}

// WebhookReceipt acknowledges a processed billing event. RegistrationToken
// is only present for checkout fulfilment; the provider relays it to the
// purchaser.
type WebhookReceipt struct {
	OrgID             string `json:"org_id,omitempty"`
	RegistrationToken string `json:"registration_token,omitempty"`
}

// ============================================================================
// MFA Types
// ============================================================================

// TOTPEnrollResponse represents the response from TOTP enrollment.
type TOTPEnrollResponse struct {
	Secret  string `json:"secret" example:"JBSWY3DPEHPK3PXP"`
	QRCode  string `json:"qr_code" example:"otpauth://totp/issuer:user@example.com?secret=JBSWY3DPEHPK3PXP&issuer=issuer"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

// TOTPVerifyRequest confirms enrollment with a first valid code.
type TOTPVerifyRequest struct {
	Code string `json:"code"` // 6-digit TOTP code
}

// TOTPRemoveRequest disables MFA after code verification.
type TOTPRemoveRequest struct {
	Code string `json:"code"` // 6-digit TOTP code
}

// BackupCodesRegenerateRequest replaces all backup codes.
type BackupCodesRegenerateRequest struct {
	Code string `json:"code"` // 6-digit TOTP code
}

// BackupCodesResponse carries freshly generated backup codes. Shown once;
// only fingerprints are stored.
type BackupCodesResponse struct {
	Codes []string `json:"codes"`
}

// ============================================================================
// Bootstrap Types
// ============================================================================

// BootstrapRequest seeds an empty installation with its first organization
// and administrator. Guarded by the X-Bootstrap-Token header.
type BootstrapRequest struct {
	// OrgName is the name of the first organization
	OrgName string `json:"org_name"`

	// AdminEmail is the login email for the first administrator
	AdminEmail string `json:"admin_email"`

	// AdminName is the administrator's display name
	AdminName string `json:"admin_name"`

	// AdminPassword must satisfy the password policy
	AdminPassword string `json:"admin_password"`
}

// BootstrapResponse identifies the created organization and administrator.
type BootstrapResponse struct {
	OrgID       string `json:"org_id"`
	OrgName     string `json:"org_name"`
	AdminUserID string `json:"admin_user_id"`
	AdminEmail  string `json:"admin_email"`
}

// BootstrapStatusResponse answers GET /v1/bootstrap.
type BootstrapStatusResponse struct {
	Bootstrapped bool `json:"bootstrapped"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check
// endpoints. Used by both /livez and /readyz (readyz includes the
// additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Signer indicates the JWT signing capability status
	Signer string `json:"signer"`
}

// ============================================================================
// JWKS Types
// ============================================================================

// JWKSResponse contains the JSON Web Key Set returned from
// GET /.well-known/jwks.json. It lists the public keys, active and retired
// but still verifying, used to check access token signatures.
type JWKSResponse jwtx.JWKS

// ============================================================================
// Key Rotation Types
// ============================================================================

// RotateKeyRequest represents a request to rotate signing keys.
type RotateKeyRequest struct {
	// RetireExisting will mark current active keys as retired if true.
	// If false, the new key is added alongside existing keys.
	RetireExisting bool `json:"retire_existing"`
}

// SigningKeyInfo is the public view of one signing key.
type SigningKeyInfo struct {
	Kid       string     `json:"kid"`
	Algorithm string     `json:"algorithm"`
	CreatedAt time.Time  `json:"created_at,omitzero"`
	RetiredAt *time.Time `json:"retired_at,omitempty"` // null while active
	ExpiresAt time.Time  `json:"expires_at,omitzero"`
}

// RotateKeyResponse represents the result of a key rotation operation.
type RotateKeyResponse struct {
	NewKey      SigningKeyInfo   `json:"new_key"`
	RetiredKeys []SigningKeyInfo `json:"retired_keys,omitempty"`
	ActiveKeys  int              `json:"active_keys"`
}

// ListKeysResponse lists every known signing key, newest first.
type ListKeysResponse struct {
	Keys []SigningKeyInfo `json:"keys"`
}
