package accesssdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/truenorthhq/truenorth/pkg/httpx"
)

// ============================================================================
// API Error Codes
// ============================================================================

const (
	// Error codes returned in the "error" field of failure responses.
	ErrorCodeInvalidRequest         = "invalid_request"
	ErrorCodeUnauthenticated        = "unauthenticated"
	ErrorCodeForbidden              = "forbidden"
	ErrorCodeCSRFMismatch           = "csrf_mismatch"
	ErrorCodePasswordChangeRequired = "password_change_required"
	ErrorCodeTokenNotFound          = "token_not_found"
	ErrorCodeTokenExpired           = "token_expired"
	ErrorCodeTokenAlreadyConsumed   = "token_already_consumed"
	ErrorCodeTokenEmailMismatch     = "token_email_mismatch"
	ErrorCodePasswordPolicy         = "password_policy"
	ErrorCodeLimitExceeded          = "limit_exceeded"
	ErrorCodeMFARequired            = "mfa_required"
	ErrorCodeTooManyAttempts        = "too_many_attempts"
	ErrorCodeConflict               = "conflict"
	ErrorCodeServerError            = "server_error"
)

// ============================================================================
// APIError - standard typed error
// ============================================================================

// APIError is the wire form of every failure response. It implements the
// error interface and is used both by the server (to write HTTP responses)
// and by the SDK client (to represent errors), so collaborator services can
// classify failures with errors.Is against the predefined values below.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g. "unauthenticated")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches any APIError with the same code, so wrapped copies with
// customised descriptions still classify against the predefined values.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// ============================================================================
// Predefined API Errors
// ============================================================================

var (
	// ErrInvalidRequest is returned when the request is missing a required
	// parameter, includes an invalid parameter value, or is otherwise
	// malformed.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrUnauthenticated is returned when the credential is missing,
	// malformed, expired, or its session has been revoked. Bad login
	// attempts return the same error so unknown emails and wrong
	// passwords are indistinguishable.
	ErrUnauthenticated = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthenticated,
		Description: "authentication required",
	}

	// ErrForbidden is returned when the authenticated principal's role
	// does not grant the capability the request needs.
	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "permission denied",
	}

	// ErrCSRFMismatch is returned when a cookie-authenticated mutation is
	// missing the anti-forgery header or its value does not match the
	// csrf cookie. Distinct from role denial so browser clients can react.
	ErrCSRFMismatch = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeCSRFMismatch,
		Description: "missing or invalid anti-forgery token",
	}

	// ErrPasswordChangeRequired is returned for every protected endpoint
	// except password change and logout while the account is flagged for
	// a forced password change.
	ErrPasswordChangeRequired = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodePasswordChangeRequired,
		Description: "password must be changed before continuing",
	}

	// ErrTokenNotFound is returned when a registration token does not
	// exist. Expired tokens that have been purged also land here.
	ErrTokenNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeTokenNotFound,
		Description: "registration token not found",
	}

	// ErrTokenExpired is returned when a registration token aged out
	// before it was consumed.
	ErrTokenExpired = &APIError{
		StatusCode:  http.StatusGone,
		Code:        ErrorCodeTokenExpired,
		Description: "registration token has expired",
	}

	// ErrTokenAlreadyConsumed is returned when a registration token was
	// already used to create an account. Consumption is single-use.
	ErrTokenAlreadyConsumed = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeTokenAlreadyConsumed,
		Description: "registration token has already been used",
	}

	// ErrTokenEmailMismatch is returned when a registration token is bound
	// to a specific email and the request supplies a different one.
	ErrTokenEmailMismatch = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeTokenEmailMismatch,
		Description: "registration token was issued for a different email",
	}

	// ErrTooManyAttempts is returned when an MFA challenge runs out of
	// verification attempts or a rate limit trips.
	ErrTooManyAttempts = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeTooManyAttempts,
		Description: "too many attempts",
	}

	// ErrConflict is returned when the request cannot proceed because of
	// the current state of the target resource (e.g. email already
	// registered, demoting the last administrator).
	ErrConflict = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConflict,
		Description: "request conflicts with current state",
	}

	// ErrServerError is returned for unexpected faults. Details are
	// logged server-side, never leaked to the client.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	// ErrMethodNotAllowed is returned when the HTTP method is not allowed.
	ErrMethodNotAllowed = &APIError{
		StatusCode:  http.StatusMethodNotAllowed,
		Code:        ErrorCodeInvalidRequest,
		Description: "method not allowed",
	}

	// ErrInvalidJSONBody is returned when the request body cannot be
	// parsed as JSON.
	ErrInvalidJSONBody = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "invalid json body",
	}
)

// NewAPIError creates a new APIError with the given status code, error code,
// and description. Useful for custom descriptions while keeping the wire
// format consistent.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// ============================================================================
// MFA challenge
// ============================================================================

// MFARequiredError is returned when the password checked out but the
// account has a second factor enabled. It carries the opaque mfa_token the
// client must echo back with the TOTP or backup code. Returned with HTTP
// 409 Conflict: the request was valid but conflicts with the account's
// MFA-enabled state.
type MFARequiredError struct {
	// MFAToken is the token to use when submitting the second factor
	MFAToken string `json:"mfa_token"`

	// Methods lists the available MFA methods (e.g. ["totp", "backup_codes"])
	Methods []string `json:"mfa_methods"`
}

// Error implements the error interface.
func (e *MFARequiredError) Error() string {
	return fmt.Sprintf("MFA required: available methods=%v", e.Methods)
}

// WriteError writes the MFA challenge as a 409 Conflict.
func (e *MFARequiredError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":             ErrorCodeMFARequired,
		"error_description": "multi-factor authentication is required to complete this request",
		"mfa_required":      true,
		"mfa_token":         e.MFAToken,
		"mfa_methods":       e.Methods,
	})
}

// ============================================================================
// Password policy violation
// ============================================================================

// PolicyViolationError is returned when a new password fails the policy.
// Clauses names every unmet rule so clients can show all problems at once
// instead of one per attempt.
type PolicyViolationError struct {
	Clauses []string `json:"clauses"`
}

// Error implements the error interface.
func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("password policy violation: %v", e.Clauses)
}

// WriteError writes the violation as a 422 Unprocessable Entity.
func (e *PolicyViolationError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":             ErrorCodePasswordPolicy,
		"error_description": "password does not meet the policy",
		"clauses":           e.Clauses,
	})
}

// ============================================================================
// Plan limit exceeded
// ============================================================================

// UpgradeReason says why the client should show its upgrade prompt.
type UpgradeReason string

const (
	UpgradeReasonLimitReached  UpgradeReason = "limit_reached"
	UpgradeReasonManual        UpgradeReason = "manual"
	UpgradeReasonFeatureLocked UpgradeReason = "feature_locked"
)

// UpgradeResource is the resource named in the upgrade prompt. Plural wire
// forms, with "none" for prompts not tied to a counted resource.
type UpgradeResource string

const (
	UpgradeResourcePriorities UpgradeResource = "priorities"
	UpgradeResourceProjects   UpgradeResource = "projects"
	UpgradeResourceUsers      UpgradeResource = "users"
	UpgradeResourceNone       UpgradeResource = "none"
)

// UpgradeModal is the closed (reason, resource) pair that drives the
// client's upgrade prompt.
type UpgradeModal struct {
	Reason   UpgradeReason   `json:"reason"`
	Resource UpgradeResource `json:"resource"`
}

// ModalResourceFor maps a singular resource kind from an entitlement
// decision to the plural modal form.
func ModalResourceFor(kind string) UpgradeResource {
	switch kind {
	case "priority":
		return UpgradeResourcePriorities
	case "project":
		return UpgradeResourceProjects
	case "user":
		return UpgradeResourceUsers
	default:
		return UpgradeResourceNone
	}
}

// LimitExceededError is returned when an entitlement check denies one more
// resource. It is a distinct 402 Payment Required response, never a generic
// error, because the client turns it directly into an upgrade prompt.
type LimitExceededError struct {
	// Resource is the denied resource kind: "priority", "project", "user".
	Resource string `json:"resource"`

	// Limit is the plan cap that was hit. Current is the count presented.
	Limit   int64 `json:"limit"`
	Current int64 `json:"current"`

	// UpgradeHint is the recommended plan, empty when ContactSales is set
	// or when the hint is suppressed for legacy grants.
	UpgradeHint  string `json:"upgrade_hint,omitempty"`
	ContactSales bool   `json:"contact_sales,omitempty"`
}

// Error implements the error interface.
func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("limit exceeded: %s at %d/%d", e.Resource, e.Current, e.Limit)
}

// Modal returns the upgrade prompt state for this denial.
func (e *LimitExceededError) Modal() UpgradeModal {
	return UpgradeModal{
		Reason:   UpgradeReasonLimitReached,
		Resource: ModalResourceFor(e.Resource),
	}
}

// WriteError writes the denial as a 402 Payment Required.
func (e *LimitExceededError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusPaymentRequired)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":             ErrorCodeLimitExceeded,
		"error_description": "plan limit reached",
		"resource":          e.Resource,
		"limit":             e.Limit,
		"current":           e.Current,
		"upgrade_hint":      e.UpgradeHint,
		"contact_sales":     e.ContactSales,
		"upgrade_modal":     e.Modal(),
	})
}

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a failure response into the matching typed error.
// Returns nil for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// MFA challenge (409 with mfa_required code)
	if resp.StatusCode == http.StatusConflict {
		var mfaResp struct {
			Error      string   `json:"error"`
			MFAToken   string   `json:"mfa_token"`
			MFAMethods []string `json:"mfa_methods"`
		}
		if err := json.Unmarshal(body, &mfaResp); err == nil {
			if mfaResp.Error == ErrorCodeMFARequired && mfaResp.MFAToken != "" {
				return &MFARequiredError{
					MFAToken: mfaResp.MFAToken,
					Methods:  mfaResp.MFAMethods,
				}
			}
		}
	}

	// Password policy violation (422 with clauses)
	if resp.StatusCode == http.StatusUnprocessableEntity {
		var policyResp struct {
			Error   string   `json:"error"`
			Clauses []string `json:"clauses"`
		}
		if err := json.Unmarshal(body, &policyResp); err == nil && policyResp.Error == ErrorCodePasswordPolicy {
			return &PolicyViolationError{Clauses: policyResp.Clauses}
		}
	}

	// Entitlement denial (402 with limit payload)
	if resp.StatusCode == http.StatusPaymentRequired {
		var limitResp struct {
			Error        string `json:"error"`
			Resource     string `json:"resource"`
			Limit        int64  `json:"limit"`
			Current      int64  `json:"current"`
			UpgradeHint  string `json:"upgrade_hint"`
			ContactSales bool   `json:"contact_sales"`
		}
		if err := json.Unmarshal(body, &limitResp); err == nil && limitResp.Error == ErrorCodeLimitExceeded {
			return &LimitExceededError{
				Resource:     limitResp.Resource,
				Limit:        limitResp.Limit,
				Current:      limitResp.Current,
				UpgradeHint:  limitResp.UpgradeHint,
				ContactSales: limitResp.ContactSales,
			}
		}
	}

	// Standard APIError envelope
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	// Fall back to a generic error carrying the status code
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("unexpected response status %d", resp.StatusCode),
	}
}
