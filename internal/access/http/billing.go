package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/truenorthhq/truenorth/internal/access/billing"
	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/service"
	"github.com/truenorthhq/truenorth/pkg/accesssdk"
	"github.com/truenorthhq/truenorth/pkg/httpx"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

// BillingHandler serves plan descriptors and entitlement decisions.
type BillingHandler struct {
	EntitlementService *service.EntitlementService
}

// HandleInfo handles GET /v1/orgs/{id}/billing
//
//	@Summary		Organization plan descriptor
//	@Description	Returns the organization's effective plan: id, legacy flag, whether a subscription currently grants access, and the per-resource limits. Served from the provider when reachable, from the synced cache otherwise.
//	@Tags			Billing
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string					true	"Organization id"
//	@Success		200	{object}	accesssdk.PlanResponse	"Effective plan"
//	@Failure		401	{object}	accesssdk.ErrorResponse	"Invalid or missing credential"
//	@Failure		403	{object}	accesssdk.ErrorResponse	"Caller belongs to a different organization"
//	@Failure		500	{object}	accesssdk.ErrorResponse	"Internal server error"
//	@Router			/v1/orgs/{id}/billing [get].
func (h *BillingHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := PrincipalFrom(ctx)
	if !ok {
		writeBearerError(w, "missing credential")
		return
	}
	orgID := r.PathValue("id")
	if orgID != p.OrgID {
		accesssdk.ErrForbidden.WriteError(w)
		return
	}

	desc, err := h.EntitlementService.BillingInfo(ctx, orgID)
	if err != nil {
		log.Error("billing info failed", "org_id", orgID, "err", err)
		accesssdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.PlanResponse{
		PlanID:                string(desc.PlanID),
		IsLegacy:              desc.IsLegacy,
		HasActiveSubscription: desc.HasActiveSubscription,
		Limits: accesssdk.PlanLimits{
			Priorities: desc.Limits.Priorities,
			Projects:   desc.Limits.Projects,
			Users:      desc.Limits.Users,
		},
	})
}

// HandleEntitlementCheck handles POST /v1/orgs/{id}/entitlements/check
//
//	@Summary		May the organization create one more?
//	@Description	Single synchronous gate consulted before every counted create. Priority and project checks require the caller's live count; user checks count seats server-side. Denials are a 402 with the limit, the count and an upgrade hint, which the client renders directly as its upgrade prompt.
//	@Tags			Billing
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Organization id"
//	@Param			request	body		accesssdk.EntitlementCheckRequest	true	"Resource kind and current count"
//	@Success		200		{object}	accesssdk.EntitlementDecision		"Allowed"
//	@Failure		400		{object}	accesssdk.ErrorResponse				"Malformed body, unknown resource, or missing usage count"
//	@Failure		401		{object}	accesssdk.ErrorResponse				"Invalid or missing credential"
//	@Failure		402		{object}	accesssdk.ErrorResponse				"Denied: plan limit reached"
//	@Failure		403		{object}	accesssdk.ErrorResponse				"Caller belongs to a different organization"
//	@Failure		500		{object}	accesssdk.ErrorResponse				"Internal server error"
//	@Router			/v1/orgs/{id}/entitlements/check [post].
func (h *BillingHandler) HandleEntitlementCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	p, ok := PrincipalFrom(ctx)
	if !ok {
		writeBearerError(w, "missing credential")
		return
	}
	orgID := r.PathValue("id")
	if orgID != p.OrgID {
		accesssdk.ErrForbidden.WriteError(w)
		return
	}

	var req accesssdk.EntitlementCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accesssdk.ErrInvalidJSONBody.WriteError(w)
		return
	}

	kind, err := domain.ParseResourceKind(req.Resource)
	if err != nil {
		accesssdk.NewAPIError(http.StatusBadRequest,
			accesssdk.ErrorCodeInvalidRequest,
			"unknown resource kind").WriteError(w)
		return
	}

	decision, err := h.EntitlementService.CheckAndReserve(ctx, orgID, kind, req.Current)
	if err != nil {
		if errors.Is(err, service.ErrUsageRequired) {
			accesssdk.NewAPIError(http.StatusBadRequest,
				accesssdk.ErrorCodeInvalidRequest,
				"current usage count is required for this resource").WriteError(w)
			return
		}
		log.Error("entitlement check failed", "org_id", orgID, "err", err)
		accesssdk.ErrServerError.WriteError(w)
		return
	}

	if !decision.Allowed {
		limitErr := &accesssdk.LimitExceededError{
			Resource:     string(decision.Resource),
			Limit:        decision.Limit,
			Current:      decision.Current,
			UpgradeHint:  string(decision.UpgradeHint),
			ContactSales: decision.ContactSales,
		}
		limitErr.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.EntitlementDecision{
		Allowed:  true,
		Resource: string(decision.Resource),
		Limit:    decision.Limit,
		Current:  decision.Current,
	})
}

// WebhookHandler receives billing provider callbacks.
type WebhookHandler struct {
	Webhook *billing.Webhook
}

// ServeHTTP handles POST /v1/billing/webhook
//
//	@Summary		Billing provider webhook
//	@Description	HMAC-authenticated provider callback. Checkout events create the purchased organization and mint its first registration token; subscription events refresh the plan cache. Redeliveries converge on the same organization. Unknown event types are acknowledged and ignored.
//	@Tags			Billing
//	@Accept			json
//	@Produce		json
//	@Param			X-Billing-Signature	header		string						true	"Hex HMAC-SHA256 of the raw body"
//	@Success		200					{object}	accesssdk.WebhookReceipt	"Processed (or deliberately ignored)"
//	@Failure		400					{object}	accesssdk.ErrorResponse		"Undecodable or incomplete event"
//	@Failure		403					{object}	accesssdk.ErrorResponse		"Signature mismatch"
//	@Failure		500					{object}	accesssdk.ErrorResponse		"Internal server error"
//	@Router			/v1/billing/webhook [post].
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// The signature covers the raw bytes, so the body cannot go through
	// a JSON decoder first.
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		accesssdk.ErrInvalidRequest.WriteError(w)
		return
	}

	receipt, err := h.Webhook.Process(ctx, payload, r.Header.Get(billing.SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrBadSignature):
			accesssdk.NewAPIError(http.StatusForbidden,
				accesssdk.ErrorCodeForbidden,
				"webhook signature mismatch").WriteError(w)
		case errors.Is(err, billing.ErrInvalidEvent):
			accesssdk.ErrInvalidRequest.WriteError(w)
		default:
			log.Error("webhook processing failed", "err", err)
			accesssdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accesssdk.WebhookReceipt{
		OrgID:             receipt.OrgID,
		RegistrationToken: receipt.RegistrationToken,
	})
}
