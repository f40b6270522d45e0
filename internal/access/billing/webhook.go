package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/service"
	"github.com/truenorthhq/truenorth/internal/access/store"
	"github.com/truenorthhq/truenorth/pkg/cryptox"
	"github.com/truenorthhq/truenorth/pkg/idx"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Billing-Signature"

var (
	ErrBadSignature = errors.New("invalid_webhook_signature")
	ErrInvalidEvent = errors.New("invalid_webhook_event")
)

// Event is the provider's webhook envelope. Data is event specific and
// decoded per type.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// checkoutCompleted fires when a buyer finishes checkout. It is the only
// event that creates state rather than updating it.
type checkoutCompleted struct {
	CustomerRef     string `json:"customer"`
	SubscriptionRef string `json:"subscription"`
	PlanRef         string `json:"plan_ref"`
	OrgName         string `json:"org_name"`
	Email           string `json:"email"`
}

// subscriptionEvent covers subscription.updated and subscription.deleted.
type subscriptionEvent struct {
	SubscriptionRef string `json:"subscription"`
	PlanRef         string `json:"plan_ref"`
	Status          string `json:"status"`
}

// Receipt is the acknowledgement returned to the provider. For checkout
// events it carries the purchase registration token so the provider's
// fulfillment flow can deliver it to the buyer; the app has no mail
// channel of its own.
type Receipt struct {
	OrgID             string `json:"org_id,omitempty"`
	RegistrationToken string `json:"registration_token,omitempty"`
}

// Webhook verifies and applies billing provider events.
type Webhook struct {
	Store         store.Store
	Registrations *service.RegistrationService
	Secret        string

	// PurchaseTTL bounds purchase tokens issued for checkouts. Zero
	// falls through to the registration service default.
	PurchaseTTL time.Duration
}

// Process verifies the payload signature and dispatches the event.
// Unknown event types acknowledge without effect so the provider does not
// retry them forever.
func (w *Webhook) Process(ctx context.Context, payload []byte, signature string) (Receipt, error) {
	// An unconfigured secret rejects everything. SignHMAC under the
	// empty key is computable by anyone, so it must never verify.
	if w.Secret == "" || !cryptox.VerifyHMAC(w.Secret, payload, signature) {
		return Receipt{}, ErrBadSignature
	}

	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	switch ev.Type {
	case "checkout.completed":
		return w.handleCheckout(ctx, ev.Data)
	case "subscription.updated":
		return w.handleSubscriptionChange(ctx, ev.Data, false)
	case "subscription.deleted":
		return w.handleSubscriptionChange(ctx, ev.Data, true)
	default:
		slogx.FromContext(ctx).Info("ignoring webhook event",
			slog.String("type", ev.Type),
		)
		return Receipt{}, nil
	}
}

// handleCheckout creates the purchased organization and issues the
// purchase registration token the buyer redeems to become its first
// administrator. On redelivery the organization is reused and only a
// fresh token is issued, so a delivery that failed after the insert still
// converges on a redeemable token.
func (w *Webhook) handleCheckout(ctx context.Context, data json.RawMessage) (Receipt, error) {
	l := slogx.FromContext(ctx)

	var ev checkoutCompleted
	if err := json.Unmarshal(data, &ev); err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if ev.CustomerRef == "" || ev.SubscriptionRef == "" || ev.Email == "" {
		return Receipt{}, fmt.Errorf("%w: checkout requires customer, subscription and email", ErrInvalidEvent)
	}

	planID, ok := planForRef(ev.PlanRef)
	if !ok {
		return Receipt{}, fmt.Errorf("%w: unknown plan ref %q", ErrInvalidEvent, ev.PlanRef)
	}

	org, err := w.Store.Organizations().GetOrganizationBySubscriptionRef(ctx, ev.SubscriptionRef)
	switch {
	case err == nil:
		l.Info("checkout redelivered for fulfilled subscription",
			slog.String("org_id", org.ID),
			slog.String("subscription_ref", ev.SubscriptionRef),
		)
	case errors.Is(err, store.ErrNotFound):
		name := ev.OrgName
		if name == "" {
			name = ev.Email
		}
		now := time.Now()
		org = domain.Organization{
			ID:                    idx.New().String(),
			Name:                  name,
			PlanID:                planID,
			PlanStatus:            domain.SubscriptionActive,
			PlanSyncedAt:          now,
			BillingCustomerID:     ev.CustomerRef,
			BillingSubscriptionID: ev.SubscriptionRef,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if err := w.Store.Organizations().CreateOrganization(ctx, org); err != nil {
			return Receipt{}, fmt.Errorf("failed to create organization: %w", err)
		}
		l.Info("checkout fulfilled",
			slog.String("org_id", org.ID),
			slog.String("plan", planID.String()),
		)
	default:
		return Receipt{}, fmt.Errorf("failed to look up subscription: %w", err)
	}

	token, err := w.Registrations.IssuePurchaseToken(ctx, org.ID, ev.Email, w.PurchaseTTL)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to issue purchase token: %w", err)
	}

	return Receipt{OrgID: org.ID, RegistrationToken: token}, nil
}

// handleSubscriptionChange refreshes the plan cache for the organization
// holding the subscription. Deletions force canceled and keep the plan id
// so a later reactivation restores the same limits.
func (w *Webhook) handleSubscriptionChange(ctx context.Context, data json.RawMessage, deleted bool) (Receipt, error) {
	l := slogx.FromContext(ctx)

	var ev subscriptionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if ev.SubscriptionRef == "" {
		return Receipt{}, fmt.Errorf("%w: missing subscription ref", ErrInvalidEvent)
	}

	org, err := w.Store.Organizations().GetOrganizationBySubscriptionRef(ctx, ev.SubscriptionRef)
	if errors.Is(err, store.ErrNotFound) {
		// The provider can be ahead of us (checkout not yet
		// delivered). Acknowledge so it moves on; the next resolve
		// will fetch live state anyway.
		l.Warn("webhook for unknown subscription",
			slog.String("subscription_ref", ev.SubscriptionRef),
		)
		return Receipt{}, nil
	}
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to look up subscription: %w", err)
	}

	planID := org.PlanID
	if ev.PlanRef != "" {
		if p, ok := planForRef(ev.PlanRef); ok {
			planID = p
		} else {
			l.Warn("unknown plan ref in webhook, keeping cached plan",
				slog.String("org_id", org.ID),
				slog.String("plan_ref", ev.PlanRef),
			)
		}
	}

	status := domain.SubscriptionCanceled
	if !deleted {
		s, ok := statusFor(ev.Status)
		if !ok {
			return Receipt{}, fmt.Errorf("%w: unknown status %q", ErrInvalidEvent, ev.Status)
		}
		status = s
	}

	if err := w.Store.Organizations().UpdatePlanCache(ctx, org.ID, planID, status, time.Now()); err != nil {
		return Receipt{}, fmt.Errorf("failed to update plan cache: %w", err)
	}

	l.Info("plan cache updated from webhook",
		slog.String("org_id", org.ID),
		slog.String("plan", planID.String()),
		slog.String("status", string(status)),
	)
	return Receipt{OrgID: org.ID}, nil
}
