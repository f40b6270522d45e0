package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/store"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

// Resolver turns an organization id into its effective plan descriptor.
//
// Legacy organizations never touch the provider: their plan is the stored
// grant. Everyone else gets a live provider lookup, and a successful
// answer refreshes the persisted plan columns. When the provider is
// unreachable or returns something the mapping tables do not recognize,
// the resolver serves the persisted columns unchanged. The fallback never
// widens limits, because unknown plans resolve to starter caps.
type Resolver struct {
	Store    store.Store
	Provider Provider
}

// Resolve returns the organization's current plan descriptor.
func (r *Resolver) Resolve(ctx context.Context, orgID string) (domain.PlanDescriptor, error) {
	org, err := r.Store.Organizations().GetOrganizationByID(ctx, orgID)
	if err != nil {
		return domain.PlanDescriptor{}, fmt.Errorf("failed to load organization: %w", err)
	}

	if org.IsLegacy {
		return domain.DescriptorFor(org.PlanID, true, true), nil
	}

	// Organizations created before checkout completes (bootstrap, mid
	// webhook) have no customer ref yet. The cache is all there is.
	if org.BillingCustomerID == "" {
		return cachedDescriptor(org), nil
	}

	l := slogx.FromContext(ctx)

	sub, err := r.Provider.CurrentSubscription(ctx, org.BillingCustomerID)
	switch {
	case errors.Is(err, ErrNoSubscription):
		r.refreshCache(ctx, org.ID, org.PlanID, domain.SubscriptionCanceled)
		return domain.DescriptorFor(org.PlanID, false, false), nil
	case err != nil:
		l.Warn("billing provider lookup failed, serving cached plan",
			slog.String("org_id", org.ID),
			slog.Any("error", err),
		)
		return cachedDescriptor(org), nil
	}

	planID, ok := planForRef(sub.PlanRef)
	if !ok {
		l.Warn("unknown provider plan ref, serving cached plan",
			slog.String("org_id", org.ID),
			slog.String("plan_ref", sub.PlanRef),
		)
		return cachedDescriptor(org), nil
	}

	status, ok := statusFor(sub.Status)
	if !ok {
		l.Warn("unknown provider subscription status, serving cached plan",
			slog.String("org_id", org.ID),
			slog.String("status", sub.Status),
		)
		return cachedDescriptor(org), nil
	}

	r.refreshCache(ctx, org.ID, planID, status)
	return domain.DescriptorFor(planID, false, status.GrantsAccess()), nil
}

// refreshCache persists the freshly resolved plan columns. A write
// failure is logged and swallowed: the caller already holds the correct
// answer, and the next resolve retries the write.
func (r *Resolver) refreshCache(ctx context.Context, orgID string, plan domain.PlanID, status domain.SubscriptionStatus) {
	if err := r.Store.Organizations().UpdatePlanCache(ctx, orgID, plan, status, time.Now()); err != nil {
		slogx.FromContext(ctx).Warn("failed to refresh plan cache",
			slog.String("org_id", orgID),
			slog.Any("error", err),
		)
	}
}

// cachedDescriptor builds a descriptor from the persisted plan columns.
func cachedDescriptor(org domain.Organization) domain.PlanDescriptor {
	return domain.DescriptorFor(org.PlanID, org.IsLegacy, org.PlanStatus.GrantsAccess())
}
