package sqlite

import (
	"context"
	"time"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/store/drivers/sqlite/gen"
)

type organizationsRepo struct {
	q *gen.Queries
}

func (r *organizationsRepo) CreateOrganization(ctx context.Context, o domain.Organization) error {
	return r.q.CreateOrganization(ctx, gen.CreateOrganizationParams{
		ID:                    o.ID,
		Name:                  o.Name,
		PlanID:                string(o.PlanID),
		PlanStatus:            string(o.PlanStatus),
		IsLegacy:              o.IsLegacy,
		PlanSyncedAt:          o.PlanSyncedAt,
		BillingCustomerID:     o.BillingCustomerID,
		BillingSubscriptionID: o.BillingSubscriptionID,
	})
}

func (r *organizationsRepo) GetOrganizationByID(
	ctx context.Context,
	id string,
) (domain.Organization, error) {
	row, err := r.q.GetOrganizationByID(ctx, id)
	if err != nil {
		return domain.Organization{}, mapNotFound(err)
	}
	return mapOrganization(row), nil
}

func (r *organizationsRepo) GetOrganizationBySubscriptionRef(
	ctx context.Context,
	ref string,
) (domain.Organization, error) {
	row, err := r.q.GetOrganizationBySubscriptionRef(ctx, ref)
	if err != nil {
		return domain.Organization{}, mapNotFound(err)
	}
	return mapOrganization(row), nil
}

func (r *organizationsRepo) UpdatePlanCache(
	ctx context.Context,
	orgID string,
	plan domain.PlanID,
	status domain.SubscriptionStatus,
	syncedAt time.Time,
) error {
	return r.q.UpdateOrganizationPlanCache(ctx, gen.UpdateOrganizationPlanCacheParams{
		PlanID:       string(plan),
		PlanStatus:   string(status),
		PlanSyncedAt: syncedAt,
		ID:           orgID,
	})
}

func (r *organizationsRepo) UpdateBillingRefs(
	ctx context.Context,
	orgID, customerRef, subscriptionRef string,
) error {
	return r.q.UpdateOrganizationBillingRefs(ctx, gen.UpdateOrganizationBillingRefsParams{
		BillingCustomerID:     customerRef,
		BillingSubscriptionID: subscriptionRef,
		ID:                    orgID,
	})
}

func (r *organizationsRepo) IsEmpty(ctx context.Context) (bool, error) {
	count, err := r.q.CountOrganizations(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
