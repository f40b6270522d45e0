package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/store/drivers/sqlite"
)

// staticResolver serves a fixed descriptor, standing in for the billing
// resolver.
type staticResolver struct {
	desc domain.PlanDescriptor
}

func (r staticResolver) Resolve(ctx context.Context, orgID string) (domain.PlanDescriptor, error) {
	return r.desc, nil
}

func newEntitlementService(t *testing.T, plan domain.PlanID) (*EntitlementService, *sqlite.Store) {
	t.Helper()

	store, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.ApplyMigrations())

	svc := &EntitlementService{
		Store:    store,
		Resolver: staticResolver{desc: domain.DescriptorFor(plan, false, true)},
	}
	return svc, store
}

func TestCheckSeatsCountsUsersItself(t *testing.T) {
	ctx := context.Background()
	svc, store := newEntitlementService(t, domain.PlanTeam)

	org := seedOrg(t, ctx, store, domain.PlanTeam)
	seedUser(t, ctx, store, org.ID, "a@example.com", domain.RoleAdministrator)
	seedUser(t, ctx, store, org.ID, "b@example.com", domain.RoleLeader)

	d, err := svc.CheckSeats(ctx, org.ID)
	require.NoError(t, err)
	require.True(t, d.Allowed)
	require.Equal(t, domain.ResourceUser, d.Resource)
	require.Equal(t, int64(2), d.Current)
	require.Equal(t, int64(15), d.Limit)
}

func TestCheckAndReserveRequiresUsageForForeignResources(t *testing.T) {
	ctx := context.Background()
	svc, store := newEntitlementService(t, domain.PlanStarter)

	org := seedOrg(t, ctx, store, domain.PlanStarter)

	// Priorities and projects are counted by their owning services, so
	// the count has to come in with the request.
	_, err := svc.CheckAndReserve(ctx, org.ID, domain.ResourcePriority, nil)
	require.ErrorIs(t, err, ErrUsageRequired)

	count := int64(2)
	d, err := svc.CheckAndReserve(ctx, org.ID, domain.ResourcePriority, &count)
	require.NoError(t, err)
	require.True(t, d.Allowed)
}

func TestCheckAndReserveDeniesAtLimit(t *testing.T) {
	ctx := context.Background()
	svc, store := newEntitlementService(t, domain.PlanStarter)

	org := seedOrg(t, ctx, store, domain.PlanStarter)

	count := int64(3)
	d, err := svc.CheckAndReserve(ctx, org.ID, domain.ResourcePriority, &count)
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Equal(t, int64(3), d.Limit)
	require.Equal(t, domain.PlanLeaderPro, d.UpgradeHint)

	limitErr := limitError(d)
	require.Equal(t, "priority", limitErr.Resource)
	require.Equal(t, "leaderpro", limitErr.UpgradeHint)
	require.False(t, limitErr.ContactSales)
}

func TestCheckSeatsDeniedPointsAtTeam(t *testing.T) {
	ctx := context.Background()
	svc, store := newEntitlementService(t, domain.PlanStarter)

	org := seedOrg(t, ctx, store, domain.PlanStarter)
	seedUser(t, ctx, store, org.ID, "solo@example.com", domain.RoleAdministrator)

	d, err := svc.CheckSeats(ctx, org.ID)
	require.NoError(t, err)
	require.False(t, d.Allowed)
	require.Equal(t, int64(1), d.Limit)
	require.Equal(t, int64(1), d.Current)
	require.Equal(t, domain.PlanTeam, d.UpgradeHint)
}
