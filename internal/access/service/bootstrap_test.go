package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/store/drivers/sqlite"
)

func newBootstrapService(t *testing.T, token string) (*BootstrapService, *sqlite.Store) {
	t.Helper()

	store, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.ApplyMigrations())

	return &BootstrapService{Store: store, Token: token}, store
}

func validBootstrap() domain.BootstrapData {
	return domain.BootstrapData{
		OrgName:       "True North HQ",
		AdminEmail:    "Admin@Example.com",
		AdminName:     "First Admin",
		AdminPassword: testPassword,
	}
}

func TestBootstrapCreatesFirstOrgAndAdmin(t *testing.T) {
	ctx := context.Background()
	svc, store := newBootstrapService(t, "boot-secret")

	admin, org, err := svc.Bootstrap(ctx, "boot-secret", validBootstrap())
	require.NoError(t, err)

	// The first organization lands on the team plan with full access.
	require.Equal(t, domain.PlanTeam, org.PlanID)
	require.Equal(t, domain.SubscriptionActive, org.PlanStatus)

	require.Equal(t, domain.RoleAdministrator, admin.Role)
	require.Equal(t, "admin@example.com", admin.Email)
	require.Equal(t, org.ID, admin.OrgID)

	stored, err := store.Users().GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.Equal(t, admin.ID, stored.ID)

	bootstrapped, err := svc.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.True(t, bootstrapped)
}

func TestBootstrapIsSingleShot(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBootstrapService(t, "boot-secret")

	_, _, err := svc.Bootstrap(ctx, "boot-secret", validBootstrap())
	require.NoError(t, err)

	_, _, err = svc.Bootstrap(ctx, "boot-secret", validBootstrap())
	require.ErrorIs(t, err, ErrBootstrapAlready)
}

func TestBootstrapGuardToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBootstrapService(t, "boot-secret")

	_, _, err := svc.Bootstrap(ctx, "wrong-token", validBootstrap())
	require.ErrorIs(t, err, ErrBootstrapUnauthorized)

	_, _, err = svc.Bootstrap(ctx, "", validBootstrap())
	require.ErrorIs(t, err, ErrBootstrapUnauthorized)
}

func TestBootstrapDisabledWithoutToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBootstrapService(t, "")

	// An unconfigured guard token disables bootstrap outright, matching
	// empty input included.
	_, _, err := svc.Bootstrap(ctx, "", validBootstrap())
	require.ErrorIs(t, err, ErrBootstrapUnauthorized)
}

func TestBootstrapValidatesInput(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBootstrapService(t, "boot-secret")

	missing := validBootstrap()
	missing.OrgName = "   "
	_, _, err := svc.Bootstrap(ctx, "boot-secret", missing)
	require.ErrorIs(t, err, ErrInvalidBootstrap)

	weak := validBootstrap()
	weak.AdminPassword = "weak"
	_, _, err = svc.Bootstrap(ctx, "boot-secret", weak)

	var policyErr *PolicyViolationError
	require.ErrorAs(t, err, &policyErr)
	require.NotEmpty(t, policyErr.Clauses)
}
