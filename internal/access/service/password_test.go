package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/pkg/cryptox"
)

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	sessions, store := newSessionService(t)
	svc := &PasswordService{Store: store}

	org := seedOrg(t, ctx, store, domain.PlanTeam)
	seedUser(t, ctx, store, org.ID, "alice@example.com", domain.RoleLeader)

	// Two live sessions; the change happens from the first.
	current, err := sessions.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)
	other, err := sessions.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)

	p, err := sessions.Authenticate(ctx, current.AccessToken)
	require.NoError(t, err)

	const next = "N3w!passw0rd"
	require.NoError(t, svc.ChangePassword(ctx, p, testPassword, next))

	// Old credential is dead, new one works.
	_, err = sessions.Login(ctx, "alice@example.com", testPassword)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = sessions.Login(ctx, "alice@example.com", next)
	require.NoError(t, err)

	// The other session was revoked; the changing session stays live.
	_, err = sessions.Authenticate(ctx, other.AccessToken)
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, err = sessions.Authenticate(ctx, current.AccessToken)
	require.NoError(t, err)
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	ctx := context.Background()
	sessions, store := newSessionService(t)
	svc := &PasswordService{Store: store}

	org := seedOrg(t, ctx, store, domain.PlanTeam)
	seedUser(t, ctx, store, org.ID, "alice@example.com", domain.RoleLeader)

	pair, err := sessions.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)
	p, err := sessions.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, p, "not-the-password", "N3w!passw0rd")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePasswordEnforcesPolicy(t *testing.T) {
	ctx := context.Background()
	sessions, store := newSessionService(t)
	svc := &PasswordService{Store: store}

	org := seedOrg(t, ctx, store, domain.PlanTeam)
	seedUser(t, ctx, store, org.ID, "alice@example.com", domain.RoleLeader)

	pair, err := sessions.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)
	p, err := sessions.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, p, testPassword, "weak")

	var policyErr *PolicyViolationError
	require.ErrorAs(t, err, &policyErr)
	require.Contains(t, policyErr.Clauses, "min_length")
}

func TestChangePasswordClearsForcedFlag(t *testing.T) {
	ctx := context.Background()
	sessions, store := newSessionService(t)
	svc := &PasswordService{Store: store}

	org := seedOrg(t, ctx, store, domain.PlanTeam)
	user := seedUser(t, ctx, store, org.ID, "alice@example.com", domain.RoleLeader)

	// Simulate an administrative reset: forced flag on.
	hash, err := cryptox.HashPassword(testPassword)
	require.NoError(t, err)
	require.NoError(t, store.Users().UpdatePassword(ctx, user.ID, hash, true))

	pair, err := sessions.Login(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)
	p, err := sessions.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.True(t, p.MustChangePassword)

	require.NoError(t, svc.ChangePassword(ctx, p, testPassword, "N3w!passw0rd"))

	p, err = sessions.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.False(t, p.MustChangePassword)
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	sessions, store := newSessionService(t)
	svc := &PasswordService{Store: store}

	org := seedOrg(t, ctx, store, domain.PlanTeam)
	admin := seedUser(t, ctx, store, org.ID, "admin@example.com", domain.RoleAdministrator)
	target := seedUser(t, ctx, store, org.ID, "bob@example.com", domain.RoleLeader)

	// The target is logged in when the reset lands.
	pair, err := sessions.Login(ctx, "bob@example.com", testPassword)
	require.NoError(t, err)

	temp, err := svc.ResetPassword(ctx, domain.PrincipalFromUser(admin), target.ID)
	require.NoError(t, err)
	require.NotEmpty(t, temp)

	// Old credential and old sessions are gone; the temporary password
	// logs in with the forced-change flag set.
	_, err = sessions.Login(ctx, "bob@example.com", testPassword)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = sessions.Authenticate(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrUnauthenticated)

	fresh, err := sessions.Login(ctx, "bob@example.com", temp)
	require.NoError(t, err)
	p, err := sessions.Authenticate(ctx, fresh.AccessToken)
	require.NoError(t, err)
	require.True(t, p.MustChangePassword)
}

func TestResetPasswordCrossOrgReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	_, store := newSessionService(t)
	svc := &PasswordService{Store: store}

	orgA := seedOrg(t, ctx, store, domain.PlanTeam)
	orgB := seedOrg(t, ctx, store, domain.PlanTeam)
	admin := seedUser(t, ctx, store, orgA.ID, "admin@example.com", domain.RoleAdministrator)
	outsider := seedUser(t, ctx, store, orgB.ID, "outsider@example.com", domain.RoleLeader)

	_, err := svc.ResetPassword(ctx, domain.PrincipalFromUser(admin), outsider.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.ResetPassword(ctx, domain.PrincipalFromUser(admin), "no-such-user")
	require.ErrorIs(t, err, ErrUserNotFound)
}
