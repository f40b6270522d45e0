package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimitsFor(t *testing.T) {
	tests := []struct {
		plan PlanID
		want Limits
	}{
		{PlanStarter, Limits{Priorities: 3, Projects: 10, Users: 1}},
		{PlanLeaderPro, Limits{Priorities: Unbounded, Projects: Unbounded, Users: 1}},
		{PlanTeam, Limits{Priorities: Unbounded, Projects: Unbounded, Users: 15}},
	}

	for _, tt := range tests {
		t.Run(string(tt.plan), func(t *testing.T) {
			require.Equal(t, tt.want, LimitsFor(tt.plan))
		})
	}
}

func TestLimitsForUnknownPlanFailsClosed(t *testing.T) {
	// An unknown plan must never resolve to unbounded limits.
	got := LimitsFor(PlanID("enterprise"))
	require.Equal(t, LimitsFor(PlanStarter), got)
}

func TestParsePlanID(t *testing.T) {
	for _, valid := range []string{"starter", "leaderpro", "team"} {
		p, err := ParsePlanID(valid)
		require.NoError(t, err)
		require.Equal(t, PlanID(valid), p)
	}

	_, err := ParsePlanID("platinum")
	require.Error(t, err)
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"administrator", "executive", "leader"} {
		r, err := ParseRole(valid)
		require.NoError(t, err)
		require.Equal(t, Role(valid), r)
	}

	_, err := ParseRole("superadmin")
	require.Error(t, err)
}

func TestParseResourceKind(t *testing.T) {
	for _, valid := range []string{"priority", "project", "user"} {
		k, err := ParseResourceKind(valid)
		require.NoError(t, err)
		require.Equal(t, ResourceKind(valid), k)
	}

	_, err := ParseResourceKind("seat")
	require.Error(t, err)
}

func TestSubscriptionStatusGrantsAccess(t *testing.T) {
	tests := []struct {
		status SubscriptionStatus
		want   bool
	}{
		{SubscriptionActive, true},
		{SubscriptionTrialing, true},
		{SubscriptionPastDue, true}, // dunning keeps access
		{SubscriptionLegacy, true},
		{SubscriptionCanceled, false},
		{SubscriptionStatus("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			require.Equal(t, tt.want, tt.status.GrantsAccess())
		})
	}
}

func TestRegistrationTokenStates(t *testing.T) {
	now := time.Now().UTC()

	t.Run("issued", func(t *testing.T) {
		tok := &RegistrationToken{ExpiresAt: now.Add(time.Hour)}
		require.True(t, tok.Usable(now))
		require.False(t, tok.Consumed())
		require.False(t, tok.Expired(now))
	})

	t.Run("expired", func(t *testing.T) {
		tok := &RegistrationToken{ExpiresAt: now.Add(-time.Minute)}
		require.False(t, tok.Usable(now))
		require.True(t, tok.Expired(now))
		require.False(t, tok.Consumed())
	})

	t.Run("consumed", func(t *testing.T) {
		consumed := now.Add(-time.Minute)
		tok := &RegistrationToken{ExpiresAt: now.Add(time.Hour), ConsumedAt: &consumed}
		require.False(t, tok.Usable(now))
		require.True(t, tok.Consumed())
	})
}

func TestSessionLive(t *testing.T) {
	now := time.Now().UTC()

	live := &Session{ExpiresAt: now.Add(time.Hour)}
	require.True(t, live.Live(now))

	expired := &Session{ExpiresAt: now.Add(-time.Minute)}
	require.False(t, expired.Live(now))

	revokedAt := now.Add(-time.Minute)
	revoked := &Session{ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt}
	require.False(t, revoked.Live(now))
}
