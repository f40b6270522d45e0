package authz_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/truenorthhq/truenorth/internal/access/authz"
	"github.com/truenorthhq/truenorth/internal/access/domain"
)

// Expected policy, row per capability: administrator, executive,
// leader-as-owner, leader-as-non-owner.
var policyRows = []struct {
	capability     authz.Capability
	admin          bool
	executive      bool
	leaderOwner    bool
	leaderNonOwner bool
}{
	{authz.CapEditStrategy, true, true, false, false},
	{authz.CapCreateStrategy, true, true, false, false},
	{authz.CapEditTactic, true, true, true, true},
	{authz.CapCreateTactic, true, true, false, false},
	{authz.CapWriteReport, true, true, true, true},
	{authz.CapManageUsers, true, false, false, false},
}

func TestEvaluateMatchesPolicyTable(t *testing.T) {
	for _, row := range policyRows {
		t.Run(string(row.capability), func(t *testing.T) {
			// Administrators and executives are unaffected by ownership.
			for _, isOwner := range []bool{true, false} {
				require.Equal(t, row.admin,
					authz.Evaluate(domain.RoleAdministrator, row.capability, isOwner),
					"administrator, isOwner=%v", isOwner)
				require.Equal(t, row.executive,
					authz.Evaluate(domain.RoleExecutive, row.capability, isOwner),
					"executive, isOwner=%v", isOwner)
			}

			require.Equal(t, row.leaderOwner,
				authz.Evaluate(domain.RoleLeader, row.capability, true),
				"leader as owner")
			require.Equal(t, row.leaderNonOwner,
				authz.Evaluate(domain.RoleLeader, row.capability, false),
				"leader as non-owner")
		})
	}
}

func TestEvaluateIsTotalOverTheClosedSets(t *testing.T) {
	// Every (role, capability, ownership) combination has a defined answer.
	roles := []domain.Role{domain.RoleAdministrator, domain.RoleExecutive, domain.RoleLeader}
	for _, role := range roles {
		for _, capability := range authz.Capabilities() {
			for _, isOwner := range []bool{true, false} {
				// Just proving no panic and a boolean result exists.
				_ = authz.Evaluate(role, capability, isOwner)
			}
		}
	}
}

func TestEvaluateDeniesUnknownInputs(t *testing.T) {
	require.False(t, authz.Evaluate(domain.Role("superadmin"), authz.CapManageUsers, true))
	require.False(t, authz.Evaluate(domain.RoleAdministrator, authz.Capability("delete_everything"), true))
}

func TestRequire(t *testing.T) {
	require.NoError(t, authz.Require(domain.RoleAdministrator, authz.CapManageUsers, false))

	err := authz.Require(domain.RoleExecutive, authz.CapManageUsers, false)
	require.ErrorIs(t, err, authz.ErrForbidden)
}

func TestParseCapability(t *testing.T) {
	for _, c := range authz.Capabilities() {
		parsed, err := authz.ParseCapability(string(c))
		require.NoError(t, err)
		require.Equal(t, c, parsed)
	}

	_, err := authz.ParseCapability("fly_helicopter")
	require.Error(t, err)
}
