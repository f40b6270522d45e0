// Package authz is the role authorizer: one declarative table over
// (role, capability, ownership), consulted by a single evaluator. Pure and
// deterministic, no I/O. Adding a role or capability is a table edit.
package authz

import (
	"errors"
	"fmt"

	"github.com/truenorthhq/truenorth/internal/access/domain"
)

// ErrForbidden is an authorization denial. Distinct from an authentication
// failure: the caller is known, just not permitted.
var ErrForbidden = errors.New("authz: forbidden")

// Capability is the closed set of guarded actions.
type Capability string

const (
	CapEditStrategy   Capability = "edit_strategy"
	CapCreateStrategy Capability = "create_strategy"
	CapEditTactic     Capability = "edit_tactic"
	CapCreateTactic   Capability = "create_tactic"
	CapWriteReport    Capability = "write_report"
	CapManageUsers    Capability = "manage_users"
)

// ParseCapability validates the wire form of a capability.
func ParseCapability(s string) (Capability, error) {
	c := Capability(s)
	if _, ok := policy[c]; !ok {
		return "", fmt.Errorf("authz: unknown capability %q", s)
	}
	return c, nil
}

// decision is one policy cell, split by whether the principal owns the
// acted-on resource.
type decision struct {
	owner    bool
	nonOwner bool
}

var (
	allow = decision{owner: true, nonOwner: true}
	deny  = decision{}
)

// policy is the entire authorization policy. "Owner" means the resource's
// assignee equals the principal; administrators and executives carry the
// same cell either way.
var policy = map[Capability]map[domain.Role]decision{
	CapEditStrategy: {
		domain.RoleAdministrator: allow,
		domain.RoleExecutive:     allow,
		domain.RoleLeader:        deny,
	},
	CapCreateStrategy: {
		domain.RoleAdministrator: allow,
		domain.RoleExecutive:     allow,
		domain.RoleLeader:        deny,
	},
	CapEditTactic: {
		domain.RoleAdministrator: allow,
		domain.RoleExecutive:     allow,
		domain.RoleLeader:        allow,
	},
	CapCreateTactic: {
		domain.RoleAdministrator: allow,
		domain.RoleExecutive:     allow,
		domain.RoleLeader:        deny,
	},
	CapWriteReport: {
		domain.RoleAdministrator: allow,
		domain.RoleExecutive:     allow,
		domain.RoleLeader:        allow,
	},
	CapManageUsers: {
		domain.RoleAdministrator: allow,
		domain.RoleExecutive:     deny,
		domain.RoleLeader:        deny,
	},
}

// Evaluate reports whether the role may perform the capability. A role or
// capability outside the table always denies.
func Evaluate(role domain.Role, capability Capability, isOwner bool) bool {
	cells, ok := policy[capability]
	if !ok {
		return false
	}
	cell, ok := cells[role]
	if !ok {
		return false
	}
	if isOwner {
		return cell.owner
	}
	return cell.nonOwner
}

// Require is Evaluate with an error: ErrForbidden on denial.
func Require(role domain.Role, capability Capability, isOwner bool) error {
	if !Evaluate(role, capability, isOwner) {
		return ErrForbidden
	}
	return nil
}

// Capabilities returns the closed capability set.
func Capabilities() []Capability {
	return []Capability{
		CapEditStrategy,
		CapCreateStrategy,
		CapEditTactic,
		CapCreateTactic,
		CapWriteReport,
		CapManageUsers,
	}
}
