package domain

import "fmt"

// Role is the closed set of user roles. Authorization is a data-driven table
// over these values, so adding a role is a visible change here and in the
// table, never a conditional hunt.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleExecutive     Role = "executive"
	RoleLeader        Role = "leader"
)

// ParseRole validates the wire/storage form of a role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("domain: unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether the role is a member of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleExecutive, RoleLeader:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
