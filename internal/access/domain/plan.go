package domain

import "fmt"

// PlanID identifies a subscription plan in the catalog.
type PlanID string

const (
	PlanStarter   PlanID = "starter"
	PlanLeaderPro PlanID = "leaderpro"
	PlanTeam      PlanID = "team"
)

// ParsePlanID validates the wire/storage form of a plan id.
func ParsePlanID(s string) (PlanID, error) {
	p := PlanID(s)
	if !p.Valid() {
		return "", fmt.Errorf("domain: unknown plan %q", s)
	}
	return p, nil
}

// Valid reports whether the plan id is a member of the catalog.
func (p PlanID) Valid() bool {
	switch p {
	case PlanStarter, PlanLeaderPro, PlanTeam:
		return true
	}
	return false
}

func (p PlanID) String() string { return string(p) }

// Unbounded marks a limit with no numeric cap.
const Unbounded int64 = -1

// ResourceKind is a countable resource subject to plan limits.
type ResourceKind string

const (
	ResourcePriority ResourceKind = "priority"
	ResourceProject  ResourceKind = "project"
	ResourceUser     ResourceKind = "user"
)

// ParseResourceKind validates the wire form of a resource kind.
func ParseResourceKind(s string) (ResourceKind, error) {
	k := ResourceKind(s)
	switch k {
	case ResourcePriority, ResourceProject, ResourceUser:
		return k, nil
	}
	return "", fmt.Errorf("domain: unknown resource kind %q", s)
}

// Limits are the per-plan caps. Unbounded means no cap.
type Limits struct {
	Priorities int64 `json:"priorities"`
	Projects   int64 `json:"projects"`
	Users      int64 `json:"users"`
}

// Limit returns the cap for one resource kind.
func (l Limits) Limit(kind ResourceKind) int64 {
	switch kind {
	case ResourcePriority:
		return l.Priorities
	case ResourceProject:
		return l.Projects
	case ResourceUser:
		return l.Users
	}
	return 0
}

// planCatalog is the fixed plan table. Seats only grow on team.
var planCatalog = map[PlanID]Limits{
	PlanStarter:   {Priorities: 3, Projects: 10, Users: 1},
	PlanLeaderPro: {Priorities: Unbounded, Projects: Unbounded, Users: 1},
	PlanTeam:      {Priorities: Unbounded, Projects: Unbounded, Users: 15},
}

// LimitsFor returns the catalog limits for a plan. Unknown plans fall back
// to starter limits, never to unbounded.
func LimitsFor(id PlanID) Limits {
	if l, ok := planCatalog[id]; ok {
		return l
	}
	return planCatalog[PlanStarter]
}

// PlanDescriptor is an organization's effective plan, recomputed from the
// billing resolver on each billing-info query.
type PlanDescriptor struct {
	PlanID                PlanID `json:"plan_id"`
	IsLegacy              bool   `json:"is_legacy"`
	HasActiveSubscription bool   `json:"has_active_subscription"`
	Limits                Limits `json:"limits"`
}

// DescriptorFor builds a descriptor with catalog limits for the plan.
func DescriptorFor(id PlanID, isLegacy, hasActiveSubscription bool) PlanDescriptor {
	return PlanDescriptor{
		PlanID:                id,
		IsLegacy:              isLegacy,
		HasActiveSubscription: hasActiveSubscription,
		Limits:                LimitsFor(id),
	}
}

// UsageCounters is the caller-supplied point-in-time usage snapshot checked
// against plan limits. Negative means "not supplied".
type UsageCounters struct {
	Priorities int64 `json:"priorities"`
	Projects   int64 `json:"projects"`
	Users      int64 `json:"users"`
}

// Count returns the usage count for one resource kind.
func (u UsageCounters) Count(kind ResourceKind) int64 {
	switch kind {
	case ResourcePriority:
		return u.Priorities
	case ResourceProject:
		return u.Projects
	case ResourceUser:
		return u.Users
	}
	return 0
}
