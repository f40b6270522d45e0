// Package entitlement is the plan-limit gate: a pure check of usage counts
// against an organization's plan descriptor, with an upgrade recommendation
// on denial.
package entitlement

import (
	"github.com/truenorthhq/truenorth/internal/access/domain"
)

// Decision is the outcome of a limit check. Denied decisions carry the
// recommended upgrade target, or ContactSales when no plan adds capacity.
type Decision struct {
	Allowed      bool                `json:"allowed"`
	Resource     domain.ResourceKind `json:"resource"`
	Limit        int64               `json:"limit"`   // Unbounded when no cap
	Current      int64               `json:"current"` // caller-supplied count
	UpgradeHint  domain.PlanID       `json:"upgrade_hint,omitempty"`
	ContactSales bool                `json:"contact_sales,omitempty"`
}

// CheckLimit gates one more resource of the given kind. Denies iff
// current >= limit; Unbounded never denies.
//
// Advisory only: this is a point-in-time read. The caller's count-then-create
// sequence must be transactional on its side, or two concurrent creates can
// both pass at count = limit-1.
func CheckLimit(plan domain.PlanDescriptor, kind domain.ResourceKind, current int64) Decision {
	limit := plan.Limits.Limit(kind)

	d := Decision{
		Resource: kind,
		Limit:    limit,
		Current:  current,
	}

	if limit == domain.Unbounded || current < limit {
		d.Allowed = true
		return d
	}

	d.UpgradeHint, d.ContactSales = upgradeHint(plan, kind)
	return d
}

// upgradeHint picks the plan to recommend on denial. Seats only exist on
// team, so user-limit denials always point there regardless of the current
// plan. Otherwise the ladder is starter → leaderpro → team; at the top
// there is no plan left to offer, only sales. Legacy grants already include
// every plan below team, so non-team hints are suppressed for them.
func upgradeHint(plan domain.PlanDescriptor, kind domain.ResourceKind) (domain.PlanID, bool) {
	if kind == domain.ResourceUser {
		return domain.PlanTeam, false
	}

	var next domain.PlanID
	switch plan.PlanID {
	case domain.PlanStarter:
		next = domain.PlanLeaderPro
	case domain.PlanLeaderPro:
		next = domain.PlanTeam
	case domain.PlanTeam:
		return "", true
	default:
		// Unknown plans carry starter limits, so the first step up applies.
		next = domain.PlanLeaderPro
	}

	if plan.IsLegacy && next != domain.PlanTeam {
		return "", false
	}
	return next, false
}
