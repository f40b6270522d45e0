package domain

import "time"

// SubscriptionStatus is the last known billing state for an organization.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"

	// SubscriptionLegacy marks organizations grandfathered in before the
	// current plan catalog. Their plan comes from the stored grant, not
	// the billing provider.
	SubscriptionLegacy SubscriptionStatus = "legacy"
)

// GrantsAccess reports whether the status still permits normal use.
// past_due keeps access during dunning.
func (s SubscriptionStatus) GrantsAccess() bool {
	switch s {
	case SubscriptionActive, SubscriptionTrialing, SubscriptionPastDue, SubscriptionLegacy:
		return true
	}
	return false
}

type Organization struct {
	ID   string
	Name string

	// Plan cache columns. Refreshed after each successful provider
	// resolve; the resolver fails closed to these when the provider is
	// unreachable.
	PlanID       PlanID
	PlanStatus   SubscriptionStatus
	IsLegacy     bool
	PlanSyncedAt time.Time

	BillingCustomerID     string // provider customer ref, empty for legacy orgs
	BillingSubscriptionID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
