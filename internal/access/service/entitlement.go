package service

import (
	"context"
	"errors"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/entitlement"
	"github.com/truenorthhq/truenorth/internal/access/store"
	"github.com/truenorthhq/truenorth/pkg/accesssdk"
)

var (
	// ErrUsageRequired means the caller asked to gate a resource this
	// service cannot count itself and supplied no count.
	ErrUsageRequired = errors.New("usage_count_required")
)

// LimitExceededError is an alias to the SDK's LimitExceededError so the
// HTTP layer and e2e clients see one type.
type LimitExceededError = accesssdk.LimitExceededError

// PlanResolver yields the current plan descriptor for an organization.
// The billing resolver implements it, including the fail-closed fallback
// to the persisted plan cache.
type PlanResolver interface {
	Resolve(ctx context.Context, orgID string) (domain.PlanDescriptor, error)
}

// EntitlementService is the service wrapper around the pure entitlement
// gate. It resolves the organization's descriptor and counts user seats
// authoritatively from its own store when the caller does not supply a
// count; priorities and projects live in collaborator services, so their
// counts must come in with the request.
type EntitlementService struct {
	Store    store.Store
	Resolver PlanResolver
}

// CheckAndReserve gates one more resource of the given kind. current may
// be nil only for ResourceUser.
//
// Advisory only: the decision is a point-in-time read, and the caller's
// count-then-create sequence must be transactional on its side.
func (s *EntitlementService) CheckAndReserve(ctx context.Context, orgID string, kind domain.ResourceKind, current *int64) (entitlement.Decision, error) {
	desc, err := s.Resolver.Resolve(ctx, orgID)
	if err != nil {
		return entitlement.Decision{}, err
	}

	var count int64
	switch {
	case current != nil:
		count = *current
	case kind == domain.ResourceUser:
		count, err = s.Store.Users().CountUsersByOrg(ctx, orgID)
		if err != nil {
			return entitlement.Decision{}, err
		}
	default:
		return entitlement.Decision{}, ErrUsageRequired
	}

	return entitlement.CheckLimit(desc, kind, count), nil
}

// CheckSeats is the user-seat gate consulted before minting invites and
// during registration.
func (s *EntitlementService) CheckSeats(ctx context.Context, orgID string) (entitlement.Decision, error) {
	return s.CheckAndReserve(ctx, orgID, domain.ResourceUser, nil)
}

// BillingInfo returns the organization's current plan descriptor.
func (s *EntitlementService) BillingInfo(ctx context.Context, orgID string) (domain.PlanDescriptor, error) {
	return s.Resolver.Resolve(ctx, orgID)
}

// limitError converts a denied decision into the SDK's 402 payload.
func limitError(d entitlement.Decision) *LimitExceededError {
	return &LimitExceededError{
		Resource:     string(d.Resource),
		Limit:        d.Limit,
		Current:      d.Current,
		UpgradeHint:  string(d.UpgradeHint),
		ContactSales: d.ContactSales,
	}
}

// cachedDescriptor builds a descriptor from the organization's persisted
// plan columns alone. Used inside transactions, where calling out to the
// billing provider is off the table.
func cachedDescriptor(org domain.Organization) domain.PlanDescriptor {
	return domain.DescriptorFor(org.PlanID, org.IsLegacy, org.PlanStatus.GrantsAccess())
}
