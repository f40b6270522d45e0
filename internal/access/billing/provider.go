// Package billing resolves an organization's effective plan from the
// billing provider and keeps the persisted plan cache fresh. It owns the
// provider abstraction, the status and plan-ref mapping tables, and the
// webhook processor that reacts to provider events.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/truenorthhq/truenorth/internal/access/domain"
)

// ErrNoSubscription means the provider answered definitively that the
// customer holds no subscription. This is a billing state, not an outage:
// the resolver maps it to canceled instead of falling back to the cache.
var ErrNoSubscription = errors.New("customer_has_no_subscription")

// Subscription is the provider's view of a customer's current
// subscription.
type Subscription struct {
	SubscriptionRef string `json:"id"`
	PlanRef         string `json:"plan_ref"`
	Status          string `json:"status"`
}

// Provider answers subscription lookups against the billing system.
type Provider interface {
	// CurrentSubscription returns the customer's subscription, or
	// ErrNoSubscription when the customer exists without one.
	CurrentSubscription(ctx context.Context, customerRef string) (Subscription, error)
}

// HTTPProvider is the HTTP implementation of Provider. Lookup calls are
// bounded by the client timeout so a slow provider cannot stall an
// entitlement check past the fallback window.
type HTTPProvider struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewHTTPProvider creates a provider client with a 10 second timeout.
func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CurrentSubscription fetches the customer's subscription from the
// provider API.
func (p *HTTPProvider) CurrentSubscription(ctx context.Context, customerRef string) (Subscription, error) {
	url := fmt.Sprintf("%s/v1/customers/%s/subscription", p.BaseURL, customerRef)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Subscription{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return Subscription{}, fmt.Errorf("failed to reach billing provider: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return Subscription{}, ErrNoSubscription
	default:
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Subscription{}, fmt.Errorf("billing provider returned status %d", resp.StatusCode)
	}

	var sub Subscription
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		return Subscription{}, fmt.Errorf("failed to decode subscription: %w", err)
	}
	return sub, nil
}

// planRefs is the fixed table mapping provider price refs to plan ids.
// New prices must land here before checkout sells them.
var planRefs = map[string]domain.PlanID{
	"price_starter_monthly":   domain.PlanStarter,
	"price_starter_annual":    domain.PlanStarter,
	"price_leaderpro_monthly": domain.PlanLeaderPro,
	"price_leaderpro_annual":  domain.PlanLeaderPro,
	"price_team_monthly":      domain.PlanTeam,
	"price_team_annual":       domain.PlanTeam,
}

// planForRef maps a provider price ref to an internal plan id.
func planForRef(ref string) (domain.PlanID, bool) {
	p, ok := planRefs[ref]
	return p, ok
}

// statusFor maps a provider subscription status to the domain status.
// Unknown statuses report false so callers fall back rather than guess.
func statusFor(s string) (domain.SubscriptionStatus, bool) {
	switch s {
	case "active":
		return domain.SubscriptionActive, true
	case "trialing":
		return domain.SubscriptionTrialing, true
	case "past_due":
		return domain.SubscriptionPastDue, true
	case "canceled":
		return domain.SubscriptionCanceled, true
	}
	return "", false
}
