package accesssdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// GetBillingInfo retrieves the organization's resolved plan descriptor:
// plan identity, legacy status, subscription state and its resource limits.
// Callers may only read their own organization.
// Automatically refreshes the access token if expired.
func (s *Session) GetBillingInfo(ctx context.Context, orgID string) (*PlanResponse, error) {
	path := fmt.Sprintf("/v1/orgs/%s/billing", url.PathEscape(orgID))

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var plan PlanResponse
	if err := decodeJSON(resp, &plan, http.StatusOK); err != nil {
		return nil, err
	}

	return &plan, nil
}

// CheckEntitlement asks whether the organization may create one more of a
// resource. An allowed check returns the decision; a denied check returns
// *LimitExceededError carrying the limit, current usage and upgrade hint so
// clients can render the upgrade prompt directly. The strategy service calls
// this before every priority or project create.
// Automatically refreshes the access token if expired.
func (s *Session) CheckEntitlement(
	ctx context.Context,
	orgID string,
	req EntitlementCheckRequest,
) (*EntitlementDecision, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}

	path := fmt.Sprintf("/v1/orgs/%s/entitlements/check", url.PathEscape(orgID))

	resp, err := s.doAuthRequest(ctx, http.MethodPost, path, bytes.NewReader(body), headers)
	if err != nil {
		return nil, err
	}

	var decision EntitlementDecision
	if err := decodeJSON(resp, &decision, http.StatusOK); err != nil {
		return nil, err
	}

	return &decision, nil
}
