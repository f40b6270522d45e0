package access_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/truenorthhq/truenorth/pkg/accesssdk"
)

// TestWebhookRejectsBadSignatures verifies deliveries with a missing or
// wrong signature never reach the event handlers.
func TestWebhookRejectsBadSignatures(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	payload := signableEvent(t, "checkout.completed", map[string]any{
		"customer":     "cus_forged",
		"subscription": "sub_forged",
		"plan_ref":     "price_starter_monthly",
		"email":        "forged@truenorth.test",
	})

	_, err := client.PostBillingWebhook(t.Context(), payload,
		accesssdk.SignBillingWebhook("some-other-secret", payload))
	require.ErrorIs(t, err, accesssdk.ErrForbidden, "Wrong-key signature should be refused")

	_, err = client.PostBillingWebhook(t.Context(), payload, "")
	require.ErrorIs(t, err, accesssdk.ErrForbidden, "Missing signature should be refused")

	// A single flipped byte breaks the signature.
	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] ^= 0x01
	_, err = client.PostBillingWebhook(t.Context(), tampered,
		accesssdk.SignBillingWebhook(webhookSecret, payload))
	require.ErrorIs(t, err, accesssdk.ErrForbidden, "Tampered payload should be refused")

	t.Logf("Signature verification held against wrong key, missing header, and tampering")
}

// TestCheckoutFulfillment tests the checkout event end to end:
// 1. The event creates the purchased organization
// 2. The receipt carries a registration token bound to the buyer
// 3. Redeeming it creates the organization's administrator
func TestCheckoutFulfillment(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	homeOrgID, _ := bootstrapService(t, client)

	receipt := postCheckoutWebhook(t, client,
		"price_leaderpro_annual", "cus_checkout", "sub_checkout",
		"Bought Co", "buyer@bought.test")
	require.NotEqual(t, homeOrgID, receipt.OrgID)

	verdict, err := client.ValidateRegistrationToken(t.Context(), receipt.RegistrationToken)
	require.NoError(t, err)
	require.True(t, verdict.Valid)
	require.Equal(t, "administrator", verdict.Role, "The buyer becomes the org's administrator")
	require.Equal(t, "buyer@bought.test", verdict.IntendedEmail, "Purchase tokens bind to the checkout email")

	_, err = client.ConsumeRegistrationToken(t.Context(), accesssdk.ConsumeTokenRequest{
		Token:    receipt.RegistrationToken,
		Email:    "someone-else@bought.test",
		Name:     "Someone Else",
		Password: "SomeoneElse1!",
	})
	require.ErrorIs(t, err, accesssdk.ErrTokenEmailMismatch)

	owner, err := client.ConsumeRegistrationToken(t.Context(), accesssdk.ConsumeTokenRequest{
		Token:    receipt.RegistrationToken,
		Email:    "buyer@bought.test",
		Name:     "Betty Buyer",
		Password: "BettyBuyer1!",
	})
	require.NoError(t, err)
	require.Equal(t, receipt.OrgID, owner.OrgID)
	require.Equal(t, "administrator", owner.Role)

	session := performLogin(t, client, "buyer@bought.test", "BettyBuyer1!")
	plan, err := session.GetBillingInfo(t.Context(), receipt.OrgID)
	require.NoError(t, err)
	require.Equal(t, "leaderpro", plan.PlanID)
	require.Equal(t, int64(-1), plan.Limits.Priorities)
	require.Equal(t, int64(1), plan.Limits.Users)

	t.Logf("Checkout fulfilled: org %s on %s", receipt.OrgID, plan.PlanID)
}

// TestCheckoutRedeliveryConverges verifies the provider retrying a
// checkout does not duplicate the organization.
func TestCheckoutRedeliveryConverges(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	first := postCheckoutWebhook(t, client,
		"price_starter_monthly", "cus_retry", "sub_retry",
		"Retry Co", "owner@retry.test")
	second := postCheckoutWebhook(t, client,
		"price_starter_monthly", "cus_retry", "sub_retry",
		"Retry Co", "owner@retry.test")

	require.Equal(t, first.OrgID, second.OrgID,
		"Redelivery is keyed by the subscription ref, not a new org")
	require.NotEqual(t, first.RegistrationToken, second.RegistrationToken,
		"Each delivery mints its own token")

	_, err := client.ConsumeRegistrationToken(t.Context(), accesssdk.ConsumeTokenRequest{
		Token:    first.RegistrationToken,
		Email:    "owner@retry.test",
		Name:     "Retry Owner",
		Password: "RetryOwner1!",
	})
	require.NoError(t, err)

	// The leftover token cannot mint a second owner: the email is taken.
	_, err = client.ConsumeRegistrationToken(t.Context(), accesssdk.ConsumeTokenRequest{
		Token:    second.RegistrationToken,
		Email:    "owner@retry.test",
		Name:     "Retry Owner Again",
		Password: "RetryAgain1!",
	})
	require.ErrorIs(t, err, accesssdk.ErrConflict)

	t.Logf("Redelivery converged on org %s", first.OrgID)
}

// TestSubscriptionLifecycleEvents walks an organization through a plan
// change and a cancellation:
// 1. subscription.updated moves the cached plan to team
// 2. The new seat count takes effect (invites start working)
// 3. subscription.deleted drops the subscription's access grant
func TestSubscriptionLifecycleEvents(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	orgID, owner := setupStarterOrg(t, client, "sub_lifecycle")

	// Starter owner cannot invite: one seat, already taken.
	_, err := owner.MintInvite(t.Context(), accesssdk.InviteRequest{Role: "leader"})
	var limitErr *accesssdk.LimitExceededError
	require.ErrorAs(t, err, &limitErr)

	postSignedWebhook(t, client, signableEvent(t, "subscription.updated", map[string]any{
		"subscription": "sub_lifecycle",
		"plan_ref":     "price_team_monthly",
		"status":       "active",
	}))

	plan, err := owner.GetBillingInfo(t.Context(), orgID)
	require.NoError(t, err)
	require.Equal(t, "team", plan.PlanID, "Update should move the cached plan")
	require.Equal(t, int64(15), plan.Limits.Users)

	invite, err := owner.MintInvite(t.Context(), accesssdk.InviteRequest{Role: "leader"})
	require.NoError(t, err, "The upgraded plan unlocks invites")
	require.NotEmpty(t, invite.RegistrationToken)

	t.Logf("Upgrade to team took effect")

	postSignedWebhook(t, client, signableEvent(t, "subscription.deleted", map[string]any{
		"subscription": "sub_lifecycle",
	}))

	plan, err = owner.GetBillingInfo(t.Context(), orgID)
	require.NoError(t, err)
	require.Equal(t, "team", plan.PlanID, "Cancellation keeps the last known plan")
	require.False(t, plan.HasActiveSubscription, "Cancellation drops the access grant")

	t.Logf("Cancellation reflected in the descriptor")
}

// TestWebhookAcknowledgesUnknowns verifies events the service cannot act
// on are acknowledged so the provider stops retrying them.
func TestWebhookAcknowledgesUnknowns(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	t.Run("unknown event type", func(t *testing.T) {
		receipt := postSignedWebhook(t, client, signableEvent(t, "invoice.paid", map[string]any{
			"invoice": "inv_123",
		}))
		require.Empty(t, receipt.OrgID)
		require.Empty(t, receipt.RegistrationToken)
	})

	t.Run("subscription update ahead of checkout", func(t *testing.T) {
		receipt := postSignedWebhook(t, client, signableEvent(t, "subscription.updated", map[string]any{
			"subscription": "sub_never_seen",
			"status":       "active",
		}))
		require.Empty(t, receipt.OrgID, "Unknown subscriptions are acknowledged, not errored")
	})
}

// TestWebhookRejectsInvalidEvents verifies structurally broken deliveries
// are a 400 so the provider surfaces them instead of silently dropping.
func TestWebhookRejectsInvalidEvents(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	// Status validation only happens for subscriptions the service knows;
	// unknown refs are acknowledged before the status is looked at.
	postCheckoutWebhook(t, client,
		"price_starter_monthly", "cus_known", "sub_known",
		"Known Co", "owner@known.test")

	tests := []struct {
		name    string
		payload []byte
	}{
		{
			name:    "not json",
			payload: []byte("this is not json"),
		},
		{
			name: "checkout missing email",
			payload: signableEvent(t, "checkout.completed", map[string]any{
				"customer":     "cus_broken",
				"subscription": "sub_broken",
				"plan_ref":     "price_starter_monthly",
			}),
		},
		{
			name: "checkout with unknown plan ref",
			payload: signableEvent(t, "checkout.completed", map[string]any{
				"customer":     "cus_broken",
				"subscription": "sub_broken",
				"plan_ref":     "price_enterprise_weekly",
				"email":        "buyer@broken.test",
			}),
		},
		{
			name: "subscription update with unknown status",
			payload: signableEvent(t, "subscription.updated", map[string]any{
				"subscription": "sub_known",
				"status":       "hibernating",
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.PostBillingWebhook(t.Context(), tt.payload,
				accesssdk.SignBillingWebhook(webhookSecret, tt.payload))
			require.ErrorIs(t, err, accesssdk.ErrInvalidRequest)
		})
	}
}

// ============================================================================
// Helper functions for webhook tests
// ============================================================================

// signableEvent marshals a provider event envelope.
func signableEvent(t *testing.T, eventType string, data map[string]any) []byte {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"type": eventType,
		"data": data,
	})
	require.NoError(t, err)
	return payload
}

// postSignedWebhook signs a payload with the shared secret and delivers it,
// requiring acceptance.
func postSignedWebhook(t *testing.T, client *accesssdk.SDKClient, payload []byte) *accesssdk.WebhookReceipt {
	t.Helper()

	receipt, err := client.PostBillingWebhook(t.Context(), payload,
		accesssdk.SignBillingWebhook(webhookSecret, payload))
	require.NoError(t, err, "Signed delivery should be accepted")
	return receipt
}
