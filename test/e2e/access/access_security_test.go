package access_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/truenorthhq/truenorth/pkg/accesssdk"
)

// TestInvalidLoginCredentials verifies wrong passwords and unknown emails
// fail with the same opaque authentication error.
func TestInvalidLoginCredentials(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	_, wrongPassErr := client.Login(t.Context(), adminEmail, "WrongPass1!")
	assertUnauthorized(t, wrongPassErr, "Login with wrong password")

	_, unknownEmailErr := client.Login(t.Context(), "nobody@truenorth.test", adminPassword)
	assertUnauthorized(t, unknownEmailErr, "Login with unknown email")

	// Unknown emails and wrong passwords must be indistinguishable so the
	// login form cannot be used to enumerate accounts.
	var wrongPassAPI, unknownEmailAPI *accesssdk.APIError
	require.ErrorAs(t, wrongPassErr, &wrongPassAPI)
	require.ErrorAs(t, unknownEmailErr, &unknownEmailAPI)
	require.Equal(t, wrongPassAPI.Code, unknownEmailAPI.Code)
	require.Equal(t, wrongPassAPI.Description, unknownEmailAPI.Description)

	t.Logf("Both failures report: %s", wrongPassAPI.Description)
}

// TestForgedTokenRejected verifies a made-up access token never
// authenticates.
func TestForgedTokenRejected(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	forged := client.NewSessionFromTokens(
		"eyJhbGciOiJFZERTQSIsImtpZCI6InRuLWZvcmdlZCJ9.eyJzdWIiOiJmb3JnZWQifQ.Zm9yZ2Vk",
		"", 3600)

	_, err := forged.Me(t.Context())
	assertUnauthorized(t, err, "Forged access token")

	garbage := client.NewSessionFromTokens("not-even-a-jwt", "", 3600)
	_, err = garbage.ListUsers(t.Context())
	assertUnauthorized(t, err, "Garbage access token")
}

// TestMissingCredential verifies protected endpoints challenge with a
// bearer 401 when no credential is presented at all.
func TestMissingCredential(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	httpClient := &http.Client{}

	for _, path := range []string{"/v1/auth/me", "/v1/users", "/v1/keys"} {
		req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, baseURL+path, nil)
		require.NoError(t, err)

		resp, err := httpClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "GET %s without credential", path)
		require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer",
			"401 should carry a bearer challenge for %s", path)
	}

	t.Logf("All protected endpoints challenge with WWW-Authenticate: Bearer")
}

// TestCrossOrgIsolation verifies a principal from one organization cannot
// read another organization's billing state or run its entitlement checks.
func TestCrossOrgIsolation(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	homeOrgID, _ := bootstrapService(t, client)

	// Second organization arrives through a billing checkout.
	receipt := postCheckoutWebhook(t, client,
		"price_starter_monthly", "cus_isolated", "sub_isolated",
		"Rival Co", "owner@rival.test")
	require.NotEqual(t, homeOrgID, receipt.OrgID)

	_, err := client.ConsumeRegistrationToken(t.Context(), accesssdk.ConsumeTokenRequest{
		Token:    receipt.RegistrationToken,
		Email:    "owner@rival.test",
		Name:     "Rival Owner",
		Password: "RivalOwner1!",
	})
	require.NoError(t, err)

	rivalSession := performLogin(t, client, "owner@rival.test", "RivalOwner1!")

	_, err = rivalSession.GetBillingInfo(t.Context(), homeOrgID)
	assertCannotAccessEndpoint(t, err, "Cross-org billing read")

	current := int64(0)
	_, err = rivalSession.CheckEntitlement(t.Context(), homeOrgID, accesssdk.EntitlementCheckRequest{
		Resource: "priority",
		Current:  &current,
	})
	assertCannotAccessEndpoint(t, err, "Cross-org entitlement check")

	// Own-org requests still work.
	plan, err := rivalSession.GetBillingInfo(t.Context(), receipt.OrgID)
	require.NoError(t, err)
	require.Equal(t, "starter", plan.PlanID)

	t.Logf("Cross-org access denied, own-org access intact")
}
