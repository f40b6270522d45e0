package access_test

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/truenorthhq/truenorth/pkg/accesssdk"
)

// These tests run against a container with the PRODUCTION rate limits:
// strict 5/min, moderate 20/min, lenient 100/min, public 1000/min. Every
// route owns its own bucket, so hammering one endpoint never starves
// another.

// TestRateLimitLoginEndpoint verifies the strict limit on login:
// five attempts pass (as credential failures), the sixth trips the limiter.
func TestRateLimitLoginEndpoint(t *testing.T) {
	baseURL, cleanup := setupAccessContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	for i := 1; i <= 5; i++ {
		_, err := client.Login(t.Context(), adminEmail, "WrongPassword1!")
		assertUnauthorized(t, err, fmt.Sprintf("Login attempt %d within the budget", i))
	}

	_, err := client.Login(t.Context(), adminEmail, "WrongPassword1!")
	assertRateLimited(t, err, "Sixth login attempt")

	// Even the correct password is limited now: the limiter sits in front
	// of credential verification.
	_, err = client.Login(t.Context(), adminEmail, adminPassword)
	assertRateLimited(t, err, "Correct password after tripping the limiter")

	t.Logf("Strict login limit enforced after 5 attempts")
}

// TestRateLimitResponseHeaders verifies the 429 response carries the
// retry metadata clients back off on.
func TestRateLimitResponseHeaders(t *testing.T) {
	baseURL, cleanup := setupAccessContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	httpClient := &http.Client{}
	body := []byte(`{"email":"admin@truenorth.test","password":"WrongPassword1!"}`)

	var last *http.Response
	for i := 0; i < 6; i++ {
		req, err := http.NewRequestWithContext(t.Context(), http.MethodPost,
			baseURL+"/v1/auth/login", bytes.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")

		resp, err := httpClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		last = resp
	}

	require.Equal(t, http.StatusTooManyRequests, last.StatusCode)
	require.NotEmpty(t, last.Header.Get("Retry-After"), "429 should say when to come back")
	require.Equal(t, "5", last.Header.Get("X-RateLimit-Limit"))
	require.Equal(t, "60", last.Header.Get("X-RateLimit-Window"))

	t.Logf("429 headers: Retry-After=%s Limit=%s Window=%s",
		last.Header.Get("Retry-After"),
		last.Header.Get("X-RateLimit-Limit"),
		last.Header.Get("X-RateLimit-Window"))
}

// TestModerateRateLimitOnRefresh verifies the moderate budget gives the
// refresh endpoint real headroom: fifteen rapid attempts all reach
// credential verification. (The trip point is not asserted because the
// bucket refills continuously during the requests.)
func TestModerateRateLimitOnRefresh(t *testing.T) {
	baseURL, cleanup := setupAccessContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	for i := 1; i <= 15; i++ {
		_, err := client.AuthenticateWithRefreshToken(t.Context(), "garbage-refresh-token")
		assertUnauthorized(t, err, fmt.Sprintf("Refresh attempt %d within the budget", i))
	}

	t.Logf("15 rapid refresh attempts all passed the moderate limiter")
}

// TestStrictRateLimitPerUser verifies authenticated strict endpoints
// bucket by principal rather than only by source address.
func TestStrictRateLimitPerUser(t *testing.T) {
	baseURL, cleanup := setupAccessContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	session := performLogin(t, client, adminEmail, adminPassword)

	// Each wrong verification burns one strict token for this user.
	for i := 1; i <= 5; i++ {
		_, err := session.VerifyTOTP(t.Context(), "000000")
		require.Error(t, err, "Verify attempt %d should fail on the code, not the limiter", i)
		var apiErr *accesssdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	}

	_, err := session.VerifyTOTP(t.Context(), "000000")
	assertRateLimited(t, err, "Sixth MFA verify attempt")

	t.Logf("Per-user strict limit enforced on MFA verification")
}

// TestPublicEndpointsStayAvailable verifies the high-volume public
// endpoints absorb bursts that would trip the authentication limits.
func TestPublicEndpointsStayAvailable(t *testing.T) {
	baseURL, cleanup := setupAccessContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)

	// Resource servers poll JWKS aggressively; the public budget must
	// absorb that.
	for i := 0; i < 50; i++ {
		_, err := client.GetJWKS(t.Context())
		require.NoError(t, err, "JWKS request %d should pass", i+1)
	}

	for i := 0; i < 30; i++ {
		health, err := client.GetLiveness(t.Context())
		assertHealthy(t, health, err)
	}

	t.Logf("50 JWKS and 30 liveness requests all passed")
}

// TestRateLimitConcurrentRequests verifies the limiter is safe and
// permissive under parallel load on a public endpoint.
func TestRateLimitConcurrentRequests(t *testing.T) {
	baseURL, cleanup := setupAccessContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.GetJWKS(t.Context())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err, "Concurrent JWKS requests should all pass")
	}

	t.Logf("%d concurrent JWKS requests all passed", workers)
}

// TestRateLimitRecovery verifies a tripped bucket refills after the
// window. Slow by nature, skipped in -short runs.
func TestRateLimitRecovery(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping rate limit recovery test in short mode (waits out the 60s window)")
	}

	baseURL, cleanup := setupAccessContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	for i := 0; i < 5; i++ {
		_, _ = client.Login(t.Context(), adminEmail, "WrongPassword1!")
	}
	_, err := client.Login(t.Context(), adminEmail, "WrongPassword1!")
	assertRateLimited(t, err, "Login after exhausting the budget")

	t.Logf("Limiter tripped, waiting out the window...")
	time.Sleep(61 * time.Second)

	session, err := client.Login(t.Context(), adminEmail, adminPassword)
	require.NoError(t, err, "The budget should refill after the window")
	assertSessionTokens(t, session)

	t.Logf("Limiter recovered after the window")
}

// ============================================================================
// Helper functions for rate limit tests
// ============================================================================

// assertRateLimited checks an error is a 429 from the limiter.
func assertRateLimited(t *testing.T, err error, context string) {
	t.Helper()
	require.Error(t, err, context)

	var apiErr *accesssdk.APIError
	require.ErrorAs(t, err, &apiErr, "%s - expected an API error, got: %v", context, err)
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode,
		"%s - expected 429, got %d (%s)", context, apiErr.StatusCode, apiErr.Code)
}
