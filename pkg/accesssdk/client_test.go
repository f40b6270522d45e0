package accesssdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/truenorthhq/truenorth/pkg/cryptox"
)

func TestNewSDKClient(t *testing.T) {
	t.Parallel()

	client := NewSDKClient("https://access.example.com/")
	require.Equal(t, "https://access.example.com", client.BaseURL)
	require.NotNil(t, client.HTTPClient)
	require.NotZero(t, client.HTTPClient.Timeout)
}

func TestParseErrorResponse(t *testing.T) {
	t.Parallel()

	// Serialize each error with its own WriteError so the round trip proves
	// the server and client sides of the wire format agree.
	record := func(write func(w http.ResponseWriter)) (*http.Response, []byte) {
		rec := httptest.NewRecorder()
		write(rec)
		resp := rec.Result()
		return resp, rec.Body.Bytes()
	}

	t.Run("mfa challenge", func(t *testing.T) {
		t.Parallel()

		want := &MFARequiredError{MFAToken: "challenge-token", Methods: []string{"totp", "backup_code"}}
		resp, body := record(want.WriteError)

		err := parseErrorResponse(resp, body)
		var mfaErr *MFARequiredError
		require.ErrorAs(t, err, &mfaErr)
		require.Equal(t, "challenge-token", mfaErr.MFAToken)
		require.Equal(t, []string{"totp", "backup_code"}, mfaErr.Methods)
	})

	t.Run("password policy", func(t *testing.T) {
		t.Parallel()

		want := &PolicyViolationError{Clauses: []string{"min_length", "uppercase"}}
		resp, body := record(want.WriteError)

		err := parseErrorResponse(resp, body)
		var policyErr *PolicyViolationError
		require.ErrorAs(t, err, &policyErr)
		require.Equal(t, []string{"min_length", "uppercase"}, policyErr.Clauses)
	})

	t.Run("limit exceeded", func(t *testing.T) {
		t.Parallel()

		want := &LimitExceededError{Resource: "priority", Limit: 3, Current: 3, UpgradeHint: "team"}
		resp, body := record(want.WriteError)

		err := parseErrorResponse(resp, body)
		var limitErr *LimitExceededError
		require.ErrorAs(t, err, &limitErr)
		require.Equal(t, int64(3), limitErr.Limit)
		require.Equal(t, "team", limitErr.UpgradeHint)
		require.Equal(t, UpgradeReasonLimitReached, limitErr.Modal().Reason)
		require.Equal(t, UpgradeResourcePriorities, limitErr.Modal().Resource)
	})

	t.Run("api error envelope", func(t *testing.T) {
		t.Parallel()

		resp, body := record(ErrTokenNotFound.WriteError)

		err := parseErrorResponse(resp, body)
		require.ErrorIs(t, err, ErrTokenNotFound)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	})

	t.Run("conflict without mfa fields stays a conflict", func(t *testing.T) {
		t.Parallel()

		resp, body := record(ErrConflict.WriteError)

		err := parseErrorResponse(resp, body)
		require.ErrorIs(t, err, ErrConflict)

		var mfaErr *MFARequiredError
		require.False(t, errors.As(err, &mfaErr))
	})

	t.Run("non-json body falls back to server error", func(t *testing.T) {
		t.Parallel()

		resp := &http.Response{StatusCode: http.StatusBadGateway}
		err := parseErrorResponse(resp, []byte("<html>bad gateway</html>"))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, ErrorCodeServerError, apiErr.Code)
		require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	})

	t.Run("success status is not an error", func(t *testing.T) {
		t.Parallel()

		resp := &http.Response{StatusCode: http.StatusOK}
		require.NoError(t, parseErrorResponse(resp, nil))
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("success creates a session", func(t *testing.T) {
		t.Parallel()

		var gotLogin LoginRequest
		mux := http.NewServeMux()
		mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&gotLogin)
			_ = json.NewEncoder(w).Encode(TokenResponse{
				AccessToken:  "access-1",
				RefreshToken: "refresh-1",
				TokenType:    "Bearer",
				ExpiresIn:    900,
			})
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := NewSDKClient(srv.URL)
		session, err := client.Login(context.Background(), "leader@example.com", "pass")
		require.NoError(t, err)
		require.Equal(t, "leader@example.com", gotLogin.Email)
		require.Equal(t, "access-1", session.AccessToken())
		require.Equal(t, "refresh-1", session.RefreshToken())
	})

	t.Run("mfa challenge surfaces as typed error", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
			challenge := &MFARequiredError{MFAToken: "mfa-123", Methods: []string{"totp"}}
			challenge.WriteError(w)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := NewSDKClient(srv.URL)
		session, err := client.Login(context.Background(), "mfa@example.com", "pass")
		require.Nil(t, session)

		var mfaErr *MFARequiredError
		require.ErrorAs(t, err, &mfaErr)
		require.Equal(t, "mfa-123", mfaErr.MFAToken)
	})

	t.Run("bad credentials classify as unauthenticated", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("POST /v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
			ErrUnauthenticated.WriteError(w)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := NewSDKClient(srv.URL)
		_, err := client.Login(context.Background(), "nobody@example.com", "wrong")
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestSessionAutoRefresh(t *testing.T) {
	t.Parallel()

	var refreshCalls int
	var meAuthz string

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		var req RefreshRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.RefreshToken != "stale-refresh" {
			ErrUnauthenticated.WriteError(w)
			return
		}
		_ = json.NewEncoder(w).Encode(TokenResponse{
			AccessToken:  "fresh-access",
			RefreshToken: "fresh-refresh",
			ExpiresIn:    900,
		})
	})
	mux.HandleFunc("GET /v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		meAuthz = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(PrincipalInfo{UserID: "user-1", Role: "leader"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewSDKClient(srv.URL)

	// ExpiresIn of zero puts the session past its refresh buffer immediately.
	session := client.NewSessionFromTokens("stale-access", "stale-refresh", 0)

	me, err := session.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, "user-1", me.UserID)
	require.Equal(t, 1, refreshCalls)
	require.Equal(t, "Bearer fresh-access", meAuthz)
	require.Equal(t, "fresh-refresh", session.RefreshToken())

	// The refreshed token is inside its lifetime, so the next call reuses it.
	_, err = session.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, refreshCalls)
}

func TestSignBillingWebhook(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"type":"subscription.updated"}`)
	sig := SignBillingWebhook("shared-secret", payload)

	require.True(t, cryptox.VerifyHMAC("shared-secret", payload, sig))
	require.False(t, cryptox.VerifyHMAC("other-secret", payload, sig))
}
