package access_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/truenorthhq/truenorth/pkg/accesssdk"
)

// TestKeyRotationBasic tests rotation without retirement:
// 1. The container starts with a single signing key
// 2. Rotating adds a second active key
// 3. Sessions issued before the rotation keep working
func TestKeyRotationBasic(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	session := performLogin(t, client, adminEmail, adminPassword)

	keys, err := session.ListKeys(t.Context())
	require.NoError(t, err)
	require.Len(t, keys, 1, "Container starts with ACCESS_NUM_KEYS=1")
	require.True(t, strings.HasPrefix(keys[0].Kid, "tn-"), "Key IDs carry the tn- prefix")
	require.Equal(t, "EdDSA", keys[0].Algorithm)

	originalKid := keys[0].Kid

	resp, err := session.RotateKey(t.Context(), accesssdk.RotateKeyRequest{RetireExisting: false})
	require.NoError(t, err)
	require.NotEmpty(t, resp.NewKey.Kid)
	require.NotEqual(t, originalKid, resp.NewKey.Kid)
	require.Equal(t, 2, resp.ActiveKeys, "Both keys stay active without retirement")
	require.Empty(t, resp.RetiredKeys)

	keys, err = session.ListKeys(t.Context())
	require.NoError(t, err)
	require.Len(t, keys, 2)

	_, err = session.Me(t.Context())
	require.NoError(t, err, "Pre-rotation session should keep working")

	t.Logf("Rotation added key %s alongside %s", resp.NewKey.Kid, originalKid)
}

// TestKeyRotationWithRetire tests rotation that retires the old keys:
// 1. Rotate with retire_existing
// 2. Only the new key remains active; the old one is reported retired
// 3. Tokens signed by the retired key keep verifying through the grace
//    period, and the JWKS keeps publishing its public half
// 4. New logins are signed by the new key
func TestKeyRotationWithRetire(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	session := performLogin(t, client, adminEmail, adminPassword)
	oldKid := tokenKid(t, session.AccessToken())

	resp, err := session.RotateKey(t.Context(), accesssdk.RotateKeyRequest{RetireExisting: true})
	require.NoError(t, err)
	require.Equal(t, 1, resp.ActiveKeys, "Only the new key should remain active")
	require.Len(t, resp.RetiredKeys, 1)
	require.Equal(t, oldKid, resp.RetiredKeys[0].Kid)
	require.NotNil(t, resp.RetiredKeys[0].RetiredAt)

	// Retired keys leave the active list but not the verification set.
	keys, err := session.ListKeys(t.Context())
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Equal(t, resp.NewKey.Kid, keys[0].Kid)

	_, err = session.Me(t.Context())
	require.NoError(t, err, "Token signed by the retired key should verify through its grace period")

	jwks, err := client.GetJWKS(t.Context())
	require.NoError(t, err)
	require.Contains(t, jwksKids(jwks), oldKid,
		"JWKS should keep publishing the retired key for outstanding tokens")
	require.Contains(t, jwksKids(jwks), resp.NewKey.Kid)

	fresh := performLogin(t, client, adminEmail, adminPassword)
	require.Equal(t, resp.NewKey.Kid, tokenKid(t, fresh.AccessToken()),
		"New logins should be signed by the new key")

	t.Logf("Rotated %s -> %s with grace-period verification intact", oldKid, resp.NewKey.Kid)
}

// TestRetireSingleKey verifies explicit retirement of one key out of
// several, and the guard on the last one.
func TestRetireSingleKey(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	session := performLogin(t, client, adminEmail, adminPassword)

	keys, err := session.ListKeys(t.Context())
	require.NoError(t, err)
	require.Len(t, keys, 1)
	onlyKid := keys[0].Kid

	// The last active key cannot be retired.
	err = session.RetireKey(t.Context(), onlyKid)
	require.ErrorIs(t, err, accesssdk.ErrConflict)
	require.Contains(t, err.Error(), "last signing key")

	resp, err := session.RotateKey(t.Context(), accesssdk.RotateKeyRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, resp.ActiveKeys)

	require.NoError(t, session.RetireKey(t.Context(), onlyKid),
		"With two active keys the older one can be retired")

	keys, err = session.ListKeys(t.Context())
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Equal(t, resp.NewKey.Kid, keys[0].Kid)

	// Unknown key IDs are a 404.
	err = session.RetireKey(t.Context(), "tn-does-not-exist")
	var apiErr *accesssdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 404, apiErr.StatusCode)

	t.Logf("Retire guard and explicit retirement verified")
}

// TestKeyEndpointsRequireManageUsers verifies the key endpoints deny
// principals without the manage-users capability.
func TestKeyEndpointsRequireManageUsers(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)
	bootstrapService(t, client)

	adminSession := performLogin(t, client, adminEmail, adminPassword)
	createUserViaInvite(t, client, adminSession,
		"executive", "exec@truenorth.test", "Eve Executive", "Executive1!")
	execSession := performLogin(t, client, "exec@truenorth.test", "Executive1!")

	_, err := execSession.ListKeys(t.Context())
	assertCannotAccessEndpoint(t, err, "Executive listing keys")

	_, err = execSession.RotateKey(t.Context(), accesssdk.RotateKeyRequest{})
	assertCannotAccessEndpoint(t, err, "Executive rotating keys")

	err = execSession.RetireKey(t.Context(), "tn-anything")
	assertCannotAccessEndpoint(t, err, "Executive retiring a key")
}

// TestJWKSServesSigningKeys verifies the JWKS endpoint publishes the
// Ed25519 public keys unauthenticated.
func TestJWKSServesSigningKeys(t *testing.T) {
	baseURL, cleanup := setupAccessContainer(t)
	defer cleanup()

	client := accesssdk.NewSDKClient(baseURL)

	jwks, err := client.GetJWKS(t.Context())
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)

	key := jwks.Keys[0]
	require.Equal(t, "OKP", key.Kty)
	require.Equal(t, "Ed25519", key.Crv)
	require.Equal(t, "EdDSA", key.Alg)
	require.Equal(t, "sig", key.Use)
	require.NotEmpty(t, key.X, "Public key material should be present")
	require.True(t, strings.HasPrefix(key.Kid, "tn-"))

	t.Logf("JWKS serves %d key(s), kid=%s", len(jwks.Keys), key.Kid)
}

// ============================================================================
// Helper functions for key rotation tests
// ============================================================================

// tokenKid extracts the kid from a JWT's protected header.
func tokenKid(t *testing.T, token string) string {
	t.Helper()

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3, "Access token should be a compact JWT")

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)

	var header struct {
		Kid string `json:"kid"`
	}
	require.NoError(t, json.Unmarshal(headerJSON, &header))
	require.NotEmpty(t, header.Kid)

	return header.Kid
}

// jwksKids collects the key IDs in a JWKS response.
func jwksKids(jwks *accesssdk.JWKSResponse) []string {
	kids := make([]string, 0, len(jwks.Keys))
	for _, k := range jwks.Keys {
		kids = append(kids, k.Kid)
	}
	return kids
}
