package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJWKPublicKeyRoundTrip(t *testing.T) {
	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	jwk := NewEd25519JWK("test-key-id", "sig", AlgorithmEdDSA, publicKey)
	require.Equal(t, "OKP", jwk.Kty)
	require.Equal(t, "Ed25519", jwk.Crv)
	require.Equal(t, "test-key-id", jwk.Kid)
	require.NotEmpty(t, jwk.X)

	decoded, err := jwk.PublicKey()
	require.NoError(t, err)
	require.Equal(t, publicKey, decoded)
}

func TestJWKPEM(t *testing.T) {
	publicKey, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	jwk := NewEd25519JWK("test-key-id", "sig", AlgorithmEdDSA, publicKey)

	pemStr, err := jwk.PEM()
	require.NoError(t, err)
	require.NotEmpty(t, pemStr)

	require.True(t, strings.HasPrefix(pemStr, "-----BEGIN PUBLIC KEY-----"))
	require.True(t, strings.HasSuffix(strings.TrimSpace(pemStr), "-----END PUBLIC KEY-----"))

	block, _ := pem.Decode([]byte(pemStr))
	require.NotNil(t, block, "PEM block should be valid")
	require.Equal(t, "PUBLIC KEY", block.Type)

	parsedKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)

	ed25519PubKey, ok := parsedKey.(ed25519.PublicKey)
	require.True(t, ok, "parsed key should be an Ed25519 public key")
	require.Equal(t, publicKey, ed25519PubKey)
}

func TestJWKPublicKeyUnsupportedType(t *testing.T) {
	jwk := JWK{
		Kty: "RSA",
		Kid: "test-key",
	}

	_, err := jwk.PublicKey()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported key type")
}

func TestJWKPublicKeyInvalidBase64(t *testing.T) {
	jwk := JWK{
		Kty: "OKP",
		Crv: "Ed25519",
		Kid: "test-key",
		X:   "!!!invalid-base64!!!",
	}

	_, err := jwk.PublicKey()
	require.Error(t, err)
}

func TestJWKPublicKeyWrongSize(t *testing.T) {
	jwk := JWK{
		Kty: "OKP",
		Crv: "Ed25519",
		Kid: "test-key",
		X:   "c2hvcnQ", // "short", not 32 bytes
	}

	_, err := jwk.PublicKey()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid Ed25519 public key size")
}

func TestKeySetAddAndGet(t *testing.T) {
	pub1, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	pub2, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	ks := NewKeySet()
	require.False(t, ks.IsReady())

	require.NoError(t, ks.AddJWK(NewEd25519JWK("k1", "sig", AlgorithmEdDSA, pub1)))
	require.NoError(t, ks.AddJWK(NewEd25519JWK("k2", "sig", AlgorithmEdDSA, pub2)))
	require.True(t, ks.IsReady())

	got, err := ks.Get("k1")
	require.NoError(t, err)
	require.Equal(t, pub1, got)

	_, err = ks.Get("missing")
	require.ErrorIs(t, err, ErrNoKey)

	jwks := ks.PublicJWKS()
	require.Len(t, jwks.Keys, 2)
}

func TestKeySetReplacesExistingKid(t *testing.T) {
	pubA, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	pubB, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	ks := NewKeySet()
	require.NoError(t, ks.AddJWK(NewEd25519JWK("k1", "sig", AlgorithmEdDSA, pubA)))
	require.NoError(t, ks.AddJWK(NewEd25519JWK("k1", "sig", AlgorithmEdDSA, pubB)))

	// Same kid replaces rather than appends.
	jwks := ks.PublicJWKS()
	require.Len(t, jwks.Keys, 1)

	got, err := ks.Get("k1")
	require.NoError(t, err)
	require.Equal(t, pubB, got)
}

func TestKeySetResetFromJWKS(t *testing.T) {
	pubOld, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	pubNew, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	ks := NewKeySet()
	require.NoError(t, ks.AddJWK(NewEd25519JWK("old", "sig", AlgorithmEdDSA, pubOld)))

	fetched := JWKS{Keys: []JWK{NewEd25519JWK("new", "sig", AlgorithmEdDSA, pubNew)}}
	require.NoError(t, ks.ResetFromJWKS(fetched))

	_, err = ks.Get("old")
	require.ErrorIs(t, err, ErrNoKey)

	got, err := ks.Get("new")
	require.NoError(t, err)
	require.Equal(t, pubNew, got)
}

func TestKeySetResetFromJWKSRejectsBadKey(t *testing.T) {
	ks := NewKeySet()

	bad := JWKS{Keys: []JWK{{Kty: "OKP", Crv: "Ed25519", Kid: "bad", X: "%%%"}}}
	require.Error(t, ks.ResetFromJWKS(bad))
}
