package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	for _, size := range []int{TokenSize128, TokenSize256, TokenSize512, 24} {
		token, err := GenerateToken(size)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		again, err := GenerateToken(size)
		require.NoError(t, err)
		require.NotEqual(t, token, again, "tokens must be unique")
	}
}

func TestGenerateTokenInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestMustGenerateToken(t *testing.T) {
	require.NotEmpty(t, MustGenerateToken(TokenSize256))
	require.Panics(t, func() { MustGenerateToken(0) })
}

func TestFingerprintToken(t *testing.T) {
	fp1a := FingerprintToken("registration-token-1")
	fp1b := FingerprintToken("registration-token-1")
	fp2 := FingerprintToken("registration-token-2")

	require.Equal(t, fp1a, fp1b, "fingerprint must be deterministic")
	require.NotEqual(t, fp1a, fp2)
	require.Len(t, fp1a, 43, "SHA-256 base64url is 43 chars")
}

func TestTokensEqual(t *testing.T) {
	require.True(t, TokensEqual("abc", "abc"))
	require.False(t, TokensEqual("abc", "abd"))
	require.False(t, TokensEqual("abc", "abcd"))
	require.True(t, TokensEqual("", ""))
}
