package cryptox_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/truenorthhq/truenorth/pkg/cryptox"
)

func withMasterKey(t *testing.T, key string) {
	t.Helper()
	os.Setenv("ACCESS_MASTER_KEY", key)
	cryptox.ResetMasterKeyForTesting()
	t.Cleanup(func() {
		os.Unsetenv("ACCESS_MASTER_KEY")
		cryptox.ResetMasterKeyForTesting()
	})
}

func TestEncryptDecryptPrivateKey(t *testing.T) {
	withMasterKey(t, "test-master-key-for-encryption-12345")

	pemData, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	encrypted, err := cryptox.EncryptPrivateKey(pemData)
	require.NoError(t, err)
	require.NotEqual(t, pemData, encrypted)

	decrypted, err := cryptox.DecryptPrivateKey(encrypted)
	require.NoError(t, err)
	require.Equal(t, pemData, decrypted)
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	withMasterKey(t, "test-master-key-nonce")

	data := []byte("sensitive-private-key-data-12345")

	encrypted1, err := cryptox.EncryptPrivateKey(data)
	require.NoError(t, err)
	encrypted2, err := cryptox.EncryptPrivateKey(data)
	require.NoError(t, err)

	// Random nonce per call, identical plaintexts must not collide.
	require.NotEqual(t, encrypted1, encrypted2)

	for _, encrypted := range [][]byte{encrypted1, encrypted2} {
		decrypted, err := cryptox.DecryptPrivateKey(encrypted)
		require.NoError(t, err)
		require.Equal(t, data, decrypted)
	}
}

func TestDecryptRejectsGarbageAndTampering(t *testing.T) {
	withMasterKey(t, "test-master-key-tampered")

	_, err := cryptox.DecryptPrivateKey([]byte("invalid-encrypted-data"))
	require.Error(t, err)

	_, err = cryptox.DecryptPrivateKey([]byte("short"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "too short")

	encrypted, err := cryptox.EncryptPrivateKey([]byte("original-data"))
	require.NoError(t, err)

	tampered := make([]byte, len(encrypted))
	copy(tampered, encrypted)
	tampered[len(tampered)-1] ^= 0xFF

	_, err = cryptox.DecryptPrivateKey(tampered)
	require.Error(t, err, "GCM auth tag must catch tampering")
}

func TestMasterKeyFromFile(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "masterkey-*.key")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.Write([]byte("file-based-master-key-content-xyz"))
	require.NoError(t, err)
	tmpfile.Close()

	cryptox.ResetMasterKeyForTesting()
	cryptox.SetMasterKeyPath(tmpfile.Name())
	t.Cleanup(func() {
		cryptox.ResetMasterKeyForTesting()
		cryptox.SetMasterKeyPath("")
	})

	data := []byte("test-data-with-file-key")

	encrypted, err := cryptox.EncryptPrivateKey(data)
	require.NoError(t, err)

	decrypted, err := cryptox.DecryptPrivateKey(encrypted)
	require.NoError(t, err)
	require.Equal(t, data, decrypted)
}
