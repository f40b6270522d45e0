package cryptox_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/truenorthhq/truenorth/pkg/cryptox"
)

func TestSignAndVerifyHMAC(t *testing.T) {
	payload := []byte(`{"type":"checkout.completed","data":{}}`)

	sig := cryptox.SignHMAC("whsec_test", payload)
	require.NotEmpty(t, sig)

	require.True(t, cryptox.VerifyHMAC("whsec_test", payload, sig))
	require.False(t, cryptox.VerifyHMAC("whsec_other", payload, sig))
	require.False(t, cryptox.VerifyHMAC("whsec_test", []byte("tampered"), sig))
	require.False(t, cryptox.VerifyHMAC("whsec_test", payload, "not-hex!"))
	require.False(t, cryptox.VerifyHMAC("whsec_test", payload, ""))
}

func TestSignHMACDeterministic(t *testing.T) {
	payload := []byte("same payload")
	require.Equal(t,
		cryptox.SignHMAC("secret", payload),
		cryptox.SignHMAC("secret", payload))
	require.NotEqual(t,
		cryptox.SignHMAC("secret", payload),
		cryptox.SignHMAC("secret2", payload))
}
