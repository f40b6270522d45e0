package jwtx

// AlgorithmEdDSA is the only signing algorithm in use. Keys are Ed25519;
// anything else presented at verification is rejected outright.
const AlgorithmEdDSA = "EdDSA"

// Signer signs access-token claims under a single key.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	PublicJWK() JWK
	Validate() error
}

// NewSigner creates an EdDSA signer from a PEM/PKCS8 Ed25519 private key.
func NewSigner(kid string, pemKey []byte) (Signer, error) {
	return newEdDSASigner(kid, pemKey)
}
