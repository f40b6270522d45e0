package domain

import "time"

// MFASession is a pending second-factor challenge sitting between the
// password check and token issuance. Completion deletes the row, so a
// challenge is single-use by construction.
type MFASession struct {
	ID        string
	TokenHash string // fingerprint of the mfa_token
	UserID    string
	AMR       []string
	Attempts  int // failed verification attempts, capped at 5
	ExpiresAt time.Time
	CreatedAt time.Time
}

// MFAEnrollResponse carries TOTP provisioning material back to the user.
type MFAEnrollResponse struct {
	Secret  string `json:"secret"`  // base32 encoded TOTP secret
	QRCode  string `json:"qr_code"` // otpauth:// provisioning URL
	Issuer  string `json:"issuer"`  // service name
	Account string `json:"account"` // user email
}
