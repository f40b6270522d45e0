package domain

import "time"

type User struct {
	ID                 string
	Email              string
	Name               string
	PasswordHash       string // argon2id encoded
	Role               Role
	OrgID              string
	MustChangePassword bool       // set on reset; blocks everything but the password endpoint
	MFAEnabled         *time.Time // when MFA was enabled (nil = disabled)
	MFASecret          *string    // TOTP secret (nil unless enrolled, base32 encoded)
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
