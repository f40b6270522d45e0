package domain

// Principal is the authenticated identity attached to a request. Role and
// MustChangePassword are the live store values at authentication time, not
// whatever the credential carried when it was minted. Handlers receive the
// principal as an explicit argument, never from an ambient global.
type Principal struct {
	UserID             string   `json:"user_id"`
	OrgID              string   `json:"organization_id"`
	Email              string   `json:"email"`
	Name               string   `json:"name"`
	Role               Role     `json:"role"`
	MustChangePassword bool     `json:"must_change_password"`
	SessionID          string   `json:"-"`
	AMR                []string `json:"-"`
}

// PrincipalFromUser derives the identity fields from a user row. SessionID
// and AMR are filled in by the authenticator when a session backs the
// principal.
func PrincipalFromUser(u User) Principal {
	return Principal{
		UserID:             u.ID,
		OrgID:              u.OrgID,
		Email:              u.Email,
		Name:               u.Name,
		Role:               u.Role,
		MustChangePassword: u.MustChangePassword,
	}
}
