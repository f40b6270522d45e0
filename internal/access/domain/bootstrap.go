package domain

// BootstrapData seeds an empty installation: the first organization and its
// administrator account.
type BootstrapData struct {
	OrgName       string
	AdminEmail    string
	AdminName     string
	AdminPassword string
}
