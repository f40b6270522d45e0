/*
Package accesssdk provides a client SDK for the TrueNorth access service.

# Overview

The accesssdk package is how collaborator services (strategy core, reporting)
and tooling talk to the access service: sessions and credentials, registration
tokens, role and capability checks, plan entitlements and billing state. It
provides both unauthenticated operations (via SDKClient) and authenticated
operations (via Session) with automatic token refresh.

# SDKClient vs Session

The package is organized around two main types:

  - SDKClient: Provides unauthenticated operations and creates authenticated sessions
  - Session: Provides authenticated operations with automatic token refresh

Create an SDKClient to interact with public endpoints and initiate
authentication flows:

	client := accesssdk.NewSDKClient("https://access.truenorth.example")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Pre-check a registration token for the signup form
	verdict, err := client.ValidateRegistrationToken(ctx, rawToken)

	// Authenticate to create a session
	session, err := client.Login(ctx, email, password)

Use a Session for authenticated operations. Sessions automatically refresh
their access token with the rotated refresh token when it expires:

	// Who am I, live from the store
	me, err := session.Me(ctx)

	// Mint an invite (requires the manage-users capability)
	invite, err := session.MintInvite(ctx, accesssdk.InviteRequest{Role: "leader"})

	// Gate a create on the organization's plan
	decision, err := session.CheckEntitlement(ctx, orgID, accesssdk.EntitlementCheckRequest{
		Resource: "priority",
		Current:  &count,
	})

# MFA logins

Login returns *MFARequiredError when the account has MFA enabled. Complete
the challenge with the token it carries:

	session, err := client.Login(ctx, email, password)
	var mfaErr *accesssdk.MFARequiredError
	if errors.As(err, &mfaErr) {
		session, err = client.CompleteMFA(ctx, mfaErr.MFAToken, "totp", code)
	}

# Error Handling

Failures arrive as typed errors classifiable with errors.Is and errors.As:
*APIError for the standard envelope (compare against the predefined Err values
by code), *MFARequiredError for second-factor challenges, *PolicyViolationError
for password policy failures with the unmet clauses, and *LimitExceededError
for plan-limit denials carrying the upgrade hint:

	var limitErr *accesssdk.LimitExceededError
	if errors.As(err, &limitErr) {
		showUpgradeModal(limitErr.Modal())
	}
*/
package accesssdk
