package store

import (
	"context"
	"errors"
	"time"

	"github.com/truenorthhq/truenorth/internal/access/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable, and to make transactions explicit: repositories taken
// from a Tx run inside it, repositories taken from the root Store do not.
type Store interface {
	Users() Users
	Organizations() Organizations
	RegistrationTokens() RegistrationTokens
	Sessions() Sessions
	BackupCodes() BackupCodes
	MFASessions() MFASessions
	SigningKeys() SigningKeys

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., token
	// consumption plus account creation). The caller MUST call Commit()
	// or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction: rolled back when fn
	// returns an error, committed when it returns nil. This is the
	// recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and email-binding checks.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsersByOrg returns an organization's users, newest first.
	ListUsersByOrg(ctx context.Context, orgID string) ([]domain.User, error)

	// CountUsersByOrg is the authoritative seat count for entitlement
	// checks. Run it on a Tx when the count gates a create.
	CountUsersByOrg(ctx context.Context, orgID string) (int64, error)

	// UpdatePassword sets the password hash and the forced-change flag
	// together, and bumps updated_at.
	UpdatePassword(ctx context.Context, userID, newHash string, mustChange bool) error

	// UpdateRole reassigns the user's role.
	UpdateRole(ctx context.Context, userID string, role domain.Role) error

	// IsEmpty returns true when there are no users (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)

	// UpdateMFASecret sets the TOTP secret for a user.
	UpdateMFASecret(ctx context.Context, userID string, secret string) error

	// EnableMFA marks MFA as enabled (sets the mfa_enabled timestamp).
	EnableMFA(ctx context.Context, userID string) error

	// DisableMFA clears mfa_enabled and mfa_secret.
	DisableMFA(ctx context.Context, userID string) error
}

type Organizations interface {
	// CreateOrganization inserts a new organization with its initial plan
	// cache values.
	CreateOrganization(ctx context.Context, o domain.Organization) error

	// GetOrganizationByID returns an organization by id.
	GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error)

	// GetOrganizationBySubscriptionRef finds the organization holding a
	// provider subscription id (webhook routing).
	GetOrganizationBySubscriptionRef(ctx context.Context, ref string) (domain.Organization, error)

	// UpdatePlanCache refreshes the durable plan columns after a
	// successful provider resolve or webhook event.
	UpdatePlanCache(ctx context.Context, orgID string, plan domain.PlanID, status domain.SubscriptionStatus, syncedAt time.Time) error

	// UpdateBillingRefs sets the provider customer/subscription ids.
	UpdateBillingRefs(ctx context.Context, orgID, customerRef, subscriptionRef string) error

	// IsEmpty returns true when there are no organizations.
	IsEmpty(ctx context.Context) (bool, error)
}

type RegistrationTokens interface {
	// CreateRegistrationToken writes a new token (token_hash is the
	// fingerprint of the opaque raw token).
	CreateRegistrationToken(ctx context.Context, t domain.RegistrationToken) error

	// GetRegistrationTokenByHash returns the token by fingerprint,
	// whatever its state. State classification is the service's job.
	GetRegistrationTokenByHash(ctx context.Context, hash string) (domain.RegistrationToken, error)

	// GetRegistrationTokenByID re-reads a token, used to classify a
	// failed consume.
	GetRegistrationTokenByID(ctx context.Context, id string) (domain.RegistrationToken, error)

	// ConsumeRegistrationToken is the atomic check-and-set: it marks the
	// token consumed only if it is still unconsumed and unexpired, and
	// reports whether this caller won. Never a separate read-then-write.
	ConsumeRegistrationToken(ctx context.Context, id, consumedBy string, now time.Time) (bool, error)

	// DeleteExpiredRegistrationTokens removes expired unconsumed tokens
	// (housekeeping).
	DeleteExpiredRegistrationTokens(ctx context.Context) error
}

type Sessions interface {
	// CreateSession stores a new login session.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByID returns a session by id (the JWT sid).
	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// GetSessionByRefreshFingerprint finds the session holding the
	// current refresh fingerprint.
	GetSessionByRefreshFingerprint(ctx context.Context, fp string) (domain.Session, error)

	// GetSessionByPrevFingerprint finds a session by its rotated-away
	// fingerprint. A hit means the old token was presented again.
	GetSessionByPrevFingerprint(ctx context.Context, fp string) (domain.Session, error)

	// RotateRefresh swaps the refresh fingerprint in one conditional
	// UPDATE (old fingerprint must still be current, session unrevoked)
	// and extends the session. Reports whether this caller won.
	RotateRefresh(ctx context.Context, sessionID, oldFP, newFP string, newExpiry time.Time) (bool, error)

	// RevokeSession is idempotent: revoking an already-revoked or
	// unknown session is not an error.
	RevokeSession(ctx context.Context, sessionID string) error

	// RevokeUserSessions revokes all of a user's sessions except the
	// given one (password change). Empty exceptID revokes everything.
	RevokeUserSessions(ctx context.Context, userID, exceptID string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}

type BackupCodes interface {
	// CreateBackupCode stores a backup code hash for a user.
	CreateBackupCode(ctx context.Context, userID string, codeHash string) error

	// VerifyBackupCode checks whether a backup code hash exists for a user.
	VerifyBackupCode(ctx context.Context, userID string, codeHash string) (bool, error)

	// DeleteBackupCode removes a specific backup code after use.
	DeleteBackupCode(ctx context.Context, userID string, codeHash string) error

	// DeleteAllBackupCodes removes all backup codes for a user.
	DeleteAllBackupCodes(ctx context.Context, userID string) error

	// CountUserBackupCodes returns the number of codes left for a user.
	CountUserBackupCodes(ctx context.Context, userID string) (int, error)
}

type MFASessions interface {
	// CreateMFASession creates a pending second-factor challenge.
	CreateMFASession(ctx context.Context, s domain.MFASession) error

	// GetMFASessionByTokenHash retrieves a pending challenge by the
	// fingerprint of its token, only while unexpired.
	GetMFASessionByTokenHash(ctx context.Context, tokenHash string) (domain.MFASession, error)

	// IncrementMFASessionAttempts bumps the failed-attempt counter and
	// returns the updated session.
	IncrementMFASessionAttempts(ctx context.Context, id string) (domain.MFASession, error)

	// ConsumeMFASession deletes the challenge; reports whether this
	// caller deleted it. Two racing completions get one winner.
	ConsumeMFASession(ctx context.Context, id string) (bool, error)

	// DeleteExpiredMFASessions is housekeeping.
	DeleteExpiredMFASessions(ctx context.Context) error
}

type SigningKeys interface {
	// CreateSigningKey stores a new signing key with encrypted private
	// key material.
	CreateSigningKey(ctx context.Context, key domain.SigningKey) error

	// GetSigningKeyByKid fetches a signing key by its key identifier.
	GetSigningKeyByKid(ctx context.Context, kid string) (domain.SigningKey, error)

	// ListActiveSigningKeys returns non-retired, non-expired keys,
	// newest first.
	ListActiveSigningKeys(ctx context.Context) ([]domain.SigningKey, error)

	// ListAllSigningKeys returns every key including retired and expired
	// ones, newest first. Verification keeps retired keys through their
	// grace period.
	ListAllSigningKeys(ctx context.Context) ([]domain.SigningKey, error)

	// RetireSigningKey marks a key retired: it stops signing but keeps
	// verifying.
	RetireSigningKey(ctx context.Context, kid string) error

	// DeleteExpiredSigningKeys removes retired keys past expires_at. Keys
	// that are still active never get purged, whatever their age.
	DeleteExpiredSigningKeys(ctx context.Context) error
}
