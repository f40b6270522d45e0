package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/store"
	"github.com/truenorthhq/truenorth/internal/access/store/drivers/sqlite/gen"
	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Ensure rollback is called if we panic or return early with error
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	// Execute the function
	if err := fn(tx); err != nil {
		return err // rollback happens in defer
	}

	// Commit on success
	return tx.Commit()
}

func (s *Store) Users() store.Users                           { return &usersRepo{q: s.q} }
func (s *Store) Organizations() store.Organizations           { return &organizationsRepo{q: s.q} }
func (s *Store) RegistrationTokens() store.RegistrationTokens { return &registrationTokensRepo{q: s.q} }
func (s *Store) Sessions() store.Sessions                     { return &sessionsRepo{q: s.q} }
func (s *Store) BackupCodes() store.BackupCodes               { return &backupCodesRepo{q: s.q} }
func (s *Store) MFASessions() store.MFASessions               { return &mfaSessionsRepo{q: s.q} }
func (s *Store) SigningKeys() store.SigningKeys               { return &signingKeysRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time
		return &val
	}
	return nil
}

func mapTimeNull(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func splitAndFilter(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Fields(s)
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

func mapUser(row gen.User) domain.User {
	return domain.User{
		ID:                 row.ID,
		Email:              row.Email,
		Name:               row.Name,
		PasswordHash:       row.PasswordHash,
		Role:               domain.Role(row.Role),
		OrgID:              row.OrganizationID,
		MustChangePassword: row.MustChangePassword,
		MFAEnabled:         mapNullTimePtr(row.MfaEnabled),
		MFASecret:          mapNullStringPtr(row.MfaSecret),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

func mapOrganization(row gen.Organization) domain.Organization {
	return domain.Organization{
		ID:                    row.ID,
		Name:                  row.Name,
		PlanID:                domain.PlanID(row.PlanID),
		PlanStatus:            domain.SubscriptionStatus(row.PlanStatus),
		IsLegacy:              row.IsLegacy,
		PlanSyncedAt:          row.PlanSyncedAt,
		BillingCustomerID:     row.BillingCustomerID,
		BillingSubscriptionID: row.BillingSubscriptionID,
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
	}
}

func mapRegistrationToken(row gen.RegistrationToken) domain.RegistrationToken {
	return domain.RegistrationToken{
		ID:            row.ID,
		TokenHash:     row.TokenHash,
		SourceKind:    domain.TokenSource(row.SourceKind),
		OrgID:         row.OrganizationID,
		Role:          domain.Role(row.Role),
		IntendedEmail: row.IntendedEmail,
		CreatedBy:     row.CreatedBy,
		ExpiresAt:     row.ExpiresAt,
		ConsumedAt:    mapNullTimePtr(row.ConsumedAt),
		ConsumedBy:    row.ConsumedBy,
		CreatedAt:     row.CreatedAt,
	}
}

func mapSession(row gen.Session) domain.Session {
	return domain.Session{
		ID:                     row.ID,
		UserID:                 row.UserID,
		RefreshFingerprint:     row.RefreshFingerprint,
		PrevRefreshFingerprint: mapNullStringPtr(row.PrevRefreshFingerprint),
		AMR:                    splitAndFilter(row.Amr),
		ExpiresAt:              row.ExpiresAt,
		RevokedAt:              mapNullTimePtr(row.RevokedAt),
		CreatedAt:              row.CreatedAt,
		LastUsedAt:             row.LastUsedAt,
	}
}

func mapMFASession(row gen.MfaSession) domain.MFASession {
	return domain.MFASession{
		ID:        row.ID,
		TokenHash: row.TokenHash,
		UserID:    row.UserID,
		AMR:       splitAndFilter(row.Amr),
		Attempts:  int(row.Attempts),
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
	}
}

func mapSigningKey(row gen.SigningKey) domain.SigningKey {
	return domain.SigningKey{
		ID:                  row.ID,
		Kid:                 row.Kid,
		Algorithm:           row.Algorithm,
		PrivateKeyEncrypted: row.PrivateKeyEncrypted,
		CreatedAt:           row.CreatedAt,
		RetiredAt:           mapNullTimePtr(row.RetiredAt),
		ExpiresAt:           row.ExpiresAt,
	}
}
