package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/policy"
	"github.com/truenorthhq/truenorth/internal/access/store"
	"github.com/truenorthhq/truenorth/pkg/accesssdk"
	"github.com/truenorthhq/truenorth/pkg/cryptox"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

var ErrUserNotFound = errors.New("user_not_found")

// PolicyViolationError is an alias to the SDK's PolicyViolationError so
// the HTTP layer and e2e clients see one type.
type PolicyViolationError = accesssdk.PolicyViolationError

// PasswordService owns credential changes: the user-initiated change and
// the administrative reset that forces one.
type PasswordService struct {
	Store store.Store
}

// ChangePassword verifies the current password, applies the policy to the
// new one, stores the new hash, clears the forced-change flag, and revokes
// the user's other sessions. The session making the change stays live.
func (s *PasswordService) ChangePassword(ctx context.Context, p domain.Principal, current, next string) error {
	log := slogx.FromContext(ctx)

	// 1. Re-verify the current password; possession of a session is not
	// enough to rotate the credential.
	u, err := s.Store.Users().GetUserByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if cryptox.VerifyPassword(current, u.PasswordHash) != nil {
		log.Info("password change rejected, current password wrong",
			slog.String("user_id", p.UserID),
		)
		return ErrInvalidCredentials
	}

	// 2. Policy-check the replacement.
	if clauses := policy.Check(next); len(clauses) > 0 {
		return policyViolation(clauses)
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return err
	}

	// 3. Store the hash, clear the forced-change flag, and kick every
	// other session in one transaction.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePassword(ctx, p.UserID, hash, false); err != nil {
			return err
		}
		return tx.Sessions().RevokeUserSessions(ctx, p.UserID, p.SessionID)
	})
	if err != nil {
		return err
	}

	log.Info("password changed",
		slog.String("user_id", p.UserID),
	)
	return nil
}

// ResetPassword generates a temporary password for another user in the
// principal's organization, flags the account for a forced change, and
// revokes all of its sessions. The temporary password is returned exactly
// once; it is exempt from the policy because the first login forces a
// policy-checked replacement.
func (s *PasswordService) ResetPassword(ctx context.Context, p domain.Principal, userID string) (string, error) {
	log := slogx.FromContext(ctx)

	// Cross-organization targets read as absent.
	target, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if target.OrgID != p.OrgID {
		return "", ErrUserNotFound
	}

	temp, err := cryptox.GenerateTemporaryPassword()
	if err != nil {
		return "", err
	}
	hash, err := cryptox.HashPassword(temp)
	if err != nil {
		return "", err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePassword(ctx, userID, hash, true); err != nil {
			return err
		}
		return tx.Sessions().RevokeUserSessions(ctx, userID, "")
	})
	if err != nil {
		return "", err
	}

	log.Info("password reset",
		slog.String("user_id", userID),
		slog.String("reset_by", p.UserID),
	)
	return temp, nil
}

func policyViolation(clauses []policy.Clause) *PolicyViolationError {
	out := make([]string, len(clauses))
	for i, c := range clauses {
		out[i] = string(c)
	}
	return &PolicyViolationError{Clauses: out}
}
