package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/store"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

var ErrLastAdministrator = errors.New("cannot_demote_last_administrator")

// UserService covers organization-scoped user administration.
type UserService struct {
	Store store.Store
}

// ListUsers returns the users of the principal's organization.
func (s *UserService) ListUsers(ctx context.Context, p domain.Principal) ([]domain.User, error) {
	return s.Store.Users().ListUsersByOrg(ctx, p.OrgID)
}

// AssignRole changes another user's role. The change shows up on the
// target's next authenticated request because principals are built from
// the live user row. Cross-organization targets read as absent, and the
// last administrator of an organization cannot be demoted, so org
// administration never goes dark.
func (s *UserService) AssignRole(ctx context.Context, p domain.Principal, userID string, role domain.Role) error {
	log := slogx.FromContext(ctx)

	if !role.Valid() {
		return ErrInvalidRole
	}

	target, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if target.OrgID != p.OrgID {
		return ErrUserNotFound
	}
	if target.Role == role {
		return nil
	}

	if target.Role == domain.RoleAdministrator {
		users, err := s.Store.Users().ListUsersByOrg(ctx, p.OrgID)
		if err != nil {
			return err
		}
		admins := 0
		for _, u := range users {
			if u.Role == domain.RoleAdministrator {
				admins++
			}
		}
		if admins <= 1 {
			log.Warn("refused to demote last administrator",
				slog.String("user_id", userID),
				slog.String("org_id", p.OrgID),
			)
			return ErrLastAdministrator
		}
	}

	if err := s.Store.Users().UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	log.Info("role assigned",
		slog.String("user_id", userID),
		slog.String("role", string(role)),
		slog.String("assigned_by", p.UserID),
	)
	return nil
}
