package sqlite

import (
	"context"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	return r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		PasswordHash:       u.PasswordHash,
		Role:               string(u.Role),
		OrganizationID:     u.OrgID,
		MustChangePassword: u.MustChangePassword,
	})
}

func (r *usersRepo) ListUsersByOrg(ctx context.Context, orgID string) ([]domain.User, error) {
	rows, err := r.q.ListUsersByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, len(rows))
	for i, row := range rows {
		users[i] = mapUser(row)
	}
	return users, nil
}

func (r *usersRepo) CountUsersByOrg(ctx context.Context, orgID string) (int64, error) {
	return r.q.CountUsersByOrg(ctx, orgID)
}

func (r *usersRepo) UpdatePassword(
	ctx context.Context,
	userID, newHash string,
	mustChange bool,
) error {
	return r.q.UpdateUserPassword(ctx, gen.UpdateUserPasswordParams{
		PasswordHash:       newHash,
		MustChangePassword: mustChange,
		ID:                 userID,
	})
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID string, role domain.Role) error {
	return r.q.UpdateUserRole(ctx, gen.UpdateUserRoleParams{
		Role: string(role),
		ID:   userID,
	})
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	count, err := r.q.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *usersRepo) UpdateMFASecret(ctx context.Context, userID string, secret string) error {
	return r.q.UpdateUserMFASecret(ctx, gen.UpdateUserMFASecretParams{
		MfaSecret: mapStringNull(secret),
		ID:        userID,
	})
}

func (r *usersRepo) EnableMFA(ctx context.Context, userID string) error {
	return r.q.EnableUserMFA(ctx, userID)
}

func (r *usersRepo) DisableMFA(ctx context.Context, userID string) error {
	return r.q.DisableUserMFA(ctx, userID)
}
