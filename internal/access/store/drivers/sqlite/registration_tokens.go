package sqlite

import (
	"context"
	"time"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/store/drivers/sqlite/gen"
)

type registrationTokensRepo struct {
	q *gen.Queries
}

func (r *registrationTokensRepo) CreateRegistrationToken(
	ctx context.Context,
	t domain.RegistrationToken,
) error {
	return r.q.CreateRegistrationToken(ctx, gen.CreateRegistrationTokenParams{
		ID:             t.ID,
		TokenHash:      t.TokenHash,
		SourceKind:     string(t.SourceKind),
		OrganizationID: t.OrgID,
		Role:           string(t.Role),
		IntendedEmail:  t.IntendedEmail,
		CreatedBy:      t.CreatedBy,
		ExpiresAt:      t.ExpiresAt,
	})
}

func (r *registrationTokensRepo) GetRegistrationTokenByHash(
	ctx context.Context,
	hash string,
) (domain.RegistrationToken, error) {
	row, err := r.q.GetRegistrationTokenByHash(ctx, hash)
	if err != nil {
		return domain.RegistrationToken{}, mapNotFound(err)
	}
	return mapRegistrationToken(row), nil
}

func (r *registrationTokensRepo) GetRegistrationTokenByID(
	ctx context.Context,
	id string,
) (domain.RegistrationToken, error) {
	row, err := r.q.GetRegistrationTokenByID(ctx, id)
	if err != nil {
		return domain.RegistrationToken{}, mapNotFound(err)
	}
	return mapRegistrationToken(row), nil
}

// ConsumeRegistrationToken is a conditional UPDATE, so two racing consumers
// get exactly one winner. It returns false when the token was already
// consumed, already expired, or does not exist.
func (r *registrationTokensRepo) ConsumeRegistrationToken(
	ctx context.Context,
	id, consumedBy string,
	now time.Time,
) (bool, error) {
	affected, err := r.q.ConsumeRegistrationToken(ctx, gen.ConsumeRegistrationTokenParams{
		ConsumedAt: mapTimeNull(now),
		ConsumedBy: consumedBy,
		ID:         id,
		ExpiresAt:  now,
	})
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *registrationTokensRepo) DeleteExpiredRegistrationTokens(ctx context.Context) error {
	return r.q.DeleteExpiredRegistrationTokens(ctx, time.Now().UTC())
}
