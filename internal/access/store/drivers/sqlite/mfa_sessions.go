package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/store/drivers/sqlite/gen"
)

type mfaSessionsRepo struct {
	q *gen.Queries
}

func (r *mfaSessionsRepo) CreateMFASession(ctx context.Context, s domain.MFASession) error {
	return r.q.CreateMFASession(ctx, gen.CreateMFASessionParams{
		ID:        s.ID,
		TokenHash: s.TokenHash,
		UserID:    s.UserID,
		Amr:       strings.Join(s.AMR, " "),
		ExpiresAt: s.ExpiresAt,
	})
}

func (r *mfaSessionsRepo) GetMFASessionByTokenHash(
	ctx context.Context,
	tokenHash string,
) (domain.MFASession, error) {
	row, err := r.q.GetMFASessionByTokenHash(ctx, gen.GetMFASessionByTokenHashParams{
		TokenHash: tokenHash,
		ExpiresAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.MFASession{}, mapNotFound(err)
	}
	return mapMFASession(row), nil
}

func (r *mfaSessionsRepo) IncrementMFASessionAttempts(
	ctx context.Context,
	id string,
) (domain.MFASession, error) {
	row, err := r.q.IncrementMFASessionAttempts(ctx, id)
	if err != nil {
		return domain.MFASession{}, mapNotFound(err)
	}
	return mapMFASession(row), nil
}

// ConsumeMFASession deletes the challenge row. The DELETE doubles as the
// single-use guard: of two racing completions only one sees an affected row.
func (r *mfaSessionsRepo) ConsumeMFASession(ctx context.Context, id string) (bool, error) {
	affected, err := r.q.DeleteMFASession(ctx, id)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *mfaSessionsRepo) DeleteExpiredMFASessions(ctx context.Context) error {
	return r.q.DeleteExpiredMFASessions(ctx, time.Now().UTC())
}
