package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/store/drivers/sqlite/gen"
)

type sessionsRepo struct {
	q *gen.Queries
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	return r.q.CreateSession(ctx, gen.CreateSessionParams{
		ID:                 s.ID,
		UserID:             s.UserID,
		RefreshFingerprint: s.RefreshFingerprint,
		Amr:                strings.Join(s.AMR, " "),
		ExpiresAt:          s.ExpiresAt,
		LastUsedAt:         s.LastUsedAt,
	})
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	row, err := r.q.GetSessionByID(ctx, id)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return mapSession(row), nil
}

func (r *sessionsRepo) GetSessionByRefreshFingerprint(
	ctx context.Context,
	fp string,
) (domain.Session, error) {
	row, err := r.q.GetSessionByRefreshFingerprint(ctx, fp)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return mapSession(row), nil
}

func (r *sessionsRepo) GetSessionByPrevFingerprint(
	ctx context.Context,
	fp string,
) (domain.Session, error) {
	row, err := r.q.GetSessionByPrevFingerprint(ctx, mapStringNull(fp))
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return mapSession(row), nil
}

// RotateRefresh is a conditional UPDATE keyed on the old fingerprint, so two
// racing refreshes get exactly one winner. The losing UPDATE matches zero
// rows and returns false.
func (r *sessionsRepo) RotateRefresh(
	ctx context.Context,
	sessionID, oldFP, newFP string,
	newExpiry time.Time,
) (bool, error) {
	affected, err := r.q.RotateSessionRefresh(ctx, gen.RotateSessionRefreshParams{
		RefreshFingerprint:   newFP,
		LastUsedAt:           time.Now().UTC(),
		ExpiresAt:            newExpiry,
		ID:                   sessionID,
		RefreshFingerprint_2: oldFP,
	})
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, sessionID string) error {
	return r.q.RevokeSession(ctx, gen.RevokeSessionParams{
		RevokedAt: mapTimeNull(time.Now().UTC()),
		ID:        sessionID,
	})
}

func (r *sessionsRepo) RevokeUserSessions(ctx context.Context, userID, exceptID string) error {
	return r.q.RevokeUserSessions(ctx, gen.RevokeUserSessionsParams{
		RevokedAt: mapTimeNull(time.Now().UTC()),
		UserID:    userID,
		ID:        exceptID,
	})
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	return r.q.DeleteExpiredSessions(ctx, time.Now().UTC())
}
