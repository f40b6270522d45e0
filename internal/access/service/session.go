package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/store"
	"github.com/truenorthhq/truenorth/pkg/accesssdk"
	"github.com/truenorthhq/truenorth/pkg/cryptox"
	"github.com/truenorthhq/truenorth/pkg/idx"
	"github.com/truenorthhq/truenorth/pkg/jwtx"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

const (
	// MaxMFAAttempts is the maximum number of failed MFA attempts allowed per challenge
	MaxMFAAttempts = 5
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrInvalidMFAToken    = errors.New("invalid_mfa_token")
	ErrInvalidMFACode     = errors.New("invalid_mfa_code")
	ErrTooManyAttempts    = errors.New("too_many_attempts")

	mfaMethods = []string{"totp", "backup_codes"}
)

// MFARequiredError is an alias to the SDK's MFARequiredError so the HTTP
// layer and e2e clients see one type.
type MFARequiredError = accesssdk.MFARequiredError

// SessionService owns login, token refresh, logout, and per-request
// authentication. Access tokens are EdDSA JWTs carrying the session id;
// refresh tokens are opaque and stored only as fingerprints on the
// session row.
type SessionService struct {
	KeyManager *jwtx.KeyManager
	Store      store.Store
	Issuer     string
	Audience   []string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	MFATTL     time.Duration // pending second-factor window, default 5 minutes
}

// Login authenticates an email/password pair. Accounts with MFA enabled
// get a *MFARequiredError carrying a short-lived challenge token instead
// of a pair; everything else that goes wrong with the credentials is
// ErrInvalidCredentials.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	// 1. Look up the user. Unknown email and wrong password return the
	// same error, so the two are indistinguishable to callers.
	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify the password.
	if cryptox.VerifyPassword(password, u.PasswordHash) != nil {
		l.Info("login password verification failed", slog.String("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	// 3. MFA-enabled accounts get a challenge instead of a pair.
	if u.MFAEnabled != nil {
		return nil, s.issueMFAChallenge(ctx, u, now)
	}

	// 4. Mint the session row and sign the pair.
	sess, refreshOpaque, err := s.newSession(u, []string{jwtx.AMRPassword}, now)
	if err != nil {
		return nil, err
	}
	access, err := s.signAccess(u, sess.ID, sess.AMR, now)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return nil, err
	}

	l.Info("login succeeded",
		slog.String("user_id", u.ID),
		slog.String("session_id", sess.ID),
	)
	return s.pair(access, refreshOpaque), nil
}

// issueMFAChallenge parks the half-finished login in mfa_sessions and
// returns the challenge as an error value. Only the fingerprint of the
// challenge token is stored.
func (s *SessionService) issueMFAChallenge(ctx context.Context, u domain.User, now time.Time) error {
	raw, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return err
	}

	challenge := domain.MFASession{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(raw),
		UserID:    u.ID,
		AMR:       []string{jwtx.AMRPassword},
		ExpiresAt: now.Add(s.mfaTTL()),
		CreatedAt: now,
	}
	if err := s.Store.MFASessions().CreateMFASession(ctx, challenge); err != nil {
		return err
	}

	return &MFARequiredError{
		MFAToken: raw,
		Methods:  mfaMethods,
	}
}

// CompleteMFA finishes a pending two-step login. method is "totp" or
// "backup_codes". A challenge dies after MaxMFAAttempts failures, and
// completion is single-use: racing completions get exactly one winner.
func (s *SessionService) CompleteMFA(ctx context.Context, mfaToken, method, code string) (*domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	// 1. Retrieve the pending challenge by fingerprint. The store already
	// filters out expired rows.
	challenge, err := s.Store.MFASessions().GetMFASessionByTokenHash(ctx, cryptox.FingerprintToken(mfaToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidMFAToken
		}
		return nil, err
	}

	// 2. Check the attempt budget. A spent challenge is deleted so it
	// cannot be ground down further.
	if challenge.Attempts >= MaxMFAAttempts {
		_, _ = s.Store.MFASessions().ConsumeMFASession(ctx, challenge.ID)
		l.Warn("mfa challenge exceeded max attempts",
			slog.String("user_id", challenge.UserID),
			slog.Int("attempts", challenge.Attempts),
		)
		return nil, ErrTooManyAttempts
	}

	// 3. Load the user for the MFA secret.
	u, err := s.Store.Users().GetUserByID(ctx, challenge.UserID)
	if err != nil {
		l.Error("failed to get user for mfa completion",
			slog.Any("error", err),
			slog.String("user_id", challenge.UserID),
		)
		return nil, err
	}

	// 4. Verify the code. Backup codes are burned inside the completion
	// transaction below so a failed commit does not eat the code.
	var usedBackupCode string
	var validationErr error

	switch method {
	case "totp":
		if u.MFASecret == nil || *u.MFASecret == "" {
			validationErr = ErrInvalidMFACode
		} else if !totp.Validate(code, *u.MFASecret) {
			validationErr = ErrInvalidMFACode
		}

	case "backup_codes":
		codeHash := cryptox.FingerprintToken(code)
		valid, err := s.Store.BackupCodes().VerifyBackupCode(ctx, u.ID, codeHash)
		if err != nil {
			return nil, err
		}
		if !valid {
			validationErr = ErrInvalidMFACode
		} else {
			usedBackupCode = codeHash
		}

	default:
		return nil, ErrInvalidMFACode
	}

	// 5. On failure, burn an attempt and report how many are gone.
	if validationErr != nil {
		updated, err := s.Store.MFASessions().IncrementMFASessionAttempts(ctx, challenge.ID)
		if err != nil {
			l.Error("failed to increment mfa attempts", slog.Any("error", err))
			return nil, validationErr
		}
		l.Warn("mfa verification failed",
			slog.String("user_id", u.ID),
			slog.Int("attempts", updated.Attempts),
			slog.String("method", method),
		)
		return nil, validationErr
	}

	// 6. Mint the session. Backup-code burn, challenge consumption, and
	// session creation commit together.
	amr := dedupe(append(challenge.AMR, jwtx.AMRMFA))
	sess, refreshOpaque, err := s.newSession(u, amr, now)
	if err != nil {
		return nil, err
	}
	access, err := s.signAccess(u, sess.ID, amr, now)
	if err != nil {
		return nil, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if usedBackupCode != "" {
			if err := tx.BackupCodes().DeleteBackupCode(ctx, u.ID, usedBackupCode); err != nil {
				return err
			}
		}
		consumed, err := tx.MFASessions().ConsumeMFASession(ctx, challenge.ID)
		if err != nil {
			return err
		}
		if !consumed {
			return ErrInvalidMFAToken
		}
		return tx.Sessions().CreateSession(ctx, sess)
	})
	if err != nil {
		return nil, err
	}

	l.Info("mfa login succeeded",
		slog.String("user_id", u.ID),
		slog.String("session_id", sess.ID),
		slog.String("method", method),
	)
	return s.pair(access, refreshOpaque), nil
}

// Refresh rotates the refresh token and issues a fresh pair. Rotation is a
// single conditional update, so concurrent presenters of the same token
// get exactly one winner. A token that was already rotated away is treated
// as stolen and revokes the whole session.
func (s *SessionService) Refresh(ctx context.Context, refreshOpaque string) (*domain.TokenPair, error) {
	now := time.Now()

	// 1. Look up the session by refresh fingerprint.
	fp := cryptox.FingerprintToken(refreshOpaque)
	sess, err := s.Store.Sessions().GetSessionByRefreshFingerprint(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, s.detectRefreshReuse(ctx, fp)
		}
		return nil, err
	}

	// 2. The session row must still be live.
	if !sess.Live(now) {
		return nil, ErrInvalidRefresh
	}

	// 3. Re-fetch the user so the new access token carries live identity.
	u, err := s.Store.Users().GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	// 4. Rotate. The update is conditional on the old fingerprint still
	// being current, which keeps the new expiry sliding forward only for
	// the winner.
	newOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}
	rotated, err := s.Store.Sessions().RotateRefresh(ctx, sess.ID, fp, cryptox.FingerprintToken(newOpaque), now.Add(s.RefreshTTL))
	if err != nil {
		return nil, err
	}
	if !rotated {
		return nil, ErrInvalidRefresh
	}

	// 5. Sign the access token with refresh appended to the AMR history.
	amr := dedupe(append(sess.AMR, jwtx.AMRRefresh))
	access, err := s.signAccess(u, sess.ID, amr, now)
	if err != nil {
		return nil, err
	}

	return s.pair(access, newOpaque), nil
}

// detectRefreshReuse classifies an unknown refresh fingerprint. Finding it
// in a session's previous-fingerprint slot means the token was already
// rotated away: someone is replaying an old token, and there is no way to
// tell whether the thief or the owner presented it first, so the session
// dies.
func (s *SessionService) detectRefreshReuse(ctx context.Context, fp string) error {
	l := slogx.FromContext(ctx)

	sess, err := s.Store.Sessions().GetSessionByPrevFingerprint(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidRefresh
		}
		return err
	}

	if err := s.Store.Sessions().RevokeSession(ctx, sess.ID); err != nil {
		l.Error("failed to revoke session after refresh reuse",
			slog.Any("error", err),
			slog.String("session_id", sess.ID),
		)
		return err
	}

	l.Warn("refresh token reuse detected, session revoked",
		slog.String("session_id", sess.ID),
		slog.String("user_id", sess.UserID),
	)
	return ErrInvalidRefresh
}

// Logout revokes the session behind the presented access token. Idempotent:
// unknown, expired, and already-revoked credentials all return nil because
// the caller's goal, no live session, already holds.
func (s *SessionService) Logout(ctx context.Context, rawToken string) error {
	l := slogx.FromContext(ctx)

	claims, err := s.KeyManager.Verifier.Verify(rawToken)
	if err != nil || claims.SID == "" {
		return nil
	}

	if err := s.Store.Sessions().RevokeSession(ctx, claims.SID); err != nil {
		return err
	}

	l.Info("session revoked", slog.String("session_id", claims.SID))
	return nil
}

// Authenticate verifies an access token and returns the live principal.
//
// The JWT is self-verifying, but the session row must also be live (that
// is what makes logout take effect immediately) and the user row is
// re-fetched so role and the forced-password-change flag reflect the
// store, not whatever the claims carried at issuance.
func (s *SessionService) Authenticate(ctx context.Context, rawToken string) (domain.Principal, error) {
	now := time.Now()

	// 1. Parse and verify signature, issuer, audience, and expiry.
	claims, err := s.KeyManager.Verifier.Verify(rawToken)
	if err != nil {
		return domain.Principal{}, ErrUnauthenticated
	}
	if claims.SID == "" {
		return domain.Principal{}, ErrUnauthenticated
	}

	// 2. The session row must exist, be unrevoked, and belong to the
	// token's subject.
	sess, err := s.Store.Sessions().GetSessionByID(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Principal{}, ErrUnauthenticated
		}
		return domain.Principal{}, err
	}
	if !sess.Live(now) || sess.UserID != claims.Subject {
		return domain.Principal{}, ErrUnauthenticated
	}

	// 3. Live user read: role and mustChangePassword come from here,
	// never from claims.
	u, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Principal{}, ErrUnauthenticated
		}
		return domain.Principal{}, err
	}

	p := domain.PrincipalFromUser(u)
	p.SessionID = sess.ID
	p.AMR = claims.AMR
	return p, nil
}

func (s *SessionService) newSession(u domain.User, amr []string, now time.Time) (domain.Session, string, error) {
	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Session{}, "", err
	}

	sess := domain.Session{
		ID:                 idx.New().String(),
		UserID:             u.ID,
		RefreshFingerprint: cryptox.FingerprintToken(refreshOpaque),
		AMR:                amr,
		ExpiresAt:          now.Add(s.RefreshTTL),
		CreatedAt:          now,
		LastUsedAt:         now,
	}
	return sess, refreshOpaque, nil
}

func (s *SessionService) signAccess(u domain.User, sessionID string, amr []string, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(
		u.ID,        // subject
		sessionID,   // session id, carried as sid
		amr,         // authentication methods
		s.AccessTTL, // token lifetime
		s.Issuer,    // issuer
		s.Audience,  // audience
		u.Email,     // email
		u.Name,      // display name
		now,         // current time
	)

	// GetSigner() distributes signing across the active keys.
	signer := s.KeyManager.GetSigner()
	if signer == nil {
		return "", errors.New("no active signing key")
	}
	return signer.Sign(claims)
}

func (s *SessionService) pair(access, refresh string) *domain.TokenPair {
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
	}
}

func (s *SessionService) mfaTTL() time.Duration {
	if s.MFATTL > 0 {
		return s.MFATTL
	}
	return 5 * time.Minute
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
