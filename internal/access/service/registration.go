package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/entitlement"
	"github.com/truenorthhq/truenorth/internal/access/policy"
	"github.com/truenorthhq/truenorth/internal/access/store"
	"github.com/truenorthhq/truenorth/pkg/cryptox"
	"github.com/truenorthhq/truenorth/pkg/idx"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

const (
	// DefaultInviteTTL bounds how long a minted invite stays redeemable.
	DefaultInviteTTL = 14 * 24 * time.Hour

	// DefaultPurchaseTTL bounds the window between checkout and account
	// creation for purchase tokens.
	DefaultPurchaseTTL = 7 * 24 * time.Hour
)

var (
	ErrTokenNotFound       = errors.New("token_not_found")
	ErrTokenExpired        = errors.New("token_expired")
	ErrTokenConsumed       = errors.New("token_already_consumed")
	ErrEmailMismatch       = errors.New("token_email_mismatch")
	ErrEmailTaken          = errors.New("email_already_registered")
	ErrInvalidRole         = errors.New("invalid_role")
	ErrInvalidRegistration = errors.New("invalid_registration_request")
)

// RegistrationService issues, validates, and consumes single-use
// registration tokens. Raw tokens leave this service exactly once, at mint
// time; only fingerprints are stored.
//
// Token state machine: issued → consumed (terminal) or issued → expired
// (terminal, time-based). Consumption is a conditional update, so racing
// consumers get exactly one winner.
type RegistrationService struct {
	Store        store.Store
	Entitlements *EntitlementService
	InviteTTL    time.Duration
	PurchaseTTL  time.Duration
}

// MintInvite creates an invite token for the principal's organization.
// The capability check (manage users) happens at the HTTP layer; the seat
// precheck happens here so an org at its user limit finds out at mint
// time, not when the invitee registers.
func (s *RegistrationService) MintInvite(
	ctx context.Context,
	p domain.Principal,
	role domain.Role,
	intendedEmail string,
	ttl time.Duration,
) (string, error) {
	now := time.Now()
	log := slogx.FromContext(ctx)

	// 1. Validate the granted role.
	if !role.Valid() {
		log.Warn("attempted to mint invite with invalid role",
			slog.String("role", string(role)),
		)
		return "", ErrInvalidRole
	}

	// 2. Seat precheck against the current plan.
	decision, err := s.Entitlements.CheckSeats(ctx, p.OrgID)
	if err != nil {
		return "", err
	}
	if !decision.Allowed {
		log.Info("invite denied by seat limit",
			slog.String("org_id", p.OrgID),
			slog.Int64("limit", decision.Limit),
			slog.Int64("current", decision.Current),
		)
		return "", limitError(decision)
	}

	// 3. Default the expiry window.
	if ttl <= 0 {
		ttl = s.inviteTTL()
	}

	// 4. Generate the raw token and store only its fingerprint.
	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return "", err
	}

	token := domain.RegistrationToken{
		ID:            idx.New().String(),
		TokenHash:     cryptox.FingerprintToken(raw),
		SourceKind:    domain.TokenSourceInvite,
		OrgID:         p.OrgID,
		Role:          role,
		IntendedEmail: normalizeEmail(intendedEmail),
		CreatedBy:     p.UserID,
		ExpiresAt:     now.Add(ttl),
		CreatedAt:     now,
	}
	if err := s.Store.RegistrationTokens().CreateRegistrationToken(ctx, token); err != nil {
		log.Error("failed to create invite token",
			slog.String("token_id", token.ID),
			slog.Any("error", err),
		)
		return "", err
	}

	log.Debug("invite minted",
		slog.String("token_id", token.ID),
		slog.String("org_id", p.OrgID),
		slog.String("role", string(role)),
		slog.String("created_by", p.UserID),
		slog.Time("expires_at", token.ExpiresAt),
	)

	// 5. Return the raw token, not the fingerprint.
	return raw, nil
}

// IssuePurchaseToken creates the registration token for the first user of
// a freshly purchased organization. Webhook path: the role is always
// administrator and the token is bound to the checkout email.
func (s *RegistrationService) IssuePurchaseToken(ctx context.Context, orgID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	log := slogx.FromContext(ctx)

	email = normalizeEmail(email)
	if orgID == "" || email == "" {
		return "", ErrInvalidRegistration
	}
	if ttl <= 0 {
		ttl = s.purchaseTTL()
	}

	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate purchase token", slog.Any("error", err))
		return "", err
	}

	token := domain.RegistrationToken{
		ID:            idx.New().String(),
		TokenHash:     cryptox.FingerprintToken(raw),
		SourceKind:    domain.TokenSourcePurchase,
		OrgID:         orgID,
		Role:          domain.RoleAdministrator,
		IntendedEmail: email,
		ExpiresAt:     now.Add(ttl),
		CreatedAt:     now,
	}
	if err := s.Store.RegistrationTokens().CreateRegistrationToken(ctx, token); err != nil {
		log.Error("failed to create purchase token",
			slog.String("token_id", token.ID),
			slog.Any("error", err),
		)
		return "", err
	}

	log.Info("purchase token issued",
		slog.String("token_id", token.ID),
		slog.String("org_id", orgID),
		slog.Time("expires_at", token.ExpiresAt),
	)
	return raw, nil
}

// Validate classifies a raw token without consuming it. A nil error means
// the token is still in its issued state.
func (s *RegistrationService) Validate(ctx context.Context, raw string) (domain.RegistrationToken, error) {
	now := time.Now()

	token, err := s.Store.RegistrationTokens().GetRegistrationTokenByHash(ctx, cryptox.FingerprintToken(raw))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.RegistrationToken{}, ErrTokenNotFound
		}
		return domain.RegistrationToken{}, err
	}

	// Consumed wins over expired: a consumed token reached its terminal
	// state first, however old it is now.
	if token.Consumed() {
		return domain.RegistrationToken{}, ErrTokenConsumed
	}
	if token.Expired(now) {
		return domain.RegistrationToken{}, ErrTokenExpired
	}
	return token, nil
}

// Consume redeems a token and creates the account in one transaction.
// Either the token is consumed and the user exists, or neither happened.
//
// Racing consumers of the same token: the conditional update picks exactly
// one winner; losers re-read the row and learn whether they lost to a
// consumption or to the clock. An expired unconsumed token is always
// ErrTokenExpired, never ErrTokenConsumed.
func (s *RegistrationService) Consume(
	ctx context.Context,
	raw string,
	email, name, password string,
) (domain.User, error) {
	now := time.Now()
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if raw == "" || email == "" || name == "" || password == "" {
		return domain.User{}, ErrInvalidRegistration
	}

	// 2. Fingerprint lookup and terminal-state pre-checks. The conditional
	// update below re-checks under the transaction; this pass just gives
	// precise errors on the cheap path.
	token, err := s.Store.RegistrationTokens().GetRegistrationTokenByHash(ctx, cryptox.FingerprintToken(raw))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrTokenNotFound
		}
		return domain.User{}, err
	}
	if token.Consumed() {
		return domain.User{}, ErrTokenConsumed
	}
	if token.Expired(now) {
		return domain.User{}, ErrTokenExpired
	}

	// 3. Email binding.
	if token.IntendedEmail != "" && !strings.EqualFold(token.IntendedEmail, email) {
		log.Warn("registration attempted with mismatched email",
			slog.String("token_id", token.ID),
		)
		return domain.User{}, ErrEmailMismatch
	}

	// 4. Password policy.
	if clauses := policy.Check(password); len(clauses) > 0 {
		return domain.User{}, policyViolation(clauses)
	}

	// 5. Email availability.
	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		log.Warn("registration attempted with already-registered email",
			slog.String("token_id", token.ID),
		)
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	// 6. Hash the password.
	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	newUser := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         token.Role,
		OrgID:        token.OrgID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 7. Seat check, consumption, and account creation commit or roll
	// back together. The seat re-check uses the organization's cached
	// plan columns: no network calls inside the transaction.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		org, err := tx.Organizations().GetOrganizationByID(ctx, token.OrgID)
		if err != nil {
			return err
		}
		seats, err := tx.Users().CountUsersByOrg(ctx, token.OrgID)
		if err != nil {
			return err
		}
		if d := entitlement.CheckLimit(cachedDescriptor(org), domain.ResourceUser, seats); !d.Allowed {
			return limitError(d)
		}

		consumed, err := tx.RegistrationTokens().ConsumeRegistrationToken(ctx, token.ID, newUser.ID, now)
		if err != nil {
			return err
		}
		if !consumed {
			// Lost the race or ran out the clock; re-read to tell which.
			current, err := tx.RegistrationTokens().GetRegistrationTokenByID(ctx, token.ID)
			if err != nil {
				return err
			}
			if current.Consumed() {
				return ErrTokenConsumed
			}
			return ErrTokenExpired
		}

		return tx.Users().CreateUser(ctx, newUser)
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("user registered",
		slog.String("user_id", newUser.ID),
		slog.String("org_id", newUser.OrgID),
		slog.String("role", string(newUser.Role)),
		slog.String("token_id", token.ID),
		slog.String("source", string(token.SourceKind)),
	)
	return newUser, nil
}

func (s *RegistrationService) inviteTTL() time.Duration {
	if s.InviteTTL > 0 {
		return s.InviteTTL
	}
	return DefaultInviteTTL
}

func (s *RegistrationService) purchaseTTL() time.Duration {
	if s.PurchaseTTL > 0 {
		return s.PurchaseTTL
	}
	return DefaultPurchaseTTL
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
