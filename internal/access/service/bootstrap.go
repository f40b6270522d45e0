package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/policy"
	"github.com/truenorthhq/truenorth/internal/access/store"
	"github.com/truenorthhq/truenorth/pkg/cryptox"
	"github.com/truenorthhq/truenorth/pkg/idx"
	"github.com/truenorthhq/truenorth/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
	ErrInvalidBootstrap      = errors.New("invalid bootstrap request")
)

// BootstrapService seeds an empty installation with its first organization
// and administrator. Guarded by a pre-shared token and only usable while
// the store is empty; after that every account comes from a registration
// token.
type BootstrapService struct {
	Store store.Store
	Token string // Pre-configured bootstrap token; empty disables bootstrap
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	usersEmpty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	orgsEmpty, err := s.Store.Organizations().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !usersEmpty && !orgsEmpty, nil
}

func (s *BootstrapService) Bootstrap(
	ctx context.Context,
	token string,
	req domain.BootstrapData,
) (domain.User, domain.Organization, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	// 1. Check if already bootstrapped
	if bootstrapped, _ := s.IsBootstrapped(ctx); bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.User{}, domain.Organization{}, ErrBootstrapAlready
	}

	// 2. Validate the guard token. An unconfigured token disables
	// bootstrap outright.
	if s.Token == "" || token != s.Token {
		l.Warn("unauthorized bootstrap attempt")
		return domain.User{}, domain.Organization{}, ErrBootstrapUnauthorized
	}

	// 3. Validate inputs. The first administrator sets a real password,
	// so the policy applies from day one.
	orgName := strings.TrimSpace(req.OrgName)
	email := normalizeEmail(req.AdminEmail)
	name := strings.TrimSpace(req.AdminName)
	if orgName == "" || email == "" || name == "" {
		return domain.User{}, domain.Organization{}, ErrInvalidBootstrap
	}
	if clauses := policy.Check(req.AdminPassword); len(clauses) > 0 {
		return domain.User{}, domain.Organization{}, policyViolation(clauses)
	}

	// 4. Hash password
	passHash, err := cryptox.HashPassword(req.AdminPassword)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return domain.User{}, domain.Organization{}, err
	}

	// 5. Create the organization and administrator in a transaction. The
	// first org starts on the team plan with no subscription attached;
	// billing refs arrive later through the webhook.
	org := domain.Organization{
		ID:           idx.New().String(),
		Name:         orgName,
		PlanID:       domain.PlanTeam,
		PlanStatus:   domain.SubscriptionActive,
		PlanSyncedAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	admin := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passHash,
		Role:         domain.RoleAdministrator,
		OrgID:        org.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Organizations().CreateOrganization(ctx, org); err != nil {
			l.Error("failed to create organization",
				slog.String("org_id", org.ID),
				slog.Any("error", err),
			)
			return err
		}
		if err := tx.Users().CreateUser(ctx, admin); err != nil {
			l.Error("failed to create admin user",
				slog.String("admin_user_id", admin.ID),
				slog.Any("error", err),
			)
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, domain.Organization{}, err
	}

	l.Info("successfully bootstrapped system",
		slog.String("org_id", org.ID),
		slog.String("admin_user_id", admin.ID),
	)
	return admin, org, nil
}
