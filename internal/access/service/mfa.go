package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/truenorthhq/truenorth/internal/access/domain"
	"github.com/truenorthhq/truenorth/internal/access/store"
	"github.com/truenorthhq/truenorth/pkg/cryptox"
)

const (
	backupCodeCount = 10                   // Number of backup codes to generate
	backupCodeBytes = cryptox.TokenSize128 // 128-bit entropy for backup codes
)

var (
	ErrInvalidTOTPCode   = errors.New("invalid TOTP code")
	ErrMFANotEnabled     = errors.New("MFA not enabled for this user")
	ErrMFAAlreadyEnabled = errors.New("MFA already enabled for this user")
	ErrMFANotEnrolled    = errors.New("MFA not enrolled - call EnrollTOTP first")
)

type MFAService struct {
	Store  store.Store
	Issuer string // Issuer name for TOTP provisioning (e.g., "TrueNorth")
}

// EnrollTOTP generates a TOTP secret for the user and returns it along with
// the provisioning URL. This does NOT enable MFA yet - the user must verify
// a code first. Re-enrolling before verification overwrites the pending
// secret.
func (s *MFAService) EnrollTOTP(ctx context.Context, userID string, email string) (domain.MFAEnrollResponse, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.MFAEnrollResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if u.MFAEnabled != nil {
		return domain.MFAEnrollResponse{}, ErrMFAAlreadyEnabled
	}

	// Generate TOTP key
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.MFAEnrollResponse{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	// Store the secret (but don't enable MFA yet)
	if err := s.Store.Users().UpdateMFASecret(ctx, userID, key.Secret()); err != nil {
		return domain.MFAEnrollResponse{}, fmt.Errorf("failed to store MFA secret: %w", err)
	}

	return domain.MFAEnrollResponse{
		Secret:  key.Secret(),
		QRCode:  key.URL(),
		Issuer:  s.Issuer,
		Account: email,
	}, nil
}

// VerifyTOTP verifies a TOTP code and enables MFA for the user if valid.
// It also generates backup codes and stores them hashed.
func (s *MFAService) VerifyTOTP(ctx context.Context, userID string, code string) ([]string, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if u.MFASecret == nil || *u.MFASecret == "" {
		return nil, ErrMFANotEnrolled
	}
	if u.MFAEnabled != nil {
		return nil, ErrMFAAlreadyEnabled
	}

	if !totp.Validate(code, *u.MFASecret) {
		return nil, ErrInvalidTOTPCode
	}

	backupCodes, err := generateBackupCodes()
	if err != nil {
		return nil, err
	}

	// Store backup codes and enable MFA in a transaction
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, code := range backupCodes {
			hash := cryptox.FingerprintToken(code)
			if err := tx.BackupCodes().CreateBackupCode(ctx, userID, hash); err != nil {
				return fmt.Errorf("failed to store backup code: %w", err)
			}
		}
		if err := tx.Users().EnableMFA(ctx, userID); err != nil {
			return fmt.Errorf("failed to enable MFA: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return backupCodes, nil
}

// RegenerateBackupCodes generates new backup codes after verifying a TOTP
// code. Old codes stop working.
func (s *MFAService) RegenerateBackupCodes(ctx context.Context, userID string, totpCode string) ([]string, error) {
	if err := s.verifyTOTPCode(ctx, userID, totpCode); err != nil {
		return nil, err
	}

	backupCodes, err := generateBackupCodes()
	if err != nil {
		return nil, err
	}

	// Replace old backup codes with new ones in a transaction
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete old backup codes: %w", err)
		}
		for _, code := range backupCodes {
			hash := cryptox.FingerprintToken(code)
			if err := tx.BackupCodes().CreateBackupCode(ctx, userID, hash); err != nil {
				return fmt.Errorf("failed to store backup code: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return backupCodes, nil
}

// RemoveMFA disables MFA for a user after verifying a current TOTP code.
func (s *MFAService) RemoveMFA(ctx context.Context, userID string, totpCode string) error {
	if err := s.verifyTOTPCode(ctx, userID, totpCode); err != nil {
		return err
	}

	// Remove the secret and backup codes in a transaction
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete backup codes: %w", err)
		}
		if err := tx.Users().DisableMFA(ctx, userID); err != nil {
			return fmt.Errorf("failed to disable MFA: %w", err)
		}
		return nil
	})
}

// verifyTOTPCode is a helper that verifies a TOTP code for an MFA-enabled
// user.
func (s *MFAService) verifyTOTPCode(ctx context.Context, userID string, code string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if u.MFAEnabled == nil {
		return ErrMFANotEnabled
	}
	if u.MFASecret == nil || *u.MFASecret == "" {
		return ErrMFANotEnabled
	}

	if !totp.Validate(code, *u.MFASecret) {
		return ErrInvalidTOTPCode
	}
	return nil
}

func generateBackupCodes() ([]string, error) {
	codes := make([]string, backupCodeCount)
	for i := range backupCodeCount {
		code, err := cryptox.GenerateToken(backupCodeBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to generate backup code: %w", err)
		}
		codes[i] = code
	}
	return codes, nil
}
