package service

import (
	"context"
	"fmt"

	"github.com/sundialhq/memberd/internal/accounts/domain"
	"github.com/sundialhq/memberd/internal/accounts/store"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// MFAService manages TOTP enrollment. Enrollment is two-step: a secret
// is generated and stored first, then MFA turns on only once the user
// proves their authenticator with a valid code.
type MFAService struct {
	Store  store.Store
	Issuer string // issuer name shown in authenticator apps
}

// EnrollTOTP generates a TOTP secret for the user and returns the
// otpauth URL. MFA is not active until VerifyTOTP succeeds.
func (s *MFAService) EnrollTOTP(ctx context.Context, userID string) (domain.MFAEnrollment, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("failed to get user: %w", err)
	}
	if u.MFAEnabled != nil {
		return domain.MFAEnrollment{}, ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: u.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	// Store the secret but don't enable MFA yet. Re-enrolling before
	// verification simply replaces the pending secret.
	if err := s.Store.Users().UpdateMFASecret(ctx, userID, key.Secret()); err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("failed to store MFA secret: %w", err)
	}

	return domain.MFAEnrollment{
		Secret:  key.Secret(),
		URL:     key.URL(),
		Issuer:  s.Issuer,
		Account: u.Email,
	}, nil
}

// VerifyTOTP checks a code against the pending secret and enables MFA
// when it matches.
func (s *MFAService) VerifyTOTP(ctx context.Context, userID string, code string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u.MFAEnabled != nil {
		return ErrMFAAlreadyEnabled
	}
	if u.MFASecret == nil || *u.MFASecret == "" {
		return ErrMFANotEnabled
	}

	if !totp.Validate(code, *u.MFASecret) {
		return ErrInvalidTOTPCode
	}

	return s.Store.Users().EnableMFA(ctx, userID)
}

// DisableTOTP turns MFA off after verifying a current code.
func (s *MFAService) DisableTOTP(ctx context.Context, userID string, code string) error {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if u.MFAEnabled == nil || u.MFASecret == nil || *u.MFASecret == "" {
		return ErrMFANotEnabled
	}

	if !totp.Validate(code, *u.MFASecret) {
		return ErrInvalidTOTPCode
	}

	return s.Store.Users().DisableMFA(ctx, userID)
}
