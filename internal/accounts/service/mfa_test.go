package service

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestMFAService(t *testing.T) {
	ctx := context.Background()

	t.Run("enroll then verify enables mfa", func(t *testing.T) {
		s := newTestStore(t)
		svc := &MFAService{Store: s, Issuer: "memberd-test"}
		u := seedUser(t, s, "mfa@example.com")

		enroll, err := svc.EnrollTOTP(ctx, u.ID)
		require.NoError(t, err)
		require.NotEmpty(t, enroll.Secret)
		require.Contains(t, enroll.URL, "otpauth://")

		// enabled only after a valid code is presented
		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Nil(t, got.MFAEnabled)

		code, err := totp.GenerateCode(enroll.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.VerifyTOTP(ctx, u.ID, code))

		got, err = s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.MFAEnabled)
	})

	t.Run("verify rejects a wrong code", func(t *testing.T) {
		s := newTestStore(t)
		svc := &MFAService{Store: s, Issuer: "memberd-test"}
		u := seedUser(t, s, "mfa@example.com")

		_, err := svc.EnrollTOTP(ctx, u.ID)
		require.NoError(t, err)

		require.ErrorIs(t, svc.VerifyTOTP(ctx, u.ID, "000000"), ErrInvalidTOTPCode)
	})

	t.Run("verify without enrollment fails", func(t *testing.T) {
		s := newTestStore(t)
		svc := &MFAService{Store: s, Issuer: "memberd-test"}
		u := seedUser(t, s, "mfa@example.com")

		require.ErrorIs(t, svc.VerifyTOTP(ctx, u.ID, "000000"), ErrMFANotEnabled)
	})

	t.Run("enroll twice before verify replaces the secret", func(t *testing.T) {
		s := newTestStore(t)
		svc := &MFAService{Store: s, Issuer: "memberd-test"}
		u := seedUser(t, s, "mfa@example.com")

		first, err := svc.EnrollTOTP(ctx, u.ID)
		require.NoError(t, err)
		second, err := svc.EnrollTOTP(ctx, u.ID)
		require.NoError(t, err)
		require.NotEqual(t, first.Secret, second.Secret)
	})

	t.Run("enroll after enable is rejected", func(t *testing.T) {
		s := newTestStore(t)
		svc := &MFAService{Store: s, Issuer: "memberd-test"}
		u := seedUser(t, s, "mfa@example.com")

		enroll, err := svc.EnrollTOTP(ctx, u.ID)
		require.NoError(t, err)

		code, err := totp.GenerateCode(enroll.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.VerifyTOTP(ctx, u.ID, code))

		_, err = svc.EnrollTOTP(ctx, u.ID)
		require.ErrorIs(t, err, ErrMFAAlreadyEnabled)
	})

	t.Run("disable requires a current code", func(t *testing.T) {
		s := newTestStore(t)
		svc := &MFAService{Store: s, Issuer: "memberd-test"}
		u := seedUser(t, s, "mfa@example.com")

		enroll, err := svc.EnrollTOTP(ctx, u.ID)
		require.NoError(t, err)

		code, err := totp.GenerateCode(enroll.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.VerifyTOTP(ctx, u.ID, code))

		require.ErrorIs(t, svc.DisableTOTP(ctx, u.ID, "000000"), ErrInvalidTOTPCode)

		code, err = totp.GenerateCode(enroll.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.DisableTOTP(ctx, u.ID, code))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Nil(t, got.MFAEnabled)
		require.Nil(t, got.MFASecret)
	})
}
