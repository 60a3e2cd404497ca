package accounts_test

import (
	"errors"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/sundialhq/memberd/pkg/accountsdk"
)

// TestMFALifecycle walks the full TOTP flow: enroll, verify, login with a
// code, then disable.
func TestMFALifecycle(t *testing.T) {
	baseURL, cleanup := setupAccountsContainer(t)
	defer cleanup()

	client := accountsdk.NewSDKClient(baseURL)
	_, session := registerTestUser(t, client, "Mia", "mia@example.com")

	// Enroll returns the shared secret and provisioning URL. MFA is not
	// active yet, so logging in without a code still works.
	enroll, err := session.EnrollTOTP(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, enroll.Data.Secret)
	require.NotEmpty(t, enroll.Data.URL)
	require.Equal(t, "mia@example.com", enroll.Data.Account)
	t.Logf("TOTP enrollment initiated, issuer: %s", enroll.Data.Issuer)

	_, _, err = client.Login(t.Context(), accountsdk.LoginRequest{
		Email:    "mia@example.com",
		Password: testPassword,
	})
	require.NoError(t, err, "login should not require a code before verification")

	// Verifying a valid code activates MFA.
	code, err := totp.GenerateCode(enroll.Data.Secret, time.Now())
	require.NoError(t, err)

	verifyResp, err := session.VerifyTOTP(t.Context(), code)
	require.NoError(t, err)
	require.Equal(t, accountsdk.StatusSuccess, verifyResp.Status)

	t.Run("login without code is rejected", func(t *testing.T) {
		_, _, err := client.Login(t.Context(), accountsdk.LoginRequest{
			Email:    "mia@example.com",
			Password: testPassword,
		})
		require.Error(t, err)

		var aerr *accountsdk.APIError
		require.True(t, errors.As(err, &aerr))
		require.Equal(t, 401, aerr.StatusCode)
		require.Equal(t, "MFA code required", aerr.Message)
	})

	t.Run("login with wrong code is rejected", func(t *testing.T) {
		_, _, err := client.Login(t.Context(), accountsdk.LoginRequest{
			Email:    "mia@example.com",
			Password: testPassword,
			TOTPCode: "000000",
		})
		require.Error(t, err)

		var aerr *accountsdk.APIError
		require.True(t, errors.As(err, &aerr))
		require.Equal(t, 401, aerr.StatusCode)
		require.Equal(t, "Authentication failed", aerr.Message)
	})

	t.Run("login with valid code succeeds", func(t *testing.T) {
		code, err := totp.GenerateCode(enroll.Data.Secret, time.Now())
		require.NoError(t, err)

		resp, mfaSession, err := client.Login(t.Context(), accountsdk.LoginRequest{
			Email:    "mia@example.com",
			Password: testPassword,
			TOTPCode: code,
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.Data.AccessToken)

		// The session works like any other authenticated session.
		orgs, err := mfaSession.ListOrganisations(t.Context())
		require.NoError(t, err)
		require.Len(t, orgs.Data.Organisations, 1)
	})

	t.Run("disable requires a current code", func(t *testing.T) {
		_, err := session.DisableTOTP(t.Context(), "000000")
		require.Error(t, err)

		code, err := totp.GenerateCode(enroll.Data.Secret, time.Now())
		require.NoError(t, err)

		resp, err := session.DisableTOTP(t.Context(), code)
		require.NoError(t, err)
		require.Equal(t, accountsdk.StatusSuccess, resp.Status)

		// Plain password login works again.
		_, _, err = client.Login(t.Context(), accountsdk.LoginRequest{
			Email:    "mia@example.com",
			Password: testPassword,
		})
		require.NoError(t, err)
	})
}

// TestMFAVerifyWithoutEnrollment covers the ordering edge cases around
// enrollment state.
func TestMFAVerifyWithoutEnrollment(t *testing.T) {
	baseURL, cleanup := setupAccountsContainer(t)
	defer cleanup()

	client := accountsdk.NewSDKClient(baseURL)
	_, session := registerTestUser(t, client, "Noah", "noah@example.com")

	_, err := session.VerifyTOTP(t.Context(), "123456")
	require.Error(t, err)

	var aerr *accountsdk.APIError
	require.True(t, errors.As(err, &aerr))
	require.Equal(t, 400, aerr.StatusCode)

	_, err = session.DisableTOTP(t.Context(), "123456")
	require.Error(t, err)
}
