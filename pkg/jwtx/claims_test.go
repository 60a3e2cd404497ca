package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	t.Parallel()

	c := Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "memberd"}}

	require.NoError(t, c.ValidateIssuer(""))
	require.NoError(t, c.ValidateIssuer("memberd"))
	require.ErrorIs(t, c.ValidateIssuer("other"), ErrIssuer)
}

func TestValidateAudience(t *testing.T) {
	t.Parallel()

	c := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Audience: jwt.ClaimStrings{"memberd-api", "reports"},
	}}

	require.NoError(t, c.ValidateAudience(nil))
	require.NoError(t, c.ValidateAudience([]string{"reports"}))
	require.ErrorIs(t, c.ValidateAudience([]string{"billing"}), ErrAudience)
}

func TestValidateExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	valid := Claims{RegisteredClaims: jwt.RegisteredClaims{
		NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}}
	require.NoError(t, valid.ValidateExpiry())

	expired := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
	}}
	require.ErrorIs(t, expired.ValidateExpiry(), ErrExpired)

	early := Claims{RegisteredClaims: jwt.RegisteredClaims{
		NotBefore: jwt.NewNumericDate(now.Add(time.Minute)),
	}}
	require.ErrorIs(t, early.ValidateExpiry(), ErrNotYetValid)
}

func TestNewJTIIsUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 100 {
		jti := NewJTI()
		require.NotEmpty(t, jti)
		_, dup := seen[jti]
		require.False(t, dup)
		seen[jti] = struct{}{}
	}
}
