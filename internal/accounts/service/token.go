package service

import (
	"time"

	"github.com/sundialhq/memberd/internal/accounts/domain"
	"github.com/sundialhq/memberd/pkg/jwtx"
)

// TokenIssuer mints signed access tokens bound to a user identity.
type TokenIssuer interface {
	IssueAccessToken(u domain.User, amr []string, now time.Time) (string, error)
}

// TokenService issues EdDSA-signed access tokens.
type TokenService struct {
	Signer    jwtx.Signer
	Issuer    string
	Audience  []string
	AccessTTL time.Duration
}

func (s *TokenService) IssueAccessToken(u domain.User, amr []string, now time.Time) (string, error) {
	ttl := s.AccessTTL
	if ttl == 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(
		u.ID,        // subject
		u.Email,     // email
		u.FirstName, // first name
		u.LastName,  // last name
		amr,         // authentication methods
		ttl,         // token lifetime
		s.Issuer,    // issuer
		s.Audience,  // audience
		now,         // current time
	)
	return s.Signer.Sign(claims)
}
