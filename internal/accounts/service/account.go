package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sundialhq/memberd/internal/accounts/domain"
	"github.com/sundialhq/memberd/internal/accounts/store"
	"github.com/sundialhq/memberd/pkg/idx"
	"github.com/sundialhq/memberd/pkg/jwtx"
	"github.com/sundialhq/memberd/pkg/slogx"

	"github.com/pquerna/otp/totp"
)

// AccountService handles registration and login. Dependencies are
// injected so tests can substitute the store, hasher, or token issuer.
type AccountService struct {
	Store  store.Store
	Hasher PasswordHasher
	Tokens TokenIssuer
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string // optional
}

type LoginInput struct {
	Email    string
	Password string
	TOTPCode string // required only when the account has MFA enabled
}

// RegisterResult is what a successful registration yields: the stored
// user, its auto-created default organization, and a signed access
// token.
type RegisterResult struct {
	User         domain.User
	Organization domain.Organization
	AccessToken  string
}

// Register validates input, creates the user together with its default
// organization and membership in one transaction, then issues an
// access token. A duplicate email surfaces as a ConflictError carrying
// the store's message; the unique index on email arbitrates concurrent
// registrations.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	l := slogx.FromContext(ctx)

	if err := requireFields(
		fieldRule{"first_name", in.FirstName},
		fieldRule{"last_name", in.LastName},
		fieldRule{"email", in.Email},
		fieldRule{"password", in.Password},
	); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	org := domain.Organization{
		ID:          idx.New().String(),
		Name:        in.FirstName + "'s Organization",
		Description: "This organization was created by " + user.FullName(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// User, default organization, and membership land atomically. A
	// failure after the user insert rolls the whole registration back
	// so no user is left without an organization.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		if err := tx.Organizations().CreateOrganization(ctx, org); err != nil {
			return err
		}
		return tx.Organizations().AddMember(ctx, org.ID, user.ID)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, &ConflictError{Err: err}
		}
		return nil, err
	}

	token, err := s.Tokens.IssueAccessToken(user, []string{jwtx.AMRPassword}, now)
	if err != nil {
		l.Error("failed to issue access token after registration",
			slog.Any("error", err),
			slog.String("user_id", user.ID),
		)
		return nil, err
	}

	l.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("org_id", org.ID),
	)

	return &RegisterResult{
		User:         user,
		Organization: org,
		AccessToken:  token,
	}, nil
}

// LoginResult bundles the authenticated user with a fresh access token.
type LoginResult struct {
	User        domain.User
	AccessToken string
}

// Login authenticates an email/password pair. Lookup failure and
// password mismatch both surface as ErrAuthenticationFailed so callers
// cannot probe which emails are registered. Accounts with TOTP enabled
// additionally require a valid code.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	l := slogx.FromContext(ctx)

	if err := requireFields(
		fieldRule{"email", in.Email},
		fieldRule{"password", in.Password},
	); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	if err := s.Hasher.Verify(in.Password, user.PasswordHash); err != nil {
		l.Info("login password verification failed", slog.String("user_id", user.ID))
		return nil, ErrAuthenticationFailed
	}

	amr := []string{jwtx.AMRPassword}
	if user.MFAEnabled != nil {
		if in.TOTPCode == "" {
			return nil, ErrMFARequired
		}
		if user.MFASecret == nil || !totp.Validate(in.TOTPCode, *user.MFASecret) {
			l.Info("login TOTP verification failed", slog.String("user_id", user.ID))
			return nil, ErrInvalidTOTPCode
		}
		amr = append(amr, jwtx.AMRTOTP)
	}

	token, err := s.Tokens.IssueAccessToken(user, amr, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, AccessToken: token}, nil
}
