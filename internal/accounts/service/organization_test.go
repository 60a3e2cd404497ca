package service

import (
	"context"
	"testing"
	"time"

	"github.com/sundialhq/memberd/internal/accounts/domain"
	"github.com/sundialhq/memberd/internal/accounts/store"
	"github.com/sundialhq/memberd/pkg/idx"

	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, s store.Store, email string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "argon2:dummy",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestOrganizationService(t *testing.T) {
	ctx := context.Background()

	t.Run("create adds the actor as first member", func(t *testing.T) {
		s := newTestStore(t)
		svc := &OrganizationService{Store: s}
		actor := seedUser(t, s, "actor@example.com")

		org, err := svc.CreateOrganization(ctx, actor.ID, CreateOrganizationInput{
			Name:        "Platform Team",
			Description: "infra folks",
		})
		require.NoError(t, err)
		require.NotEmpty(t, org.ID)

		got, err := svc.GetOrganization(ctx, actor.ID, org.ID)
		require.NoError(t, err)
		require.Equal(t, "Platform Team", got.Name)
		require.Equal(t, "infra folks", got.Description)
	})

	t.Run("create requires a name", func(t *testing.T) {
		s := newTestStore(t)
		svc := &OrganizationService{Store: s}
		actor := seedUser(t, s, "actor@example.com")

		_, err := svc.CreateOrganization(ctx, actor.ID, CreateOrganizationInput{})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, []string{"name"}, verr.Fields)
	})

	t.Run("description defaults to empty", func(t *testing.T) {
		s := newTestStore(t)
		svc := &OrganizationService{Store: s}
		actor := seedUser(t, s, "actor@example.com")

		org, err := svc.CreateOrganization(ctx, actor.ID, CreateOrganizationInput{Name: "Bare"})
		require.NoError(t, err)
		require.Empty(t, org.Description)
	})

	t.Run("listing is scoped to memberships", func(t *testing.T) {
		s := newTestStore(t)
		svc := &OrganizationService{Store: s}
		alice := seedUser(t, s, "alice@example.com")
		bob := seedUser(t, s, "bob@example.com")

		org, err := svc.CreateOrganization(ctx, alice.ID, CreateOrganizationInput{Name: "Alice Org"})
		require.NoError(t, err)

		orgs, err := svc.ListOrganizations(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, orgs, 1)
		require.Equal(t, org.ID, orgs[0].ID)

		orgs, err = svc.ListOrganizations(ctx, bob.ID)
		require.NoError(t, err)
		require.Empty(t, orgs)
	})

	t.Run("non-members get not found, not forbidden", func(t *testing.T) {
		s := newTestStore(t)
		svc := &OrganizationService{Store: s}
		alice := seedUser(t, s, "alice@example.com")
		bob := seedUser(t, s, "bob@example.com")

		org, err := svc.CreateOrganization(ctx, alice.ID, CreateOrganizationInput{Name: "Alice Org"})
		require.NoError(t, err)

		_, err = svc.GetOrganization(ctx, bob.ID, org.ID)
		require.ErrorIs(t, err, ErrOrganizationNotFound)

		// same error for an org that does not exist at all
		_, err = svc.GetOrganization(ctx, bob.ID, idx.New().String())
		require.ErrorIs(t, err, ErrOrganizationNotFound)
	})

	t.Run("add member", func(t *testing.T) {
		s := newTestStore(t)
		svc := &OrganizationService{Store: s}
		alice := seedUser(t, s, "alice@example.com")
		bob := seedUser(t, s, "bob@example.com")

		org, err := svc.CreateOrganization(ctx, alice.ID, CreateOrganizationInput{Name: "Alice Org"})
		require.NoError(t, err)

		require.NoError(t, svc.AddMember(ctx, alice.ID, org.ID, bob.ID))

		// bob can now see the org
		_, err = svc.GetOrganization(ctx, bob.ID, org.ID)
		require.NoError(t, err)

		// idempotent under repeats
		require.NoError(t, svc.AddMember(ctx, alice.ID, org.ID, bob.ID))
		members, err := s.Organizations().ListMembers(ctx, org.ID)
		require.NoError(t, err)
		require.Len(t, members, 2)
	})

	t.Run("add member rejects unknown target", func(t *testing.T) {
		s := newTestStore(t)
		svc := &OrganizationService{Store: s}
		alice := seedUser(t, s, "alice@example.com")

		org, err := svc.CreateOrganization(ctx, alice.ID, CreateOrganizationInput{Name: "Alice Org"})
		require.NoError(t, err)

		err = svc.AddMember(ctx, alice.ID, org.ID, idx.New().String())
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("add member requires the actor to belong", func(t *testing.T) {
		s := newTestStore(t)
		svc := &OrganizationService{Store: s}
		alice := seedUser(t, s, "alice@example.com")
		bob := seedUser(t, s, "bob@example.com")

		org, err := svc.CreateOrganization(ctx, alice.ID, CreateOrganizationInput{Name: "Alice Org"})
		require.NoError(t, err)

		err = svc.AddMember(ctx, bob.ID, org.ID, bob.ID)
		require.ErrorIs(t, err, ErrOrganizationNotFound)
	})
}

func TestUserService(t *testing.T) {
	ctx := context.Background()

	t.Run("list and get", func(t *testing.T) {
		s := newTestStore(t)
		svc := &UserService{Store: s}
		u := seedUser(t, s, "solo@example.com")

		users, err := svc.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 1)

		got, err := svc.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, got.Email)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		s := newTestStore(t)
		svc := &UserService{Store: s}

		_, err := svc.GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}
