package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sundialhq/memberd/internal/accounts/domain"
	"github.com/sundialhq/memberd/internal/accounts/store"
	"github.com/sundialhq/memberd/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func newTestUser(email string) domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		PasswordHash: "argon2:dummy",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newTestOrg(name string) domain.Organization {
	now := time.Now().UTC()
	return domain.Organization{
		ID:        idx.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUsersRepo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		s := newTestStore(t)

		u := newTestUser("ada@example.com")
		u.Phone = "0400000000"
		require.NoError(t, s.Users().CreateUser(ctx, u))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, got.Email)
		require.Equal(t, u.Phone, got.Phone)
		require.Nil(t, got.MFAEnabled)
		require.Nil(t, got.MFASecret)

		byEmail, err := s.Users().GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		s := newTestStore(t)

		require.NoError(t, s.Users().CreateUser(ctx, newTestUser("dup@example.com")))

		err := s.Users().CreateUser(ctx, newTestUser("dup@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.Users().GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		s := newTestStore(t)

		first := newTestUser("first@example.com")
		second := newTestUser("second@example.com")
		require.NoError(t, s.Users().CreateUser(ctx, first))
		require.NoError(t, s.Users().CreateUser(ctx, second))

		users, err := s.Users().ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		require.Equal(t, first.ID, users[0].ID)
		require.Equal(t, second.ID, users[1].ID)
	})

	t.Run("mfa lifecycle", func(t *testing.T) {
		s := newTestStore(t)

		u := newTestUser("mfa@example.com")
		require.NoError(t, s.Users().CreateUser(ctx, u))

		require.NoError(t, s.Users().UpdateMFASecret(ctx, u.ID, "JBSWY3DPEHPK3PXP"))
		require.NoError(t, s.Users().EnableMFA(ctx, u.ID))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.MFAEnabled)
		require.NotNil(t, got.MFASecret)
		require.Equal(t, "JBSWY3DPEHPK3PXP", *got.MFASecret)

		require.NoError(t, s.Users().DisableMFA(ctx, u.ID))

		got, err = s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Nil(t, got.MFAEnabled)
		require.Nil(t, got.MFASecret)
	})

	t.Run("mfa updates on unknown user are not found", func(t *testing.T) {
		s := newTestStore(t)

		require.ErrorIs(t, s.Users().EnableMFA(ctx, idx.New().String()), store.ErrNotFound)
	})
}

func TestOrganizationsRepo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		s := newTestStore(t)

		o := newTestOrg("Ada's Organization")
		o.Description = "This organization was created by Ada-Lovelace"
		require.NoError(t, s.Organizations().CreateOrganization(ctx, o))

		got, err := s.Organizations().GetOrganizationByID(ctx, o.ID)
		require.NoError(t, err)
		require.Equal(t, o.Name, got.Name)
		require.Equal(t, o.Description, got.Description)
	})

	t.Run("membership scopes listing", func(t *testing.T) {
		s := newTestStore(t)

		member := newTestUser("member@example.com")
		outsider := newTestUser("outsider@example.com")
		require.NoError(t, s.Users().CreateUser(ctx, member))
		require.NoError(t, s.Users().CreateUser(ctx, outsider))

		o := newTestOrg("Shared Org")
		require.NoError(t, s.Organizations().CreateOrganization(ctx, o))
		require.NoError(t, s.Organizations().AddMember(ctx, o.ID, member.ID))

		orgs, err := s.Organizations().ListOrganizationsForUser(ctx, member.ID)
		require.NoError(t, err)
		require.Len(t, orgs, 1)
		require.Equal(t, o.ID, orgs[0].ID)

		orgs, err = s.Organizations().ListOrganizationsForUser(ctx, outsider.ID)
		require.NoError(t, err)
		require.Empty(t, orgs)

		ok, err := s.Organizations().IsMember(ctx, o.ID, member.ID)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = s.Organizations().IsMember(ctx, o.ID, outsider.ID)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("add member is idempotent", func(t *testing.T) {
		s := newTestStore(t)

		u := newTestUser("repeat@example.com")
		require.NoError(t, s.Users().CreateUser(ctx, u))

		o := newTestOrg("Repeat Org")
		require.NoError(t, s.Organizations().CreateOrganization(ctx, o))

		require.NoError(t, s.Organizations().AddMember(ctx, o.ID, u.ID))
		require.NoError(t, s.Organizations().AddMember(ctx, o.ID, u.ID))

		members, err := s.Organizations().ListMembers(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
	})

	t.Run("membership requires existing rows", func(t *testing.T) {
		s := newTestStore(t)

		err := s.Organizations().AddMember(ctx, idx.New().String(), idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestWithTx(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		s := newTestStore(t)

		u := newTestUser("tx@example.com")
		o := newTestOrg("Tx Org")

		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, u); err != nil {
				return err
			}
			if err := tx.Organizations().CreateOrganization(ctx, o); err != nil {
				return err
			}
			return tx.Organizations().AddMember(ctx, o.ID, u.ID)
		})
		require.NoError(t, err)

		orgs, err := s.Organizations().ListOrganizationsForUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, orgs, 1)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		s := newTestStore(t)

		u := newTestUser("rollback@example.com")

		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, u); err != nil {
				return err
			}
			// membership against a missing org fails the whole sequence
			return tx.Organizations().AddMember(ctx, idx.New().String(), u.ID)
		})
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.Users().GetUserByEmail(ctx, "rollback@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
