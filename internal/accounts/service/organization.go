package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sundialhq/memberd/internal/accounts/domain"
	"github.com/sundialhq/memberd/internal/accounts/store"
	"github.com/sundialhq/memberd/pkg/idx"
	"github.com/sundialhq/memberd/pkg/slogx"
)

// OrganizationService creates organizations and manages membership.
// Every read is scoped to the acting user's memberships; non-members
// get a not-found, never a forbidden, so organization ids cannot be
// probed for existence.
type OrganizationService struct {
	Store store.Store
}

type CreateOrganizationInput struct {
	Name        string
	Description string // optional
}

// CreateOrganization creates an organization with the actor as its
// first member.
func (s *OrganizationService) CreateOrganization(ctx context.Context, actorID string, in CreateOrganizationInput) (domain.Organization, error) {
	if err := requireFields(
		fieldRule{"name", in.Name},
	); err != nil {
		return domain.Organization{}, err
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:          idx.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Organizations().CreateOrganization(ctx, org); err != nil {
			return err
		}
		return tx.Organizations().AddMember(ctx, org.ID, actorID)
	})
	if err != nil {
		return domain.Organization{}, err
	}

	slogx.FromContext(ctx).Info("organization created",
		slog.String("org_id", org.ID),
		slog.String("user_id", actorID),
	)

	return org, nil
}

// ListOrganizations returns only organizations the actor belongs to.
func (s *OrganizationService) ListOrganizations(ctx context.Context, actorID string) ([]domain.Organization, error) {
	return s.Store.Organizations().ListOrganizationsForUser(ctx, actorID)
}

// GetOrganization returns an organization the actor is a member of.
// Membership is an explicit check, not a side effect of the listing
// query.
func (s *OrganizationService) GetOrganization(ctx context.Context, actorID, orgID string) (domain.Organization, error) {
	ok, err := s.Store.Organizations().IsMember(ctx, orgID, actorID)
	if err != nil {
		return domain.Organization{}, err
	}
	if !ok {
		return domain.Organization{}, ErrOrganizationNotFound
	}

	org, err := s.Store.Organizations().GetOrganizationByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Organization{}, ErrOrganizationNotFound
		}
		return domain.Organization{}, err
	}
	return org, nil
}

// AddMember adds a user to an organization the actor belongs to.
// Adding an existing member is a no-op (set semantics).
func (s *OrganizationService) AddMember(ctx context.Context, actorID, orgID, targetUserID string) error {
	ok, err := s.Store.Organizations().IsMember(ctx, orgID, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOrganizationNotFound
	}

	if _, err := s.Store.Users().GetUserByID(ctx, targetUserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.Store.Organizations().AddMember(ctx, orgID, targetUserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrganizationNotFound
		}
		return err
	}

	slogx.FromContext(ctx).Info("member added",
		slog.String("org_id", orgID),
		slog.String("user_id", targetUserID),
		slog.String("added_by", actorID),
	)
	return nil
}
