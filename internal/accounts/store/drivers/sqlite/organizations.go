package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sundialhq/memberd/internal/accounts/domain"
)

type organizationsRepo struct {
	q querier
}

const createOrganizationQuery = `
INSERT INTO organizations (id, name, description, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`

func (r *organizationsRepo) CreateOrganization(ctx context.Context, o domain.Organization) error {
	_, err := r.q.ExecContext(ctx, createOrganizationQuery,
		o.ID,
		o.Name,
		o.Description,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return mapErr(err)
}

const getOrganizationQuery = `
SELECT id, name, description, created_at, updated_at
FROM organizations
WHERE id = ?
`

func (r *organizationsRepo) GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error) {
	var o domain.Organization
	err := r.q.QueryRowContext(ctx, getOrganizationQuery, id).Scan(
		&o.ID,
		&o.Name,
		&o.Description,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return domain.Organization{}, mapErr(err)
	}
	return o, nil
}

const listOrganizationsForUserQuery = `
SELECT o.id, o.name, o.description, o.created_at, o.updated_at
FROM organizations o
JOIN organization_members m ON m.org_id = o.id
WHERE m.user_id = ?
ORDER BY o.id
`

func (r *organizationsRepo) ListOrganizationsForUser(ctx context.Context, userID string) ([]domain.Organization, error) {
	rows, err := r.q.QueryContext(ctx, listOrganizationsForUserQuery, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		var o domain.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Description, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

// AddMember is idempotent. INSERT OR IGNORE makes concurrent duplicate
// adds converge on a single membership row.
func (r *organizationsRepo) AddMember(ctx context.Context, orgID, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT OR IGNORE INTO organization_members (org_id, user_id) VALUES (?, ?)`,
		orgID, userID,
	)
	return mapErr(err)
}

func (r *organizationsRepo) IsMember(ctx context.Context, orgID, userID string) (bool, error) {
	var one int
	err := r.q.QueryRowContext(ctx,
		`SELECT 1 FROM organization_members WHERE org_id = ? AND user_id = ?`,
		orgID, userID,
	).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, mapErr(err)
	}
	return true, nil
}

func (r *organizationsRepo) ListMembers(ctx context.Context, orgID string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT user_id FROM organization_members WHERE org_id = ? ORDER BY user_id`,
		orgID,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
