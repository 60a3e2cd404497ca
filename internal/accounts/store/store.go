package store

import (
	"context"
	"errors"

	"github.com/sundialhq/memberd/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrTxUnsupported = errors.New("store: operation not supported inside a transaction")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Users() Users
	Organizations() Organizations

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., the
	// registration sequence). The caller MUST call Commit() or Rollback()
	// on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// This is the recommended way to handle transactions as it automatically
	// handles commit/rollback logic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is already registered;
	// the database's unique index is what arbitrates concurrent inserts.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login. Email must be lower-cased by
	// the caller.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns all users ordered by id (creation order, since
	// ids are ULIDs).
	ListUsers(ctx context.Context) ([]domain.User, error)

	// UpdateMFASecret sets the TOTP secret for a user and bumps updated_at.
	UpdateMFASecret(ctx context.Context, userID string, secret string) error

	// EnableMFA marks MFA as enabled for a user (sets mfa_enabled timestamp).
	EnableMFA(ctx context.Context, userID string) error

	// DisableMFA disables MFA for a user (clears mfa_enabled and mfa_secret).
	DisableMFA(ctx context.Context, userID string) error
}

type Organizations interface {
	// CreateOrganization inserts a new organization (id is ULID).
	CreateOrganization(ctx context.Context, o domain.Organization) error

	// GetOrganizationByID returns an organization by id.
	GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error)

	// ListOrganizationsForUser returns only organizations the user is a
	// member of, ordered by id.
	ListOrganizationsForUser(ctx context.Context, userID string) ([]domain.Organization, error)

	// AddMember records membership. Set semantics: adding an existing
	// member is a no-op, safe under concurrent duplicate adds.
	AddMember(ctx context.Context, orgID, userID string) error

	// IsMember reports whether the user belongs to the organization.
	IsMember(ctx context.Context, orgID, userID string) (bool, error)

	// ListMembers returns the user ids of an organization's members.
	ListMembers(ctx context.Context, orgID string) ([]string, error)
}
