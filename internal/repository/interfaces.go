package repository

import (
	"context"
	"time"

	"github.com/darkhorse3pl/auth-service/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateStatus(ctx context.Context, userID string, status domain.UserStatus) error
	UpdateLastLogin(ctx context.Context, userID string) error
}

// StoreRepository defines methods for store operations
type StoreRepository interface {
	Create(ctx context.Context, store *domain.Store) error
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Store, error)
	GetByOAuthState(ctx context.Context, state string) (*domain.Store, error)
	List(ctx context.Context, params ListParams) ([]*domain.Store, int, error)
	Update(ctx context.Context, store *domain.Store) error
	Delete(ctx context.Context, id string) error
	Counts(ctx context.Context, storeID string) (*domain.StoreCounts, error)
	SetOAuthState(ctx context.Context, storeID string, clientID, clientSecret, state string) error
	ClearOAuthState(ctx context.Context, storeID string) error
	SaveOAuthTokens(ctx context.Context, storeID, accessToken, refreshToken string, expiry time.Time) error
	ListUsers(ctx context.Context, storeID string) ([]*domain.User, error)
	ListWarehouses(ctx context.Context, storeID string) ([]*domain.Warehouse, error)
}

// InvitationRepository defines methods for invitation operations
type InvitationRepository interface {
	Create(ctx context.Context, inv *domain.Invitation) error
	GetByToken(ctx context.Context, token string) (*domain.Invitation, error)
	GetByID(ctx context.Context, id string) (*domain.Invitation, error)
	GetPendingByEmail(ctx context.Context, email string) (*domain.Invitation, error)
	MarkExpired(ctx context.Context, id string) error
	// AcceptWithUser atomically creates the user row and marks the
	// invitation ACCEPTED in one transaction. The loser of two concurrent
	// accepts gets ErrNotFound (status already left PENDING) or
	// ErrDuplicateEmail.
	AcceptWithUser(ctx context.Context, invitationID string, user *domain.User) error
}

// SessionRepository defines methods for session operations
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error
	// Delete removes a session if it exists. Deleting an absent row is not
	// an error; concurrent expiry cleanup makes that race routine.
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) (int, error)
	DeleteExpired(ctx context.Context) (int, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Session, int, error)
}

// ListParams carries pagination, search and ordering for list queries
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

// Offset returns the row offset for the current page.
func (p ListParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
