package service

import (
	"context"

	"github.com/darkhorse3pl/auth-service/internal/domain"
	"github.com/darkhorse3pl/auth-service/internal/dto"
)

// AuthResult bundles everything a successful login, refresh or
// invitation acceptance produces.
type AuthResult struct {
	User    *domain.User
	Session *domain.Session
	Tokens  *domain.TokenPair
}

// Authenticated is the outcome of verifying a bearer token against its
// session and user. TokenExpiresSoon signals the client to refresh.
type Authenticated struct {
	User             *domain.User
	Session          *domain.Session
	Claims           *domain.TokenClaims
	TokenExpiresSoon bool
}

// AuthService defines methods for authentication operations
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest, meta *domain.SessionMetadata) (*AuthResult, error)
	Authenticate(ctx context.Context, authHeader string) (*Authenticated, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	LogoutAll(ctx context.Context, userID string) (int, error)
	GetMe(ctx context.Context, userID string) (*domain.User, error)
}

// SessionService defines methods for session lifecycle operations
type SessionService interface {
	Create(ctx context.Context, user *domain.User, meta *domain.SessionMetadata) (*domain.Session, *domain.TokenPair, error)
	// Validate loads a session, lazily deleting it when expired, and
	// checks the presented token matches the stored one for its type.
	Validate(ctx context.Context, sessionID, presentedToken, tokenType string) (*domain.Session, error)
	Rotate(ctx context.Context, session *domain.Session, user *domain.User) (*domain.TokenPair, error)
	Invalidate(ctx context.Context, sessionID string) error
	InvalidateAll(ctx context.Context, userID string) (int, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Session, int, error)
	CleanupExpired(ctx context.Context) (int, error)
}

// InvitationService defines methods for invitation operations
type InvitationService interface {
	InviteStoreAdmin(ctx context.Context, actor *domain.User, req *dto.InviteStoreAdminRequest) (*domain.Invitation, error)
	Invite(ctx context.Context, actor *domain.User, req *dto.InviteUserRequest) (*domain.Invitation, error)
	Validate(ctx context.Context, token string) (*domain.Invitation, *domain.Store, error)
	Accept(ctx context.Context, req *dto.AcceptInvitationRequest, meta *domain.SessionMetadata) (*AuthResult, error)
	Resend(ctx context.Context, actor *domain.User, invitationID string) (*domain.Invitation, error)
}

// StoreService defines methods for store management operations
type StoreService interface {
	Create(ctx context.Context, actor *domain.User, req *dto.CreateStoreRequest) (*domain.Store, error)
	Get(ctx context.Context, id string) (*domain.Store, *domain.StoreCounts, error)
	List(ctx context.Context, query *dto.StoreListQuery) ([]*domain.Store, int, error)
	Update(ctx context.Context, id string, req *dto.UpdateStoreRequest) (*domain.Store, error)
	Delete(ctx context.Context, id string) error
	ListUsers(ctx context.Context, storeID string) ([]*domain.User, error)
	ListWarehouses(ctx context.Context, storeID string) ([]*domain.Warehouse, error)
}

// SallaConnection is the start of an OAuth flow: the URL the merchant
// must visit and the state the callback will present.
type SallaConnection struct {
	AuthorizationURL string
	State            string
}

// SallaService defines the Salla OAuth connection flow
type SallaService interface {
	Connect(ctx context.Context, actor *domain.User, req *dto.SallaConnectRequest) (*SallaConnection, error)
	Callback(ctx context.Context, code, state string) (*domain.Store, error)
}
