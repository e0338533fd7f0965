package dto

import (
	"time"

	"github.com/darkhorse3pl/auth-service/internal/domain"
)

// SuccessResponse is the envelope for all successful responses
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the envelope for all error responses
type ErrorResponse struct {
	Error     string `json:"error"`
	Path      string `json:"path"`
	Method    string `json:"method"`
	Timestamp string `json:"timestamp"`
}

// UserResponse is the public projection of a user account
type UserResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FirstName       *string    `json:"firstName"`
	LastName        *string    `json:"lastName"`
	Phone           *string    `json:"phone,omitempty"`
	Role            string     `json:"role"`
	Status          string     `json:"status"`
	StoreID         *string    `json:"storeId"`
	WarehouseID     *string    `json:"warehouseId,omitempty"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// NewUserResponse maps a domain user onto its public projection
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Phone:           u.Phone,
		Role:            string(u.Role),
		Status:          string(u.Status),
		StoreID:         u.StoreID,
		WarehouseID:     u.WarehouseID,
		EmailVerifiedAt: u.EmailVerifiedAt,
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
	}
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	TokenType             string    `json:"tokenType"`
	ExpiresIn             int       `json:"expiresIn"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// NewTokenResponse maps a domain token pair onto the wire shape
func NewTokenResponse(p *domain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           p.AccessToken,
		RefreshToken:          p.RefreshToken,
		TokenType:             p.TokenType,
		ExpiresIn:             p.ExpiresIn,
		AccessTokenExpiresAt:  p.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: p.RefreshTokenExpiresAt,
	}
}

// AuthResponse is returned by login, refresh and invitation acceptance
type AuthResponse struct {
	User   UserResponse   `json:"user"`
	Tokens *TokenResponse `json:"tokens,omitempty"`
}

// SessionResponse is the public projection of a session
type SessionResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	UserAgent  *string   `json:"userAgent,omitempty"`
	IPAddress  *string   `json:"ipAddress,omitempty"`
	DeviceType *string   `json:"deviceType,omitempty"`
	Location   *string   `json:"location,omitempty"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewSessionResponse maps a domain session onto its public projection
func NewSessionResponse(s *domain.Session) SessionResponse {
	return SessionResponse{
		ID:         s.ID,
		UserID:     s.UserID,
		UserAgent:  s.UserAgent,
		IPAddress:  s.IPAddress,
		DeviceType: s.DeviceType,
		Location:   s.Location,
		ExpiresAt:  s.ExpiresAt,
		CreatedAt:  s.CreatedAt,
	}
}

// InvitationResponse is the public projection of an invitation
type InvitationResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	StoreID   string    `json:"storeId"`
	InvitedBy string    `json:"invitedBy"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewInvitationResponse maps a domain invitation onto its public projection
func NewInvitationResponse(inv *domain.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		FullName:  inv.FullName,
		Role:      string(inv.Role),
		Status:    string(inv.Status),
		StoreID:   inv.StoreID,
		InvitedBy: inv.InvitedBy,
		ExpiresAt: inv.ExpiresAt,
		CreatedAt: inv.CreatedAt,
	}
}

// StoreResponse is the public projection of a store
type StoreResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Slug           string              `json:"slug"`
	IsActive       bool                `json:"isActive"`
	SallaConnected bool                `json:"sallaConnected"`
	Counts         *domain.StoreCounts `json:"counts,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// NewStoreResponse maps a domain store onto its public projection
func NewStoreResponse(s *domain.Store, counts *domain.StoreCounts) StoreResponse {
	return StoreResponse{
		ID:             s.ID,
		Name:           s.Name,
		Slug:           s.Slug,
		IsActive:       s.IsActive,
		SallaConnected: s.SallaAccessToken != nil,
		Counts:         counts,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// Pagination carries list paging metadata
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// StoreListResponse carries a page of stores
type StoreListResponse struct {
	Stores     []StoreResponse `json:"stores"`
	Pagination Pagination      `json:"pagination"`
}

// SallaConnectResponse carries the authorize URL the client must visit
// and the state the callback will echo back
type SallaConnectResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
	State            string `json:"state"`
}
