package dto

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// InviteStoreAdminRequest invites a store admin for a store. The
// endpoint is restricted to SUPER_ADMIN; the target role is implied.
type InviteStoreAdminRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FullName  string `json:"fullName" binding:"required"`
	StoreID   string `json:"storeId" binding:"required,uuid"`
	StoreName string `json:"storeName"`
}

// InviteUserRequest invites a user with any role the acting role may
// grant. StoreID may be empty for store-scoped actors; it defaults to
// the actor's own store.
type InviteUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName" binding:"required"`
	Role     string `json:"role" binding:"required"`
	StoreID  string `json:"storeId" binding:"omitempty,uuid"`
}

// AcceptInvitationRequest resolves an invitation token into an account
type AcceptInvitationRequest struct {
	Token     string `json:"token" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
}

// CreateStoreRequest represents a store creation request
type CreateStoreRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// UpdateStoreRequest represents a store update request
type UpdateStoreRequest struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	IsActive *bool   `json:"isActive"`
}

// StoreListQuery represents pagination parameters for store listings
type StoreListQuery struct {
	Page      int    `form:"page,default=1" binding:"min=1"`
	Limit     int    `form:"limit,default=10" binding:"min=1,max=100"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy,default=created_at" binding:"omitempty,oneof=name created_at updated_at"`
	SortOrder string `form:"sortOrder,default=desc" binding:"omitempty,oneof=asc desc"`
}

// SessionListQuery represents pagination parameters for session listings
type SessionListQuery struct {
	Limit  int `form:"limit,default=10" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// SallaConnectRequest starts the Salla OAuth connection for a store.
// Accepted as a JSON body on POST and as query parameters on GET.
type SallaConnectRequest struct {
	StoreID      string `json:"storeId" form:"storeId" binding:"omitempty,uuid"`
	ClientID     string `json:"clientId" form:"clientId" binding:"required"`
	ClientSecret string `json:"clientSecret" form:"clientSecret" binding:"required"`
}
