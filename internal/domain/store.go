package domain

import "time"

// Store represents a merchant tenant, optionally connected to Salla
// through OAuth. The Salla fields are nil until a connection completes.
type Store struct {
	ID                string     `json:"id" db:"id"`
	Name              string     `json:"name" db:"name"`
	Slug              string     `json:"slug" db:"slug"`
	IsActive          bool       `json:"is_active" db:"is_active"`
	CreatedBy         string     `json:"created_by" db:"created_by"`
	SallaClientID     *string    `json:"-" db:"salla_client_id"`
	SallaClientSecret *string    `json:"-" db:"salla_client_secret"`
	SallaAccessToken  *string    `json:"-" db:"salla_access_token"`
	SallaRefreshToken *string    `json:"-" db:"salla_refresh_token"`
	SallaTokenExpiry  *time.Time `json:"-" db:"salla_token_expiry"`
	SallaOAuthState   *string    `json:"-" db:"salla_oauth_state"`
	SallaConnectedAt  *time.Time `json:"salla_connected_at" db:"salla_connected_at"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// StoreCounts carries aggregate counts used by store listings and the
// delete guard.
type StoreCounts struct {
	Users              int `json:"total_users"`
	Warehouses         int `json:"total_warehouses"`
	PendingInvitations int `json:"pending_invitations"`
}

// Warehouse represents a fulfillment location owned by a store.
type Warehouse struct {
	ID        string    `json:"id" db:"id"`
	StoreID   string    `json:"store_id" db:"store_id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"code" db:"code"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
