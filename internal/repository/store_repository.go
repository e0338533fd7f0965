package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/darkhorse3pl/auth-service/internal/domain"
	"github.com/darkhorse3pl/auth-service/pkg/database"
)

const storeColumns = `id, name, slug, is_active, created_by,
		salla_client_id, salla_client_secret, salla_access_token, salla_refresh_token,
		salla_token_expiry, salla_oauth_state, salla_connected_at, created_at, updated_at`

// storeRepository implements StoreRepository interface
type storeRepository struct {
	db *database.Postgres
}

// NewStoreRepository creates a new store repository
func NewStoreRepository(db *database.Postgres) StoreRepository {
	return &storeRepository{db: db}
}

// Create creates a new store
func (r *storeRepository) Create(ctx context.Context, store *domain.Store) error {
	query := `
		INSERT INTO stores (id, name, slug, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if store.ID == "" {
		store.ID = uuid.New().String()
	}

	now := time.Now()
	if store.CreatedAt.IsZero() {
		store.CreatedAt = now
	}
	if store.UpdatedAt.IsZero() {
		store.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		store.ID,
		store.Name,
		store.Slug,
		store.IsActive,
		store.CreatedBy,
		store.CreatedAt,
		store.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("store %s already exists: %w", store.Slug, ErrDuplicateSlug)
		}
		return fmt.Errorf("failed to create store: %w", err)
	}

	return nil
}

// GetByID retrieves a store by ID
func (r *storeRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE id = $1`, storeColumns)
	return r.getOne(ctx, query, id, fmt.Sprintf("store with id %s", id))
}

// GetBySlug retrieves a store by its URL slug
func (r *storeRepository) GetBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE slug = $1`, storeColumns)
	return r.getOne(ctx, query, slug, fmt.Sprintf("store with slug %s", slug))
}

// GetByOAuthState retrieves the store holding a pending OAuth state value
func (r *storeRepository) GetByOAuthState(ctx context.Context, state string) (*domain.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE salla_oauth_state = $1`, storeColumns)
	return r.getOne(ctx, query, state, "store with matching oauth state")
}

func (r *storeRepository) getOne(ctx context.Context, query, arg, subject string) (*domain.Store, error) {
	store, err := scanStore(r.db.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s not found: %w", subject, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return store, nil
}

// sortColumns restricts ORDER BY input to known columns
var sortColumns = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// List returns a page of stores matched by an optional name/slug search,
// together with the total match count
func (r *storeRepository) List(ctx context.Context, params ListParams) ([]*domain.Store, int, error) {
	where := ""
	args := []any{}
	if params.Search != "" {
		where = `WHERE name ILIKE $1 OR slug ILIKE $1`
		args = append(args, "%"+params.Search+"%")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM stores %s`, where)
	if err := r.db.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count stores: %w", err)
	}

	sortBy, ok := sortColumns[params.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	order := "DESC"
	if params.SortOrder == "asc" {
		order = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM stores %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		storeColumns, where, sortBy, order, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	var stores []*domain.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, store)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate stores: %w", err)
	}

	return stores, total, nil
}

// Update updates a store's name, slug and active flag
func (r *storeRepository) Update(ctx context.Context, store *domain.Store) error {
	query := `
		UPDATE stores
		SET name = $2, slug = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query, store.ID, store.Name, store.Slug, store.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("store %s already exists: %w", store.Slug, ErrDuplicateSlug)
		}
		return fmt.Errorf("failed to update store: %w", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("store with id %s", store.ID))
}

// Delete removes a store. Invitations and warehouses cascade at the
// schema level; the service enforces the zero-users/zero-warehouses guard.
func (r *storeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("store with id %s", id))
}

// Counts returns user/warehouse/pending-invitation counts for a store
func (r *storeRepository) Counts(ctx context.Context, storeID string) (*domain.StoreCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE store_id = $1 AND status != 'DELETED'),
			(SELECT COUNT(*) FROM warehouses WHERE store_id = $1),
			(SELECT COUNT(*) FROM invitations WHERE store_id = $1 AND status = 'PENDING')
	`

	counts := &domain.StoreCounts{}
	err := r.db.DB.QueryRowContext(ctx, query, storeID).Scan(
		&counts.Users,
		&counts.Warehouses,
		&counts.PendingInvitations,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count store associations: %w", err)
	}

	return counts, nil
}

// SetOAuthState stores the client credentials and a fresh single-use
// state value ahead of the authorization redirect
func (r *storeRepository) SetOAuthState(ctx context.Context, storeID string, clientID, clientSecret, state string) error {
	query := `
		UPDATE stores
		SET salla_client_id = $2, salla_client_secret = $3, salla_oauth_state = $4, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query, storeID, clientID, clientSecret, state)
	if err != nil {
		return fmt.Errorf("failed to set oauth state: %w", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("store with id %s", storeID))
}

// ClearOAuthState drops the pending state value so it cannot be replayed
func (r *storeRepository) ClearOAuthState(ctx context.Context, storeID string) error {
	query := `UPDATE stores SET salla_oauth_state = NULL, updated_at = NOW() WHERE id = $1`

	if _, err := r.db.DB.ExecContext(ctx, query, storeID); err != nil {
		return fmt.Errorf("failed to clear oauth state: %w", err)
	}

	return nil
}

// SaveOAuthTokens persists the exchanged token pair and marks the store
// connected
func (r *storeRepository) SaveOAuthTokens(ctx context.Context, storeID, accessToken, refreshToken string, expiry time.Time) error {
	query := `
		UPDATE stores
		SET salla_access_token = $2, salla_refresh_token = $3, salla_token_expiry = $4,
			salla_connected_at = NOW(), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query, storeID, accessToken, refreshToken, expiry)
	if err != nil {
		return fmt.Errorf("failed to save oauth tokens: %w", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("store with id %s", storeID))
}

// ListUsers returns the non-deleted users associated with a store
func (r *storeRepository) ListUsers(ctx context.Context, storeID string) ([]*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE store_id = $1 AND status != $2 ORDER BY created_at`, userColumns)

	rows, err := r.db.DB.QueryContext(ctx, query, storeID, domain.UserStatusDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list store users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate store users: %w", err)
	}

	return users, nil
}

// ListWarehouses returns the warehouses owned by a store
func (r *storeRepository) ListWarehouses(ctx context.Context, storeID string) ([]*domain.Warehouse, error) {
	query := `
		SELECT id, store_id, name, code, is_active, created_at
		FROM warehouses
		WHERE store_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.DB.QueryContext(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []*domain.Warehouse
	for rows.Next() {
		wh := &domain.Warehouse{}
		err := rows.Scan(&wh.ID, &wh.StoreID, &wh.Name, &wh.Code, &wh.IsActive, &wh.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan warehouse: %w", err)
		}
		warehouses = append(warehouses, wh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate warehouses: %w", err)
	}

	return warehouses, nil
}

func scanStore(row rowScanner) (*domain.Store, error) {
	store := &domain.Store{}
	var clientID, clientSecret, accessToken, refreshToken, oauthState sql.NullString
	var tokenExpiry, connectedAt sql.NullTime

	err := row.Scan(
		&store.ID,
		&store.Name,
		&store.Slug,
		&store.IsActive,
		&store.CreatedBy,
		&clientID,
		&clientSecret,
		&accessToken,
		&refreshToken,
		&tokenExpiry,
		&oauthState,
		&connectedAt,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	store.SallaClientID = nullableString(clientID)
	store.SallaClientSecret = nullableString(clientSecret)
	store.SallaAccessToken = nullableString(accessToken)
	store.SallaRefreshToken = nullableString(refreshToken)
	store.SallaOAuthState = nullableString(oauthState)
	store.SallaTokenExpiry = nullableTime(tokenExpiry)
	store.SallaConnectedAt = nullableTime(connectedAt)

	return store, nil
}
