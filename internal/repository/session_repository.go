package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/darkhorse3pl/auth-service/internal/domain"
	"github.com/darkhorse3pl/auth-service/pkg/database"
)

const sessionColumns = `id, user_id, access_token, refresh_token, expires_at,
		user_agent, ip_address, device_type, location, created_at`

// sessionRepository implements SessionRepository interface
type sessionRepository struct {
	db *database.Postgres
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.Postgres) SessionRepository {
	return &sessionRepository{db: db}
}

// Create persists a new session row
func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, access_token, refresh_token, expires_at,
			user_agent, ip_address, device_type, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.AccessToken,
		session.RefreshToken,
		session.ExpiresAt,
		session.UserAgent,
		session.IPAddress,
		session.DeviceType,
		session.Location,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by ID
func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE id = $1`, sessionColumns)

	session, err := scanSession(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	return session, nil
}

// GetByRefreshToken retrieves a non-expired session by its refresh token
func (r *sessionRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sessions
		WHERE refresh_token = $1 AND expires_at > NOW()
	`, sessionColumns)

	session, err := scanSession(r.db.DB.QueryRowContext(ctx, query, refreshToken))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session for refresh token not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session by refresh token: %w", err)
	}

	return session, nil
}

// UpdateTokens overwrites the token pair and expiry in place (rotation)
func (r *sessionRepository) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error {
	query := `
		UPDATE sessions
		SET access_token = $2, refresh_token = $3, expires_at = $4
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query, id, accessToken, refreshToken, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to update session tokens: %w", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("session with id %s", id))
}

// Delete removes a session; deleting an absent row is not an error
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteByUserID removes all sessions for a user and returns the count
func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user sessions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// DeleteExpired removes all expired sessions and returns the count
func (r *sessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rowsAffected), nil
}

// ListByUserID returns a page of a user's sessions, newest first, with
// the total count
func (r *sessionRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Session, int, error) {
	var total int
	if err := r.db.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, sessionColumns)

	rows, err := r.db.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, total, nil
}

func scanSession(row rowScanner) (*domain.Session, error) {
	session := &domain.Session{}
	var userAgent, ipAddress, deviceType, location sql.NullString

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.AccessToken,
		&session.RefreshToken,
		&session.ExpiresAt,
		&userAgent,
		&ipAddress,
		&deviceType,
		&location,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.UserAgent = nullableString(userAgent)
	session.IPAddress = nullableString(ipAddress)
	session.DeviceType = nullableString(deviceType)
	session.Location = nullableString(location)

	return session, nil
}
