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

const invitationColumns = `id, email, full_name, token, role, store_id, invited_by, status,
		expires_at, accepted_at, user_id, created_at`

// invitationRepository implements InvitationRepository interface
type invitationRepository struct {
	db *database.Postgres
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db *database.Postgres) InvitationRepository {
	return &invitationRepository{db: db}
}

// Create creates a new invitation
func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (id, email, full_name, token, role, store_id, invited_by, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		inv.ID,
		inv.Email,
		inv.FullName,
		inv.Token,
		inv.Role,
		inv.StoreID,
		inv.InvitedBy,
		inv.Status,
		inv.ExpiresAt,
		inv.CreatedAt,
	)

	if err != nil {
		if constraint, ok := uniqueViolationConstraint(err); ok {
			if constraint == "uq_invitations_pending_email" {
				return fmt.Errorf("pending invitation for %s already exists: %w", inv.Email, ErrDuplicateInvitation)
			}
			return fmt.Errorf("invitation token collision: %w", ErrDuplicateToken)
		}
		return fmt.Errorf("failed to create invitation: %w", err)
	}

	return nil
}

// GetByToken retrieves an invitation by its opaque token
func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := fmt.Sprintf(`SELECT %s FROM invitations WHERE token = $1`, invitationColumns)

	inv, err := scanInvitation(r.db.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invitation not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get invitation by token: %w", err)
	}

	return inv, nil
}

// GetByID retrieves an invitation by ID
func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	query := fmt.Sprintf(`SELECT %s FROM invitations WHERE id = $1`, invitationColumns)

	inv, err := scanInvitation(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invitation with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get invitation by id: %w", err)
	}

	return inv, nil
}

// GetPendingByEmail retrieves the PENDING invitation for an email. The
// expired-but-still-PENDING row is returned too, so callers can expire
// it before creating a replacement.
func (r *invitationRepository) GetPendingByEmail(ctx context.Context, email string) (*domain.Invitation, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM invitations
		WHERE email = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, invitationColumns)

	inv, err := scanInvitation(r.db.DB.QueryRowContext(ctx, query, email, domain.InvitationStatusPending))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pending invitation for %s not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get pending invitation: %w", err)
	}

	return inv, nil
}

// MarkExpired transitions a PENDING invitation to EXPIRED. The status
// guard keeps terminal states terminal.
func (r *invitationRepository) MarkExpired(ctx context.Context, id string) error {
	query := `UPDATE invitations SET status = $2 WHERE id = $1 AND status = $3`

	result, err := r.db.DB.ExecContext(ctx, query, id,
		domain.InvitationStatusExpired, domain.InvitationStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark invitation expired: %w", err)
	}

	return requireRowsAffected(result, fmt.Sprintf("pending invitation with id %s", id))
}

// AcceptWithUser creates the user and marks the invitation ACCEPTED in a
// single transaction. The status guard on the UPDATE resolves concurrent
// accepts: only one transaction sees the row still PENDING.
func (r *invitationRepository) AcceptWithUser(ctx context.Context, invitationID string, user *domain.User) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	prepareUserForInsert(user)

	insertUser := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone, role, status,
			store_id, warehouse_id, invited_by, email_verified, email_verified_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = tx.ExecContext(ctx, insertUser,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Role,
		user.Status,
		user.StoreID,
		user.WarehouseID,
		user.InvitedBy,
		user.EmailVerified,
		user.EmailVerifiedAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to create user from invitation: %w", err)
	}

	updateInvitation := `
		UPDATE invitations
		SET status = $2, accepted_at = NOW(), user_id = $3
		WHERE id = $1 AND status = $4
	`
	result, err := tx.ExecContext(ctx, updateInvitation, invitationID,
		domain.InvitationStatusAccepted, user.ID, domain.InvitationStatusPending)
	if err != nil {
		return fmt.Errorf("failed to accept invitation: %w", err)
	}

	if err := requireRowsAffected(result, fmt.Sprintf("pending invitation with id %s", invitationID)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit invitation acceptance: %w", err)
	}

	return nil
}

func scanInvitation(row rowScanner) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var acceptedAt sql.NullTime
	var userID sql.NullString

	err := row.Scan(
		&inv.ID,
		&inv.Email,
		&inv.FullName,
		&inv.Token,
		&inv.Role,
		&inv.StoreID,
		&inv.InvitedBy,
		&inv.Status,
		&inv.ExpiresAt,
		&acceptedAt,
		&userID,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.AcceptedAt = nullableTime(acceptedAt)
	inv.UserID = nullableString(userID)

	return inv, nil
}
