package domain

import "time"

// InvitationStatus represents the state of an invitation. PENDING is the
// only non-terminal state; ACCEPTED and EXPIRED are never left.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "PENDING"
	InvitationStatusAccepted InvitationStatus = "ACCEPTED"
	InvitationStatusExpired  InvitationStatus = "EXPIRED"
)

// Invitation is a single-use, time-boxed ticket that bootstraps a new
// account with a role and store association. Invitations are kept as an
// audit trail and only removed when their store is deleted.
type Invitation struct {
	ID         string           `json:"id" db:"id"`
	Email      string           `json:"email" db:"email"`
	FullName   string           `json:"full_name" db:"full_name"`
	Token      string           `json:"-" db:"token"`
	Role       Role             `json:"role" db:"role"`
	StoreID    string           `json:"store_id" db:"store_id"`
	InvitedBy  string           `json:"invited_by" db:"invited_by"`
	Status     InvitationStatus `json:"status" db:"status"`
	ExpiresAt  time.Time        `json:"expires_at" db:"expires_at"`
	AcceptedAt *time.Time       `json:"accepted_at" db:"accepted_at"`
	UserID     *string          `json:"user_id" db:"user_id"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
}

// IsExpired reports whether the invitation window has passed.
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
