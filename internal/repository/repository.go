package repository

import (
	"github.com/darkhorse3pl/auth-service/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User       UserRepository
	Store      StoreRepository
	Invitation InvitationRepository
	Session    SessionRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Store:      NewStoreRepository(db),
		Invitation: NewInvitationRepository(db),
		Session:    NewSessionRepository(db),
	}
}
