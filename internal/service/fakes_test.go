package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/darkhorse3pl/auth-service/internal/domain"
	"github.com/darkhorse3pl/auth-service/internal/mail"
	"github.com/darkhorse3pl/auth-service/internal/repository"
)

// In-memory repository fakes. They mirror the sentinel-error contract of
// the SQL implementations so services see identical behavior.

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Status != domain.UserStatusDeleted {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateStatus(ctx context.Context, userID string, status domain.UserStatus) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = status
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, userID string) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

type fakeStoreRepo struct {
	stores map[string]*domain.Store
	counts map[string]*domain.StoreCounts
	users  *fakeUserRepo
}

func newFakeStoreRepo(users *fakeUserRepo) *fakeStoreRepo {
	return &fakeStoreRepo{
		stores: make(map[string]*domain.Store),
		counts: make(map[string]*domain.StoreCounts),
		users:  users,
	}
}

func (r *fakeStoreRepo) Create(ctx context.Context, store *domain.Store) error {
	for _, s := range r.stores {
		if s.Slug == store.Slug || s.Name == store.Name {
			return repository.ErrDuplicateSlug
		}
	}
	if store.ID == "" {
		store.ID = uuid.New().String()
	}
	store.CreatedAt = time.Now()
	store.UpdatedAt = store.CreatedAt
	r.stores[store.ID] = store
	return nil
}

func (r *fakeStoreRepo) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	if s, ok := r.stores[id]; ok {
		return s, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeStoreRepo) GetBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	for _, s := range r.stores {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeStoreRepo) GetByOAuthState(ctx context.Context, state string) (*domain.Store, error) {
	for _, s := range r.stores {
		if s.SallaOAuthState != nil && *s.SallaOAuthState == state {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeStoreRepo) List(ctx context.Context, params repository.ListParams) ([]*domain.Store, int, error) {
	var out []*domain.Store
	for _, s := range r.stores {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (r *fakeStoreRepo) Update(ctx context.Context, store *domain.Store) error {
	if _, ok := r.stores[store.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, s := range r.stores {
		if id != store.ID && (s.Slug == store.Slug || s.Name == store.Name) {
			return repository.ErrDuplicateSlug
		}
	}
	r.stores[store.ID] = store
	return nil
}

func (r *fakeStoreRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.stores[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.stores, id)
	return nil
}

func (r *fakeStoreRepo) Counts(ctx context.Context, storeID string) (*domain.StoreCounts, error) {
	if _, ok := r.stores[storeID]; !ok {
		return nil, repository.ErrNotFound
	}
	if c, ok := r.counts[storeID]; ok {
		return c, nil
	}
	return &domain.StoreCounts{}, nil
}

func (r *fakeStoreRepo) SetOAuthState(ctx context.Context, storeID string, clientID, clientSecret, state string) error {
	s, ok := r.stores[storeID]
	if !ok {
		return repository.ErrNotFound
	}
	s.SallaClientID = &clientID
	s.SallaClientSecret = &clientSecret
	s.SallaOAuthState = &state
	return nil
}

func (r *fakeStoreRepo) ClearOAuthState(ctx context.Context, storeID string) error {
	s, ok := r.stores[storeID]
	if !ok {
		return repository.ErrNotFound
	}
	s.SallaOAuthState = nil
	return nil
}

func (r *fakeStoreRepo) SaveOAuthTokens(ctx context.Context, storeID, accessToken, refreshToken string, expiry time.Time) error {
	s, ok := r.stores[storeID]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	s.SallaAccessToken = &accessToken
	s.SallaRefreshToken = &refreshToken
	s.SallaTokenExpiry = &expiry
	s.SallaConnectedAt = &now
	return nil
}

func (r *fakeStoreRepo) ListUsers(ctx context.Context, storeID string) ([]*domain.User, error) {
	if _, ok := r.stores[storeID]; !ok {
		return nil, repository.ErrNotFound
	}
	var out []*domain.User
	for _, u := range r.users.users {
		if u.StoreID != nil && *u.StoreID == storeID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeStoreRepo) ListWarehouses(ctx context.Context, storeID string) ([]*domain.Warehouse, error) {
	if _, ok := r.stores[storeID]; !ok {
		return nil, repository.ErrNotFound
	}
	return nil, nil
}

type fakeInvitationRepo struct {
	invitations map[string]*domain.Invitation
	users       *fakeUserRepo
	createErr   error
}

func newFakeInvitationRepo(users *fakeUserRepo) *fakeInvitationRepo {
	return &fakeInvitationRepo{
		invitations: make(map[string]*domain.Invitation),
		users:       users,
	}
}

func (r *fakeInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.invitations {
		if existing.Token == inv.Token {
			return repository.ErrDuplicateToken
		}
		// Mirrors the partial unique index on (email) WHERE status = 'PENDING'.
		if existing.Email == inv.Email && existing.Status == domain.InvitationStatusPending {
			return repository.ErrDuplicateInvitation
		}
	}
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	inv.CreatedAt = time.Now()
	r.invitations[inv.ID] = inv
	return nil
}

func (r *fakeInvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	for _, inv := range r.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeInvitationRepo) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	if inv, ok := r.invitations[id]; ok {
		return inv, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeInvitationRepo) GetPendingByEmail(ctx context.Context, email string) (*domain.Invitation, error) {
	for _, inv := range r.invitations {
		if inv.Email == email && inv.Status == domain.InvitationStatusPending {
			return inv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeInvitationRepo) MarkExpired(ctx context.Context, id string) error {
	inv, ok := r.invitations[id]
	if !ok || inv.Status != domain.InvitationStatusPending {
		return repository.ErrNotFound
	}
	inv.Status = domain.InvitationStatusExpired
	return nil
}

func (r *fakeInvitationRepo) AcceptWithUser(ctx context.Context, invitationID string, user *domain.User) error {
	inv, ok := r.invitations[invitationID]
	if !ok || inv.Status != domain.InvitationStatusPending {
		return repository.ErrNotFound
	}
	if err := r.users.Create(ctx, user); err != nil {
		return err
	}
	now := time.Now()
	inv.Status = domain.InvitationStatusAccepted
	inv.AcceptedAt = &now
	inv.UserID = &user.ID
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	session.CreatedAt = time.Now()
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	for _, s := range r.sessions {
		if s.RefreshToken == refreshToken && !s.IsExpired() {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error {
	s, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.AccessToken = accessToken
	s.RefreshToken = refreshToken
	s.ExpiresAt = expiresAt
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	count := 0
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
			count++
		}
	}
	return count, nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context) (int, error) {
	count := 0
	for id, s := range r.sessions {
		if s.IsExpired() {
			delete(r.sessions, id)
			count++
		}
	}
	return count, nil
}

func (r *fakeSessionRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Session, int, error) {
	var out []*domain.Session
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

// fakeMailer records sent messages and can be forced to fail.
type fakeMailer struct {
	invitations []mail.InvitationEmail
	connected   []mail.SallaConnectedEmail
	fail        bool
}

func (m *fakeMailer) SendInvitation(ctx context.Context, data mail.InvitationEmail) error {
	if m.fail {
		return fmt.Errorf("smtp unavailable")
	}
	m.invitations = append(m.invitations, data)
	return nil
}

func (m *fakeMailer) SendSallaConnected(ctx context.Context, data mail.SallaConnectedEmail) error {
	if m.fail {
		return fmt.Errorf("smtp unavailable")
	}
	m.connected = append(m.connected, data)
	return nil
}
