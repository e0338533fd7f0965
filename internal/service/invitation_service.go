package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/darkhorse3pl/auth-service/internal/apperrors"
	"github.com/darkhorse3pl/auth-service/internal/domain"
	"github.com/darkhorse3pl/auth-service/internal/dto"
	"github.com/darkhorse3pl/auth-service/internal/mail"
	"github.com/darkhorse3pl/auth-service/internal/repository"
	"github.com/darkhorse3pl/auth-service/internal/utils"
	"github.com/darkhorse3pl/auth-service/pkg/observability"
)

// invitationService implements InvitationService interface
type invitationService struct {
	invitationRepo repository.InvitationRepository
	userRepo       repository.UserRepository
	storeRepo      repository.StoreRepository
	sessions       SessionService
	mailer         mail.Sender
	metrics        *observability.AuthMetrics
	logger         *zap.Logger
	ttl            time.Duration
	bcryptCost     int
	appBaseURL     string
}

// NewInvitationService creates a new invitation service
func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	sessions SessionService,
	mailer mail.Sender,
	metrics *observability.AuthMetrics,
	logger *zap.Logger,
	ttl time.Duration,
	bcryptCost int,
	appBaseURL string,
) InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
		storeRepo:      storeRepo,
		sessions:       sessions,
		mailer:         mailer,
		metrics:        metrics,
		logger:         logger,
		ttl:            ttl,
		bcryptCost:     bcryptCost,
		appBaseURL:     appBaseURL,
	}
}

// InviteStoreAdmin creates a STORE_ADMIN invitation for a store.
func (s *invitationService) InviteStoreAdmin(ctx context.Context, actor *domain.User, req *dto.InviteStoreAdminRequest) (*domain.Invitation, error) {
	if !domain.CanInvite(actor.Role, domain.RoleStoreAdmin) {
		return nil, apperrors.Forbidden("Your role cannot invite store admins")
	}

	store, err := s.getStore(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}

	return s.createInvitation(ctx, actor, store, req.Email, req.FullName, domain.RoleStoreAdmin)
}

// Invite creates an invitation for any role the acting role may grant.
// Store-scoped actors can only invite into their own store; an absent
// storeId defaults to the actor's.
func (s *invitationService) Invite(ctx context.Context, actor *domain.User, req *dto.InviteUserRequest) (*domain.Invitation, error) {
	role := domain.Role(req.Role)
	if !role.IsValid() {
		return nil, apperrors.Validation(fmt.Sprintf("Invalid role: %s", req.Role))
	}

	if !domain.CanInvite(actor.Role, role) {
		return nil, apperrors.Forbidden(fmt.Sprintf("Your role cannot invite users with role %s", role))
	}

	storeID := req.StoreID
	if actor.Role.StoreScoped() {
		if actor.StoreID == nil {
			return nil, apperrors.Forbidden("Your account is not associated with a store")
		}
		if storeID == "" {
			storeID = *actor.StoreID
		} else if storeID != *actor.StoreID {
			return nil, apperrors.Forbidden("You can only invite users to your own store")
		}
	}
	if storeID == "" {
		return nil, apperrors.Validation("storeId is required")
	}

	store, err := s.getStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	return s.createInvitation(ctx, actor, store, req.Email, req.FullName, role)
}

func (s *invitationService) getStore(ctx context.Context, storeID string) (*domain.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Store not found")
		}
		return nil, apperrors.Database("get store", err)
	}
	if !store.IsActive {
		return nil, apperrors.Validation("Store is not active")
	}
	return store, nil
}

func (s *invitationService) createInvitation(ctx context.Context, actor *domain.User, store *domain.Store, email, fullName string, role domain.Role) (*domain.Invitation, error) {
	email = utils.SanitizeEmail(email)
	if !utils.ValidateEmail(email) {
		return nil, apperrors.Validation("Invalid email format")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("User with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Database("check existing user", err)
	}

	if pending, err := s.invitationRepo.GetPendingByEmail(ctx, email); err == nil {
		if !pending.IsExpired() {
			return nil, apperrors.Conflict("A pending invitation for this email already exists")
		}
		// A stale PENDING row would block the new one; retire it first.
		if err := s.invitationRepo.MarkExpired(ctx, pending.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Database("expire stale invitation", err)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Database("check pending invitation", err)
	}

	invToken, err := generateInvitationToken()
	if err != nil {
		return nil, apperrors.Database("generate invitation token", err)
	}

	inv := &domain.Invitation{
		Email:     email,
		FullName:  fullName,
		Token:     invToken,
		Role:      role,
		StoreID:   store.ID,
		InvitedBy: actor.ID,
		Status:    domain.InvitationStatusPending,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		// The partial unique index catches the race where two
		// concurrent invites both pass the pending-row check above.
		if errors.Is(err, repository.ErrDuplicateInvitation) {
			return nil, apperrors.Conflict("A pending invitation for this email already exists")
		}
		return nil, apperrors.Database("create invitation", err)
	}

	s.metrics.CountInvitation(ctx, string(role))
	s.logger.Info("invitation created",
		zap.String("invitation_id", inv.ID),
		zap.String("role", string(role)),
		zap.String("store_id", store.ID),
		zap.String("invited_by", actor.ID),
	)

	s.sendInvitationEmail(ctx, inv, store, actor)

	return inv, nil
}

// sendInvitationEmail delivers the acceptance link. Delivery failure is
// logged and swallowed; the invitation row already exists and can be
// resent.
func (s *invitationService) sendInvitationEmail(ctx context.Context, inv *domain.Invitation, store *domain.Store, inviter *domain.User) {
	err := s.mailer.SendInvitation(ctx, mail.InvitationEmail{
		To:             inv.Email,
		FullName:       inv.FullName,
		StoreName:      store.Name,
		Role:           string(inv.Role),
		InviterName:    inviter.FullName(),
		InvitationLink: fmt.Sprintf("%s/invitations/accept?token=%s", s.appBaseURL, inv.Token),
		ExpiresInHours: int(time.Until(inv.ExpiresAt).Round(time.Hour).Hours()),
	})
	if err != nil {
		s.logger.Error("failed to send invitation email",
			zap.String("invitation_id", inv.ID), zap.Error(err))
	}
}

// Validate checks an invitation token is still acceptable. An expired
// but still-PENDING invitation is marked EXPIRED on the way out.
func (s *invitationService) Validate(ctx context.Context, invToken string) (*domain.Invitation, *domain.Store, error) {
	inv, err := s.invitationRepo.GetByToken(ctx, invToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.NotFound("Invitation not found")
		}
		return nil, nil, apperrors.Database("get invitation", err)
	}

	// An accepted token behaves like an unknown one; the link is spent.
	switch inv.Status {
	case domain.InvitationStatusAccepted:
		return nil, nil, apperrors.NotFound("Invitation not found")
	case domain.InvitationStatusExpired:
		return nil, nil, apperrors.Validation("Invitation has expired")
	}

	if inv.IsExpired() {
		if err := s.invitationRepo.MarkExpired(ctx, inv.ID); err != nil {
			s.logger.Warn("failed to mark invitation expired",
				zap.String("invitation_id", inv.ID), zap.Error(err))
		}
		return nil, nil, apperrors.Validation("Invitation has expired")
	}

	// Registration that happened out of band makes the invitation moot.
	if _, err := s.userRepo.GetByEmail(ctx, inv.Email); err == nil {
		return nil, nil, apperrors.Conflict("An account with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, apperrors.Database("check existing user", err)
	}

	store, err := s.storeRepo.GetByID(ctx, inv.StoreID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.NotFound("Store not found")
		}
		return nil, nil, apperrors.Database("get store", err)
	}

	return inv, store, nil
}

// Accept resolves an invitation into an account and logs the new user
// in. User creation and the invitation transition are one transaction;
// the login session is separate and allowed to fail, since the account
// exists either way and the user can log in normally.
func (s *invitationService) Accept(ctx context.Context, req *dto.AcceptInvitationRequest, meta *domain.SessionMetadata) (*AuthResult, error) {
	inv, _, err := s.Validate(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	if !utils.ValidatePassword(req.Password) {
		return nil, apperrors.Validation("Password must be at least 8 characters long and contain uppercase, lowercase, and number")
	}
	if req.Phone != "" && !utils.ValidatePhone(req.Phone) {
		return nil, apperrors.Validation("Invalid phone number format")
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.Database("hash password", err)
	}

	now := time.Now()
	user := &domain.User{
		Email:           inv.Email,
		PasswordHash:    passwordHash,
		FirstName:       optional(req.FirstName),
		LastName:        optional(req.LastName),
		Phone:           optional(req.Phone),
		Role:            inv.Role,
		Status:          domain.UserStatusActive,
		StoreID:         &inv.StoreID,
		InvitedBy:       &inv.InvitedBy,
		EmailVerified:   true,
		EmailVerifiedAt: &now,
	}

	if err := s.invitationRepo.AcceptWithUser(ctx, inv.ID, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperrors.Conflict("An account with this email already exists")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.Conflict("Invitation is no longer pending")
		}
		return nil, apperrors.Database("accept invitation", err)
	}

	s.metrics.CountAcceptance(ctx, string(inv.Role))
	s.logger.Info("invitation accepted",
		zap.String("invitation_id", inv.ID),
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)

	session, pair, err := s.sessions.Create(ctx, user, meta)
	if err != nil {
		s.logger.Error("failed to open session after acceptance",
			zap.String("user_id", user.ID), zap.Error(err))
		return &AuthResult{User: user}, nil
	}

	return &AuthResult{User: user, Session: session, Tokens: pair}, nil
}

// Resend re-delivers a pending invitation's email. The token and expiry
// are unchanged; the original link stays valid.
func (s *invitationService) Resend(ctx context.Context, actor *domain.User, invitationID string) (*domain.Invitation, error) {
	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Invitation not found")
		}
		return nil, apperrors.Database("get invitation", err)
	}

	if !domain.CanInvite(actor.Role, inv.Role) {
		return nil, apperrors.Forbidden("Your role cannot resend this invitation")
	}
	if actor.Role.StoreScoped() && (actor.StoreID == nil || *actor.StoreID != inv.StoreID) {
		return nil, apperrors.Forbidden("You can only resend invitations for your own store")
	}

	if inv.Status != domain.InvitationStatusPending {
		return nil, apperrors.Conflict("Only pending invitations can be resent")
	}
	if inv.IsExpired() {
		if err := s.invitationRepo.MarkExpired(ctx, inv.ID); err != nil {
			s.logger.Warn("failed to mark invitation expired",
				zap.String("invitation_id", inv.ID), zap.Error(err))
		}
		return nil, apperrors.Validation("Invitation has expired")
	}

	store, err := s.getStore(ctx, inv.StoreID)
	if err != nil {
		return nil, err
	}

	s.sendInvitationEmail(ctx, inv, store, actor)

	return inv, nil
}

// generateInvitationToken returns 32 random bytes hex encoded, matching
// the token column width.
func generateInvitationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invitation token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
