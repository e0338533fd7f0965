package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/darkhorse3pl/auth-service/internal/apperrors"
	"github.com/darkhorse3pl/auth-service/internal/domain"
	"github.com/darkhorse3pl/auth-service/internal/repository"
	"github.com/darkhorse3pl/auth-service/internal/token"
	"github.com/darkhorse3pl/auth-service/pkg/observability"
)

// sessionService implements SessionService interface
type sessionService struct {
	sessionRepo repository.SessionRepository
	tokens      *token.Manager
	metrics     *observability.AuthMetrics
	logger      *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepository,
	tokens *token.Manager,
	metrics *observability.AuthMetrics,
	logger *zap.Logger,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		tokens:      tokens,
		metrics:     metrics,
		logger:      logger,
	}
}

// Create issues a token pair bound to a fresh session row. The session
// id goes into the JWT claims before the row exists, so the pair is
// signed first and persisted with the row.
func (s *sessionService) Create(ctx context.Context, user *domain.User, meta *domain.SessionMetadata) (*domain.Session, *domain.TokenPair, error) {
	sessionID := uuid.New().String()

	pair, err := s.tokens.IssueTokenPair(user.ID, user.Email, sessionID)
	if err != nil {
		return nil, nil, apperrors.Database("issue token pair", err)
	}

	session := &domain.Session{
		ID:           sessionID,
		UserID:       user.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.RefreshTokenExpiresAt,
	}
	if meta != nil {
		session.UserAgent = optional(meta.UserAgent)
		session.IPAddress = optional(meta.IPAddress)
		session.DeviceType = optional(meta.DeviceType)
		session.Location = optional(meta.Location)
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, nil, apperrors.Database("create session", err)
	}

	return session, pair, nil
}

// Validate resolves a session id from verified token claims back to its
// row. Expired rows are deleted on sight so the table stays a live set
// of valid sessions. The presented token must match the stored one for
// its type; a mismatch means the token was superseded by a rotation.
func (s *sessionService) Validate(ctx context.Context, sessionID, presentedToken, tokenType string) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("Session not found")
		}
		return nil, apperrors.Database("get session", err)
	}

	if session.IsExpired() {
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			s.logger.Warn("failed to delete expired session",
				zap.String("session_id", session.ID), zap.Error(err))
		}
		s.metrics.CountRevoked(ctx, "expired", 1)
		return nil, apperrors.Unauthorized("Session has expired")
	}

	stored := session.AccessToken
	if tokenType == domain.TokenTypeRefresh {
		stored = session.RefreshToken
	}
	if stored != presentedToken {
		return nil, apperrors.Unauthorized("Token has been superseded")
	}

	return session, nil
}

// Rotate replaces the session's token pair in place, keeping the same
// session id so both old tokens stop matching at once.
func (s *sessionService) Rotate(ctx context.Context, session *domain.Session, user *domain.User) (*domain.TokenPair, error) {
	pair, err := s.tokens.IssueTokenPair(user.ID, user.Email, session.ID)
	if err != nil {
		return nil, apperrors.Database("issue token pair", err)
	}

	err = s.sessionRepo.UpdateTokens(ctx, session.ID, pair.AccessToken, pair.RefreshToken, pair.RefreshTokenExpiresAt)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("Session not found")
		}
		return nil, apperrors.Database("rotate session tokens", err)
	}

	session.AccessToken = pair.AccessToken
	session.RefreshToken = pair.RefreshToken
	session.ExpiresAt = pair.RefreshTokenExpiresAt

	return pair, nil
}

// Invalidate revokes one session. Revoking an already-gone session
// succeeds; logout must be idempotent.
func (s *sessionService) Invalidate(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return apperrors.Database("delete session", err)
	}
	s.metrics.CountRevoked(ctx, "logout", 1)
	return nil
}

// InvalidateAll revokes every session of a user and returns the count.
func (s *sessionService) InvalidateAll(ctx context.Context, userID string) (int, error) {
	count, err := s.sessionRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, apperrors.Database("delete user sessions", err)
	}
	s.metrics.CountRevoked(ctx, "logout_all", count)
	return count, nil
}

// GetByRefreshToken resolves a refresh token to its unexpired session.
func (s *sessionService) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid refresh token")
		}
		return nil, apperrors.Database("get session by refresh token", err)
	}
	return session, nil
}

// ListForUser returns a page of the user's sessions, newest first.
func (s *sessionService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Session, int, error) {
	sessions, total, err := s.sessionRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Database("list user sessions", err)
	}
	return sessions, total, nil
}

// CleanupExpired sweeps expired session rows. Validation already deletes
// them lazily; the sweep catches sessions nobody presented again.
func (s *sessionService) CleanupExpired(ctx context.Context) (int, error) {
	count, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, apperrors.Database("delete expired sessions", err)
	}
	if count > 0 {
		s.logger.Info("expired sessions removed", zap.Int("count", count))
		s.metrics.CountRevoked(ctx, "expired", count)
	}
	return count, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
