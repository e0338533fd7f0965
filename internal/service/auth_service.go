package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/darkhorse3pl/auth-service/internal/apperrors"
	"github.com/darkhorse3pl/auth-service/internal/domain"
	"github.com/darkhorse3pl/auth-service/internal/dto"
	"github.com/darkhorse3pl/auth-service/internal/repository"
	"github.com/darkhorse3pl/auth-service/internal/token"
	"github.com/darkhorse3pl/auth-service/internal/utils"
	"github.com/darkhorse3pl/auth-service/pkg/observability"
)

// authService implements AuthService interface
type authService struct {
	userRepo repository.UserRepository
	sessions SessionService
	tokens   *token.Manager
	metrics  *observability.AuthMetrics
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	sessions SessionService,
	tokens *token.Manager,
	metrics *observability.AuthMetrics,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		sessions: sessions,
		tokens:   tokens,
		metrics:  metrics,
		logger:   logger,
	}
}

// Login authenticates by email and password and opens a new session.
// Unknown email and wrong password produce the same client message so
// the endpoint does not confirm which emails have accounts.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, meta *domain.SessionMetadata) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.CountLogin(ctx, false)
			return nil, apperrors.InvalidCredentials("Invalid email or password")
		}
		return nil, apperrors.Database("get user by email", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.metrics.CountLogin(ctx, false)
		return nil, apperrors.InvalidCredentials("Invalid email or password")
	}

	if user.Status != domain.UserStatusActive {
		s.metrics.CountLogin(ctx, false)
		return nil, apperrors.Unauthorized("Account is not active")
	}

	if !user.EmailVerified {
		s.metrics.CountLogin(ctx, false)
		return nil, apperrors.Unauthorized("Email is not verified")
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("failed to update last login",
			zap.String("user_id", user.ID), zap.Error(err))
	}

	session, pair, err := s.sessions.Create(ctx, user, meta)
	if err != nil {
		return nil, err
	}

	s.metrics.CountLogin(ctx, true)
	s.logger.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("session_id", session.ID),
	)

	return &AuthResult{User: user, Session: session, Tokens: pair}, nil
}

// Authenticate verifies a bearer access token end to end: signature,
// claims, session row, token match, and current account status.
func (s *authService) Authenticate(ctx context.Context, authHeader string) (*Authenticated, error) {
	raw, err := token.ExtractTokenFromHeader(authHeader)
	if err != nil {
		return nil, apperrors.Unauthorized("Missing or malformed authorization header")
	}

	claims, err := s.tokens.VerifyAccessToken(raw)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	session, err := s.sessions.Validate(ctx, claims.SessionID, raw, domain.TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("User no longer exists")
		}
		return nil, apperrors.Database("get user", err)
	}

	if user.Status != domain.UserStatusActive {
		return nil, apperrors.Unauthorized("Account is not active")
	}

	return &Authenticated{
		User:             user,
		Session:          session,
		Claims:           claims,
		TokenExpiresSoon: s.tokens.IsNearExpiry(time.Unix(claims.Exp, 0)),
	}, nil
}

// Refresh rotates the token pair of the session bound to a refresh
// token. The old pair stops matching the session row immediately.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired refresh token")
	}

	session, err := s.sessions.Validate(ctx, claims.SessionID, refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("User no longer exists")
		}
		return nil, apperrors.Database("get user", err)
	}

	if user.Status != domain.UserStatusActive {
		return nil, apperrors.Unauthorized("Account is not active")
	}

	pair, err := s.sessions.Rotate(ctx, session, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tokens refreshed",
		zap.String("user_id", user.ID),
		zap.String("session_id", session.ID),
	)

	return &AuthResult{User: user, Session: session, Tokens: pair}, nil
}

// Logout revokes the session the caller presented.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Invalidate(ctx, sessionID)
}

// LogoutAll revokes every session of the user, current one included.
func (s *authService) LogoutAll(ctx context.Context, userID string) (int, error) {
	return s.sessions.InvalidateAll(ctx, userID)
}

// GetMe returns the caller's own account.
func (s *authService) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, apperrors.Database("get user", err)
	}
	return user, nil
}
