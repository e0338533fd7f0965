package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/darkhorse3pl/auth-service/internal/domain"
)

var (
	// ErrInvalidToken is returned for malformed, mis-signed or expired tokens
	ErrInvalidToken = errors.New("invalid token")

	// ErrMissingBearer is returned when the Authorization header is absent
	// or not a Bearer scheme
	ErrMissingBearer = errors.New("missing or malformed authorization header")
)

// Manager issues and verifies session-bound JWT token pairs
type Manager struct {
	secret             []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	nearExpiryWindow   time.Duration
}

// NewManager creates a new token manager
func NewManager(secret string, accessTokenExpiry, refreshTokenExpiry, nearExpiryWindow time.Duration) *Manager {
	return &Manager{
		secret:             []byte(secret),
		accessTokenExpiry:  accessTokenExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
		nearExpiryWindow:   nearExpiryWindow,
	}
}

// IssueTokenPair generates a signed access/refresh token pair bound to
// one session id. Both tokens carry the same session binding so either
// one resolves to the same revocable row.
func (m *Manager) IssueTokenPair(userID, email, sessionID string) (*domain.TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(m.accessTokenExpiry)
	refreshExpiry := now.Add(m.refreshTokenExpiry)

	accessToken, err := m.sign(userID, email, sessionID, domain.TokenTypeAccess, now, accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := m.sign(userID, email, sessionID, domain.TokenTypeRefresh, now, refreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExpiry,
		RefreshTokenExpiresAt: refreshExpiry,
		TokenType:             "Bearer",
		ExpiresIn:             int(m.accessTokenExpiry.Seconds()),
	}, nil
}

func (m *Manager) sign(userID, email, sessionID, tokenType string, iat, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userID,
		"email":      email,
		"session_id": sessionID,
		"type":       tokenType,
		"exp":        exp.Unix(),
		"iat":        iat.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// VerifyAccessToken validates an access token and returns its claims
func (m *Manager) VerifyAccessToken(tokenString string) (*domain.TokenClaims, error) {
	return m.verify(tokenString, domain.TokenTypeAccess)
}

// VerifyRefreshToken validates a refresh token and returns its claims
func (m *Manager) VerifyRefreshToken(tokenString string) (*domain.TokenClaims, error) {
	return m.verify(tokenString, domain.TokenTypeRefresh)
}

func (m *Manager) verify(tokenString, wantType string) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unreadable claims", ErrInvalidToken)
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != wantType {
		return nil, fmt.Errorf("%w: wrong token type %q", ErrInvalidToken, tokenType)
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}

	email, ok := claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing email", ErrInvalidToken)
	}

	sessionID, ok := claims["session_id"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing session_id", ErrInvalidToken)
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: missing exp", ErrInvalidToken)
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: missing iat", ErrInvalidToken)
	}

	tokenClaims := &domain.TokenClaims{
		UserID:    userID,
		Email:     email,
		SessionID: sessionID,
		Type:      tokenType,
		Exp:       int64(exp),
		Iat:       int64(iat),
	}

	if tokenClaims.IsExpired() {
		return nil, fmt.Errorf("%w: expired", ErrInvalidToken)
	}

	return tokenClaims, nil
}

// ExtractTokenFromHeader pulls the raw token out of a Bearer
// Authorization header value
func ExtractTokenFromHeader(header string) (string, error) {
	if header == "" {
		return "", ErrMissingBearer
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrMissingBearer
	}

	return parts[1], nil
}

// IsNearExpiry reports whether expiresAt falls within the soft warning
// window, letting clients refresh proactively
func (m *Manager) IsNearExpiry(expiresAt time.Time) bool {
	return time.Until(expiresAt) <= m.nearExpiryWindow
}

// AccessTokenExpiry returns the access token lifetime in seconds
func (m *Manager) AccessTokenExpiry() int {
	return int(m.accessTokenExpiry.Seconds())
}

// RefreshTokenExpiry returns the refresh token lifetime
func (m *Manager) RefreshTokenExpiry() time.Duration {
	return m.refreshTokenExpiry
}
