package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darkhorse3pl/auth-service/internal/apperrors"
	"github.com/darkhorse3pl/auth-service/internal/dto"
	"github.com/darkhorse3pl/auth-service/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates with email and password and opens a session
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, sessionMetadata(c))
	if err != nil {
		respondError(c, err)
		return
	}

	tokens := dto.NewTokenResponse(result.Tokens)
	respondOK(c, http.StatusOK, "Login successful", dto.AuthResponse{
		User:   dto.NewUserResponse(result.User),
		Tokens: &tokens,
	})
}

// Refresh rotates the token pair bound to a refresh token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	tokens := dto.NewTokenResponse(result.Tokens)
	respondOK(c, http.StatusOK, "Tokens refreshed", dto.AuthResponse{
		User:   dto.NewUserResponse(result.User),
		Tokens: &tokens,
	})
}

// Logout revokes the session the caller presented
func (h *AuthHandler) Logout(c *gin.Context) {
	ac, ok := GetAuthContext(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Authentication required"))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), ac.SessionID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Logged out", nil)
}

// LogoutAll revokes every session of the caller
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	ac, ok := GetAuthContext(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Authentication required"))
		return
	}

	count, err := h.authService.LogoutAll(c.Request.Context(), ac.User.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "All sessions revoked", gin.H{"revokedSessions": count})
}

// Me returns the caller's own account
func (h *AuthHandler) Me(c *gin.Context) {
	ac, ok := GetAuthContext(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Authentication required"))
		return
	}

	user, err := h.authService.GetMe(c.Request.Context(), ac.User.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "", dto.NewUserResponse(user))
}

// SessionHandler exposes the caller's session list
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// List returns a page of the caller's sessions
func (h *SessionHandler) List(c *gin.Context) {
	ac, ok := GetAuthContext(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Authentication required"))
		return
	}

	var query dto.SessionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, bindError(err))
		return
	}

	sessions, total, err := h.sessionService.ListForUser(c.Request.Context(), ac.User.ID, query.Limit, query.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, dto.NewSessionResponse(s))
	}

	respondOK(c, http.StatusOK, "", gin.H{
		"sessions": out,
		"total":    total,
		"current":  ac.SessionID,
	})
}
