package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darkhorse3pl/auth-service/internal/apperrors"
	"github.com/darkhorse3pl/auth-service/internal/dto"
	"github.com/darkhorse3pl/auth-service/internal/service"
)

// InvitationHandler handles invitation requests
type InvitationHandler struct {
	invitationService service.InvitationService
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(invitationService service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

// InviteStoreAdmin creates a STORE_ADMIN invitation for a store
func (h *InvitationHandler) InviteStoreAdmin(c *gin.Context) {
	ac, ok := GetAuthContext(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Authentication required"))
		return
	}

	var req dto.InviteStoreAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	inv, err := h.invitationService.InviteStoreAdmin(c.Request.Context(), ac.User, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Invitation sent", dto.NewInvitationResponse(inv))
}

// Invite creates an invitation for any role the caller may grant
func (h *InvitationHandler) Invite(c *gin.Context) {
	ac, ok := GetAuthContext(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Authentication required"))
		return
	}

	var req dto.InviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	inv, err := h.invitationService.Invite(c.Request.Context(), ac.User, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Invitation sent", dto.NewInvitationResponse(inv))
}

// Resend re-delivers a pending invitation's email
func (h *InvitationHandler) Resend(c *gin.Context) {
	ac, ok := GetAuthContext(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Authentication required"))
		return
	}

	inv, err := h.invitationService.Resend(c.Request.Context(), ac.User, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Invitation resent", dto.NewInvitationResponse(inv))
}

// Validate checks an invitation token and returns its details for the
// acceptance form
func (h *InvitationHandler) Validate(c *gin.Context) {
	inv, store, err := h.invitationService.Validate(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{
		"invitation": dto.NewInvitationResponse(inv),
		"storeName":  store.Name,
	})
}

// Accept resolves an invitation token into an account and logs in
func (h *InvitationHandler) Accept(c *gin.Context) {
	var req dto.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	result, err := h.invitationService.Accept(c.Request.Context(), &req, sessionMetadata(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.AuthResponse{User: dto.NewUserResponse(result.User)}
	if result.Tokens != nil {
		tokens := dto.NewTokenResponse(result.Tokens)
		resp.Tokens = &tokens
	}

	respondOK(c, http.StatusCreated, "Invitation accepted", resp)
}
