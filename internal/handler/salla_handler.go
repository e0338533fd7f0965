package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darkhorse3pl/auth-service/internal/apperrors"
	"github.com/darkhorse3pl/auth-service/internal/dto"
	"github.com/darkhorse3pl/auth-service/internal/service"
)

// SallaHandler handles the Salla OAuth connection flow
type SallaHandler struct {
	sallaService service.SallaService
}

// NewSallaHandler creates a new Salla handler
func NewSallaHandler(sallaService service.SallaService) *SallaHandler {
	return &SallaHandler{sallaService: sallaService}
}

// Connect starts the OAuth flow and returns the authorize URL
func (h *SallaHandler) Connect(c *gin.Context) {
	ac, ok := GetAuthContext(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Authentication required"))
		return
	}

	var req dto.SallaConnectRequest
	var err error
	if c.Request.Method == http.MethodGet {
		err = c.ShouldBindQuery(&req)
	} else {
		err = c.ShouldBindJSON(&req)
	}
	if err != nil {
		respondError(c, bindError(err))
		return
	}

	conn, err := h.sallaService.Connect(c.Request.Context(), ac.User, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Redirect the merchant to the authorize URL",
		dto.SallaConnectResponse{
			AuthorizationURL: conn.AuthorizationURL,
			State:            conn.State,
		})
}

// Callback finishes the OAuth flow. Salla redirects the merchant's
// browser here with ?code=...&state=...
func (h *SallaHandler) Callback(c *gin.Context) {
	store, err := h.sallaService.Callback(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Salla store connected", dto.NewStoreResponse(store, nil))
}
