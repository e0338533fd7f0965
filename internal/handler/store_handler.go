package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darkhorse3pl/auth-service/internal/apperrors"
	"github.com/darkhorse3pl/auth-service/internal/dto"
	"github.com/darkhorse3pl/auth-service/internal/service"
)

// StoreHandler handles store management requests
type StoreHandler struct {
	storeService service.StoreService
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(storeService service.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// Create registers a new store
func (h *StoreHandler) Create(c *gin.Context) {
	ac, ok := GetAuthContext(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Authentication required"))
		return
	}

	var req dto.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	store, err := h.storeService.Create(c.Request.Context(), ac.User, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Store created", dto.NewStoreResponse(store, nil))
}

// List returns a page of stores
func (h *StoreHandler) List(c *gin.Context) {
	var query dto.StoreListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, bindError(err))
		return
	}

	stores, total, err := h.storeService.List(c.Request.Context(), &query)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.StoreResponse, 0, len(stores))
	for _, s := range stores {
		out = append(out, dto.NewStoreResponse(s, nil))
	}

	totalPages := total / query.Limit
	if total%query.Limit > 0 {
		totalPages++
	}

	respondOK(c, http.StatusOK, "", dto.StoreListResponse{
		Stores: out,
		Pagination: dto.Pagination{
			Page:       query.Page,
			Limit:      query.Limit,
			Total:      int64(total),
			TotalPages: totalPages,
		},
	})
}

// Get returns one store with its aggregate counts
func (h *StoreHandler) Get(c *gin.Context) {
	store, counts, err := h.storeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "", dto.NewStoreResponse(store, counts))
}

// Update applies partial changes to a store
func (h *StoreHandler) Update(c *gin.Context) {
	var req dto.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	store, err := h.storeService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Store updated", dto.NewStoreResponse(store, nil))
}

// Delete removes an empty store
func (h *StoreHandler) Delete(c *gin.Context) {
	if err := h.storeService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Store deleted", nil)
}

// ListUsers returns the users of a store
func (h *StoreHandler) ListUsers(c *gin.Context) {
	ac, ok := GetAuthContext(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Authentication required"))
		return
	}

	storeID := c.Param("id")
	if err := requireStoreAccess(ac, storeID); err != nil {
		respondError(c, err)
		return
	}

	users, err := h.storeService.ListUsers(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}

	respondOK(c, http.StatusOK, "", gin.H{"users": out})
}

// ListWarehouses returns the warehouses of a store
func (h *StoreHandler) ListWarehouses(c *gin.Context) {
	ac, ok := GetAuthContext(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Authentication required"))
		return
	}

	storeID := c.Param("id")
	if err := requireStoreAccess(ac, storeID); err != nil {
		respondError(c, err)
		return
	}

	warehouses, err := h.storeService.ListWarehouses(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "", gin.H{"warehouses": warehouses})
}
