package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/darkhorse3pl/auth-service/internal/apperrors"
	"github.com/darkhorse3pl/auth-service/internal/domain"
	"github.com/darkhorse3pl/auth-service/internal/dto"
	"github.com/darkhorse3pl/auth-service/internal/repository"
	"github.com/darkhorse3pl/auth-service/internal/utils"
)

// storeService implements StoreService interface
type storeService struct {
	storeRepo repository.StoreRepository
	logger    *zap.Logger
}

// NewStoreService creates a new store service
func NewStoreService(storeRepo repository.StoreRepository, logger *zap.Logger) StoreService {
	return &storeService{storeRepo: storeRepo, logger: logger}
}

// Create registers a new store tenant.
func (s *storeService) Create(ctx context.Context, actor *domain.User, req *dto.CreateStoreRequest) (*domain.Store, error) {
	if !utils.ValidateSlug(req.Slug) {
		return nil, apperrors.Validation("Slug must be lowercase letters, digits and hyphens")
	}

	store := &domain.Store{
		Name:      req.Name,
		Slug:      req.Slug,
		IsActive:  true,
		CreatedBy: actor.ID,
	}

	if err := s.storeRepo.Create(ctx, store); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, apperrors.Conflict("A store with this name or slug already exists")
		}
		return nil, apperrors.Database("create store", err)
	}

	s.logger.Info("store created",
		zap.String("store_id", store.ID),
		zap.String("slug", store.Slug),
		zap.String("created_by", actor.ID),
	)

	return store, nil
}

// Get returns one store with its aggregate counts.
func (s *storeService) Get(ctx context.Context, id string) (*domain.Store, *domain.StoreCounts, error) {
	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.NotFound("Store not found")
		}
		return nil, nil, apperrors.Database("get store", err)
	}

	counts, err := s.storeRepo.Counts(ctx, id)
	if err != nil {
		return nil, nil, apperrors.Database("get store counts", err)
	}

	return store, counts, nil
}

// List returns a page of stores matching the query.
func (s *storeService) List(ctx context.Context, query *dto.StoreListQuery) ([]*domain.Store, int, error) {
	stores, total, err := s.storeRepo.List(ctx, repository.ListParams{
		Page:      query.Page,
		Limit:     query.Limit,
		Search:    query.Search,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	})
	if err != nil {
		return nil, 0, apperrors.Database("list stores", err)
	}
	return stores, total, nil
}

// Update applies partial changes to a store.
func (s *storeService) Update(ctx context.Context, id string, req *dto.UpdateStoreRequest) (*domain.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Store not found")
		}
		return nil, apperrors.Database("get store", err)
	}

	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.Slug != nil {
		if !utils.ValidateSlug(*req.Slug) {
			return nil, apperrors.Validation("Slug must be lowercase letters, digits and hyphens")
		}
		store.Slug = *req.Slug
	}
	if req.IsActive != nil {
		store.IsActive = *req.IsActive
	}

	if err := s.storeRepo.Update(ctx, store); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateSlug):
			return nil, apperrors.Conflict("A store with this name or slug already exists")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("Store not found")
		}
		return nil, apperrors.Database("update store", err)
	}

	return store, nil
}

// Delete removes an empty store. Stores that still hold users or
// warehouses cannot be deleted; deactivate them instead.
func (s *storeService) Delete(ctx context.Context, id string) error {
	counts, err := s.storeRepo.Counts(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Store not found")
		}
		return apperrors.Database("get store counts", err)
	}

	if counts.Users > 0 || counts.Warehouses > 0 {
		return apperrors.Conflict("Store still has users or warehouses and cannot be deleted")
	}

	if err := s.storeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Store not found")
		}
		return apperrors.Database("delete store", err)
	}

	s.logger.Info("store deleted", zap.String("store_id", id))
	return nil
}

// ListUsers returns all users belonging to a store.
func (s *storeService) ListUsers(ctx context.Context, storeID string) ([]*domain.User, error) {
	if _, err := s.storeRepo.GetByID(ctx, storeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Store not found")
		}
		return nil, apperrors.Database("get store", err)
	}

	users, err := s.storeRepo.ListUsers(ctx, storeID)
	if err != nil {
		return nil, apperrors.Database("list store users", err)
	}
	return users, nil
}

// ListWarehouses returns all warehouses belonging to a store.
func (s *storeService) ListWarehouses(ctx context.Context, storeID string) ([]*domain.Warehouse, error) {
	if _, err := s.storeRepo.GetByID(ctx, storeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("Store not found")
		}
		return nil, apperrors.Database("get store", err)
	}

	warehouses, err := s.storeRepo.ListWarehouses(ctx, storeID)
	if err != nil {
		return nil, apperrors.Database("list store warehouses", err)
	}
	return warehouses, nil
}
