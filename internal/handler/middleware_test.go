package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/darkhorse3pl/auth-service/internal/apperrors"
	"github.com/darkhorse3pl/auth-service/internal/domain"
	"github.com/darkhorse3pl/auth-service/internal/dto"
	"github.com/darkhorse3pl/auth-service/internal/service"
)

// stubAuthService returns a canned Authenticate result.
type stubAuthService struct {
	authed *service.Authenticated
	err    error
}

func (s *stubAuthService) Login(ctx context.Context, req *dto.LoginRequest, meta *domain.SessionMetadata) (*service.AuthResult, error) {
	return nil, apperrors.Unauthorized("not implemented")
}

func (s *stubAuthService) Authenticate(ctx context.Context, authHeader string) (*service.Authenticated, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.authed, nil
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*service.AuthResult, error) {
	return nil, apperrors.Unauthorized("not implemented")
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string) error { return nil }

func (s *stubAuthService) LogoutAll(ctx context.Context, userID string) (int, error) { return 0, nil }

func (s *stubAuthService) GetMe(ctx context.Context, userID string) (*domain.User, error) {
	return nil, apperrors.NotFound("not implemented")
}

func authedAs(role domain.Role) *service.Authenticated {
	return &service.Authenticated{
		User:    &domain.User{ID: "u1", Email: "u@example.com", Role: role, Status: domain.UserStatusActive},
		Session: &domain.Session{ID: "s1", UserID: "u1"},
		Claims:  &domain.TokenClaims{UserID: "u1", SessionID: "s1"},
	}
}

func perform(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAttachesContext(t *testing.T) {
	svc := &stubAuthService{authed: authedAs(domain.RoleManager)}

	router := gin.New()
	router.GET("/protected", AuthMiddleware(svc), func(c *gin.Context) {
		ac, ok := GetAuthContext(c)
		assert.True(t, ok)
		assert.Equal(t, "u1", ac.User.ID)
		assert.Equal(t, "s1", ac.SessionID)
		c.Status(http.StatusOK)
	})

	w := perform(router, http.MethodGet, "/protected")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Token-Expires-Soon"))
}

func TestAuthMiddlewareExpiryHeader(t *testing.T) {
	authed := authedAs(domain.RoleManager)
	authed.TokenExpiresSoon = true
	svc := &stubAuthService{authed: authed}

	router := gin.New()
	router.GET("/protected", AuthMiddleware(svc), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := perform(router, http.MethodGet, "/protected")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Token-Expires-Soon"))
}

func TestAuthMiddlewareRejects(t *testing.T) {
	svc := &stubAuthService{err: apperrors.Unauthorized("Session has expired")}

	router := gin.New()
	called := false
	router.GET("/protected", AuthMiddleware(svc), func(c *gin.Context) {
		called = true
	})

	w := perform(router, http.MethodGet, "/protected")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called, "handler must not run after rejection")
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name    string
		role    domain.Role
		allowed []domain.Role
		want    int
	}{
		{"exact match", domain.RoleSuperAdmin, []domain.Role{domain.RoleSuperAdmin}, http.StatusOK},
		{"one of several", domain.RoleStoreAdmin, []domain.Role{domain.RoleSuperAdmin, domain.RoleStoreAdmin}, http.StatusOK},
		{"wrong role", domain.RolePicker, []domain.Role{domain.RoleSuperAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAuthService{authed: authedAs(tt.role)}

			router := gin.New()
			router.GET("/restricted", AuthMiddleware(svc), RequireRoles(tt.allowed...), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := perform(router, http.MethodGet, "/restricted")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRequireStoreAccess(t *testing.T) {
	storeID := "store-1"
	otherID := "store-2"

	superAdmin := &AuthContext{User: &domain.User{Role: domain.RoleSuperAdmin}}
	assert.NoError(t, requireStoreAccess(superAdmin, storeID))

	ownStore := &AuthContext{User: &domain.User{Role: domain.RoleStoreAdmin, StoreID: &storeID}}
	assert.NoError(t, requireStoreAccess(ownStore, storeID))

	err := requireStoreAccess(ownStore, otherID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	unassigned := &AuthContext{User: &domain.User{Role: domain.RoleStoreAdmin}}
	err = requireStoreAccess(unassigned, storeID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestDeviceTypeFrom(t *testing.T) {
	assert.Equal(t, "mobile", deviceTypeFrom("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)"))
	assert.Equal(t, "tablet", deviceTypeFrom("Mozilla/5.0 (iPad; CPU OS 16_0)"))
	assert.Equal(t, "desktop", deviceTypeFrom("Mozilla/5.0 (X11; Linux x86_64)"))
	assert.Equal(t, "", deviceTypeFrom(""))
}
