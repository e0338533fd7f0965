package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/darkhorse3pl/auth-service/internal/apperrors"
	"github.com/darkhorse3pl/auth-service/internal/domain"
	"github.com/darkhorse3pl/auth-service/internal/service"
)

// AuthMiddleware verifies the bearer token, resolves its session and
// user, and attaches an AuthContext. A session expiring soon gets an
// X-Token-Expires-Soon header so clients can refresh proactively.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authed, err := authService.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			abortError(c, err)
			return
		}

		if authed.TokenExpiresSoon {
			c.Header("X-Token-Expires-Soon", "true")
		}

		setAuthContext(c, &AuthContext{
			User:      authed.User,
			SessionID: authed.Session.ID,
			Claims:    authed.Claims,
		})

		c.Next()
	}
}

// RequireRoles restricts a route to the given roles. It must run after
// AuthMiddleware.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := GetAuthContext(c)
		if !ok {
			abortError(c, apperrors.Unauthorized("Authentication required"))
			return
		}

		for _, role := range roles {
			if ac.User.Role == role {
				c.Next()
				return
			}
		}

		abortError(c, apperrors.Forbidden("Insufficient role for this operation"))
	}
}

// requireStoreAccess lets SUPER_ADMIN touch any store and everyone else
// only their own.
func requireStoreAccess(ac *AuthContext, storeID string) error {
	if !ac.User.Role.StoreScoped() {
		return nil
	}
	if ac.User.StoreID != nil && *ac.User.StoreID == storeID {
		return nil
	}
	return apperrors.Forbidden("You can only access your own store")
}

// sessionMetadata captures request context for the session row.
func sessionMetadata(c *gin.Context) *domain.SessionMetadata {
	ua := c.Request.UserAgent()
	return &domain.SessionMetadata{
		UserAgent:  ua,
		IPAddress:  c.ClientIP(),
		DeviceType: deviceTypeFrom(ua),
	}
}

func deviceTypeFrom(userAgent string) string {
	if userAgent == "" {
		return ""
	}
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "android"), strings.Contains(ua, "iphone"):
		return "mobile"
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"):
		return "tablet"
	}
	return "desktop"
}
